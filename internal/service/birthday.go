package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-sql/civil"

	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/repository"
)

var ErrBirthdayNotFound = errors.New("birthday not found")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// BirthdayStore is the owner-scoped persistence the BirthdayService relies on.
type BirthdayStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Birthday, error)
	Create(ctx context.Context, b *model.Birthday) error
	Update(ctx context.Context, userID, id int64, changes repository.BirthdayChanges) (*model.Birthday, error)
	Delete(ctx context.Context, userID, id int64) error
}

// BirthdayService handles birthday business logic. Every operation takes the
// owner's id from the authenticated identity.
type BirthdayService struct {
	repo BirthdayStore
}

// NewBirthdayService creates a new BirthdayService.
func NewBirthdayService(repo BirthdayStore) *BirthdayService {
	return &BirthdayService{repo: repo}
}

// List returns all birthdays owned by ownerID, never nil.
func (s *BirthdayService) List(ctx context.Context, ownerID int64) ([]model.BirthdayResponse, error) {
	birthdays, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return birthdaysToResponse(birthdays), nil
}

// Create validates and stores a new birthday for ownerID.
func (s *BirthdayService) Create(ctx context.Context, ownerID int64, req model.BirthdayRequest) (model.BirthdayResponse, error) {
	firstName, err := requiredString("firstName", req.FirstName)
	if err != nil {
		return model.BirthdayResponse{}, err
	}
	lastName, err := requiredString("lastName", req.LastName)
	if err != nil {
		return model.BirthdayResponse{}, err
	}
	if strings.TrimSpace(req.Birthdate) == "" {
		return model.BirthdayResponse{}, &ValidationError{Field: "birthdate", Reason: "is required"}
	}
	birthdate, err := parseBirthdate(req.Birthdate)
	if err != nil {
		return model.BirthdayResponse{}, err
	}

	b := model.Birthday{
		UserID:    ownerID,
		FirstName: firstName,
		LastName:  lastName,
		Birthdate: birthdate,
		Comment:   req.Comment,
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return model.BirthdayResponse{}, err
	}

	return b.ToResponse(), nil
}

// Update merges the provided fields into a birthday owned by ownerID.
func (s *BirthdayService) Update(ctx context.Context, ownerID, id int64, patch model.BirthdayPatch) (model.BirthdayResponse, error) {
	var changes repository.BirthdayChanges

	if patch.FirstName != nil {
		v, err := requiredString("firstName", *patch.FirstName)
		if err != nil {
			return model.BirthdayResponse{}, err
		}
		changes.FirstName = &v
	}
	if patch.LastName != nil {
		v, err := requiredString("lastName", *patch.LastName)
		if err != nil {
			return model.BirthdayResponse{}, err
		}
		changes.LastName = &v
	}
	if patch.Birthdate != nil {
		d, err := parseBirthdate(*patch.Birthdate)
		if err != nil {
			return model.BirthdayResponse{}, err
		}
		changes.Birthdate = &d
	}
	changes.Comment = patch.Comment

	b, err := s.repo.Update(ctx, ownerID, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrBirthdayNotFound) {
			return model.BirthdayResponse{}, ErrBirthdayNotFound
		}
		return model.BirthdayResponse{}, err
	}

	return b.ToResponse(), nil
}

// Delete removes a birthday owned by ownerID.
func (s *BirthdayService) Delete(ctx context.Context, ownerID, id int64) error {
	err := s.repo.Delete(ctx, ownerID, id)
	if errors.Is(err, repository.ErrBirthdayNotFound) {
		return ErrBirthdayNotFound
	}
	return err
}

func requiredString(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	return v, nil
}

func parseBirthdate(v string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(v))
	if err != nil || !d.IsValid() {
		return civil.Date{}, &ValidationError{Field: "birthdate", Reason: "must be a calendar date formatted YYYY-MM-DD"}
	}
	return d, nil
}

// birthdaysToResponse converts stored birthdays to API responses.
func birthdaysToResponse(birthdays []model.Birthday) []model.BirthdayResponse {
	result := make([]model.BirthdayResponse, len(birthdays))
	for i, b := range birthdays {
		result[i] = b.ToResponse()
	}
	return result
}
