package service

import (
	"context"
	"sort"
	"sync"

	"github.com/birthdays/birthdays-go/internal/model"
	"github.com/birthdays/birthdays-go/internal/repository"
)

// memUsers is an in-memory UserStore with a unique email constraint.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*model.User
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{byMail: make(map[string]*model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byMail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.byMail[user.Email] = &stored
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byMail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byMail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) remove(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byMail, email)
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byMail)
}

// memBirthdays is an in-memory BirthdayStore scoped by owner.
type memBirthdays struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Birthday
	err    error
}

func newMemBirthdays() *memBirthdays {
	return &memBirthdays{rows: make(map[int64]model.Birthday)}
}

func (m *memBirthdays) ListByUser(_ context.Context, userID int64) ([]model.Birthday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Birthday
	for _, b := range m.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBirthdays) Create(_ context.Context, b *model.Birthday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	b.ID = m.nextID
	m.rows[b.ID] = *b
	return nil
}

func (m *memBirthdays) Update(_ context.Context, userID, id int64, c repository.BirthdayChanges) (*model.Birthday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok || b.UserID != userID {
		return nil, repository.ErrBirthdayNotFound
	}
	if c.FirstName != nil {
		b.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		b.LastName = *c.LastName
	}
	if c.Birthdate != nil {
		b.Birthdate = *c.Birthdate
	}
	if c.Comment != nil {
		b.Comment = *c.Comment
	}
	m.rows[id] = b
	return &b, nil
}

func (m *memBirthdays) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok || b.UserID != userID {
		return repository.ErrBirthdayNotFound
	}
	delete(m.rows, id)
	return nil
}
