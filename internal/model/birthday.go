package model

import "github.com/golang-sql/civil"

// Birthday represents a birthday entry in the database.
type Birthday struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Birthdate civil.Date
	Comment   string
}

// BirthdayRequest represents a create request. Birthdate is kept as the raw
// string so that validation can report a field-level reason.
type BirthdayRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthdate string `json:"birthdate"`
	Comment   string `json:"comment"`
}

// BirthdayPatch represents a partial update. Nil fields are left unchanged.
type BirthdayPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Birthdate *string `json:"birthdate"`
	Comment   *string `json:"comment"`
}

// BirthdayResponse represents a birthday entry in API responses.
type BirthdayResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Birthdate civil.Date `json:"birthdate"`
	Comment   string     `json:"comment"`
}

// ToResponse converts a stored birthday to its API representation.
func (b Birthday) ToResponse() BirthdayResponse {
	return BirthdayResponse{
		ID:        b.ID,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Birthdate: b.Birthdate,
		Comment:   b.Comment,
	}
}
