package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Date layouts accepted for date of birth. Stored values are always ISO.
const (
	ISODateLayout   = "2006-01-02"
	LocalDateLayout = "02.01.2006"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("member first name cannot be empty")
	ErrEmptySurname     = errors.New("member surname cannot be empty")
	ErrNameTooLong      = errors.New("member name cannot exceed 100 characters")
	ErrInvalidSex       = errors.New("sex must be 'male' or 'female'")
	ErrInvalidEmail     = errors.New("member email must be valid")
	ErrInvalidBirthDate = errors.New("date of birth must be DD.MM.YYYY or YYYY-MM-DD")
	ErrAlreadyInactive  = errors.New("member is already inactive")
)

// Member is a registered player of the club.
type Member struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`
	Surname            string `json:"surname"`
	DateOfBirth        string `json:"date_of_birth"` // YYYY-MM-DD or empty
	Sex                string `json:"sex"`
	CategoryID         string `json:"category_id"`
	Email              string `json:"email"` // optional contact for notices
	Active             bool   `json:"active"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Surname must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Surname) == "" {
		return ErrEmptySurname
	}
	if len(m.Name) > MaxNameLength || len(m.Surname) > MaxNameLength {
		return ErrNameTooLong
	}
	if m.Sex != SexMale && m.Sex != SexFemale {
		return ErrInvalidSex
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if m.DateOfBirth != "" {
		if _, err := time.Parse(ISODateLayout, m.DateOfBirth); err != nil {
			return ErrInvalidBirthDate
		}
	}
	return nil
}

// FullName returns "Name Surname".
func (m *Member) FullName() string {
	return strings.TrimSpace(m.Name + " " + m.Surname)
}

// Deactivate marks the member as no longer playing.
// PRE: Member is active
// POST: Active is false
func (m *Member) Deactivate() error {
	if !m.Active {
		return ErrAlreadyInactive
	}
	m.Active = false
	return nil
}

// NormalizeBirthDate converts DD.MM.YYYY to YYYY-MM-DD and accepts ISO as-is.
// Empty input stays empty.
func NormalizeBirthDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse(LocalDateLayout, value); err == nil {
		return t.Format(ISODateLayout), nil
	}
	// Single-digit day and month as written on paper forms.
	if t, err := time.Parse("2.1.2006", value); err == nil {
		return t.Format(ISODateLayout), nil
	}
	if _, err := time.Parse(ISODateLayout, value); err == nil {
		return value, nil
	}
	return "", ErrInvalidBirthDate
}

// NormalizeSex maps free-form input to SexMale or SexFemale, defaulting to male.
func NormalizeSex(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "f", "female", "z", "zena", "žena":
		return SexFemale
	default:
		return SexMale
	}
}
