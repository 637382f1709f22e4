package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clubhouse/internal/domain/member"
)

// MemberStore defines the interface for member persistence.
type MemberStore interface {
	Save(ctx context.Context, m member.Member) error
	GetByID(ctx context.Context, id string) (member.Member, error)
	GetByRegistrationNumber(ctx context.Context, registrationNumber string) (member.Member, error)
}

// ErrDuplicateRegistration is returned when the registration number is taken.
var ErrDuplicateRegistration = errors.New("registration number already in use")

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	RegistrationNumber string
	Name               string
	Surname            string
	DateOfBirth        string
	Sex                string
	CategoryID         string
	Email              string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStore
	GenerateID  func() string
}

// ExecuteRegisterMember coordinates member registration.
// PRE: Non-empty name and surname
// POST: Member created with ID, Active=true
// INVARIANT: Registration number is unique when present
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	dob, err := member.NormalizeBirthDate(input.DateOfBirth)
	if err != nil {
		return member.Member{}, err
	}
	m := member.Member{
		ID:                 deps.GenerateID(),
		RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		Name:               strings.TrimSpace(input.Name),
		Surname:            strings.TrimSpace(input.Surname),
		DateOfBirth:        dob,
		Sex:                member.NormalizeSex(input.Sex),
		CategoryID:         input.CategoryID,
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Active:             true,
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if m.RegistrationNumber != "" {
		_, err := deps.MemberStore.GetByRegistrationNumber(ctx, m.RegistrationNumber)
		switch {
		case err == nil:
			return member.Member{}, ErrDuplicateRegistration
		case !errors.Is(err, sql.ErrNoRows):
			return member.Member{}, fmt.Errorf("check registration number: %w", err)
		}
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	slog.Info("member_registered", "member_id", m.ID, "category_id", m.CategoryID)
	return m, nil
}
