package attendance

import (
	"context"

	domain "clubhouse/internal/domain/attendance"
)

// Store persists attendance records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	GetByMemberAndSession(ctx context.Context, memberID, sessionID string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	Delete(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Record, error)
	ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.Record, error)
	// CreateForMembers inserts one record per member with the given status.
	// Members that already have a record for the session are left untouched.
	CreateForMembers(ctx context.Context, sessionID string, memberIDs []string, status, recordedBy string) (int, error)
	// SetStatusForSession overwrites the status of every record of the session.
	SetStatusForSession(ctx context.Context, sessionID, status string) (int, error)
}
