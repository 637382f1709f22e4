package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	memberStore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/lineup"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/trainingsession"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqIDs returns a generator producing prefix-1, prefix-2, ...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errBoom = errors.New("boom")

// fakeSessionStore is an in-memory SessionStore. Saves for dates in failOn return errBoom.
type fakeSessionStore struct {
	sessions map[string]trainingsession.TrainingSession
	order    []string
	failOn   map[string]bool
	getErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]trainingsession.TrainingSession),
		failOn:   make(map[string]bool),
	}
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (trainingsession.TrainingSession, error) {
	if f.getErr != nil {
		return trainingsession.TrainingSession{}, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return trainingsession.TrainingSession{}, fmt.Errorf("training session not found: %w", sql.ErrNoRows)
	}
	return s, nil
}

func (f *fakeSessionStore) Save(_ context.Context, s trainingsession.TrainingSession) error {
	if f.failOn[s.SessionDate] {
		return errBoom
	}
	if _, ok := f.sessions[s.ID]; !ok {
		f.order = append(f.order, s.ID)
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) ListByCategoryAndSeason(_ context.Context, categoryID, seasonID string) ([]trainingsession.TrainingSession, error) {
	out := []trainingsession.TrainingSession{}
	for _, id := range f.order {
		s, ok := f.sessions[id]
		if ok && s.CategoryID == categoryID && s.SeasonID == seasonID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeAttendanceStore is an in-memory attendance store keyed by record ID.
type fakeAttendanceStore struct {
	records   map[string]attendance.Record
	seq       int
	createErr error
	setErr    error
	calls     int
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[string]attendance.Record)}
}

func (f *fakeAttendanceStore) GetByID(_ context.Context, id string) (attendance.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return attendance.Record{}, fmt.Errorf("attendance not found: %w", sql.ErrNoRows)
	}
	return r, nil
}

func (f *fakeAttendanceStore) GetByMemberAndSession(_ context.Context, memberID, sessionID string) (attendance.Record, error) {
	for _, r := range f.records {
		if r.MemberID == memberID && r.SessionID == sessionID {
			return r, nil
		}
	}
	return attendance.Record{}, fmt.Errorf("attendance not found: %w", sql.ErrNoRows)
}

func (f *fakeAttendanceStore) Save(_ context.Context, r attendance.Record) error {
	f.records[r.ID] = r
	return nil
}

func (f *fakeAttendanceStore) Delete(_ context.Context, id string) error {
	delete(f.records, id)
	return nil
}

func (f *fakeAttendanceStore) ListBySession(_ context.Context, sessionID string) ([]attendance.Record, error) {
	out := []attendance.Record{}
	for _, r := range f.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (f *fakeAttendanceStore) CreateForMembers(ctx context.Context, sessionID string, memberIDs []string, status, recordedBy string) (int, error) {
	f.calls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	n := 0
	for _, m := range memberIDs {
		if _, err := f.GetByMemberAndSession(ctx, m, sessionID); err == nil {
			continue
		}
		f.seq++
		id := fmt.Sprintf("att-%d", f.seq)
		f.records[id] = attendance.Record{ID: id, MemberID: m, SessionID: sessionID, Status: status, RecordedBy: recordedBy}
		n++
	}
	return n, nil
}

func (f *fakeAttendanceStore) SetStatusForSession(_ context.Context, sessionID, status string) (int, error) {
	if f.setErr != nil {
		return 0, f.setErr
	}
	n := 0
	for id, r := range f.records {
		if r.SessionID == sessionID {
			r.Status = status
			f.records[id] = r
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendanceStore) forSession(sessionID string) []attendance.Record {
	out, _ := f.ListBySession(context.Background(), sessionID)
	return out
}

// fakeRoster returns a fixed member list or error.
type fakeRoster struct {
	ids   []string
	err   error
	calls int
}

func (f *fakeRoster) ActiveRosterMemberIDs(_ context.Context, _, _ string) ([]string, error) {
	f.calls++
	return f.ids, f.err
}

// fakeMembers is an in-memory member directory.
type fakeMembers struct {
	members map[string]member.Member
	listErr error
}

func newFakeMembers(ms ...member.Member) *fakeMembers {
	f := &fakeMembers{members: make(map[string]member.Member)}
	for _, m := range ms {
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMembers) GetByID(_ context.Context, id string) (member.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member not found: %w", sql.ErrNoRows)
	}
	return m, nil
}

func (f *fakeMembers) GetByRegistrationNumber(_ context.Context, reg string) (member.Member, error) {
	for _, m := range f.members {
		if m.RegistrationNumber == reg {
			return m, nil
		}
	}
	return member.Member{}, fmt.Errorf("member not found: %w", sql.ErrNoRows)
}

func (f *fakeMembers) Save(_ context.Context, m member.Member) error {
	f.members[m.ID] = m
	return nil
}

func (f *fakeMembers) List(_ context.Context, filter memberStore.ListFilter) ([]member.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []member.Member{}
	for _, m := range f.members {
		if filter.CategoryID != "" && m.CategoryID != filter.CategoryID {
			continue
		}
		if filter.ActiveOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMembers) ListByIDs(_ context.Context, ids []string) ([]member.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []member.Member{}
	for _, id := range ids {
		if m, ok := f.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeLineups is an in-memory lineup store.
type fakeLineups struct {
	lineups     map[string]lineup.Lineup
	memberships map[string]map[string]bool
	findErr     error
}

func newFakeLineups() *fakeLineups {
	return &fakeLineups{
		lineups:     make(map[string]lineup.Lineup),
		memberships: make(map[string]map[string]bool),
	}
}

func (f *fakeLineups) GetByID(_ context.Context, id string) (lineup.Lineup, error) {
	l, ok := f.lineups[id]
	if !ok {
		return lineup.Lineup{}, fmt.Errorf("lineup not found: %w", sql.ErrNoRows)
	}
	return l, nil
}

func (f *fakeLineups) Save(_ context.Context, l lineup.Lineup) error {
	f.lineups[l.ID] = l
	return nil
}

func (f *fakeLineups) FindActive(_ context.Context, categoryID, seasonID string) (lineup.Lineup, error) {
	if f.findErr != nil {
		return lineup.Lineup{}, f.findErr
	}
	for _, l := range f.lineups {
		if l.CategoryID == categoryID && l.SeasonID == seasonID && l.Active {
			return l, nil
		}
	}
	return lineup.Lineup{}, fmt.Errorf("lineup not found: %w", sql.ErrNoRows)
}

func (f *fakeLineups) SaveMembership(_ context.Context, m lineup.Membership) error {
	if f.memberships[m.LineupID] == nil {
		f.memberships[m.LineupID] = make(map[string]bool)
	}
	f.memberships[m.LineupID][m.MemberID] = m.Active
	return nil
}

func (f *fakeLineups) RemoveMembership(_ context.Context, lineupID, memberID string) error {
	delete(f.memberships[lineupID], memberID)
	return nil
}

func (f *fakeLineups) ActiveMemberIDs(_ context.Context, lineupID string) ([]string, error) {
	ids := []string{}
	for id, active := range f.memberships[lineupID] {
		if active {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
