package orchestrators

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"clubhouse/internal/domain/lineup"
	"clubhouse/internal/domain/member"
)

func rosterFixture() (*fakeLineups, *fakeMembers) {
	lineups := newFakeLineups()
	members := newFakeMembers(
		member.Member{ID: "m1", CategoryID: "u12", Active: true},
		member.Member{ID: "m2", CategoryID: "u12", Active: true},
		member.Member{ID: "m3", CategoryID: "u12", Active: false},
		member.Member{ID: "m4", CategoryID: "u14", Active: true},
	)
	return lineups, members
}

// TestRosterResolver_PrefersLineup uses the active lineup when it has members.
func TestRosterResolver_PrefersLineup(t *testing.T) {
	lineups, members := rosterFixture()
	lineups.lineups["l1"] = lineup.Lineup{ID: "l1", CategoryID: "u12", SeasonID: "2024", Name: "A", Active: true}
	lineups.memberships["l1"] = map[string]bool{"m2": true, "m4": true, "m1": false}

	ids, err := RosterResolver{Lineups: lineups, Members: members}.ActiveRosterMemberIDs(context.Background(), "u12", "2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"m2", "m4"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids=%v want %v", ids, want)
	}
}

// TestRosterResolver_FallsBackToCategory covers missing and empty lineups.
func TestRosterResolver_FallsBackToCategory(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeLineups)
	}{
		{"no lineup", func(*fakeLineups) {}},
		{"empty lineup", func(l *fakeLineups) {
			l.lineups["l1"] = lineup.Lineup{ID: "l1", CategoryID: "u12", SeasonID: "2024", Name: "A", Active: true}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lineups, members := rosterFixture()
			tt.setup(lineups)
			ids, err := RosterResolver{Lineups: lineups, Members: members}.ActiveRosterMemberIDs(context.Background(), "u12", "2024")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := []string{"m1", "m2"}; !reflect.DeepEqual(ids, want) {
				t.Errorf("ids=%v want %v", ids, want)
			}
		})
	}
}

// TestRosterResolver_PropagatesLookupErrors does not mask unexpected failures.
func TestRosterResolver_PropagatesLookupErrors(t *testing.T) {
	lineups, members := rosterFixture()
	lineups.findErr = errBoom
	_, err := RosterResolver{Lineups: lineups, Members: members}.ActiveRosterMemberIDs(context.Background(), "u12", "2024")
	if !errors.Is(err, errBoom) {
		t.Errorf("err=%v want boom", err)
	}

	lineups.findErr = nil
	members.listErr = errBoom
	_, err = RosterResolver{Lineups: lineups, Members: members}.ActiveRosterMemberIDs(context.Background(), "u12", "2024")
	if !errors.Is(err, errBoom) {
		t.Errorf("err=%v want boom", err)
	}
}
