package web

import (
	"net/http"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/attendance"
)

// attendanceEntry is a record with the member's display name.
type attendanceEntry struct {
	attendance.Record
	MemberName string `json:"member_name"`
}

func (s *server) attendanceDeps() orchestrators.AttendanceDeps {
	return orchestrators.AttendanceDeps{
		AttendanceStore: s.stores.Attendance,
		Sessions:        s.stores.Sessions,
		GenerateID:      generateID,
		Now:             s.now,
	}
}

// handleListAttendance returns the attendance sheet of a session.
func (s *server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.PathValue("id")
	if _, err := s.stores.Sessions.GetByID(ctx, sessionID); err != nil {
		writeError(w, err)
		return
	}
	records, err := s.stores.Attendance.ListBySession(ctx, sessionID)
	if err != nil {
		internalError(w, err)
		return
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.MemberID
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		members, err := s.stores.Members.ListByIDs(ctx, ids)
		if err != nil {
			internalError(w, err)
			return
		}
		for _, m := range members {
			names[m.ID] = m.FullName()
		}
	}

	entries := make([]attendanceEntry, len(records))
	for i, rec := range records {
		entries[i] = attendanceEntry{Record: rec, MemberName: names[rec.MemberID]}
	}
	writeJSON(w, http.StatusOK, entries)
}

type attendanceRequest struct {
	MemberID   string `json:"member_id"`
	Status     string `json:"status"`
	Note       string `json:"note"`
	RecordedBy string `json:"recorded_by"`
}

// handleRecordAttendance upserts the member's record for the session.
func (s *server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !s.knownReference(w, r, req.MemberID, "member", s.memberExists) {
		return
	}
	record, err := orchestrators.ExecuteRecordAttendance(r.Context(), orchestrators.RecordAttendanceInput{
		SessionID:  r.PathValue("id"),
		MemberID:   req.MemberID,
		Status:     req.Status,
		Note:       req.Note,
		RecordedBy: req.RecordedBy,
	}, s.attendanceDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) handleUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status     string `json:"status"`
		Note       string `json:"note"`
		RecordedBy string `json:"recorded_by"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	record, err := orchestrators.ExecuteUpdateAttendance(r.Context(), orchestrators.UpdateAttendanceInput{
		ID:         r.PathValue("id"),
		Status:     req.Status,
		Note:       req.Note,
		RecordedBy: req.RecordedBy,
	}, s.attendanceDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteAttendance(r.Context(), r.PathValue("id"), s.attendanceDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
