package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	memberStore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/member"
)

// maxImportBytes caps the size of an uploaded member CSV.
const maxImportBytes = 5 << 20

func (s *server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := intParam(w, r, "offset")
	if !ok {
		return
	}
	q := r.URL.Query()
	members, err := s.stores.Members.List(r.Context(), memberStore.ListFilter{
		Limit:      limit,
		Offset:     offset,
		CategoryID: q.Get("category_id"),
		ActiveOnly: boolParam(r, "active"),
		Search:     strings.TrimSpace(q.Get("q")),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if members == nil {
		members = []member.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegistrationNumber string `json:"registration_number"`
		Name               string `json:"name"`
		Surname            string `json:"surname"`
		DateOfBirth        string `json:"date_of_birth"`
		Sex                string `json:"sex"`
		CategoryID         string `json:"category_id"`
		Email              string `json:"email"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !s.knownReference(w, r, req.CategoryID, "category", s.categoryExists) {
		return
	}
	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput(req), orchestrators.RegisterMemberDeps{
		MemberStore: s.stores.Members,
		GenerateID:  generateID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleImportMembers imports a member CSV sent either as the "file" field of a
// multipart form or as the raw request body.
// Query parameters: dry_run, update, category_id (default category), sex (default sex).
func (s *server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		src = file
	}

	q := r.URL.Query()
	result, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:            src,
		ImportedBy:        r.Header.Get("X-Imported-By"),
		DefaultCategoryID: q.Get("category_id"),
		DefaultSex:        q.Get("sex"),
		DryRun:            boolParam(r, "dry_run"),
		UpdateMode:        boolParam(r, "update"),
	}, orchestrators.ImportMembersDeps{
		MemberStore: s.stores.Members,
		GenerateID:  generateID,
	})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
