package web

import (
	"database/sql"
	"errors"
	"net/http"

	"clubhouse/internal/adapters/calendar"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/category"
)

func (s *server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.stores.Categories.List(r.Context(), boolParam(r, "active"))
	if err != nil {
		internalError(w, err)
		return
	}
	if categories == nil {
		categories = []category.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		AgeGroup    string `json:"age_group"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	c, err := orchestrators.ExecuteCreateCategory(r.Context(), orchestrators.CreateCategoryInput(req), orchestrators.CreateCategoryDeps{
		CategoryStore: s.stores.Categories,
		GenerateID:    generateID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleCategoryCalendar serves the season's sessions of a category as an iCalendar feed.
func (s *server) handleCategoryCalendar(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "season_id")
	if !ok {
		return
	}
	ctx := r.Context()
	c, err := s.stores.Categories.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sessions, err := s.stores.Sessions.ListByCategoryAndSeason(ctx, c.ID, params[0])
	if err != nil {
		internalError(w, err)
		return
	}
	feed := calendar.Feed{Name: c.Name, Location: s.opts.Location, Now: s.now()}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="`+feed.Filename()+`"`)
	w.Write([]byte(feed.Render(sessions)))
}

func (s *server) lineupDeps() orchestrators.LineupDeps {
	return orchestrators.LineupDeps{LineupStore: s.stores.Lineups, Members: s.stores.Members, GenerateID: generateID}
}

func (s *server) handleCreateLineup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryID string `json:"category_id"`
		SeasonID   string `json:"season_id"`
		Name       string `json:"name"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !s.knownReference(w, r, req.CategoryID, "category", s.categoryExists) {
		return
	}
	l, err := orchestrators.ExecuteCreateLineup(r.Context(), orchestrators.CreateLineupInput(req), s.lineupDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// knownReference rejects a request whose body points at a missing row, which the
// database would otherwise report as a foreign key failure. Empty ids pass; validation
// reports them.
func (s *server) knownReference(w http.ResponseWriter, r *http.Request, id, kind string, exists func(r *http.Request, id string) error) bool {
	if id == "" {
		return true
	}
	if err := exists(r, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "unknown "+kind, http.StatusBadRequest)
			return false
		}
		internalError(w, err)
		return false
	}
	return true
}

func (s *server) categoryExists(r *http.Request, id string) error {
	_, err := s.stores.Categories.GetByID(r.Context(), id)
	return err
}

func (s *server) memberExists(r *http.Request, id string) error {
	_, err := s.stores.Members.GetByID(r.Context(), id)
	return err
}

func (s *server) handleAddLineupMember(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteAddLineupMember(r.Context(), r.PathValue("id"), r.PathValue("memberID"), s.lineupDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRemoveLineupMember(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteRemoveLineupMember(r.Context(), r.PathValue("id"), r.PathValue("memberID"), s.lineupDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
