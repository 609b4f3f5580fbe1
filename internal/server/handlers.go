package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/finder"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
)

// LocationView is a location as served, with its status at request time.
type LocationView struct {
	models.Location
	Status         constants.LocationStatus `json:"status"`
	Badge          string                   `json:"badge,omitempty"`
	ParsedSchedule *models.ScheduleView     `json:"parsed_schedule,omitempty"`
}

type listResponse struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Locations   []LocationView `json:"locations"`
}

type filtersResponse struct {
	Counties []string `json:"counties"`
	States   []string `json:"states"`
	Types    []string `json:"types"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Locations int       `json:"locations"`
	LoadedAt  time.Time `json:"loaded_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) view(res finder.Result) LocationView {
	return LocationView{
		Location:       res.Location,
		Status:         res.Status.Code(),
		Badge:          finder.Badge(res.Status),
		ParsedSchedule: models.NewScheduleView(s.memo.Parse(res.Location.Schedule)),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	locs, loadedAt := s.snapshot()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Locations: len(locs), LoadedAt: loadedAt})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	openNow := false
	if v := q.Get("open_now"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "open_now must be true or false")
			return
		}
		openNow = parsed
	}

	filter := finder.Filter{
		Query:   q.Get("q"),
		County:  q.Get("county"),
		State:   q.Get("state"),
		Type:    q.Get("type"),
		OpenNow: openNow,
		Memo:    s.memo,
	}

	locs, _ := s.snapshot()
	now, at := s.moment()
	results := filter.Apply(locs, at)

	views := make([]LocationView, len(results))
	for i, res := range results {
		views[i] = s.view(res)
	}
	writeJSON(w, http.StatusOK, listResponse{GeneratedAt: now, Count: len(views), Locations: views})
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	locs, _ := s.snapshot()
	_, at := s.moment()

	for _, loc := range locs {
		if loc.ID != id || !loc.IsActive() {
			continue
		}
		writeJSON(w, http.StatusOK, s.view(finder.Result{
			Location: loc,
			Status:   finder.EvaluateWith(s.memo, loc, at),
		}))
		return
	}
	writeError(w, http.StatusNotFound, "location not found")
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	locs, _ := s.snapshot()
	writeJSON(w, http.StatusOK, filtersResponse{
		Counties: finder.Counties(locs),
		States:   finder.States(locs),
		Types:    finder.Types(locs),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
