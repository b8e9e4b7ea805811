// Package api is the thin HTTP surface over the prediction pipeline. All
// invariants live below it; handlers only decode parameters, call a service,
// and map typed errors onto status codes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"puckcast/app"
	"puckcast/domain/core"
	"puckcast/domain/posterior"
	"puckcast/internal"
	"puckcast/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Predictor is the slice of PredictionService the handlers need.
type Predictor interface {
	Predict(ctx context.Context, date core.Day, home, away string) (*app.GamePrediction, error)
	StoredParams(ctx context.Context) ([]posterior.TeamParameter, error)
}

// Projector is the slice of SeasonService the handlers need.
type Projector interface {
	Project(ctx context.Context, today, seasonEnd core.Day) (posterior.SeasonProjection, error)
	SeriesOdds(ctx context.Context, date core.Day, higher, lower string) ([]posterior.SeriesOutcome, error)
}

// Server wires the HTTP routes to the services.
type Server struct {
	pred     Predictor
	season   Projector
	schedule ports.ScheduleFeed
	log      *internal.Logger
}

// NewServer creates the HTTP surface.
func NewServer(pred Predictor, season Projector, schedule ports.ScheduleFeed, log *internal.Logger) *Server {
	return &Server{pred: pred, season: season, schedule: schedule, log: log}
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/predictions/{date}", s.handlePrediction)
		r.Get("/games/{date}", s.handleGames)
		r.Get("/parameters", s.handleParameters)
		r.Get("/projection", s.handleProjection)
		r.Get("/series", s.handleSeries)
	})
	return r
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	home := r.URL.Query().Get("home")
	away := r.URL.Query().Get("away")
	if home == "" || away == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("home and away query parameters are required"))
		return
	}
	pred, err := s.pred.Predict(r.Context(), date, home, away)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	games, err := s.schedule.Games(r.Context(), date)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	params, err := s.pred.StoredParams(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	end, err := core.ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	projection, err := s.season.Project(r.Context(), core.Today(), end)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := core.ParseDay(q.Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	higher, lower := q.Get("higher"), q.Get("lower")
	if higher == "" || lower == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("higher and lower query parameters are required"))
		return
	}
	odds, err := s.season.SeriesOdds(r.Context(), date, higher, lower)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, odds)
}

func writeError(w http.ResponseWriter, log *internal.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrTeamNotFound), errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDataUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRosterUnavailable), errors.Is(err, core.ErrFeedUnavailable),
		errors.Is(err, core.ErrInferenceFailure):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed: %v", err)
	} else {
		log.Warn("request rejected: %v", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
