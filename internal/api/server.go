package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"harvest/internal/catalog"
	"harvest/internal/config"
	"harvest/internal/game"
	"harvest/internal/history"
	"harvest/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	sessions *session.Manager
	catalog  []catalog.Country
	results  *history.Store
	mux      *chi.Mux
}

// New builds the HTTP surface. results may be nil when no database is
// configured; finished games are then simply not recorded.
func New(cfg config.APIConfig, logger *slog.Logger, sessions *session.Manager, cat []catalog.Country, results *history.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		sessions: sessions,
		catalog:  cat,
		results:  results,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/{id}", s.handleGameState)
		r.Post("/games/{id}/investments", s.handleInvestment)
		r.Delete("/games/{id}", s.handleDeleteGame)

		r.Get("/catalog/countries", s.handleCatalog)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Country string `json:"country"`
		Crop    string `json:"crop"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, st, err := s.sessions.Create(in.Country, in.Crop)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "state": st})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	eng, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	st, err := eng.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st})
}

func (s *Server) handleInvestment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	eng, err := s.sessions.Get(gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var in struct {
		Percentage int `json:"percentage"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := eng.SubmitInvestment(in.Percentage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if st.GameOver && s.results != nil {
		if err := s.results.RecordResult(r.Context(), gameID, st); err != nil {
			s.log.Error("record game result", "game_id", gameID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": st})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"countries": s.catalog})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard is not configured")
		return
	}
	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	rows, err := s.results.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSelectionRequired), errors.Is(err, game.ErrInsufficientCountries):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound), errors.Is(err, game.ErrNoActiveGame):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrPlayerBankrupt), errors.Is(err, game.ErrNoMoney):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
