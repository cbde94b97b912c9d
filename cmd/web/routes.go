package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/AdamBeresnev/pong-tournament-app/internal/engine"
	"github.com/AdamBeresnev/pong-tournament-app/internal/httputil"
	"github.com/AdamBeresnev/pong-tournament-app/internal/live"
	"github.com/AdamBeresnev/pong-tournament-app/internal/middleware"
	"github.com/AdamBeresnev/pong-tournament-app/internal/service"
	"github.com/AdamBeresnev/pong-tournament-app/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type createTournamentRequest struct {
	Players []engine.HumanEntry `json:"players"`
}

type recordResultRequest struct {
	MatchID  int `json:"matchId"`
	WinnerID int `json:"winnerId"`
	Score1   int `json:"score1"`
	Score2   int `json:"score2"`
}

func newRouter(
	sessionManager *scs.SessionManager,
	userStore *store.UserStore,
	tournamentService *service.TournamentService,
	userService *service.UserService,
	hub *live.Hub,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	// Serve static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		user, err := userService.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to create guest session", err)
			return
		}
		sessionManager.Put(r.Context(), "userID", user.ID.String())
		httputil.JSON(w, http.StatusOK, user)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to destroy session", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager, userStore))

		r.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
			user := middleware.GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.NotFound(w, "User not found", nil)
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Get("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := tournamentService.GetTournamentsForUser(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournaments", err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournaments)
		})

		r.Post("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
			var req createTournamentRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			for _, p := range req.Players {
				if p.Name == "" {
					httputil.BadRequest(w, "Player name is required", nil)
					return
				}
				if len(p.Name) > 50 {
					httputil.BadRequest(w, "Player name exceeds 50 characters", nil)
					return
				}
			}

			tournament, err := tournamentService.CreateTournament(r.Context(), req.Players)
			if err != nil {
				if errors.Is(err, bracket.ErrInvalidPlayerCount) {
					httputil.BadRequest(w, "Tournament needs between 1 and 8 players", err)
					return
				}
				httputil.InternalServerError(w, "Failed to create tournament", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, tournament)
		})

		r.Get("/api/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			tournament, err := tournamentService.GetTournament(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				if errors.Is(err, bracket.ErrNoActiveTournament) || errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get tournament", err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Get("/api/tournaments/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
			stats, err := tournamentService.GetStats(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				if errors.Is(err, bracket.ErrNoActiveTournament) || errors.Is(err, sql.ErrNoRows) {
					httputil.NotFound(w, "Tournament not found", err)
					return
				}
				httputil.InternalServerError(w, "Failed to get stats", err)
				return
			}
			httputil.JSON(w, http.StatusOK, stats)
		})

		r.Post("/api/tournaments/{id}/results", func(w http.ResponseWriter, r *http.Request) {
			tournamentID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}

			var req recordResultRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}

			tournament, err := tournamentService.RecordResult(r.Context(),
				tournamentID, req.MatchID, req.WinnerID, req.Score1, req.Score2)
			if err != nil {
				switch {
				case errors.Is(err, bracket.ErrNoActiveTournament),
					errors.Is(err, bracket.ErrMatchNotFound):
					httputil.NotFound(w, "Match not found", err)
				case errors.Is(err, bracket.ErrCannotRecordAIMatch):
					httputil.Conflict(w, "Match is not playable", err)
				case errors.Is(err, bracket.ErrWinnerNotInMatch):
					httputil.BadRequest(w, "Winner is not part of this match", err)
				default:
					httputil.InternalServerError(w, "Failed to record result", err)
				}
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Get("/ws/game", hub.HandleWS)
	})

	return r
}
