package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tinkerbird/playforge/internal/domain/share"
)

// ShareOpener fetches a published game by share ID, recording the access.
type ShareOpener interface {
	Open(ctx context.Context, shareID string) (*share.SharedGame, error)
}

// NewRouter builds the HTTP surface: the MCP endpoint (authenticated inside
// the MCP layer), the public share-link endpoint, and a health check.
func NewRouter(mcpHandler http.Handler, shares ShareOpener, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", mcpHandler)

	srv := &server{shares: shares, logger: logger}
	// Share links are public by design: no auth on /g/.
	r.Get("/g/{shareID}", srv.handleSharedGame)
	r.Get("/health", srv.handleHealth)

	return r
}

type server struct {
	shares ShareOpener
	logger *slog.Logger
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleSharedGame serves the published snapshot and counts the access.
func (s *server) handleSharedGame(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareID")

	game, err := s.shares.Open(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, share.ErrShareNotFound) {
			http.NotFound(w, r)
			return
		}
		if s.logger != nil {
			s.logger.Error("serving shared game failed", "share_id", shareID, "error", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(game.Content))
}
