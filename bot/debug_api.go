package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// DebugCommand represents a debug command sent via HTTP
type DebugCommand struct {
	Action string            `json:"action"`
	Params map[string]string `json:"params"`
}

// DebugResponse represents the response from a debug command
type DebugResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// GuildInfo represents basic guild information
type GuildInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DebugTarget is what the debug API operates on; *Bot implements it
type DebugTarget interface {
	GetGuilds() []GuildInfo
	ReplayMessage(channelID, messageID string) error
}

// NewDebugRouter builds the internal debug API
func NewDebugRouter(target DebugTarget, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/debug/guilds", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, DebugResponse{
			Success: true,
			Data:    target.GetGuilds(),
		})
	})

	r.Post("/debug/command", func(w http.ResponseWriter, r *http.Request) {
		var cmd DebugCommand
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		switch cmd.Action {
		case "replay":
			channelID := cmd.Params["channel_id"]
			messageID := cmd.Params["message_id"]

			if channelID == "" || messageID == "" {
				respondWithError(w, "Missing channel_id or message_id", http.StatusBadRequest)
				return
			}

			if err := target.ReplayMessage(channelID, messageID); err != nil {
				respondWithError(w, fmt.Sprintf("Failed to replay message: %v", err), http.StatusInternalServerError)
				return
			}

			respondWithJSON(w, http.StatusOK, DebugResponse{
				Success: true,
				Message: "Message replayed successfully",
			})

		default:
			respondWithError(w, fmt.Sprintf("Unknown action: %s", cmd.Action), http.StatusBadRequest)
		}
	})

	return r
}

// RunDebugAPI serves the debug API on addr until ctx is cancelled
func RunDebugAPI(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Debug API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("debug API server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down debug API: %w", err)
	}
	log.Info("Debug API stopped")
	return nil
}

func respondWithJSON(w http.ResponseWriter, statusCode int, body DebugResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode debug API response")
	}
}

func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	respondWithJSON(w, statusCode, DebugResponse{
		Success: false,
		Error:   message,
	})
}
