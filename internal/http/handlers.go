package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/commands"
	"github.com/e-mault/stat-sage/internal/ledger"
	"github.com/e-mault/stat-sage/internal/pubsub"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// SlashCommandHandler serves every slash command. The command name selects
// the verb, so one Slack app can point all of its commands at this route.
func (s *Server) SlashCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			log.Error("Failed to parse slash command", "error", err)
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received slash command", "command", cmd.Command, "user", cmd.UserID, "request_id", requestIDFromContext(r))

		msg := s.Dispatcher.Dispatch(r.Context(), commands.Invocation{
			UserID:   cmd.UserID,
			UserName: cmd.UserName,
			Command:  cmd.Command,
			Text:     cmd.Text,
		})
		respondWithSlackMsg(w, msg)
	}
}

// EventPushHandler receives Pub/Sub push deliveries and announces them in the
// configured channel.
func (s *Server) EventPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received event push", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		eventType := pubsub.EventTypeOf(envelope.Message.Attributes)
		switch eventType {
		case pubsub.EventStatUpdated:
			var event pubsub.StatUpdatedEvent
			if err := s.Events.ProcessMessage(rawData, &event); err != nil {
				log.Error("Failed to decode event", "type", eventType, "error", err)
				http.Error(w, "Invalid event payload", http.StatusBadRequest)
				return
			}
			err = s.Notifier.AnnounceStatUpdate(r.Context(), event, isDryRun)
		case pubsub.EventAccountLinked:
			var event pubsub.AccountLinkedEvent
			if err := s.Events.ProcessMessage(rawData, &event); err != nil {
				log.Error("Failed to decode event", "type", eventType, "error", err)
				http.Error(w, "Invalid event payload", http.StatusBadRequest)
				return
			}
			err = s.Notifier.AnnounceAccountLinked(r.Context(), event, isDryRun)
		default:
			// Acknowledge so Pub/Sub stops redelivering.
			log.Warn("Ignoring event of unknown type", "type", eventType, "message_id", envelope.Message.MessageID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			log.Error("Failed to announce event", "type", eventType, "error", err)
			http.Error(w, "Failed to announce event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := s.Ledger.Rank(r.Context(), r.URL.Query().Get("game"), r.URL.Query().Get("character"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func (s *Server) UserStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.Ledger.GetUserStats(r.Context(), r.PathValue("userID"), r.URL.Query().Get("game"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// UserTotalsHandler combines a user's stats across characters, for one game
// when ?game= is given and for every played game otherwise.
func (s *Server) UserTotalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userID")
		game := r.URL.Query().Get("game")
		if game == "" {
			all, err := s.Ledger.CombineAllGames(r.Context(), userID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, all)
			return
		}

		canonical, err := ledger.ParseGame(game)
		if err != nil {
			writeError(w, err)
			return
		}
		totals, err := s.Ledger.CombineStats(r.Context(), userID, game)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []ledger.GameTotals{{Game: canonical, Totals: totals}})
	}
}

func (s *Server) UsageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Usage == nil {
			writeJSON(w, http.StatusOK, map[string]int{})
			return
		}
		counts, err := s.Usage.GetAll(r.Context())
		if err != nil {
			log.Error("Failed to read usage counters", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read usage counters"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeError maps ledger errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *ledger.ValidationError
		nerr *ledger.NotFoundError
		eerr *ledger.EmptyResultError
		cerr *ledger.CollaboratorError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &nerr), errors.As(err, &eerr):
		status = http.StatusNotFound
	case errors.As(err, &cerr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
