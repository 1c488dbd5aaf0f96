package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wadash/wadash/account"
	"github.com/wadash/wadash/feed"
	"github.com/wadash/wadash/outbound"
	"github.com/wadash/wadash/state"
	"github.com/wadash/wadash/supervisor"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	user, err := s.accounts.Authenticate(req.Username, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		return
	}
	if err != nil {
		s.logger.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token := s.sessions.issue(user.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleRegister always refuses. Accounts are provisioned by the operator,
// not self-service.
func (s *Server) handleRegister(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "registration is disabled, contact the administrator"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.core.Status())
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, outbound.SendResult{
			Message: `bad request: "to" and "text" are required`,
		})
		return
	}

	result := s.core.Send(r.Context(), req.To, req.Text)
	writeJSON(w, sendStatusCode(result), result)
}

// sendStatusCode maps a send outcome onto an HTTP status.
func sendStatusCode(result outbound.SendResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Code {
	case outbound.FailNotConnected:
		return http.StatusServiceUnavailable
	case outbound.FailRecipientNotFound, outbound.FailNotRegistered:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// handleEvents streams feed updates as server-sent events. The current
// status and pairing token are replayed first so a client that connects
// mid-session sees the same picture as one that watched from the start.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	sub := s.core.Subscribe()
	if sub == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "feed closed"})
		return
	}
	defer s.core.Unsubscribe(sub.ID())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snap := s.core.Status()
	writeEvent(w, feed.Update{Kind: feed.KindStatus, Status: statusText(snap)})
	if snap.Status == state.StatusQRPending {
		writeEvent(w, feed.Update{Kind: feed.KindPairing, Pairing: snap.PairingToken})
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case update, open := <-sub.Updates():
			if !open {
				return
			}
			writeEvent(w, update)
			flusher.Flush()
		}
	}
}

// statusText renders the connect-time snapshot the way live status updates
// read. A terminal disconnect replays the terminal text a live subscriber
// saw, never a reconnect promise.
func statusText(snap state.Snapshot) string {
	switch snap.Status {
	case state.StatusConnected:
		return supervisor.StatusConnected
	case state.StatusQRPending:
		return supervisor.StatusScanPairing
	case state.StatusDisconnected:
		if snap.Terminal {
			if snap.RawPhase == "retries_exhausted" {
				return supervisor.StatusRetriesExhausted
			}
			return supervisor.StatusLoggedOut
		}
		return supervisor.StatusReconnecting
	default:
		return supervisor.StatusConnecting
	}
}

func writeEvent(w http.ResponseWriter, update feed.Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
