// Package web exposes the gateway over HTTP: a cookie-authenticated
// dashboard surface, an API-key-protected send endpoint, and a server-sent
// event stream mirroring the live update feed.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wadash/wadash/account"
	"github.com/wadash/wadash/feed"
	"github.com/wadash/wadash/outbound"
	"github.com/wadash/wadash/state"
)

// Core is the gateway surface the web layer drives. The gateway package
// implements it.
type Core interface {
	Status() state.Snapshot
	Send(ctx context.Context, to, text string) outbound.SendResult
	Subscribe() *feed.Subscription
	Unsubscribe(id string)
}

// Server serves the dashboard HTTP surface.
type Server struct {
	core     Core
	accounts *account.Store
	apiKey   string
	logger   *slog.Logger
	sessions *loginSessions
}

// NewServer creates a Server. An empty apiKey disables the send endpoint.
func NewServer(core Core, accounts *account.Store, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		core:     core,
		accounts: accounts,
		apiKey:   apiKey,
		logger:   logger,
		sessions: newLoginSessions(),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/api/send", s.requireAPIKey(s.handleSend)).Methods("POST")
	r.HandleFunc("/api/status", s.requireLogin(s.handleStatus)).Methods("GET")
	r.HandleFunc("/api/events", s.requireLogin(s.handleEvents)).Methods("GET")
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAPIKey guards machine-to-machine routes with the X-API-Key header.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.Header.Get("X-API-Key") != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, outbound.SendResult{
				Message: "unauthorized: missing or invalid API key",
			})
			return
		}
		next(w, r)
	}
}

// requireLogin guards dashboard routes with the session cookie.
func (s *Server) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
			return
		}
		if _, ok := s.sessions.lookup(cookie.Value); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
			return
		}
		next(w, r)
	}
}
