package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionCookieName = "wadash_session"
	sessionTTL        = 24 * time.Hour
)

type loginSession struct {
	userID    string
	expiresAt time.Time
}

// loginSessions holds issued dashboard cookie tokens in memory. Tokens do not
// survive a restart, which matches how the dashboard is operated.
type loginSessions struct {
	mu     sync.Mutex
	tokens map[string]loginSession
	now    func() time.Time
}

func newLoginSessions() *loginSessions {
	return &loginSessions{
		tokens: make(map[string]loginSession),
		now:    time.Now,
	}
}

// issue creates a token bound to the user for the session TTL.
func (s *loginSessions) issue(userID string) string {
	token := uuid.Must(uuid.NewV7()).String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = loginSession{
		userID:    userID,
		expiresAt: s.now().Add(sessionTTL),
	}
	return token
}

// lookup resolves a token to its user ID, expiring stale tokens on the way.
func (s *loginSessions) lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if s.now().After(sess.expiresAt) {
		delete(s.tokens, token)
		return "", false
	}
	return sess.userID, true
}

func (s *loginSessions) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
