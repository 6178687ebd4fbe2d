// Package session issues and resolves login sessions. A session record is
// stored in Redis; the browser holds a signed token naming it.
package session

import (
	"context" // Context for Redis operations
	"fmt"     // Error wrapping
	"time"    // Session lifetime

	"github.com/google/uuid" // Session and CSRF identifiers
)

// CookieName is the cookie carrying the session token
const CookieName = "staffadmin_session"

// Session is the server-held state for one login
type Session struct {
	ID         string    `json:"id"`          // Session identifier
	EmployeeID uint      `json:"employee_id"` // Logged in employee
	CSRFToken  string    `json:"csrf_token"`  // Token expected on every form post
	CreatedAt  time.Time `json:"created_at"`  // Login time
}

// Manager creates, resolves and ends sessions
type Manager struct {
	store  *Store
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager signing tokens with secret
func NewManager(store *Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start opens a session for employeeID and returns it with its signed token
func (m *Manager) Start(ctx context.Context, employeeID uint) (*Session, string, error) {
	sess := &Session{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		CSRFToken:  uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.store.save(ctx, sess, m.ttl); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	token, err := signToken(sess.ID, m.ttl, m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return sess, token, nil
}

// Resolve returns the session named by token, or nil if the token is invalid,
// expired or revoked. Only store failures are returned as errors.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	id, err := parseToken(token, m.secret)
	if err != nil {
		return nil, nil
	}
	sess, found, err := m.store.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return sess, nil
}

// End revokes the session named by token. Unknown tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	id, err := parseToken(token, m.secret)
	if err != nil {
		return nil
	}
	return m.store.delete(ctx, id)
}
