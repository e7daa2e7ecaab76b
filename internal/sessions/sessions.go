// Package sessions gives every browser its own reading list id, held in an
// in-memory scs session store.
package sessions

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"

	"github.com/mrlokans/bookfinder/internal/config"
)

// SessionKeyListID holds the reading list id of the session.
const SessionKeyListID = "reading_list_id"

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager backed by process memory.
func NewManager(cfg config.Sessions) *Manager {
	sm := scs.New()
	sm.Store = memstore.New()

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "bookfinder_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}
}

// ListID returns the reading list id bound to the session, assigning one on first use.
func (m *Manager) ListID(ctx context.Context) string {
	if id := m.GetString(ctx, SessionKeyListID); id != "" {
		return id
	}
	id := uuid.NewString()
	m.Put(ctx, SessionKeyListID, id)
	return id
}
