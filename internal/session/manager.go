package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/identity"
	"github.com/examroom/examroom-backend/internal/snapshot"
)

// Manager hands out one Store per authenticated account and fans the shared
// one-second clock out to every store with an attempt in progress.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	gw    gateway.Gateway
	snaps snapshot.Store
	log   zerolog.Logger
	keyFn func(subject string) string
}

// NewManager creates a Manager. keyFn maps an account subject to its
// snapshot storage key.
func NewManager(gw gateway.Gateway, snaps snapshot.Store, keyFn func(subject string) string, log zerolog.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		gw:     gw,
		snaps:  snaps,
		log:    log,
		keyFn:  keyFn,
	}
}

// StoreFor returns the session store for the given identity, creating and
// rehydrating it on first use. Rehydration happens before the store is
// shared, so callers never observe a half-restored attempt.
func (m *Manager) StoreFor(ctx context.Context, sess identity.Session) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[sess.Subject]; ok {
		return st
	}

	st := NewStore(m.gw, identity.Static{Session: sess}, m.snaps, m.keyFn(sess.Subject), m.log)
	if err := st.Rehydrate(ctx); err != nil {
		// The store still works; the persisted attempt is what's at risk,
		// and the recorded error surfaces to the user.
		m.log.Warn().Err(err).Str("subject", sess.Subject).Msg("session rehydration failed")
	}
	m.stores[sess.Subject] = st
	return st
}

// TickAll delivers one clock tick to every live store. Stores without an
// in-progress attempt ignore it.
func (m *Manager) TickAll(ctx context.Context) {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.stores))
	for _, st := range m.stores {
		stores = append(stores, st)
	}
	m.mu.Unlock()

	for _, st := range stores {
		st.Tick(ctx)
	}
}
