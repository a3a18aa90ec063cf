package overlay

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// sessionTTL is how long an untouched session keeps its controller. An
// evicted session is rebuilt from confirmed server state on its next access,
// so eviction loses at most an unconfirmed prediction.
const sessionTTL = 24 * time.Hour

type registryEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Registry maps session cart ids to their controllers. A session gets one
// controller at a time; the controller owns the cart value until the session
// goes idle and is evicted.
type Registry struct {
	gateway Gateway

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

// NewRegistry builds an empty Registry over the given gateway.
func NewRegistry(gateway Gateway) *Registry {
	return &Registry{
		gateway:  gateway,
		sessions: make(map[string]*registryEntry),
	}
}

// Get returns the controller for cartID, creating one seeded with the
// confirmed remote cart on first access. An expired or unknown remote cart
// yields a controller over an empty baseline.
func (r *Registry) Get(ctx context.Context, cartID string) (*Controller, error) {
	r.mu.Lock()
	if e, ok := r.sessions[cartID]; ok {
		e.lastSeen = time.Now()
		r.mu.Unlock()
		return e.ctrl, nil
	}
	r.mu.Unlock()

	// Load outside the lock: the remote read can be slow. A racing request
	// for the same session may load twice; the second registration wins the
	// map slot check below and the first result is simply dropped.
	confirmed, err := r.gateway.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[cartID]; ok {
		e.lastSeen = time.Now()
		return e.ctrl, nil
	}
	ctrl := NewController(r.gateway, cartID, confirmed)
	r.sessions[cartID] = &registryEntry{ctrl: ctrl, lastSeen: time.Now()}
	return ctrl, nil
}

// Create makes a remote cart once and registers a controller for it. This is
// the only place a cart session comes into existence.
func (r *Registry) Create(ctx context.Context) (*Controller, error) {
	created, err := r.gateway.CreateCart(ctx)
	if err != nil {
		return nil, err
	}

	ctrl := NewController(r.gateway, created.ID, &created)
	r.mu.Lock()
	r.sessions[created.ID] = &registryEntry{ctrl: ctrl, lastSeen: time.Now()}
	r.mu.Unlock()
	return ctrl, nil
}

// cleanup drops sessions untouched for longer than sessionTTL.
func (r *Registry) cleanup(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cartID, e := range r.sessions {
		if now.Sub(e.lastSeen) >= sessionTTL {
			delete(r.sessions, cartID)
		}
	}
}

// StartCleanup evicts idle sessions on the interval until ctx is cancelled.
func (r *Registry) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				before := r.size()
				r.cleanup(now)
				if evicted := before - r.size(); evicted > 0 {
					zctx.From(ctx).Debug("Evicted idle cart sessions", zap.Int("count", evicted))
				}
			}
		}
	}()
}

func (r *Registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
