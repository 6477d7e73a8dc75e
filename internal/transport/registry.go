// internal/transport/registry.go
package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Registry hands out one Link per physical link key and closes the
// link when its last user releases it.
type Registry struct {
	dial DialFunc
	log  zerolog.Logger

	mu    sync.Mutex
	links map[string]*Link
}

// NewRegistry creates an empty registry using dial for new links.
func NewRegistry(dial DialFunc, log zerolog.Logger) *Registry {
	return &Registry{
		dial:  dial,
		log:   log,
		links: make(map[string]*Link),
	}
}

// Acquire returns the shared Link for cfg, creating it on first use.
// The first connect attempt is best effort: a link that is down now
// is still returned and reads on it fail individually.
func (r *Registry) Acquire(cfg LinkConfig) (*Link, error) {
	key := cfg.Key()

	r.mu.Lock()
	if l, ok := r.links[key]; ok {
		l.refs++
		refs := l.refs
		r.mu.Unlock()
		r.log.Debug().Str("link", key).Int("refs", refs).Msg("reusing link")
		return l, nil
	}

	conn, err := r.dial(cfg)
	if err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("transport: dial %s: %w", key, err)
	}

	l := newLink(key, conn, r.log)
	l.refs = 1
	r.links[key] = l
	r.mu.Unlock()
	r.log.Info().Str("link", key).Msg("link created")

	// a slow port open or TCP dial must not hold up other links
	_ = l.connect()
	return l, nil
}

// Release drops one reference; the last release closes the link.
func (r *Registry) Release(l *Link) error {
	if l == nil {
		return nil
	}

	r.mu.Lock()
	cur, ok := r.links[l.key]
	if !ok || cur != l {
		r.mu.Unlock()
		return errors.New("transport: release of unknown link")
	}
	l.refs--
	last := l.refs == 0
	if last {
		delete(r.links, l.key)
	}
	r.mu.Unlock()

	if !last {
		return nil
	}
	r.log.Info().Str("link", l.key).Msg("link closed")
	return l.close()
}

// Len returns the number of open links.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}
