package sitetheory

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator provides correlation ids for synthesis runs.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator generates lexicographically sortable run ids.
//
// The zero value is ready to use and safe for concurrent callers.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entropy == nil {
		g.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return ulid.MustNew(ulid.Timestamp(now()), g.entropy).String()
}
