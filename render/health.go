package render

import (
	"sync"
	"time"

	"github.com/go-rod/rod"
)

// Pages are retired after this many renders or this much age, whichever
// comes first. A page that fails a render is always retired.
const (
	maxPageUses = 50
	maxPageAge  = 50 * time.Minute
)

type pageUsage struct {
	uses    int
	created time.Time
}

// pageLedger tracks how much each pooled page has been used.
type pageLedger struct {
	mu    sync.Mutex
	pages map[*rod.Page]*pageUsage
	now   func() time.Time
}

func newPageLedger() *pageLedger {
	return &pageLedger{pages: make(map[*rod.Page]*pageUsage), now: time.Now}
}

// used records one successful render on p and reports whether p should be
// retired instead of going back to the pool.
func (l *pageLedger) used(p *rod.Page) (retire bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.pages[p]
	if !ok {
		u = &pageUsage{created: l.now()}
		l.pages[p] = u
	}
	u.uses++
	if u.uses >= maxPageUses || l.now().Sub(u.created) >= maxPageAge {
		delete(l.pages, p)
		return true
	}
	return false
}

// forget drops p from the ledger.
func (l *pageLedger) forget(p *rod.Page) {
	l.mu.Lock()
	delete(l.pages, p)
	l.mu.Unlock()
}
