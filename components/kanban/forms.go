// components/kanban/forms.go
//
// Live card form registry.
//
// Context
//   A CardForm lives as long as its browser keeps posting to it.  Forms are
//   keyed by form session id and table index and held in an LRU so an
//   abandoned tab cannot grow memory without bound.  Eviction is the
//   "unmount": the form and its field state are simply dropped.
//
//------------------------------------------------------------------------------

package kanban

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/cache"
	"github.com/yanizio/kanban/internal/form"
	"github.com/yanizio/kanban/internal/metrics"
)

type forms struct {
	mu    sync.Mutex
	lru   *cache.LRU[string, *form.CardForm]
	coord *form.Coordinator
	log   *zap.SugaredLogger
}

func newForms(capacity int, coord *form.Coordinator, log *zap.SugaredLogger) *forms {
	return &forms{
		lru: cache.New(capacity, func(key string, _ *form.CardForm) {
			metrics.LiveForms.Dec()
			log.Debugw("card form evicted", "key", key)
		}),
		coord: coord,
		log:   log,
	}
}

func formKey(sessionID string, table int) string {
	return sessionID + "/" + strconv.Itoa(table)
}

// get returns the open form for sessionID and table.
func (fs *forms) get(sessionID string, table int) (*form.CardForm, bool) {
	if sessionID == "" {
		return nil, false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lru.Get(formKey(sessionID, table))
}

// open returns the form for sessionID and table, creating a visible one on
// first use and re-showing a hidden one otherwise.
func (fs *forms) open(sessionID string, table int) *form.CardForm {
	key := formKey(sessionID, table)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if f, ok := fs.lru.Get(key); ok {
		f.Show()
		return f
	}

	f := form.NewCardForm(form.Config{
		TableIndex: table,
		Initial:    form.Visible,
		OnVisibilityChange: func(visible bool) {
			fs.log.Debugw("card form visibility changed", "key", key, "visible", visible)
		},
	}, fs.coord)
	fs.lru.Add(key, f)
	metrics.LiveForms.Inc()
	return f
}
