// internal/board/board.go
//
// Kanban board store.
//
// Context
// -------
// The board is the shared application state the card form writes into.  It
// holds an ordered list of tables (columns), each with an ordered list of
// cards.  Callers never mutate it directly.  They dispatch a CreateCard
// intent and read back an immutable Snapshot.
//
// Dispatch applies the intent under the store lock and returns a Receipt
// carrying the revision the store reached.  Callers that read a Snapshot
// after holding the Receipt are guaranteed to observe that revision, so
// there is no window between "dispatched" and "visible".
//
// The reducer is pluggable (WithReducer) so tests can simulate a store
// that drops intents.
//
// Notes
// -----
//   - Revisions start at zero and grow by one per applied intent.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/metrics"
)

// ErrTableNotFound is returned when an intent targets a missing table.
var ErrTableNotFound = errors.New("table not found")

//
// Model
//

// Card is a single list item.
type Card struct {
	Title string `koanf:"title" json:"title"`
}

// Table is an ordered column of cards.
type Table struct {
	Title string `koanf:"title" json:"title"`
	Cards []Card `koanf:"cards" json:"cards"`
}

// CreateCard is the creation intent handed to the store.
type CreateCard struct {
	TableIndex   int
	NewCardTitle string
}

// Receipt confirms that the store processed an intent.
type Receipt struct {
	Revision   uint64 // store revision after the intent was applied
	TableIndex int
	CardIndex  int // index of the last card in TableIndex, -1 if empty
}

// Snapshot is a deep, read-only copy of the board at Revision.
type Snapshot struct {
	Revision uint64  `json:"revision"`
	Tables   []Table `json:"tables"`
}

// LastTableIndex returns the index of the last table, or -1 when empty.
func (s Snapshot) LastTableIndex() int { return len(s.Tables) - 1 }

// LastCard returns the last card of table i.  ok is false when the table
// does not exist or has no cards.
func (s Snapshot) LastCard(i int) (Card, bool) {
	if i < 0 || i >= len(s.Tables) {
		return Card{}, false
	}
	cards := s.Tables[i].Cards
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[len(cards)-1], true
}

//
// Store
//

// Reducer applies an intent to tables and returns the new tables.  It may
// mutate and return the slice it was given.
type Reducer func(tables []Table, intent CreateCard) ([]Table, error)

// Option configures a Store.
type Option func(*Store)

// WithReducer replaces the default append reducer.
func WithReducer(r Reducer) Option { return func(s *Store) { s.reduce = r } }

// WithLogger sets the store logger.  Defaults to zap.S().
func WithLogger(l *zap.SugaredLogger) Option { return func(s *Store) { s.log = l } }

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tables []Table
	rev    uint64
	reduce Reducer
	log    *zap.SugaredLogger
}

// New returns a Store seeded with a copy of tables.
func New(tables []Table, opts ...Option) *Store {
	s := &Store{
		tables: cloneTables(tables),
		reduce: AppendCard,
		log:    zap.S(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch applies intent and returns a Receipt once the new state is
// visible to Snapshot.  A cancelled ctx is honoured only before the intent
// is applied.
func (s *Store) Dispatch(ctx context.Context, intent CreateCard) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := cardCount(s.tables, intent.TableIndex)
	next, err := s.reduce(s.tables, intent)
	if err != nil {
		s.log.Warnw("createCard rejected",
			"table", intent.TableIndex, "title", intent.NewCardTitle, "err", err)
		return Receipt{}, fmt.Errorf("createCard: %w", err)
	}
	s.tables = next
	s.rev++
	if cardCount(s.tables, intent.TableIndex) > before {
		metrics.CardsCreatedTotal.Inc()
	}

	rc := Receipt{Revision: s.rev, TableIndex: intent.TableIndex, CardIndex: -1}
	if intent.TableIndex >= 0 && intent.TableIndex < len(s.tables) {
		rc.CardIndex = len(s.tables[intent.TableIndex].Cards) - 1
	}
	s.log.Debugw("createCard applied",
		"table", intent.TableIndex, "title", intent.NewCardTitle, "revision", s.rev)
	return rc, nil
}

// Snapshot returns a deep copy of the current board.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Revision: s.rev, Tables: cloneTables(s.tables)}
}

// AppendCard is the default reducer: it appends a card titled
// intent.NewCardTitle to tables[intent.TableIndex].
func AppendCard(tables []Table, intent CreateCard) ([]Table, error) {
	if intent.TableIndex < 0 || intent.TableIndex >= len(tables) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrTableNotFound, intent.TableIndex, len(tables))
	}
	t := &tables[intent.TableIndex]
	t.Cards = append(t.Cards, Card{Title: intent.NewCardTitle})
	return tables, nil
}

func cloneTables(in []Table) []Table {
	out := make([]Table, len(in))
	for i, t := range in {
		out[i] = Table{Title: t.Title, Cards: append([]Card(nil), t.Cards...)}
	}
	return out
}

// cardCount returns the number of cards in table i, or -1 when i is out of
// range.
func cardCount(tables []Table, i int) int {
	if i < 0 || i >= len(tables) {
		return -1
	}
	return len(tables[i].Cards)
}
