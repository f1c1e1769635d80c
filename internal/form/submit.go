// internal/form/submit.go
//
// Card form – submission coordinator.
//
// Context
//   Submit turns a validated card name into a CreateCard intent, dispatches
//   it to the board, and then confirms the card actually landed by reading a
//   board snapshot.  Exactly one intent is dispatched per call and there is
//   no retry.  Every path resolves to Success or Failure.
//
// Workflow
//   1.  Dispatch CreateCard{TableIndex, NewCardTitle}.  The board answers
//       with a Receipt once the intent is applied.
//   2.  Read a Snapshot.  Its revision must have reached the receipt.
//   3.  Compare the last card title of the checked table to the candidate.
//
//   Which table is checked depends on VerifyScope.  ScopeLast checks the
//   board's last table, the historical behaviour.  ScopeTarget checks the
//   table the card was submitted to.  The two agree only when the form sits
//   on the last table, so ScopeLast logs a warning whenever they differ.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/kanban/internal/board"
	"github.com/yanizio/kanban/internal/metrics"
)

// ErrSubmissionUnconfirmed is the cause attached to every Failure outcome.
var ErrSubmissionUnconfirmed = errors.New("card creation not confirmed")

// Outcome of a submission attempt.
type Outcome int

const (
	Failure Outcome = iota
	Success
)

func (o Outcome) String() string {
	if o == Success {
		return metrics.OutcomeSuccess
	}
	return metrics.OutcomeFailure
}

// VerifyScope selects the table whose last card confirms a submission.
type VerifyScope string

const (
	ScopeLast   VerifyScope = "last"
	ScopeTarget VerifyScope = "target"
)

// Store is the slice of the board the coordinator needs.
type Store interface {
	Dispatch(ctx context.Context, intent board.CreateCard) (board.Receipt, error)
	Snapshot() board.Snapshot
}

// Coordinator dispatches creation intents and verifies them.  It holds no
// per-submission state and is safe for concurrent use.
type Coordinator struct {
	store Store
	scope VerifyScope
	log   *zap.SugaredLogger
}

// NewCoordinator returns a Coordinator.  An empty scope means ScopeLast.
func NewCoordinator(store Store, scope VerifyScope, log *zap.SugaredLogger) *Coordinator {
	if scope == "" {
		scope = ScopeLast
	}
	if log == nil {
		log = zap.S()
	}
	return &Coordinator{store: store, scope: scope, log: log}
}

// Scope reports the configured VerifyScope.
func (c *Coordinator) Scope() VerifyScope { return c.scope }

// Submit dispatches one CreateCard intent and confirms it.  The returned
// error is nil on Success and wraps ErrSubmissionUnconfirmed on Failure.
func (c *Coordinator) Submit(ctx context.Context, candidate string, tableIndex int) (Outcome, error) {
	out, err := c.submit(ctx, candidate, tableIndex)
	metrics.SubmissionsTotal.WithLabelValues(out.String()).Inc()
	if err != nil {
		c.log.Infow("card submission failed",
			"table", tableIndex, "title", candidate, "err", err)
		return out, err
	}
	c.log.Infow("card submission confirmed", "table", tableIndex, "title", candidate)
	return out, nil
}

func (c *Coordinator) submit(ctx context.Context, candidate string, tableIndex int) (Outcome, error) {
	intent := board.CreateCard{TableIndex: tableIndex, NewCardTitle: candidate}

	rc, err := c.store.Dispatch(ctx, intent)
	if err != nil {
		return Failure, fmt.Errorf("%w: %w", ErrSubmissionUnconfirmed, err)
	}

	snap := c.store.Snapshot()
	if snap.Revision < rc.Revision {
		return Failure, fmt.Errorf("%w: snapshot revision %d behind receipt %d",
			ErrSubmissionUnconfirmed, snap.Revision, rc.Revision)
	}

	checked := c.checkedTable(snap, tableIndex)
	last, ok := snap.LastCard(checked)
	if !ok {
		return Failure, fmt.Errorf("%w: table %d has no cards", ErrSubmissionUnconfirmed, checked)
	}
	if last.Title != candidate {
		return Failure, fmt.Errorf("%w: last card in table %d is %q",
			ErrSubmissionUnconfirmed, checked, last.Title)
	}
	return Success, nil
}

func (c *Coordinator) checkedTable(snap board.Snapshot, target int) int {
	if c.scope == ScopeTarget {
		return target
	}
	last := snap.LastTableIndex()
	if last != target {
		c.log.Warnw("verifying against last table, not the submitted table",
			"target", target, "last", last)
	}
	return last
}
