package store

import (
	"context"
)

// Record is a loosely-typed stored document: the key plus whatever fields the
// backing collection holds. Only the normalizer inspects Data; everything
// above it works on the canonical models.Registration.
type Record struct {
	Key  string
	Data map[string]any
}

// Tx is the view of the store inside a transaction. Get reads the current
// committed state of a record; Update stages a partial write that commits
// atomically with the transaction.
type Tx interface {
	Get(key string) (*Record, error)
	Update(key string, patch map[string]any) error
}

// Store is the record storage consumed by the check-in core. Implementations
// map their own failure modes onto the status sentinel errors:
// status.ErrNotFound for absent records, status.ErrTransactionConflict when a
// competing transaction won, status.ErrStoreUnavailable for infrastructure
// failures.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	QueryEqual(ctx context.Context, field, value string) ([]*Record, error)
	ScanAll(ctx context.Context) ([]*Record, error)

	// RunTransaction executes fn atomically. Of N concurrent transactions
	// touching the same record exactly one commits; the rest fail with
	// status.ErrTransactionConflict. Transactions on different records do
	// not contend.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	// Subscribe registers a change-feed listener invoked on every record
	// add or update. The returned func stops delivery; after it returns no
	// further callbacks are made.
	Subscribe(fn func(rec *Record)) (unsubscribe func())
}

func (r *Record) String(field string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	if s, ok := r.Data[field].(string); ok {
		return s
	}
	return ""
}
