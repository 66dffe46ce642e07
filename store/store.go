package store

import (
	"context"
	"time"

	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
)

// Store is the unified storage interface for all StreamLedger entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Account methods
	GetAccount(ctx context.Context, owner string) (*account.Account, error)
	UpsertAccount(ctx context.Context, acc *account.Account) error
	ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error)

	// Stream methods
	GetStream(ctx context.Context, streamID stream.ID) (*stream.Stream, error)
	UpsertStream(ctx context.Context, s *stream.Stream) error
	ListStreams(ctx context.Context, payer string, opts stream.ListOpts) ([]*stream.Stream, error)

	// Journal methods
	AppendJournal(ctx context.Context, entries []*journal.Entry) error
	QueryJournal(ctx context.Context, account string, opts journal.QueryOpts) ([]*journal.Entry, error)
	PurgeJournal(ctx context.Context, before time.Time) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
