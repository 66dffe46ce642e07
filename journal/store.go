package journal

import (
	"context"
	"time"
)

type Store interface {
	AppendJournal(ctx context.Context, entries []*Entry) error
	QueryJournal(ctx context.Context, account string, opts QueryOpts) ([]*Entry, error)
	PurgeJournal(ctx context.Context, before time.Time) (int64, error)
}

type QueryOpts struct {
	Op     string
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
