package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/streamledger"
	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
)

type Store struct {
	mu sync.RWMutex

	// Account storage, keyed by owner
	accounts map[string]*account.Account

	// Stream storage, keyed by hex stream id
	streams map[string]*stream.Stream

	// Journal storage, append order preserved
	entries []journal.Entry
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*account.Account),
		streams:  make(map[string]*stream.Stream),
		entries:  make([]journal.Entry, 0),
	}
}

// Account Store implementation
func (s *Store) GetAccount(_ context.Context, owner string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if acc, ok := s.accounts[owner]; ok {
		return acc.Clone(), nil
	}
	return nil, streamledger.ErrAccountNotFound
}

func (s *Store) UpsertAccount(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acc.Owner] = acc.Clone()
	return nil
}

func (s *Store) ListAccounts(_ context.Context, opts account.ListOpts) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		result = append(result, acc.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Owner < result[j].Owner })

	return paginate(result, opts.Offset, opts.Limit), nil
}

// Stream Store implementation
func (s *Store) GetStream(_ context.Context, streamID stream.ID) (*stream.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.streams[streamID.String()]; ok {
		return st.Clone(), nil
	}
	return nil, streamledger.ErrStreamNotFound
}

func (s *Store) UpsertStream(_ context.Context, st *stream.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streams[st.ID.String()] = st.Clone()
	return nil
}

func (s *Store) ListStreams(_ context.Context, payer string, opts stream.ListOpts) ([]*stream.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*stream.Stream, 0)
	for _, st := range s.streams {
		if st.Payer != payer {
			continue
		}
		if opts.ActiveOnly && !st.Active() {
			continue
		}
		result = append(result, st.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})

	return paginate(result, opts.Offset, opts.Limit), nil
}

// Journal Store implementation
func (s *Store) AppendJournal(_ context.Context, entries []*journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.entries = append(s.entries, *e)
	}
	return nil
}

func (s *Store) QueryJournal(_ context.Context, acct string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for i := range s.entries {
		e := s.entries[i]
		if e.Account != acct {
			continue
		}
		if opts.Op != "" && e.Op != opts.Op {
			continue
		}
		if !opts.Start.IsZero() && e.Timestamp.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && e.Timestamp.After(opts.End) {
			continue
		}
		result = append(result, &e)
	}

	return paginate(result, opts.Offset, opts.Limit), nil
}

func (s *Store) PurgeJournal(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]journal.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Timestamp.Before(before) {
			count++
		} else {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return count, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions
func paginate[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
