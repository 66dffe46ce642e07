package stream

import "context"

// Store is the stream persistence fragment implemented by storage backends.
type Store interface {
	GetStream(ctx context.Context, sid ID) (*Stream, error)
	UpsertStream(ctx context.Context, s *Stream) error
	ListStreams(ctx context.Context, payer string, opts ListOpts) ([]*Stream, error)
}

// ListOpts filters stream listings.
type ListOpts struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
