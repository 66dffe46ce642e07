package account

import (
	"context"
)

// Store is the persistence surface for accounts. Implementations live under
// the store/ backends and must return copies, never shared pointers.
type Store interface {
	// GetAccount retrieves an account by owner. Missing accounts surface
	// the backend's not-found sentinel.
	GetAccount(ctx context.Context, owner string) (*Account, error)

	// UpsertAccount writes the full account record, creating it if absent.
	UpsertAccount(ctx context.Context, acc *Account) error

	// ListAccounts returns all accounts, ordered by owner.
	ListAccounts(ctx context.Context, opts ListOpts) ([]*Account, error)
}

// ListOpts controls account listing.
type ListOpts struct {
	// Limit caps the number of returned records; zero means no cap.
	Limit int

	// Offset skips the first N records.
	Offset int
}
