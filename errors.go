package streamledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("streamledger: not found")
	ErrAlreadyExists = errors.New("streamledger: already exists")
	ErrInvalidInput  = errors.New("streamledger: invalid input")

	// Account errors
	ErrAccountNotFound   = errors.New("streamledger: account not found")
	ErrInsufficientFunds = errors.New("streamledger: insufficient funds")
	ErrInvalidAmount     = errors.New("streamledger: invalid amount")
	ErrAmountOverflow    = errors.New("streamledger: amount exceeds representable range")

	// Stream errors
	ErrStreamNotFound      = errors.New("streamledger: stream not found")
	ErrStreamAlreadyExists = errors.New("streamledger: stream already exists")
	ErrInvalidRate         = errors.New("streamledger: invalid stream rate")

	// Vault errors
	ErrVaultNotConfigured = errors.New("streamledger: vault not configured")
	ErrInsufficientShares = errors.New("streamledger: insufficient vault shares")
	ErrInvalidRatio       = errors.New("streamledger: invalid placement ratio")

	// Transfer errors
	ErrTransferFailed = errors.New("streamledger: token transfer failed")

	// Concurrency errors
	ErrReentrantCall = errors.New("streamledger: reentrant call rejected")

	// Journal errors
	ErrJournalBufferFull = errors.New("streamledger: journal buffer full")

	// Store errors
	ErrStoreNotReady     = errors.New("streamledger: store not ready")
	ErrStoreClosed       = errors.New("streamledger: store is closed")
	ErrTransactionFailed = errors.New("streamledger: transaction failed")
	ErrMigrationFailed   = errors.New("streamledger: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("streamledger: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrStreamNotFound)
}

// IsInsufficiency returns true if the error reflects a balance or share
// shortfall rather than a malformed request.
func IsInsufficiency(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientShares)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrJournalBufferFull) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrReentrantCall)
}
