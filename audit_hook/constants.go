package audithook

// Action constants for audit events.
const (
	// Funding actions
	ActionDeposit         = "deposit"
	ActionPayerWithdrawal = "payer.withdrawal"

	// Stream actions
	ActionStreamCreated  = "stream.created"
	ActionStreamCanceled = "stream.canceled"
	ActionStreamModified = "stream.modified"
	ActionWithdrawal     = "withdrawal"

	// Settlement actions
	ActionStarved = "settlement.starved"

	// Vault actions
	ActionYieldAccrued = "yield.accrued"
	ActionRebalance    = "rebalance"
)

// Resource constants for audit events.
const (
	ResourceAccount = "account"
	ResourceStream  = "stream"
	ResourceVault   = "vault"
)

// Category constants for audit events.
const (
	CategoryFunding   = "funding"
	CategoryStreaming = "streaming"
	CategoryYield     = "yield"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
