package streamledger

import "github.com/xraph/streamledger/id"

// ID is the primary identifier type for StreamLedger entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
