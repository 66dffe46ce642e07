package streamledger

import "github.com/xraph/streamledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Price is re-exported from types package.
type Price = types.Price

// Entity is re-exported from types package.
type Entity = types.Entity

// InitialPrice is the 1:1 per-share price a fresh vault starts at.
const InitialPrice = types.InitialPrice

// PriceScale is the fixed-point denominator of Price values.
const PriceScale = types.PriceScale

// Re-export Entity constructor
var NewEntity = types.NewEntity
