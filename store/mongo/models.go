package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/id"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
	"github.com/xraph/streamledger/types"
)

// BSON has no unsigned 64-bit type, so balance fields round-trip through
// int64. Amounts near the top of the uint64 range are out of scope for a
// mongo deployment.

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:streamledger_accounts"`

	Owner              string    `grove:"owner,pk"              bson:"_id"`
	Principal          int64     `grove:"principal"             bson:"principal"`
	DirectBalance      int64     `grove:"direct_balance"        bson:"direct_balance"`
	VaultShares        int64     `grove:"vault_shares"          bson:"vault_shares"`
	RatePerSecond      int64     `grove:"rate_per_second"       bson:"rate_per_second"`
	LastUpdate         int64     `grove:"last_update"           bson:"last_update"`
	PaidBalance        int64     `grove:"paid_balance"          bson:"paid_balance"`
	LastPrice          int64     `grove:"last_price"            bson:"last_price"`
	YieldEarnedPerUnit int64     `grove:"yield_earned_per_unit" bson:"yield_earned_per_unit"`
	CreatedAt          time.Time `grove:"created_at"            bson:"created_at"`
	UpdatedAt          time.Time `grove:"updated_at"            bson:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		Owner:              a.Owner,
		Principal:          int64(a.Principal),
		DirectBalance:      int64(a.DirectBalance),
		VaultShares:        int64(a.VaultShares),
		RatePerSecond:      int64(a.RatePerSecond),
		LastUpdate:         a.LastUpdate,
		PaidBalance:        int64(a.PaidBalance),
		LastPrice:          int64(a.LastPrice),
		YieldEarnedPerUnit: int64(a.YieldEarnedPerUnit),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) *account.Account {
	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Owner:              m.Owner,
		Principal:          uint64(m.Principal),
		DirectBalance:      uint64(m.DirectBalance),
		VaultShares:        uint64(m.VaultShares),
		RatePerSecond:      uint64(m.RatePerSecond),
		LastUpdate:         m.LastUpdate,
		PaidBalance:        uint64(m.PaidBalance),
		LastPrice:          types.Price(m.LastPrice),
		YieldEarnedPerUnit: uint64(m.YieldEarnedPerUnit),
	}
}

// ==================== Stream models ====================

type streamModel struct {
	grove.BaseModel `grove:"table:streamledger_streams"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Payer     string    `grove:"payer"      bson:"payer"`
	Payee     string    `grove:"payee"      bson:"payee"`
	Rate      int64     `grove:"rate"       bson:"rate"`
	StartTime int64     `grove:"start_time" bson:"start_time"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

func toStreamModel(s *stream.Stream) *streamModel {
	return &streamModel{
		ID:        s.ID.String(),
		Payer:     s.Payer,
		Payee:     s.Payee,
		Rate:      int64(s.Rate),
		StartTime: s.StartTime,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func fromStreamModel(m *streamModel) (*stream.Stream, error) {
	streamID, err := stream.ParseID(m.ID)
	if err != nil {
		return nil, err
	}

	return &stream.Stream{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        streamID,
		Payer:     m.Payer,
		Payee:     m.Payee,
		Rate:      uint64(m.Rate),
		StartTime: m.StartTime,
	}, nil
}

// ==================== Journal models ====================

type journalModel struct {
	grove.BaseModel `grove:"table:streamledger_journal"`

	ID        string            `grove:"id,pk"      bson:"_id"`
	Account   string            `grove:"account"    bson:"account"`
	Op        string            `grove:"op"         bson:"op"`
	Amount    int64             `grove:"amount"     bson:"amount"`
	StreamID  string            `grove:"stream_id"  bson:"stream_id,omitempty"`
	Timestamp time.Time         `grove:"timestamp"  bson:"timestamp"`
	Metadata  map[string]string `grove:"metadata"   bson:"metadata,omitempty"`
	CreatedAt time.Time         `grove:"created_at" bson:"created_at"`
}

func toJournalModel(e *journal.Entry) *journalModel {
	return &journalModel{
		ID:        e.ID.String(),
		Account:   e.Account,
		Op:        e.Op,
		Amount:    int64(e.Amount),
		StreamID:  e.StreamID,
		Timestamp: e.Timestamp,
		Metadata:  e.Metadata,
		CreatedAt: time.Now().UTC(),
	}
}

func fromJournalModel(m *journalModel) (*journal.Entry, error) {
	entryID, err := id.ParseJournalID(m.ID)
	if err != nil {
		return nil, err
	}

	return &journal.Entry{
		ID:        entryID,
		Account:   m.Account,
		Op:        m.Op,
		Amount:    uint64(m.Amount),
		StreamID:  m.StreamID,
		Timestamp: m.Timestamp,
		Metadata:  m.Metadata,
	}, nil
}
