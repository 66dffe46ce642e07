package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/id"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
	"github.com/xraph/streamledger/types"
)

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:streamledger_accounts"`

	Owner              string    `grove:"owner,pk"`
	Principal          uint64    `grove:"principal"`
	DirectBalance      uint64    `grove:"direct_balance"`
	VaultShares        uint64    `grove:"vault_shares"`
	RatePerSecond      uint64    `grove:"rate_per_second"`
	LastUpdate         int64     `grove:"last_update"`
	PaidBalance        uint64    `grove:"paid_balance"`
	LastPrice          uint64    `grove:"last_price"`
	YieldEarnedPerUnit uint64    `grove:"yield_earned_per_unit"`
	CreatedAt          time.Time `grove:"created_at"`
	UpdatedAt          time.Time `grove:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		Owner:              a.Owner,
		Principal:          a.Principal,
		DirectBalance:      a.DirectBalance,
		VaultShares:        a.VaultShares,
		RatePerSecond:      a.RatePerSecond,
		LastUpdate:         a.LastUpdate,
		PaidBalance:        a.PaidBalance,
		LastPrice:          uint64(a.LastPrice),
		YieldEarnedPerUnit: a.YieldEarnedPerUnit,
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
		Principal:          m.Principal,
		DirectBalance:      m.DirectBalance,
		VaultShares:        m.VaultShares,
		RatePerSecond:      m.RatePerSecond,
		LastUpdate:         m.LastUpdate,
		PaidBalance:        m.PaidBalance,
		LastPrice:          types.Price(m.LastPrice),
		YieldEarnedPerUnit: m.YieldEarnedPerUnit,
	}
}

// ==================== Stream models ====================

type streamModel struct {
	grove.BaseModel `grove:"table:streamledger_streams"`

	ID        string    `grove:"id,pk"`
	Payer     string    `grove:"payer"`
	Payee     string    `grove:"payee"`
	Rate      uint64    `grove:"rate"`
	StartTime int64     `grove:"start_time"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toStreamModel(s *stream.Stream) *streamModel {
	return &streamModel{
		ID:        s.ID.String(),
		Payer:     s.Payer,
		Payee:     s.Payee,
		Rate:      s.Rate,
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
		Rate:      m.Rate,
		StartTime: m.StartTime,
	}, nil
}

// ==================== Journal models ====================

type journalModel struct {
	grove.BaseModel `grove:"table:streamledger_journal"`

	ID        string            `grove:"id,pk"`
	Account   string            `grove:"account"`
	Op        string            `grove:"op"`
	Amount    uint64            `grove:"amount"`
	StreamID  string            `grove:"stream_id"`
	Timestamp time.Time         `grove:"timestamp"`
	Metadata  map[string]string `grove:"metadata,type:jsonb"`
	CreatedAt time.Time         `grove:"created_at"`
}

func toJournalModel(e *journal.Entry) *journalModel {
	return &journalModel{
		ID:        e.ID.String(),
		Account:   e.Account,
		Op:        e.Op,
		Amount:    e.Amount,
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
		Amount:    m.Amount,
		StreamID:  m.StreamID,
		Timestamp: m.Timestamp,
		Metadata:  m.Metadata,
	}, nil
}
