package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the StreamLedger store.
var Migrations = migrate.NewGroup("streamledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_streamledger_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS streamledger_accounts (
    owner                 TEXT PRIMARY KEY,
    principal             NUMERIC(20,0) NOT NULL DEFAULT 0,
    direct_balance        NUMERIC(20,0) NOT NULL DEFAULT 0,
    vault_shares          NUMERIC(20,0) NOT NULL DEFAULT 0,
    rate_per_second       NUMERIC(20,0) NOT NULL DEFAULT 0,
    last_update           BIGINT NOT NULL DEFAULT 0,
    paid_balance          NUMERIC(20,0) NOT NULL DEFAULT 0,
    last_price            NUMERIC(20,0) NOT NULL DEFAULT 0,
    yield_earned_per_unit NUMERIC(20,0) NOT NULL DEFAULT 0,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS streamledger_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_streamledger_streams",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS streamledger_streams (
    id         TEXT PRIMARY KEY,
    payer      TEXT NOT NULL DEFAULT '',
    payee      TEXT NOT NULL DEFAULT '',
    rate       NUMERIC(20,0) NOT NULL DEFAULT 0,
    start_time BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_streamledger_streams_payer ON streamledger_streams (payer);
CREATE INDEX IF NOT EXISTS idx_streamledger_streams_payer_active ON streamledger_streams (payer, start_time) WHERE start_time != 0;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS streamledger_streams`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_streamledger_journal",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS streamledger_journal (
    id         TEXT PRIMARY KEY,
    account    TEXT NOT NULL DEFAULT '',
    op         TEXT NOT NULL DEFAULT '',
    amount     NUMERIC(20,0) NOT NULL DEFAULT 0,
    stream_id  TEXT NOT NULL DEFAULT '',
    timestamp  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    metadata   JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_streamledger_journal_account ON streamledger_journal (account, timestamp);
CREATE INDEX IF NOT EXISTS idx_streamledger_journal_timestamp ON streamledger_journal (timestamp);
CREATE INDEX IF NOT EXISTS idx_streamledger_journal_op ON streamledger_journal (account, op);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS streamledger_journal`)
				return err
			},
		},
	)
}
