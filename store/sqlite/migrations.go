package sqlite

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
    principal             INTEGER NOT NULL DEFAULT 0,
    direct_balance        INTEGER NOT NULL DEFAULT 0,
    vault_shares          INTEGER NOT NULL DEFAULT 0,
    rate_per_second       INTEGER NOT NULL DEFAULT 0,
    last_update           INTEGER NOT NULL DEFAULT 0,
    paid_balance          INTEGER NOT NULL DEFAULT 0,
    last_price            INTEGER NOT NULL DEFAULT 0,
    yield_earned_per_unit INTEGER NOT NULL DEFAULT 0,
    created_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
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
    rate       INTEGER NOT NULL DEFAULT 0,
    start_time INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_streamledger_streams_payer ON streamledger_streams (payer);
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
    amount     INTEGER NOT NULL DEFAULT 0,
    stream_id  TEXT NOT NULL DEFAULT '',
    timestamp  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    metadata   TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_streamledger_journal_account ON streamledger_journal (account, timestamp);
CREATE INDEX IF NOT EXISTS idx_streamledger_journal_timestamp ON streamledger_journal (timestamp);
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
