package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/streamledger"
	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	ledgerstore "github.com/xraph/streamledger/store"
	"github.com/xraph/streamledger/stream"
)

// Collection name constants.
const (
	colAccounts = "streamledger_accounts"
	colStreams  = "streamledger_streams"
	colJournal  = "streamledger_journal"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("streamledger/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, owner string) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": owner}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, streamledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("streamledger/mongo: get account: %w", err)
	}
	return fromAccountModel(&m), nil
}

func (s *Store) UpsertAccount(ctx context.Context, acc *account.Account) error {
	m := toAccountModel(acc)
	m.UpdatedAt = now()

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Owner}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":                   m.Owner,
			"principal":             m.Principal,
			"direct_balance":        m.DirectBalance,
			"vault_shares":          m.VaultShares,
			"rate_per_second":       m.RatePerSecond,
			"last_update":           m.LastUpdate,
			"paid_balance":          m.PaidBalance,
			"last_price":            m.LastPrice,
			"yield_earned_per_unit": m.YieldEarnedPerUnit,
			"created_at":            m.CreatedAt,
			"updated_at":            m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("streamledger/mongo: upsert account: %w", err)
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("streamledger/mongo: list accounts: %w", err)
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		result[i] = fromAccountModel(&models[i])
	}
	return result, nil
}

// ==================== Stream Store ====================

func (s *Store) GetStream(ctx context.Context, streamID stream.ID) (*stream.Stream, error) {
	var m streamModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": streamID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, streamledger.ErrStreamNotFound
		}
		return nil, fmt.Errorf("streamledger/mongo: get stream: %w", err)
	}
	return fromStreamModel(&m)
}

func (s *Store) UpsertStream(ctx context.Context, st *stream.Stream) error {
	m := toStreamModel(st)
	m.UpdatedAt = now()

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.ID,
			"payer":      m.Payer,
			"payee":      m.Payee,
			"rate":       m.Rate,
			"start_time": m.StartTime,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("streamledger/mongo: upsert stream: %w", err)
	}
	return nil
}

func (s *Store) ListStreams(ctx context.Context, payer string, opts stream.ListOpts) ([]*stream.Stream, error) {
	var models []streamModel

	filter := bson.M{"payer": payer}
	if opts.ActiveOnly {
		filter["start_time"] = bson.M{"$ne": 0}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("streamledger/mongo: list streams: %w", err)
	}

	result := make([]*stream.Stream, len(models))
	for i := range models {
		st, err := fromStreamModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = st
	}
	return result, nil
}

// ==================== Journal Store ====================

func (s *Store) AppendJournal(ctx context.Context, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		m := toJournalModel(e)
		_, err := s.mdb.NewInsert(m).Exec(ctx)
		if err != nil {
			// Re-flushed batches may overlap a previous partial write.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("streamledger/mongo: append journal: %w", err)
		}
	}
	return nil
}

func (s *Store) QueryJournal(ctx context.Context, acct string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	var models []journalModel

	filter := bson.M{"account": acct}
	if opts.Op != "" {
		filter["op"] = opts.Op
	}
	ts := bson.M{}
	if !opts.Start.IsZero() {
		ts["$gte"] = opts.Start
	}
	if !opts.End.IsZero() {
		ts["$lte"] = opts.End
	}
	if len(ts) > 0 {
		filter["timestamp"] = ts
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "timestamp", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("streamledger/mongo: query journal: %w", err)
	}

	result := make([]*journal.Entry, len(models))
	for i := range models {
		e, err := fromJournalModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) PurgeJournal(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*journalModel)(nil)).
		Filter(bson.M{"timestamp": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("streamledger/mongo: purge journal: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
		colStreams: {
			{Keys: bson.D{{Key: "payer", Value: 1}, {Key: "start_time", Value: 1}}},
			{Keys: bson.D{{Key: "payee", Value: 1}}},
		},
		colJournal: {
			{Keys: bson.D{{Key: "account", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "account", Value: 1}, {Key: "op", Value: 1}}},
		},
	}
}
