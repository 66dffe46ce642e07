package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/streamledger"
	"github.com/xraph/streamledger/account"
	"github.com/xraph/streamledger/journal"
	"github.com/xraph/streamledger/stream"
)

func TestAccountRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := account.New("alice")
	acc.Principal = 100
	if err := s.UpsertAccount(ctx, acc); err != nil {
		t.Fatalf("UpsertAccount: %v", err)
	}

	got, err := s.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Principal != 100 {
		t.Errorf("Principal = %d, want 100", got.Principal)
	}

	// Returned value is a copy, mutating it must not leak back.
	got.Principal = 1
	again, _ := s.GetAccount(ctx, "alice")
	if again.Principal != 100 {
		t.Error("store returned shared pointer")
	}
}

func TestGetAccountNotFound(t *testing.T) {
	s := New()
	_, err := s.GetAccount(context.Background(), "nobody")
	if !errors.Is(err, streamledger.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	st := stream.New("alice", "bob", 5, 1000)
	if err := s.UpsertStream(ctx, st); err != nil {
		t.Fatalf("UpsertStream: %v", err)
	}

	got, err := s.GetStream(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetStream: %v", err)
	}
	if got.Rate != 5 || got.Payee != "bob" {
		t.Errorf("got %+v", got)
	}

	_, err = s.GetStream(ctx, stream.DeriveID("x", "y", 1))
	if !errors.Is(err, streamledger.ErrStreamNotFound) {
		t.Errorf("err = %v, want ErrStreamNotFound", err)
	}
}

func TestListStreamsActiveOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	active := stream.New("alice", "bob", 5, 1000)
	canceled := stream.New("alice", "carol", 3, 0)
	other := stream.New("dave", "bob", 2, 1000)
	for _, st := range []*stream.Stream{active, canceled, other} {
		if err := s.UpsertStream(ctx, st); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListStreams(ctx, "alice", stream.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all streams = %d, want 2", len(all))
	}

	act, err := s.ListStreams(ctx, "alice", stream.ListOpts{ActiveOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(act) != 1 || act[0].Payee != "bob" {
		t.Errorf("active streams = %+v", act)
	}
}

func TestJournalQueryAndPurge(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now()
	entries := []*journal.Entry{
		{Account: "alice", Op: journal.OpDeposit, Amount: 100, Timestamp: base.Add(-2 * time.Hour)},
		{Account: "alice", Op: journal.OpWithdraw, Amount: 40, Timestamp: base.Add(-1 * time.Hour)},
		{Account: "bob", Op: journal.OpDeposit, Amount: 7, Timestamp: base},
	}
	if err := s.AppendJournal(ctx, entries); err != nil {
		t.Fatalf("AppendJournal: %v", err)
	}

	got, err := s.QueryJournal(ctx, "alice", journal.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("alice entries = %d, want 2", len(got))
	}

	deposits, err := s.QueryJournal(ctx, "alice", journal.QueryOpts{Op: journal.OpDeposit})
	if err != nil {
		t.Fatal(err)
	}
	if len(deposits) != 1 || deposits[0].Amount != 100 {
		t.Errorf("deposits = %+v", deposits)
	}

	purged, err := s.PurgeJournal(ctx, base.Add(-90*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
}

func TestListAccountsPagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, owner := range []string{"carol", "alice", "bob"} {
		if err := s.UpsertAccount(ctx, account.New(owner)); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.ListAccounts(ctx, account.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Owner != "bob" || page[1].Owner != "carol" {
		t.Errorf("page = %+v", page)
	}
}
