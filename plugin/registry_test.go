package plugin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testPlugin struct {
	name      string
	deposits  atomic.Int64
	flushes   atomic.Int64
	initErr   error
	lastPayer string
}

func (p *testPlugin) Name() string { return p.name }

func (p *testPlugin) OnInit(_ context.Context, _ interface{}) error { return p.initErr }

func (p *testPlugin) OnDeposit(_ context.Context, payer string, _ uint64) error {
	p.lastPayer = payer
	p.deposits.Add(1)
	return nil
}

func (p *testPlugin) OnJournalFlushed(_ context.Context, _ int, _ time.Duration) error {
	p.flushes.Add(1)
	return nil
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&testPlugin{name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&testPlugin{name: "a"}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
}

func TestEmitDepositDispatch(t *testing.T) {
	r := NewRegistry()
	p := &testPlugin{name: "dep"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	r.EmitDeposit(context.Background(), "alice", 100)

	if p.deposits.Load() != 1 {
		t.Errorf("deposits = %d, want 1", p.deposits.Load())
	}
	if p.lastPayer != "alice" {
		t.Errorf("lastPayer = %q", p.lastPayer)
	}
}

func TestEmitSkipsNonImplementers(t *testing.T) {
	r := NewRegistry()
	p := &testPlugin{name: "dep"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	// testPlugin does not implement OnWithdraw; this must not panic.
	r.EmitWithdraw(context.Background(), "alice", "bob", 5)
}

func TestEmitInitErrorDoesNotPropagate(t *testing.T) {
	r := NewRegistry()
	p := &testPlugin{name: "failing", initErr: errors.New("boom")}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	// Errors from hooks are logged, never returned.
	r.EmitInit(context.Background(), nil)
}

func TestGetAndList(t *testing.T) {
	r := NewRegistry()
	p := &testPlugin{name: "p1"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	if got := r.Get("p1"); got == nil {
		t.Error("Get returned nil for registered plugin")
	}
	if got := r.Get("missing"); got != nil {
		t.Error("Get returned non-nil for unknown plugin")
	}
	if len(r.List()) != 1 {
		t.Errorf("List len = %d, want 1", len(r.List()))
	}
}

func TestEmitJournalFlushed(t *testing.T) {
	r := NewRegistry()
	p := &testPlugin{name: "flush"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	r.EmitJournalFlushed(context.Background(), 10, time.Millisecond)
	if p.flushes.Load() != 1 {
		t.Errorf("flushes = %d, want 1", p.flushes.Load())
	}
}
