package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/streamledger/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"LedgerID", id.NewLedgerID, "ldgr_"},
		{"JournalID", id.NewJournalID, "jrnl_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixLedger)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixLedger {
		t.Errorf("expected prefix %q, got %q", id.PrefixLedger, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"LedgerID", id.NewLedgerID, id.ParseLedgerID},
		{"JournalID", id.NewJournalID, id.ParseJournalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.newFn()
			parsed, err := tt.parseFn(orig.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != orig.String() {
				t.Errorf("round trip mismatch: got %q, want %q", parsed.String(), orig.String())
			}
		})
	}
}

func TestParseWithPrefixMismatch(t *testing.T) {
	ledgerID := id.NewLedgerID()
	if _, err := id.ParseJournalID(ledgerID.String()); err == nil {
		t.Fatal("expected prefix mismatch error")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero value should be nil")
	}
	if i.String() != "" {
		t.Errorf("nil ID String(): got %q, want empty", i.String())
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	orig := id.NewJournalID()
	data, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip mismatch: got %q, want %q", parsed.String(), orig.String())
	}
}

func TestScan(t *testing.T) {
	orig := id.NewLedgerID()

	tests := []struct {
		name string
		src  any
		want string
	}{
		{"String", orig.String(), orig.String()},
		{"Bytes", []byte(orig.String()), orig.String()},
		{"Nil", nil, ""},
		{"EmptyString", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var i id.ID
			if err := i.Scan(tt.src); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if i.String() != tt.want {
				t.Errorf("got %q, want %q", i.String(), tt.want)
			}
		})
	}
}
