package audit

import (
	"testing"
	"time"
)

func TestAppendPreservesOrderAndIsolation(t *testing.T) {
	l := NewLog()

	l.Append("S-ORD-1", Entry{Type: EntryTypeQR, Label: "QR sent", Channel: "email"})
	l.Append("S-ORD-1", Entry{Type: EntryTypeContact, Label: "Buyer contacted", Channel: "voice"})
	l.Append("B-ORD-1", Entry{Type: EntryTypeEscrow, Label: "Escrow reserved"})

	got := l.ForOrder("S-ORD-1")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Type != EntryTypeQR || got[1].Type != EntryTypeContact {
		t.Fatalf("entries out of order: %v", got)
	}
	if l.Count("B-ORD-1") != 1 {
		t.Fatalf("Count(B-ORD-1) = %d, want 1", l.Count("B-ORD-1"))
	}
	if l.ForOrder("unknown") != nil {
		t.Fatal("expected nil for an order with no entries")
	}
}

func TestAppendStampsZeroDate(t *testing.T) {
	l := NewLog()
	fixed := time.Date(2026, time.March, 2, 10, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Append("S-ORD-1", Entry{Type: EntryTypeRelease, Label: "Funds released"})

	got := l.ForOrder("S-ORD-1")
	if !got[0].Date.Equal(fixed) {
		t.Fatalf("Date = %v, want %v", got[0].Date, fixed)
	}
}

func TestForOrderReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append("S-ORD-1", Entry{Type: EntryTypeQR, Label: "QR sent"})

	got := l.ForOrder("S-ORD-1")
	got[0].Label = "tampered"

	if l.ForOrder("S-ORD-1")[0].Label != "QR sent" {
		t.Fatal("ForOrder shares backing slice with the log")
	}
}
