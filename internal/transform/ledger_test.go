package transform

import (
	"reflect"
	"testing"
)

func TestLedger_FileConsumption(t *testing.T) {
	t.Parallel()

	// Files f1(3 rows), f2(5 rows); two groups of 2 batches x 2 rows.
	ledger := NewLedger([]string{"f1", "f2"}, []int{3, 5})

	ledger.Advance(4)
	if got := ledger.Movable(); !reflect.DeepEqual(got, []string{"f1"}) {
		t.Fatalf("movable after group 1 = %v, want [f1]", got)
	}
	if got := ledger.Remaining(); got != 4 {
		t.Fatalf("remaining after group 1 = %d, want 4", got)
	}

	ledger.Advance(4)
	if got := ledger.Movable(); !reflect.DeepEqual(got, []string{"f1", "f2"}) {
		t.Fatalf("movable after group 2 = %v, want [f1 f2]", got)
	}
	if got := ledger.Remaining(); got != 0 {
		t.Fatalf("remaining after group 2 = %d, want 0", got)
	}
}

func TestLedger_PartialFile(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]string{"f1"}, []int{10})
	ledger.Advance(4)

	if got := ledger.Movable(); len(got) != 0 {
		t.Fatalf("movable = %v, want empty", got)
	}
	if got := ledger.Remaining(); got != 6 {
		t.Fatalf("remaining = %d, want 6", got)
	}
}

func TestLedger_ConservesRowCount(t *testing.T) {
	t.Parallel()

	counts := []int{3, 1, 7, 2}
	ledger := NewLedger([]string{"a", "b", "c", "d"}, counts)

	total := 0
	for _, c := range counts {
		total += c
	}

	attempted := 0
	for _, step := range []int{5, 5, 3} {
		ledger.Advance(step)
		attempted += step
		if ledger.Remaining()+attempted != total {
			t.Fatalf("remaining %d + attempted %d != total %d", ledger.Remaining(), attempted, total)
		}
	}
	if got := ledger.Movable(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("movable = %v, want all files in order", got)
	}
}

func TestLedger_Empty(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(nil, nil)
	ledger.Advance(10)
	if ledger.Remaining() != 0 || len(ledger.Movable()) != 0 {
		t.Fatalf("empty ledger should stay empty")
	}
}
