package keynav

import (
	"testing"

	"tableflip.dev/widgets/pkg/filter"
)

func visible() []filter.Item {
	return []filter.Item{
		{Key: "a", Label: "Apple", Order: 0},
		{Key: "c", Label: "Cherry", Order: 2},
		{Key: "e", Label: "Elder", Order: 4},
	}
}

func TestLinearDownFromInputFocusesFirst(t *testing.T) {
	l := Linear{Visible: visible()}
	if got := l.Move(InputTarget(), IntentDown); got.Key != "a" || got.Input {
		t.Fatalf("expected first item, got %+v", got)
	}
	empty := Linear{}
	if got := empty.Move(InputTarget(), IntentDown); !got.Input {
		t.Fatalf("expected input to keep focus with no items, got %+v", got)
	}
}

func TestLinearDownSkipsHiddenOrders(t *testing.T) {
	l := Linear{Visible: visible()}
	// Order 1 is hidden by the filter; the next visible order is 2.
	from := Target{Key: "b", Order: 1}
	if got := l.Move(from, IntentDown); got.Key != "c" {
		t.Fatalf("expected c, got %+v", got)
	}
}

func TestLinearDownAtLastIsNoop(t *testing.T) {
	l := Linear{Visible: visible()}
	last := ItemTarget(visible()[2])
	if got := l.Move(last, IntentDown); got != last {
		t.Fatalf("expected focus unchanged, got %+v", got)
	}
}

func TestLinearUp(t *testing.T) {
	l := Linear{Visible: visible()}
	if got := l.Move(ItemTarget(visible()[2]), IntentUp); got.Key != "c" {
		t.Fatalf("expected c, got %+v", got)
	}
	if got := l.Move(ItemTarget(visible()[0]), IntentUp); !got.Input {
		t.Fatalf("expected input from first item, got %+v", got)
	}
	if got := l.Move(InputTarget(), IntentUp); !got.Input {
		t.Fatalf("expected input to stay, got %+v", got)
	}
}

func TestLinearNeverLeavesVisibleSet(t *testing.T) {
	l := Linear{Visible: visible()}
	focus := InputTarget()
	for _, in := range []Intent{IntentDown, IntentDown, IntentDown, IntentDown, IntentUp, IntentLeft, IntentUp, IntentUp, IntentUp, IntentDown} {
		focus = l.Move(focus, in)
		if !l.Contains(focus) {
			t.Fatalf("focus %+v left the visible set after %s", focus, in)
		}
	}
}

func TestGridHorizontalClampsAtRowEdges(t *testing.T) {
	g := Grid{Columns: 7, Cells: 42}
	if got := g.Move(Cell(7), IntentLeft); got != Cell(7) {
		t.Fatalf("expected left at column 0 to stay, got %+v", got)
	}
	if got := g.Move(Cell(13), IntentRight); got != Cell(13) {
		t.Fatalf("expected right at column 6 to stay, got %+v", got)
	}
	if got := g.Move(Cell(8), IntentRight); got != Cell(9) {
		t.Fatalf("expected 9, got %+v", got)
	}
	if got := g.Move(Cell(8), IntentLeft); got != Cell(7) {
		t.Fatalf("expected 7, got %+v", got)
	}
}

func TestGridVertical(t *testing.T) {
	g := Grid{Columns: 7, Cells: 42}
	if got := g.Move(Cell(10), IntentUp); got != Cell(3) {
		t.Fatalf("expected 3, got %+v", got)
	}
	if got := g.Move(Cell(3), IntentUp); got != Header() {
		t.Fatalf("expected header, got %+v", got)
	}
	if got := g.Move(Header(), IntentDown); got != Cell(0) {
		t.Fatalf("expected first cell, got %+v", got)
	}
	if got := g.Move(Cell(38), IntentDown); got != Footer(3) {
		t.Fatalf("expected footer, got %+v", got)
	}
	if got := g.Move(Footer(3), IntentUp); got != Cell(38) {
		t.Fatalf("expected return to bottom row column 3, got %+v", got)
	}
	if got := g.Move(Footer(3), IntentDown); got != Footer(3) {
		t.Fatalf("expected footer down to stay, got %+v", got)
	}
	if got := g.Move(Header(), IntentUp); got != Header() {
		t.Fatalf("expected header up to stay, got %+v", got)
	}
}

func TestYearGrid(t *testing.T) {
	g := Grid{Columns: 3, Cells: 12}
	if g.Rows() != 4 {
		t.Fatalf("expected 4 rows, got %d", g.Rows())
	}
	if got := g.Move(Cell(2), IntentRight); got != Cell(2) {
		t.Fatalf("expected clamp, got %+v", got)
	}
	if got := g.Move(Cell(10), IntentDown); got != Footer(1) {
		t.Fatalf("expected footer, got %+v", got)
	}
	if got := g.Move(Footer(1), IntentUp); got != Cell(10) {
		t.Fatalf("expected 10, got %+v", got)
	}
}

func TestGridNeverLeavesGrid(t *testing.T) {
	g := Grid{Columns: 7, Cells: 42}
	focus := Cell(20)
	seq := []Intent{IntentDown, IntentDown, IntentDown, IntentDown, IntentDown, IntentRight, IntentRight, IntentRight, IntentRight, IntentUp, IntentUp, IntentUp, IntentUp, IntentUp, IntentUp, IntentUp, IntentUp, IntentLeft}
	for _, in := range seq {
		focus = g.Move(focus, in)
		if !g.Contains(focus) {
			t.Fatalf("focus %+v outside grid after %s", focus, in)
		}
	}
}

func TestKeymapResolve(t *testing.T) {
	k := DefaultKeymap()
	if k.Resolve("down") != IntentDown || k.Resolve("j") != IntentNone {
		t.Fatalf("unexpected default bindings")
	}
	v := k.WithVim()
	if v.Resolve("j") != IntentDown || v.Resolve("]") != IntentPageNext {
		t.Fatalf("unexpected vim bindings")
	}
	if _, ok := k["h"]; ok {
		t.Fatalf("WithVim mutated the receiver")
	}
	if IntentActivate.String() != "activate" {
		t.Fatalf("unexpected intent name %q", IntentActivate)
	}
}
