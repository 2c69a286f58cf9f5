package widgets

import (
	"errors"
	"testing"

	"github.com/odvcencio/panel/pkg/ui/geom"
)

type fakeContainer struct {
	added []Widget
	err   error
}

func (c *fakeContainer) AddWidget(w Widget) error {
	if c.err != nil {
		return c.err
	}
	c.added = append(c.added, w)
	return nil
}

func TestPackLayoutVertical(t *testing.T) {
	c := &fakeContainer{}
	p := NewPackLayout(c, Vertical)
	a := NewLabel(0, 0, "one")
	b := NewButton(50, 50, 40, 16, "two", nil)
	d := NewLabel(0, 0, "three")
	for _, w := range []Widget{a, b, d} {
		if err := p.Add(w); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	want := []geom.Point{{X: 4, Y: 4}, {X: 4, Y: 14}, {X: 4, Y: 32}}
	for i, w := range p.Children() {
		if got := w.Bounds().Origin(); got != want[i] {
			t.Errorf("child %d origin = %v, want %v", i, got, want[i])
		}
	}
	if len(c.added) != 3 {
		t.Errorf("container got %d widgets, want 3", len(c.added))
	}
}

func TestPackLayoutHorizontal(t *testing.T) {
	c := &fakeContainer{}
	p := NewPackLayout(c, Horizontal)
	_ = p.Add(NewLabel(0, 0, "ab"))
	_ = p.Add(NewLabel(0, 0, "cd"))

	kids := p.Children()
	if got := kids[1].Bounds().Origin(); got != (geom.Point{X: 18, Y: 4}) {
		t.Errorf("second origin = %v, want (18,4)", got)
	}

	p.SetSpacing(0, 0)
	if got := kids[1].Bounds().Origin(); got != (geom.Point{X: 12, Y: 0}) {
		t.Errorf("second origin after SetSpacing = %v, want (12,0)", got)
	}
}

func TestPackLayoutAddError(t *testing.T) {
	c := &fakeContainer{err: errors.New("closed")}
	p := NewPackLayout(c, Vertical)
	if err := p.Add(NewLabel(0, 0, "x")); err == nil {
		t.Fatal("expected error")
	}
	if len(p.Children()) != 0 {
		t.Error("failed add should not be packed")
	}
}
