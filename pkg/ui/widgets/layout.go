package widgets

// Orientation selects the PackLayout stacking axis.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Default PackLayout spacing.
const (
	DefaultPadding = 4
	DefaultSpacing = 2
)

// Container accepts widgets; windows implement it.
type Container interface {
	AddWidget(w Widget) error
}

// PackLayout stacks widgets inside a container along one axis.
type PackLayout struct {
	container   Container
	orientation Orientation
	padding     int
	spacing     int
	children    []Widget
}

// NewPackLayout creates a layout with the default padding and spacing.
func NewPackLayout(c Container, o Orientation) *PackLayout {
	return &PackLayout{container: c, orientation: o, padding: DefaultPadding, spacing: DefaultSpacing}
}

// SetSpacing overrides padding and spacing and repositions the children.
func (p *PackLayout) SetSpacing(padding, spacing int) {
	p.padding, p.spacing = padding, spacing
	p.Reflow()
}

// Add adds a widget to the container and places it after the previous one.
func (p *PackLayout) Add(w Widget) error {
	if err := p.container.AddWidget(w); err != nil {
		return err
	}
	p.children = append(p.children, w)
	p.Reflow()
	return nil
}

// Children returns the packed widgets in order.
func (p *PackLayout) Children() []Widget {
	return append([]Widget(nil), p.children...)
}

// Reflow repositions every child.
func (p *PackLayout) Reflow() {
	x, y := p.padding, p.padding
	for _, w := range p.children {
		w.SetPosition(x, y)
		b := w.Bounds()
		if p.orientation == Vertical {
			y += b.Height + p.spacing
		} else {
			x += b.Width + p.spacing
		}
	}
}
