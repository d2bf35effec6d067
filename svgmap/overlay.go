package svgmap

// Overlay is the highlight layer drawn above every other shape. Its shapes
// are never hit-tested, so the entities underneath stay clickable.
type Overlay struct {
	shapes map[string]*Shape
	order  []string
}

func newOverlay() *Overlay {
	return &Overlay{shapes: make(map[string]*Shape)}
}

// Add inserts (or replaces) the highlight duplicate for id.
func (o *Overlay) Add(id string, s *Shape) {
	if _, ok := o.shapes[id]; !ok {
		o.order = append(o.order, id)
	}
	o.shapes[id] = s
}

func (o *Overlay) Remove(id string) {
	if _, ok := o.shapes[id]; !ok {
		return
	}
	delete(o.shapes, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Clear drops every overlay node at once.
func (o *Overlay) Clear() {
	o.shapes = make(map[string]*Shape)
	o.order = nil
}

func (o *Overlay) Len() int { return len(o.order) }

func (o *Overlay) Has(id string) bool {
	_, ok := o.shapes[id]
	return ok
}

// Each visits overlay shapes in insertion order.
func (o *Overlay) Each(fn func(id string, s *Shape)) {
	for _, id := range o.order {
		fn(id, o.shapes[id])
	}
}
