package session

// Party is one catalog entry.
type Party struct {
	ID   string
	Name string
}

// Catalog maps party ids to display names. It grows as districts are opened
// and feeds the batch editor's party selector.
type Catalog struct {
	order []string
	names map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{names: map[string]string{}}
}

// Add records a party. A known party keeps its position; a non-empty name
// replaces a previous one.
func (c *Catalog) Add(id, name string) {
	if id == "" {
		return
	}
	if name == "" {
		name = id
	}
	if _, ok := c.names[id]; !ok {
		c.order = append(c.order, id)
	}
	c.names[id] = name
}

func (c *Catalog) Name(id string) string {
	if n, ok := c.names[id]; ok {
		return n
	}
	return id
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.names[id]
	return ok
}

func (c *Catalog) Len() int { return len(c.order) }

// Parties lists the catalog in first-seen order.
func (c *Catalog) Parties() []Party {
	out := make([]Party, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Party{ID: id, Name: c.names[id]})
	}
	return out
}
