package dataset

// Properties is an ordered set of named property lists.
// Names keep the position of their first insertion, so iteration order is
// stable across exports. A nil *Properties reads as an empty set; Set
// needs a value from NewProperties.
type Properties struct {
	names  []string
	values map[string][]any
}

// NewProperties creates an empty property set.
func NewProperties() *Properties {
	return &Properties{values: make(map[string][]any)}
}

// Set stores values under name. Replacing an existing name keeps its position.
// Set panics on a nil receiver.
func (p *Properties) Set(name string, values []any) {
	if p.values == nil {
		p.values = make(map[string][]any)
	}
	if _, exists := p.values[name]; !exists {
		p.names = append(p.names, name)
	}
	p.values[name] = values
}

// Get returns the values stored under name.
func (p *Properties) Get(name string) ([]any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Has reports whether name is present.
func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}
