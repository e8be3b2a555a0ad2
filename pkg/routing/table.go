package routing

// Table is an ordered collection of routes keyed by pattern.
//
// Table is not safe for concurrent use; callers that share a table across
// goroutines must serialize access.
type Table struct {
	index  map[string]int
	routes []Route
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add stores a route. Adding a pattern that already exists replaces its
// target and keeps its original position.
func (t *Table) Add(pattern string, target Target) {
	r := newRoute(pattern, target)

	if i, ok := t.index[r.Pattern]; ok {
		t.routes[i] = r
		return
	}

	t.index[r.Pattern] = len(t.routes)
	t.routes = append(t.routes, r)
}

// Remove deletes the route for pattern. Missing patterns are ignored.
func (t *Table) Remove(pattern string) {
	p := Normalize(pattern)

	i, ok := t.index[p]
	if !ok {
		return
	}

	t.routes = append(t.routes[:i], t.routes[i+1:]...)
	delete(t.index, p)
	for j := i; j < len(t.routes); j++ {
		t.index[t.routes[j].Pattern] = j
	}
}

// Get returns the target stored for pattern.
func (t *Table) Get(pattern string) (Target, bool) {
	i, ok := t.index[Normalize(pattern)]
	if !ok {
		return Target{}, false
	}
	return t.routes[i].Target.Clone(), true
}

// Match finds the first route, in insertion order, whose pattern accepts
// uri. The returned target is a copy whose Params hold the route's static
// params followed by the captured segments.
func (t *Table) Match(uri string) (Target, bool) {
	segments := Segments(Normalize(uri))

	for _, r := range t.routes {
		captures, ok := r.match(segments)
		if !ok {
			continue
		}

		target := r.Target.Clone()
		target.Params = append(target.Params, captures...)
		return target, true
	}

	return Target{}, false
}

// Merge copies every route of other into t. Routes from other win on
// pattern collisions.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for _, r := range other.routes {
		t.Add(r.Pattern, r.Target)
	}
}

// Routes returns the routes in insertion order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = r
		out[i].Target = r.Target.Clone()
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable()
	c.Merge(t)
	return c
}
