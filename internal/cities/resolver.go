package cities

import (
	"strings"

	"github.com/i474232898/gsm-forecast/internal/weather"
)

// Resolver looks names up in an immutable Table. It is safe for concurrent
// use.
type Resolver struct {
	table Table
	index map[string]weather.Coordinate
}

// NewResolver builds a resolver over a private copy of table. When a name
// repeats, the first entry wins.
func NewResolver(table Table) *Resolver {
	r := &Resolver{
		table: make(Table, len(table)),
		index: make(map[string]weather.Coordinate, len(table)),
	}
	copy(r.table, table)
	for _, e := range r.table {
		if _, dup := r.index[e.Name]; dup {
			continue
		}
		r.index[e.Name] = e.Coordinate()
	}
	return r
}

// Resolve returns the coordinate of the entry named exactly name.
// Matching is case-sensitive.
func (r *Resolver) Resolve(name string) (weather.Coordinate, bool) {
	coord, ok := r.index[name]
	return coord, ok
}

// Search returns, in table order, every name containing query. No case or
// locale folding is applied.
func (r *Resolver) Search(query string) []string {
	matches := []string{}
	for _, e := range r.table {
		if strings.Contains(e.Name, query) {
			matches = append(matches, e.Name)
		}
	}
	return matches
}

// Names lists every entry name in table order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.table))
	for _, e := range r.table {
		names = append(names, e.Name)
	}
	return names
}

func (r *Resolver) Len() int {
	return len(r.table)
}
