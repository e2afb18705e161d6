// Package index provides insertion-ordered lookup indices. The Relational
// Validator builds them privately over the full cleaned dataset before
// checking; they are discarded after the run.
package index

// Index maps canonical keys to the 0-based rows they occur on, remembering
// first-seen key order so reports stay deterministic.
type Index struct {
	rows map[string][]int
	keys []string
}

// New creates an empty index.
func New() *Index {
	return &Index{rows: map[string][]int{}}
}

// Add records that key occurs on row.
func (ix *Index) Add(key string, row int) {
	if _, ok := ix.rows[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.rows[key] = append(ix.rows[key], row)
}

// Has reports whether the key was ever added.
func (ix *Index) Has(key string) bool {
	_, ok := ix.rows[key]
	return ok
}

// Rows returns every row the key occurs on, in insertion order.
func (ix *Index) Rows(key string) []int { return ix.rows[key] }

// Keys returns the keys in first-seen order.
func (ix *Index) Keys() []string { return ix.keys }

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.keys) }
