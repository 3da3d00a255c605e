package lencode

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NewLevel is the sentinel level under which a mapping stores its
// fallback value for levels never seen during training. It cannot
// collide with real data: the hosting framework reserves the ".."
// prefix for internal identifiers.
const NewLevel = "..new"

// LevelMapping is the trained lookup table for one encoded column: an
// ordered set of (level, value) pairs plus one sentinel entry holding
// the fallback value for novel levels. Values are always finite;
// non-finite inputs are replaced by the fallback at construction.
type LevelMapping struct {
	levels []string
	values []float64
	index  map[string]int
}

// newLevelMapping builds a mapping from per-level values, appending the
// sentinel fallback entry. Any non-finite value is coerced to the
// fallback, whatever made it non-finite.
func newLevelMapping(levels []string, values []float64, fallback float64) *LevelMapping {
	m := &LevelMapping{
		levels: make([]string, 0, len(levels)+1),
		values: make([]float64, 0, len(levels)+1),
		index:  make(map[string]int, len(levels)+1),
	}
	for i, level := range levels {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = fallback
		}
		m.index[level] = len(m.levels)
		m.levels = append(m.levels, level)
		m.values = append(m.values, v)
	}
	m.index[NewLevel] = len(m.levels)
	m.levels = append(m.levels, NewLevel)
	m.values = append(m.values, fallback)
	return m
}

// Len returns the number of entries, including the sentinel.
func (m *LevelMapping) Len() int { return len(m.levels) }

// Level returns the level string at position i.
func (m *LevelMapping) Level(i int) string { return m.levels[i] }

// Value returns the encoded value at position i.
func (m *LevelMapping) Value(i int) float64 { return m.values[i] }

// Fallback returns the value substituted for novel levels.
func (m *LevelMapping) Fallback() float64 {
	return m.values[m.index[NewLevel]]
}

// Lookup returns the encoded value for a level, or the fallback if the
// level was not observed during training.
func (m *LevelMapping) Lookup(level string) float64 {
	if i, ok := m.index[level]; ok {
		return m.values[i]
	}
	return m.Fallback()
}

// Has reports whether the level was observed during training.
func (m *LevelMapping) Has(level string) bool {
	i, ok := m.index[level]
	return ok && m.levels[i] != NewLevel
}

// trimmedMean averages the finite entries of values after dropping a
// fraction of the smallest and largest ones from each end. The count
// dropped per end is ceil(trim * n), so for example five values at
// trim 0.10 lose their single smallest and single largest. Returns NaN
// when no finite value exists.
func trimmedMean(values []float64, trim float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	n := len(finite)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	k := int(math.Ceil(trim * float64(n)))
	if n-2*k < 1 {
		return stat.Mean(finite, nil)
	}
	return stat.Mean(finite[k:n-k], nil)
}
