package query

// orderedGroups keeps group accumulators in first-occurrence order of their keys
type orderedGroups[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []*V
}

func newOrderedGroups[K comparable, V any]() *orderedGroups[K, V] {
	return &orderedGroups[K, V]{index: make(map[K]int)}
}

// get returns the accumulator for key, creating it on first use
func (g *orderedGroups[K, V]) get(key K) *V {
	if i, ok := g.index[key]; ok {
		return g.values[i]
	}
	v := new(V)
	g.index[key] = len(g.keys)
	g.keys = append(g.keys, key)
	g.values = append(g.values, v)
	return v
}

func (g *orderedGroups[K, V]) each(fn func(key K, v *V)) {
	for i, k := range g.keys {
		fn(k, g.values[i])
	}
}

func (g *orderedGroups[K, V]) len() int {
	return len(g.keys)
}
