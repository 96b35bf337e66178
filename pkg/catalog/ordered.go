package catalog

// orderedKeys tracks insertion order for a name-keyed map, since Go's
// map iteration order is unspecified and spec.md's show_* built-ins and
// completion trie both require insertion order to be observable.
type orderedKeys struct {
	keys []string
}

func (o *orderedKeys) add(k string) {
	o.keys = append(o.keys, k)
}

func (o *orderedKeys) remove(k string) {
	for i, kk := range o.keys {
		if kk == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			return
		}
	}
}

func (o *orderedKeys) snapshot() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}
