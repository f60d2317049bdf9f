package engine

// ResolveEffectiveStates narrows raw per-tick match states by each
// event's conditions. An event is effective when its raw state is true
// and every condition's effective state equals the expected value.
// Conditions referring to events outside this tick fall back to the
// previous committed states, then to false. Any dependency cycle,
// including a self-reference, resolves to false for every event on it.
// Results are memoized, so resolution cost is linear and the outcome
// does not depend on iteration order.
func ResolveEffectiveStates(events []*Descriptor, raw, fallback map[string]bool) map[string]bool {
	byName := make(map[string]*Descriptor, len(events))
	for _, d := range events {
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = d
		}
	}

	memo := make(map[string]bool, len(events))
	visiting := make(map[string]int)
	tainted := make(map[string]bool)
	var path []string

	var resolve func(name string) bool
	resolve = func(name string) bool {
		if v, ok := memo[name]; ok {
			return v
		}
		d, ok := byName[name]
		if !ok {
			return fallback[name]
		}
		if idx, ok := visiting[name]; ok {
			// Revisit: everything on the path from the first visit is a
			// cycle member and must come out false, even where the false
			// return would satisfy a want=false condition.
			for _, member := range path[idx:] {
				tainted[member] = true
			}
			return false
		}
		visiting[name] = len(path)
		path = append(path, name)

		result := raw[name]
		if result {
			for cond, want := range d.Conditions {
				if resolve(cond) != want {
					result = false
					break
				}
			}
		}

		path = path[:len(path)-1]
		delete(visiting, name)
		if tainted[name] {
			result = false
		}
		memo[name] = result
		return result
	}

	out := make(map[string]bool, len(events))
	for _, d := range events {
		out[d.Name] = resolve(d.Name)
	}
	return out
}

// FilterByConditions keeps the candidates whose conditions all hold
// against the given states, falling back per condition to the previous
// committed states and finally to false.
func FilterByConditions(candidates []*Descriptor, states, fallback map[string]bool) []*Descriptor {
	var kept []*Descriptor
	for _, d := range candidates {
		if conditionsHold(d, states, fallback) {
			kept = append(kept, d)
		}
	}
	return kept
}

func conditionsHold(d *Descriptor, states, fallback map[string]bool) bool {
	for name, want := range d.Conditions {
		v, ok := states[name]
		if !ok {
			v = fallback[name]
		}
		if v != want {
			return false
		}
	}
	return true
}
