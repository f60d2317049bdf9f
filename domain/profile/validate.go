package profile

import (
	"fmt"
	"sort"
	"strings"
)

// Warning flags a suspicious but loadable profile construct. The engine
// stays permissive at runtime; validation is offered at this boundary
// for tooling.
type Warning struct {
	Kind    string // "duplicate-name", "unknown-condition", "cycle"
	Message string
}

// Validate inspects a profile for duplicate event names, conditions that
// reference no event, and condition cycles. Cycles are warnings rather
// than errors: the engine resolves every member of a cycle to inactive,
// so a cyclic profile runs, it just never fires those events.
func Validate(p *Profile) []Warning {
	var warnings []Warning

	seen := make(map[string]int)
	for i := range p.Events {
		if !p.Events[i].Enabled {
			continue
		}
		seen[p.Events[i].Name]++
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if seen[name] > 1 {
			warnings = append(warnings, Warning{
				Kind:    "duplicate-name",
				Message: fmt.Sprintf("event name %q used by %d events; conditions resolve against the first compiled", name, seen[name]),
			})
		}
	}

	graph := make(map[string][]string)
	for i := range p.Events {
		e := &p.Events[i]
		if !e.Enabled || e.Independent {
			continue
		}
		var deps []string
		for target := range e.Conditions {
			if _, ok := seen[target]; !ok {
				warnings = append(warnings, Warning{
					Kind:    "unknown-condition",
					Message: fmt.Sprintf("event %q depends on %q which is not an enabled event in this profile", e.Name, target),
				})
			}
			deps = append(deps, target)
		}
		sort.Strings(deps)
		graph[e.Name] = deps
	}

	for _, path := range findCycles(graph) {
		warnings = append(warnings, Warning{
			Kind:    "cycle",
			Message: fmt.Sprintf("condition cycle %s resolves every member to inactive", strings.Join(path, " -> ")),
		})
	}

	return warnings
}

// findCycles returns one representative path per condition cycle,
// discovered by depth-first search with a recursion stack.
func findCycles(graph map[string][]string) [][]string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var cycles [][]string
	var stack []string

	var visit func(name string)
	visit = func(name string) {
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range graph[name] {
			switch state[dep] {
			case unvisited:
				if _, ok := graph[dep]; ok {
					visit(dep)
				}
			case visiting:
				// Slice the recursion stack from the first
				// occurrence of dep to capture the cycle path.
				for i, n := range stack {
					if n == dep {
						path := append([]string{}, stack[i:]...)
						cycles = append(cycles, append(path, dep))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if state[name] == unvisited {
			visit(name)
		}
	}
	return cycles
}
