package engine

// SelectByGroupPriority arbitrates which effective candidates actually
// dispatch. Ungrouped events always pass. Within a group only the
// lowest-priority-value event wins; on a tie the earliest in compile
// order keeps the slot. Ungrouped winners come out in input order,
// followed by group winners in order of each group's first appearance.
func SelectByGroupPriority(candidates []*Descriptor) []*Descriptor {
	var winners []*Descriptor
	best := make(map[string]*Descriptor)
	var groupOrder []string

	for _, d := range candidates {
		if d.Group == "" {
			winners = append(winners, d)
			continue
		}
		cur, ok := best[d.Group]
		if !ok {
			best[d.Group] = d
			groupOrder = append(groupOrder, d.Group)
			continue
		}
		if d.Priority < cur.Priority {
			best[d.Group] = d
		}
	}

	for _, g := range groupOrder {
		winners = append(winners, best[g])
	}
	return winners
}
