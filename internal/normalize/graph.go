package normalize

// ToGraph converts a raw result into the canonical graph form. Nodes are
// deduplicated by id with the first occurrence winning, and assigned
// zero-based indexes in emission order. Relationships whose endpoints are not
// among the emitted nodes are dropped; the returned count reports how many
// were dropped so callers can surface it as a diagnostic.
func ToGraph(raw *RawResult) (*Graph, int) {
	g := &Graph{
		Nodes: make([]GraphNode, 0, len(raw.Nodes)),
		Links: make([]GraphLink, 0, len(raw.Relationships)),
	}

	index := make(map[string]int, len(raw.Nodes))
	for _, n := range raw.Nodes {
		if _, seen := index[n.ID]; seen {
			continue
		}
		label := "Node"
		if len(n.Labels) > 0 {
			label = n.Labels[0]
		}
		index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, GraphNode{
			ID:         n.ID,
			Label:      label,
			Properties: n.Properties,
		})
	}

	dropped := 0
	for _, r := range raw.Relationships {
		source, okStart := index[r.StartNodeID]
		target, okEnd := index[r.EndNodeID]
		if !okStart || !okEnd {
			dropped++
			continue
		}
		g.Links = append(g.Links, GraphLink{
			Source:     source,
			Target:     target,
			Type:       r.Type,
			Properties: r.Properties,
		})
	}

	return g, dropped
}

// RecoverLinks re-runs endpoint matching directly against node ids and
// id-like string properties, appending any links the primary pass missed.
// It exists for results whose relationship endpoints carry a different id
// representation than the nodes themselves. Returns the number of links added.
func RecoverLinks(g *Graph, rels []RawRelationship) int {
	if len(g.Nodes) == 0 || len(rels) == 0 {
		return 0
	}

	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
		for _, key := range []string{"id", "name"} {
			if v, ok := n.Properties[key].(string); ok && v != "" {
				if _, taken := index[v]; !taken {
					index[v] = i
				}
			}
		}
	}

	type endpoints struct{ source, target int }
	existing := make(map[endpoints]bool, len(g.Links))
	for _, l := range g.Links {
		existing[endpoints{l.Source, l.Target}] = true
	}

	added := 0
	for _, r := range rels {
		source, okStart := index[r.StartNodeID]
		target, okEnd := index[r.EndNodeID]
		if !okStart || !okEnd {
			continue
		}
		if existing[endpoints{source, target}] {
			continue
		}
		g.Links = append(g.Links, GraphLink{
			Source:     source,
			Target:     target,
			Type:       r.Type,
			Properties: r.Properties,
		})
		existing[endpoints{source, target}] = true
		added++
	}

	return added
}
