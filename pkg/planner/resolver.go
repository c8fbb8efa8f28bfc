package planner

import (
	"context"
	"sort"

	"github.com/isofar/wayfinder/pkg/errors"
	"github.com/isofar/wayfinder/pkg/mapgraph"
	"github.com/isofar/wayfinder/pkg/observability"
	"github.com/isofar/wayfinder/pkg/refdata"
)

// Requirement maps one material to the nodes where it can be obtained.
// Candidates only includes nodes that exist in the current graph; a
// requirement with no candidates is a warning for the caller, never an
// error, and the planner carries it through to the route unrouted.
type Requirement struct {
	Material   string
	Quantity   int
	Candidates []string
}

// Satisfiable reports whether at least one source node is known.
func (r Requirement) Satisfiable() bool {
	return len(r.Candidates) > 0
}

// ResolveItems expands the recipes of the selected items into their
// materials and resolves each material to candidate source nodes.
// Quantities of shared materials are summed across recipes. Unknown
// item names fail with a not-found error.
func ResolveItems(ctx context.Context, set *refdata.Set, graph *mapgraph.Store, chapter int, items []string) ([]Requirement, error) {
	needed := make(map[string]int)
	for _, item := range items {
		recipe, ok := set.Item(item)
		if !ok {
			return nil, errors.New(errors.ErrCodeItemNotFound, "unknown item %q", item)
		}
		for material, qty := range recipe {
			needed[material] += qty
		}
	}
	materials := make([]string, 0, len(needed))
	for m := range needed {
		materials = append(materials, m)
	}
	sort.Strings(materials)

	reqs := ResolveMaterials(ctx, set, graph, chapter, materials)
	for i := range reqs {
		reqs[i].Quantity = needed[reqs[i].Material]
	}
	return reqs, nil
}

// ResolveMaterials resolves each material to the union of its enemy-drop
// nodes (filtered to the given chapter), the towns that sell it, and the
// nodes where it can be harvested. Nodes absent from the graph are
// dropped. Chapter 0 disables the chapter filter.
func ResolveMaterials(ctx context.Context, set *refdata.Set, graph *mapgraph.Store, chapter int, materials []string) []Requirement {
	reqs := make([]Requirement, 0, len(materials))
	missing := 0
	for _, material := range materials {
		candidates := make(map[string]bool)
		for _, enemy := range set.EnemiesDropping(material) {
			for _, id := range enemy.NodesIn(chapter) {
				candidates[id] = true
			}
		}
		for _, town := range set.TownsSelling(material) {
			candidates[town] = true
		}
		for _, id := range set.HarvestNodes(material) {
			candidates[id] = true
		}

		req := Requirement{Material: material, Quantity: 1}
		for id := range candidates {
			if _, ok := graph.Node(id); ok {
				req.Candidates = append(req.Candidates, id)
			}
		}
		sort.Slice(req.Candidates, func(i, j int) bool {
			return mapgraph.CompareIDs(req.Candidates[i], req.Candidates[j]) < 0
		})
		if !req.Satisfiable() {
			missing++
		}
		reqs = append(reqs, req)
	}
	observability.Planner().OnResolveComplete(ctx, len(materials), len(materials)-missing, missing)
	return reqs
}
