// Package planner turns a set of required materials into an ordered
// collection route over the world map.
//
// Planning runs in three phases: resolving materials to candidate source
// nodes, greedy nearest-source route construction, and 2-opt refinement
// of the stop order. Materials without a known or reachable source never
// fail a plan; they are carried in the route as annotations so the
// caller can surface them.
package planner

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/isofar/wayfinder/pkg/errors"
	"github.com/isofar/wayfinder/pkg/mapgraph"
	"github.com/isofar/wayfinder/pkg/observability"
	"github.com/isofar/wayfinder/pkg/routing"
)

// maxRefinePasses bounds the 2-opt loop. Each pass scans every stop
// pair once, so even a pathological selection terminates quickly.
const maxRefinePasses = 64

// Stop is one visited node on a route, with the materials collected
// there and the leg that leads to it from the previous stop.
type Stop struct {
	Node   string
	Items  []string
	Hops   int
	Length float64
	// Trail is the full node sequence of the leg, including both
	// endpoints.
	Trail []string
}

// Route is the planned collection tour. Stops excludes the start node.
// AtStart lists materials already obtainable at the start, Unreachable
// lists materials whose every candidate is cut off under the current
// edge availability, and NoSource lists materials with no known source
// at all. A route with annotations is still a valid route.
type Route struct {
	Start       string
	Stops       []Stop
	TotalHops   int
	TotalLength float64
	AtStart     []string
	Unreachable []string
	NoSource    []string
}

// Plan builds a route from start that satisfies as many of the given
// requirements as possible. It fails only when the start node does not
// exist in the engine's graph.
func Plan(ctx context.Context, engine *routing.Engine, start string, reqs []Requirement) (Route, error) {
	began := time.Now()
	if _, ok := engine.Distance(start, start); !ok {
		return Route{}, errors.New(errors.ErrCodeNodeNotFound, "start node %q not in graph", start)
	}
	observability.Planner().OnPlanStart(ctx, start, len(reqs))

	route := Route{Start: start}
	pending := make(map[string][]string)
	for _, r := range reqs {
		if !r.Satisfiable() {
			route.NoSource = append(route.NoSource, r.Material)
			continue
		}
		if contains(r.Candidates, start) {
			route.AtStart = append(route.AtStart, r.Material)
			continue
		}
		pending[r.Material] = r.Candidates
	}
	sort.Strings(route.NoSource)
	sort.Strings(route.AtStart)

	stops := construct(engine, start, pending, &route)
	stops = refine(ctx, engine, start, stops)

	pos := start
	for _, s := range stops {
		leg, ok := engine.Path(pos, s.node)
		if !ok {
			// Cannot happen for stops chosen by construct, but a
			// stale engine is not worth a panic.
			continue
		}
		route.Stops = append(route.Stops, Stop{
			Node:   s.node,
			Items:  s.items,
			Hops:   leg.Hops,
			Length: leg.Length,
			Trail:  leg.Nodes,
		})
		route.TotalHops += leg.Hops
		route.TotalLength += leg.Length
		pos = s.node
	}

	observability.Planner().OnPlanComplete(ctx, start, len(route.Stops), route.TotalHops, time.Since(began))
	return route, nil
}

// draft is a stop before leg paths are computed.
type draft struct {
	node  string
	items []string
}

// construct runs the greedy phase: repeatedly visit the reachable
// candidate node closest to the current position, satisfying every
// pending material that node provides. Materials whose candidates are
// all unreachable are recorded on the route.
func construct(engine *routing.Engine, start string, pending map[string][]string, route *Route) []draft {
	var stops []draft
	pos := start
	for len(pending) > 0 {
		bestNode := ""
		bestDist := math.MaxInt
		for _, candidates := range pending {
			for _, cand := range candidates {
				d, ok := engine.Distance(pos, cand)
				if !ok {
					continue
				}
				if d < bestDist || (d == bestDist && mapgraph.CompareIDs(cand, bestNode) < 0) {
					bestNode, bestDist = cand, d
				}
			}
		}
		if bestNode == "" {
			for material := range pending {
				route.Unreachable = append(route.Unreachable, material)
			}
			break
		}

		stop := draft{node: bestNode}
		for material, candidates := range pending {
			if contains(candidates, bestNode) {
				stop.items = append(stop.items, material)
				delete(pending, material)
			}
		}
		sort.Strings(stop.items)
		stops = append(stops, stop)
		pos = bestNode
	}
	sort.Strings(route.Unreachable)
	return stops
}

// refine improves the stop order with 2-opt local search anchored at
// the start node. Each pass applies the single reversal with the
// largest cost reduction; passes repeat until a fixpoint or the pass
// cap is reached.
func refine(ctx context.Context, engine *routing.Engine, start string, stops []draft) []draft {
	dist := func(a, b string) int {
		d, ok := engine.Distance(a, b)
		if !ok {
			return math.MaxInt / 4
		}
		return d
	}
	prevOf := func(i int) string {
		if i == 0 {
			return start
		}
		return stops[i-1].node
	}

	passes := 0
	improved := false
	for ; passes < maxRefinePasses; passes++ {
		bestDelta := 0
		bestI, bestJ := -1, -1
		for i := 0; i < len(stops)-1; i++ {
			for j := i + 1; j < len(stops); j++ {
				delta := dist(prevOf(i), stops[j].node) - dist(prevOf(i), stops[i].node)
				if j < len(stops)-1 {
					next := stops[j+1].node
					delta += dist(stops[i].node, next) - dist(stops[j].node, next)
				}
				if delta < bestDelta {
					bestDelta, bestI, bestJ = delta, i, j
				}
			}
		}
		if bestI < 0 {
			break
		}
		for lo, hi := bestI, bestJ; lo < hi; lo, hi = lo+1, hi-1 {
			stops[lo], stops[hi] = stops[hi], stops[lo]
		}
		improved = true
	}
	observability.Planner().OnRefineComplete(ctx, passes, improved)
	return stops
}

func contains(list []string, v string) bool {
	for _, have := range list {
		if have == v {
			return true
		}
	}
	return false
}
