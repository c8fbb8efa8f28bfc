// Package pkg provides the core libraries for Wayfinder route planning.
//
// # Overview
//
// Wayfinder plans material collection routes across a board-game world
// map. The pkg directory is organized into four main areas:
//
//  1. [mapgraph] - The world map graph: nodes, edges, snapshots
//  2. [routing] - Shortest-path queries with edge availability filtering
//  3. [planner] - Requirement resolution and route optimization
//  4. [editor] - Interactive map editing and snapshot persistence
//
// [refdata] supplies the immutable reference tables (bestiary, markets,
// harvest spots, recipes) and the embedded default map; [render] draws
// maps and routes as Graphviz diagrams.
//
// # Architecture
//
// The typical data flow through Wayfinder:
//
//	selected items
//	         ↓
//	    [refdata] + [planner] (resolve items to candidate source nodes)
//	         ↓
//	    [routing] package (hop distances over the filtered map)
//	         ↓
//	    [planner] package (greedy construction + 2-opt refinement)
//	         ↓
//	    ordered route (printed, or rendered via [render])
//
// # Quick Start
//
//	graph, err := refdata.DefaultGraph()
//	if err != nil {
//	    return err
//	}
//	set, _ := refdata.Load()
//	engine := routing.NewEngine(graph, routing.AllEdges)
//	reqs, err := planner.ResolveItems(ctx, set, graph, 0, []string{"Iron Sword"})
//	if err != nil {
//	    return err
//	}
//	route, err := planner.Plan(ctx, engine, "mir", reqs)
package pkg
