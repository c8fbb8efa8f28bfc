// Package render draws the world map, and optionally a planned route,
// as a Graphviz diagram. Node positions come straight from the map's
// pixel coordinates, so the rendered layout matches the in-game map.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/isofar/wayfinder/pkg/mapgraph"
	"github.com/isofar/wayfinder/pkg/planner"
)

// pixelsPerInch scales map pixel coordinates to Graphviz inches.
const pixelsPerInch = 200.0

// Options configures map rendering.
type Options struct {
	// Route highlights a planned route on top of the map.
	Route *planner.Route

	// Detailed includes enemy and resource annotations in node labels.
	Detailed bool
}

// ToDOT converts a map graph to Graphviz DOT format. Positions are
// pinned, so the output should be laid out with the neato engine.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *mapgraph.Store, opts Options) string {
	onRoute := routeLegs(opts.Route)
	stopLabel := routeStops(opts.Route)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, fixedsize=true, width=0.4];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n, opts.Detailed, stopLabel)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e, onRoute)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.A, e.B, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n mapgraph.Node, detailed bool, stopLabel map[string]string) []string {
	// Graphviz has the y axis pointing up, map pixels point down.
	pos := fmt.Sprintf("%.2f,%.2f!", n.X/pixelsPerInch, (mapgraph.MapHeight-n.Y)/pixelsPerInch)
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("pos=%q", pos),
	}
	switch {
	case n.IsTown():
		attrs = append(attrs, "shape=box", "fillcolor=lightyellow")
	case n.Type == mapgraph.NodeTypeSpecial:
		attrs = append(attrs, "shape=doublecircle", "fillcolor=lightblue")
	}
	if order, ok := stopLabel[n.ID]; ok {
		attrs = append(attrs, "fillcolor=salmon", fmt.Sprintf("xlabel=%q", order))
	}
	return attrs
}

func nodeLabel(n mapgraph.Node, detailed bool) string {
	label := n.DisplayName()
	if !detailed {
		return label
	}
	var parts []string
	if len(n.Enemies) > 0 {
		parts = append(parts, strings.Join(n.Enemies, ", "))
	}
	if len(n.Resources) > 0 {
		parts = append(parts, strings.Join(n.Resources, ", "))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(e mapgraph.Edge, onRoute map[legKey]bool) []string {
	var attrs []string
	if e.Type == mapgraph.EdgeWater {
		attrs = append(attrs, "style=dashed", "color=steelblue")
	}
	if e.RequiresUnlock {
		attrs = append(attrs, "style=dotted")
	}
	if onRoute[legKeyFor(e.A, e.B)] {
		attrs = append(attrs, "color=red", "penwidth=2.5")
	}
	return attrs
}

type legKey struct{ a, b string }

func legKeyFor(a, b string) legKey {
	if mapgraph.CompareIDs(a, b) > 0 {
		a, b = b, a
	}
	return legKey{a, b}
}

// routeLegs collects every edge traversed by the route.
func routeLegs(route *planner.Route) map[legKey]bool {
	if route == nil {
		return nil
	}
	legs := make(map[legKey]bool)
	for _, stop := range route.Stops {
		for i := 0; i+1 < len(stop.Trail); i++ {
			legs[legKeyFor(stop.Trail[i], stop.Trail[i+1])] = true
		}
	}
	return legs
}

// routeStops maps stop node to its visiting-order label.
func routeStops(route *planner.Route) map[string]string {
	if route == nil {
		return nil
	}
	labels := map[string]string{route.Start: "start"}
	for i, stop := range route.Stops {
		labels[stop.Node] = strconv.Itoa(i + 1)
	}
	return labels
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
