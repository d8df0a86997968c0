// Package render turns graphs into pictures.
//
// Graphs carry their own node positions, so rendering never asks a layout
// engine to invent a layout: [ToDOT] pins every node with a `pos="x,y!"`
// attribute and the neato engine only draws what it is told. Crossing
// edges can be highlighted so an exported image shows the same state the
// game does.
//
//	dot := render.ToDOT(g, render.Options{HighlightCrossings: true})
//	svg, err := render.SVG(dot)
package render

import (
	"bytes"
	"fmt"

	"github.com/samithreddychinni/greedytangle/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// HighlightCrossings colors edges that currently cross another edge.
	HighlightCrossings bool

	// Labels adds node IDs as labels. Off, nodes render as plain dots.
	Labels bool

	// Height of the play area, used to flip the y axis: screen
	// coordinates grow downward, Graphviz coordinates grow upward.
	// Zero means no flip.
	Height float64
}

// ToDOT converts a graph to Graphviz DOT with pinned node positions.
// Render the result with the neato engine; dot would discard the pins.
func ToDOT(g *graph.Graph, opts Options) string {
	crossing := map[int]bool{}
	if opts.HighlightCrossings {
		snapshot := g.Clone()
		snapshot.MarkIntersections()
		for i, e := range snapshot.Edges {
			if e.Intersecting {
				crossing[i] = true
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#4a9eff\", fontsize=10, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		y := n.Pos.Y
		if opts.Height > 0 {
			y = opts.Height - y
		}
		label := ""
		if opts.Labels {
			label = fmt.Sprintf("%d", n.ID)
		}
		fmt.Fprintf(&buf, "  %d [label=%q, pos=\"%.2f,%.2f!\", width=%.2f];\n",
			n.ID, label, n.Pos.X, y, 2*n.Radius/72)
	}

	buf.WriteString("\n")
	for i, e := range g.Edges {
		if crossing[i] {
			fmt.Fprintf(&buf, "  %d -- %d [color=\"#e05252\"];\n", e.U, e.V)
		} else {
			fmt.Fprintf(&buf, "  %d -- %d [color=\"#8899aa\"];\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
