// Package render exports computed radial layouts as Graphviz artifacts.
//
// The radial layout is the source of truth for positions: nodes are
// emitted with pinned pos attributes and rendered with the neato engine,
// which honors them instead of computing its own arrangement.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/orbitviz/orbit/pkg/ringmap"
	"github.com/orbitviz/orbit/pkg/session"
)

// ringFill maps each ring to its node fill color.
var ringFill = map[ringmap.Ring]string{
	ringmap.RingRoot:     "gold",
	ringmap.RingOne:      "lightblue",
	ringmap.RingTwo:      "lightgrey",
	ringmap.RingOverflow: "white",
}

// ToDOT converts a layout frame to Graphviz DOT with pinned positions.
// The resulting DOT string can be rendered with [SVG] or [PNG].
func ToDOT(f session.Frame) string {
	var buf bytes.Buffer
	buf.WriteString("graph orbit {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=11, fixedsize=false];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", n.DisplayLabel()),
			// Graphviz points grow upward; flip y so the render matches
			// the canvas orientation.
			fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, -n.Y),
			fmt.Sprintf("fillcolor=%q", ringFill[f.Rings[n.ID]]),
		}
		if n.Category != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Category))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		if e.Relationship != "" {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=9];\n", e.FromID, e.ToID, e.Relationship)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.FromID, e.ToID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
