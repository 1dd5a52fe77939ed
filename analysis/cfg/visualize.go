package cfg

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/goflow/utils/dot"
	"github.com/cs-au-dk/goflow/utils/graph"
)

// Visualize renders the graph as a dot graph. If annotate is not nil, its
// result is appended to the label of each block. The blocks of each loop are
// drawn in a cluster of their own.
func (ctx *Context) Visualize(title string, annotate func(*Block) string) *dot.DotGraph {
	g := ctx.graph

	loopOf := make(map[*Block]int)
	for i, loop := range g.Loops() {
		for _, b := range loop {
			loopOf[b] = i
		}
	}

	G := g.Forward().ToDotGraph(g.blocks, &graph.VisualizationConfig[*Block]{
		NodeAttrs: func(b *Block) (string, dot.DotAttrs) {
			annotation := ""
			if annotate != nil {
				annotation = annotate(b)
			}

			attrs := dot.DotAttrs{
				"label": blockLabel(b, annotation),
			}
			switch {
			case b == g.entry || b == g.exit:
				attrs["fillcolor"] = "#cce6ff"
			case b.noReturn:
				attrs["fillcolor"] = "#ffb3b3"
			}
			if ctx.IsLoopHead(b) {
				attrs["peripheries"] = "2"
			}
			return b.String(), attrs
		},
		ClusterKey: func(b *Block) any {
			if i, ok := loopOf[b]; ok {
				return i
			}
			return nil
		},
		ClusterAttrs: func(key any) (string, dot.DotAttrs) {
			return fmt.Sprintf("loop%d", key), dot.DotAttrs{
				"style": "dashed",
				"label": "",
			}
		},
		EdgeAttrs: func(from, to *Block) dot.DotAttrs {
			switch {
			case from.term.IsTemporaryDtorsBranch():
				return dot.DotAttrs{"style": "dashed", "color": "blue"}
			case from.noReturn:
				return dot.DotAttrs{"style": "dotted", "color": "red"}
			}
			return nil
		},
	})

	G.Title = title
	return G
}

func blockLabel(b *Block, annotation string) string {
	lines := []string{b.String()}
	if b.label != "" {
		lines[0] += " (" + b.label + ")"
	}
	for _, e := range b.elements {
		lines = append(lines, strings.ReplaceAll(e.String(), "\n", " "))
	}
	if annotation != "" {
		lines = append(lines, annotation)
	}
	return strings.Join(lines, "\n")
}
