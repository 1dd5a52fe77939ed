package dot

import (
	"bytes"
	"strings"
	"testing"
)

func TestDotAttrsSorted(t *testing.T) {
	attrs := DotAttrs{"shape": "box", "color": "red", "label": "B1"}
	if str, expected := attrs.String(), `color="red"; label="B1"; shape="box";`; str != expected {
		t.Errorf("Expected %s, got %s", expected, str)
	}
}

func TestWriteDot(t *testing.T) {
	a := &DotNode{ID: "a", Attrs: DotAttrs{"label": "A"}}
	b := &DotNode{ID: "b"}
	g := &DotGraph{
		Title:   "test",
		Nodes:   []*DotNode{a, b},
		Edges:   []*DotEdge{{From: a, To: b, Attrs: DotAttrs{"style": "dashed"}}},
		Options: map[string]string{"minlen": "2", "nodesep": "0.35"},
	}

	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, expected := range []string{
		"digraph ControlFlow {",
		`label="test";`,
		`"a" [ label="A"; ]`,
		`"a" -> "b" [ style="dashed"; ]`,
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected output to contain %q:\n%s", expected, out)
		}
	}
}
