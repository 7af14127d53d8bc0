package optimizer_test

import (
	"testing"

	"stachec/internal/optimizer"
	"stachec/internal/parser"
	"stachec/internal/tree"
)

func mustParse(t *testing.T, input string) []tree.Node {
	t.Helper()
	nodes, err := parser.Parse(input, "")
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", input, err)
	}
	return nodes
}

func TestOptimize_AllStaticCollapsesToSingleRaw(t *testing.T) {
	nodes := mustParse(t, "<p>hello</p>")
	out := optimizer.Optimize(nodes)
	if len(out) != 1 || out[0].Kind != tree.KindRaw {
		t.Fatalf("out = %+v, want a single Raw node (contains '<')", out)
	}
	if out[0].Raw != "<p>hello</p>" {
		t.Errorf("Raw = %q", out[0].Raw)
	}
}

func TestOptimize_AllStaticWithEntityStaysRaw(t *testing.T) {
	nodes := mustParse(t, "a &amp; b")
	out := optimizer.Optimize(nodes)
	if len(out) != 1 || out[0].Kind != tree.KindRaw {
		t.Fatalf("out = %+v, want a single Raw node (contains '&')", out)
	}
}

func TestOptimize_DynamicSubtreeKeepsSpecialUnwrapped(t *testing.T) {
	nodes := mustParse(t, "hi {{name}}!")
	out := optimizer.Optimize(nodes)
	foundSpecial := false
	for _, n := range out {
		if n.Kind == tree.KindSpecial {
			foundSpecial = true
		}
	}
	if !foundSpecial {
		t.Fatalf("out = %+v, want a surviving Special node", out)
	}
}

func TestOptimize_StaticSiblingsAroundDynamicFuseToRaw(t *testing.T) {
	nodes := mustParse(t, "<p>a<b>b</b>{{x}}<b>c</b></p>")
	out := optimizer.Optimize(nodes)
	if len(out) != 1 || out[0].Kind != tree.KindTag {
		t.Fatalf("out = %+v", out)
	}
	children := out[0].Children
	if len(children) != 3 {
		t.Fatalf("children = %+v, want [Raw(a<b>b</b>), Special, Raw(<b>c</b>)]", children)
	}
	if children[0].Kind != tree.KindRaw && children[0].Kind != tree.KindString {
		t.Errorf("children[0] = %+v", children[0])
	}
	if children[1].Kind != tree.KindSpecial {
		t.Errorf("children[1] = %+v", children[1])
	}
}

func TestOptimize_TextareaLeftUntouched(t *testing.T) {
	nodes := mustParse(t, "<textarea>hello</textarea>")
	out := optimizer.Optimize(nodes)
	if len(out) != 1 || out[0].Kind != tree.KindTag || out[0].TagName != "textarea" {
		t.Fatalf("out = %+v, want an untouched textarea Tag node", out)
	}
}

func TestOptimize_DynamicAttributeForcesChildInspection(t *testing.T) {
	nodes := mustParse(t, `<div {{attrs}}>plain text</div>`)
	out := optimizer.Optimize(nodes)
	if len(out) != 1 || out[0].Kind != tree.KindTag {
		t.Fatalf("out = %+v", out)
	}
	// The tag itself carries a $specials attribute set, so its plain
	// children must still have been individually rendered into the
	// child list rather than silently passed through.
	if len(out[0].Children) == 0 {
		t.Errorf("children = %+v, want the plain text preserved", out[0].Children)
	}
}
