package stachec_test

import (
	"strings"
	"testing"

	"stachec"
)

func TestCompile_PlainText(t *testing.T) {
	out, err := stachec.Compile("Hello", stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `return "Hello";`) {
		t.Errorf("out = %q", out)
	}
}

func TestCompile_DoubleMustache(t *testing.T) {
	out, err := stachec.Compile("{{name}}", stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `Spacebars.mustache(self.lookup("name"))`) {
		t.Errorf("out = %q", out)
	}
}

func TestCompile_TripleMustache(t *testing.T) {
	out, err := stachec.Compile("{{{html}}}", stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Spacebars.makeRaw(Spacebars.mustache(self.lookup(\"html\")))") {
		t.Errorf("out = %q", out)
	}
}

func TestCompile_IfElseInsideTag(t *testing.T) {
	out, err := stachec.Compile("<p>{{#if x}}<b>yes</b>{{else}}no{{/if}}</p>", stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "UI.Tag.p(") {
		t.Errorf("out = %q, want a UI.Tag.p call", out)
	}
	if !strings.Contains(out, "Spacebars.include(UI.If,") {
		t.Errorf("out = %q, want a UI.If inclusion", out)
	}
}

func TestCompile_PartialWithStringArg(t *testing.T) {
	out, err := stachec.Compile(`{{> widget name="x"}}`, stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Spacebars.include((Template["widget"] || self.lookup("widget")), {name: "x"})`
	if !strings.Contains(out, want) {
		t.Errorf("out = %q, want it to contain %q", out, want)
	}
}

func TestCompile_IsTemplateWrapsContentBindings(t *testing.T) {
	out, err := stachec.Compile("Hello", stachec.Options{IsTemplate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "var __content = self.__content, __elseContent = self.__elseContent;") {
		t.Errorf("out = %q", out)
	}
}

func TestCompile_ElseAtTopLevelIsFatal(t *testing.T) {
	_, err := stachec.Compile("{{ else }}", stachec.Options{})
	if err == nil {
		t.Fatal("expected a fatal error for a top-level {{else}}")
	}
}

func TestCompile_BlockNameMismatchIsFatal(t *testing.T) {
	_, err := stachec.Compile("{{#a}}{{/b}}", stachec.Options{})
	if err == nil {
		t.Fatal("expected a fatal error for mismatched block names")
	}
}

func TestCompile_SourceNameAppearsInError(t *testing.T) {
	_, err := stachec.Compile("{{ else }}", stachec.Options{SourceName: "widget.html"})
	if err == nil || !strings.Contains(err.Error(), "widget.html") {
		t.Fatalf("err = %v, want it to mention the source name", err)
	}
}

func TestParseStacheTag_PublicEntryPoint(t *testing.T) {
	tag, err := stachec.ParseStacheTag("{{foo -3}}", 0, stachec.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tag.Args) != 1 || tag.Args[0].Num != -3 {
		t.Errorf("Args = %+v", tag.Args)
	}
}
