package stache_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stachec/internal/stache"
)

func TestScanPath_ViaDoubleTag(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple identifier", "{{x}}", []string{"x"}},
		{"dotted", "{{a.b.c}}", []string{"a", "b", "c"}},
		{"slash separated", "{{a/b}}", []string{"a", "b"}},
		{"this rewritten to dot", "{{this.x}}", []string{".", "x"}},
		{"bracketed", "{{[a b].c}}", []string{"a b", "c"}},
		{"keyword-looking segment", "{{true.x}}", []string{"true", "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := stache.ParseStacheTag(tc.in, 0, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, tag.Path); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanPath_EmptyBracketedFirstSegmentFails(t *testing.T) {
	_, err := stache.ParseStacheTag("{{[]}}", 0, "")
	if err == nil {
		t.Fatal("expected an error for an empty bracketed first segment")
	}
}

func TestScanPath_UnterminatedBracket(t *testing.T) {
	_, err := stache.ParseStacheTag("{{[oops}}", 0, "")
	if err == nil {
		t.Fatal("expected an error for an unterminated bracket")
	}
}

func TestJoinedPath(t *testing.T) {
	if got := stache.JoinedPath([]string{"a", "b", "c"}); got != "a,b,c" {
		t.Errorf("JoinedPath = %q, want %q", got, "a,b,c")
	}
	if got := stache.JoinedPath(nil); got != "" {
		t.Errorf("JoinedPath(nil) = %q, want empty", got)
	}
}
