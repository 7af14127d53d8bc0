// Package stachec is documented in doc.go; this file carries the four
// public entry points named in §6 of the specification.
package stachec

import (
	"stachec/internal/codegen"
	"stachec/internal/optimizer"
	"stachec/internal/parser"
	"stachec/internal/specializer"
	"stachec/internal/stache"
	"stachec/internal/tree"
	"stachec/internal/util"
)

// Options configures a compile. SourceName decorates error messages
// (§6); IsTemplate selects the §4.6 template wrapper.
type Options struct {
	SourceName string
	IsTemplate bool
}

// Parse runs the TemplateParser stage only (§4.2), returning the HTML
// fragment tree with Special(StacheTag) leaves substituted wherever a
// stache tag appeared.
func Parse(input string, opts Options) ([]tree.Node, error) {
	nodes, err := parser.Parse(input, opts.SourceName)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// Optimize runs the raw-HTML collapsing optimizer (§4.3) over an
// already-parsed tree.
func Optimize(nodes []tree.Node) []tree.Node {
	return optimizer.Optimize(nodes)
}

// CodeGen runs the specializer (§4.4/§4.5) and the code emitter (§4.6)
// over an already-parsed (and, typically, already-optimized) tree,
// producing the final target source string.
func CodeGen(nodes []tree.Node, opts Options) (string, error) {
	specialized, err := specializer.Specialize(nodes)
	if err != nil {
		return "", err
	}
	return codegen.CodeGen(specialized, opts.IsTemplate)
}

// Compile runs the full pipeline — parse, optimize, specialize, emit —
// translating input into a single target-source expression.
func Compile(input string, opts Options) (string, error) {
	nodes, err := Parse(input, opts)
	if err != nil {
		return "", err
	}
	nodes = Optimize(nodes)
	return CodeGen(nodes, opts)
}

// ParseStacheTag is the scanner entry point (§6): it parses exactly one
// stache tag at pos in input, consuming the characters [pos, endPos).
func ParseStacheTag(input string, pos int, opts Options) (*stache.Tag, error) {
	tag, err := stache.ParseStacheTag(input, pos, opts.SourceName)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// AsError adapts a *util.ParseError into the plain error interface the
// public API returns, preserving its located Error() rendering.
func AsError(err *util.ParseError) error {
	if err == nil {
		return nil
	}
	return err
}
