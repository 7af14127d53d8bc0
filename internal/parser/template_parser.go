// Package parser implements the TemplateParser: the orchestration that
// drives internal/htmlfrag while consuming stache tags, including block
// recursion with matching open/close names, {{else}} alternates, and
// RCDATA text-mode propagation (§4.2 of the specification).
package parser

import (
	"strings"

	"stachec/internal/core"
	"stachec/internal/htmlfrag"
	"stachec/internal/stache"
	"stachec/internal/tree"
	"stachec/internal/util"
)

// Parse drives the fragment parser over the whole of input, returning
// the HTML fragment tree with Special(StacheTag) leaves substituted
// wherever a stache tag appeared.
func Parse(input, sourceName string) ([]tree.Node, *util.ParseError) {
	s := htmlfrag.NewScanner(input, sourceName)
	return htmlfrag.ParseFragment(s, htmlfrag.ModeNormal, nil, getSpecial)
}

// getSpecial is the callback handed to every htmlfrag.ParseFragment
// call: it scans exactly one stache tag at the scanner's position and
// decides, by kind, what (if anything) to splice into the tree.
func getSpecial(s *htmlfrag.Scanner) (tree.Node, bool, *util.ParseError) {
	if !(s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE) {
		return tree.Node{}, false, nil
	}

	tag, err := stache.ParseStacheTag(s.Input, s.Pos, s.SourceName)
	if err != nil {
		return tree.Node{}, false, err
	}
	s.Advance(tag.CharLength)

	switch tag.Kind {
	case stache.Comment:
		return tree.Node{}, false, nil

	case stache.Else:
		return tree.Node{}, false, s.Fatal("unexpected {{else}}")

	case stache.BlockClose:
		return tree.Node{}, false, s.Fatal("unexpected {{/" + stache.JoinedPath(tag.Path) + "}}")

	case stache.BlockOpen:
		return parseBlock(s, tag)

	default: // Double, Triple, Inclusion
		return tree.Special(tag), true, nil
	}
}

// parseBlock recurses for a {{#name}}...{{/name}} construct: content up
// to {{/ or {{else, an optional {{else}}...{{/name}} alternate, then
// the mandatory matching close tag.
func parseBlock(s *htmlfrag.Scanner, open *stache.Tag) (tree.Node, bool, *util.ParseError) {
	content, cerr := htmlfrag.ParseFragment(s, s.Mode, stopsAtElseOrClose, getSpecial)
	if cerr != nil {
		return tree.Node{}, false, cerr
	}

	hasElse := false
	var elseContent []tree.Node
	if peeksElse(s) {
		elseTag, eerr := stache.ParseStacheTag(s.Input, s.Pos, s.SourceName)
		if eerr != nil {
			return tree.Node{}, false, eerr
		}
		s.Advance(elseTag.CharLength)
		hasElse = true
		elseContent, cerr = htmlfrag.ParseFragment(s, s.Mode, stopsAtClose, getSpecial)
		if cerr != nil {
			return tree.Node{}, false, cerr
		}
	}

	closeTag, cerr2 := stache.ParseStacheTag(s.Input, s.Pos, s.SourceName)
	if cerr2 != nil {
		return tree.Node{}, false, cerr2
	}
	if closeTag.Kind != stache.BlockClose {
		return tree.Node{}, false, s.Fatal("expected {{/" + stache.JoinedPath(open.Path) + "}}")
	}
	openName, closeName := stache.JoinedPath(open.Path), stache.JoinedPath(closeTag.Path)
	if openName != closeName {
		return tree.Node{}, false, s.Fatal("Expected tag close for " + openName + " found " + closeName)
	}
	s.Advance(closeTag.CharLength)

	return tree.Block(open.Path, open.Args, content, elseContent, hasElse), true, nil
}

// stopsAtElseOrClose reports whether the upcoming input begins a
// {{/...}} or {{else}} tag, the two terminators of block content.
func stopsAtElseOrClose(s *htmlfrag.Scanner) bool {
	if !(s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE) {
		return false
	}
	p := s.Pos + 2
	for p < len(s.Input) && core.IsWhitespace(s.Input[p]) {
		p++
	}
	if p < len(s.Input) && s.Input[p] == core.CharSLASH {
		return true
	}
	return hasElseWordAt(s.Input, p)
}

// stopsAtClose reports whether the upcoming input begins a {{/...}} tag.
func stopsAtClose(s *htmlfrag.Scanner) bool {
	if !(s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE) {
		return false
	}
	p := s.Pos + 2
	for p < len(s.Input) && core.IsWhitespace(s.Input[p]) {
		p++
	}
	return p < len(s.Input) && s.Input[p] == core.CharSLASH
}

func peeksElse(s *htmlfrag.Scanner) bool {
	if !(s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE) {
		return false
	}
	p := s.Pos + 2
	for p < len(s.Input) && core.IsWhitespace(s.Input[p]) {
		p++
	}
	return hasElseWordAt(s.Input, p)
}

func hasElseWordAt(input string, p int) bool {
	if !strings.HasPrefix(input[p:], "else") {
		return false
	}
	after := p + 4
	return after >= len(input) || !core.IsIdentifierPart(input[after])
}
