// Package htmlfrag is the concrete stand-in for the specification's
// out-of-scope "generic HTML fragment parser": it tokenizes literal
// markup into Tag/Raw/CharRef/Comment tree nodes and calls back into a
// caller-supplied GetSpecialFunc whenever it encounters "{{", exactly
// the scanner-callback contract of §4.2. Character reference decoding
// is delegated to golang.org/x/net/html, the one place genuine HTML
// entity semantics are needed; tag/attribute tokenization itself is a
// manual cursor walk in the teacher's ml_parser/lexer.go style, since
// that tokenizer has no extension point for mid-text callbacks.
package htmlfrag

import (
	"strings"

	netHTML "golang.org/x/net/html"

	"stachec/internal/core"
	"stachec/internal/tree"
	"stachec/internal/util"
)

// TextMode mirrors the HTML text-modes this fragment parser cares about.
type TextMode int

const (
	ModeNormal TextMode = iota
	ModeRCDATA
)

// rcdataElements triggers ModeRCDATA for their children, per the spec's
// definition of RCDATA (textarea, title).
var rcdataElements = map[string]bool{"textarea": true, "title": true}

// Scanner is the cursor the GetSpecialFunc callback reads through; it is
// shared strictly sequentially with this package during each call, as
// required by §5. Position bookkeeping (Peek/Advance/Rest/HasPrefix) is
// delegated to the embedded core.Cursor rather than duplicated here.
type Scanner struct {
	*core.Cursor
	SourceName string
	Mode       TextMode
}

// NewScanner returns a Scanner positioned at the start of input.
func NewScanner(input, sourceName string) *Scanner {
	return &Scanner{Cursor: core.NewCursor(input, 0), SourceName: sourceName}
}

// Fatal builds a located ParseError at the scanner's current position.
func (s *Scanner) Fatal(msg string) *util.ParseError {
	return util.NewParseError(s.Input, s.SourceName, msg, s.Pos)
}

// GetSpecialFunc is invoked whenever the fragment walker is about to
// consume literal content and finds "{{" at the scanner's position. It
// returns the node to splice in (ok == true), or ok == false with a nil
// error when the tag was consumed but produced no node (a comment).
type GetSpecialFunc func(s *Scanner) (node tree.Node, ok bool, err *util.ParseError)

// ShouldStopFunc reports whether fragment parsing should stop before
// consuming anything more at the scanner's current position.
type ShouldStopFunc func(s *Scanner) bool

// ParseFragment walks input from the scanner's current position,
// producing a flat sequence of sibling tree nodes, until EOF, a
// shouldStop match, or an unmatched closing tag (which ends the
// fragment without being consumed, letting the caller that owns the
// matching open tag consume it).
func ParseFragment(s *Scanner, mode TextMode, shouldStop ShouldStopFunc, getSpecial GetSpecialFunc) ([]tree.Node, *util.ParseError) {
	prevMode := s.Mode
	s.Mode = mode
	defer func() { s.Mode = prevMode }()

	var nodes []tree.Node
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, tree.String(text.String()))
			text.Reset()
		}
	}

	for s.Pos < len(s.Input) {
		if shouldStop != nil && shouldStop(s) {
			break
		}
		if s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE {
			node, ok, err := getSpecial(s)
			if err != nil {
				return nil, err
			}
			// A tag that produced no node (a comment) leaves the
			// surrounding text in one run.
			if ok {
				flush()
				nodes = append(nodes, node)
			}
			continue
		}
		if s.Peek(0) == core.CharLT {
			// A closing tag ends the fragment and is left for the caller
			// to consume. In RCDATA only a </textarea or </title closer
			// does so; any other "</" is plain text.
			if s.Peek(1) == core.CharSLASH {
				lower := strings.ToLower(s.Rest())
				if mode == ModeNormal || strings.HasPrefix(lower, "</textarea") || strings.HasPrefix(lower, "</title") {
					break
				}
			}
			if mode == ModeNormal && strings.HasPrefix(s.Rest(), "<!--") {
				flush()
				node, err := scanComment(s)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
				continue
			}
			if mode == ModeNormal && isNameStart(s.Peek(1)) {
				flush()
				node, err := scanTag(s, getSpecial)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
				continue
			}
		}
		if s.Peek(0) == core.CharAMPERSAND {
			flush()
			nodes = append(nodes, scanCharRef(s))
			continue
		}
		text.WriteByte(s.Peek(0))
		s.Advance(1)
	}
	flush()
	return nodes, nil
}

func isNameStart(c byte) bool {
	return core.IsAsciiLetter(c)
}

func scanComment(s *Scanner) (tree.Node, *util.ParseError) {
	s.Advance(4) // "<!--"
	idx := strings.Index(s.Rest(), "-->")
	if idx < 0 {
		return tree.Node{}, s.Fatal("Unclosed comment")
	}
	text := s.Rest()[:idx]
	s.Advance(idx + 3)
	return tree.Comment(text), nil
}

// scanCharRef greedily matches a "&...;"-shaped run and decodes it with
// golang.org/x/net/html; a run that does not decode to anything is
// treated as a literal "&" character.
func scanCharRef(s *Scanner) tree.Node {
	rest := s.Rest()
	end := 1
	for end < len(rest) && end < 32 {
		c := rest[end]
		if c == ';' {
			end++
			break
		}
		if !(core.IsAsciiLetter(c) || core.IsDigit(c) || c == '#') {
			break
		}
		end++
	}
	candidate := rest[:end]
	decoded := netHTML.UnescapeString(candidate)
	if decoded == candidate {
		s.Advance(1)
		return tree.String("&")
	}
	s.Advance(end)
	return tree.CharRef(candidate, decoded)
}

func scanTagName(s *Scanner) string {
	start := s.Pos
	for s.Pos < len(s.Input) {
		c := s.Input[s.Pos]
		if core.IsAsciiLetter(c) || core.IsDigit(c) || c == '-' || c == ':' {
			s.Advance(1)
			continue
		}
		break
	}
	return strings.ToLower(s.Input[start:s.Pos])
}

func skipWhitespace(s *Scanner) {
	for s.Pos < len(s.Input) && core.IsWhitespace(s.Input[s.Pos]) {
		s.Advance(1)
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func scanTag(s *Scanner, getSpecial GetSpecialFunc) (tree.Node, *util.ParseError) {
	s.Advance(1) // "<"
	name := scanTagName(s)
	if name == "" {
		return tree.Node{}, s.Fatal("Expected a tag name")
	}
	attrs, err := scanAttrs(s, getSpecial)
	if err != nil {
		return tree.Node{}, err
	}
	selfClosing := false
	if s.Peek(0) == core.CharSLASH && s.Peek(1) == core.CharGT {
		selfClosing = true
		s.Advance(2)
	} else if s.Peek(0) == core.CharGT {
		s.Advance(1)
	} else {
		return tree.Node{}, s.Fatal("Expected >")
	}

	if selfClosing || voidElements[name] {
		return tree.Tag(name, attrs, nil), nil
	}

	mode := ModeNormal
	if rcdataElements[name] {
		mode = ModeRCDATA
	}
	children, cerr := ParseFragment(s, mode, nil, getSpecial)
	if cerr != nil {
		return tree.Node{}, cerr
	}
	closeTag := "</" + name
	if !strings.HasPrefix(strings.ToLower(s.Rest()), closeTag) {
		return tree.Node{}, s.Fatal("Unclosed tag <" + name + ">")
	}
	s.Advance(len(closeTag))
	skipWhitespace(s)
	if s.Peek(0) != core.CharGT {
		return tree.Node{}, s.Fatal("Expected >")
	}
	s.Advance(1)
	return tree.Tag(name, attrs, children), nil
}

func scanAttrName(s *Scanner) string {
	start := s.Pos
	for s.Pos < len(s.Input) {
		c := s.Input[s.Pos]
		if core.IsWhitespace(c) || c == core.CharEQ || c == core.CharGT || c == core.CharSLASH {
			break
		}
		s.Advance(1)
	}
	return s.Input[start:s.Pos]
}

func scanAttrs(s *Scanner, getSpecial GetSpecialFunc) (*tree.Attrs, *util.ParseError) {
	attrs := tree.NewAttrs()
	for {
		skipWhitespace(s)
		if s.Pos >= len(s.Input) {
			return nil, s.Fatal("Unclosed tag")
		}
		if s.Peek(0) == core.CharGT || (s.Peek(0) == core.CharSLASH && s.Peek(1) == core.CharGT) {
			return attrs, nil
		}
		if s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE {
			node, ok, err := getSpecial(s)
			if err != nil {
				return nil, err
			}
			if ok && node.Kind == tree.KindSpecial {
				attrs.Specials = append(attrs.Specials, node.Special)
			}
			continue
		}
		name := scanAttrName(s)
		if name == "" {
			return nil, s.Fatal("Expected an attribute name")
		}
		skipWhitespace(s)
		value := tree.String("")
		if s.Peek(0) == core.CharEQ {
			s.Advance(1)
			skipWhitespace(s)
			v, err := scanAttrValue(s, getSpecial)
			if err != nil {
				return nil, err
			}
			value = v
		}
		attrs.Set(name, value)
	}
}

// scanAttrValue parses a quoted or bare attribute value, splicing
// Special nodes for embedded stache tags exactly like text content.
func scanAttrValue(s *Scanner, getSpecial GetSpecialFunc) (tree.Node, *util.ParseError) {
	quote := byte(0)
	if s.Peek(0) == core.CharDQ || s.Peek(0) == core.CharSQ {
		quote = s.Peek(0)
		s.Advance(1)
	}

	var parts []tree.Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, tree.String(text.String()))
			text.Reset()
		}
	}
	for s.Pos < len(s.Input) {
		if quote != 0 && s.Peek(0) == quote {
			s.Advance(1)
			break
		}
		if quote == 0 && (core.IsWhitespace(s.Peek(0)) || s.Peek(0) == core.CharGT) {
			break
		}
		if s.Peek(0) == core.CharLBRACE && s.Peek(1) == core.CharLBRACE {
			flush()
			node, ok, err := getSpecial(s)
			if err != nil {
				return tree.Node{}, err
			}
			if ok {
				parts = append(parts, node)
			}
			continue
		}
		if s.Peek(0) == core.CharAMPERSAND {
			flush()
			parts = append(parts, scanCharRef(s))
			continue
		}
		text.WriteByte(s.Peek(0))
		s.Advance(1)
	}
	flush()

	switch len(parts) {
	case 0:
		return tree.String(""), nil
	case 1:
		return parts[0], nil
	default:
		return tree.Array(parts), nil
	}
}
