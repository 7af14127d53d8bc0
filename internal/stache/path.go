package stache

import (
	"strings"

	"stachec/internal/core"
	"stachec/internal/jstoken"
	"stachec/internal/util"
)

// scanPath reads a Path starting at pos and returns its segments and the
// position just past the last segment.
//
// A leading run of '.' and '/' characters, if present, is split on '/'
// and validated: the first token must be "." or ".."; every later token
// must be "..". The validated run (slashes stripped) becomes a single
// segment encoding the ancestor depth — "." stays "."; each additional
// ".." run concatenates its own two dots, so "../../" becomes "....".
// If the run does not end in '/', the path is complete. Otherwise,
// normal segments follow, separated by a single '.' or '/': either a
// "[...]" bracketed literal, or a JS-style identifier/keyword (with
// "this" rewritten to "." when it is the very first segment).
func scanPath(input string, pos int, sourceName string) ([]string, int, *util.ParseError) {
	var segments []string
	p := pos

	if p < len(input) && (input[p] == core.CharPERIOD || input[p] == core.CharSLASH) {
		runStart := p
		for p < len(input) && (input[p] == core.CharPERIOD || input[p] == core.CharSLASH) {
			p++
		}
		run := input[runStart:p]
		endsWithSlash := strings.HasSuffix(run, "/")
		tokens := strings.Split(run, "/")
		if endsWithSlash {
			tokens = tokens[:len(tokens)-1]
		}
		if len(tokens) == 0 {
			return nil, 0, util.NewParseError(input, sourceName, "Invalid path", runStart)
		}
		if tokens[0] != "." && tokens[0] != ".." {
			return nil, 0, util.NewParseError(input, sourceName, "Invalid path", runStart)
		}
		for _, t := range tokens[1:] {
			if t != ".." {
				return nil, 0, util.NewParseError(input, sourceName, "Invalid path", runStart)
			}
		}
		segments = append(segments, strings.ReplaceAll(run, "/", ""))
		if !endsWithSlash {
			return segments, p, nil
		}
	}

	first := len(segments) == 0
	// If the leading dot-run ended in '/', that separator has already been
	// consumed above; the next segment must not demand another one.
	skipSeparator := !first
	for {
		if !first && !skipSeparator {
			if p < len(input) && (input[p] == core.CharPERIOD || input[p] == core.CharSLASH) {
				p++
			} else {
				break
			}
		}
		skipSeparator = false

		if p < len(input) && input[p] == core.CharLBRACKET {
			closeIdx := strings.IndexByte(input[p+1:], core.CharRBRACKET)
			if closeIdx < 0 {
				return nil, 0, util.NewParseError(input, sourceName, "Unterminated [ in path", p)
			}
			seg := input[p+1 : p+1+closeIdx]
			if first && seg == "" {
				return nil, 0, util.NewParseError(input, sourceName, "Empty bracketed path segment", p)
			}
			segments = append(segments, seg)
			p = p + 1 + closeIdx + 1
		} else {
			tok := jstoken.Peek(input, p)
			if tok.Kind != jstoken.KindIdentifier && tok.Kind != jstoken.KindKeyword &&
				tok.Kind != jstoken.KindBoolean && tok.Kind != jstoken.KindNull {
				return nil, 0, util.NewParseError(input, sourceName, "Expected a path segment", p)
			}
			seg := tok.Text
			if first && seg == "this" {
				seg = "."
			}
			segments = append(segments, seg)
			p = tok.End
		}
		first = false
	}

	if len(segments) == 0 {
		return nil, 0, util.NewParseError(input, sourceName, "Expected a path", pos)
	}
	return segments, p, nil
}
