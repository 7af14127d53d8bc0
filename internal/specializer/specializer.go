// Package specializer implements the rewrite pass (§4.4/§4.5) that turns
// every Special(StacheTag) leaf, and every dynamic attribute value, into
// an EmitCode node carrying target-source closures invoking the runtime
// Spacebars/UI helpers. Nothing past this pass may still be Special or
// Block.
package specializer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"stachec/internal/codegen"
	"stachec/internal/stache"
	"stachec/internal/tree"
)

func fatalf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// builtins maps a single-segment inclusion/block path to the literal
// runtime expression it resolves to, bypassing self.lookup entirely.
var builtins = map[string]string{
	"content":     "__content",
	"elseContent": "__elseContent",
	"if":          "UI.If",
	"unless":      "UI.Unless",
	"with":        "UI.With",
	"each":        "UI.Each",
}

// Specialize rewrites a fragment in place (conceptually — new nodes are
// built rather than mutated, per §3's ownership note) and returns the
// replacement sequence.
func Specialize(nodes []tree.Node) ([]tree.Node, error) {
	out := make([]tree.Node, len(nodes))
	for i, n := range nodes {
		s, err := specializeNode(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func specializeNode(n tree.Node) (tree.Node, error) {
	switch n.Kind {
	case tree.KindString, tree.KindRaw, tree.KindCharRef, tree.KindComment:
		return n, nil
	case tree.KindArray:
		children, err := Specialize(n.Array)
		if err != nil {
			return tree.Node{}, err
		}
		return tree.Array(children), nil
	case tree.KindTag:
		return specializeTag(n)
	case tree.KindSpecial:
		return specializeSpecial(n.Special)
	case tree.KindBlock:
		return specializeBlock(n)
	case tree.KindEmitCode:
		return n, nil
	default:
		return n, nil
	}
}

func specializeTag(n tree.Node) (tree.Node, error) {
	children, err := Specialize(n.Children)
	if err != nil {
		return tree.Node{}, err
	}
	attrs, err := specializeAttrs(n.Attrs)
	if err != nil {
		return tree.Node{}, err
	}
	return tree.Tag(n.TagName, attrs, children), nil
}

// specializeSpecial dispatches a non-block stache tag by kind, per §4.4.
func specializeSpecial(tag *stache.Tag) (tree.Node, error) {
	switch tag.Kind {
	case stache.Double:
		call, err := mustacheCall(tag.Path, tag.Args)
		if err != nil {
			return tree.Node{}, err
		}
		return tree.EmitCode("function () { return " + call + "; }"), nil
	case stache.Triple:
		call, err := mustacheCall(tag.Path, tag.Args)
		if err != nil {
			return tree.Node{}, err
		}
		return tree.EmitCode("function () { return Spacebars.makeRaw(" + call + "); }"), nil
	case stache.Inclusion:
		code, err := includeCall(tag.Path, tag.Args, nil, nil, false)
		if err != nil {
			return tree.Node{}, err
		}
		return tree.EmitCode("function () { return " + code + "; }"), nil
	default:
		return tree.Node{}, fatalf("unexpected stache tag kind %s reached the specializer", tag.Kind)
	}
}

// specializeBlock rewrites a KindBlock node into the same include-style
// EmitCode a BLOCKOPEN produces, with content/elseContent folded in as
// the __content/__elseContent keys.
func specializeBlock(n tree.Node) (tree.Node, error) {
	content, err := Specialize(n.Children)
	if err != nil {
		return tree.Node{}, err
	}
	var elseContent []tree.Node
	if n.HasElse {
		elseContent, err = Specialize(n.ElseContent)
		if err != nil {
			return tree.Node{}, err
		}
	}
	code, err := includeCall(n.BlockPath, n.BlockArgs, content, elseContent, n.HasElse)
	if err != nil {
		return tree.Node{}, err
	}
	return tree.EmitCode("function () { return " + code + "; }"), nil
}

// mustacheCall renders Spacebars.mustache(<nameCode>[, <argCode>]*).
func mustacheCall(path []string, args []stache.Arg) (string, error) {
	nameCode := codeGenPath(path)
	argCodes, err := mustacheArgs(args)
	if err != nil {
		return "", err
	}
	parts := append([]string{nameCode}, argCodes...)
	return "Spacebars.mustache(" + strings.Join(parts, ", ") + ")", nil
}

// includeCall renders Spacebars.include(<compCode>[, <objectLiteral>]).
func includeCall(path []string, args []stache.Arg, content, elseContent []tree.Node, hasElse bool) (string, error) {
	compCode, err := componentCode(path)
	if err != nil {
		return "", err
	}
	obj, err := includeArgs(args, content, elseContent, hasElse)
	if err != nil {
		return "", err
	}
	if obj == "" {
		return "Spacebars.include(" + compCode + ")", nil
	}
	return "Spacebars.include(" + compCode + ", " + obj + ")", nil
}

// componentCode resolves §4.4's "component resolution for inclusion/
// block" rule.
func componentCode(path []string) (string, error) {
	if len(path) == 1 {
		if lit, ok := builtins[path[0]]; ok {
			return lit, nil
		}
		return "(Template[" + codegen.QuoteString(path[0]) + "] || " + codeGenPath(path) + ")", nil
	}
	return codeGenPath(path), nil
}

// codeGenPath implements §4.4's path-code-generation rule.
func codeGenPath(path []string) string {
	if len(path) == 0 {
		return "self.lookup(" + codegen.QuoteString("") + ")"
	}
	if len(path) == 1 {
		return "self.lookup(" + codegen.QuoteString(path[0]) + ")"
	}
	rest := make([]string, len(path)-1)
	for i, s := range path[1:] {
		rest[i] = codegen.QuoteString(s)
	}
	return "Spacebars.dot(self.lookup(" + codegen.QuoteString(path[0]) + "), " + strings.Join(rest, ", ") + ")"
}

// mustacheArgs renders the argument list accepted by Spacebars.mustache/
// attrMustache: positional argument codes, in source order, followed by
// a trailing Spacebars.kw({...}) when any keyword arguments are present.
func mustacheArgs(args []stache.Arg) ([]string, error) {
	var positional, keywords []string
	for _, a := range args {
		code, err := argLiteralOrPath(a)
		if err != nil {
			return nil, err
		}
		if a.IsKeyword() {
			keywords = append(keywords, codegen.KeyLiteral(a.Keyword)+": "+code)
		} else {
			positional = append(positional, code)
		}
	}
	if len(keywords) > 0 {
		positional = append(positional, "Spacebars.kw({"+strings.Join(keywords, ", ")+"})")
	}
	return positional, nil
}

// includeArgs renders the object literal passed as Spacebars.include's
// second argument, per §4.4's include-style argument rule.
func includeArgs(args []stache.Arg, content, elseContent []tree.Node, hasElse bool) (string, error) {
	var keys []string

	if hasElse || content != nil {
		code, err := codegen.Fragment(content)
		if err != nil {
			return "", err
		}
		keys = append(keys, "__content: UI.block("+code+")")
	}
	if hasElse {
		code, err := codegen.Fragment(elseContent)
		if err != nil {
			return "", err
		}
		keys = append(keys, "__elseContent: UI.block("+code+")")
	}

	var positional []stache.Arg
	var keywordArgs []stache.Arg
	for _, a := range args {
		if a.IsKeyword() {
			keywordArgs = append(keywordArgs, a)
		} else {
			positional = append(positional, a)
		}
	}

	for _, a := range keywordArgs {
		code, err := includeArgCode(a, len(positional))
		if err != nil {
			return "", err
		}
		keys = append(keys, codegen.KeyLiteral(a.Keyword)+": "+code)
	}

	switch len(positional) {
	case 0:
		// no data key
	case 1:
		code, err := includeArgCode(positional[0], len(positional))
		if err != nil {
			return "", err
		}
		keys = append(keys, "data: "+code)
	default:
		codes := make([]string, len(positional))
		for i, a := range positional {
			c, err := argLiteralOrPath(a)
			if err != nil {
				return "", err
			}
			codes[i] = c
		}
		call := "Spacebars.call(" + codes[0] + ", " + strings.Join(codes[1:], ", ") + ")"
		keys = append(keys, "data: function () { return "+call+"; }")
	}

	if len(keys) == 0 {
		return "", nil
	}
	return "{" + strings.Join(keys, ", ") + "}", nil
}

// includeArgCode renders a single include-style argument. A PATH
// argument is deferred in a Spacebars.call thunk so the lookup happens
// at call time rather than eagerly, except when it sits alongside other
// positional arguments, where the combined Spacebars.call(first, rest)
// form in includeArgs already defers the whole group and the bare path
// code is wanted for each element.
func includeArgCode(a stache.Arg, positionalCount int) (string, error) {
	if a.Kind != stache.ArgPath {
		return argLiteralOrPath(a)
	}
	if positionalCount > 1 {
		return codeGenPath(a.Path), nil
	}
	return "function () { return Spacebars.call(" + codeGenPath(a.Path) + "); }", nil
}

// argLiteralOrPath renders a literal or path argument with no
// positional-count-dependent deferral, used for mustache-style emission,
// for each element of a multi-positional include's Spacebars.call group,
// and (through includeArgCode) for non-PATH include arguments.
func argLiteralOrPath(a stache.Arg) (string, error) {
	switch a.Kind {
	case stache.ArgPath:
		return codeGenPath(a.Path), nil
	case stache.ArgString:
		return codegen.QuoteString(norm.NFC.String(a.Str)), nil
	case stache.ArgNumber:
		return formatNumber(a.Num), nil
	case stache.ArgBoolean:
		if a.Bool {
			return "true", nil
		}
		return "false", nil
	case stache.ArgNull:
		return "null", nil
	default:
		return "", fatalf("unexpected argument kind %d", a.Kind)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// specializeAttrs implements §4.5. attrs is returned unchanged (the same
// pointer) when nothing dynamic is present, per the identity rule.
func specializeAttrs(attrs *tree.Attrs) (*tree.Attrs, error) {
	if attrs == nil {
		return nil, nil
	}
	dynamicValue := false
	for _, name := range attrs.Names {
		if valueHasSpecial(attrs.Values[name]) {
			dynamicValue = true
			break
		}
	}
	if len(attrs.Specials) == 0 && !dynamicValue {
		return attrs, nil
	}

	out := tree.NewAttrs()
	out.Names = append([]string{}, attrs.Names...)
	for _, name := range attrs.Names {
		v, err := specializeAttrValue(attrs.Values[name])
		if err != nil {
			return nil, err
		}
		out.Values[name] = v
	}

	if len(attrs.Specials) > 0 {
		dyn := make([]tree.Node, len(attrs.Specials))
		for i, tag := range attrs.Specials {
			call, err := attrMustacheCall(tag)
			if err != nil {
				return nil, err
			}
			dyn[i] = tree.EmitCode("function () { return " + call + "; }")
		}
		out.Dynamic = dyn
	}
	return out, nil
}

func attrMustacheCall(tag *stache.Tag) (string, error) {
	nameCode := codeGenPath(tag.Path)
	argCodes, err := mustacheArgs(tag.Args)
	if err != nil {
		return "", err
	}
	parts := append([]string{nameCode}, argCodes...)
	return "Spacebars.attrMustache(" + strings.Join(parts, ", ") + ")", nil
}

func valueHasSpecial(n tree.Node) bool {
	switch n.Kind {
	case tree.KindSpecial:
		return true
	case tree.KindArray:
		for _, c := range n.Array {
			if valueHasSpecial(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// specializeAttrValue walks an attribute value per §4.5 step 2: strings
// and CharRef pass through, Special becomes a Spacebars.mustache
// EmitCode, arrays map recursively.
func specializeAttrValue(n tree.Node) (tree.Node, error) {
	switch n.Kind {
	case tree.KindString, tree.KindCharRef:
		return n, nil
	case tree.KindSpecial:
		call, err := mustacheCall(n.Special.Path, n.Special.Args)
		if err != nil {
			return tree.Node{}, err
		}
		return tree.EmitCode("function () { return " + call + "; }"), nil
	case tree.KindArray:
		parts := make([]tree.Node, len(n.Array))
		for i, c := range n.Array {
			v, err := specializeAttrValue(c)
			if err != nil {
				return tree.Node{}, err
			}
			parts[i] = v
		}
		return tree.Array(parts), nil
	default:
		return n, nil
	}
}
