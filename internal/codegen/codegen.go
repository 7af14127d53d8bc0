// Package codegen serializes a fully specialized tree (§4.6): no node
// may still be Special or Block by the time CodeGen runs.
package codegen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"stachec/internal/tree"
)

var bareKeyRe = regexp.MustCompile(`^[a-zA-Z]+$`)

// IsBareKey reports whether name may appear unquoted as an object-
// literal key in the target language.
func IsBareKey(name string) bool { return bareKeyRe.MatchString(name) }

// KeyLiteral renders name as an object-literal key, bare when legal,
// JSON-quoted otherwise.
func KeyLiteral(name string) string {
	if IsBareKey(name) {
		return name
	}
	return QuoteString(name)
}

// QuoteString renders s as a target-source string literal: a JSON
// string, with U+2028 and U+2029 written as six-character escapes, since they
// are illegal unescaped inside a JS string. encoding/json already
// escapes both; the replacements below keep that guarantee explicit.
func QuoteString(s string) string {
	b, _ := json.Marshal(s)
	out := string(b)
	out = strings.ReplaceAll(out, " ", `\u2028`)
	out = strings.ReplaceAll(out, " ", `\u2029`)
	return out
}

// CodeGen serializes a specialized fragment into a complete target
// source expression, wrapped per §4.6: a template wrapper binds
// __content/__elseContent from self when isTemplate is set.
func CodeGen(nodes []tree.Node, isTemplate bool) (string, error) {
	treeCode, err := Fragment(nodes)
	if err != nil {
		return "", err
	}

	ctx := NewContext()
	ctx.Println("(function () {")
	ctx.IncIndent()
	ctx.Println("var self = this;")
	if isTemplate {
		ctx.Println("var __content = self.__content, __elseContent = self.__elseContent;")
	}
	ctx.Println("return " + treeCode + ";")
	ctx.DecIndent()
	ctx.Print("})")
	return ctx.String(), nil
}

// Fragment serializes a sequence of sibling nodes on its own: a single
// node emits its bare code, more than one emits an array literal. It is
// used both by CodeGen's top wrapper and by the specializer to render a
// block's content/elseContent for UI.block(...).
func Fragment(nodes []tree.Node) (string, error) {
	switch len(nodes) {
	case 0:
		return `""`, nil
	case 1:
		return codeGenNode(nodes[0])
	default:
		codes := make([]string, len(nodes))
		for i, n := range nodes {
			c, err := codeGenNode(n)
			if err != nil {
				return "", err
			}
			codes[i] = c
		}
		return "[" + strings.Join(codes, ", ") + "]", nil
	}
}

func codeGenNode(n tree.Node) (string, error) {
	switch n.Kind {
	case tree.KindString:
		return QuoteString(n.Str), nil
	case tree.KindRaw:
		// Raw/CharRef materialization into DOM nodes is the tag-node
		// DOM-materialization code the specification excludes from this
		// implementation's budget (§1); here they fold into the same
		// plain-string representation the runtime's text path accepts.
		return QuoteString(n.Raw), nil
	case tree.KindCharRef:
		return QuoteString(n.CharRefStr), nil
	case tree.KindEmitCode:
		return n.Str, nil
	case tree.KindArray:
		return Fragment(n.Array)
	case tree.KindTag:
		return codeGenTag(n)
	case tree.KindComment:
		return "", fmt.Errorf("comment node reached the code emitter")
	default:
		return "", fmt.Errorf("unexpected node kind %d reached the code emitter", n.Kind)
	}
}

func codeGenTag(n tree.Node) (string, error) {
	childCodes := make([]string, len(n.Children))
	for i, c := range n.Children {
		code, err := codeGenNode(c)
		if err != nil {
			return "", err
		}
		childCodes[i] = code
	}
	attrsCode, err := attrsLiteral(n.Attrs)
	if err != nil {
		return "", err
	}
	var args []string
	if attrsCode != "" {
		args = append(args, attrsCode)
	}
	args = append(args, childCodes...)
	return "UI.Tag." + n.TagName + "(" + strings.Join(args, ", ") + ")", nil
}

func attrsLiteral(attrs *tree.Attrs) (string, error) {
	if attrs == nil || (len(attrs.Names) == 0 && len(attrs.Dynamic) == 0) {
		return "", nil
	}
	var parts []string
	for _, name := range attrs.Names {
		code, err := codeGenNode(attrs.Values[name])
		if err != nil {
			return "", err
		}
		parts = append(parts, KeyLiteral(name)+": "+code)
	}
	if len(attrs.Dynamic) > 0 {
		dyns := make([]string, len(attrs.Dynamic))
		for i, d := range attrs.Dynamic {
			code, err := codeGenNode(d)
			if err != nil {
				return "", err
			}
			dyns[i] = code
		}
		parts = append(parts, "$dynamic: ["+strings.Join(dyns, ", ")+"]")
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
