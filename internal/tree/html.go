package tree

import (
	"sort"
	"strings"
)

// ToHTML renders a tree free of Special/EmitCode/Block content back into
// literal HTML markup. It is the "external toHTML" the specification
// references — needed here because, unlike the specification's source
// collaborators, this repository must actually run the optimizer against
// real trees, not merely assume the function exists.
func ToHTML(n Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

// ToHTMLAll renders a sequence of sibling nodes.
func ToHTMLAll(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeHTML(&b, n)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, n Node) {
	switch n.Kind {
	case KindString:
		b.WriteString(n.Str)
	case KindRaw:
		b.WriteString(n.Raw)
	case KindCharRef:
		b.WriteString(n.CharRefHTML)
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Comment)
		b.WriteString("-->")
	case KindTag:
		writeTagHTML(b, n)
	case KindArray:
		for _, c := range n.Array {
			writeHTML(b, c)
		}
	default:
		// Special, Block and EmitCode carry no literal HTML rendering;
		// callers only reach ToHTML on subtrees already known dynamic-free.
	}
}

func writeTagHTML(b *strings.Builder, n Node) {
	b.WriteByte('<')
	b.WriteString(n.TagName)
	if n.Attrs != nil {
		names := append([]string{}, n.Attrs.Names...)
		sort.Strings(names)
		for _, name := range names {
			v := n.Attrs.Values[name]
			b.WriteByte(' ')
			b.WriteString(name)
			if v.Kind == KindString && v.Str != "" {
				b.WriteString(`="`)
				b.WriteString(v.Str)
				b.WriteByte('"')
			}
		}
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		writeHTML(b, c)
	}
	if !isVoidElement(n.TagName) {
		b.WriteString("</")
		b.WriteString(n.TagName)
		b.WriteByte('>')
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func isVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}
