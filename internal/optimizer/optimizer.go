// Package optimizer implements the raw-HTML collapsing optimizer (§4.3):
// it walks the intermediate tree and fuses any subtree free of Special,
// EmitCode or dynamic-attribute content into a single pre-rendered Raw
// HTML string (or a plain string, when the rendered HTML contains
// neither '&' nor '<').
package optimizer

import "stachec/internal/tree"

// Optimize rewrites a top-level fragment. If nothing dynamic is found
// anywhere in it, the whole fragment collapses to one Raw (or string)
// node.
func Optimize(nodes []tree.Node) []tree.Node {
	result := optimizeArrayParts(nodes, false)
	if result == nil {
		html := tree.ToHTMLAll(nodes)
		if tree.IsPureChars(html) {
			return []tree.Node{tree.String(html)}
		}
		return []tree.Node{tree.Raw(html)}
	}
	return result
}

// optimizeNode examines a single node. It returns ok == false when the
// node (and everything beneath it) is free of dynamic content, in which
// case the caller is responsible for rendering it to HTML itself;
// ok == true returns the (possibly rewritten) node to splice in place.
func optimizeNode(n tree.Node) (tree.Node, bool) {
	switch n.Kind {
	case tree.KindString, tree.KindCharRef, tree.KindComment, tree.KindRaw:
		return tree.Node{}, false
	case tree.KindSpecial, tree.KindBlock, tree.KindEmitCode:
		return n, true
	case tree.KindArray:
		result := optimizeArrayParts(n.Array, false)
		if result == nil {
			return tree.Node{}, false
		}
		return tree.Array(result), true
	case tree.KindTag:
		return optimizeTag(n)
	default:
		return tree.Node{}, false
	}
}

// optimizeTag handles the KindTag case: textarea is left untouched
// (RCDATA fusion would require text-mode-aware escaping this pass does
// not implement), a dynamic attribute forces its children to be
// individually examined even when none are themselves dynamic.
func optimizeTag(n tree.Node) (tree.Node, bool) {
	if n.TagName == "textarea" {
		return n, true
	}
	mustOptimize := attrsHaveSpecial(n.Attrs)
	children := optimizeArrayParts(n.Children, mustOptimize)
	if children == nil {
		if !mustOptimize {
			return tree.Node{}, false
		}
		children = n.Children
	}
	return tree.Tag(n.TagName, n.Attrs, children), true
}

func attrsHaveSpecial(attrs *tree.Attrs) bool {
	if attrs == nil {
		return false
	}
	if len(attrs.Specials) > 0 {
		return true
	}
	for _, name := range attrs.Names {
		if containsSpecial(attrs.Values[name]) {
			return true
		}
	}
	return false
}

func containsSpecial(n tree.Node) bool {
	switch n.Kind {
	case tree.KindSpecial, tree.KindEmitCode:
		return true
	case tree.KindArray:
		for _, c := range n.Array {
			if containsSpecial(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// optimizeArrayParts walks arr left to right. The first time a
// specialized child turns up (or unconditionally, when forceOptimize is
// set), every preceding plain child is rendered to HTML and buffered;
// from then on, specialized children are kept as-is and plain children
// are rendered and folded into a trailing Raw run. A nil return means
// nothing dynamic was found anywhere in arr.
func optimizeArrayParts(arr []tree.Node, forceOptimize bool) []tree.Node {
	started := forceOptimize
	var buf []tree.Node
	if started {
		buf = []tree.Node{}
	}
	for idx, child := range arr {
		optimized, special := optimizeNode(child)
		if special {
			if !started {
				started = true
				if idx > 0 {
					buf = []tree.Node{tree.Raw(tree.ToHTMLAll(arr[:idx]))}
				} else {
					buf = []tree.Node{}
				}
			}
			buf = append(buf, optimized)
		} else if started {
			pushRawHTML(&buf, tree.ToHTML(child))
		}
	}
	if !started {
		return nil
	}
	for i := range buf {
		if buf[i].Kind == tree.KindRaw && tree.IsPureChars(buf[i].Raw) {
			buf[i] = tree.String(buf[i].Raw)
		}
	}
	return buf
}

// pushRawHTML appends html to buf, coalescing with a trailing Raw node
// by concatenation rather than appending a new node.
func pushRawHTML(buf *[]tree.Node, html string) {
	if n := len(*buf); n > 0 && (*buf)[n-1].Kind == tree.KindRaw {
		(*buf)[n-1].Raw += html
		return
	}
	*buf = append(*buf, tree.Raw(html))
}
