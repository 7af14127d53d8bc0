package codegen

import "strings"

// Context is a minimal indentation-tracking string builder, grounded on
// the teacher's output.EmitterVisitorContext (abstract_emitter.go). It
// is not a general-purpose pretty-printer — only a deterministic
// re-indenter over the small template-wrapper grammar CodeGen produces,
// standing in for the specification's out-of-scope beautifier.
type Context struct {
	lines  []string
	indent int
	cur    strings.Builder
}

const indentWith = "  "

// NewContext returns an empty emitter context at indent level 0.
func NewContext() *Context {
	return &Context{}
}

// Print appends part to the current line without ending it.
func (c *Context) Print(part string) {
	if c.cur.Len() == 0 && part != "" {
		c.cur.WriteString(strings.Repeat(indentWith, c.indent))
	}
	c.cur.WriteString(part)
}

// Println appends part and then starts a new line.
func (c *Context) Println(part string) {
	c.Print(part)
	c.lines = append(c.lines, c.cur.String())
	c.cur.Reset()
}

// IncIndent increases the indent level for subsequent lines.
func (c *Context) IncIndent() { c.indent++ }

// DecIndent decreases the indent level for subsequent lines.
func (c *Context) DecIndent() { c.indent-- }

// String renders the accumulated lines, flushing any partial trailing
// line without a newline.
func (c *Context) String() string {
	out := strings.Join(c.lines, "\n")
	if c.cur.Len() > 0 {
		if out != "" {
			out += "\n"
		}
		out += c.cur.String()
	}
	return out
}
