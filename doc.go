// Package stachec compiles a Handlebars-like mustache templating language
// embedded in HTML into target-language source code.
//
// A source string mixing literal markup with stache tags ({{name}},
// {{{raw}}}, {{> partial}}, {{#block}}…{{/block}}) is parsed into an
// intermediate tree, optimized by fusing static HTML into pre-rendered
// strings, specialized by rewriting dynamic nodes into target-source
// closures, and finally emitted as a single target-source expression.
//
// Main sub-packages:
//
//   - internal/core: character classification constants and a cursor type
//   - internal/util: source location tracking and the ParseError type
//   - internal/jstoken: a small JS-like tokenizer for argument literals
//   - internal/stache: the stache-tag scanner (parseStacheTag)
//   - internal/tree: the intermediate node types shared by every stage
//   - internal/htmlfrag: the HTML fragment tokenizer (character references
//     via golang.org/x/net/html; tag/attribute scanning is hand-rolled)
//   - internal/parser: the hybrid HTML/template parser
//   - internal/optimizer: the raw-HTML collapsing optimizer
//   - internal/specializer: the tree rewriter that emits runtime calls
//   - internal/codegen: the target-source emitter
//   - internal/config: YAML batch-compile configuration
//   - compile: the public Compile/Parse/CodeGen/ParseStacheTag API
//   - cmd/stachec: the command-line front end
package stachec
