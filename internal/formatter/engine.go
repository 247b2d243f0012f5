package formatter

import (
	"strings"

	"github.com/donaldgifford/slyp/internal/config"
	"github.com/donaldgifford/slyp/internal/parser"
)

// Context carries what a FixRule may ask about the tree being rewritten.
// Positions always refer to the source as parsed, before any rewrite.
type Context struct {
	Config *config.FixerConfig

	// Parent is the parent of the node currently being fixed. Its own
	// children may already have been replaced.
	Parent parser.Node

	pos      parser.Positions
	disabled []LineRange
	stmtLead map[int]string
	lineLead map[int]string
	unit     string

	// edits journals token changes made while fixing the current node so
	// they can be undone if the node is suppressed.
	edits []tokenEdit
}

type tokenEdit struct {
	tok *parser.Token
	old parser.Token
}

// NewContext indexes a freshly parsed module for rewriting.
func NewContext(mod *parser.Module, cfg *config.FixerConfig) *Context {
	if cfg == nil {
		cfg = &config.DefaultConfig().Fixer
	}
	ctx := &Context{
		Config:   cfg,
		pos:      parser.ComputePositions(mod),
		disabled: DisabledRanges(mod),
		stmtLead: make(map[int]string),
		lineLead: make(map[int]string),
	}

	parser.EachToken(mod, func(t *parser.Token) bool {
		if t.Value == "" || t.Line == 0 {
			return true
		}
		if _, ok := ctx.lineLead[t.Line]; !ok {
			ctx.lineLead[t.Line] = t.Prefix[strings.LastIndexByte(t.Prefix, '\n')+1:]
		}
		return true
	})

	// Pre-order, so inner statements overwrite the lines of the
	// statement containing them, and the first block seen is at depth one.
	parser.Walk(mod, func(n parser.Node) bool {
		switch n := n.(type) {
		case parser.Stmt, *parser.MatchCase:
			p := ctx.pos[n]
			for line := p.Line; line <= p.EndLine; line++ {
				ctx.stmtLead[line] = ctx.lineLead[p.Line]
			}
		case *parser.IndentedBlock:
			if ctx.unit == "" && len(n.Body) > 0 {
				ctx.unit = ctx.lineLead[ctx.pos[n.Body[0]].Line]
			}
		}
		return true
	})

	return ctx
}

// Line returns the start line of n. Nodes from the parsed tree use their
// recorded position; rewritten nodes fall back to their first token.
func (c *Context) Line(n parser.Node) int {
	if p, ok := c.pos[n]; ok {
		return p.Line
	}
	if t := parser.FirstToken(n); t != nil {
		return t.Line
	}
	return 0
}

// Position returns the recorded span of a node from the parsed tree.
func (c *Context) Position(n parser.Node) (parser.Position, bool) {
	p, ok := c.pos[n]
	return p, ok
}

// Disabled reports whether rewrites are suppressed on line.
func (c *Context) Disabled(line int) bool {
	for _, r := range c.disabled {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// StmtLead returns the whitespace before the innermost statement spanning
// line.
func (c *Context) StmtLead(line int) string {
	return c.stmtLead[line]
}

// LineLead returns the whitespace before the first token on line.
func (c *Context) LineLead(line int) string {
	return c.lineLead[line]
}

// IndentUnit returns one level of block indentation as the file writes it,
// or Config.IndentWidth spaces when the file has no indented block.
func (c *Context) IndentUnit() string {
	if c.unit != "" {
		return c.unit
	}
	return strings.Repeat(" ", c.Config.IndentWidth)
}

// Columns returns whitespace n columns wide, using tabs for whole indent
// levels when the file indents with tabs.
func (c *Context) Columns(n int) string {
	if !strings.Contains(c.unit, "\t") {
		return strings.Repeat(" ", n)
	}
	w := max(c.Config.IndentWidth, 1)
	return strings.Repeat("\t", n/w) + strings.Repeat(" ", n%w)
}

// SetPrefix replaces the trivia before t.
func (c *Context) SetPrefix(t *parser.Token, prefix string) {
	if t.Prefix == prefix {
		return
	}
	c.record(t)
	t.Prefix = prefix
}

// SetValue replaces the text of t.
func (c *Context) SetValue(t *parser.Token, value string) {
	if t.Value == value {
		return
	}
	c.record(t)
	t.Value = value
}

// SpaceBefore asks the writer to keep t apart from the word before it.
func (c *Context) SpaceBefore(t *parser.Token) {
	if t.SpaceBefore {
		return
	}
	c.record(t)
	t.SpaceBefore = true
}

// SpaceAfter asks the writer to keep t apart from the word after it.
func (c *Context) SpaceAfter(t *parser.Token) {
	if t.SpaceAfter {
		return
	}
	c.record(t)
	t.SpaceAfter = true
}

func (c *Context) record(t *parser.Token) {
	c.edits = append(c.edits, tokenEdit{tok: t, old: *t})
}

// rollback undoes every token edit made since the journal was reset.
func (c *Context) rollback() {
	for i := len(c.edits) - 1; i >= 0; i-- {
		*c.edits[i].tok = c.edits[i].old
	}
	c.edits = c.edits[:0]
}

// RewriteTree applies rules to every node of mod bottom-up and returns the
// rewritten module. A change to a node that starts on a disabled line is
// discarded, though changes already made to its children are kept.
func RewriteTree(mod *parser.Module, cfg *config.FixerConfig, rules []FixRule) *parser.Module {
	ctx := NewContext(mod, cfg)

	root := parser.Transform(mod, func(n, parent parser.Node) parser.Node {
		ctx.Parent = parent
		ctx.edits = ctx.edits[:0]
		out := n
		for _, rule := range rules {
			out = rule.Fix(out, ctx)
		}
		if (out != n || len(ctx.edits) > 0) && ctx.Disabled(ctx.Line(n)) {
			ctx.rollback()
			return n
		}
		return out
	})

	return root.(*parser.Module)
}

// Rewrite parses src, applies rules, and returns the re-encoded result.
// changed is false when the output is byte-identical to src. Parse
// failures are returned as errors; callers treat such files as unchanged.
func Rewrite(src []byte, cfg *config.FixerConfig, rules []FixRule) (out []byte, changed bool, err error) {
	mod, err := parser.Parse(src)
	if err != nil {
		return nil, false, err
	}

	mod = RewriteTree(mod, cfg, rules)

	out, err = mod.Encode(Write(mod))
	if err != nil {
		return nil, false, err
	}
	return out, string(out) != string(src), nil
}
