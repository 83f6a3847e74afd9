package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/internal/logutil"
	"github.com/ava12/pegx/source"
	"github.com/ava12/pegx/tree"
)

// RuleFunc parses a rule, used as parse entry point.
type RuleFunc = func(pc *ParseContext) Result

const (
	overrideKey = "@"
	checkPeriod = 1 << 10
)

type capture struct {
	name  string
	value any
	list  bool
}

type frame struct {
	rule     string
	pos      int
	captures []capture
}

func (fr *frame) value(raw any) any {
	if len(fr.captures) == 0 {
		return raw
	}

	ast := tree.New()
	for _, c := range fr.captures {
		if c.list {
			ast.Append(c.name, c.value)
		} else {
			ast.Set(c.name, c.value)
		}
	}
	if ast.Has(overrideKey) {
		return ast.Get(overrideKey)
	}
	return ast
}

type memoKey struct {
	rule string
	pos  int
	raw  bool
}

// ParseContext holds state of a single parse and provides parsing primitives
// used both by grammar interpreter and by generated parsers.
type ParseContext struct {
	ctx       context.Context
	buf       *source.Buffer
	opts      *Options
	hooks     *Hooks
	frames    []*frame
	cuts      []bool
	furthest  *Failure
	lookahead int
	steps     uint64
	memo      map[memoKey]Result
	logger    *slog.Logger
}

func newParseContext(ctx context.Context, src *source.Source, opts *Options, hooks *Hooks) (*ParseContext, error) {
	skip, e := opts.skipPatterns()
	if e != nil {
		return nil, e
	}

	buf := source.NewBuffer(src)
	buf.SetSkip(skip...)
	pc := &ParseContext{
		ctx:    ctx,
		buf:    buf,
		opts:   opts,
		hooks:  hooks,
		frames: []*frame{{pos: -1}},
		cuts:   []bool{false},
	}
	if opts.Memoize {
		pc.memo = make(map[memoKey]Result)
	}
	if logutil.TraceEnabled(ctx, opts.Logger) {
		pc.logger = opts.Logger
	}
	return pc, nil
}

// Run parses src starting with entry rule.
// Returns *pegx.Error describing the deepest failure if parse fails.
func Run(ctx context.Context, src *source.Source, opts Options, hooks *Hooks, entry RuleFunc) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pc, e := newParseContext(ctx, src, &opts, hooks)
	if e != nil {
		return nil, e
	}

	r := entry(pc)
	if r.OK() {
		return &Outcome{Value: r.Value, End: r.End, Steps: pc.steps}, nil
	}
	return nil, failureError(src, pc.report(r.Fail))
}

func (pc *ParseContext) report(f *Failure) *Failure {
	if f.Fatal() {
		return f
	}
	f = f.uncommitted()
	if pc.furthest != nil && pc.furthest.Pos >= f.Pos {
		return pc.furthest
	}
	return f
}

func (pc *ParseContext) Context() context.Context {
	return pc.ctx
}

// Pos returns current byte offset.
func (pc *ParseContext) Pos() int {
	return pc.buf.Pos()
}

func (pc *ParseContext) Source() *source.Source {
	return pc.buf.Source()
}

// Steps returns number of steps taken so far.
func (pc *ParseContext) Steps() uint64 {
	return pc.steps
}

func (pc *ParseContext) stack() []string {
	res := make([]string, 0, len(pc.frames)-1)
	for _, fr := range pc.frames[1:] {
		res = append(res, fr.rule)
	}
	return res
}

func (pc *ParseContext) frame() *frame {
	return pc.frames[len(pc.frames)-1]
}

func (pc *ParseContext) fatal(kind FailKind, pos int, msg string, params ...any) *Failure {
	return &Failure{Kind: kind, Pos: pos, Message: fmt.Sprintf(msg, params...), Stack: pc.stack()}
}

func (pc *ParseContext) step() *Failure {
	pc.steps++
	if pc.opts.MaxSteps > 0 && pc.steps > pc.opts.MaxSteps {
		return pc.fatal(FailedParse, pc.buf.Pos(), "step limit %d exceeded", pc.opts.MaxSteps)
	}

	if pc.steps%checkPeriod == 0 {
		if e := pc.ctx.Err(); e != nil {
			return pc.fatal(FailedParse, pc.buf.Pos(), "parse aborted: %s", e.Error())
		}
		if pc.opts.Budget != nil {
			if e := pc.opts.Budget(pc.steps); e != nil {
				return pc.fatal(FailedParse, pc.buf.Pos(), "parse aborted: %s", e.Error())
			}
		}
	}
	return nil
}

// note records a local failure; the deepest one is reported if the whole parse fails.
func (pc *ParseContext) note(f *Failure) {
	if pc.lookahead > 0 {
		return
	}

	if pc.furthest == nil || f.Pos > pc.furthest.Pos {
		pc.furthest = &Failure{
			Kind:     f.Kind,
			Pos:      f.Pos,
			Expected: mergeExpected(nil, f.Expected),
			Message:  f.Message,
			Stack:    pc.stack(),
		}
		return
	}

	if f.Pos == pc.furthest.Pos {
		pc.furthest.Expected = mergeExpected(pc.furthest.Expected, f.Expected)
		if pc.furthest.Message == "" {
			pc.furthest.Message = f.Message
		}
	}
}

func (pc *ParseContext) fail(kind FailKind, pos int, expected string) Result {
	f := &Failure{Kind: kind, Pos: pos, Expected: []string{expected}}
	pc.note(f)
	return Failed(f)
}

// attempt runs f in a new cut frame, discarding captures of a failed attempt.
func (pc *ParseContext) attempt(f func() Result) (Result, bool) {
	fr := pc.frame()
	mark := len(fr.captures)
	pc.cuts = append(pc.cuts, false)
	r := f()
	last := len(pc.cuts) - 1
	cut := pc.cuts[last]
	pc.cuts = pc.cuts[:last]
	if !r.OK() {
		fr.captures = fr.captures[:mark]
	}
	return r, cut
}

func (pc *ParseContext) skipSpace() int {
	pc.buf.SkipSpace()
	return pc.buf.Pos()
}

// Token matches literal text, skipping whitespace first.
func (pc *ParseContext) Token(lit string) Result {
	if f := pc.step(); f != nil {
		return Failed(f)
	}

	start := pc.buf.Mark()
	pos := pc.skipSpace()
	if !pc.buf.MatchLiteral(lit, pc.opts.IgnoreCase, pc.opts.NameGuard) {
		pc.buf.Restore(start)
		return pc.fail(FailedToken, pos, strconv.Quote(lit))
	}

	end := pc.buf.Pos()
	return Matched(string(pc.buf.Source().Content()[pos:end]), end)
}

// Pattern matches anchored regular expression re, skipping whitespace first.
// src is used in error messages.
func (pc *ParseContext) Pattern(re *regexp.Regexp, src string) Result {
	if f := pc.step(); f != nil {
		return Failed(f)
	}

	start := pc.buf.Mark()
	pos := pc.skipSpace()
	text, matched := pc.buf.MatchPattern(re)
	if !matched {
		pc.buf.Restore(start)
		return pc.fail(FailedPattern, pos, "/"+src+"/")
	}
	return Matched(text, pc.buf.Pos())
}

// EOF matches the end of input, skipping whitespace first.
func (pc *ParseContext) EOF() Result {
	start := pc.buf.Mark()
	pos := pc.skipSpace()
	if !pc.buf.AtEnd() {
		pc.buf.Restore(start)
		return pc.fail(FailedEOF, pos, "end of input")
	}
	return Matched(nil, pos)
}

// Void matches nothing.
func (pc *ParseContext) Void() Result {
	return Matched(nil, pc.buf.Pos())
}

// Cut commits the innermost option: its failure is not backtracked over by the enclosing choice.
func (pc *ParseContext) Cut() Result {
	pc.cuts[len(pc.cuts)-1] = true
	return Matched(nil, pc.buf.Pos())
}

// Sequence matches all items in order.
// Value is nil, the only non-nil item value, or a list of non-nil item values.
func (pc *ParseContext) Sequence(items ...func() Result) Result {
	start := pc.buf.Mark()
	var values []any
	for _, item := range items {
		r := item()
		if !r.OK() {
			pc.buf.Restore(start)
			return r
		}
		if r.Value != nil {
			values = append(values, r.Value)
		}
	}

	var value any
	switch len(values) {
	case 0:
	case 1:
		value = values[0]
	default:
		value = values
	}
	return Matched(value, pc.buf.Pos())
}

// Choice returns the result of the first matching option.
// Options are tried in order and later ones are never tried after a match,
// even if they could consume more input.
func (pc *ParseContext) Choice(options ...func() Result) Result {
	start := pc.buf.Mark()
	for _, option := range options {
		r, cut := pc.attempt(option)
		if r.OK() {
			return r
		}

		pc.buf.Restore(start)
		if r.Fail.Fatal() {
			return r
		}
		if cut || r.Fail.Kind == FailedCut {
			return Failed(r.Fail.uncommitted())
		}
	}
	return Failed(&Failure{Kind: FailedChoice, Pos: start})
}

// Repeat matches item greedily from min to max times (max < 0 means unbounded).
// Value is a list of item values. Repetition stops after an empty match,
// the empty value is repeated up to min.
func (pc *ParseContext) Repeat(min, max int, item func() Result) Result {
	start := pc.buf.Mark()
	values := []any{}
	var last *Failure
	for max < 0 || len(values) < max {
		pos := pc.buf.Mark()
		r, cut := pc.attempt(item)
		if !r.OK() {
			if r.Fail.Fatal() {
				pc.buf.Restore(start)
				return r
			}
			if cut || r.Fail.Kind == FailedCut {
				pc.buf.Restore(start)
				return Failed(committed(r.Fail))
			}
			pc.buf.Restore(pos)
			last = r.Fail
			break
		}

		values = append(values, r.Value)
		if pc.buf.Pos() == pos {
			// item matches empty input, so it matches as many times as needed
			for len(values) < min {
				values = append(values, r.Value)
			}
			break
		}
	}

	if len(values) < min && last != nil {
		pc.buf.Restore(start)
		return Failed(last)
	}
	return Matched(values, pc.buf.Pos())
}

// Optional matches item or nothing.
func (pc *ParseContext) Optional(item func() Result) Result {
	start := pc.buf.Mark()
	r, cut := pc.attempt(item)
	if r.OK() {
		return r
	}

	pc.buf.Restore(start)
	if r.Fail.Fatal() {
		return r
	}
	if cut || r.Fail.Kind == FailedCut {
		return Failed(committed(r.Fail))
	}
	return Matched(nil, start)
}

// Lookahead checks whether item matches (or does not match if negate is set) without consuming input.
// what describes item in error messages.
func (pc *ParseContext) Lookahead(negate bool, what string, item func() Result) Result {
	start := pc.buf.Mark()
	fr := pc.frame()
	mark := len(fr.captures)
	pc.lookahead++
	r, _ := pc.attempt(item)
	pc.lookahead--
	fr.captures = fr.captures[:mark]
	pc.buf.Restore(start)

	if !r.OK() && r.Fail.Fatal() {
		return r
	}
	if r.OK() != negate {
		return Matched(nil, start)
	}
	return pc.fail(FailedLookahead, start, what)
}

// Named stores item value in the AST of current rule.
func (pc *ParseContext) Named(name string, list bool, item func() Result) Result {
	r := item()
	if r.OK() {
		fr := pc.frame()
		fr.captures = append(fr.captures, capture{name, r.Value, list})
	}
	return r
}

// Override makes item value the value of current rule.
func (pc *ParseContext) Override(list bool, item func() Result) Result {
	return pc.Named(overrideKey, list, item)
}

// Call invokes a rule: detects left recursion, applies rule hook, and memoizes the result.
// Rules with names starting with "_" are lexical: whitespace is not skipped inside them.
func (pc *ParseContext) Call(rule string, body func() Result) Result {
	if f := pc.step(); f != nil {
		return Failed(f)
	}

	pos := pc.buf.Mark()
	key := memoKey{rule, pos, pc.buf.IsRaw()}
	if pc.memo != nil {
		if r, found := pc.memo[key]; found {
			if r.OK() {
				pc.buf.Restore(r.End)
			}
			return r
		}
	}

	start := pc.skipSpace()
	for _, fr := range pc.frames[1:] {
		if fr.rule == rule && fr.pos == start {
			pc.buf.Restore(pos)
			return Failed(pc.fatal(FailedLeftRecursion, start, "left recursion in rule %q", rule))
		}
	}
	if pc.opts.MaxDepth > 0 && len(pc.frames) > pc.opts.MaxDepth {
		pc.buf.Restore(pos)
		return Failed(pc.fatal(FailedParse, start, "rule nesting depth exceeds %d", pc.opts.MaxDepth))
	}

	fr := &frame{rule: rule, pos: start}
	pc.frames = append(pc.frames, fr)
	lexical := grammar.IsLexicalName(rule)
	if lexical {
		pc.buf.EnterRaw()
	}
	if pc.logger != nil {
		logutil.Trace(pc.ctx, pc.logger, "enter", "rule", rule, "pos", start)
	}

	r, cut := pc.attempt(body)

	if lexical {
		pc.buf.LeaveRaw()
	}
	pc.frames = pc.frames[:len(pc.frames)-1]

	if r.OK() {
		value, f := pc.applyHook(rule, start, r.End, fr.value(r.Value))
		if f == nil {
			r = Matched(value, r.End)
		} else {
			r = Failed(f)
		}
	}
	if !r.OK() {
		pc.buf.Restore(pos)
		if cut {
			r = Failed(committed(r.Fail))
		}
	}

	if pc.logger != nil {
		logutil.Trace(pc.ctx, pc.logger, "leave", "rule", rule, "pos", start, "ok", r.OK())
	}
	// failures inside lookahead are not noted, results computed there are not cached
	if pc.memo != nil && pc.lookahead == 0 && (r.OK() || (!r.Fail.Fatal() && r.Fail.Kind != FailedCut)) {
		pc.memo[key] = r
	}
	return r
}

func (pc *ParseContext) applyHook(rule string, start, end int, value any) (any, *Failure) {
	hook := pc.hooks.hook(rule)
	if hook == nil {
		return value, nil
	}

	m := &Match{Rule: rule, Start: start, End: end, src: pc.buf.Source()}
	res, e := hook(m, value)
	if e == nil {
		return res, nil
	}

	var pe *pegx.Error
	if errors.As(e, &pe) {
		f := pc.fatal(FailedParse, start, "%s", e.Error())
		f.Err = pegx.WithPos(e, m)
		return nil, f
	}

	f := &Failure{Kind: FailedSemantics, Pos: start, Message: e.Error()}
	pc.note(f)
	return nil, f
}
