package parser

// FailKind classifies parse failures.
type FailKind int

const (
	FailedToken FailKind = iota + 1
	FailedPattern
	FailedChoice
	FailedLookahead
	// FailedCut is a failure after a cut, it is not absorbed by the enclosing option.
	FailedCut
	FailedLeftRecursion
	FailedRef
	FailedSemantics
	FailedEOF
	// FailedParse reports exhausted limits, cancellation, or fatal hook errors.
	FailedParse
)

var failKindNames = [...]string{
	FailedToken:         "FailedToken",
	FailedPattern:       "FailedPattern",
	FailedChoice:        "FailedChoice",
	FailedLookahead:     "FailedLookahead",
	FailedCut:           "FailedCut",
	FailedLeftRecursion: "FailedLeftRecursion",
	FailedRef:           "FailedRef",
	FailedSemantics:     "FailedSemantics",
	FailedEOF:           "FailedEOF",
	FailedParse:         "FailedParse",
}

func (k FailKind) String() string {
	if k > 0 && int(k) < len(failKindNames) {
		return failKindNames[k]
	}
	return "FailedUnknown"
}

// Fatal reports whether failures of this kind abort the whole parse.
func (k FailKind) Fatal() bool {
	return k == FailedLeftRecursion || k == FailedRef || k == FailedParse
}

// Failure describes why an expression did not match.
type Failure struct {
	Kind FailKind
	// Pos is byte offset of the failure.
	Pos int
	// Expected lists descriptions of expressions expected at Pos.
	Expected []string
	Message  string
	// Stack contains names of active rules, outermost first.
	Stack []string
	// Nested is the original failure wrapped by FailedCut.
	Nested *Failure
	// Err is reported as is if set.
	Err error
}

func (f *Failure) Fatal() bool {
	return f.Kind.Fatal()
}

func (f *Failure) uncommitted() *Failure {
	if f.Kind == FailedCut && f.Nested != nil {
		return f.Nested
	}
	return f
}

func committed(f *Failure) *Failure {
	if f.Kind == FailedCut || f.Fatal() {
		return f
	}
	return &Failure{Kind: FailedCut, Pos: f.Pos, Nested: f}
}

// Result is either a match (Fail is nil) or a failure.
type Result struct {
	Value any
	// End is byte offset after the match.
	End  int
	Fail *Failure
}

func (r Result) OK() bool {
	return r.Fail == nil
}

func Matched(value any, end int) Result {
	return Result{Value: value, End: end}
}

func Failed(f *Failure) Result {
	return Result{Fail: f, End: f.Pos}
}

// Outcome is the result of successful parse.
type Outcome struct {
	Value any
	// End is byte offset after the text matched by the start rule.
	End int
	// Steps is the number of steps taken by the engine.
	Steps uint64
}
