package source

import (
	"bytes"
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// ErrEndOfInput is returned by Buffer.Advance at the end of source.
var ErrEndOfInput = errors.New("end of input")

// Buffer is a backtrackable cursor over a single source.
// Buffer is not safe for concurrent use, each parse owns its buffer.
type Buffer struct {
	src  *Source
	pos  int
	skip []*regexp.Regexp
	raw  int
}

func NewBuffer(src *Source) *Buffer {
	return &Buffer{src: src}
}

func (b *Buffer) Source() *Source {
	return b.src
}

func (b *Buffer) Pos() int {
	return b.pos
}

func (b *Buffer) AtEnd() bool {
	return b.pos >= len(b.src.content)
}

// Rest returns unread content.
func (b *Buffer) Rest() []byte {
	return b.src.content[b.pos:]
}

// Peek returns the next rune without consuming it, false at the end of source.
func (b *Buffer) Peek() (rune, bool) {
	if b.AtEnd() {
		return 0, false
	}
	r, _ := utf8.DecodeRune(b.src.content[b.pos:])
	return r, true
}

// Advance consumes and returns the next rune.
func (b *Buffer) Advance() (rune, error) {
	if b.AtEnd() {
		return 0, ErrEndOfInput
	}
	r, size := utf8.DecodeRune(b.src.content[b.pos:])
	b.pos += size
	return r, nil
}

// Mark returns current position to be used with Restore.
func (b *Buffer) Mark() int {
	return b.pos
}

// Restore moves cursor to a previously marked position, pos is clamped to source bounds.
func (b *Buffer) Restore(pos int) {
	b.pos = b.src.clamp(pos)
}

// SetSkip sets regular expressions matching whitespace and comments.
// Expressions must be anchored at the start of input, nil entries are ignored.
func (b *Buffer) SetSkip(res ...*regexp.Regexp) {
	b.skip = b.skip[:0]
	for _, re := range res {
		if re != nil {
			b.skip = append(b.skip, re)
		}
	}
}

// EnterRaw disables whitespace skipping until matching LeaveRaw call.
func (b *Buffer) EnterRaw() {
	b.raw++
}

func (b *Buffer) LeaveRaw() {
	if b.raw > 0 {
		b.raw--
	}
}

func (b *Buffer) IsRaw() bool {
	return b.raw > 0
}

// SkipSpace consumes whitespace and comments, does nothing in raw mode.
func (b *Buffer) SkipSpace() {
	if b.raw > 0 || len(b.skip) == 0 {
		return
	}

	for moved := true; moved && !b.AtEnd(); {
		moved = false
		for _, re := range b.skip {
			loc := re.FindIndex(b.src.content[b.pos:])
			if loc != nil && loc[0] == 0 && loc[1] > 0 {
				b.pos += loc[1]
				moved = true
			}
		}
	}
}

// MatchLiteral consumes lit if it follows the cursor.
// fold enables case-insensitive comparison.
// guard rejects a match of a name-like literal followed by a name character ("if" in "iffy").
func (b *Buffer) MatchLiteral(lit string, fold, guard bool) bool {
	rest := b.src.content[b.pos:]
	if len(rest) < len(lit) {
		return false
	}

	head := rest[:len(lit)]
	if fold {
		if !bytes.EqualFold(head, []byte(lit)) {
			return false
		}
	} else if string(head) != lit {
		return false
	}

	if guard && lit != "" {
		first, _ := utf8.DecodeRuneInString(lit)
		last, _ := utf8.DecodeLastRuneInString(lit)
		next, size := utf8.DecodeRune(rest[len(lit):])
		if size > 0 && isNameRune(first) && isNameRune(last) && isNameRune(next) {
			return false
		}
	}

	b.pos += len(lit)
	return true
}

// MatchPattern consumes text matched by re, re must be anchored at the start of input.
// Empty matches succeed.
func (b *Buffer) MatchPattern(re *regexp.Regexp) (string, bool) {
	loc := re.FindIndex(b.src.content[b.pos:])
	if loc == nil || loc[0] != 0 {
		return "", false
	}

	text := string(b.src.content[b.pos : b.pos+loc[1]])
	b.pos += loc[1]
	return text, true
}

// LineInfo returns line information for pos.
func (b *Buffer) LineInfo(pos int) LineInfo {
	return b.src.LineInfo(pos)
}

// SourcePos returns position descriptor of the cursor.
func (b *Buffer) SourcePos() Pos {
	return b.src.At(b.pos)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
