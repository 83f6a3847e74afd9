// Package source defines source text with line index and the buffer used by parser to scan it.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// Source is immutable named text with precomputed line starts.
// It is safe to share between goroutines.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates a source, content must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, 1, lineCnt)
	for i, c := range content {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// FromString creates a source from a string.
func FromString(name, content string) *Source {
	return New(name, []byte(content))
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol returns 1-based line number and column (counted in runes) of pos.
// pos is clamped to [0, Len()].
func (s *Source) LineCol(pos int) (line, col int) {
	pos = s.clamp(pos)
	index := s.lineIndex(pos)
	return index + 1, utf8.RuneCount(s.content[s.lineStarts[index]:pos]) + 1
}

// LineInfo describes the line containing some position.
type LineInfo struct {
	Line, Col int
	LineStart int
	Text      string
}

// LineInfo returns the line containing pos, line text contains no line terminator.
func (s *Source) LineInfo(pos int) LineInfo {
	pos = s.clamp(pos)
	index := s.lineIndex(pos)
	start := s.lineStarts[index]
	end := len(s.content)
	if index+1 < len(s.lineStarts) {
		end = s.lineStarts[index+1] - 1
	}
	text := s.content[start:end]
	text = bytes.TrimSuffix(text, []byte("\r"))
	return LineInfo{
		Line:      index + 1,
		Col:       utf8.RuneCount(s.content[start:pos]) + 1,
		LineStart: start,
		Text:      string(text),
	}
}

// Pos returns byte offset of 1-based line and column (counted in runes).
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1]
	for ; col > 1 && res < l; col-- {
		if s.content[res] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(s.content[res:])
		res += size
	}
	return res
}

// At returns position descriptor for byte offset pos.
func (s *Source) At(pos int) Pos {
	pos = s.clamp(pos)
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (s *Source) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.content) {
		return len(s.content)
	}
	return pos
}

func (s *Source) lineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos is a position in a source, implements pegx.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Offset() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}
