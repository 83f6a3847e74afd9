package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{-5, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"жук\nя": {
			{2, 1, 2},
			{6, 1, 4},
			{7, 2, 1},
			{9, 2, 2},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			assert.Equal(t, res, result{res.pos, l, c}, "sample %q", text)
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		"hello\nworld\n": {
			{0, 1, 1},
			{1, 1, 2},
			{5, 1, 10},
			{6, 2, 1},
			{7, 2, 2},
			{11, 2, 10},
			{12, 3, 1},
			{12, 4, 1},
		},
		"жук\nя": {
			{2, 1, 2},
			{4, 1, 3},
			{7, 2, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			assert.Equal(t, res.pos, source.Pos(res.line, res.col), "sample %q, %v", text, res)
		}
	}
}

func TestSourceLineInfo(t *testing.T) {
	s := FromString("input", "first\r\nsecond line\nthird")
	info := s.LineInfo(10)
	assert.Equal(t, LineInfo{Line: 2, Col: 4, LineStart: 7, Text: "second line"}, info)

	info = s.LineInfo(0)
	assert.Equal(t, "first", info.Text)

	info = s.LineInfo(1000)
	assert.Equal(t, 3, info.Line)
	assert.Equal(t, 6, info.Col)
	assert.Equal(t, "third", info.Text)
}

func TestSourceAt(t *testing.T) {
	s := FromString("input", "ab\ncd")
	p := s.At(4)
	assert.Equal(t, "input", p.SourceName())
	assert.Equal(t, 2, p.Line())
	assert.Equal(t, 2, p.Col())
	assert.Equal(t, 4, p.Offset())
	assert.Same(t, s, p.Source())
}
