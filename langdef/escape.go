package langdef

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ava12/pegx"
)

type escapeCharEntry struct {
	substitute, hexLen byte
}

var escapeCharMap = map[byte]escapeCharEntry{
	'\\': {'\\', 0},
	'"':  {'"', 0},
	'\'': {'\'', 0},
	'a':  {'\a', 0},
	'b':  {'\b', 0},
	'f':  {'\f', 0},
	'n':  {'\n', 0},
	'r':  {'\r', 0},
	't':  {'\t', 0},
	'v':  {'\v', 0},
	'x':  {0, 2},
	'u':  {0, 4},
	'U':  {0, 8},
}

// unquote removes quotes of a string literal and replaces escape sequences.
func unquote(pos pegx.SourcePos, literal string) (string, error) {
	content := literal[1 : len(literal)-1]
	if strings.IndexByte(content, '\\') < 0 {
		return content, nil
	}

	peekRune := func(content string, hexLen int) (rune, error) {
		if len(content) < hexLen+2 {
			return 0, invalidEscapeError(pos, content)
		}

		codePoint, e := strconv.ParseUint(content[2:hexLen+2], 16, 32)
		if e != nil {
			return 0, invalidEscapeError(pos, content[:hexLen+2])
		}
		if !utf8.ValidRune(rune(codePoint)) {
			return 0, invalidRuneError(pos, content[2:hexLen+2])
		}
		return rune(codePoint), nil
	}

	result := make([]byte, 0, len(content))
	for {
		slashPos := strings.IndexByte(content, '\\')
		if slashPos < 0 {
			result = append(result, content...)
			break
		}

		result = append(result, content[:slashPos]...)
		content = content[slashPos:]
		if len(content) < 2 {
			return "", invalidEscapeError(pos, content)
		}

		entry, valid := escapeCharMap[content[1]]
		if !valid {
			return "", invalidEscapeError(pos, content[:2])
		}

		if entry.hexLen == 0 {
			result = append(result, entry.substitute)
			content = content[2:]
		} else {
			r, e := peekRune(content, int(entry.hexLen))
			if e != nil {
				return "", e
			}
			result = utf8.AppendRune(result, r)
			content = content[entry.hexLen+2:]
		}
	}

	return string(result), nil
}

// unslash removes slashes of a pattern literal and unescapes inner slashes,
// other escape sequences belong to the regular expression.
func unslash(literal string) string {
	content := literal[1 : len(literal)-1]
	if !strings.Contains(content, `\/`) {
		return content
	}

	var sb strings.Builder
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\\' && i+1 < len(content) {
			i++
			if content[i] != '/' {
				sb.WriteByte(c)
			}
			c = content[i]
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
