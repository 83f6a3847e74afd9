package pegxgen

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// camelCase converts arbitrary name to exported Go identifier: "closure_bounds" becomes "ClosureBounds".
// Returns empty string if name contains no letters or digits.
func camelCase(name string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(caser.String(part))
	}
	res := sb.String()
	if res != "" && !unicode.IsLetter([]rune(res)[0]) {
		res = "X" + res
	}
	return res
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// nameSet assigns unique identifiers.
type nameSet map[string]bool

func (ns nameSet) add(base string) string {
	name := base
	for i := 2; ns[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	ns[name] = true
	return name
}
