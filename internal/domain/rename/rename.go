// Package rename derives new file names from a template and a video's
// analysis results.
package rename

import (
	"path/filepath"
	"strings"
	"time"
)

// Values are the substitution sources for one file.
type Values struct {
	Created  time.Time
	Title    string
	Keywords []string
	Stem     string // original file name without extension
}

// Apply substitutes the template tokens in a single left-to-right pass:
//
//	%Y  4-digit year of Created
//	%M  zero-padded month
//	%D  zero-padded day
//	%T  title
//	%K  keywords joined with "-"
//	%J  keywords joined with ", "
//	%F  original file name without extension
//
// Substituted text is never rescanned, so a title containing a token
// sequence stays literal. Unknown %x pairs pass through unchanged.
func Apply(template string, v Values) string {
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			b.WriteByte(template[i])
			continue
		}
		val, ok := tokenValue(template[i+1], v)
		if !ok {
			b.WriteByte(template[i])
			continue
		}
		b.WriteString(val)
		i++
	}
	return b.String()
}

func tokenValue(tok byte, v Values) (string, bool) {
	switch tok {
	case 'Y':
		return v.Created.Format("2006"), true
	case 'M':
		return v.Created.Format("01"), true
	case 'D':
		return v.Created.Format("02"), true
	case 'T':
		return v.Title, true
	case 'K':
		return strings.Join(v.Keywords, "-"), true
	case 'J':
		return strings.Join(v.Keywords, ", "), true
	case 'F':
		return v.Stem, true
	default:
		return "", false
	}
}

// NewPath places newName next to the original file, keeping the original
// extension verbatim, including its case.
func NewPath(orig, newName string) string {
	return filepath.Join(filepath.Dir(orig), newName+filepath.Ext(orig))
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
