package utils

import (
	"fmt"
	"html"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength is counted in runes, extension included.
const MaxFilenameLength = 100

const defaultFilename = "file"

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user text. Entities stay escaped.
func SanitizeText(text string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(text))
}

// SanitizeFilename turns a client supplied file name into a safe storage name:
// directories and markup are dropped, anything but letters, digits, '-', '_' becomes '-',
// the extension is lowercased and the result fits MaxFilenameLength.
func SanitizeFilename(name string) string {
	name = html.UnescapeString(strictPolicy.Sanitize(name))
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = norm.NFC.String(name)

	ext := filepath.Ext(name)
	base := slug(strings.TrimSuffix(name, ext), true)
	ext = strings.ToLower(slug(strings.TrimPrefix(ext, "."), false))
	if ext != "" {
		ext = "." + ext
	}
	if base == "" {
		base = defaultFilename
	}

	if limit := MaxFilenameLength - utf8.RuneCountInString(ext); utf8.RuneCountInString(base) > limit {
		base = strings.TrimRight(string([]rune(base)[:limit]), "-_")
	}
	return base + ext
}

// slug keeps letters and digits. With separators, runs of anything else collapse into one '-'.
func slug(s string, separators bool) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !separators:
		case r == '_' || r == '-':
			b.WriteRune(r)
			dash = r == '-'
		default:
			if !dash {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-_")
}

// FilePath builds the storage key YYYY/MM/DD/<uid>/<name>.
// The uid makes the key unique, the date keeps listings browsable.
func FilePath(created time.Time, uid domain.FileUid, name string) domain.FilePath {
	return fmt.Sprintf("%s/%s/%s", created.UTC().Format("2006/01/02"), uid, name)
}
