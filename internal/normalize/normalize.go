// Package normalize canonicalizes free-text athlete and team names into
// comparable lookup keys. The pipeline is deterministic and intentionally
// strict: any character it does not know how to handle stops the run so the
// input can be triaged by hand instead of silently mismatching.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnclassified marks a data-quality failure: after every known rewrite the
// input still contains characters outside [a-z0-9 ]. It is fatal by design;
// the fix is a new explicit rule, not a retry.
var ErrUnclassified = eris.New("normalize: unclassifiable input")

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	validRe      = regexp.MustCompile(`^[a-z0-9 ]+$`)
)

// punctReplacer strips or rewrites the punctuation that appears in
// well-formed bracket data.
var punctReplacer = strings.NewReplacer(
	"'", "",
	"’", "", // unicode right single quote
	"\"", "",
	".", "",
	",", "",
	"`", "",
	"&", "and",
	"-", " ",
)

// fixups are literal substitutions for known-bad upstream data: real typos
// and ambiguous slash-separated names observed in scraped brackets, collapsed
// to one canonical spelling.
var fixups = [...][2]string{
	{"alexander/alejandro", "alejandro"},
	{"matthew/mateo", "mateo"},
	{"vandermeer/vandemeer", "vandermeer"},
	{"kathlene", "kathleen"},
}

// foldAccents decomposes accented Latin characters and drops the combining
// marks (e.g. e-acute to e, n-tilde to n).
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a free-text name into a comparable key. It is pure
// and idempotent. Empty (or whitespace-only) input normalizes to the empty
// string, which the team resolver treats as "unattached". Any residue
// outside [a-z0-9 ] fails with ErrUnclassified carrying both the original and
// the partially-normalized string.
func Normalize(raw string) (string, error) {
	name := strings.ToLower(raw)
	name = collapse(name)
	if name == "" {
		return "", nil
	}

	name = punctReplacer.Replace(name)

	for _, sub := range fixups {
		name = strings.ReplaceAll(name, sub[0], sub[1])
	}
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		return "", eris.Wrapf(err, "normalize: fold accents in %q", raw)
	}
	name = folded

	name = strings.ReplaceAll(name, " (", " ")
	name = strings.ReplaceAll(name, ") ", " ")
	name = strings.TrimPrefix(name, "(")
	name = strings.TrimSuffix(name, ")")

	name = collapse(name)

	if !validRe.MatchString(name) {
		return "", eris.Wrapf(ErrUnclassified, "normalize: raw %q reduced to %q", raw, name)
	}
	return name, nil
}

func collapse(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}
