package resolver

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// honorifics is the closed list of leading title tokens stripped during
// normalization. Only the first occurrence is removed.
var honorifics = []string{
	"sr", "sra", "dr", "dra",
	"deputado", "deputada",
	"senador", "senadora",
	"presidente",
}

var (
	// Trailing party/state suffixes like "- PT-CE", "/PSD-BA" or "(PT - SP)".
	partyStateSuffixRe = regexp.MustCompile(`\s*[-/]\s*[A-Z]{2,}\s*-\s*[A-Z]{2}\s*\)?\s*$`)
	partyStateParenRe  = regexp.MustCompile(`(?i)\s*\((?:Bloco|Partido|\w+/)?([A-Z]+)\s*-\s*([A-Z]{2})\)\s*$`)

	punctRe      = regexp.MustCompile(`[.,;:!?()"\\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize reduces a raw name to its comparable key form: party/state
// suffix and leading honorific stripped, accents folded, lowercased,
// punctuation removed, whitespace collapsed. It returns "" when the result
// has fewer than 2 characters, which callers treat as a failed
// normalization (the raw name is then used verbatim).
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = strings.TrimSpace(partyStateSuffixRe.ReplaceAllString(name, ""))
	name = strings.TrimSpace(partyStateParenRe.ReplaceAllString(name, ""))
	name = stripHonorific(name)

	if folded, _, err := transform.String(accentFolder, name); err == nil {
		name = folded
	}
	name = strings.ToLower(name)
	name = punctRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))

	if utf8.RuneCountInString(name) < 2 {
		return ""
	}
	return name
}

// stripHonorific removes the first leading honorific token, optionally
// followed by a period, when the token is followed by more text. A leading
// "O "/"A " article is peeled off first so transcript forms like
// "O SR. JOÃO" reduce the same way "SR. JOÃO" does.
func stripHonorific(name string) string {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "o ") || strings.HasPrefix(lower, "a ") {
		trimmed := strings.TrimSpace(name[2:])
		trimmedLower := strings.ToLower(trimmed)
		for _, title := range honorifics {
			if strings.HasPrefix(trimmedLower, title+" ") || strings.HasPrefix(trimmedLower, title+".") {
				name = trimmed
				lower = trimmedLower
				break
			}
		}
	}
	for _, title := range honorifics {
		rest := ""
		if strings.HasPrefix(lower, title+" ") {
			rest = name[len(title)+1:]
		} else if strings.HasPrefix(lower, title+".") {
			rest = name[len(title)+1:]
		}
		if rest != "" {
			return strings.TrimSpace(strings.TrimPrefix(rest, "."))
		}
	}
	return name
}
