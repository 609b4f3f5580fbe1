package address

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fixed renderings for particular words, wherever they appear.
var titleExceptions = map[string]string{
	"st":  "St.",
	"st.": "St.",
}

// Particles kept lower-case unless they start the phrase.
var lowercaseParticles = map[string]bool{
	"de": true, "la": true, "van": true, "von": true, "der": true, "den": true, "le": true,
	"du": true, "da": true, "dos": true, "das": true, "el": true, "al": true, "bin": true, "ibn": true,
}

// TitleCase capitalizes place and county names: "mcdonough" -> "McDonough",
// "o'neill" -> "O'Neill", "winston-salem" -> "Winston-Salem",
// "port st lucie" -> "Port St. Lucie". Spacing and separators are kept.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	wordIndex := 0
	last := 0
	emit := func(tok string) {
		for i, part := range strings.Split(tok, "'") {
			if i > 0 {
				b.WriteByte('\'')
			}
			if part == "" {
				continue
			}
			b.WriteString(capitalizeWord(part, wordIndex == 0))
			wordIndex++
		}
	}

	for _, sep := range titleSeparators.FindAllStringIndex(s, -1) {
		emit(s[last:sep[0]])
		b.WriteString(s[sep[0]:sep[1]])
		last = sep[1]
	}
	emit(s[last:])
	return b.String()
}

func capitalizeWord(w string, first bool) string {
	lw := strings.ToLower(w)
	if v, ok := titleExceptions[lw]; ok {
		return v
	}
	if !first && lowercaseParticles[lw] {
		return lw
	}
	if rest, ok := strings.CutPrefix(lw, "mc"); ok && rest != "" {
		return "Mc" + upperFirst(rest)
	}
	// "MacArthur" but not "Macon" or "Machen".
	if rest, ok := strings.CutPrefix(lw, "mac"); ok && utf8.RuneCountInString(rest) >= 4 {
		return "Mac" + upperFirst(rest)
	}
	return upperFirst(lw)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
