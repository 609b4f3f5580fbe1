// Package address pulls city, state, zip and county out of free-form US
// street addresses and normalizes their casing.
package address

import (
	"regexp"
	"sort"
	"strings"
)

var stateNameToAbbr = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR", "california": "CA",
	"colorado": "CO", "connecticut": "CT", "delaware": "DE", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS", "missouri": "MO",
	"montana": "MT", "nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC",
}

var (
	trailingAbbrRe  = regexp.MustCompile(`,\s*([A-Za-z]{2})(?:\s+\d{5}(?:-\d{4})?)?$`)
	trailingNameRe  = regexp.MustCompile(`,\s*([A-Za-z ]+?)\s*(?:\d{5}(?:-\d{4})?)?$`)
	anyAbbrRe       = regexp.MustCompile(`(?i)\b(` + strings.Join(stateAbbrs(), "|") + `)\b`)
	cityStateZipRe  = regexp.MustCompile(`,\s*([^,]+),\s*([A-Za-z]{2}|[A-Za-z ]+)\s*(\d{5}(?:-\d{4})?)?$`)
	zipRe           = regexp.MustCompile(`(\d{5}(?:-\d{4})?)`)
	countyRe        = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s\-']+?)\s+County\b`)
	countyWordRe    = regexp.MustCompile(`(?i)\bcounty\b`)
	countyAbbrRe    = regexp.MustCompile(`(?i)\s+co\.?$`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	twoLetterRe     = regexp.MustCompile(`^[A-Za-z]{2}$`)
	fiveDigitZipRe  = regexp.MustCompile(`^\d{5}$`)
	titleSeparators = regexp.MustCompile(`[\s\-/]+`)
)

func stateAbbrs() []string {
	abbrs := make([]string, 0, len(stateNameToAbbr))
	for _, a := range stateNameToAbbr {
		abbrs = append(abbrs, a)
	}
	sort.Strings(abbrs)
	return abbrs
}

// Parsed is everything ParseAddress could infer. Empty fields were not found.
type Parsed struct {
	City   string
	State  string
	Zip    string
	County string
}

// ParseAddress runs every parser over address and normalizes the results the
// way they are stored.
func ParseAddress(address string) Parsed {
	city, zip := ParseCityZip(address)
	state, _ := ParseState(address)
	county, _ := ParseCounty(address)
	return Parsed{
		City:   TitleCase(city),
		State:  NormalizeStateAbbr(state),
		Zip:    zip,
		County: TitleCase(NormalizeCounty(county)),
	}
}

// ParseState finds the state in an address: a two-letter code at the end
// (optionally followed by a zip), then a full state name there, then any
// standalone state code.
func ParseState(address string) (string, bool) {
	txt := strings.TrimSpace(address)
	if txt == "" {
		return "", false
	}

	if m := trailingAbbrRe.FindStringSubmatch(txt); m != nil {
		return strings.ToUpper(m[1]), true
	}

	if m := trailingNameRe.FindStringSubmatch(txt); m != nil {
		name := strings.TrimSpace(strings.ToLower(m[1]))
		if abbr, ok := stateNameToAbbr[name]; ok {
			return abbr, true
		}
		tokens := strings.Fields(name)
		if len(tokens) >= 2 {
			if abbr, ok := stateNameToAbbr[strings.Join(tokens[len(tokens)-2:], " ")]; ok {
				return abbr, true
			}
		}
		if len(tokens) >= 1 {
			if abbr, ok := stateNameToAbbr[tokens[len(tokens)-1]]; ok {
				return abbr, true
			}
		}
	}

	if m := anyAbbrRe.FindStringSubmatch(txt); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// ParseCityZip reads "..., City, ST 12345". When that shape is missing only
// the first zip-like number is returned.
func ParseCityZip(address string) (city, zip string) {
	if m := cityStateZipRe.FindStringSubmatch(address); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[3])
	}
	if m := zipRe.FindStringSubmatch(address); m != nil {
		return "", m[1]
	}
	return "", ""
}

// ParseCounty returns the words before "County", e.g. "Coweta" from
// "..., Coweta County, GA".
func ParseCounty(address string) (string, bool) {
	m := countyRe.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// NormalizeCounty strips a "County" word or trailing "Co." and collapses
// whitespace.
func NormalizeCounty(name string) string {
	s := strings.TrimSpace(name)
	s = countyWordRe.ReplaceAllString(s, "")
	s = countyAbbrRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeStateAbbr turns a state code or full name into the upper-case
// two-letter code. Unknown input is upper-cased as is.
func NormalizeStateAbbr(s string) string {
	t := strings.TrimSpace(s)
	if twoLetterRe.MatchString(t) {
		return strings.ToUpper(t)
	}
	if abbr, ok := stateNameToAbbr[strings.ToLower(t)]; ok {
		return abbr
	}
	return strings.ToUpper(t)
}

func IsValidStateAbbr(s string) bool {
	return twoLetterRe.MatchString(strings.TrimSpace(s))
}

func IsValidZip(z string) bool {
	return fiveDigitZipRe.MatchString(strings.TrimSpace(z))
}
