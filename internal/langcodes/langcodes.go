// Package langcodes is the single source of truth for translating between
// human-readable language names ("Spanish") and ISO-639-1 style codes ("es").
// All boundary normalization of user-declared and engine-reported languages
// goes through this package.
package langcodes

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Unknown is the code used for words and texts whose language could not be
// determined with sufficient confidence.
const Unknown = "unknown"

// nameToCode maps lowercase human-readable names to ISO-639-1 codes.
var nameToCode = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"hindi":      "hi",
	"mandarin":   "zh",
	"chinese":    "zh",
	"french":     "fr",
	"arabic":     "ar",
	"portuguese": "pt",
	"russian":    "ru",
	"japanese":   "ja",
	"german":     "de",
	"korean":     "ko",
	"italian":    "it",
	"dutch":      "nl",
	"swedish":    "sv",
	"norwegian":  "no",
	"tagalog":    "tl",
	"urdu":       "ur",
	"bengali":    "bn",
	"vietnamese": "vi",
	"turkish":    "tr",
	"polish":     "pl",
	"ukrainian":  "uk",
	"czech":      "cs",
	"greek":      "el",
	"hebrew":     "he",
	"thai":       "th",
	"romanian":   "ro",
	"hungarian":  "hu",
	"finnish":    "fi",
	"bulgarian":  "bg",
	"croatian":   "hr",
	"slovak":     "sk",
	"lithuanian": "lt",
	"latvian":    "lv",
	"estonian":   "et",
	"slovenian":  "sl",
	"macedonian": "mk",
	"albanian":   "sq",
	"serbian":    "sr",
	"bosnian":    "bs",
	"maltese":    "mt",
	"persian":    "fa",
	"farsi":      "fa",
	"indonesian": "id",
	"danish":     "da",
	"catalan":    "ca",
	"basque":     "eu",
	"welsh":      "cy",
	"irish":      "ga",
	"icelandic":  "is",
	"swahili":    "sw",
	"punjabi":    "pa",
	"tamil":      "ta",
	"telugu":     "te",
	"marathi":    "mr",
	"gujarati":   "gu",
}

// ToCode normalizes a language given either as a human-readable name or as a
// code. Unrecognized two-letter inputs are passed through lowercased so that
// codes outside the table still round-trip; anything else maps to Unknown.
func ToCode(lang string) string {
	s := strings.ToLower(strings.TrimSpace(lang))
	if s == "" || s == Unknown {
		return Unknown
	}
	if code, ok := nameToCode[s]; ok {
		return code
	}
	if tag, err := language.Parse(s); err == nil {
		if base, conf := tag.Base(); conf >= language.High {
			return base.String()
		}
	}
	if len(s) == 2 {
		return s
	}
	return Unknown
}

// ToName returns the English display name for a code ("es" -> "Spanish").
// Codes that cannot be parsed are returned uppercased, matching the
// behavior of the detection workers this replaces.
func ToName(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" || c == Unknown {
		return "Unknown"
	}
	tag, err := language.Parse(c)
	if err != nil {
		return strings.ToUpper(c)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(c)
	}
	return name
}

// NativeName returns the self name of the language ("es" -> "español").
func NativeName(code string) string {
	tag, err := language.Parse(strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}

// NormalizeSet converts a user-declared language list into a deduplicated
// set of lowercase ISO codes. Unknown entries are dropped.
func NormalizeSet(langs []string) map[string]bool {
	set := make(map[string]bool, len(langs))
	for _, l := range langs {
		if code := ToCode(l); code != Unknown {
			set[code] = true
		}
	}
	return set
}

// NormalizeList converts a user-declared language list into sorted,
// deduplicated lowercase ISO codes. Sorting makes the result usable as a
// cache key component: ["Spanish","English"] and ["English","Spanish"]
// normalize identically.
func NormalizeList(langs []string) []string {
	set := NormalizeSet(langs)
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Supported returns the table of languages the lexicon and name mapping
// know about, sorted by code.
func Supported() []SupportedLanguage {
	seen := make(map[string]bool, len(nameToCode))
	out := make([]SupportedLanguage, 0, len(nameToCode))
	for _, code := range nameToCode {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, SupportedLanguage{
			Code:       code,
			Name:       ToName(code),
			NativeName: NativeName(code),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// SupportedLanguage describes one entry of the supported-language table.
type SupportedLanguage struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}
