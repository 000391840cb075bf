package classifier

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// whatlangByCode maps ISO-639-1 hint codes to whatlanggo languages for
// whitelist construction. whatlanggo identifies languages by ISO-639-3
// internally, so the mapping is explicit.
var whatlangByCode = map[string]whatlanggo.Lang{
	"en": whatlanggo.Eng,
	"es": whatlanggo.Spa,
	"fr": whatlanggo.Fra,
	"de": whatlanggo.Deu,
	"it": whatlanggo.Ita,
	"pt": whatlanggo.Por,
	"nl": whatlanggo.Nld,
	"ru": whatlanggo.Rus,
	"uk": whatlanggo.Ukr,
	"zh": whatlanggo.Cmn,
	"ja": whatlanggo.Jpn,
	"ko": whatlanggo.Kor,
	"ar": whatlanggo.Arb,
	"hi": whatlanggo.Hin,
	"ur": whatlanggo.Urd,
	"bn": whatlanggo.Ben,
	"tr": whatlanggo.Tur,
	"vi": whatlanggo.Vie,
	"fa": whatlanggo.Pes,
	"he": whatlanggo.Heb,
	"el": whatlanggo.Ell,
	"th": whatlanggo.Tha,
	"pl": whatlanggo.Pol,
	"sv": whatlanggo.Swe,
	"da": whatlanggo.Dan,
	"fi": whatlanggo.Fin,
	"hu": whatlanggo.Hun,
	"cs": whatlanggo.Ces,
	"ro": whatlanggo.Ron,
	"id": whatlanggo.Ind,
	"ta": whatlanggo.Tam,
	"te": whatlanggo.Tel,
	"mr": whatlanggo.Mar,
	"pa": whatlanggo.Pan,
	"gu": whatlanggo.Guj,
}

// WhatlangClassifier is the secondary tier: a compact trigram detector with
// low latency and a small memory footprint. It serves as the primary engine
// in resource-constrained deployments and as the fallback when the
// statistical tier errors out.
type WhatlangClassifier struct{}

// NewWhatlangClassifier creates the lightweight classifier tier.
func NewWhatlangClassifier() *WhatlangClassifier { return &WhatlangClassifier{} }

// Name identifies this tier in logs and fallback bookkeeping.
func (c *WhatlangClassifier) Name() string { return "whatlang" }

// Classify detects the language of word, restricted to the hint set when
// one is given.
func (c *WhatlangClassifier) Classify(word string, hint []string) (string, float64, error) {
	var info whatlanggo.Info
	if whitelist := whatlangWhitelist(hint); whitelist != nil {
		info = whatlanggo.DetectWithOptions(word, whatlanggo.Options{Whitelist: whitelist})
	} else {
		info = whatlanggo.Detect(word)
	}
	if info.Lang == -1 {
		return "", 0, ErrNoMatch
	}
	code := strings.ToLower(info.Lang.Iso6391())
	if code == "" {
		return "", 0, ErrNoMatch
	}
	return code, info.Confidence, nil
}

func whatlangWhitelist(hint []string) map[whatlanggo.Lang]bool {
	if len(hint) == 0 {
		return nil
	}
	whitelist := make(map[whatlanggo.Lang]bool, len(hint))
	for _, code := range hint {
		if lang, ok := whatlangByCode[strings.ToLower(code)]; ok {
			whitelist[lang] = true
		}
	}
	if len(whitelist) == 0 {
		return nil
	}
	return whitelist
}
