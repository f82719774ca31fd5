package structure

import (
	"strings"
	"unicode"
)

// AuthorBlock is an accepted author/front-matter block in clean-text
// coordinates, with the confidence that accepted it and the contributing
// signal tags.
type AuthorBlock struct {
	Span       Span
	Confidence float64
	Tags       []string
}

// authorSignals is the evidence one early-document paragraph presents.
type authorSignals struct {
	text           string
	declaredAuthor string
}

// AuthorDetector finds author and front-matter blocks. It only ever looks
// at the first slice of the document; author lines do not appear later.
type AuthorDetector struct {
	cfg   AuthorConfig
	rules []Rule[authorSignals]
}

// NewAuthorDetector creates a detector with the default configuration.
func NewAuthorDetector() *AuthorDetector {
	return NewAuthorDetectorWithConfig(DefaultAuthorConfig())
}

// NewAuthorDetectorWithConfig creates a detector with a custom configuration.
func NewAuthorDetectorWithConfig(cfg AuthorConfig) *AuthorDetector {
	d := &AuthorDetector{cfg: cfg}
	d.rules = []Rule[authorSignals]{
		{Tag: "author_keyword", Weight: 0.20, Match: func(a authorSignals) bool {
			return reAuthorKeyword.MatchString(a.text)
		}},
		{Tag: "by_name", Weight: 0.25, Match: func(a authorSignals) bool {
			return reByName.MatchString(a.text)
		}},
		{Tag: "declared_author", Weight: 0.30, Match: func(a authorSignals) bool {
			return a.declaredAuthor != "" &&
				strings.Contains(strings.ToLower(a.text), strings.ToLower(a.declaredAuthor))
		}},
		{Tag: "initials_density", Weight: 0.15, Match: func(a authorSignals) bool {
			return initialsDensity(a.text) >= 0.08
		}},
		{Tag: "affiliation", Weight: 0.15, Match: func(a authorSignals) bool {
			return reAffiliation.MatchString(a.text)
		}},
		{Tag: "capitalized_ratio", Weight: 0.10, Match: func(a authorSignals) bool {
			return capitalizedWordRatio(a.text) >= 0.6
		}},
		{Tag: "contact_markers", Weight: 0.10, Match: func(a authorSignals) bool {
			return reEmail.MatchString(a.text) || reDOI.MatchString(a.text) ||
				reISxN.MatchString(a.text) || reURL.MatchString(a.text) ||
				reDateFormat.MatchString(a.text)
		}},
		{Tag: "reference_patterns", Weight: 0.10, Match: func(a authorSignals) bool {
			return reSurnameInit.MatchString(a.text) || reEtAl.MatchString(a.text)
		}},
		{Tag: "numbered_citations", Weight: 0.05, Match: func(a authorSignals) bool {
			return reBracketCite.MatchString(a.text)
		}},
		{Tag: "prose_penalty", Weight: -0.20, Match: func(a authorSignals) bool {
			return looksLikeProse(a.text)
		}},
	}
	return d
}

// Detect scores every paragraph in the leading region of the cleaned text
// and returns those at or above the acceptance confidence.
func (d *AuthorDetector) Detect(text, declaredAuthor string) []AuthorBlock {
	limit := int(float64(len(text)) * d.cfg.HeadRatio)
	var out []AuthorBlock
	for _, p := range splitParagraphs(text) {
		if p.span.Start >= limit {
			break
		}
		confidence, tags := evalRules(d.rules, authorSignals{text: p.text, declaredAuthor: strings.TrimSpace(declaredAuthor)})
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		if confidence >= d.cfg.AcceptConfidence {
			out = append(out, AuthorBlock{Span: p.span, Confidence: confidence, Tags: tags})
		}
	}
	return out
}

// initialsDensity returns the fraction of words that are single-letter
// initials ("J." or "J").
func initialsDensity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	initials := 0
	for _, w := range words {
		w = strings.TrimRight(w, ".,")
		if len(w) == 1 && unicode.IsUpper(rune(w[0])) {
			initials++
		}
	}
	return float64(initials) / float64(len(words))
}

// capitalizedWordRatio returns the fraction of words starting uppercase.
func capitalizedWordRatio(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	caps := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			caps++
		}
	}
	return float64(caps) / float64(len(words))
}

// looksLikeProse detects narrative sentence structure: an inline citation
// co-occurring with a narrative verb, or long sentences without any
// reference-entry signal.
func looksLikeProse(text string) bool {
	if reNarrativeVerb.MatchString(text) && (reParenCite.MatchString(text) || reBracketCite.MatchString(text)) {
		return true
	}
	sentences := reSentenceSplit.Split(text, -1)
	longSentences := 0
	for _, s := range sentences {
		if len(strings.Fields(s)) >= 15 {
			longSentences++
		}
	}
	if longSentences >= 2 && !reSurnameInit.MatchString(text) && !reDOI.MatchString(text) {
		return true
	}
	return false
}
