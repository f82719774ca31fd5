package structure

import "regexp"

// Shared lexical patterns. Compiled once; the detectors reference these by
// name rather than re-declaring them inline.
var (
	// Heading starts: section numbers, capitalized words, structural keywords.
	reHeadingStart = regexp.MustCompile(`^(\d+(\.\d+)*[.)]?\s+|[A-Z][a-z]+\b|(?i:chapter|section|part|appendix)\b)`)

	// Heading lexical families used by stage 2.
	reHeadingDecimal = regexp.MustCompile(`^\d+(\.\d+)+[.)]?\s+\S`)
	reHeadingNumeric = regexp.MustCompile(`^\d{1,3}[.)]\s+\S`)
	reHeadingRoman   = regexp.MustCompile(`^(?:X{1,3}(?:I[XV]|V?I{0,3})|I[XV]|V?I{1,3}|V)[.)]\s+\S`)
	reHeadingLetter  = regexp.MustCompile(`^[A-Z][.)]\s+\S`)
	reHeadingNamed   = regexp.MustCompile(`(?i)^(chapter|section|part|appendix)\s+[\divxlc]+\b`)
	reHeadingKeyword = regexp.MustCompile(`(?i)^(abstract|introduction|background|methods?|methodology|results|discussion|conclusions?|summary|acknowledg(e)?ments?|references|bibliography|appendix|glossary|index)\s*$`)

	// List items, following common bullet and enumeration forms.
	reListItem = regexp.MustCompile(`^(\d+[.)]\s|[a-zA-Z][.)]\s|[-*•·●○▪▫◦‣⁃]\s)`)

	// Figure/table/legend prefixes, with and without a trailing delimiter.
	reCaptionDelim  = regexp.MustCompile(`(?i)^(figure|fig\.|table|tab\.|chart|diagram|legend|listing|exhibit)\s*\d+\s*[:.\x{2013}-]`)
	reCaptionPrefix = regexp.MustCompile(`(?i)^(figure|fig\.|table|tab\.|chart|diagram|legend|listing|exhibit)\b`)

	// Page-number layouts for the artifact detector.
	rePageNumBare    = regexp.MustCompile(`^\d{1,4}$`)
	rePageNumRoman   = regexp.MustCompile(`(?i)^[ivxlcdm]{1,8}$`)
	rePageNumWord    = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	rePageNumDashed  = regexp.MustCompile(`^[-–—]\s*\d+\s*[-–—]$`)
	rePageNumBracket = regexp.MustCompile(`^\[\d+\]$`)
	rePageNumSlash   = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	rePageNumPrefix  = regexp.MustCompile(`(?i)^p\.?\s*\d+$`)
	reDigitRun       = regexp.MustCompile(`\d+`)
	reWhitespaceRun  = regexp.MustCompile(`\s+`)

	// Bibliography signals.
	reYear          = regexp.MustCompile(`\(?(1[89]|20)\d{2}[a-z]?\)?`)
	reDOI           = regexp.MustCompile(`(?i)\b(doi\s*:?\s*)?10\.\d{4,9}/[^\s"<>]+`)
	reISxN          = regexp.MustCompile(`(?i)\bis[sb]n[\s:]*[\d–-]{8,17}x?\b`)
	reSurnameInit   = regexp.MustCompile(`\b[A-Z][a-zÀ-ÿ'-]+,\s*(?:[A-Z]\.\s*)+`)
	reInitSurname   = regexp.MustCompile(`\b(?:[A-Z]\.\s*)+[A-Z][a-zÀ-ÿ'-]+\b`)
	reCoAuthors     = regexp.MustCompile(`(?:[A-Z][a-zÀ-ÿ'-]+,?\s+)(?:&|and)\s+[A-Z][a-zÀ-ÿ'-]+`)
	reEtAl          = regexp.MustCompile(`\bet\s+al\.?`)
	reJournalWords  = regexp.MustCompile(`(?i)\b(journal|proceedings|proc\.|conf\.|conference|transactions|trans\.|vol\.|no\.|pp\.|press|ed\.|eds\.|edition)\b`)
	reNumberedEntry = regexp.MustCompile(`(?m)^\s*\[?\d{1,3}[\].)]\s+`)

	// TOC signals: leader dots and entries ending in a page number.
	reTocLeader    = regexp.MustCompile(`\.{3,}\s*\d+\s*$`)
	reTocPageEnd   = regexp.MustCompile(`[a-zA-Z)]\s+\d{1,4}\s*$`)
	reTocHeader    = regexp.MustCompile(`(?i)^(table\s+of\s+contents|contents|inhaltsverzeichnis|sommaire|table\s+des\s+mati[eè]res|[ií]ndice|indice)\s*$`)
	reBibHeader    = regexp.MustCompile(`(?i)^(references|bibliography|works\s+cited|literature\s+cited|literaturverzeichnis|r[eé]f[eé]rences|bibliographie|bibliograf[ií]a|quellen)\s*$`)
	reTocEntryLine = regexp.MustCompile(`(?m)^\s*(\d+(\.\d+)*\.?\s+)?\S.*\d+\s*$`)

	// Citations, cross-references, URLs, emails.
	reSuperscriptUni = regexp.MustCompile(`[\x{2070}\x{00B9}\x{00B2}\x{00B3}\x{2074}-\x{2079}]+`)
	reBracketCite    = regexp.MustCompile(`\[\d{1,3}(\s*[,–-]\s*\d{1,3})*\]`)
	reParenCite      = regexp.MustCompile(`\((?:(?:see|cf\.|e\.g\.,?|i\.e\.,?)\s+)?[A-Z][a-zÀ-ÿ'-]+(?:\s+(?:&|and)\s+[A-Z][a-zÀ-ÿ'-]+|\s+et\s+al\.?)?,?\s+(1[89]|20)\d{2}[a-z]?(?:,\s*p{1,2}\.\s*\d+(?:[–-]\d+)?)?(?:;\s*[A-Z][a-zÀ-ÿ'-]+(?:\s+(?:&|and)\s+[A-Z][a-zÀ-ÿ'-]+|\s+et\s+al\.?)?,?\s+(1[89]|20)\d{2}[a-z]?)*\)`)
	reCrossRef       = regexp.MustCompile(`(?i)\b(figure|fig\.|table|tab\.|equation|eq\.|section|sec\.|chapter|page|p\.|pp\.)\s*\d+(\.\d+)*\b`)
	reURL            = regexp.MustCompile(`(?i)\b(https?://|www\.)[^\s<>"']+[^\s<>"'.,;:!?)]`)
	reEmail          = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	reOrdinalSuffix  = regexp.MustCompile(`(?i)^(st|nd|rd|th)$`)

	// Author-block signals.
	reAuthorKeyword = regexp.MustCompile(`(?i)\b(author|authors|by|correspondence|corresponding\s+author|affiliation|e-?mail)\b`)
	reByName        = regexp.MustCompile(`(?i)\bby\s+[A-Z][a-zÀ-ÿ'-]+(\s+[A-Z][a-zÀ-ÿ'.-]+)+`)
	reAffiliation   = regexp.MustCompile(`(?i)\b(university|institute|department|laboratory|faculty|school\s+of|college|center\s+for|centre\s+for)\b`)
	reDateFormat    = regexp.MustCompile(`(?i)\b(\d{1,2}\s+)?(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	reNarrativeVerb = regexp.MustCompile(`(?i)\b(shows?|showed|demonstrates?|demonstrated|argues?|argued|suggests?|suggested|found|finds|proposes?|proposed|describes?|described|reports?|reported)\b`)

	// Sentence-ending punctuation.
	reSentenceEnd   = regexp.MustCompile(`[.!?…]["')\]]?\s*$`)
	reSentenceSplit = regexp.MustCompile(`[.!?…]\s+`)
)
