package structure

// Config aggregates the tuning for every pipeline stage. The numeric values
// are empirically tuned against common report/paper layouts and are not
// derived from first principles; callers overriding them own the results.
type Config struct {
	Splitter  SplitterConfig
	Joiner    JoinerConfig
	Artifact  ArtifactConfig
	Heading   HeadingConfig
	TocBib    TocBibConfig
	Author    AuthorConfig
	Citation  CitationConfig
	PageClass PageClassConfig
}

// DefaultConfig returns the tuned default configuration.
func DefaultConfig() Config {
	return Config{
		Splitter:  DefaultSplitterConfig(),
		Joiner:    DefaultJoinerConfig(),
		Artifact:  DefaultArtifactConfig(),
		Heading:   DefaultHeadingConfig(),
		TocBib:    DefaultTocBibConfig(),
		Author:    DefaultAuthorConfig(),
		Citation:  DefaultCitationConfig(),
		PageClass: DefaultPageClassConfig(),
	}
}

// SplitterConfig tunes the font-boundary block splitter.
type SplitterConfig struct {
	MinScriptFontSize float64 // lines below this size are super/subscript noise
	FontSizeDelta     float64 // size change that forces a boundary
	GapHeightRatio    float64 // vertical gap, in line heights, that forces a boundary
	IndentShiftPt     float64 // absolute rightward shift that forces a boundary
	IndentShiftRatio  float64 // rightward shift relative to line width
	CaptionGapRatio   float64 // minimum gap, in line heights, before a caption prefix
}

// DefaultSplitterConfig returns the tuned splitter defaults.
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		MinScriptFontSize: 7.0,
		FontSizeDelta:     1.5,
		GapHeightRatio:    1.5,
		IndentShiftPt:     30.0,
		IndentShiftRatio:  0.20,
		CaptionGapRatio:   0.5,
	}
}

// JoinerConfig tunes the paragraph joiner.
type JoinerConfig struct {
	RowOverlapRatio    float64 // Y-overlap of the smaller height meaning "same visual row"
	FullWidthRatio     float64 // line width ratio of the block max meaning "full width"
	GapHeightRatio     float64 // vertical gap, in line heights, forcing a paragraph break
	FontSizeBreakDelta float64 // size change forcing a paragraph break
	IndentBreakRatio   float64 // indent, relative to block width, forcing a break
	FragmentGapRatio   float64 // same-row X gap, in font sizes, treated as a mid-word split
	ShortLineRunes     int     // lines at most this long count as "short" for weight flips
}

// DefaultJoinerConfig returns the tuned joiner defaults.
func DefaultJoinerConfig() JoinerConfig {
	return JoinerConfig{
		RowOverlapRatio:    0.5,
		FullWidthRatio:     0.85,
		GapHeightRatio:     1.5,
		FontSizeBreakDelta: 2.0,
		IndentBreakRatio:   0.10,
		FragmentGapRatio:   0.2,
		ShortLineRunes:     50,
	}
}

// ArtifactConfig tunes header/footer/page-number detection.
type ArtifactConfig struct {
	PageNumberMaxLen int     // maximum text length for a page-number block
	HeaderZoneRatio  float64 // top fraction of the page treated as header zone
	FooterZoneRatio  float64 // bottom fraction of the page treated as footer zone
	MinRepeatRatio   float64 // fraction of pages a pattern must appear on
	MinRepeatCount   int     // absolute floor for pattern occurrences
	MaxYDrift        float64 // maximum distance of an occurrence from the group mean Y
}

// DefaultArtifactConfig returns the tuned artifact defaults.
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		PageNumberMaxLen: 15,
		HeaderZoneRatio:  0.12,
		FooterZoneRatio:  0.18,
		MinRepeatRatio:   0.45,
		MinRepeatCount:   2,
		MaxYDrift:        20.0,
	}
}

// HeadingConfig tunes both heading detection stages.
type HeadingConfig struct {
	// Stage 1 score weights.
	NumberedScore     float64 // leading section-number pattern
	KeywordScore      float64 // bare structural keyword
	LargeFontScore    float64 // font-size ratio at or above LargeFontRatio
	ModerateFontScore float64 // font-size ratio at or above ModerateFontRatio
	BoldScore         float64
	ItalicScore       float64
	LargeGapScore     float64 // gap above LargeGapRatio line heights
	ModerateGapScore  float64 // gap above ModerateGapRatio line heights
	ShortTextScore    float64 // text shorter than ShortTextRunes
	OutlineMatchScore float64 // positional match to a supplied outline entry

	LargeFontRatio    float64
	ModerateFontRatio float64
	LargeGapRatio     float64
	ModerateGapRatio  float64
	ShortTextRunes    int

	AcceptScore   float64 // minimum stage-1 total
	MaxTitleRunes int     // candidates longer than this are rejected outright

	// Stage 2 confirmation.
	MinSequenceLen   int     // same-type-and-font run length required to confirm
	ClusterSuppress  int     // heading cluster size treated as TOC/bibliography leakage
	HeadClusterRatio float64 // leading fraction of the document checked for clusters
	TailClusterRatio float64 // trailing fraction of the document checked for clusters
}

// DefaultHeadingConfig returns the tuned heading defaults.
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		NumberedScore:     30,
		KeywordScore:      25,
		LargeFontScore:    25,
		ModerateFontScore: 15,
		BoldScore:         20,
		ItalicScore:       10,
		LargeGapScore:     20,
		ModerateGapScore:  10,
		ShortTextScore:    5,
		OutlineMatchScore: 20,
		LargeFontRatio:    1.3,
		ModerateFontRatio: 1.1,
		LargeGapRatio:     2.0,
		ModerateGapRatio:  1.5,
		ShortTextRunes:    100,
		AcceptScore:       40,
		MaxTitleRunes:     200,
		MinSequenceLen:    2,
		ClusterSuppress:   10,
		HeadClusterRatio:  0.15,
		TailClusterRatio:  0.20,
	}
}

// TocBibConfig tunes the TOC/bibliography density-blob detector.
type TocBibConfig struct {
	AcceptWithHeader    float64 // blob score threshold when a lexical header was found
	AcceptWithoutHeader float64 // blob score threshold without a header
	SingleParagraph     float64 // fallback threshold for one isolated paragraph
	SearchTailRatio     float64 // trailing fraction of the document searched without a header
	MinRegionChars      int     // minimum accepted region length when no header was found
}

// DefaultTocBibConfig returns the tuned TOC/bibliography defaults.
func DefaultTocBibConfig() TocBibConfig {
	return TocBibConfig{
		AcceptWithHeader:    0.35,
		AcceptWithoutHeader: 0.45,
		SingleParagraph:     0.5,
		SearchTailRatio:     0.55,
		MinRegionChars:      120,
	}
}

// AuthorConfig tunes the author-block detector.
type AuthorConfig struct {
	HeadRatio        float64 // leading fraction of the document that is scanned
	AcceptConfidence float64 // minimum confidence to accept a block
}

// DefaultAuthorConfig returns the tuned author defaults.
func DefaultAuthorConfig() AuthorConfig {
	return AuthorConfig{
		HeadRatio:        0.15,
		AcceptConfidence: 0.45,
	}
}

// CitationConfig tunes reference/URL/email and superscript detection.
type CitationConfig struct {
	SuperscriptSizeRatio float64 // span size below this fraction of the block dominant size
	MaxSuperscriptRunes  int     // accepted superscript spans at most this long
}

// DefaultCitationConfig returns the tuned citation defaults.
func DefaultCitationConfig() CitationConfig {
	return CitationConfig{
		SuperscriptSizeRatio: 0.78,
		MaxSuperscriptRunes:  20,
	}
}

// PageClassConfig tunes the per-page anomaly/caption/footnote classifier.
type PageClassConfig struct {
	ColumnMinBlockRatio float64 // fraction of blocks an X position needs to count as a column
	ColumnBinWidth      float64 // X positions within this distance share a column
	FarColumnDistance   float64 // distance from the nearest column scoring the large weight
	NearColumnDistance  float64 // distance from the nearest column scoring the small weight
	ShortBlockRunes     int     // blocks shorter than this score as anomalous
	LongBlockRunes      int     // blocks longer than this score against anomaly
	AcceptScore         float64 // minimum anomaly score
	FootnoteFontRatio   float64 // block font below this fraction of the page average
	FootnoteZoneRatio   float64 // bottom fraction of the page for footnotes
	LabelClusterCount   int     // short-block cluster size implying figure labels
	LabelMaxRunes       int     // maximum length of a figure-label block
	ClusterMergeGap     int     // plain characters between clusters that still merge
}

// DefaultPageClassConfig returns the tuned classifier defaults.
func DefaultPageClassConfig() PageClassConfig {
	return PageClassConfig{
		ColumnMinBlockRatio: 0.30,
		ColumnBinWidth:      10.0,
		FarColumnDistance:   80.0,
		NearColumnDistance:  40.0,
		ShortBlockRunes:     100,
		LongBlockRunes:      200,
		AcceptScore:         4,
		FootnoteFontRatio:   0.85,
		FootnoteZoneRatio:   0.25,
		LabelClusterCount:   4,
		LabelMaxRunes:       60,
		ClusterMergeGap:     100,
	}
}
