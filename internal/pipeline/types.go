package pipeline

// Quality assessment values attached to analysis results. Downstream
// consumers use these to distinguish genuine analysis from degraded or
// degenerate fallbacks.
const (
	QualityUnknown     = "unknown"      // engine gave no assessment
	QualityCalibrated  = "calibrated"   // primary engine with calibration
	QualityELDFallback = "eld_fallback" // lightweight fallback engine
	QualityMockResult  = "mock_result"  // degenerate last-resort result
	QualityEmptyText   = "empty_text"   // defined fast path for blank input
)

// Token is one word of the analyzed text with its assigned language.
// Tokens are immutable once produced; their slice index is the index that
// switch points and phrase boundaries refer to.
type Token struct {
	Word       string  `json:"word"`
	Language   string  `json:"languageCode"`
	Confidence float64 `json:"confidence"`
}

// Phrase is a maximal run of consecutive tokens sharing one language.
// Phrases partition the token sequence with no gaps or overlaps.
type Phrase struct {
	Words          []string `json:"words"`
	Text           string   `json:"text"`
	Language       string   `json:"language"`
	Confidence     float64  `json:"confidence"`
	StartIndex     int      `json:"startIndex"`
	EndIndex       int      `json:"endIndex"`
	IsUserLanguage bool     `json:"isUserLanguage"`
}

// AnalysisResult is the aggregate output of one analysis request. It is
// never mutated after construction; cached results are shared read-only.
type AnalysisResult struct {
	Tokens               []Token  `json:"tokens"`
	Phrases              []Phrase `json:"phrases"`
	SwitchPoints         []int    `json:"switchPoints"`
	Confidence           float64  `json:"confidence"`
	CalibratedConfidence float64  `json:"calibratedConfidence"`
	ReliabilityScore     float64  `json:"reliabilityScore"`
	QualityAssessment    string   `json:"qualityAssessment"`
	CalibrationMethod    string   `json:"calibrationMethod"`
	UserLanguageMatch    bool     `json:"userLanguageMatch"`
	DetectedLanguages    []string `json:"detectedLanguages"`
	ProcessingTimeMs     float64  `json:"processingTimeMs"`
	CacheHit             bool     `json:"cacheHit"`
	PerformanceMode      string   `json:"performanceMode,omitempty"`
	Engine               string   `json:"engine,omitempty"`
}
