package model

// TextArt is a stylized text rendering of a topic. Text carries the
// caption the model chose to letter, when it differs from the topic.
type TextArt struct {
	Art  string `json:"art"`
	Text string `json:"text,omitempty"`
}

// CulturalConcept is a cross-cultural analogue of the current topic.
type CulturalConcept struct {
	Term    string `json:"term"`
	Culture string `json:"culture"`
}

// PhonosemanticResult is one attested word carrying the searched motif.
type PhonosemanticResult struct {
	Language        string   `json:"language"`
	Script          string   `json:"script"`
	Lemma           string   `json:"lemma"`
	Romanization    string   `json:"romanization"`
	IPA             string   `json:"IPA"`
	Gloss           string   `json:"gloss"`
	Etymology       string   `json:"etymology"`
	SourceURL       string   `json:"source_url"`
	CulturalTags    []string `json:"cultural_tags"`
	SemanticCluster string   `json:"semantic_cluster"`
}

// ScriptResult is the native-script rendering of a word in one language.
type ScriptResult struct {
	Script       string `json:"script"`
	Romanization string `json:"romanization"`
	IPA          string `json:"ipa"`
	Note         string `json:"note"`
}

// Motif positions accepted by the phonosemantic search.
const (
	PositionAny     = "any"
	PositionInitial = "initial"
	PositionMedial  = "medial"
	PositionFinal   = "final"
)

// SearchFilters narrows a phonosemantic motif search.
type SearchFilters struct {
	Position  string   `json:"position"`
	Languages []string `json:"languages"`
	Fuzzy     bool     `json:"fuzzy"`
}

// ValidPosition reports whether p is one of the accepted motif positions.
func ValidPosition(p string) bool {
	switch p {
	case PositionAny, PositionInitial, PositionMedial, PositionFinal:
		return true
	}
	return false
}
