package llm

import (
	"fmt"
	"strings"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

// DefinitionPrompt streams the encyclopedia entry for a topic. Plain
// text, not JSON: fragments are concatenated by the consumer.
const DefinitionPrompt = `Write a single concise encyclopedia definition of "%s".

RULES:
1. One paragraph, 60-100 words, information-dense
2. Neutral reference-work register, no second person
3. Every significant noun or verb you use should itself be a viable
   encyclopedia topic, because readers can select any word in your
   answer to look it up
4. No preamble, no markdown, no headings - output the paragraph only`

// RandomWordPrompt picks a fresh topic. Plain text, single word.
const RandomWordPrompt = `Give me one single interesting English word suitable as an encyclopedia topic.

RULES:
1. A concrete or evocative noun is best (e.g. "labyrinth", "monsoon", "ember")
2. Avoid proper names and technical jargon
3. Respond with ONLY the word itself: no punctuation, no explanation`

// TextArtPrompt requests stylized text art for a topic.
const TextArtPrompt = `Create expressive ASCII text art representing "%s".

RULES:
1. The art should evoke the concept visually, 4-10 lines tall, at most 60 columns wide
2. Use only printable ASCII characters
3. Newlines inside the art must be encoded as \n in the JSON string

You must respond ONLY with a valid JSON object, no other text before or after. Do not include any markdown formatting or code blocks.

{
  "art": "the ASCII art with \n line breaks",
  "text": "the word or short caption the art depicts (optional)"
}`

// CulturalConceptsPrompt requests cross-cultural analogues of a topic.
const CulturalConceptsPrompt = `List cross-cultural analogues of the concept "%s": terms from other cultures or languages that name the same or a closely related idea.

RULES:
1. Return between 3 and 5 entries
2. "term" is the concept's name in its own culture, in its common romanized spelling
3. "culture" names the culture or language community the term belongs to (e.g. "Japanese", "Yoruba", "Norse")
4. Prefer well-attested concepts over inventions; never fabricate a term
5. Do not include the original term "%s" itself

You must respond ONLY with a valid JSON array, no other text before or after. Do not include any markdown formatting or code blocks.

[
  {"term": "the analogous term", "culture": "its culture"}
]`

// ScriptPrompt requests the native-script form of a word in a target
// language.
const ScriptPrompt = `Write the word "%s" in %s.

RULES:
1. "script" is the word in the native writing system of %s. If the language has no distinct representation for this word, use an empty string
2. "romanization" is the standard Latin transliteration (empty if the script is already Latin)
3. "ipa" is the IPA pronunciation without enclosing slashes
4. "note" is one short sentence on usage, register, or literal meaning

You must respond ONLY with a valid JSON object, no other text before or after. Do not include any markdown formatting or code blocks.

{
  "script": "the word in native script",
  "romanization": "latin transliteration",
  "ipa": "IPA pronunciation",
  "note": "one-sentence note"
}`

// BuildDefinitionPrompt fills the definition prompt for a topic.
func BuildDefinitionPrompt(topic string) string {
	return fmt.Sprintf(DefinitionPrompt, topic)
}

// BuildTextArtPrompt fills the text art prompt for a topic.
func BuildTextArtPrompt(topic string) string {
	return fmt.Sprintf(TextArtPrompt, topic)
}

// BuildCulturalConceptsPrompt fills the analogue prompt for a topic.
func BuildCulturalConceptsPrompt(topic string) string {
	return fmt.Sprintf(CulturalConceptsPrompt, topic, topic)
}

// BuildScriptPrompt fills the script prompt for a word/language pair.
func BuildScriptPrompt(word, language string) string {
	return fmt.Sprintf(ScriptPrompt, word, language, language)
}

// BuildPhonosemanticPrompt assembles the rule-laden motif search
// prompt from the user's filters. The motif is the "HA" breath sound
// and, when fuzzy matching is on, its neighbors.
func BuildPhonosemanticPrompt(filters model.SearchFilters) string {
	var sb strings.Builder

	sb.WriteString("Search for attested words across world languages that carry the phonetic motif \"HA\"")
	if filters.Fuzzy {
		sb.WriteString(" or a near variant (\"AH\", \"KHA\", \"GHA\", \"HAA\")")
	}
	sb.WriteString(".\n\n")

	sb.WriteString("RULES:\n")
	switch filters.Position {
	case model.PositionInitial:
		sb.WriteString("1. The motif must occur at the START of the word\n")
	case model.PositionMedial:
		sb.WriteString("1. The motif must occur in the MIDDLE of the word, neither first nor last syllable\n")
	case model.PositionFinal:
		sb.WriteString("1. The motif must occur at the END of the word\n")
	default:
		sb.WriteString("1. The motif may occur anywhere in the word\n")
	}
	if len(filters.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("2. Only include words from these languages: %s\n", strings.Join(filters.Languages, ", ")))
	} else {
		sb.WriteString("2. Draw from a wide spread of language families, at least 5 distinct families\n")
	}
	sb.WriteString("3. Only real, attested lemmas. Never invent a word; if unsure, leave it out\n")
	sb.WriteString("4. \"semantic_cluster\" groups words by meaning (e.g. \"breath & spirit\", \"laughter\", \"exclamation\")\n")
	sb.WriteString("5. \"source_url\" points to a dictionary or corpus entry when one exists, otherwise an empty string\n")
	sb.WriteString("6. \"IPA\" is the pronunciation without enclosing slashes\n")
	sb.WriteString("7. Return an empty results array rather than padding with weak matches\n\n")

	sb.WriteString("You must respond ONLY with a valid JSON object, no other text before or after. Do not include any markdown formatting or code blocks.\n\n")
	sb.WriteString(`{
  "results": [
    {
      "language": "language name",
      "script": "word in native script",
      "lemma": "dictionary form",
      "romanization": "latin transliteration",
      "IPA": "pronunciation",
      "gloss": "short English meaning",
      "etymology": "one-line origin",
      "source_url": "reference URL or empty string",
      "cultural_tags": ["tag"],
      "semantic_cluster": "cluster label"
    }
  ]
}`)

	return sb.String()
}
