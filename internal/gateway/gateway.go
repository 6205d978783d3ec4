// Package gateway exposes the six content operations of the
// encyclopedia: streamed definitions, random topics, text art,
// cross-cultural analogues, phonosemantic motif search, and script
// lookups. It owns prompt construction, response validation, and
// error normalization; callers never see raw model output.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

// ErrMalformedResponse marks a response that arrived but failed shape
// or content validation, as opposed to a transport failure.
var ErrMalformedResponse = errors.New("malformed model response")

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}

// ErrNoScript is reported when the target language has no written
// representation for the requested word.
var ErrNoScript = errors.New("no written representation found")

// Generator is the slice of the LLM client the gateway consumes.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}

type Gateway struct {
	client Generator
	cache  *gocache.Cache
}

// New creates a gateway. Art, analogue, and script results are
// memoized in-process for cacheTTL; nothing is persisted.
func New(client Generator, cacheTTL time.Duration) *Gateway {
	return &Gateway{
		client: client,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// cacheKey builds a "kind:word:qualifier" key, lowercased, in the
// style of word:language keys.
func cacheKey(kind string, parts ...string) string {
	key := kind
	for _, p := range parts {
		key += ":" + strings.ToLower(strings.TrimSpace(p))
	}
	return key
}

// StreamDefinition produces a lazy, finite sequence of definition
// fragments for the topic. On any failure it yields one
// "Error: "-prefixed fragment and then delivers the error, so callers
// can distinguish a missing credential from a mid-stream fault. The
// sequence cannot be restarted.
func (g *Gateway) StreamDefinition(ctx context.Context, topic string) (<-chan string, <-chan error) {
	fragments := make(chan string, 64)
	errc := make(chan error, 1)

	if !g.client.Configured() {
		err := fmt.Errorf("definition stream failed: %w", llm.ErrMissingAPIKey)
		fragments <- "Error: " + llm.ErrMissingAPIKey.Error()
		errc <- err
		close(fragments)
		close(errc)
		observe("definition", time.Now(), err)
		return fragments, errc
	}

	start := time.Now()
	upstream, upstreamErr := g.client.Stream(ctx, llm.BuildDefinitionPrompt(topic))

	go func() {
		defer close(fragments)
		defer close(errc)

		for fragment := range upstream {
			fragments <- fragment
		}
		if err := <-upstreamErr; err != nil {
			err = fmt.Errorf("definition stream failed: %w", err)
			log.Printf("gateway: %v", err)
			fragments <- "Error: " + err.Error()
			errc <- err
			observe("definition", start, err)
			return
		}
		observe("definition", start, nil)
	}()

	return fragments, errc
}

// RandomWord asks the model for a fresh topic. Single request, no
// retry.
func (g *Gateway) RandomWord(ctx context.Context) (string, error) {
	start := time.Now()
	raw, err := g.client.Generate(ctx, llm.RandomWordPrompt)
	if err != nil {
		err = fmt.Errorf("random word failed: %w", err)
		log.Printf("gateway: %v", err)
		observe("random_word", start, err)
		return "", err
	}

	word := firstWord(raw)
	if word == "" {
		err = fmt.Errorf("random word failed: model returned no word")
		log.Printf("gateway: %v (raw %q)", err, raw)
		observe("random_word", start, err)
		return "", err
	}
	observe("random_word", start, nil)
	return word, nil
}

// GenerateTextArt requests stylized text art for the topic. The
// payload must be a JSON object with a non-empty string "art" field;
// any failure is retried exactly once before the error surfaces.
func (g *Gateway) GenerateTextArt(ctx context.Context, topic string) (model.TextArt, error) {
	key := cacheKey("art", topic)
	if hit, ok := g.cache.Get(key); ok {
		return hit.(model.TextArt), nil
	}

	start := time.Now()
	art, err := g.textArtOnce(ctx, topic)
	if err != nil {
		log.Printf("gateway: text art attempt for %q failed, retrying once: %v", topic, err)
		art, err = g.textArtOnce(ctx, topic)
	}
	if err != nil {
		err = fmt.Errorf("art generation failed: %w", err)
		log.Printf("gateway: %v", err)
		observe("text_art", start, err)
		return model.TextArt{}, err
	}

	g.cache.SetDefault(key, art)
	observe("text_art", start, nil)
	return art, nil
}

func (g *Gateway) textArtOnce(ctx context.Context, topic string) (model.TextArt, error) {
	raw, err := g.client.GenerateJSON(ctx, llm.BuildTextArtPrompt(topic))
	if err != nil {
		return model.TextArt{}, err
	}

	jsonStr, err := llm.ExtractJSON(raw)
	if err != nil {
		return model.TextArt{}, malformed(err)
	}
	if !strings.HasPrefix(jsonStr, "{") {
		return model.TextArt{}, malformed(fmt.Errorf("payload is not a JSON object"))
	}

	var art model.TextArt
	if err := json.Unmarshal([]byte(jsonStr), &art); err != nil {
		return model.TextArt{}, malformed(fmt.Errorf("payload does not match art shape: %v", err))
	}
	if strings.TrimSpace(art.Art) == "" {
		return model.TextArt{}, malformed(fmt.Errorf("art field is empty"))
	}
	return art, nil
}

// CrossCulturalConcepts fetches 3-5 analogues of the topic from other
// cultures. The payload must be a JSON array.
func (g *Gateway) CrossCulturalConcepts(ctx context.Context, topic string) ([]model.CulturalConcept, error) {
	key := cacheKey("concepts", topic)
	if hit, ok := g.cache.Get(key); ok {
		return hit.([]model.CulturalConcept), nil
	}

	start := time.Now()
	raw, err := g.client.GenerateJSON(ctx, llm.BuildCulturalConceptsPrompt(topic))
	if err != nil {
		err = fmt.Errorf("cultural concepts failed: %w", err)
		log.Printf("gateway: %v", err)
		observe("concepts", start, err)
		return nil, err
	}

	concepts, err := parseConcepts(raw)
	if err != nil {
		err = fmt.Errorf("cultural concepts failed: %w", malformed(err))
		log.Printf("gateway: %v (raw %q)", err, raw)
		observe("concepts", start, err)
		return nil, err
	}

	g.cache.SetDefault(key, concepts)
	observe("concepts", start, nil)
	return concepts, nil
}

func parseConcepts(raw string) ([]model.CulturalConcept, error) {
	jsonStr, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(jsonStr, "[") {
		return nil, fmt.Errorf("payload is not a JSON array")
	}
	var concepts []model.CulturalConcept
	if err := json.Unmarshal([]byte(jsonStr), &concepts); err != nil {
		return nil, fmt.Errorf("payload does not match concept shape: %w", err)
	}
	return concepts, nil
}

// PhonosemanticSearch runs the motif search described by the filters.
// The payload must be a JSON object with a "results" array; a present
// but empty array is a legitimate no-match answer and passes through
// untouched.
func (g *Gateway) PhonosemanticSearch(ctx context.Context, filters model.SearchFilters) ([]model.PhonosemanticResult, error) {
	start := time.Now()
	raw, err := g.client.GenerateJSON(ctx, llm.BuildPhonosemanticPrompt(filters))
	if err != nil {
		err = fmt.Errorf("phonosemantic search failed: %w", err)
		log.Printf("gateway: %v", err)
		observe("phonosemantic", start, err)
		return nil, err
	}

	results, err := parsePhonosemanticResults(raw)
	if err != nil {
		err = fmt.Errorf("phonosemantic search failed: %w", malformed(err))
		log.Printf("gateway: %v (raw %q)", err, raw)
		observe("phonosemantic", start, err)
		return nil, err
	}
	observe("phonosemantic", start, nil)
	return results, nil
}

func parsePhonosemanticResults(raw string) ([]model.PhonosemanticResult, error) {
	jsonStr, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	rawResults, ok := envelope["results"]
	if !ok {
		return nil, fmt.Errorf("payload has no results array")
	}

	var results []model.PhonosemanticResult
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return nil, fmt.Errorf("results is not an array of result records: %w", err)
	}
	if results == nil {
		results = []model.PhonosemanticResult{}
	}
	return results, nil
}

// ScriptForWord fetches the native-script form of a word in the given
// language. An empty "script" field means the language has no written
// representation for the word, which is reported as an error.
func (g *Gateway) ScriptForWord(ctx context.Context, word, language string) (model.ScriptResult, error) {
	key := cacheKey("script", word, language)
	if hit, ok := g.cache.Get(key); ok {
		return hit.(model.ScriptResult), nil
	}

	start := time.Now()
	raw, err := g.client.GenerateJSON(ctx, llm.BuildScriptPrompt(word, language))
	if err != nil {
		err = fmt.Errorf("script lookup failed: %w", err)
		log.Printf("gateway: %v", err)
		observe("script", start, err)
		return model.ScriptResult{}, err
	}

	result, err := parseScriptResult(raw)
	if err != nil {
		if !errors.Is(err, ErrNoScript) {
			err = malformed(err)
		}
		err = fmt.Errorf("script lookup failed: %w", err)
		log.Printf("gateway: %v (raw %q)", err, raw)
		observe("script", start, err)
		return model.ScriptResult{}, err
	}

	g.cache.SetDefault(key, result)
	observe("script", start, nil)
	return result, nil
}

func parseScriptResult(raw string) (model.ScriptResult, error) {
	jsonStr, err := llm.ExtractJSON(raw)
	if err != nil {
		return model.ScriptResult{}, err
	}

	var result model.ScriptResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return model.ScriptResult{}, fmt.Errorf("payload does not match script shape: %w", err)
	}
	if strings.TrimSpace(result.Script) == "" {
		return model.ScriptResult{}, ErrNoScript
	}
	return result, nil
}

// firstWord trims the model's answer down to a single bare word.
func firstWord(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,!?\"'`*")
}
