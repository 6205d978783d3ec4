package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

// fakeGenerator scripts the model's answers. JSON responses are
// consumed in order so retry behavior can be observed.
type fakeGenerator struct {
	unconfigured bool

	generateResponse string
	generateErr      error

	jsonResponses []string
	jsonErrs      []error
	jsonCalls     int

	streamFragments []string
	streamErr       error
}

func (f *fakeGenerator) Configured() bool { return !f.unconfigured }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.generateResponse, f.generateErr
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	i := f.jsonCalls
	f.jsonCalls++
	var resp string
	var err error
	if i < len(f.jsonResponses) {
		resp = f.jsonResponses[i]
	}
	if i < len(f.jsonErrs) {
		err = f.jsonErrs[i]
	}
	return resp, err
}

func (f *fakeGenerator) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	fragments := make(chan string, len(f.streamFragments)+1)
	errc := make(chan error, 1)
	for _, fr := range f.streamFragments {
		fragments <- fr
	}
	if f.streamErr != nil {
		errc <- f.streamErr
	}
	close(fragments)
	close(errc)
	return fragments, errc
}

func collect(fragments <-chan string) []string {
	var got []string
	for f := range fragments {
		got = append(got, f)
	}
	return got
}

func TestStreamDefinition(t *testing.T) {
	t.Run("forwards fragments in order", func(t *testing.T) {
		gen := &fakeGenerator{streamFragments: []string{"The ", "sun ", "is a star."}}
		gw := New(gen, time.Minute)

		fragments, errc := gw.StreamDefinition(context.Background(), "sun")
		assert.Equal(t, []string{"The ", "sun ", "is a star."}, collect(fragments))
		assert.NoError(t, <-errc)
	})

	t.Run("missing key fails before streaming", func(t *testing.T) {
		gen := &fakeGenerator{unconfigured: true}
		gw := New(gen, time.Minute)

		fragments, errc := gw.StreamDefinition(context.Background(), "sun")
		got := collect(fragments)
		require.Len(t, got, 1)
		assert.Contains(t, got[0], "Error: ")
		assert.ErrorIs(t, <-errc, llm.ErrMissingAPIKey)
	})

	t.Run("mid-stream error yields error fragment", func(t *testing.T) {
		gen := &fakeGenerator{
			streamFragments: []string{"partial "},
			streamErr:       errors.New("connection reset"),
		}
		gw := New(gen, time.Minute)

		fragments, errc := gw.StreamDefinition(context.Background(), "sun")
		got := collect(fragments)
		require.Len(t, got, 2)
		assert.Equal(t, "partial ", got[0])
		assert.Contains(t, got[1], "Error: ")
		assert.Contains(t, got[1], "connection reset")

		err := <-errc
		require.Error(t, err)
		assert.Contains(t, err.Error(), "definition stream failed")
	})
}

func TestRandomWord(t *testing.T) {
	t.Run("trims to a single bare word", func(t *testing.T) {
		gen := &fakeGenerator{generateResponse: `"Petrichor."` + " is my suggestion"}
		gw := New(gen, time.Minute)

		word, err := gw.RandomWord(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Petrichor", word)
	})

	t.Run("empty answer is an error, no retry", func(t *testing.T) {
		gen := &fakeGenerator{generateResponse: "   "}
		gw := New(gen, time.Minute)

		_, err := gw.RandomWord(context.Background())
		assert.Error(t, err)
	})

	t.Run("missing key propagates", func(t *testing.T) {
		gen := &fakeGenerator{generateErr: llm.ErrMissingAPIKey}
		gw := New(gen, time.Minute)

		_, err := gw.RandomWord(context.Background())
		assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	})
}

func TestGenerateTextArt(t *testing.T) {
	t.Run("unwraps fenced payload", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			"```json\n{\"art\": \"☀☀☀\", \"text\": \"sun\"}\n```",
		}}
		gw := New(gen, time.Minute)

		art, err := gw.GenerateTextArt(context.Background(), "sun")
		require.NoError(t, err)
		assert.Equal(t, "☀☀☀", art.Art)
		assert.Equal(t, "sun", art.Text)
		assert.Equal(t, 1, gen.jsonCalls)
	})

	t.Run("retries exactly once on malformed payload", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`not json at all`,
			`{"art": "▲", "text": "mountain"}`,
		}}
		gw := New(gen, time.Minute)

		art, err := gw.GenerateTextArt(context.Background(), "mountain")
		require.NoError(t, err)
		assert.Equal(t, "▲", art.Art)
		assert.Equal(t, 2, gen.jsonCalls)
	})

	t.Run("empty art field counts as a failure", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"art": "  ", "text": "sun"}`,
			`{"art": "", "text": "sun"}`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.GenerateTextArt(context.Background(), "sun")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, 2, gen.jsonCalls)
	})

	t.Run("array payload is rejected", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`["not", "an", "object"]`,
			`["still", "not"]`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.GenerateTextArt(context.Background(), "sun")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("results are cached per topic", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"art": "☀", "text": "sun"}`,
		}}
		gw := New(gen, time.Minute)

		first, err := gw.GenerateTextArt(context.Background(), "Sun")
		require.NoError(t, err)
		second, err := gw.GenerateTextArt(context.Background(), "sun")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, gen.jsonCalls)
	})
}

func TestCrossCulturalConcepts(t *testing.T) {
	t.Run("parses array payload", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`[{"term": "Sol", "culture": "Norse"}, {"term": "Amaterasu", "culture": "Japanese"}]`,
		}}
		gw := New(gen, time.Minute)

		concepts, err := gw.CrossCulturalConcepts(context.Background(), "sun")
		require.NoError(t, err)
		require.Len(t, concepts, 2)
		assert.Equal(t, "Sol", concepts[0].Term)
		assert.Equal(t, "Japanese", concepts[1].Culture)
	})

	t.Run("object payload is rejected without retry", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"term": "Sol", "culture": "Norse"}`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.CrossCulturalConcepts(context.Background(), "sun")
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, 1, gen.jsonCalls)
	})

	t.Run("results are cached per topic", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`[{"term": "Sol", "culture": "Norse"}]`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.CrossCulturalConcepts(context.Background(), "sun")
		require.NoError(t, err)
		_, err = gw.CrossCulturalConcepts(context.Background(), "SUN")
		require.NoError(t, err)
		assert.Equal(t, 1, gen.jsonCalls)
	})
}

func TestPhonosemanticSearch(t *testing.T) {
	filters := model.SearchFilters{Position: model.PositionAny}

	t.Run("parses results envelope", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"results": [{"language": "Norwegian", "lemma": "ha-ha", "semantic_cluster": "laughter"}]}`,
		}}
		gw := New(gen, time.Minute)

		results, err := gw.PhonosemanticSearch(context.Background(), filters)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Norwegian", results[0].Language)
		assert.Equal(t, "laughter", results[0].SemanticCluster)
	})

	t.Run("empty results array is a legitimate no-match", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{`{"results": []}`}}
		gw := New(gen, time.Minute)

		results, err := gw.PhonosemanticSearch(context.Background(), filters)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("missing results key is malformed", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{`{"matches": []}`}}
		gw := New(gen, time.Minute)

		_, err := gw.PhonosemanticSearch(context.Background(), filters)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-array results is malformed", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{`{"results": "none"}`}}
		gw := New(gen, time.Minute)

		_, err := gw.PhonosemanticSearch(context.Background(), filters)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestScriptForWord(t *testing.T) {
	t.Run("parses script record", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"script": "太陽", "romanization": "taiyō", "IPA": "taijoː", "note": "common noun"}`,
		}}
		gw := New(gen, time.Minute)

		result, err := gw.ScriptForWord(context.Background(), "sun", "Japanese")
		require.NoError(t, err)
		assert.Equal(t, "太陽", result.Script)
		assert.Equal(t, "taiyō", result.Romanization)
	})

	t.Run("empty script means no representation", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"script": "", "romanization": "", "IPA": ""}`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.ScriptForWord(context.Background(), "blorp", "Japanese")
		assert.ErrorIs(t, err, ErrNoScript)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-json payload is malformed", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{`no dice`}}
		gw := New(gen, time.Minute)

		_, err := gw.ScriptForWord(context.Background(), "sun", "Japanese")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("results are cached per word and language", func(t *testing.T) {
		gen := &fakeGenerator{jsonResponses: []string{
			`{"script": "सूर्य", "romanization": "sūrya", "IPA": "suːrjɐ"}`,
		}}
		gw := New(gen, time.Minute)

		_, err := gw.ScriptForWord(context.Background(), "sun", "Hindi")
		require.NoError(t, err)
		_, err = gw.ScriptForWord(context.Background(), "Sun", "hindi")
		require.NoError(t, err)
		assert.Equal(t, 1, gen.jsonCalls)
	})
}

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "word", firstWord(`"word."`))
	assert.Equal(t, "word", firstWord("  word extra trailing"))
	assert.Equal(t, "", firstWord("   "))
}
