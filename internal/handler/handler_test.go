package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedGenerator fixes the model's answers so handlers can be
// exercised without a network.
type scriptedGenerator struct {
	unconfigured bool
	text         string
	json         string
	fragments    []string
}

func (s *scriptedGenerator) Configured() bool { return !s.unconfigured }

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if s.unconfigured {
		return "", llm.ErrMissingAPIKey
	}
	return s.text, nil
}

func (s *scriptedGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if s.unconfigured {
		return "", llm.ErrMissingAPIKey
	}
	return s.json, nil
}

func (s *scriptedGenerator) Stream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	fragments := make(chan string, len(s.fragments)+1)
	errc := make(chan error, 1)
	for _, f := range s.fragments {
		fragments <- f
	}
	close(fragments)
	close(errc)
	return fragments, errc
}

func newRouter(gen gateway.Generator) *gin.Engine {
	gw := gateway.New(gen, time.Minute)
	topic := NewTopicHandler(gw)
	search := NewSearchHandler(gw)
	script := NewScriptHandler(gw)

	r := gin.New()
	r.GET("/api/topics/:topic/definition", topic.StreamDefinition)
	r.GET("/api/topics/:topic/art", topic.GetArt)
	r.GET("/api/topics/:topic/concepts", topic.GetConcepts)
	r.GET("/api/random-word", topic.RandomWord)
	r.POST("/api/search/phonosemantic", search.Phonosemantic)
	r.GET("/api/script", script.Get)
	return r
}

// closeNotifyRecorder adds the http.CloseNotifier method gin's Stream
// requires, which httptest.ResponseRecorder lacks.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return c.closed }

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(&closeNotifyRecorder{ResponseRecorder: w, closed: make(chan bool, 1)}, req)
	return w
}

func TestStreamDefinitionSSE(t *testing.T) {
	r := newRouter(&scriptedGenerator{fragments: []string{"The sun ", "is a star."}})

	w := doRequest(r, "GET", "/api/topics/sun/definition", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, "event:fragment")
	assert.Contains(t, body, "The sun ")
	assert.Contains(t, body, "is a star.")
	assert.Contains(t, body, "event:end")

	// Fragments arrive in receipt order.
	assert.Less(t, strings.Index(body, "The sun "), strings.Index(body, "is a star."))
}

func TestStreamDefinitionMissingKey(t *testing.T) {
	r := newRouter(&scriptedGenerator{unconfigured: true})

	w := doRequest(r, "GET", "/api/topics/sun/definition", "")
	body := w.Body.String()
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "GEMINI_API_KEY")
}

func TestGetArt(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"art": "☀", "text": "sun"}`})
		w := doRequest(r, "GET", "/api/topics/sun/art", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "☀")
	})

	t.Run("malformed payload maps to 502", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `nonsense`})
		w := doRequest(r, "GET", "/api/topics/sun/art", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing key maps to 503", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{unconfigured: true})
		w := doRequest(r, "GET", "/api/topics/sun/art", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetConcepts(t *testing.T) {
	r := newRouter(&scriptedGenerator{json: `[{"term": "Sol", "culture": "Norse"}]`})
	w := doRequest(r, "GET", "/api/topics/sun/concepts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sol")
}

func TestRandomWord(t *testing.T) {
	r := newRouter(&scriptedGenerator{text: "petrichor"})
	w := doRequest(r, "GET", "/api/random-word", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"word": "petrichor"}`, w.Body.String())
}

func TestPhonosemantic(t *testing.T) {
	t.Run("ok with defaulted position", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"results": [{"language": "Thai", "lemma": "555"}]}`})
		w := doRequest(r, "POST", "/api/search/phonosemantic", `{"fuzzy": true}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thai")
	})

	t.Run("empty results pass through", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"results": []}`})
		w := doRequest(r, "POST", "/api/search/phonosemantic", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results": []}`, w.Body.String())
	})

	t.Run("invalid position is rejected", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{})
		w := doRequest(r, "POST", "/api/search/phonosemantic", `{"position": "sideways"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing results key maps to 502", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"matches": []}`})
		w := doRequest(r, "POST", "/api/search/phonosemantic", `{}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestScript(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"script": "太陽", "romanization": "taiyō", "IPA": "taijoː"}`})
		w := doRequest(r, "GET", "/api/script?word=sun&language=Japanese", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "taiy")
	})

	t.Run("missing params is rejected", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{})
		w := doRequest(r, "GET", "/api/script?word=sun", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no representation maps to 404", func(t *testing.T) {
		r := newRouter(&scriptedGenerator{json: `{"script": ""}`})
		w := doRequest(r, "GET", "/api/script?word=blorp&language=Elvish", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
