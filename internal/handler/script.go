package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
)

// ScriptHandler looks up the native-script form of a word.
type ScriptHandler struct {
	gateway *gateway.Gateway
}

func NewScriptHandler(gw *gateway.Gateway) *ScriptHandler {
	return &ScriptHandler{gateway: gw}
}

// Get returns script, romanization, IPA, and a usage note for a
// word/language pair.
func (h *ScriptHandler) Get(c *gin.Context) {
	word := c.Query("word")
	language := c.Query("language")
	if word == "" || language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word and language are required"})
		return
	}

	result, err := h.gateway.ScriptForWord(c.Request.Context(), word, language)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
