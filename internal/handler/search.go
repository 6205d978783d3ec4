package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

// SearchHandler runs phonosemantic motif searches.
type SearchHandler struct {
	gateway *gateway.Gateway
}

func NewSearchHandler(gw *gateway.Gateway) *SearchHandler {
	return &SearchHandler{gateway: gw}
}

type SearchRequest struct {
	Position  string   `json:"position"`
	Languages []string `json:"languages"`
	Fuzzy     bool     `json:"fuzzy"`
}

// Phonosemantic searches for the motif across languages under the
// requested filters. An empty result list is a legitimate answer and
// is returned as-is.
func (h *SearchHandler) Phonosemantic(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search filters"})
		return
	}

	if req.Position == "" {
		req.Position = model.PositionAny
	}
	if !model.ValidPosition(req.Position) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position must be one of any, initial, medial, final"})
		return
	}

	results, err := h.gateway.PhonosemanticSearch(c.Request.Context(), model.SearchFilters{
		Position:  req.Position,
		Languages: req.Languages,
		Fuzzy:     req.Fuzzy,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
