package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
)

// TopicHandler serves the three per-topic concerns of the wiki view:
// the streamed definition, the text art, and the cultural analogues.
type TopicHandler struct {
	gateway *gateway.Gateway
}

func NewTopicHandler(gw *gateway.Gateway) *TopicHandler {
	return &TopicHandler{gateway: gw}
}

// StreamDefinition streams definition fragments as server-sent
// events: "fragment" events in receipt order, then a terminal "end"
// event carrying the elapsed milliseconds, or an "error" event.
func (h *TopicHandler) StreamDefinition(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	start := time.Now()
	fragments, errc := h.gateway.StreamDefinition(c.Request.Context(), topic)

	c.Stream(func(w io.Writer) bool {
		fragment, ok := <-fragments
		if !ok {
			if err := <-errc; err != nil {
				c.SSEvent("error", err.Error())
			} else {
				c.SSEvent("end", fmt.Sprintf("%d", time.Since(start).Milliseconds()))
			}
			return false
		}
		c.SSEvent("fragment", fragment)
		return true
	})
}

// GetArt returns the text art for a topic.
func (h *TopicHandler) GetArt(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	art, err := h.gateway.GenerateTextArt(c.Request.Context(), topic)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, art)
}

// GetConcepts returns 3-5 cross-cultural analogues for a topic.
func (h *TopicHandler) GetConcepts(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	concepts, err := h.gateway.CrossCulturalConcepts(c.Request.Context(), topic)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, concepts)
}

// RandomWord returns a single fresh topic.
func (h *TopicHandler) RandomWord(c *gin.Context) {
	word, err := h.gateway.RandomWord(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"word": word})
}
