// Package wiki holds the state machine behind the encyclopedia
// browser: one topic at a time, three independently loading content
// slices, and superseded-fetch suppression when the topic changes
// mid-flight.
package wiki

import (
	"context"
	"sync"
	"time"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

// Status tracks one content slice through idle -> loading ->
// done | error.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusDone
	StatusError
)

// Fetcher is the slice of the gateway the controller consumes.
type Fetcher interface {
	StreamDefinition(ctx context.Context, topic string) (<-chan string, <-chan error)
	GenerateTextArt(ctx context.Context, topic string) (model.TextArt, error)
	CrossCulturalConcepts(ctx context.Context, topic string) ([]model.CulturalConcept, error)
	RandomWord(ctx context.Context) (string, error)
}

// State is a snapshot of everything the wiki view renders. The three
// content slices load and settle independently.
type State struct {
	Topic string

	Definition       string
	DefinitionStatus Status
	DefinitionErr    string
	Elapsed          time.Duration

	Art         model.TextArt
	ArtStatus   Status
	ArtFallback bool

	Concepts       []model.CulturalConcept
	ConceptsStatus Status
}

// Controller serializes state transitions and discards results from
// superseded fetches. Fetches themselves run concurrently and are not
// cancelled when superseded; their results are simply dropped.
type Controller struct {
	mu         sync.Mutex
	fetcher    Fetcher
	state      State
	generation uint64
	onUpdate   func(State)
}

// NewController creates a controller. onUpdate, when non-nil, fires
// with a state snapshot after every mutation; it must not call back
// into the controller.
func NewController(fetcher Fetcher, onUpdate func(State)) *Controller {
	return &Controller{fetcher: fetcher, onUpdate: onUpdate}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LookupWord cleans a clicked word and navigates to it. Returns false
// without side effects when the cleaned word is empty or already the
// current topic.
func (c *Controller) LookupWord(ctx context.Context, raw string) bool {
	word := CleanWord(raw)
	if word == "" {
		return false
	}
	c.mu.Lock()
	current := c.state.Topic
	c.mu.Unlock()
	if SameTopic(word, current) {
		return false
	}
	c.SetTopic(ctx, word)
	return true
}

// RandomTopic fetches a random word and navigates to it.
func (c *Controller) RandomTopic(ctx context.Context) error {
	word, err := c.fetcher.RandomWord(ctx)
	if err != nil {
		return err
	}
	c.SetTopic(ctx, word)
	return nil
}

// SetTopic clears all prior content and issues the three fetches for
// the new topic concurrently. Any fetch still in flight for an older
// topic keeps running but its results are discarded.
func (c *Controller) SetTopic(ctx context.Context, topic string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = State{
		Topic:            topic,
		DefinitionStatus: StatusLoading,
		ArtStatus:        StatusLoading,
		ConceptsStatus:   StatusLoading,
	}
	snapshot := c.state
	cb := c.onUpdate
	c.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}

	go c.fetchDefinition(ctx, gen, topic)
	go c.fetchArt(ctx, gen, topic)
	go c.fetchConcepts(ctx, gen, topic)
}

func (c *Controller) fetchDefinition(ctx context.Context, gen uint64, topic string) {
	start := time.Now()
	fragments, errc := c.fetcher.StreamDefinition(ctx, topic)

	for fragment := range fragments {
		f := fragment
		c.apply(gen, func(s *State) {
			s.Definition += f
		})
	}

	err := <-errc
	elapsed := time.Since(start)
	c.apply(gen, func(s *State) {
		s.Elapsed = elapsed
		if err != nil {
			s.DefinitionStatus = StatusError
			s.DefinitionErr = err.Error()
			return
		}
		s.DefinitionStatus = StatusDone
	})
}

func (c *Controller) fetchArt(ctx context.Context, gen uint64, topic string) {
	art, err := c.fetcher.GenerateTextArt(ctx, topic)
	c.apply(gen, func(s *State) {
		s.ArtStatus = StatusDone
		if err != nil {
			// Degrade to a locally drawn box, never an error banner.
			s.Art = model.TextArt{Art: FallbackArt(topic), Text: topic}
			s.ArtFallback = true
			return
		}
		s.Art = art
	})
}

func (c *Controller) fetchConcepts(ctx context.Context, gen uint64, topic string) {
	concepts, err := c.fetcher.CrossCulturalConcepts(ctx, topic)
	c.apply(gen, func(s *State) {
		s.ConceptsStatus = StatusDone
		if err != nil {
			// The section is simply hidden when analogues fail.
			s.Concepts = nil
			return
		}
		s.Concepts = concepts
	})
}

// apply runs mutate under the lock, but only if the fetch that
// produced it is still current.
func (c *Controller) apply(gen uint64, mutate func(*State)) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	mutate(&c.state)
	snapshot := c.state
	cb := c.onUpdate
	c.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}
