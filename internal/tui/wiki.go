package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/wiki"
)

const artTypeInterval = 15 * time.Millisecond

// Message types
type stateMsg wiki.State

type artTickMsg struct{}

type randomErrMsg struct{ err error }

type focusSection int

const (
	focusWords focusSection = iota
	focusConcepts
)

// WikiModel is the encyclopedia browser view: search box, streamed
// definition with navigable words, typed-on text art, and the
// analogue list.
type WikiModel struct {
	ctrl    *wiki.Controller
	updates chan wiki.State
	state   wiki.State

	input        textinput.Model
	inputFocused bool

	words        []string
	selectedWord int

	selectedConcept int
	focus           focusSection

	// art typing effect (cosmetic)
	artRunes []rune
	artTyped int

	randomErr string

	width  int
	height int
}

// NewWikiModel wires the browser view to a controller. The controller
// publishes every state change onto updates; the model drains it via
// a listen command.
func NewWikiModel(ctrl *wiki.Controller, updates chan wiki.State) WikiModel {
	ti := textinput.New()
	ti.Placeholder = "Search the infinite encyclopedia..."
	ti.CharLimit = 60
	ti.Width = 44

	return WikiModel{
		ctrl:    ctrl,
		updates: updates,
		input:   ti,
	}
}

// Listen waits for the next controller state snapshot.
func (m WikiModel) Listen() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return stateMsg(<-updates)
	}
}

// SetSize updates the view dimensions.
func (m *WikiModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focused reports whether the search input is capturing keys.
func (m WikiModel) Focused() bool {
	return m.inputFocused
}

func artTick() tea.Cmd {
	return tea.Tick(artTypeInterval, func(time.Time) tea.Msg {
		return artTickMsg{}
	})
}

func (m WikiModel) Update(msg tea.Msg) (WikiModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		prevArt := string(m.artRunes)
		m.state = wiki.State(msg)
		m.randomErr = ""

		if m.state.DefinitionStatus == wiki.StatusDone {
			m.words = wiki.Tokenize(m.state.Definition)
			if m.selectedWord >= len(m.words) {
				m.selectedWord = 0
			}
		} else {
			m.words = nil
			m.selectedWord = 0
		}
		if m.selectedConcept >= len(m.state.Concepts) {
			m.selectedConcept = 0
		}

		cmds := []tea.Cmd{m.Listen()}
		if m.state.ArtStatus == wiki.StatusDone && m.state.Art.Art != prevArt {
			// Type the art onto the screen character by character.
			m.artRunes = []rune(m.state.Art.Art)
			m.artTyped = 0
			cmds = append(cmds, artTick())
		}
		return m, tea.Batch(cmds...)

	case artTickMsg:
		if m.artTyped < len(m.artRunes) {
			m.artTyped += 2
			if m.artTyped > len(m.artRunes) {
				m.artTyped = len(m.artRunes)
			}
			return m, artTick()
		}
		return m, nil

	case randomErrMsg:
		if msg.err != nil {
			m.randomErr = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if m.inputFocused {
			return m.updateFocused(msg)
		}
		return m.updateBlurred(msg)
	}

	return m, nil
}

func (m WikiModel) updateFocused(msg tea.KeyMsg) (WikiModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		topic := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.inputFocused = false
		if topic == "" || wiki.SameTopic(topic, m.state.Topic) {
			return m, nil
		}
		m.ctrl.SetTopic(context.Background(), topic)
		return m, nil
	case "esc":
		m.input.Blur()
		m.inputFocused = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m WikiModel) updateBlurred(msg tea.KeyMsg) (WikiModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.input.SetValue("")
		m.input.Focus()
		m.inputFocused = true
		return m, textinput.Blink
	case "r":
		ctrl := m.ctrl
		return m, func() tea.Msg {
			return randomErrMsg{err: ctrl.RandomTopic(context.Background())}
		}
	case "left", "h":
		if len(m.words) > 0 {
			m.focus = focusWords
			m.selectedWord--
			if m.selectedWord < 0 {
				m.selectedWord = len(m.words) - 1
			}
		}
		return m, nil
	case "right", "l":
		if len(m.words) > 0 {
			m.focus = focusWords
			m.selectedWord++
			if m.selectedWord >= len(m.words) {
				m.selectedWord = 0
			}
		}
		return m, nil
	case "up", "k":
		if len(m.state.Concepts) > 0 {
			m.focus = focusConcepts
			m.selectedConcept--
			if m.selectedConcept < 0 {
				m.selectedConcept = len(m.state.Concepts) - 1
			}
		}
		return m, nil
	case "down", "j":
		if len(m.state.Concepts) > 0 {
			m.focus = focusConcepts
			m.selectedConcept++
			if m.selectedConcept >= len(m.state.Concepts) {
				m.selectedConcept = 0
			}
		}
		return m, nil
	case "enter":
		switch m.focus {
		case focusConcepts:
			if m.selectedConcept < len(m.state.Concepts) {
				m.ctrl.LookupWord(context.Background(), m.state.Concepts[m.selectedConcept].Term)
			}
		default:
			if m.selectedWord < len(m.words) {
				m.ctrl.LookupWord(context.Background(), m.words[m.selectedWord])
			}
		}
		return m, nil
	}

	return m, nil
}

func (m WikiModel) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.randomErr != "" {
		b.WriteString(errorStyle.Render(m.randomErr))
		b.WriteString("\n\n")
	}

	if m.state.Topic == "" {
		b.WriteString(helpStyle.Render("Press / to search or r for a random topic."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(topicStyle.Render(m.state.Topic))
	if m.state.DefinitionStatus == wiki.StatusDone && m.state.Elapsed > 0 {
		b.WriteString("  ")
		b.WriteString(elapsedStyle.Render(fmt.Sprintf("streamed in %.2fs", m.state.Elapsed.Seconds())))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderDefinition())
	b.WriteString("\n")

	b.WriteString(m.renderArt())
	b.WriteString(m.renderConcepts())

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: search • r: random • ←/→: words • ↑/↓: echoes • enter: look up"))
	b.WriteString("\n")

	return b.String()
}

func (m WikiModel) contentWidth() int {
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return width
}

func (m WikiModel) renderDefinition() string {
	switch m.state.DefinitionStatus {
	case wiki.StatusLoading:
		if m.state.Definition == "" {
			return loadingStyle.Render("consulting the archive...") + "\n"
		}
		text := wordWrap(m.state.Definition, m.contentWidth())
		return definitionStyle.Render(text) + cursorStyle.Render("▌") + "\n"
	case wiki.StatusError:
		return errorStyle.Render(m.state.DefinitionErr) + "\n"
	case wiki.StatusDone:
		return m.renderNavigableWords() + "\n"
	}
	return ""
}

// renderNavigableWords lays the definition out token by token so the
// selected word can carry a highlight, wrapping on plain widths.
func (m WikiModel) renderNavigableWords() string {
	width := m.contentWidth()

	var b strings.Builder
	lineWidth := 0
	for i, word := range m.words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+w+1 > width {
			b.WriteString("\n")
			lineWidth = 0
		} else if lineWidth > 0 {
			b.WriteString(" ")
			lineWidth++
		}
		if i == m.selectedWord && m.focus == focusWords {
			b.WriteString(selectedWordStyle.Render(word))
		} else {
			b.WriteString(definitionStyle.Render(word))
		}
		lineWidth += w
	}
	return b.String()
}

func (m WikiModel) renderArt() string {
	switch m.state.ArtStatus {
	case wiki.StatusLoading:
		return loadingStyle.Render("sketching...") + "\n"
	case wiki.StatusDone:
		if len(m.artRunes) == 0 {
			return ""
		}
		shown := string(m.artRunes[:m.artTyped])
		return artStyle.Render(shown) + "\n"
	}
	return ""
}

func (m WikiModel) renderConcepts() string {
	// Failed analogue fetches leave the list empty; the section is
	// simply not drawn.
	if m.state.ConceptsStatus != wiki.StatusDone || len(m.state.Concepts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(clusterStyle.Render("Cross-cultural echoes"))
	b.WriteString("\n")
	for i, concept := range m.state.Concepts {
		line := concept.Term + " " + cultureStyle.Render("("+concept.Culture+")")
		if i == m.selectedConcept && m.focus == focusConcepts {
			b.WriteString(conceptSelectedStyle.Render(concept.Term) + " " + cultureStyle.Render("("+concept.Culture+")"))
		} else {
			b.WriteString(conceptStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}
