package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

type scriptResultMsg struct {
	result model.ScriptResult
	err    error
}

// ScribeModel is the script-lookup view: a word/language form that
// returns native script, romanization, and IPA.
type ScribeModel struct {
	gateway *gateway.Gateway

	word     textinput.Model
	language textinput.Model
	field    int // 0 = word, 1 = language
	editing  bool

	loading  bool
	result   *model.ScriptResult
	noScript bool
	err      string

	width  int
	height int
}

func NewScribeModel(gw *gateway.Gateway) ScribeModel {
	word := textinput.New()
	word.Placeholder = "word"
	word.CharLimit = 60
	word.Width = 32

	language := textinput.New()
	language.Placeholder = "language (e.g. Japanese)"
	language.CharLimit = 60
	language.Width = 32

	return ScribeModel{
		gateway:  gw,
		word:     word,
		language: language,
	}
}

func (m *ScribeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m ScribeModel) Focused() bool {
	return m.editing
}

func (m ScribeModel) lookup() tea.Cmd {
	gw := m.gateway
	word := strings.TrimSpace(m.word.Value())
	language := strings.TrimSpace(m.language.Value())
	return func() tea.Msg {
		result, err := gw.ScriptForWord(context.Background(), word, language)
		return scriptResultMsg{result: result, err: err}
	}
}

func (m ScribeModel) Update(msg tea.Msg) (ScribeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scriptResultMsg:
		m.loading = false
		m.result = nil
		m.noScript = false
		m.err = ""
		switch {
		case errors.Is(msg.err, gateway.ErrNoScript):
			m.noScript = true
		case msg.err != nil:
			m.err = msg.err.Error()
		default:
			r := msg.result
			m.result = &r
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "/", "i":
			m.editing = true
			return m, m.focusField()
		case "enter":
			return m.submit()
		}
	}

	return m, nil
}

func (m ScribeModel) updateEditing(msg tea.KeyMsg) (ScribeModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.word.Blur()
		m.language.Blur()
		return m, nil
	case "tab", "shift+tab":
		m.field = 1 - m.field
		return m, m.focusField()
	case "enter":
		if m.field == 0 {
			m.field = 1
			return m, m.focusField()
		}
		m.editing = false
		m.word.Blur()
		m.language.Blur()
		return m.submit()
	}

	var cmd tea.Cmd
	if m.field == 0 {
		m.word, cmd = m.word.Update(msg)
	} else {
		m.language, cmd = m.language.Update(msg)
	}
	return m, cmd
}

func (m *ScribeModel) focusField() tea.Cmd {
	if m.field == 0 {
		m.language.Blur()
		m.word.Focus()
	} else {
		m.word.Blur()
		m.language.Focus()
	}
	return textinput.Blink
}

func (m ScribeModel) submit() (ScribeModel, tea.Cmd) {
	if strings.TrimSpace(m.word.Value()) == "" || strings.TrimSpace(m.language.Value()) == "" {
		m.err = "both word and language are required"
		return m, nil
	}
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.err = ""
	m.noScript = false
	m.result = nil
	return m, m.lookup()
}

func (m ScribeModel) View() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Word"))
	b.WriteString(m.word.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Language"))
	b.WriteString(m.language.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render("consulting the scribe..."))
		b.WriteString("\n")
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	case m.noScript:
		b.WriteString(helpStyle.Render("No native-script representation found for that pair."))
		b.WriteString("\n")
	case m.result != nil:
		var card strings.Builder
		card.WriteString(labelStyle.Render("Script") + topicStyle.Render(m.result.Script) + "\n")
		card.WriteString(labelStyle.Render("Romanization") + valueStyle.Render(m.result.Romanization) + "\n")
		card.WriteString(labelStyle.Render("IPA") + valueStyle.Render(m.result.IPA))
		if m.result.Note != "" {
			card.WriteString("\n" + labelStyle.Render("Note") + cultureStyle.Render(m.result.Note))
		}
		b.WriteString(boxStyle.Render(card.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: edit fields • tab: switch field • enter: look up"))
	b.WriteString("\n")

	return b.String()
}
