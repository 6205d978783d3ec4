package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/model"
)

type searchResultMsg struct {
	results []model.PhonosemanticResult
	err     error
}

var positionCycle = []string{
	model.PositionAny,
	model.PositionInitial,
	model.PositionMedial,
	model.PositionFinal,
}

// MinerModel is the phoneme-miner view: a filter form over the "HA"
// motif search, with results grouped by semantic cluster.
type MinerModel struct {
	gateway *gateway.Gateway

	languages    textinput.Model
	inputFocused bool

	position int
	fuzzy    bool

	searching bool
	results   []model.PhonosemanticResult
	selected  int
	err       string

	width  int
	height int
}

func NewMinerModel(gw *gateway.Gateway) MinerModel {
	ti := textinput.New()
	ti.Placeholder = "languages, comma-separated (empty = broad sweep)"
	ti.CharLimit = 120
	ti.Width = 48

	return MinerModel{
		gateway:   gw,
		languages: ti,
	}
}

func (m *MinerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m MinerModel) Focused() bool {
	return m.inputFocused
}

func (m MinerModel) filters() model.SearchFilters {
	var langs []string
	for _, l := range strings.Split(m.languages.Value(), ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return model.SearchFilters{
		Position:  positionCycle[m.position],
		Languages: langs,
		Fuzzy:     m.fuzzy,
	}
}

func (m MinerModel) search() tea.Cmd {
	gw := m.gateway
	filters := m.filters()
	return func() tea.Msg {
		results, err := gw.PhonosemanticSearch(context.Background(), filters)
		return searchResultMsg{results: results, err: err}
	}
}

func (m MinerModel) Update(msg tea.Msg) (MinerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		m.searching = false
		m.selected = 0
		if msg.err != nil {
			m.err = msg.err.Error()
			m.results = nil
		} else {
			m.err = ""
			m.results = msg.results
		}
		return m, nil

	case tea.KeyMsg:
		if m.inputFocused {
			switch msg.String() {
			case "enter", "esc":
				m.languages.Blur()
				m.inputFocused = false
				return m, nil
			}
			var cmd tea.Cmd
			m.languages, cmd = m.languages.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/":
			m.languages.Focus()
			m.inputFocused = true
			return m, textinput.Blink
		case "p":
			m.position = (m.position + 1) % len(positionCycle)
			return m, nil
		case "f":
			m.fuzzy = !m.fuzzy
			return m, nil
		case "enter":
			if m.searching {
				return m, nil
			}
			m.searching = true
			m.err = ""
			return m, m.search()
		case "up", "k":
			if len(m.results) > 0 {
				m.selected--
				if m.selected < 0 {
					m.selected = len(m.results) - 1
				}
			}
			return m, nil
		case "down", "j":
			if len(m.results) > 0 {
				m.selected = (m.selected + 1) % len(m.results)
			}
			return m, nil
		}
	}

	return m, nil
}

func (m MinerModel) View() string {
	var b strings.Builder

	fuzzy := "off"
	if m.fuzzy {
		fuzzy = "on"
	}
	b.WriteString(labelStyle.Render("Motif"))
	b.WriteString(valueStyle.Render("HA / AH"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Position"))
	b.WriteString(valueStyle.Render(positionCycle[m.position]))
	b.WriteString(helpStyle.Render("  (p to cycle)"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Fuzzy"))
	b.WriteString(valueStyle.Render(fuzzy))
	b.WriteString(helpStyle.Render("  (f to toggle)"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Languages"))
	b.WriteString(m.languages.View())
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(loadingStyle.Render("mining phonemes across languages..."))
		b.WriteString("\n")
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	case m.results != nil:
		b.WriteString(m.renderResults())
	default:
		b.WriteString(helpStyle.Render("Press enter to search."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: languages • p: position • f: fuzzy • enter: search • ↑/↓: results"))
	b.WriteString("\n")

	return b.String()
}

// renderResults groups hits by semantic cluster, keeping each
// cluster's entries in the order the model returned them.
func (m MinerModel) renderResults() string {
	if len(m.results) == 0 {
		return helpStyle.Render("No matches under these filters.") + "\n"
	}

	groups := make(map[string][]int)
	for i, r := range m.results {
		cluster := r.SemanticCluster
		if cluster == "" {
			cluster = "unclustered"
		}
		groups[cluster] = append(groups[cluster], i)
	}
	order := make([]string, 0, len(groups))
	for cluster := range groups {
		order = append(order, cluster)
	}
	sort.Strings(order)

	var b strings.Builder
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d matches", len(m.results))))
	b.WriteString("\n\n")

	for _, cluster := range order {
		b.WriteString(clusterStyle.Render("◆ " + cluster))
		b.WriteString("\n")
		for _, idx := range groups[cluster] {
			r := m.results[idx]
			line := fmt.Sprintf("%s  %s  [%s]  %s", r.Lemma, r.Romanization, r.IPA, r.Gloss)
			if idx == m.selected {
				b.WriteString("  " + conceptSelectedStyle.Render(line))
			} else {
				b.WriteString("  " + conceptStyle.Render(line))
			}
			b.WriteString("  " + cultureStyle.Render(r.Language))
			b.WriteString("\n")
		}
	}

	if m.selected < len(m.results) {
		r := m.results[m.selected]
		var detail strings.Builder
		detail.WriteString(labelStyle.Render("Script") + valueStyle.Render(r.Script) + "\n")
		detail.WriteString(labelStyle.Render("Etymology") + valueStyle.Render(r.Etymology) + "\n")
		if len(r.CulturalTags) > 0 {
			detail.WriteString(labelStyle.Render("Tags") + valueStyle.Render(strings.Join(r.CulturalTags, ", ")) + "\n")
		}
		if r.SourceURL != "" {
			detail.WriteString(labelStyle.Render("Source") + helpStyle.Render(r.SourceURL) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(strings.TrimRight(detail.String(), "\n")))
		b.WriteString("\n")
	}

	return b.String()
}
