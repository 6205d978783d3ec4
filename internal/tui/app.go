package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/wiki"
)

// Mode selects which of the three views is active.
type Mode int

const (
	ModeWiki Mode = iota
	ModeMiner
	ModeScribe
)

var modeNames = map[Mode]string{
	ModeWiki:   "encyclopedia",
	ModeMiner:  "phoneme miner",
	ModeScribe: "scribe",
}

// ParseMode maps a --mode flag value to a Mode, defaulting to the
// encyclopedia.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "miner", "phoneme", "phonemes":
		return ModeMiner
	case "scribe", "script":
		return ModeScribe
	default:
		return ModeWiki
	}
}

// App is the top-level model: a tab bar over the three mode views.
type App struct {
	mode Mode

	wiki   WikiModel
	miner  MinerModel
	scribe ScribeModel

	width  int
	height int
}

// NewApp builds the full TUI over a gateway. If initialTopic is
// non-empty the encyclopedia starts loading it immediately.
func NewApp(gw *gateway.Gateway, mode Mode, initialTopic string) App {
	updates := make(chan wiki.State, 16)
	ctrl := wiki.NewController(gw, func(s wiki.State) {
		updates <- s
	})

	app := App{
		mode:   mode,
		wiki:   NewWikiModel(ctrl, updates),
		miner:  NewMinerModel(gw),
		scribe: NewScribeModel(gw),
	}

	if initialTopic != "" {
		ctrl.SetTopic(context.Background(), initialTopic)
	}

	return app
}

func (a App) Init() tea.Cmd {
	return a.wiki.Listen()
}

func (a App) focused() bool {
	switch a.mode {
	case ModeMiner:
		return a.miner.Focused()
	case ModeScribe:
		return a.scribe.Focused()
	default:
		return a.wiki.Focused()
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.wiki.SetSize(msg.Width, msg.Height)
		a.miner.SetSize(msg.Width, msg.Height)
		a.scribe.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if !a.focused() {
				return a, tea.Quit
			}
		case "tab":
			// Mode switching only when no input owns the keyboard; the
			// scribe uses tab to move between its own fields.
			if !a.focused() {
				a.mode = (a.mode + 1) % 3
				return a, nil
			}
		case "1", "2", "3":
			if !a.focused() {
				a.mode = Mode(msg.String()[0] - '1')
				return a, nil
			}
		}
		return a.routeKey(msg)
	}

	// Everything else (fetch results, ticks, controller snapshots)
	// goes to the view that understands it.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg.(type) {
	case stateMsg, artTickMsg, randomErrMsg:
		a.wiki, cmd = a.wiki.Update(msg)
		cmds = append(cmds, cmd)
	case searchResultMsg:
		a.miner, cmd = a.miner.Update(msg)
		cmds = append(cmds, cmd)
	case scriptResultMsg:
		a.scribe, cmd = a.scribe.Update(msg)
		cmds = append(cmds, cmd)
	default:
		switch a.mode {
		case ModeMiner:
			a.miner, cmd = a.miner.Update(msg)
		case ModeScribe:
			a.scribe, cmd = a.scribe.Update(msg)
		default:
			a.wiki, cmd = a.wiki.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.mode {
	case ModeMiner:
		a.miner, cmd = a.miner.Update(msg)
	case ModeScribe:
		a.scribe, cmd = a.scribe.Update(msg)
	default:
		a.wiki, cmd = a.wiki.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("⟁ Vegvísir"))
	b.WriteString("  ")

	tabs := make([]string, 0, 3)
	for mode := ModeWiki; mode <= ModeScribe; mode++ {
		if mode == a.mode {
			tabs = append(tabs, tabActiveStyle.Render(modeNames[mode]))
		} else {
			tabs = append(tabs, tabStyle.Render(modeNames[mode]))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, tabs...))
	b.WriteString("\n\n")

	switch a.mode {
	case ModeMiner:
		b.WriteString(a.miner.View())
	case ModeScribe:
		b.WriteString(a.scribe.View())
	default:
		b.WriteString(a.wiki.View())
	}

	b.WriteString(helpStyle.Render("tab/1-3: mode • q: quit"))
	b.WriteString("\n")

	return b.String()
}
