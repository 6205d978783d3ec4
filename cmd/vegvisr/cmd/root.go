// Package cmd contains the CLI commands for the Vegvísir terminal client.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/config"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/gateway"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/llm"
	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/tui"
)

var (
	flagTopic string
	flagMode  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vegvisr",
	Short: "Vegvísir - a cross-cultural infinite encyclopedia in your terminal",
	Long: `Vegvísir is an interactive terminal client for exploring generated
encyclopedia entries across cultures.

Three modes are available:
  - encyclopedia: look up a topic and read a streamed definition,
    stylized text art, and cross-cultural analogues
  - phoneme miner: search for the HA/AH laughter motif across the
    world's languages
  - scribe: find the native-script form, romanization, and IPA of a
    word in a given language

Requires GEMINI_API_KEY to be set (a .env file is honored).`,
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&flagTopic, "topic", "t", "", "topic to look up on launch")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", "wiki", "starting mode: wiki, miner, or scribe")
}

// runTUI launches the interactive application.
func runTUI(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: GEMINI_API_KEY is not set; lookups will fail until it is configured")
	}

	client := llm.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	gw := gateway.New(client, cfg.CacheTTL)

	topic := flagTopic
	if topic == "" && len(args) > 0 {
		topic = args[0]
	}

	app := tui.NewApp(gw, tui.ParseMode(flagMode), topic)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}
