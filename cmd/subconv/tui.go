package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/bootstrap"
	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/source"
	"github.com/creamcroissant/subconv/internal/support/logging"
	"github.com/creamcroissant/subconv/internal/tui"
)

var tuiSample bool

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive converter",
	Long:  "Launch a terminal UI to paste share links, convert them and inspect each line's outcome.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiSample, "sample", false, "prefill the input with the sample links")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	local := oneShotConfig(cfg)
	// 终端被 TUI 占用，日志直接丢弃
	local.Log.Format = logging.FormatDiscard
	infra, err := bootstrap.BuildInfrastructure(local, nil)
	if err != nil {
		return err
	}

	initial := ""
	switch {
	case len(args) == 1:
		if initial, err = source.ReadFile(cmd.Context(), args[0], source.DefaultRetryConfig()); err != nil {
			return err
		}
	case tuiSample:
		initial = convert.SampleInput
	}

	model := tui.NewModel(infra.Conversion, initial)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
