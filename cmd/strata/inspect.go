package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"strata/internal/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Interactively measure type expressions",
	Long:  `Open an interactive prompt that measures each entered type expression against the selected target`,
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("inspect needs a terminal; use 'strata layout' for batch output")
	}
	eng, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}

	model := ui.NewInspectModel(eng.target, eng.measure)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
