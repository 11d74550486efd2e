package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"strata/internal/project"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List known target presets",
	Long:  `List built-in targets merged with the [targets] section of the manifest, with each preset's canonical datalayout string`,
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

func init() {
	targetsCmd.Flags().Bool("canonical", false, "print canonical (round-tripped) layout strings")
}

func runTargets(cmd *cobra.Command, args []string) error {
	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return fmt.Errorf("failed to get manifest flag: %w", err)
	}
	canonical, err := cmd.Flags().GetBool("canonical")
	if err != nil {
		return fmt.Errorf("failed to get canonical flag: %w", err)
	}

	names, err := project.TargetNames(manifest)
	if err != nil {
		return err
	}

	nameColor := color.New(color.FgCyan, color.Bold)
	out := cmd.OutOrStdout()
	for _, name := range names {
		spec, err := project.ResolveTarget(name, manifest)
		if err != nil {
			return err
		}
		layoutStr := spec.Layout
		if canonical {
			layoutStr = newEngine(name, spec.Layout).td.Description()
		}
		fmt.Fprintf(out, "%s\n", nameColor.Sprint(name))
		if spec.Triple != "" {
			fmt.Fprintf(out, "  triple: %s\n", spec.Triple)
		}
		fmt.Fprintf(out, "  layout: %s\n", layoutStr)
	}
	return nil
}
