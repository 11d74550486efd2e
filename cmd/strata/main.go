package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"strata/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Target data layout toolkit",
	Long:  `Strata parses target datalayout descriptions and answers size, alignment and offset queries about types`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(offsetCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("manifest", "strata.toml", "target manifest path")
	rootCmd.PersistentFlags().String("target", "default", "target preset name")
	rootCmd.PersistentFlags().String("layout", "", "datalayout description (overrides --target)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	cobra.OnInitialize(setupColor)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupColor() {
	mode, _ := rootCmd.PersistentFlags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
