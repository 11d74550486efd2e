package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the canonical form of a target description",
	Long:  `Parse a datalayout description (from --layout or a --target preset) and print its canonical string plus the derived pointer properties`,
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	eng, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}

	heading := color.New(color.Bold)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("target:"), eng.target)
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("layout:"), eng.td.Description())

	endian := "big"
	if eng.td.IsLittleEndian() {
		endian = "little"
	}
	fmt.Fprintf(out, "endianness:     %s\n", endian)
	fmt.Fprintf(out, "pointer size:   %d bytes\n", eng.td.PointerSize())
	fmt.Fprintf(out, "pointer align:  abi %d, pref %d\n", eng.td.PointerABIAlign(), eng.td.PointerPrefAlign())
	return nil
}
