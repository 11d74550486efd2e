package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"strata/internal/typeexpr"
)

var offsetCmd = &cobra.Command{
	Use:   "offset [flags] <pointer-type-expr> <index>...",
	Short: "Resolve an indexed access chain to a byte offset",
	Long: `Walk struct-field and element indices from a pointer base and print the
flat byte offset, e.g. strata offset '*{[10 x i32], i8}' 0 3`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOffset,
}

func runOffset(cmd *cobra.Command, args []string) error {
	eng, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}

	base, err := typeexpr.Parse(args[0], eng.types)
	if err != nil {
		return err
	}
	indices := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		idx, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("bad index %q: %w", arg, err)
		}
		indices = append(indices, idx)
	}

	steps, err := eng.buildSteps(base, indices)
	if err != nil {
		return err
	}
	offset, err := eng.td.ResolveOffset(base, steps)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", offset)
	return nil
}
