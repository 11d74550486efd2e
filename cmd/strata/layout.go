package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"strata/internal/observ"
	"strata/internal/project"
	"strata/internal/report"
	"strata/internal/ui"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] <type-expr>...",
	Short: "Compute size, alignment and field offsets for types",
	Long:  `Measure one or more type expressions against a target, e.g. strata layout --target x86_64 '{i8, i32}' '[10 x i32]'`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	layoutCmd.Flags().Bool("all-targets", false, "measure against every known target")
}

func runLayout(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", format)
	}

	allTargets, err := cmd.Flags().GetBool("all-targets")
	if err != nil {
		return fmt.Errorf("failed to get all-targets flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	timer := observ.NewTimer()
	phase := timer.Begin("measure")
	var reports []*report.Report
	if allTargets {
		reports, err = layoutAllTargets(cmd, args)
	} else {
		var rep *report.Report
		rep, err = layoutOneTarget(cmd, args)
		reports = []*report.Report{rep}
	}
	timer.End(phase, fmt.Sprintf("%d exprs", len(args)))
	if err != nil {
		return err
	}

	phase = timer.Begin("emit")
	for _, rep := range reports {
		if err := emitReport(rep, format); err != nil {
			return err
		}
	}
	timer.End(phase, format)

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

func layoutOneTarget(cmd *cobra.Command, exprs []string) (*report.Report, error) {
	eng, err := engineFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return measureAll(eng, exprs)
}

// layoutAllTargets sweeps every preset concurrently; each engine owns its
// interner and cache, so the workers share nothing.
func layoutAllTargets(cmd *cobra.Command, exprs []string) ([]*report.Report, error) {
	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	names, err := project.TargetNames(manifest)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	byName := make(map[string]*report.Report, len(names))
	g, _ := errgroup.WithContext(cmd.Context())
	for _, name := range names {
		name := name
		g.Go(func() error {
			spec, err := project.ResolveTarget(name, manifest)
			if err != nil {
				return err
			}
			rep, err := measureAll(newEngine(name, spec.Layout), exprs)
			if err != nil {
				return fmt.Errorf("target %s: %w", name, err)
			}
			mu.Lock()
			byName[name] = rep
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(names)
	reports := make([]*report.Report, 0, len(names))
	for _, name := range names {
		reports = append(reports, byName[name])
	}
	return reports, nil
}

func measureAll(eng *engine, exprs []string) (*report.Report, error) {
	rep := report.New(eng.target, eng.td.Description())
	for _, expr := range exprs {
		row, err := eng.measure(expr)
		if err != nil {
			return nil, err
		}
		rep.Add(row)
	}
	return rep, nil
}

func emitReport(rep *report.Report, format string) error {
	switch format {
	case "json":
		return rep.EncodeJSON(os.Stdout)
	case "msgpack":
		return rep.EncodeMsgpack(os.Stdout)
	default:
		heading := color.New(color.Bold)
		fmt.Printf("%s %s\n", heading.Sprint("target:"), rep.Target)
		fmt.Print(ui.RenderLayoutTable(rep.Types, terminalWidth()))
		fmt.Println()
		return nil
	}
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	// Piped output gets a fixed width.
	return 100
}
