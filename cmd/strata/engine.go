package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strata/internal/layout"
	"strata/internal/project"
	"strata/internal/report"
	"strata/internal/typeexpr"
	"strata/internal/types"
)

// engine bundles a fresh interner with the TargetData built for one
// invocation.
type engine struct {
	target string
	td     *layout.TargetData
	types  *types.Interner
}

// engineFromFlags builds an engine from --layout, or from the --target
// preset when no explicit description was given.
func engineFromFlags(cmd *cobra.Command) (*engine, error) {
	layoutStr, err := cmd.Flags().GetString("layout")
	if err != nil {
		return nil, fmt.Errorf("failed to get layout flag: %w", err)
	}
	targetName, err := cmd.Flags().GetString("target")
	if err != nil {
		return nil, fmt.Errorf("failed to get target flag: %w", err)
	}
	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}

	if layoutStr != "" {
		return newEngine("custom", layoutStr), nil
	}
	spec, err := project.ResolveTarget(targetName, manifest)
	if err != nil {
		return nil, err
	}
	return newEngine(targetName, spec.Layout), nil
}

func newEngine(name, layoutStr string) *engine {
	typesIn := types.NewInterner()
	return &engine{
		target: name,
		td:     layout.New(layoutStr, typesIn),
		types:  typesIn,
	}
}

// measure computes the serializable layout record for one type expression.
func (e *engine) measure(expr string) (report.TypeLayout, error) {
	id, err := typeexpr.Parse(expr, e.types)
	if err != nil {
		return report.TypeLayout{}, err
	}
	size, err := e.td.SizeOf(id)
	if err != nil {
		return report.TypeLayout{}, err
	}
	sizeBits, err := e.td.SizeInBits(id)
	if err != nil {
		return report.TypeLayout{}, err
	}
	abi, err := e.td.ABIAlignOf(id)
	if err != nil {
		return report.TypeLayout{}, err
	}
	pref, err := e.td.PrefAlignOf(id)
	if err != nil {
		return report.TypeLayout{}, err
	}
	row := report.TypeLayout{
		Expr:      types.Label(e.types, id),
		Size:      size,
		SizeBits:  sizeBits,
		ABIAlign:  abi,
		PrefAlign: pref,
	}
	if _, ok := e.types.FieldTypes(id); ok {
		l, err := e.td.StructLayoutOf(id)
		if err != nil {
			return report.TypeLayout{}, err
		}
		row.Offsets = append(row.Offsets, l.Offsets...)
	}
	return row, nil
}

// buildSteps turns raw indices into typed access-chain steps by walking the
// pointee, the way instruction selection interprets an index chain.
func (e *engine) buildSteps(base types.TypeID, indices []int64) ([]layout.Step, error) {
	tt, ok := e.types.Lookup(base)
	if !ok || tt.Kind != types.KindPointer {
		return nil, fmt.Errorf("base type %s is not a pointer", types.Label(e.types, base))
	}
	cur := tt.Elem
	steps := make([]layout.Step, 0, len(indices))
	for _, idx := range indices {
		curT, ok := e.types.Lookup(cur)
		if !ok {
			return nil, fmt.Errorf("cannot index through %s", types.Label(e.types, cur))
		}
		switch curT.Kind {
		case types.KindStruct:
			fields, ok := e.types.FieldTypes(cur)
			if !ok || idx < 0 || idx >= int64(len(fields)) {
				return nil, fmt.Errorf("field index %d out of range for %s", idx, types.Label(e.types, cur))
			}
			steps = append(steps, layout.FieldStep(idx))
			cur = fields[idx]
		case types.KindArray, types.KindVector, types.KindPointer:
			steps = append(steps, layout.ElemStep(idx))
			cur = curT.Elem
		default:
			return nil, fmt.Errorf("cannot index through %s", types.Label(e.types, cur))
		}
	}
	return steps, nil
}
