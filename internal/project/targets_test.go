package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinTargets_Resolvable(t *testing.T) {
	for _, name := range []string{"default", "x86_64", "i686", "armv7", "aarch64", "sparc"} {
		spec, err := ResolveTarget(name, "")
		if err != nil {
			t.Errorf("ResolveTarget(%s): %v", name, err)
			continue
		}
		if name != "default" && spec.Layout == "" {
			t.Errorf("builtin %s has no layout string", name)
		}
	}
}

func TestResolveTarget_Unknown(t *testing.T) {
	_, err := ResolveTarget("pdp11", "")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestLoadTargets_Manifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.toml")
	manifest := `
[targets.vax]
triple = "vax-dec-ultrix"
layout = "E-p:32:32:32"

[targets.x86_64]
triple = "x86_64-custom"
layout = "e-p:64:64:64-i64:64:64"
`
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := ResolveTarget("vax", path)
	if err != nil {
		t.Fatalf("ResolveTarget(vax): %v", err)
	}
	if spec.Triple != "vax-dec-ultrix" || spec.Layout != "E-p:32:32:32" {
		t.Errorf("unexpected spec: %+v", spec)
	}

	// Manifest entries shadow built-ins.
	spec, err = ResolveTarget("x86_64", path)
	if err != nil {
		t.Fatalf("ResolveTarget(x86_64): %v", err)
	}
	if spec.Triple != "x86_64-custom" {
		t.Errorf("manifest should shadow the builtin, got %+v", spec)
	}
}

func TestResolveTarget_MissingManifestIgnored(t *testing.T) {
	spec, err := ResolveTarget("x86_64", filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing manifest should fall back to builtins: %v", err)
	}
	if spec.Triple != "x86_64-unknown-linux-gnu" {
		t.Errorf("unexpected spec: %+v", spec)
	}
}

func TestTargetNames_Sorted(t *testing.T) {
	names, err := TargetNames("")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
