package project

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// TargetSpec describes one named target in a [targets] manifest section.
type TargetSpec struct {
	Triple string `toml:"triple"`
	Layout string `toml:"layout"`
}

// ErrUnknownTarget indicates a target name missing from both the built-in
// table and the loaded manifest.
var ErrUnknownTarget = errors.New("unknown target")

// builtinTargets are well-known datalayout strings per architecture, the
// same ones clang emits for these triples.
var builtinTargets = map[string]TargetSpec{
	"x86_64": {
		Triple: "x86_64-unknown-linux-gnu",
		Layout: "e-p:64:64:64-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:64:64-f32:32:32-f64:64:64-v64:64:64-v128:128:128-a0:0:64",
	},
	"i686": {
		Triple: "i686-unknown-linux-gnu",
		Layout: "e-p:32:32:32-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:32:64-f32:32:32-f64:32:64-v64:64:64-v128:128:128-a0:0:64",
	},
	"armv7": {
		Triple: "armv7-none-linux-gnueabi",
		Layout: "e-p:32:32:32-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:64:64-f32:32:32-f64:64:64-v64:64:64-v128:64:128-a0:0:32",
	},
	"aarch64": {
		Triple: "aarch64-none-linux-gnu",
		Layout: "e-p:64:64:64-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:64:64-f32:32:32-f64:64:64-v64:64:64-v128:128:128-a0:0:64",
	},
	"sparc": {
		Triple: "sparc-sun-solaris",
		Layout: "E-p:32:32:32-i1:8:8-i8:8:8-i16:16:16-i32:32:32-i64:32:64-f32:32:32-f64:32:64-v64:64:64-v128:128:128-a0:0:64",
	},
	"default": {
		Triple: "",
		Layout: "",
	},
}

type targetManifest struct {
	Targets map[string]TargetSpec `toml:"targets"`
}

// BuiltinTargets returns a copy of the built-in preset table.
func BuiltinTargets() map[string]TargetSpec {
	out := make(map[string]TargetSpec, len(builtinTargets))
	for name, spec := range builtinTargets {
		out[name] = spec
	}
	return out
}

// LoadTargets parses the [targets] section of a strata.toml manifest.
func LoadTargets(path string) (map[string]TargetSpec, error) {
	var cfg targetManifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("targets") || cfg.Targets == nil {
		return map[string]TargetSpec{}, nil
	}
	return cfg.Targets, nil
}

// ResolveTarget looks a name up in the built-in table merged with an
// optional manifest; manifest entries shadow built-ins. An empty manifest
// path skips loading, as does a missing file.
func ResolveTarget(name, manifestPath string) (TargetSpec, error) {
	merged, err := mergedTargets(manifestPath)
	if err != nil {
		return TargetSpec{}, err
	}
	spec, ok := merged[name]
	if !ok {
		return TargetSpec{}, fmt.Errorf("%s: %w (known: %s)", name, ErrUnknownTarget, strings.Join(sortedNames(merged), ", "))
	}
	return spec, nil
}

// TargetNames returns the sorted names of every known target.
func TargetNames(manifestPath string) ([]string, error) {
	merged, err := mergedTargets(manifestPath)
	if err != nil {
		return nil, err
	}
	return sortedNames(merged), nil
}

func mergedTargets(manifestPath string) (map[string]TargetSpec, error) {
	merged := BuiltinTargets()
	if manifestPath == "" {
		return merged, nil
	}
	if _, err := os.Stat(manifestPath); errors.Is(err, os.ErrNotExist) {
		return merged, nil
	}
	loaded, err := LoadTargets(manifestPath)
	if err != nil {
		return nil, err
	}
	for name, spec := range loaded {
		merged[name] = spec
	}
	return merged, nil
}

func sortedNames(specs map[string]TargetSpec) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
