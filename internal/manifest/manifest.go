// Package manifest loads the project manifest: the HCL files that name the
// project's directory layout, toolchain overrides, and root build targets.
// A manifest path may be a single file or a directory tree of .hcl files;
// all discovered files merge into one Manifest, which lets a project split
// its target declarations across files while keeping a single project block.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/arbor-build/arbor/internal/ctxlog"
	"github.com/arbor-build/arbor/internal/fsutil"
)

// Project describes the directory layout and file suffix conventions.
// Every field is optional in HCL; zero values are filled with defaults.
type Project struct {
	SourceDir    string `hcl:"source_dir,optional"`
	TestDir      string `hcl:"test_dir,optional"`
	ObjectDir    string `hcl:"object_dir,optional"`
	BinaryDir    string `hcl:"binary_dir,optional"`
	SourceSuffix string `hcl:"source_suffix,optional"`
	ObjectSuffix string `hcl:"object_suffix,optional"`
}

// Toolchain overrides the external programs and flags used for rebuilds.
type Toolchain struct {
	Compiler     string `hcl:"compiler,optional"`
	Archiver     string `hcl:"archiver,optional"`
	CompileFlags string `hcl:"compile_flags,optional"`
}

// Library declares a static or shared library target and its member objects.
type Library struct {
	Name    string   `hcl:"name,label"`
	Objects []string `hcl:"objects"`
}

// Executable declares an executable target. Deps may mix raw source names
// and object names.
type Executable struct {
	Name string   `hcl:"name,label"`
	Deps []string `hcl:"deps"`
}

// manifestFile is the decode target for one HCL file.
type manifestFile struct {
	Project         *Project      `hcl:"project,block"`
	Toolchain       *Toolchain    `hcl:"toolchain,block"`
	StaticLibraries []*Library    `hcl:"static_library,block"`
	SharedLibraries []*Library    `hcl:"shared_library,block"`
	Executables     []*Executable `hcl:"executable,block"`
}

// Manifest is the merged view of every manifest file. Target lists keep
// file discovery order; registration order matters to the build.
type Manifest struct {
	Root            string
	Project         Project
	Toolchain       Toolchain
	StaticLibraries []*Library
	SharedLibraries []*Library
	Executables     []*Executable
}

// evalContext exposes the variables manifest expressions may reference:
// mode ("debug" or "release") and root (the project root directory).
func evalContext(mode, root string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"mode": cty.StringVal(mode),
			"root": cty.StringVal(root),
		},
	}
}

// Load discovers and parses every manifest file under path, which may be a
// single .hcl file or a directory searched recursively. The project root is
// the directory itself, or the file's directory for a file path.
func Load(ctx context.Context, path string, mode string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project path %s: %w", path, err)
	}

	var files []string
	root := path
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find manifest files in %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl manifest files found in %s", path)
		}
	} else {
		files = []string{path}
		root = filepath.Dir(path)
	}
	logger.Debug("Loading project manifest.", "files", len(files), "root", root, "mode", mode)

	m := &Manifest{Root: root}
	evalCtx := evalContext(mode, root)
	parser := hclparse.NewParser()
	sawProject, sawToolchain := false, false

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var parsed manifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		if parsed.Project != nil {
			if sawProject {
				return nil, fmt.Errorf("duplicate project block in %s: the manifest set may declare at most one", file)
			}
			sawProject = true
			m.Project = *parsed.Project
		}
		if parsed.Toolchain != nil {
			if sawToolchain {
				return nil, fmt.Errorf("duplicate toolchain block in %s: the manifest set may declare at most one", file)
			}
			sawToolchain = true
			m.Toolchain = *parsed.Toolchain
		}
		m.StaticLibraries = append(m.StaticLibraries, parsed.StaticLibraries...)
		m.SharedLibraries = append(m.SharedLibraries, parsed.SharedLibraries...)
		m.Executables = append(m.Executables, parsed.Executables...)
	}

	m.applyDefaults()
	logger.Debug("Manifest loaded.",
		"static_libraries", len(m.StaticLibraries),
		"shared_libraries", len(m.SharedLibraries),
		"executables", len(m.Executables))
	return m, nil
}

// applyDefaults fills in the conventional C project layout for any field the
// manifest left unset.
func (m *Manifest) applyDefaults() {
	setDefault(&m.Project.SourceDir, "src")
	setDefault(&m.Project.TestDir, "test")
	setDefault(&m.Project.ObjectDir, "obj")
	setDefault(&m.Project.BinaryDir, "bin")
	setDefault(&m.Project.SourceSuffix, ".c")
	setDefault(&m.Project.ObjectSuffix, ".o")
	setDefault(&m.Toolchain.Compiler, "gcc")
	setDefault(&m.Toolchain.Archiver, "ar")
	setDefault(&m.Toolchain.CompileFlags, "-g -Wall")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
