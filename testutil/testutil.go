package testutil

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/pkgutil"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// LoadResult contains relevant information obtained after loading a Go program.
type LoadResult struct {
	// MainPkg is the package focused by the test.
	MainPkg *packages.Package
	// Prog is the SSA representation of the entire program.
	Prog *ssa.Program
	// Mains denotes all the packages that can act as entry points.
	Mains []*ssa.Package
}

// Main returns the SSA package of the loaded main package.
func (res LoadResult) Main() *ssa.Package {
	return pkgutil.GetMain(res.Mains)
}

// Function retrieves a function of the main package by name. The test fails
// if the function does not exist.
func (res LoadResult) Function(t *testing.T, name string) *ssa.Function {
	t.Helper()
	fun, err := pkgutil.FindFunction(res.Prog, res.Main(), name)
	if err != nil {
		t.Fatal(err)
	}
	return fun
}

// CFG builds the control-flow graph of the named function.
func (res LoadResult) CFG(t *testing.T, name string) (*ssa.Function, *cfg.Context) {
	t.Helper()
	fun := res.Function(t, name)
	ctx, err := cfg.FromSSA(fun)
	if err != nil {
		t.Fatal(err)
	}
	return fun, ctx
}

// LoadExampleAsPackages loads an example package to be used for a test.
func LoadExampleAsPackages(t *testing.T, pathToRoot string, pkg string) []*packages.Package {
	// Invoking the package tools is slow because it uses `go list` under the hood.
	// If the package doesn't have imports we can take a fast path by loading the
	// code manually and parsing it ourselves.
	srcDir := filepath.Join(pathToRoot, "examples", "src", pkg)
	if entries, err := os.ReadDir(srcDir); err == nil {
		if len(entries) == 1 {
			entry := entries[0]
			if !entry.IsDir() && entry.Name() == "main.go" {
				if content, err := os.ReadFile(filepath.Join(srcDir, "main.go")); err == nil &&
					// Assert no imports
					!bytes.Contains(content, []byte("import")) {
					return LoadSourceAsPackages(t, pkg, string(content))
				}
			}
		}
	}

	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{GoPath: filepath.Join(pathToRoot, "examples")}, pkg)
	if err != nil {
		t.Fatal(err)
	}

	if len(pkgs) != 1 {
		t.Fatal("Example contains more than just a main package?")
	}
	return pkgs
}

func LoadExamplePackage(t *testing.T, pathToRoot string, pkg string) LoadResult {
	return LoadResultFromPackages(t, LoadExampleAsPackages(t, pathToRoot, pkg))
}

func LoadResultFromPackages(t *testing.T, pkgs []*packages.Package) (res LoadResult) {
	res.MainPkg = pkgs[0]

	res.Prog, _ = ssautil.AllPackages(pkgs, ssa.SanityCheckFunctions|ssa.InstantiateGenerics)
	res.Prog.Build()

	res.Mains = ssautil.MainPackages(res.Prog.AllPackages())
	if len(res.Mains) == 0 {
		t.Fatal("No main packages detected")
	}

	return
}

func LoadSourceAsPackages(t *testing.T, importPath string, content string) []*packages.Package {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(
		fset,
		"main.go",
		content,
		parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	files := []*ast.File{file}

	// First argument is package path, the second is name.
	pkg := types.NewPackage(importPath, "main")
	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Instances:  make(map[*ast.Ident]types.Instance),
		Scopes:     make(map[ast.Node]*types.Scope),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	if err := types.NewChecker(
		&types.Config{Importer: importer.Default()},
		fset, pkg, info).Files(files); err != nil {
		t.Fatal(err)
	}

	// If the package does not have imports we can take a fast path.
	if len(pkg.Imports()) == 0 {
		return []*packages.Package{{
			ID:        "pkg-loaded-from-src",
			Name:      pkg.Name(),
			PkgPath:   pkg.Path(),
			Types:     pkg,
			Fset:      fset,
			Syntax:    files,
			TypesInfo: info,
		}}
	}

	// Otherwise we need to invoke the packages tool that can import code for
	// dependencies. The reason to not just do this for all packages is that
	// it's a lot slower than the above because it needs to invoke the go tool
	// in a subprocess.
	pkgs, err := pkgutil.LoadPackagesFromSource(content)
	if err != nil {
		t.Fatal(err)
	}
	return pkgs
}

func LoadPackageFromSource(t *testing.T, importPath string, content string) LoadResult {
	return LoadResultFromPackages(t, LoadSourceAsPackages(t, importPath, content))
}

// ListPackagesIn lists the example packages under examples/src/bmDir, except
// those in the blacklist.
func ListPackagesIn(t *testing.T, pathToRoot string, blacklist []string, bmDir string) []string {
	path := filepath.Join(pathToRoot, "examples", "src", bmDir)

	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatal(err)
	}

	skip := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		skip[b] = true
	}

	packages := []string{}
	for _, entry := range entries {
		if entry.IsDir() && !skip[entry.Name()] {
			packages = append(packages, filepath.Join(bmDir, entry.Name()))
		}
	}
	sort.Strings(packages)
	return packages
}
