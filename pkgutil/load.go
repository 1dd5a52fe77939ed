package pkgutil

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/tools/go/packages"
)

// LoadConfig describes where the packages to analyze are found. With a
// ModulePath, packages are loaded in module mode from that directory.
// Otherwise they are loaded in GOPATH mode from GoPath.
type LoadConfig struct {
	GoPath, ModulePath string
	// IncludeTests also loads the test files of the packages.
	IncludeTests bool
}

// Everything needed to build SSA.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedDeps

var (
	// ErrLoad is returned when the loaded packages contain errors.
	ErrLoad = errors.New("errors encountered while loading packages")
	// ErrNoModule is returned when a module path has no usable go.mod file.
	ErrNoModule = errors.New("no module declaration")
)

var moduleDecl = regexp.MustCompile(`(?m)^module\s+(.*)$`)

// parseRelative parses files under names relative to the working directory,
// so that positions printed in CFG dumps and golden files do not depend on
// where the repository is checked out.
func parseRelative(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, filename); err == nil {
			filename = rel
		}
	}
	return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
}

// LoadPackages loads the packages matching query.
func LoadPackages(cfg LoadConfig, query string) ([]*packages.Package, error) {
	gopath, err := filepath.Abs(cfg.GoPath)
	if err != nil {
		return nil, err
	}

	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: parseRelative,
	}

	if cfg.ModulePath != "" {
		dir, err := filepath.Abs(cfg.ModulePath)
		if err != nil {
			return nil, err
		}

		gomod := filepath.Join(dir, "go.mod")
		contents, err := os.ReadFile(gomod)
		if err != nil {
			return nil, fmt.Errorf("reading module file: %w", err)
		}
		if m := moduleDecl.FindSubmatch(contents); len(m) <= 1 {
			return nil, fmt.Errorf("%w in %s", ErrNoModule, gomod)
		}

		config.Dir = dir
		config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=on")
	} else {
		config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=off")
	}

	return load(config, query)
}

// LoadPackagesFromSource loads a single main package from source. Tests use
// it to analyze small programs.
func LoadPackagesFromSource(source string) ([]*packages.Package, error) {
	const file = "/fake/testpackage/main.go"
	config := &packages.Config{
		Mode:    loadMode,
		Env:     append(os.Environ(), "GO111MODULE=off", "GOPATH=/fake"),
		Overlay: map[string][]byte{file: []byte(source)},
	}

	return load(config, file)
}

func load(config *packages.Config, query string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, query)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", query, err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("%w: %d in %s", ErrLoad, n, query)
	}
	if !config.Tests {
		return pkgs, nil
	}

	// Packages with tests are loaded twice, with and without their test
	// files. Keeping both would duplicate every function of the package.
	ids := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		ids[pkg.ID] = true
	}

	res := make([]*packages.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if !ids[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
			res = append(res, pkg)
		}
	}
	return res, nil
}
