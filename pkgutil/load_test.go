package pkgutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/ssa/ssautil"
)

func TestLoadWithModule(t *testing.T) {
	if pkgs, err := LoadPackages(LoadConfig{
		GoPath:     "../examples",
		ModulePath: "../examples/src/pkg-with-module",
	}, "unrelated-name/..."); err != nil {
		t.Fatal(err)
	} else if len(pkgs) != 2 {
		t.Errorf("Expected load result to contain 2 packages, got: %s", pkgs)
	}
}

func TestLoadFromGoPath(t *testing.T) {
	if pkgs, err := LoadPackages(LoadConfig{GoPath: "../examples"}, "pkg-with-test/..."); err != nil {
		t.Fatal(err)
	} else if len(pkgs) != 2 {
		t.Errorf("Expected load result to contain 2 packages, got: %s", pkgs)
	}
}

func TestFindFunction(t *testing.T) {
	pkgs, err := LoadPackagesFromSource(`package main

type counter struct{ n int }

func (c *counter) inc() { c.n++ }

func helper() int { return 1 }

func main() {
	c := &counter{}
	c.inc()
	println(helper())
}`)
	if err != nil {
		t.Fatal(err)
	}

	prog, _ := ssautil.AllPackages(pkgs, 0)
	prog.Build()
	mains := ssautil.MainPackages(prog.AllPackages())
	if len(mains) != 1 {
		t.Fatalf("Expected 1 main package, got %d", len(mains))
	}
	main := GetMain(mains)

	for _, name := range []string{"main", "helper", "inc"} {
		fun, err := FindFunction(prog, main, name)
		if err != nil {
			t.Error(err)
			continue
		}
		if fun.Name() != name {
			t.Errorf("Found %s when looking for %s", fun, name)
		}
	}

	if _, err := FindFunction(prog, main, "doesNotExist"); err == nil {
		t.Error("Expected an error for a missing function")
	}

	names := map[string]bool{}
	for _, fun := range Functions(main) {
		names[fun.Name()] = true
	}
	for _, name := range []string{"main", "helper", "inc"} {
		if !names[name] {
			t.Errorf("Functions(main) is missing %s", name)
		}
	}
}

func TestFindLocalPackages(t *testing.T) {
	pkgs, err := LoadPackagesFromSource(`package main

import "strings"

func main() {
	println(strings.ToUpper("x"))
}`)
	if err != nil {
		t.Fatal(err)
	}

	prog, _ := ssautil.AllPackages(pkgs, 0)
	prog.Build()
	mains := ssautil.MainPackages(prog.AllPackages())

	if _, err := FindLocalPackages(nil, AllPackages(prog)); !errors.Is(err, ErrNoMain) {
		t.Errorf("Expected ErrNoMain without main packages, got %v", err)
	}

	local, err := FindLocalPackages(mains, AllPackages(prog))
	if err != nil {
		t.Fatal(err)
	}

	main := GetMain(mains)
	if !local.Contains(main.Func("main")) {
		t.Error("Expected main to be local")
	}

	strs := prog.ImportedPackage("strings")
	if strs == nil {
		t.Fatal("Missing package strings")
	}
	if local[strs] || local.Contains(strs.Func("ToUpper")) {
		t.Error("Dependencies should not be local")
	}
}

func TestLoadModuleWithoutDeclaration(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.18\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPackages(LoadConfig{GoPath: "../examples", ModulePath: dir}, "./..."); !errors.Is(err, ErrNoModule) {
		t.Errorf("Expected ErrNoModule, got %v", err)
	}
}
