package pkgutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// ErrNoMain is returned when a program has no main package.
var ErrNoMain = errors.New("no main packages found")

// LocalPackages is the set of packages that belong to the analyzed program
// rather than to its dependencies.
type LocalPackages map[*ssa.Package]bool

// localPrefix is the number of import path segments a package must share with
// the main package to be local.
const localPrefix = 3

func importPath(pkg *ssa.Package) []string {
	path := strings.Split(strings.TrimSuffix(pkg.Pkg.Path(), ".test"), "/")
	if path[0] == "vendor" {
		path = path[1:]
	}
	return path
}

// FindLocalPackages marks the packages sharing a prefix of their import path
// with the main package as local.
func FindLocalPackages(mains []*ssa.Package, pkgs []*ssa.Package) (LocalPackages, error) {
	if len(mains) == 0 {
		return nil, ErrNoMain
	}

	mp := GetMain(mains)
	if mp == nil {
		// Only test mains were found.
		mp = mains[0]
	}
	mainPath := importPath(mp)

	local := make(LocalPackages)
	for _, p := range pkgs {
		path := importPath(p)
		same := true
		for i := 0; same && i < localPrefix && i < len(mainPath) && i < len(path); i++ {
			same = mainPath[i] == path[i]
		}
		if same {
			local[p] = true
		}
	}

	opts.OnVerbose(func() {
		fmt.Println("Local packages:")
		for _, path := range local.paths() {
			fmt.Println(" ", path)
		}
	})

	return local, nil
}

func (l LocalPackages) paths() []string {
	res := make([]string, 0, len(l))
	for p := range l {
		res = append(res, p.Pkg.Path())
	}
	sort.Strings(res)
	return res
}

// Contains reports whether fun is declared in a local package.
func (l LocalPackages) Contains(fun *ssa.Function) bool {
	return fun != nil && fun.Pkg != nil && l[fun.Pkg]
}
