package pkgutil

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// memberFunctions lists the functions and methods declared in pkg, sorted by
// name.
func memberFunctions(pkg *ssa.Package) (res []*ssa.Function) {
	for _, member := range pkg.Members {
		switch m := member.(type) {
		case *ssa.Function:
			if m.Synthetic == "" {
				res = append(res, m)
			}
		case *ssa.Type:
			if named, ok := m.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
				continue
			}
			for _, T := range []types.Type{m.Type(), types.NewPointer(m.Type())} {
				mset := pkg.Prog.MethodSets.MethodSet(T)
				for i := 0; i < mset.Len(); i++ {
					if fun := pkg.Prog.MethodValue(mset.At(i)); fun != nil && fun.Synthetic == "" && fun.Pkg == pkg {
						res = append(res, fun)
					}
				}
			}
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].String() < res[j].String()
	})

	// Value methods appear in both method sets.
	dedup := res[:0]
	for i, fun := range res {
		if i == 0 || res[i-1] != fun {
			dedup = append(dedup, fun)
		}
	}
	return dedup
}

// Functions lists the functions with a body declared in the given packages.
func Functions(pkgs ...*ssa.Package) (res []*ssa.Function) {
	for _, pkg := range pkgs {
		for _, fun := range memberFunctions(pkg) {
			if len(fun.Blocks) > 0 {
				res = append(res, fun)
			}
		}
	}
	return
}

// FindFunction looks up a function by name. Names need not be qualified by
// package. The main package is searched first, followed by all packages of
// the program.
func FindFunction(prog *ssa.Program, main *ssa.Package, name string) (*ssa.Function, error) {
	matches := func(fun *ssa.Function) bool {
		return fun.Name() == name || fun.String() == name ||
			strings.HasSuffix(fun.String(), "."+name)
	}

	if main != nil {
		for _, fun := range Functions(main) {
			if matches(fun) {
				return fun, nil
			}
		}
	}

	pkgs := AllPackages(prog)
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Pkg.Path() < pkgs[j].Pkg.Path()
	})
	for _, pkg := range pkgs {
		for _, fun := range Functions(pkg) {
			if matches(fun) {
				return fun, nil
			}
		}
	}

	return nil, fmt.Errorf("no function matching %q", name)
}

// TestFunctions lists the functions of the form TestXxx(*testing.T).
func TestFunctions(prog *ssa.Program) (res []*ssa.Function) {
	testing := prog.ImportedPackage("testing")
	if testing == nil {
		return
	}
	tType := types.NewPointer(testing.Type("T").Type())

	for _, pkg := range AllPackages(prog) {
		for _, fun := range Functions(pkg) {
			if strings.HasPrefix(fun.Name(), "Test") && len(fun.Params) == 1 &&
				types.Identical(tType, fun.Params[0].Type()) {
				res = append(res, fun)
			}
		}
	}
	return
}
