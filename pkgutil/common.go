package pkgutil

import (
	"strings"

	"github.com/cs-au-dk/goflow/utils"

	"golang.org/x/tools/go/ssa"
)

var opts = utils.Opts()

func isTestPackage(pkg *ssa.Package) bool {
	return strings.HasSuffix(pkg.String(), ".test")
}

// GetMain picks the main package to analyze: the non-test main package with
// the most members, or nil if there is none.
func GetMain(mains []*ssa.Package) (main *ssa.Package) {
	for _, mp := range mains {
		if isTestPackage(mp) {
			continue
		}
		if main == nil || len(main.Members) < len(mp.Members) {
			main = mp
		}
	}
	return
}

// AllPackages lists the packages of prog, excluding synthetic test mains.
// When a package is loaded both with and without its tests, the variant with
// more members is kept.
func AllPackages(prog *ssa.Program) []*ssa.Package {
	byPath := make(map[string]*ssa.Package)
	for _, pkg := range prog.AllPackages() {
		if isTestPackage(pkg) {
			continue
		}
		if other, ok := byPath[pkg.String()]; !ok || len(pkg.Members) > len(other.Members) {
			byPath[pkg.String()] = pkg
		}
	}

	res := make([]*ssa.Package, 0, len(byPath))
	for _, pkg := range byPath {
		res = append(res, pkg)
	}
	return res
}
