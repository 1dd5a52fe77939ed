package utils

import (
	"fmt"
	"go/token"

	"github.com/fatih/color"

	"golang.org/x/tools/go/ssa"
)

const (
	SHARED_PKG = "!#shared_pkg"
	SHARED_FUN = "!#shared_fun"
)

var funColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
}
var blkColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
}
var nameColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
}
var insColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
}

func SSAFunString(fun *ssa.Function) string {
	if fun != nil {
		return funColor(fun.String())
	}
	return SHARED_PKG + ":" + SHARED_FUN
}

// PrintSSAFunWithPos prints every instruction of the function, grouped by
// basic block, together with its source position.
func PrintSSAFunWithPos(fset *token.FileSet, fun *ssa.Function) {
	fmt.Println(SSAFunString(fun))
	for _, b := range fun.Blocks {
		fmt.Println(blkColor(fmt.Sprintf("%d:", b.Index)), b.Comment)
		for _, i := range b.Instrs {
			var prefix string
			if v, ok := i.(ssa.Value); ok {
				prefix = nameColor(v.Name()) + " = "
			}
			fmt.Printf("  %s%s  %s\n", prefix, insColor(i.String()), fset.Position(i.Pos()))
		}
	}
}
