package env

import (
	"github.com/cs-au-dk/goflow/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Location func(...interface{}) string
	Value    func(...interface{}) string
}{
	Location: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Value: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
}
