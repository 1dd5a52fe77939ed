package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
)

type options struct {
	minlen        uint
	maxIterations uint
	nodesep       float64
	function      string
	outputFormat  string
	gopath        string
	modulePath    string
	task          string
	logDataflow   bool
	metrics       bool
	noColorize    bool
	httpDebug     bool
	verbose       bool
	includeTests  bool
	visualize     bool
}

const (
	_DATAFLOW = iota
	_CFG_TO_DOT
	_POSITION
)

// DefaultMaxIterations bounds the number of block visits of a single fixpoint
// computation.
const DefaultMaxIterations = 1 << 16

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"dataflow",
	"Run the dataflow engine with the built-in transfer functions and print the state of every basic block",
}, {
	"cfg-to-dot",
	"Create a graph for the control-flow graph of the target function",
}, {
	"positions",
	"Print all SSA functions found, and the position of each instruction",
}}

var opts = &options{
	maxIterations: DefaultMaxIterations,
	minlen:        2,
	nodesep:       0.35,
	function:      "main",
	outputFormat:  "svg",
	task:          task[_DATAFLOW].flag,
}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) MaxIterations() int {
	return int(opts.maxIterations)
}

func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) GoPath() string {
	return opts.gopath
}
func (optInterface) ModulePath() string {
	return opts.modulePath
}
func (optInterface) LogDataflow() bool {
	return opts.logDataflow
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsDataflow() bool {
	return opts.task == task[_DATAFLOW].flag
}
func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}
func (taskInterface) IsPosition() bool {
	return opts.task == task[_POSITION].flag
}
func (optInterface) Metrics() bool {
	return opts.metrics
}
func (optInterface) HttpDebug() bool {
	return opts.httpDebug
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) IncludeTests() bool {
	return opts.includeTests
}
func (optInterface) Visualize() bool {
	return opts.visualize
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.UintVar(&(opts.minlen), "minlen", 2, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.StringVar(&(opts.function), "fun", "main", "target a specific function w. r. t. the given task.\n"+
		"- Function names need not be fully qualified w.r.t. package name. If a simple name is provided, "+
		"the tool will search for a function matching that name in the main package. If one is not found, "+
		"it will proceed to do a search across all packages. Will return the first function matching that name.\n"+
		"- Use '.' to run the task on all functions in the main package.\n")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format [svg | png | jpg | ...]")
	flag.StringVar(&(opts.gopath), "gopath", "examples", "specify GOPATH to be used for packages.Load")
	flag.StringVar(&(opts.modulePath), "modulepath", "", `specify a path to a directory containing a Go module.
- If provided this will make our code loading tools (that piggyback on Go's tools) run
in "module-aware" mode (GO111MODULE=on).`)
	flag.StringVar(&(opts.task), "task", task[_DATAFLOW].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.UintVar(&(opts.maxIterations), "max-iterations", DefaultMaxIterations, "Maximum number of basic block visits before the fixpoint computation gives up")
	flag.BoolVar(&(opts.logDataflow), "dataflow-logging", false, "Enable logging of specific events during the fixpoint computation")
	flag.BoolVar(&(opts.metrics), "metrics", false, "Enable collection of performance metrics for the fixpoint computation")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flag.BoolVar(&(opts.includeTests), "include-tests", false, "include main package test files in the analysis.")
	flag.BoolVar(&(opts.visualize), "visualize", false, "enable visualization via XDot")
	flag.BoolVar(&(opts.httpDebug), "http-debug", false, "Start an http/pprof server for debugging")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	flag.Parse()

	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}

	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}

	if opts.maxIterations == 0 {
		log.Fatalln("-max-iterations must be positive")
	}

	if Opts().Task().IsCfgToDot() {
		opts.noColorize = true
	}
}

func (optInterface) AnalyzeAllFuncs() bool {
	return opts.function == "."
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}
