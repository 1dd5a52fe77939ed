package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/cs-au-dk/goflow/analysis/cfg"
	"github.com/cs-au-dk/goflow/analysis/dataflow"
	"github.com/cs-au-dk/goflow/analysis/env"
	"github.com/cs-au-dk/goflow/pkgutil"
	"github.com/cs-au-dk/goflow/utils"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"net/http"
	_ "net/http/pprof"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()
	path := utils.MakePath()

	if opts.HttpDebug() {
		go func() {
			log.Println(http.ListenAndServe("localhost:6060", nil))
		}()
	}

	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{
		GoPath:       opts.GoPath(),
		ModulePath:   opts.ModulePath(),
		IncludeTests: opts.IncludeTests(),
	}, path)
	if err != nil {
		log.Println("Failed pkgutil.LoadPackages")
		log.Println(err)
		os.Exit(1)
	}

	prog, _ := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	mains := ssautil.MainPackages(prog.AllPackages())
	if len(mains) == 0 {
		log.Println("No main packages detected")
		return
	}
	mainPkg := pkgutil.GetMain(mains)

	if task.IsPosition() {
		local, err := pkgutil.FindLocalPackages(mains, pkgutil.AllPackages(prog))
		if err != nil {
			log.Fatalln(err)
		}
		for _, fun := range pkgutil.Functions(pkgutil.AllPackages(prog)...) {
			if local.Contains(fun) {
				utils.PrintSSAFunWithPos(prog.Fset, fun)
			}
		}
		return
	}

	var funs []*ssa.Function
	if opts.AnalyzeAllFuncs() {
		funs = pkgutil.Functions(mainPkg)
		if opts.IncludeTests() {
			funs = append(funs, pkgutil.TestFunctions(prog)...)
		}
	} else {
		fun, err := pkgutil.FindFunction(prog, mainPkg, opts.Function())
		if err != nil {
			log.Fatalln(err)
		}
		funs = []*ssa.Function{fun}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make(map[*ssa.Function]*dataflow.Metrics)

	for _, fun := range funs {
		cfgCtx, err := cfg.FromSSA(fun)
		if err != nil {
			log.Println(err)
			continue
		}

		switch {
		case task.IsCfgToDot():
			visualizeCFG(fun, cfgCtx, nil)

		case task.IsDataflow():
			metrics := runDataflow(ctx, fun, cfgCtx)
			if metrics.Enabled() {
				results[fun] = metrics
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	printMetrics(results)
}

// runDataflow computes the stores of fun and prints the state of every
// block.
func runDataflow(ctx context.Context, fun *ssa.Function, cfgCtx *cfg.Context) *dataflow.Metrics {
	log.Println("Analyzing:", utils.SSAFunString(fun))
	opts.OnVerbose(func() {
		utils.PrintSSAFunWithPos(fun.Prog.Fset, fun)
	})
	utils.VerbosePrint("%s\n", cfgCtx.Graph())

	var metrics *dataflow.Metrics
	if opts.Metrics() {
		metrics = dataflow.NewMetrics()
	}

	initEnv := env.NewFunctionEnvironment(env.NewAnalysisContext(), fun)
	states, err := dataflow.Run(ctx, cfgCtx, storesAnalysis(), initEnv,
		dataflow.WithMetrics(metrics))
	if err != nil {
		log.Printf("Analysis of %s failed: %v", fun, err)
		return metrics
	}

	var buf bytes.Buffer
	if err := states.Dump(&buf, cfgCtx.Graph(), opts.Verbose()); err != nil {
		log.Fatalln(err)
	}
	fmt.Println(buf.String())

	if opts.Visualize() {
		visualizeCFG(fun, cfgCtx, func(b *cfg.Block) string {
			st, ok := states.At(b)
			if !ok {
				return "unreachable"
			}
			return fmt.Sprint(st.Lattice)
		})
	}

	return metrics
}

func visualizeCFG(fun *ssa.Function, cfgCtx *cfg.Context, annotate func(*cfg.Block) string) {
	log.Println("Preparing to visualize CFG:", fun)
	G := cfgCtx.Visualize(fun.String(), annotate)

	if opts.Visualize() {
		G.ShowDot()
		return
	}

	out, err := G.Render(fun.Name(), opts.OutputFormat())
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Wrote", out)
}

func sortedFunctions(results map[*ssa.Function]*dataflow.Metrics) []*ssa.Function {
	funs := make([]*ssa.Function, 0, len(results))
	for f := range results {
		funs = append(funs, f)
	}
	sort.Slice(funs, func(i, j int) bool {
		return funs[i].String() < funs[j].String()
	})
	return funs
}
