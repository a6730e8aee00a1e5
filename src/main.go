// Command tabi drives the whole-program pipeline spec.md §2 describes: load every slab reachable
// from the root source file, elaborate their declarations, lower the result to LLVM IR, emit
// per-slab artifacts, then hand the objects to the host linker.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"tabi/src/bundle"
	"tabi/src/diag"
	"tabi/src/elaborate"
	"tabi/src/emit"
	"tabi/src/lower"
	"tabi/src/syntax"
	"tabi/src/util"
)

// exitSuccess, exitCreationFailure and exitElaborationFailure are spec.md §6's exit codes; a link
// failure instead propagates the invoked linker's own exit code.
const (
	exitSuccess            = 0
	exitCreationFailure    = 1
	exitElaborationFailure = 2
)

// unimplementedParser is the external PEG-grammar collaborator spec.md §1 describes as out of
// this repository's scope: the core never type-switches on a concrete syntax.Node implementation,
// so a real grammar-backed parser can be dropped in here without touching bundle, model or lower.
type unimplementedParser struct{}

func (unimplementedParser) Parse(source string) (syntax.Node, error) {
	return nil, fmt.Errorf("no PEG parser is wired into this build; set TABI_RES and link a grammar-backed Parser")
}

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "tabi:", err)
		os.Exit(exitCreationFailure)
	}
	os.Exit(run(opt))
}

func run(opt util.Options) int {
	libPath := append(util.LibPathFromEnv(os.Getenv("TABI_LIB")), opt.LibPath...)

	b := bundle.New()
	diags := diag.NewCollector(16)
	loader := bundle.NewLoader(b, unimplementedParser{}, ".", libPath, os.TempDir(), diags)

	_, loadErr := loader.LoadRoot(opt.Src)
	diags.Stop()
	if loadErr != nil || diags.Len() > 0 {
		reportCreationFailure(loadErr, diags)
		return exitCreationFailure
	}

	if opt.ShowAST {
		fmt.Printf("; run %s\n", b.RunID)
		for _, slab := range b.Slabs {
			fmt.Printf("; slab %s (%s)\n", slab.ID, slab.Path)
			printTree(slab.Tree, 0)
		}
		return exitSuccess
	}

	elabDiags := diag.NewCollector(16)
	elaborate.New(b, elabDiags).Run()
	elabDiags.Stop()
	if elabDiags.Len() > 0 {
		printDiagnostics(elabDiags)
		return exitElaborationFailure
	}

	lowerDiags := diag.NewCollector(4)
	defer lowerDiags.Stop()
	lowerer := lower.New(b, lowerDiags, hostSizeBits())
	defer lowerer.Dispose()
	if err := lowerer.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tabi: internal error during lowering:", err)
		return exitElaborationFailure
	}

	if opt.ShowIR {
		fmt.Printf("; run %s\n", b.RunID)
		for id := range b.Slabs {
			fmt.Println(lowerer.Module(id).String())
		}
	}

	outDir := opt.OutDir
	if outDir == "" {
		outDir = "."
	}
	emitter, err := emit.New(b, lowerer, outDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tabi: internal error setting up emitter:", err)
		return exitElaborationFailure
	}
	defer emitter.Dispose()

	results, err := emitter.Run(opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tabi: internal error during emission:", err)
		return exitElaborationFailure
	}

	return link(opt, emit.ObjectPaths(results))
}

// hostSizeBits picks 32 or 64 to match the host pointer width (spec.md §4.4: "choosing 32- or
// 64-bit Size to match host pointer size"). strconv.IntSize reports the platform int width, which
// tracks the pointer width on every architecture Go supports as a compiler host.
func hostSizeBits() int {
	if strconv.IntSize == 32 {
		return 32
	}
	return 64
}

// link invokes the host C compiler/linker to combine every emitted object with the runtime
// libraries (spec.md §6: "the driver invokes the host C compiler/linker ... with the runtime
// libraries tabi_std_cross and tabi_core_cross (or their raw equivalents with --raw)").
func link(opt util.Options, objects []string) int {
	stdLib, coreLib := "tabi_std_cross", "tabi_core_cross"
	if opt.Raw {
		stdLib, coreLib = "tabi_std", "tabi_core"
	}

	args := append([]string{}, objects...)
	args = append(args, "-l"+coreLib)
	if !opt.CStart {
		args = append(args, "-l"+stdLib)
	}
	for _, lib := range opt.LinkShare {
		args = append(args, "-l"+lib)
	}
	for _, lib := range opt.LinkStat {
		args = append(args, "-l:"+lib+".a")
	}
	for _, dir := range opt.LibPath {
		args = append(args, "-L"+dir)
	}
	if opt.OutDir != "" {
		args = append(args, "-o", opt.OutDir+"/tabi.out")
	}

	cmd := exec.Command("cc", args...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if opt.Verbose {
		fmt.Println("tabi: linking:", "cc", strings.Join(args, " "))
	}
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintln(os.Stderr, "tabi: could not invoke linker:", err)
		return exitCreationFailure
	}
	return exitSuccess
}

func reportCreationFailure(err error, diags *diag.Collector) {
	if err != nil {
		if d, ok := err.(diag.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, "tabi:", d.Error())
		} else {
			fmt.Fprintln(os.Stderr, "tabi:", err)
		}
	}
	printDiagnostics(diags)
}

func printDiagnostics(diags *diag.Collector) {
	for _, d := range diags.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

// printTree renders a syntax tree for --show-ast, indented by depth.
func printTree(n syntax.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	if tok := n.Token(); tok != "" {
		fmt.Printf("%s%s %q (%d:%d)\n", indent, n.Name(), tok, n.Line(), n.Col())
	} else {
		fmt.Printf("%s%s (%d:%d)\n", indent, n.Name(), n.Line(), n.Col())
	}
	for _, c := range n.Children() {
		printTree(c, depth+1)
	}
}
