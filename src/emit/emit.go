// Package emit implements spec.md §4.5's emitter: the external interface that turns a lowered
// bundle's llvm.Module values into on-disk artifacts. For every slab it verifies the module, then
// writes a textual bitcode file and a native object file compiled for the host target triple.
//
// Grounded on vslc's ir/llvm/transform.go target-machine setup (InitializeAllTargets family,
// CreateTargetMachine, EmitToMemoryBuffer) generalized from vslc's single whole-program module to
// tabi's one-module-per-slab bundle, with verification added ahead of every write (spec.md §4.5:
// "Verification runs before writing; failures abort the run").
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"tinygo.org/x/go-llvm"

	"tabi/src/bundle"
	"tabi/src/lower"
	"tabi/src/util"
)

// Result records what was written for one slab, surfaced for --show-ir/-vb reporting.
type Result struct {
	SlabID     string
	BitcodeOut string
	ObjectOut  string
	ObjectSize int64
}

// Emitter drives target-machine setup once and reuses it across every slab in the bundle.
type Emitter struct {
	Bundle *bundle.Bundle
	Lower  *lower.Lowerer
	OutDir string

	tm llvm.TargetMachine
}

var targetsInitialized bool

// initTargets performs the one-time process-wide LLVM target registration vslc's genTargetTriple
// does ahead of every compile; safe to call more than once across Emitters in the same process.
func initTargets() {
	if targetsInitialized {
		return
	}
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()
	targetsInitialized = true
}

// New builds an Emitter targeting the host's default triple (spec.md §4.5: "using the host target
// triple"). outDir is created if it does not already exist.
func New(b *bundle.Bundle, lw *lower.Lowerer, outDir string) (*Emitter, error) {
	initTargets()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return nil, fmt.Errorf("emit: resolving host target %q: %w", triple, err)
	}

	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault,
		llvm.RelocPIC,
		llvm.CodeModelDefault)

	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		tm.Dispose()
		return nil, fmt.Errorf("emit: creating output directory %q: %w", outDir, err)
	}

	return &Emitter{Bundle: b, Lower: lw, OutDir: outDir, tm: tm}, nil
}

// Dispose releases the underlying target machine.
func (e *Emitter) Dispose() {
	e.tm.Dispose()
}

// flattenID derives a filename stem from a slab id, replacing "/" with "_" (spec.md §4.5).
func flattenID(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

// Run emits every slab's module to a bitcode file and an object file in OutDir, verifying each
// module before writing it (spec.md §4.5). The order slabs are emitted in does not matter — each
// one's IR is self-contained and resolves cross-slab calls by symbol name, left to the linker.
func (e *Emitter) Run(opt util.Options) ([]Result, error) {
	results := make([]Result, 0, len(e.Bundle.Slabs))
	for id, slab := range e.Bundle.Slabs {
		m := e.Lower.Module(id)

		if err := llvm.VerifyModule(m, llvm.ReturnStatusAction); err != nil {
			return results, fmt.Errorf("emit: slab %q failed verification: %w", slab.ID, err)
		}

		td := e.tm.CreateTargetData()
		m.SetDataLayout(td.String())
		m.SetTarget(e.tm.Triple())
		td.Dispose()

		stem := flattenID(id)
		bcPath := filepath.Join(e.OutDir, stem+".bc")
		objPath := filepath.Join(e.OutDir, stem+".o")

		if ok := llvm.WriteBitcodeToFile(m, bcPath); !ok {
			return results, fmt.Errorf("emit: slab %q: writing bitcode to %s", slab.ID, bcPath)
		}

		buf, err := e.tm.EmitToMemoryBuffer(m, llvm.ObjectFile)
		if err != nil {
			return results, fmt.Errorf("emit: slab %q: compiling to object: %w", slab.ID, err)
		}
		bytes := buf.Bytes()
		if err := os.WriteFile(objPath, bytes, 0o644); err != nil {
			return results, fmt.Errorf("emit: slab %q: writing object to %s: %w", slab.ID, objPath, err)
		}

		res := Result{SlabID: slab.ID, BitcodeOut: bcPath, ObjectOut: objPath, ObjectSize: int64(len(bytes))}
		results = append(results, res)

		if opt.Verbose {
			fmt.Printf("emit: %s -> %s (%s)\n", slab.ID, objPath, humanize.Bytes(uint64(len(bytes))))
		}
	}
	return results, nil
}

// ObjectPaths collects every emitted object file's path, in the order Run produced them, for
// handing to the linker driver.
func ObjectPaths(results []Result) []string {
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.ObjectOut
	}
	return paths
}
