package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds every setting parsed from the command line. It is threaded unmodified
// through the whole pipeline, exactly as vslc threads its own Options struct.
type Options struct {
	Src       string   // Path to the root source file.
	OutDir    string   // -o: output directory for per-slab .bc/.o files.
	LinkShare []string // -l: shared libraries to pass to the linker.
	LinkStat  []string // -ls: static libraries to pass to the linker.
	LibPath   []string // -L: extra library search directories, in addition to TABI_LIB.
	ShowAST   bool      // --show-ast: print the syntax tree of every loaded slab and exit before elaboration.
	ShowIR    bool      // --show-ir: dump LLVM IR for every module before emission.
	Raw       bool      // --raw: link against tabi_std/tabi_core instead of the *_cross runtime variants.
	CStart    bool      // --c-start: let the host C runtime provide `main`, rather than the `_tabi_*` ABI.
	Verbose   bool      // -vb: print compiler statistics to stdout.
	Threads   int       // Worker thread count. ParseArgs has no flag that sets it and no pass reads it.
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64 // Maximum threads allowed executing in parallel.
const appVersion = "tabi compiler 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options structure.
func ParseArgs(args []string) (Options, error) {
	opt := Options{}
	var positional []string

	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "--show-ast":
			opt.ShowAST = true
		case "--show-ir":
			opt.ShowIR = true
		case "--raw":
			opt.Raw = true
		case "--c-start":
			opt.CStart = true
		case "-vb":
			opt.Verbose = true
		case "-o":
			if v, err := requireArg(args, &i1); err != nil {
				return opt, err
			} else {
				opt.OutDir = v
			}
		case "-l":
			if v, err := requireArg(args, &i1); err != nil {
				return opt, err
			} else {
				opt.LinkShare = append(opt.LinkShare, v)
			}
		case "-ls":
			if v, err := requireArg(args, &i1); err != nil {
				return opt, err
			} else {
				opt.LinkStat = append(opt.LinkStat, v)
			}
		case "-L":
			if v, err := requireArg(args, &i1); err != nil {
				return opt, err
			} else {
				opt.LibPath = append(opt.LibPath, v)
			}
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			positional = append(positional, args[i1])
		}
	}

	switch len(positional) {
	case 0:
		return opt, fmt.Errorf("expected a root source file")
	case 1:
		opt.Src = positional[0]
	default:
		return opt, fmt.Errorf("expected exactly one root source file, got %d", len(positional))
	}
	return opt, nil
}

// requireArg consumes the argument following args[*i1], advancing *i1, or reports an error
// if none is present or it looks like another flag.
func requireArg(args []string, i1 *int) (string, error) {
	if *i1+1 >= len(args) {
		return "", fmt.Errorf("got flag %s but no argument", args[*i1])
	}
	v := args[*i1+1]
	if strings.HasPrefix(v, "-") {
		return "", fmt.Errorf("flag %s expected an argument, got new flag %s", args[*i1], v)
	}
	*i1++
	return v, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "usage: tabi [options] <root-file>")
	_, _ = fmt.Fprintln(w, "-o <dir>\tOutput directory for per-slab .bc/.o files.")
	_, _ = fmt.Fprintln(w, "-l <name>\tShared link library passed to the linker.")
	_, _ = fmt.Fprintln(w, "-ls <name>\tStatic link library passed to the linker.")
	_, _ = fmt.Fprintln(w, "-L <dir>\tExtra library search path for attachment resolution.")
	_, _ = fmt.Fprintln(w, "--show-ast\tPrint the syntax tree of every loaded slab and exit.")
	_, _ = fmt.Fprintln(w, "--show-ir\tDump LLVM IR for every module before emission.")
	_, _ = fmt.Fprintln(w, "--raw\tLink against tabi_std/tabi_core instead of tabi_std_cross/tabi_core_cross.")
	_, _ = fmt.Fprintln(w, "--c-start\tLet the host C runtime provide main instead of the _tabi_* ABI.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_, _ = fmt.Fprintln(w, "-h, --help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-v, --version\tPrints the compiler version and exits.")
	_ = w.Flush()
}
