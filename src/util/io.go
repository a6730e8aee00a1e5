package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// preprocessorDelimiter marks the boundary of an embedded preprocessor command per spec.md §6:
// text between balanced "##...##" pairs is "##<command>##<payload>##".
const preprocessorDelimiter = "##"

// ReadSource reads the raw text of the root source file named in opt.Src.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) == 0 {
		return "", fmt.Errorf("no source file given")
	}
	b, err := os.ReadFile(opt.Src)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", opt.Src, err)
	}
	return string(b), nil
}

// Preprocess runs the embedded-command preprocessing pass over raw source text. Each
// "##<command>##<payload>##" block has its payload written to a scratch file, <command> is
// executed via the host shell, and the block is replaced wholesale by the scratch output file's
// contents. This is the "source text in, source text out" external collaborator of spec.md §6;
// Preprocess implements its contract directly since it is small and self-contained.
func Preprocess(src string, scratchDir string) (string, error) {
	if scratchDir == "" {
		scratchDir = "."
	}
	srcScratch := filepath.Join(scratchDir, "tabic_pre.src")
	dstScratch := filepath.Join(scratchDir, "tabic_pre.dst")

	closer := 0
	for {
		opener := strings.Index(src[closer:], preprocessorDelimiter)
		if opener < 0 {
			break
		}
		opener += closer

		commandStart := opener + len(preprocessorDelimiter)
		commandEndRel := strings.Index(src[commandStart:], preprocessorDelimiter)
		if commandEndRel < 0 {
			return "", fmt.Errorf("unterminated preprocessor command starting at byte %d", opener)
		}
		commandEnd := commandStart + commandEndRel
		command := src[commandStart:commandEnd]

		payloadStart := commandEnd + len(preprocessorDelimiter)
		closerRel := strings.Index(src[payloadStart:], preprocessorDelimiter)
		if closerRel < 0 {
			return "", fmt.Errorf("unterminated preprocessor block starting at byte %d", opener)
		}
		blockEnd := payloadStart + closerRel
		payload := src[payloadStart:blockEnd]
		closer = blockEnd + len(preprocessorDelimiter)

		if err := os.WriteFile(srcScratch, []byte(payload), 0644); err != nil {
			return "", fmt.Errorf("preprocessor: %w", err)
		}
		if err := exec.Command("sh", "-c", command).Run(); err != nil {
			return "", fmt.Errorf("preprocessor command %q failed: %w", command, err)
		}
		out, err := os.ReadFile(dstScratch)
		if err != nil {
			return "", fmt.Errorf("preprocessor: %w", err)
		}

		src = src[:opener] + string(out) + src[closer:]
		closer = opener + len(out)
	}
	return src, nil
}
