package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
	"tabi/src/util"
)

// Domain distinguishes a local attachment (resolved relative to the referencing file) from an
// external one (resolved by searching TABI_LIB, spec.md §4.1).
type Domain int

const (
	DomainLocal Domain = iota
	DomainExternal
)

// Parser is the external collaborator that turns preprocessed source text into an opaque syntax
// tree (spec.md §1: "the core consumes an opaque tree with named nodes").
type Parser interface {
	Parse(source string) (syntax.Node, error)
}

// Loader resolves slab references to canonical identifiers, reads and preprocesses their source,
// hands it to Parser, and performs the single-walk declaration-creation pass over the result
// (spec.md §4.1-§4.2).
type Loader struct {
	Bundle     *Bundle
	Parser     Parser
	WorkDir    string
	LibPath    []string
	ScratchDir string
	Diags      *diag.Collector
}

// NewLoader returns a Loader rooted at workDir, searching libPath for external attachments.
func NewLoader(b *Bundle, p Parser, workDir string, libPath []string, scratchDir string, diags *diag.Collector) *Loader {
	return &Loader{Bundle: b, Parser: p, WorkDir: workDir, LibPath: libPath, ScratchDir: scratchDir, Diags: diags}
}

// LoadRoot resolves and loads path as the bundle's root slab.
func (l *Loader) LoadRoot(path string) (*model.Slab, error) {
	slab, err := l.getOrCreateSlab(DomainLocal, path, nil)
	if err != nil {
		return nil, err
	}
	l.Bundle.RootID = slab.ID
	return slab, nil
}

// getOrCreateSlab implements spec.md §4.1's eponymous operation: resolve the canonical id for
// (domain, relativeID) relative to hostSlab, return the cached slab if the bundle already has
// one, otherwise read, preprocess, parse and run the create pass over a fresh one.
func (l *Loader) getOrCreateSlab(domain Domain, relativeID string, hostSlab *model.Slab) (*model.Slab, error) {
	id, path, err := l.resolve(domain, relativeID, hostSlab)
	if err != nil {
		return nil, diag.Diagnostic{Kind: diag.CannotRead, Message: err.Error(), Detail: relativeID}
	}
	if existing, ok := l.Bundle.Slabs[id]; ok {
		return existing, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Diagnostic{Kind: diag.CannotRead, Message: "could not read slab source", Detail: path}
	}
	pre, err := util.Preprocess(string(raw), l.ScratchDir)
	if err != nil {
		return nil, diag.Diagnostic{Kind: diag.CannotRead, Message: "preprocessor failed", Detail: err.Error()}
	}
	tree, err := l.Parser.Parse(pre)
	if err != nil {
		return nil, diag.Diagnostic{Kind: diag.SyntaxError, Message: err.Error(), Detail: path}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slab := model.NewSlab(id, name, path, pre, tree)
	l.Bundle.Add(slab)

	if err := l.createDeclarations(slab); err != nil {
		return slab, err
	}
	return slab, nil
}

// resolve computes the canonical id and filesystem path for a reference, per spec.md §4.1.
func (l *Loader) resolve(domain Domain, relativeID string, hostSlab *model.Slab) (id string, path string, err error) {
	switch domain {
	case DomainLocal:
		base := l.WorkDir
		if hostSlab != nil {
			base = filepath.Dir(hostSlab.Path)
		}
		resolved := filepath.Clean(filepath.Join(base, relativeID))
		return "LOCAL_" + resolved, resolved, nil
	case DomainExternal:
		for _, dir := range l.LibPath {
			pattern := filepath.ToSlash(filepath.Join(dir, "**", relativeID+".tabi"))
			if matches, globErr := doublestar.FilepathGlob(pattern); globErr == nil && len(matches) > 0 {
				return "EXTERNAL_" + relativeID, matches[0], nil
			}
			candidate := filepath.Join(dir, relativeID+".tabi")
			if _, statErr := os.Stat(candidate); statErr == nil {
				return "EXTERNAL_" + relativeID, candidate, nil
			}
		}
		return "", "", fmt.Errorf("external attachment %q not found in TABI_LIB", relativeID)
	default:
		return "", "", fmt.Errorf("unknown attachment domain %d", domain)
	}
}

// LibPathFromEnv splits the TABI_LIB environment variable on the platform delimiter (spec.md
// §4.1): ';' on Windows, ':' elsewhere.
func LibPathFromEnv(value string) []string {
	if value == "" {
		return nil
	}
	sep := ":"
	if os.PathSeparator == '\\' {
		sep = ";"
	}
	return strings.Split(value, sep)
}
