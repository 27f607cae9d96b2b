// Package decompiler resolves a function name against a target binary's
// symbol table and drives the ghidrecomp headless decompiler over it.
//
// Every decompilation is one blocking subprocess invocation with no retries:
// the tool either hands back decompiled C or its diagnostics are surfaced
// verbatim through FailedError.
package decompiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/gdecomp/gdecomp/internal/utils"
	"github.com/gdecomp/gdecomp/pkg/symtab"
)

// Config holds one resolver's immutable settings.
type Config struct {
	// Target is the path of the binary being decompiled.
	Target string
	// GhidraDir is the Ghidra install exported as GHIDRA_INSTALL_DIR.
	GhidraDir string
	// Tool is the decompiler executable (default "ghidrecomp").
	Tool string
	// Output is where per-function decompilations are written; a scratch
	// directory is created when empty.
	Output string
	// Keep retains the output directory after the invocation.
	Keep bool
}

// Resolver matches function names against a symbol source and invokes the
// external decompiler on the unique match.
type Resolver struct {
	conf *Config
	src  symtab.Source
}

// New creates a Resolver for one target binary.
func New(conf *Config, src symtab.Source) *Resolver {
	if conf.Tool == "" {
		conf.Tool = "ghidrecomp"
	}
	return &Resolver{conf: conf, src: src}
}

// Match returns the symbols matching name: exact matches when any exist,
// substring matches otherwise. Symbol-table order is preserved.
func Match(syms []symtab.Symbol, name string) []symtab.Symbol {
	var exact []symtab.Symbol
	var sub []symtab.Symbol
	for _, sym := range syms {
		if sym.Name == name {
			exact = append(exact, sym)
		} else if strings.Contains(sym.Name, name) {
			sub = append(sub, sym)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return sub
}

// Resolve maps a requested function name to exactly one symbol.
//
// It returns ErrNoSuchFunction when nothing matches and *AmbiguousNameError
// when the name matches more than one symbol.
func (r *Resolver) Resolve(name string) (symtab.Symbol, error) {
	syms, err := r.src.Functions()
	if err != nil {
		return symtab.Symbol{}, errors.Wrapf(err, "failed to get function symbols for %s", r.conf.Target)
	}

	matches := Match(syms, name)
	switch len(matches) {
	case 0:
		return symtab.Symbol{}, ErrNoSuchFunction
	case 1:
		return matches[0], nil
	default:
		var candidates []string
		for _, sym := range matches {
			candidates = append(candidates, sym.Name)
		}
		return symtab.Symbol{}, &AmbiguousNameError{Query: name, Candidates: utils.Unique(candidates)}
	}
}

// Decompile runs the external decompiler over the resolved symbol and
// returns the decompiled source text.
func (r *Resolver) Decompile(sym symtab.Symbol) (string, error) {
	tool, err := exec.LookPath(r.conf.Tool)
	if err != nil {
		return "", &FailedError{Tool: r.conf.Tool, Err: err}
	}

	outDir := r.conf.Output
	if outDir == "" {
		outDir, err = os.MkdirTemp("", "gdecomp")
		if err != nil {
			return "", errors.Wrap(err, "failed to create output directory")
		}
	} else {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return "", errors.Wrapf(err, "failed to create output directory %s", outDir)
		}
	}
	if !r.conf.Keep {
		defer os.RemoveAll(outDir)
	}

	cmd := exec.Command(tool,
		"--filter", fmt.Sprintf("^%s$", regexp.QuoteMeta(sym.Name)),
		"-o", outDir,
		r.conf.Target,
	)
	cmd.Env = append(os.Environ(), "GHIDRA_INSTALL_DIR="+r.conf.GhidraDir)

	log.WithFields(log.Fields{
		"tool":     tool,
		"function": sym.Name,
		"target":   r.conf.Target,
	}).Debug("running decompiler")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &FailedError{Tool: r.conf.Tool, Output: string(out), Err: err}
	}

	src, err := r.readDecompiled(outDir, sym)
	if err != nil {
		return "", &FailedError{Tool: r.conf.Tool, Output: string(out), Err: err}
	}

	return src, nil
}

// DecompileByName is Resolve followed by Decompile: the three-outcome
// contract surfaced to host adapters.
func (r *Resolver) DecompileByName(name string) (string, error) {
	sym, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return r.Decompile(sym)
}

// readDecompiled locates the per-function output file the tool wrote. Both
// the nested <out>/<target>/<function>* layout and a flat layout are
// accepted.
func (r *Resolver) readDecompiled(outDir string, sym symtab.Symbol) (string, error) {
	pattern := sym.Name + "*"
	files, _ := filepath.Glob(filepath.Join(outDir, filepath.Base(r.conf.Target), pattern))
	if len(files) == 0 {
		files, _ = filepath.Glob(filepath.Join(outDir, pattern))
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no decompiled output for %s", sym.Name)
	}
	sort.Strings(files)

	data, err := os.ReadFile(files[0])
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", fmt.Errorf("empty decompiled output for %s", sym.Name)
	}

	return string(data), nil
}
