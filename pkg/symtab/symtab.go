// Package symtab loads the function symbols known for a target binary.
package symtab

import (
	"debug/elf"
	"fmt"

	"github.com/blacktop/go-macho"
	"github.com/pkg/errors"
)

// Symbol is one named function address known for a target binary.
type Symbol struct {
	Name    string
	Address uint64
	Size    uint64
}

// Source supplies the function symbols of a loaded target. A debugger host
// that already holds a live symbol table can implement this directly; Open
// parses the binary on disk instead.
type Source interface {
	Functions() ([]Symbol, error)
}

// Table is an eagerly parsed symbol table. Order matches the binary's
// symbol table.
type Table struct {
	syms []Symbol
}

// Functions returns the function symbols of the target.
func (t *Table) Functions() ([]Symbol, error) {
	return t.syms, nil
}

// Open parses the function symbols out of an ELF or Mach-O binary.
func Open(path string) (*Table, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		return elfTable(f)
	}
	if fat, err := macho.OpenFat(path); err == nil {
		defer fat.Close()
		return machoTable(fat.Arches[len(fat.Arches)-1].File)
	} else if errors.Is(err, macho.ErrNotFat) {
		if m, err := macho.Open(path); err == nil {
			defer m.Close()
			return machoTable(m)
		}
	}
	return nil, fmt.Errorf("%s is not an ELF or Mach-O binary", path)
}

func elfTable(f *elf.File) (*Table, error) {
	syms, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		// stripped binaries still carry their exported functions
		syms, err = f.DynamicSymbols()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read ELF symbol table")
	}
	return &Table{syms: elfFunctions(syms)}, nil
}

func elfFunctions(syms []elf.Symbol) []Symbol {
	var funcs []Symbol
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Value == 0 {
			continue
		}
		funcs = append(funcs, Symbol{Name: sym.Name, Address: sym.Value, Size: sym.Size})
	}
	return funcs
}

func machoTable(m *macho.File) (*Table, error) {
	if m.Symtab == nil {
		return nil, fmt.Errorf("binary has no symbol table")
	}
	sizes := make(map[uint64]uint64)
	for _, fn := range m.GetFunctions() {
		sizes[fn.StartAddr] = uint64(fn.EndAddr - fn.StartAddr)
	}
	return &Table{syms: machoFunctions(m.Symtab.Syms, sizes)}, nil
}

func machoFunctions(syms []macho.Symbol, sizes map[uint64]uint64) []Symbol {
	var funcs []Symbol
	for _, sym := range syms {
		if sym.Type.IsDebugSym() || !sym.Type.IsDefinedInSection() || sym.Value == 0 {
			continue
		}
		if len(sizes) > 0 {
			// LC_FUNCTION_STARTS is present; anything not in it is data
			size, ok := sizes[sym.Value]
			if !ok {
				continue
			}
			funcs = append(funcs, Symbol{Name: sym.Name, Address: sym.Value, Size: size})
			continue
		}
		funcs = append(funcs, Symbol{Name: sym.Name, Address: sym.Value})
	}
	return funcs
}
