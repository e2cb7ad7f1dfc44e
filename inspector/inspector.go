package inspector

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
)

const defaultFilename = "source.go"

// Inspector turns Go sources into analysis Units: parsed files plus resolved
// type information. Symbol resolution is tolerant - type errors are collected
// on the Unit rather than failing the pass, so partially-resolvable code still
// produces a (less precise) model.
type Inspector struct {
	fset     *token.FileSet
	importer *moduleImporter
}

// New creates a new Inspector
func New() *Inspector {
	return &Inspector{
		fset: token.NewFileSet(),
		importer: &moduleImporter{
			base:      importer.Default(),
			synthetic: make(map[string]*types.Package),
		},
	}
}

// AddPackage type-checks the supplied sources as a standalone package
// registered under importPath, making it importable by subsequently inspected
// units. It generalizes stdlib importing to dependency packages supplied
// in memory.
func (i *Inspector) AddPackage(importPath string, sources ...[]byte) (*types.Package, error) {
	var files []*ast.File
	for index, src := range sources {
		filename := fmt.Sprintf("%s/dep_%d.go", importPath, index+1)
		file, err := parser.ParseFile(i.fset, filename, src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
		files = append(files, file)
	}
	conf := types.Config{
		Importer: i.importer,
		Error:    func(error) {}, // tolerate partial resolution
	}
	pkg, err := conf.Check(importPath, i.fset, files, nil)
	if pkg == nil {
		return nil, fmt.Errorf("failed to check package %s: %w", importPath, err)
	}
	pkg.MarkComplete()
	i.importer.synthetic[importPath] = pkg
	return pkg, nil
}

// InspectSource parses and type-checks one or more source files belonging to
// a single package and returns the resulting Unit
func (i *Inspector) InspectSource(sources ...[]byte) (*Unit, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources supplied")
	}
	var named []namedSource
	for index, src := range sources {
		filename := defaultFilename
		if index > 0 {
			filename = fmt.Sprintf("source_%d.go", index+1)
		}
		named = append(named, namedSource{name: filename, data: src})
	}
	return i.inspect(named)
}

// InspectFiles parses and type-checks the given files as a single package
func (i *Inspector) InspectFiles(filenames ...string) (*Unit, error) {
	var named []namedSource
	for _, filename := range filenames {
		src, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		named = append(named, namedSource{name: filename, data: src})
	}
	return i.inspect(named)
}

// InspectDirectory inspects all non-test Go files in a directory as a single package
func (i *Inspector) InspectDirectory(dir string) (*Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || !GoFile(entry.Name()) {
			continue
		}
		filenames = append(filenames, filepath.Join(dir, entry.Name()))
	}
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no Go sources in %s", dir)
	}
	return i.InspectFiles(filenames...)
}

type namedSource struct {
	name string
	data []byte
}

func (i *Inspector) inspect(sources []namedSource) (*Unit, error) {
	var files []*ast.File
	for _, source := range sources {
		file, err := parser.ParseFile(i.fset, source.name, source.data, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source.name, err)
		}
		files = append(files, file)
	}

	unit := &Unit{
		Path:    sources[0].name,
		FileSet: i.fset,
		Files:   files,
		Info: &types.Info{
			Types:      make(map[ast.Expr]types.TypeAndValue),
			Defs:       make(map[*ast.Ident]types.Object),
			Uses:       make(map[*ast.Ident]types.Object),
			Selections: make(map[*ast.SelectorExpr]*types.Selection),
		},
	}

	conf := types.Config{
		Importer: i.importer,
		Error: func(err error) {
			// Partial type errors degrade resolution, not the pass.
			unit.TypeErrors = append(unit.TypeErrors, err)
		},
	}
	pkgPath := files[0].Name.Name
	pkg, err := conf.Check(pkgPath, i.fset, files, unit.Info)
	if pkg == nil {
		return nil, fmt.Errorf("failed to type-check %s: %w", pkgPath, err)
	}
	unit.Package = pkg
	return unit, nil
}

// GoFile reports whether the name denotes a non-test Go source file
func GoFile(name string) bool {
	return filepath.Ext(name) == ".go" && !strings.HasSuffix(name, "_test.go")
}

// moduleImporter resolves imports against in-memory synthetic packages first,
// falling back to the compiler's export data for the standard library
type moduleImporter struct {
	base      types.Importer
	synthetic map[string]*types.Package
}

func (m *moduleImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := m.synthetic[path]; ok {
		return pkg, nil
	}
	return m.base.Import(path)
}
