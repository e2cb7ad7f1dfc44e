package inspector

import (
	"context"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// LoadPackages loads on-disk packages matching the given patterns with full
// syntax and resolved type information, one Unit per package
func LoadPackages(ctx context.Context, patterns ...string) ([]*Unit, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Fset:    fset,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", patterns, err)
	}
	var units []*Unit
	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		unit := &Unit{
			Path:    pkg.PkgPath,
			Package: pkg.Types,
			Info:    pkg.TypesInfo,
			Files:   pkg.Syntax,
			FileSet: fset,
		}
		if pkg.Module != nil {
			unit.Module = pkg.Module.Path
		} else if len(pkg.GoFiles) > 0 {
			unit.Module, _ = DetectModule(ctx, pkg.GoFiles[0])
		}
		for _, pkgErr := range pkg.Errors {
			unit.TypeErrors = append(unit.TypeErrors, pkgErr)
		}
		units = append(units, unit)
	}
	return units, nil
}

// DetectModule resolves the module path governing the supplied file or
// directory by walking up to the nearest go.mod
func DetectModule(ctx context.Context, location string) (string, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	dir := absPath
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(absPath)
	}
	fs := afs.New()
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if content, _ := fs.DownloadWithURL(ctx, goModPath); len(content) > 0 {
			if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil && mod.Module != nil {
				return mod.Module.Mod.Path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
