// Package globalrand reports uses of the package-level math/rand source.
// Search results are reproducible only when every random draw comes from an
// explicitly seeded *rand.Rand, so calls such as rand.IntN or rand.Shuffle
// are flagged while constructors like rand.New and rand.NewPCG are allowed.
package globalrand

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Issue represents a detected use of the global random source.
type Issue struct {
	File    string
	Line    int
	Column  int
	Message string
}

// ExemptFile contains information about a file exempt from the check.
type ExemptFile struct {
	Path   string
	Reason string
}

// Config contains configuration for the linter.
type Config struct {
	// ExemptFiles is a list of files exempt from the check
	ExemptFiles []ExemptFile

	// ExemptDirectories is a list of directories exempt from the check
	ExemptDirectories []string

	// SkipTests leaves _test.go files unchecked
	SkipTests bool

	// LogExemptions determines whether to log when an exemption is used
	LogExemptions bool
}

// NewDefaultConfig creates a default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		ExemptFiles:       []ExemptFile{},
		ExemptDirectories: []string{},
	}
}

var randPackages = map[string]bool{
	"math/rand":    true,
	"math/rand/v2": true,
}

// allowed names do not touch the shared source.
var allowed = map[string]bool{
	"New":        true,
	"NewSource":  true,
	"NewPCG":     true,
	"NewChaCha8": true,
	"NewZipf":    true,
	"Rand":       true,
	"Source":     true,
	"PCG":        true,
	"ChaCha8":    true,
	"Zipf":       true,
}

// LintProject checks all Go files below rootDir.
func LintProject(rootDir string, config *Config) ([]Issue, error) {
	if config == nil {
		config = NewDefaultConfig()
	}

	var issues []Issue

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != rootDir && strings.HasPrefix(info.Name(), "_") {
				return filepath.SkipDir
			}
			for _, exemptDir := range config.ExemptDirectories {
				exemptPath := filepath.Join(rootDir, exemptDir)
				if strings.HasPrefix(path, exemptPath) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		if config.SkipTests && strings.HasSuffix(path, "_test.go") {
			return nil
		}

		for _, exemptFile := range config.ExemptFiles {
			if strings.HasSuffix(path, exemptFile.Path) {
				if config.LogExemptions {
					fmt.Printf("Skipping exempt file: %s (Reason: %s)\n", path, exemptFile.Reason)
				}
				return nil
			}
		}

		fileIssues, err := LintFile(path)
		if err != nil {
			return fmt.Errorf("error linting file %s: %w", path, err)
		}

		issues = append(issues, fileIssues...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return issues, nil
}

// LintFile checks a single Go file.
func LintFile(filePath string) ([]Issue, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return LintSource(filePath, src)
}

// LintSource checks Go source held in memory. filePath is only used for reporting.
func LintSource(filePath string, src []byte) ([]Issue, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filePath, src, 0)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	var issues []Issue
	report := func(pos token.Pos, msg string) {
		p := fset.Position(pos)
		issues = append(issues, Issue{File: filePath, Line: p.Line, Column: p.Column, Message: msg})
	}

	// Local names under which a rand package is imported.
	names := map[string]string{}
	for _, imp := range node.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !randPackages[importPath] {
			continue
		}
		name := "rand"
		if imp.Name != nil {
			name = imp.Name.Name
		}
		switch name {
		case "_":
			continue
		case ".":
			report(imp.Pos(), fmt.Sprintf("dot import of %s hides calls to the global random source", importPath))
			continue
		}
		names[name] = importPath
	}
	if len(names) == 0 {
		return issues, nil
	}

	ast.Inspect(node, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		importPath, ok := names[pkg.Name]
		// A non-nil Obj means the identifier resolves to a local declaration shadowing the import.
		if !ok || pkg.Obj != nil || allowed[sel.Sel.Name] {
			return true
		}
		report(sel.Pos(), fmt.Sprintf("%s.%s uses the global %s source; draw from a seeded *rand.Rand instead", pkg.Name, sel.Sel.Name, importPath))
		return true
	})

	return issues, nil
}
