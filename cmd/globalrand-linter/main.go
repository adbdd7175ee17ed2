package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enigmacrack/enigmacrack/pkg/linter/globalrand"
)

var (
	rootDir      = flag.String("dir", ".", "Root directory to scan")
	outputFormat = flag.String("format", "text", "Output format (text, json)")
	exemptFile   = flag.String("exempt-file", "", "Path to a JSON file containing exemptions")
	skipTests    = flag.Bool("skip-tests", false, "Do not check _test.go files")
	silentMode   = flag.Bool("silent", false, "Only output if issues are found")
	exitWithCode = flag.Bool("exit-code", true, "Exit with non-zero code if issues found")
)

func main() {
	flag.Parse()

	config := globalrand.NewDefaultConfig()
	config.SkipTests = *skipTests

	if *exemptFile != "" {
		exemptions, err := loadExemptionsFromFile(*exemptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading exemptions: %v\n", err)
			os.Exit(1)
		}
		config.ExemptFiles = exemptions
		config.LogExemptions = !*silentMode
	}

	absRootDir, err := filepath.Abs(*rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}

	if !*silentMode {
		fmt.Printf("Scanning directory: %s\n", absRootDir)
	}

	issues, err := globalrand.LintProject(absRootDir, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during linting: %v\n", err)
		os.Exit(1)
	}

	if len(issues) == 0 {
		if !*silentMode {
			fmt.Println("No issues found.")
		}
		return
	}

	if *outputFormat == "json" {
		outputJSON(issues)
	} else {
		outputText(absRootDir, issues)
	}
	if *exitWithCode {
		os.Exit(1)
	}
}

func outputText(root string, issues []globalrand.Issue) {
	fmt.Printf("Found %d issues:\n\n", len(issues))
	for i, issue := range issues {
		relativePath, err := filepath.Rel(root, issue.File)
		if err != nil {
			relativePath = issue.File
		}
		fmt.Printf("%d) %s:%d:%d: %s\n", i+1, relativePath, issue.Line, issue.Column, issue.Message)
	}
	fmt.Println("\nSearch code must draw randomness from seeded streams (core/search.NewStream) so runs can be replayed.")
}

func outputJSON(issues []globalrand.Issue) {
	type jsonOutput struct {
		Issues []globalrand.Issue `json:"issues"`
		Total  int                `json:"total_issues"`
		Text   string             `json:"summary"`
	}

	output := jsonOutput{
		Issues: issues,
		Total:  len(issues),
		Text:   "Global math/rand source used. Draw from a seeded *rand.Rand instead.",
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling to JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

func loadExemptionsFromFile(filePath string) ([]globalrand.ExemptFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var exemptions []globalrand.ExemptFile
	if err := json.Unmarshal(data, &exemptions); err != nil {
		return nil, err
	}
	return exemptions, nil
}
