// Command config-check validates a settings XML document, and optionally a
// companion rules CSV, against the built-in catalogs. Rule validation runs
// with the entity context of the parsed settings document, so rules
// referencing undefined substrates or cell types are reported.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"physiconf/internal/codec/rulecsv"
	"physiconf/internal/codec/settingsxml"
	"physiconf/pkg/registry"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("config-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var settingsPath, rulesPath string
	fs.StringVar(&settingsPath, "settings", "config/PhysiCell_settings.xml", "path to settings XML")
	fs.StringVar(&rulesPath, "rules", "", "path to rules CSV (optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := run(settingsPath, rulesPath, stdout); err != nil {
		fmt.Fprintf(stderr, "Configuration validation failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Configuration validation passed.")
	return 0
}

// validatePath rejects absolute and path-traversing references so the tool
// only reads within the working tree.
func validatePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths not allowed: %s", p)
	}
	clean := filepath.Clean(p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("path traversal not allowed: %s", p)
	}
	return clean, nil
}

func run(settingsPath, rulesPath string, stdout io.Writer) error {
	safeSettings, err := validatePath(settingsPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(safeSettings) // #nosec G304: path validated by validatePath
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	templates := registry.NewTemplateStore()
	signals := registry.NewSignalBehaviorRegistry()
	codec := settingsxml.NewCodec(templates, signals)
	m, err := codec.Parse(data)
	if err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	fmt.Fprintf(stdout, "settings: %d substrates, %d cell definitions, %d rulesets\n",
		len(m.Substrates()), len(m.CellTypes()), len(m.Rulesets()))

	if rulesPath == "" {
		return nil
	}
	safeRules, err := validatePath(rulesPath)
	if err != nil {
		return err
	}
	rulesData, err := os.ReadFile(safeRules) // #nosec G304: path validated by validatePath
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}
	rc := rulecsv.NewCodec(signals)
	if issues := rc.Validate(rulesData, m.Context()); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(stdout, "rules: %v\n", issue)
		}
		return fmt.Errorf("rules file has %d problem(s)", len(issues))
	}
	rules, err := rc.Decode(rulesData, m.Context())
	if err != nil {
		return fmt.Errorf("decode rules: %w", err)
	}
	fmt.Fprintf(stdout, "rules: %d rows\n", len(rules))
	return nil
}
