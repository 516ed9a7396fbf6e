package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/permit"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		handleConvert()
	case "validate":
		handleValidate()
	case "stats":
		handleStats()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("permit-config - Configuration tool for permit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  permit-config convert <input> <output>  - Convert between formats")
	fmt.Println("  permit-config validate <file>           - Validate grant configuration")
	fmt.Println("  permit-config stats <file>              - Show configuration statistics")
	fmt.Println()
	fmt.Println("Supported formats: .yaml, .yml, .json")
}

func handleConvert() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: permit-config convert <input> <output>")
		os.Exit(1)
	}
	cfg, err := permit.NewConfigLoader().LoadFile(os.Args[2])
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := saveConfig(cfg, os.Args[3]); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Converted %s -> %s\n", os.Args[2], os.Args[3])
}

func handleValidate() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: permit-config validate <file>")
		os.Exit(1)
	}
	cfg, err := permit.NewConfigLoader().LoadFile(os.Args[2])
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Configuration is valid")
}

func handleStats() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: permit-config stats <file>")
		os.Exit(1)
	}
	cfg, err := permit.NewConfigLoader().LoadFile(os.Args[2])
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	roles := make(map[string]int)
	entities := make(map[string]int)
	dynamic := 0
	for _, g := range cfg.Grants {
		roles[g.Role]++
		entities[g.Entity]++
		if len(g.Filters) > 0 {
			dynamic++
		}
	}
	fmt.Printf("Version: %d\n", cfg.Version)
	fmt.Printf("Grants:  %d (%d with dynamic filters)\n", len(cfg.Grants), dynamic)
	fmt.Printf("Roles:   %d\n", len(roles))
	for r, n := range roles {
		fmt.Printf("  %-10s %d\n", r, n)
	}
	fmt.Printf("Entities: %d\n", len(entities))
	for e, n := range entities {
		fmt.Printf("  %-16s %d\n", e, n)
	}
}

func saveConfig(cfg *permit.Config, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = cfg.ToYAML()
	case ".json":
		data, err = cfg.ToJSON()
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
