// cmd/clientgen generates the typed API client from the CUE schema package.
//
// It reads entity definitions and the route table from the schema directory,
// then writes the models, schemas, and client units into the output
// directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BearLemma/blogs/internal/cueload"
	"github.com/BearLemma/blogs/internal/gen"
)

type config struct {
	SchemaDir     string `yaml:"schema_dir"`
	OutDir        string `yaml:"out_dir"`
	Package       string `yaml:"package"`
	RuntimeImport string `yaml:"runtime_import"`
	Naming        string `yaml:"naming"`
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("clientgen: ")

	cfgPath := flag.String("config", "clientgen.yaml", "path to the generator config")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	set, entries, err := cueload.Load(cfg.SchemaDir)
	if err != nil {
		log.Fatalf("loading schema: %v", err)
	}

	files, err := gen.Generate(set, entries, gen.Config{
		Package:       cfg.Package,
		RuntimeImport: cfg.RuntimeImport,
		Naming:        cfg.Naming,
	})
	if err != nil {
		log.Fatalf("generating client: %v", err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		log.Fatalf("creating output dir: %v", err)
	}
	for _, f := range files {
		path := filepath.Join(cfg.OutDir, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			log.Fatalf("writing %s: %v", path, err)
		}
		fmt.Printf("Generated %s\n", path)
	}
}

func loadConfig(path string) (config, error) {
	cfg := config{
		SchemaDir: "schema",
		OutDir:    "gen/blogclient",
		Package:   "blogclient",
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Package == "" {
		return cfg, fmt.Errorf("%s: package is required", path)
	}
	return cfg, nil
}
