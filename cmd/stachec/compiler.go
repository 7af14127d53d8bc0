package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stachec"
	"stachec/internal/config"
)

var errLog = log.New(os.Stderr, "", 0)

// runCompile implements "stachec compile <file.html> [flags]" (§4.7).
func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	isTemplate := fs.Bool("template", false, "wrap output with the template __content/__elseContent bindings")
	name := fs.String("name", "", "source name attached to error messages")
	out := fs.String("o", "", "output file (default: stdout)")
	dumpTree := fs.Bool("dump-tree", false, "print the parsed tree as JSON to stderr before optimizing")
	dumpOptimized := fs.Bool("dump-optimized", false, "print the optimized tree as JSON to stderr before specializing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("compile: expected exactly one template file")
	}
	path := fs.Arg(0)

	sourceName := *name
	if sourceName == "" {
		sourceName = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	opts := stachec.Options{SourceName: sourceName, IsTemplate: *isTemplate}

	nodes, err := stachec.Parse(string(data), opts)
	if err != nil {
		return err
	}
	if *dumpTree {
		dumpJSON("parsed tree", nodes)
	}

	nodes = stachec.Optimize(nodes)
	if *dumpOptimized {
		dumpJSON("optimized tree", nodes)
	}

	output, err := stachec.CodeGen(nodes, opts)
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Println(output)
		return nil
	}
	return os.WriteFile(*out, []byte(output+"\n"), 0o644)
}

func dumpJSON(label string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		errLog.Printf("%s: <unprintable: %v>", label, err)
		return
	}
	errLog.Printf("%s:\n%s", label, b)
}

// runBatch implements "stachec batch <config.yaml>" (§4.7): it resolves
// every entry's glob, compiles matches in deterministic sorted order
// (§5's "no shared mutable state" rules out concurrent compiles here),
// and writes a "<name>.js" for each (beside its source, or under the
// config's outDir when one is set), logging a one-line summary
// per file and the first fatal error before returning non-zero.
func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("batch: expected exactly one config file")
	}
	configPath := fs.Arg(0)
	baseDir := filepath.Dir(configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var paths []string
	for _, entry := range cfg.Entries {
		matches, err := filepath.Glob(filepath.Join(baseDir, entry.Glob))
		if err != nil {
			return fmt.Errorf("batch: bad glob %q: %w", entry.Glob, err)
		}
		for _, m := range matches {
			if entry.Exclude != "" {
				if excluded, _ := filepath.Match(filepath.Join(baseDir, entry.Exclude), m); excluded {
					continue
				}
			}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)

	entryFor := func(path string) config.Entry {
		for _, entry := range cfg.Entries {
			if matched, _ := filepath.Match(filepath.Join(baseDir, entry.Glob), path); matched {
				return entry
			}
		}
		return config.Entry{}
	}

	var firstErr error
	compiled := 0
	for _, path := range paths {
		entry := entryFor(path)
		sourceName := entry.SourceName
		if sourceName == "" {
			sourceName = path
		}

		data, err := os.ReadFile(path)
		if err != nil {
			errLog.Printf("%s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		output, err := stachec.Compile(string(data), stachec.Options{SourceName: sourceName, IsTemplate: entry.IsTemplate})
		if err != nil {
			errLog.Printf("%s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		outPath := outputPath(path, cfg.OutDir, baseDir)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			errLog.Printf("%s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := os.WriteFile(outPath, []byte(output+"\n"), 0o644); err != nil {
			errLog.Printf("%s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		errLog.Printf("%s -> %s", path, outPath)
		compiled++
	}

	errLog.Printf("compiled %d/%d templates", compiled, len(paths))
	if firstErr != nil {
		return firstErr
	}
	return nil
}

func outputPath(srcPath, outDir, baseDir string) string {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)) + ".js"
	if outDir == "" {
		return filepath.Join(filepath.Dir(srcPath), base)
	}
	if filepath.IsAbs(outDir) {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(baseDir, outDir, base)
}
