// Command stachec is the CLI front end for the stachec template
// compiler (§4.7). It is deliberately thin: main.go parses arguments
// and dispatches, compiler.go holds the two subcommands' logic, and
// both call straight into the stachec package — no template-specific
// work happens here, matching the teacher's cmd/ngc-go split between
// main.go and compiler.go.
package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Println(`stachec - mustache-in-HTML template compiler
Usage: stachec <command> [args]

Commands:
  compile <file.html>   Compile one template source
  batch <config.yaml>   Compile every template an option file lists
  help                  Show help`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	var err error
	switch cmd {
	case "help", "-h", "--help":
		usage()
		return
	case "compile":
		err = runCompile(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "stachec: %v\n", err)
		os.Exit(1)
	}
}
