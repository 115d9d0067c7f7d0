// Package main provides the CLI entrypoint for mapper-generator.
//
// mapper-generator is a go:generate tool that:
//   - Loads Go packages (go/packages + go/types) and finds mapper contracts
//   - Checks each contract method and, in strict mode, its field lists
//   - Writes one implementation per contract with plain field copies
package main

import (
	"fmt"
	"os"

	"mapper-generator/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
