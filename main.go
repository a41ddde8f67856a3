// ./main.go
package main

import (
	"github.com/xkilldash9x/formfill-cli/cmd"
)

// main is the entry point for the formfill CLI application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
