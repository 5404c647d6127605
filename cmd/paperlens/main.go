// Command paperlens is the entry point for the PaperLens research paper
// assistant. It provides a CLI interface (via Cobra) and an HTTP server
// exposing the upload/chat API.
package main

import (
	"fmt"
	"os"

	"github.com/paperlens/paperlens-go/cmd/paperlens/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
