package main

import (
	"fmt"
	"os"

	"github.com/i474232898/agripulse/internal/cli"
)

func main() {
	if err := cli.RootCommand(cli.DefaultServiceBuilder).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "agripulsectl: %v\n", err)
		os.Exit(1)
	}
}
