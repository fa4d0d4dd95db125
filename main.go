package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fieldnet/fieldnet/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		// CliErrors are already printed by the failing command
		var cliErr *cli.CliError
		if !errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
