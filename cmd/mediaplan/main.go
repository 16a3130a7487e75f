package main

import (
	"os"

	"github.com/mediaplanschema/mediaplan-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
