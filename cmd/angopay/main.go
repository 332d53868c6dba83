package main

import (
	"os"

	"angopay/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		format, _ := cmd.PersistentFlags().GetString("format")
		out := &cli.OutputFormatter{Format: format, Writer: os.Stderr}
		out.Error(err)
		os.Exit(cli.GetExitCode(err))
	}
}
