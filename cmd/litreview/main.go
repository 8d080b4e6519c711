package main

import (
	"os"

	"github.com/capricorn-med/litreview/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewLitreviewCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewLitreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "litreview [flags] [options]",
		Short: "litreview talks to the literature retrieval service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdRetrieve())
	cmd.AddCommand(cli.NewCmdExtract())

	return cmd
}
