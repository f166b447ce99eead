package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	return cobrau.ExecCommandAndCatchInterrupt(newRootCmd(args, ver, os.Stdout))
}

// newRootCmd assembles the command tree. Output of every subcommand goes to
// out unless --output names a file.
func newRootCmd(args []string, ver string, out io.Writer) *cobra.Command {
	rootCmd := cobrau.PrepareRootCmd(
		"fieldeditor",
		"Edit, check and convert schema field definitions",
		args,
		strings.TrimSpace(ver),
		newEditCmd(),
		newCheckCmd(),
		newExportCmd(),
		newImportCmd(),
		newOpenAPICmd(),
		newCodegenCmd(),
		newRenderCmd(),
	)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetOut(out)
	rootCmd.SilenceUsage = true
	return rootCmd
}
