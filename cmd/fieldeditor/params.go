package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	fieldeditor "github.com/goliatone/go-fieldeditor"
	"github.com/goliatone/go-fieldeditor/pkg/bridge"
)

var errIssuesFound = errors.New("schema has problems")

// params holds the flags shared by the subcommands.
type params struct {
	Env    string
	Buffer string
	Output string
}

func initCommonFlags(cmd *cobra.Command, p *params) {
	cmd.SilenceErrors = true
	cmd.Flags().StringVarP(&p.Env, "env", "e", "", "Environment file or directory (JSON or YAML); defaults to the bundled vocabulary")
	cmd.Flags().StringVarP(&p.Buffer, "buffer", "b", "", "Schema buffer file; its fields replace the environment fields")
	cmd.Flags().StringVarP(&p.Output, "output", "o", "", "Write the result to this file instead of stdout")
}

// loadEnvironment reads the environment and, when a buffer file is given,
// takes the fields and the buffer text from it.
func loadEnvironment(p params) (fieldeditor.Environment, error) {
	env, err := fieldeditor.LoadEnvironment(p.Env)
	if err != nil {
		return env, err
	}
	if p.Buffer == "" {
		return env, nil
	}

	data, err := os.ReadFile(p.Buffer)
	if err != nil {
		return env, fmt.Errorf("read buffer: %w", err)
	}
	fields, err := bridge.Decode(string(data))
	if err != nil {
		return env, fmt.Errorf("buffer %s: %w", p.Buffer, err)
	}
	logger.Verbose("loaded", len(fields), "field(s) from", p.Buffer)
	env.Fields = fields
	env.Buffer = string(data)
	return env, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
			_, err := fmt.Fprintln(out)
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Verbose("wrote", path)
	return nil
}
