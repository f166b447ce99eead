package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

func newCheckCmd() *cobra.Command {
	p := params{}
	formulas := false
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Lint the stored fields against the editor rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			issues := validation.CheckCollection(env.Fields, validation.CollectionOptions{
				AllowedTypes: env.Types(),
				Formulas:     formulas,
			})
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d issue(s)", errIssuesFound, len(issues))
			}
			fmt.Fprintf(out, "ok: %d field(s)\n", len(env.Fields))
			return nil
		},
	}
	initCommonFlags(cmd, &p)
	cmd.Flags().BoolVar(&formulas, "formulas", false, "Parse, resolve and sample-evaluate computed formulas")
	return cmd
}
