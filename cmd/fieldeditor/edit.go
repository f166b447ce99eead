package main

import (
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-fieldeditor/pkg/renderers/tui"
	"github.com/goliatone/go-fieldeditor/pkg/session"
)

func newEditCmd() *cobra.Command {
	p := params{}
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the fields interactively and print the resulting buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			shell := tui.New()
			sess, err := session.New(env, shell.SessionOptions()...)
			if err != nil {
				return err
			}
			if err := shell.Run(cmd.Context(), sess); err != nil {
				return err
			}
			logger.Verbose("session closed with", len(sess.Fields()), "field(s)")
			return writeOutput(cmd, p.Output, []byte(sess.Buffer()))
		},
	}
	initCommonFlags(cmd, &p)
	return cmd
}
