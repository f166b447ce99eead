package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldeditor/pkg/codegen"
)

func newCodegenCmd() *cobra.Command {
	p := params{}
	pkg, structName := codegen.DefaultPackage, codegen.DefaultStruct
	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Generate a Go struct mirroring the fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			src, err := codegen.Source(env.Fields, codegen.WithPackage(pkg), codegen.WithStructName(structName))
			if err != nil {
				return err
			}
			return writeOutput(cmd, p.Output, src)
		},
	}
	initCommonFlags(cmd, &p)
	cmd.Flags().StringVar(&pkg, "package", pkg, "Package clause of the generated file")
	cmd.Flags().StringVar(&structName, "struct", structName, "Struct name, e.g. the doctype")
	return cmd
}
