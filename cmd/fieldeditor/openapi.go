package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldeditor/pkg/openapi"
)

func newOpenAPICmd() *cobra.Command {
	p := params{}
	var title, component string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the fields as an OpenAPI 3 component schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			opts := []openapi.Option{openapi.WithComponent(component)}
			if title != "" {
				opts = append(opts, openapi.WithTitle(title))
			}
			doc, err := openapi.Document(cmd.Context(), env.Fields, opts...)
			if err != nil {
				return err
			}
			data, err := openapi.Marshal(doc)
			if err != nil {
				return err
			}
			return writeOutput(cmd, p.Output, data)
		},
	}
	initCommonFlags(cmd, &p)
	cmd.Flags().StringVarP(&component, "component", "c", "", "Component schema name, usually the doctype")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	return cmd
}
