package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldeditor/pkg/bridge"
	"github.com/goliatone/go-fieldeditor/pkg/openapi"
)

func newExportCmd() *cobra.Command {
	p := params{}
	format := "json"
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the schema buffer for the current fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			text, err := bridge.ToBuffer(env.Buffer, env.Fields)
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "json":
				return writeOutput(cmd, p.Output, []byte(text))
			case "yaml", "yml":
				data, err := jsonToYAML(text)
				if err != nil {
					return err
				}
				return writeOutput(cmd, p.Output, data)
			}
			return fmt.Errorf("unknown format %q, expected json or yaml", format)
		},
	}
	initCommonFlags(cmd, &p)
	cmd.Flags().StringVarP(&format, "format", "f", format, "Output format: json or yaml")
	return cmd
}

func newImportCmd() *cobra.Command {
	p := params{}
	component := ""
	cmd := &cobra.Command{
		Use:   "import <openapi-document>",
		Short: "Build the schema buffer from an OpenAPI component schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			fields, err := openapi.Parse(cmd.Context(), raw, component)
			if err != nil {
				return err
			}
			text, err := bridge.ToBuffer(env.Buffer, fields)
			if err != nil {
				return err
			}
			return writeOutput(cmd, p.Output, []byte(text))
		},
	}
	initCommonFlags(cmd, &p)
	cmd.Flags().StringVarP(&component, "component", "c", "", "Component schema to import; required when the document has several")
	return cmd
}

// jsonToYAML re-encodes JSON as block-style YAML keeping key order.
func jsonToYAML(text string) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return nil, fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&node)
	data, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("convert to yaml: %w", err)
	}
	return data, nil
}

func blockStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = 0
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}
