package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldeditor/pkg/bridge"
	"github.com/goliatone/go-fieldeditor/pkg/render"
	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

type renderParams struct {
	params
	Renderer string
	Theme    string
	Variant  string
	Subset   string
	Color    bool
}

func newRenderCmd() *cobra.Command {
	p := renderParams{Renderer: "text"}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the field list as HTML or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(p.params)
			if err != nil {
				return err
			}
			registry, err := newRegistry(p.Color)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(p.Renderer)
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			opts.Subset = render.ParseSubset(p.Subset)
			issues := validation.CheckCollection(env.Fields, validation.CollectionOptions{AllowedTypes: env.Types()})
			render.MapIssues(len(env.Fields), issues).Apply(&opts)

			if p.Theme != "" || p.Variant != "" {
				cfg, err := render.SelectTheme(render.NewManifestSelector(render.DefaultManifest()), p.Theme, p.Variant)
				if err != nil {
					return err
				}
				opts.Theme = cfg
			}

			buffer, err := bridge.ToBuffer(env.Buffer, env.Fields)
			if err != nil {
				return err
			}
			opts.Hidden = []render.HiddenField{render.BufferField("", buffer)}

			out, err := renderer.Render(cmd.Context(), env.Fields, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, p.Output, out)
		},
	}
	initCommonFlags(cmd, &p.params)
	cmd.Flags().StringVarP(&p.Renderer, "renderer", "r", p.Renderer, "Renderer name: html or text")
	cmd.Flags().StringVar(&p.Theme, "theme", "", "Theme name for HTML output")
	cmd.Flags().StringVar(&p.Variant, "variant", "", "Theme variant, e.g. dark")
	cmd.Flags().StringVar(&p.Subset, "subset", "", "Only render matching fields: type:x,variant:y,name")
	cmd.Flags().BoolVar(&p.Color, "color", false, "Colorize text output")
	return cmd
}

func newRegistry(colored bool) (*render.Registry, error) {
	html, err := render.NewHTML()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, render.NewText(colored))
}
