package render

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the manifest returned by DefaultManifest.
const DefaultThemeName = "fieldeditor"

// DefaultManifest is the built-in look of the HTML list with a light base
// and a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":  "#2563eb",
			"surface": "#ffffff",
			"text":    "#111827",
			"danger":  "#b91c1c",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#f9fafb",
				},
			},
		},
	}
}

// ManifestSelector serves selections from in-memory manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. The first one is the
// default theme.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, m := range manifests {
		if m == nil || m.Name == "" {
			continue
		}
		if s.defaultTheme == "" {
			s.defaultTheme = m.Name
		}
		s.manifests[m.Name] = m
	}
	return s
}

// Select implements theme.ThemeSelector. Empty arguments fall back to the
// defaults; an unknown variant is an error.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// SelectTheme resolves a selection into the config renderers consume:
// variant tokens override base tokens and every token becomes a CSS
// variable.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme: %w", err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}

	m := selection.Manifest
	tokens := mergeStrings(m.Tokens, nil)
	partials := mergeStrings(m.Templates, nil)
	prefix := m.Assets.Prefix
	files := mergeStrings(m.Assets.Files, nil)
	if v, ok := m.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, v.Tokens)
		partials = mergeStrings(partials, v.Templates)
		files = mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

// cssVarsStyle renders CSS variables as an inline style, sorted by name.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
