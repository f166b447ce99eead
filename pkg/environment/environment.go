// Package environment loads the host data an editor session starts from:
// the initial field collection and the names offered by the type, link and
// table dropdowns. Files may be JSON or YAML.
package environment

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

//go:embed defaults/environment.yaml
var defaults embed.FS

// Environment is read once when a session starts.
type Environment struct {
	Fields        []model.Descriptor `json:"fields"`
	FieldTypes    []string           `json:"field_types"`
	ChildDoctypes []string           `json:"child_doctypes"`
	Doctypes      []string           `json:"doctypes"`
	// Buffer is the schema buffer text the host already holds, if any.
	Buffer string `json:"buffer,omitempty"`
}

// Default returns the bundled environment: no fields and the built-in type
// vocabulary.
func Default() Environment {
	data, err := defaults.ReadFile("defaults/environment.yaml")
	if err != nil {
		// The embed directive guarantees the file exists.
		panic(err)
	}
	env, err := Parse(data, "defaults/environment.yaml")
	if err != nil {
		panic(err)
	}
	return env
}

// LoadFile reads one environment file.
func LoadFile(path string) (Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Environment{}, fmt.Errorf("environment: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and merges every JSON/YAML file in lexical path order.
// Fields are concatenated; name lists are merged without duplicates. The
// buffer of the last file that sets one wins.
func LoadFS(fsys fs.FS) (Environment, error) {
	var env Environment
	if fsys == nil {
		return env, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isEnvironmentFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("environment: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		env = Merge(env, parsed)
		return nil
	})
	if err != nil {
		return Environment{}, err
	}
	return env, nil
}

// Parse decodes JSON, falling back to YAML.
func Parse(data []byte, source string) (Environment, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Environment{}, fmt.Errorf("environment: file %s is empty", source)
	}

	var env Environment
	if err := json.Unmarshal(data, &env); err == nil {
		return normalise(env), nil
	}

	// YAML goes through a generic tree so descriptors keep their JSON
	// decoding rules.
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Environment{}, fmt.Errorf("environment: parse %s: invalid JSON or YAML", source)
	}
	if _, ok := tree.(map[string]any); !ok {
		return Environment{}, fmt.Errorf("environment: parse %s: expected a mapping", source)
	}
	encoded, err := json.Marshal(tree)
	if err != nil {
		return Environment{}, fmt.Errorf("environment: parse %s: %w", source, err)
	}
	if err := json.Unmarshal(encoded, &env); err != nil {
		return Environment{}, fmt.Errorf("environment: parse %s: %w", source, err)
	}
	return normalise(env), nil
}

// Merge combines two environments.
func Merge(base, overlay Environment) Environment {
	out := Environment{
		Fields:        append(model.CloneAll(base.Fields), model.CloneAll(overlay.Fields)...),
		FieldTypes:    union(base.FieldTypes, overlay.FieldTypes),
		ChildDoctypes: union(base.ChildDoctypes, overlay.ChildDoctypes),
		Doctypes:      union(base.Doctypes, overlay.Doctypes),
		Buffer:        base.Buffer,
	}
	if strings.TrimSpace(overlay.Buffer) != "" {
		out.Buffer = overlay.Buffer
	}
	return out
}

// Types returns FieldTypes as model values, or the built-in vocabulary when
// none were supplied.
func (e Environment) Types() []model.FieldType {
	if len(e.FieldTypes) == 0 {
		return model.Types()
	}
	return model.StringsToTypes(e.FieldTypes)
}

func normalise(env Environment) Environment {
	env.FieldTypes = union(nil, env.FieldTypes)
	env.ChildDoctypes = union(nil, env.ChildDoctypes)
	env.Doctypes = union(nil, env.Doctypes)
	return env
}

func union(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	var out []string
	for _, list := range [][]string{base, extra} {
		for _, value := range list {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
			out = append(out, trimmed)
		}
	}
	return out
}

func isEnvironmentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
