package ignition

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stuttgart-things/firstboot/internal/render"
)

// TemplateName is the registration name of the Ignition config template.
const TemplateName = "config.ign"

// Builder produces the first-boot Ignition configuration in two passes:
// the config template is rendered and parsed, then every storage file gets
// its contents inlined as a base64 data URL and every systemd drop-in with
// empty contents is filled from the systemd overrides tree.
type Builder struct {
	engine *render.Engine
	root   string
}

// NewBuilder returns a Builder reading file and drop-in sources from the
// files/ and systemd/ subtrees of templatesDir.
func NewBuilder(engine *render.Engine, templatesDir string) *Builder {
	return &Builder{engine: engine, root: templatesDir}
}

// Build renders the full Ignition config against the bindings.
func (b *Builder) Build(bindings map[string]any) ([]byte, error) {
	rendered, err := b.engine.Render(TemplateName, bindings)
	if err != nil {
		return nil, err
	}

	var conf map[string]any
	if err := json.Unmarshal([]byte(rendered), &conf); err != nil {
		return nil, fmt.Errorf("parsing rendered ignition config: %w", err)
	}

	if err := b.inlineFileSources(conf, bindings); err != nil {
		return nil, err
	}
	if err := b.attachDropins(conf); err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding ignition config: %w", err)
	}

	return append(out, '\n'), nil
}

func (b *Builder) inlineFileSources(conf, bindings map[string]any) error {
	storage, ok := conf["storage"].(map[string]any)
	if !ok {
		return nil
	}
	files, ok := storage["files"].([]any)
	if !ok {
		return nil
	}

	for _, entry := range files {
		file, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if err := b.setFileSource(file, bindings); err != nil {
			return err
		}
	}
	return nil
}

var templateActionPattern = regexp.MustCompile(`{{.+}}`)

func (b *Builder) setFileSource(file, bindings map[string]any) error {
	path, _ := file["path"].(string)

	contents, ok := file["contents"].(map[string]any)
	if !ok {
		contents = make(map[string]any)
		file["contents"] = contents
	}
	source, _ := contents["source"].(string)

	var content string
	switch {
	case source == "":
		// No inline source: the content lives in the files tree under the
		// same path as the target.
		data, err := os.ReadFile(filepath.Join(b.root, "files", strings.TrimPrefix(path, "/")))
		if err != nil {
			return fmt.Errorf("reading content for %s: %w", path, err)
		}
		content = string(data)
	case strings.HasPrefix(source, "data:") || strings.Contains(source, "://"):
		// Already a usable Ignition source.
		return nil
	case templateActionPattern.MatchString(source):
		rendered, err := b.engine.RenderString(path, source, bindings)
		if err != nil {
			return err
		}
		content = rendered
	default:
		content = source
	}

	contents["source"] = dataURL(content)
	return nil
}

// dataURL encodes UTF-8 text as an Ignition data URL source.
func dataURL(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	return "data:text/plain;charset=utf-8;base64," + encoded
}

func (b *Builder) attachDropins(conf map[string]any) error {
	systemd, ok := conf["systemd"].(map[string]any)
	if !ok {
		return nil
	}
	units, ok := systemd["units"].([]any)
	if !ok {
		return nil
	}

	for _, entry := range units {
		unit, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		dropins, ok := unit["dropins"].([]any)
		if !ok {
			continue
		}

		name, _ := unit["name"].(string)
		overridesDir := filepath.Join(b.root, "systemd", name+".d")

		for _, d := range dropins {
			dropin, ok := d.(map[string]any)
			if !ok {
				continue
			}
			if contents, _ := dropin["contents"].(string); contents != "" {
				continue
			}

			dropinName, _ := dropin["name"].(string)
			data, err := os.ReadFile(filepath.Join(overridesDir, dropinName))
			if err != nil {
				return fmt.Errorf("reading drop-in %s for %s: %w", dropinName, name, err)
			}
			dropin["contents"] = string(data)
		}
	}
	return nil
}
