package combustion

import (
	"github.com/stuttgart-things/firstboot/internal/render"
)

// TemplateName is the registration name of the Combustion script template.
const TemplateName = "script"

// Builder renders the Combustion provisioning script.
type Builder struct {
	engine *render.Engine
}

func NewBuilder(engine *render.Engine) *Builder {
	return &Builder{engine: engine}
}

// Build renders the script against the bindings.
func (b *Builder) Build(bindings map[string]any) ([]byte, error) {
	rendered, err := b.engine.Render(TemplateName, bindings)
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}
