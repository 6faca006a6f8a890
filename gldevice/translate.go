package gldevice

import (
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
	gst "github.com/richinsley/goshadertranslator"
)

type translation struct {
	code  string
	names map[string]string
}

// translate rewrites a GLSL ES 3.00 fragment shader as GLSL 4.10. The
// translator renames user uniforms; names maps each declared name to the
// one to query on the linked program.
func (d *Device) translate(source string) (*translation, error) {
	if d.translator == nil {
		t, err := gst.NewShaderTranslator(d.ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create shader translator: %w", err)
		}
		d.translator = t
	}
	out, err := d.translator.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, &graphics.ShaderError{Stage: graphics.FragmentStage, Log: err.Error()}
	}
	graphics.Logger().Debug("translated portable fragment shader", "uniforms", len(out.Variables))
	return &translation{code: out.Code, names: mappedNames(out.Variables)}, nil
}

func mappedNames(variables map[string]gst.ShaderVariable) map[string]string {
	names := make(map[string]string, len(variables))
	for name, v := range variables {
		if v.MappedName != "" && v.MappedName != name {
			names[name] = v.MappedName
		}
	}
	return names
}
