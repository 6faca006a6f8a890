package gldevice

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/forwardgl/graphics"
)

// CreateProgram compiles and links src. Portable fragments are translated
// to GLSL 4.10 first.
func (d *Device) CreateProgram(src graphics.ProgramSource) (uint32, error) {
	fragment := src.Fragment
	var names map[string]string
	if src.Portable {
		translated, err := d.translate(fragment)
		if err != nil {
			return 0, err
		}
		fragment, names = translated.code, translated.names
	}

	program, err := newProgram(src.Vertex, fragment)
	if err != nil {
		return 0, err
	}
	if names != nil {
		d.names[program] = names
	}
	return program, nil
}

func newProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	if program == 0 {
		return 0, errors.New("glCreateProgram returned no name")
	}
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &graphics.LinkError{Log: strings.TrimRight(log, "\x00")}
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, &graphics.ShaderError{Stage: stageOf(shaderType), Log: strings.TrimRight(logText, "\x00")}
	}
	return shader, nil
}

func stageOf(shaderType uint32) graphics.ShaderStage {
	if shaderType == gl.VERTEX_SHADER {
		return graphics.VertexStage
	}
	return graphics.FragmentStage
}

// componentsOf returns the float count of an attribute type.
func componentsOf(xtype uint32) int32 {
	switch xtype {
	case gl.FLOAT:
		return 1
	case gl.FLOAT_VEC2:
		return 2
	case gl.FLOAT_VEC3:
		return 3
	default:
		return 4
	}
}

// ProgramAttributes lists the active vertex attributes of program ordered
// by location. Built-in gl_ inputs are left out.
func (d *Device) ProgramAttributes(program uint32) []graphics.AttributeInfo {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)
	if count == 0 {
		return nil
	}
	buf := make([]uint8, maxLength+1)
	attributes := make([]graphics.AttributeInfo, 0, count)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		location := gl.GetAttribLocation(program, gl.Str(name+"\x00"))
		if location < 0 {
			continue
		}
		attributes = append(attributes, graphics.AttributeInfo{
			Name:       name,
			Location:   uint32(location),
			Components: componentsOf(xtype),
		})
	}
	sort.Slice(attributes, func(i, j int) bool { return attributes[i].Location < attributes[j].Location })
	return attributes
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) mapped(program uint32, name string) string {
	if m, ok := d.names[program][name]; ok {
		return m
	}
	return name
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(d.mapped(program, name)+"\x00"))
}

func (d *Device) UniformInt(location int32, v int32)     { gl.Uniform1i(location, v) }
func (d *Device) UniformFloat(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *Device) UniformVec2(location int32, v [2]float32) { gl.Uniform2fv(location, 1, &v[0]) }
func (d *Device) UniformVec3(location int32, v [3]float32) { gl.Uniform3fv(location, 1, &v[0]) }
func (d *Device) UniformVec4(location int32, v [4]float32) { gl.Uniform4fv(location, 1, &v[0]) }

func (d *Device) UniformMat3(location int32, m [9]float32) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (d *Device) UniformMat4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) UniformBlock(program uint32, name string, binding, buffer uint32) bool {
	index := gl.GetUniformBlockIndex(program, gl.Str(d.mapped(program, name)+"\x00"))
	if index == gl.INVALID_INDEX {
		return false
	}
	gl.UniformBlockBinding(program, index, binding)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buffer)
	return true
}

func (d *Device) DeleteProgram(program uint32) {
	delete(d.names, program)
	gl.DeleteProgram(program)
}
