// This file is part of Framehandoff.
//
// Framehandoff is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Framehandoff is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Framehandoff.  If not, see <https://www.gnu.org/licenses/>.

package sdlgl

import (
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/framehandoff/curated"
)

// the binding point of the frame constants uniform block. every program that
// declares the block is bound to this point
const frameConstantsBinding = 0

const frameConstantsBlock = `
layout(std140) uniform FrameConstants {
	float SystemSeconds;
	float SimulationSeconds;
};
`

const meshVertexShader = `#version 150 core
` + frameConstantsBlock + `
in vec3 Position;
out vec2 Frag_Position;

void main()
{
	Frag_Position = Position.xy;
	gl_Position = vec4(Position.xy * 0.5, Position.z, 1.0);
}
`

const squareFragmentShader = `#version 150 core
` + frameConstantsBlock + `
in vec2 Frag_Position;
out vec4 Out_Color;

void main()
{
	float t = SimulationSeconds;
	Out_Color = vec4(
		0.5 + 0.5 * sin(t + Frag_Position.x * 3.0),
		0.5 + 0.5 * sin(t * 0.7 + Frag_Position.y * 3.0),
		0.5 + 0.5 * cos(t * 1.3),
		1.0);
}
`

const shapeFragmentShader = `#version 150 core
` + frameConstantsBlock + `
in vec2 Frag_Position;
out vec4 Out_Color;

void main()
{
	float pulse = 0.5 + 0.5 * sin(SystemSeconds * 2.0);
	float d = length(Frag_Position);
	Out_Color = vec4(pulse * (1.0 - d * 0.5), 0.2, 1.0 - pulse, 1.0);
}
`

const guiVertexShader = `#version 150 core
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;

void main()
{
	Frag_UV = UV;
	Frag_Color = Color;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const guiFragmentShader = `#version 150 core
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;

void main()
{
	Out_Color = vec4(Frag_Color.rgb, Frag_Color.a * texture(Texture, Frag_UV.st).r);
}
`

// Error patterns for shader programs.
const (
	ShaderCompileError = "sdlgl: shader: compile: %s"
	ShaderLinkError    = "sdlgl: shader: link: %s"
)

type program struct {
	handle uint32
}

// newProgram compiles and links the vertex and fragment source. The
// attributes are bound to locations in the order they are listed.
func newProgram(vertProgram string, fragProgram string, attributes ...string) (*program, error) {
	prg := &program{
		handle: gl.CreateProgram(),
	}

	vertHandle, err := compileShader(gl.VERTEX_SHADER, vertProgram)
	if err != nil {
		prg.destroy()
		return nil, err
	}
	defer gl.DeleteShader(vertHandle)

	fragHandle, err := compileShader(gl.FRAGMENT_SHADER, fragProgram)
	if err != nil {
		prg.destroy()
		return nil, err
	}
	defer gl.DeleteShader(fragHandle)

	gl.AttachShader(prg.handle, vertHandle)
	gl.AttachShader(prg.handle, fragHandle)

	for i, a := range attributes {
		gl.BindAttribLocation(prg.handle, uint32(i), gl.Str(a+"\x00"))
	}

	gl.LinkProgram(prg.handle)

	var status int32
	gl.GetProgramiv(prg.handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prg.handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prg.handle, logLength, nil, gl.Str(log))
		prg.destroy()
		return nil, curated.Errorf(ShaderLinkError, strings.TrimRight(log, "\x00"))
	}

	// programs that use the frame constants are bound to the shared uniform
	// buffer. the block is optional
	idx := gl.GetUniformBlockIndex(prg.handle, gl.Str("FrameConstants\x00"))
	if idx != gl.INVALID_INDEX {
		gl.UniformBlockBinding(prg.handle, idx, frameConstantsBinding)
	}

	return prg, nil
}

func (prg *program) use() {
	gl.UseProgram(prg.handle)
}

func (prg *program) uniform(name string) int32 {
	return gl.GetUniformLocation(prg.handle, gl.Str(name+"\x00"))
}

func (prg *program) destroy() {
	if prg.handle != 0 {
		gl.DeleteProgram(prg.handle)
		prg.handle = 0
	}
}

func compileShader(typ uint32, source string) (uint32, error) {
	handle := gl.CreateShader(typ)

	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csource, nil)
	free()

	gl.CompileShader(handle)

	var isCompiled int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &isCompiled)
	if isCompiled == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		// the log length includes the NULL character
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteShader(handle)
		return 0, curated.Errorf(ShaderCompileError, strings.TrimRight(log, "\x00"))
	}

	return handle, nil
}
