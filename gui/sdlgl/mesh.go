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
	"fmt"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/framehandoff/framedata"
)

// geometry is the vertex and index data of a mesh. vertices are three floats
// (x, y, z) each and every three indices form one triangle.
type geometry struct {
	vertices []float32
	indices  []uint16
}

const floatsPerVertex = 3

// the two built-in meshes
var (
	squareGeometry = geometry{
		vertices: []float32{
			0.0, 0.0, 0.0,
			1.0, 0.0, 0.0,
			1.0, 1.0, 0.0,
			0.0, 1.0, 0.0,
		},
		indices: []uint16{0, 1, 2, 0, 2, 3},
	}

	shapeGeometry = geometry{
		vertices: []float32{
			0.0, 0.0, 0.0,
			0.0, 1.0, 0.0,
			-1.0, 1.0, 0.0,
			-1.0, 0.0, 0.0,
			0.0, -1.0, 0.0,
			1.0, -1.0, 0.0,
			1.0, 0.0, 0.0,
		},
		indices: []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 5, 0, 5, 6},
	}
)

func (g geometry) numVertices() int {
	return len(g.vertices) / floatsPerVertex
}

// validate checks that the geometry describes whole triangles and that every
// index refers to a vertex.
func (g geometry) validate() error {
	if len(g.vertices)%floatsPerVertex != 0 {
		return fmt.Errorf("sdlgl: mesh: %d floats is not a whole number of vertices", len(g.vertices))
	}
	if len(g.indices) == 0 || len(g.indices)%3 != 0 {
		return fmt.Errorf("sdlgl: mesh: %d indices is not a whole number of triangles", len(g.indices))
	}
	for _, i := range g.indices {
		if int(i) >= g.numVertices() {
			return fmt.Errorf("sdlgl: mesh: index %d out of range", i)
		}
	}
	return nil
}

type mesh struct {
	vao uint32
	vbo uint32
	ebo uint32

	numIndices int32
}

// newMesh uploads the geometry to the GPU. vertex positions use attribute
// location zero.
func newMesh(g geometry) (*mesh, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	msh := &mesh{
		numIndices: int32(len(g.indices)),
	}

	gl.GenVertexArrays(1, &msh.vao)
	gl.BindVertexArray(msh.vao)
	defer gl.BindVertexArray(0)

	gl.GenBuffers(1, &msh.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, msh.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.vertices)*4, gl.Ptr(g.vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &msh.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, msh.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.indices)*2, gl.Ptr(g.indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, floatsPerVertex, gl.FLOAT, false, floatsPerVertex*4, 0)

	return msh, nil
}

func (msh *mesh) draw() {
	gl.BindVertexArray(msh.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, msh.numIndices, gl.UNSIGNED_SHORT, 0)
	gl.BindVertexArray(0)
}

func (msh *mesh) destroy() {
	if msh.ebo != 0 {
		gl.DeleteBuffers(1, &msh.ebo)
		msh.ebo = 0
	}
	if msh.vbo != 0 {
		gl.DeleteBuffers(1, &msh.vbo)
		msh.vbo = 0
	}
	if msh.vao != 0 {
		gl.DeleteVertexArrays(1, &msh.vao)
		msh.vao = 0
	}
}

// meshDrawable draws a mesh with a shader program. it implements the
// backend.Drawable interface.
type meshDrawable struct {
	name string
	msh  *mesh
	prg  *program
}

func newMeshDrawable(name string, g geometry, fragProgram string) (*meshDrawable, error) {
	prg, err := newProgram(meshVertexShader, fragProgram, "Position")
	if err != nil {
		return nil, err
	}
	msh, err := newMesh(g)
	if err != nil {
		prg.destroy()
		return nil, err
	}
	return &meshDrawable{name: name, msh: msh, prg: prg}, nil
}

// Draw implements the backend.Drawable interface. The frame constants have
// already been pushed to the uniform buffer so the FrameData is not used.
func (md *meshDrawable) Draw(_ *framedata.FrameData) error {
	md.prg.use()
	md.msh.draw()
	return glError(md.name)
}

func (md *meshDrawable) destroy() {
	md.msh.destroy()
	md.prg.destroy()
}
