package mesh

import "github.com/go-gl/mathgl/mgl32"

// Square returns the unit square [-1,1]² in the xy plane facing +z, with
// normals and uv coordinates.
func Square() *CPUMesh {
	return &CPUMesh{
		Name: "square",
		Positions: []float32{
			-1, -1, 0,
			1, -1, 0,
			1, 1, 0,
			-1, 1, 0,
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		UVs: []float32{
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		},
	}
}

// cubeFaces lists normal, u axis and v axis of each face; u × v = normal.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Cube returns the cube [-1,1]³ with four vertices per face so that every
// face has flat normals and its own uv square.
func Cube() *CPUMesh {
	m := &CPUMesh{Name: "cube"}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range cubeFaces {
		normal, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			p := normal.Add(u.Mul(c[0])).Add(v.Mul(c[1]))
			m.Positions = append(m.Positions, p[:]...)
			m.Normals = append(m.Normals, normal[:]...)
			m.UVs = append(m.UVs, (c[0]+1)/2, (c[1]+1)/2)
		}
		base := uint32(4 * f)
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}
