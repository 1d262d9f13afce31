package mesh

import "github.com/go-gl/mathgl/mgl32"

// Mesh is the pipeline's output contract: per-vertex positions and material
// bearing texture coordinates. Both lists are always the same length and a
// multiple of three; consecutive triples form triangles.
type Mesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
}

func (m Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// Atlas describes the square material grid in UV space. Material identity
// travels on output vertices only through this encoding; anywhere the
// pipeline needs to compare materials it decodes the UV back.
type Atlas struct {
	MaterialsPerRow int
}

// Materials is the palette size.
func (a Atlas) Materials() int {
	return a.MaterialsPerRow * a.MaterialsPerRow
}

// Air is the sentinel material index meaning "no material"; it equals the
// palette size and never appears on an emitted vertex.
func (a Atlas) Air() uint8 {
	return uint8(a.Materials())
}

func (a Atlas) cellSize() float32 {
	return 1.0 / float32(a.MaterialsPerRow)
}

// UV returns the centre of the atlas cell for a material index.
func (a Atlas) UV(material uint8) mgl32.Vec2 {
	m := int(material)
	if m >= a.Materials() {
		m = a.Materials() - 1
	}
	cell := a.cellSize()
	row := m / a.MaterialsPerRow
	col := m % a.MaterialsPerRow
	return mgl32.Vec2{
		(float32(col) + 0.5) * cell,
		1 - (float32(row)+0.5)*cell,
	}
}

// Material decodes the material index a UV sample falls on, clamped to the
// palette range.
func (a Atlas) Material(uv mgl32.Vec2) int {
	cell := a.cellSize()
	col := int((uv.X()) / cell)
	row := int((1 - uv.Y()) / cell)
	col = clamp(col, 0, a.MaterialsPerRow-1)
	row = clamp(row, 0, a.MaterialsPerRow-1)
	return row*a.MaterialsPerRow + col
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
