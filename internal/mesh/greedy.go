package mesh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SimplifyConfig carries the merge tolerances. NormalThreshold is the minimum
// dot product between two face normals for the faces to count as coplanar;
// VertexEpsilon is the positional tolerance for treating two corners as the
// same vertex.
type SimplifyConfig struct {
	NormalThreshold float32
	VertexEpsilon   float32
	Atlas           Atlas
}

// Simplify merges pairs of adjacent, coplanar, same-material triangles into
// quads, leaving everything unmergeable untouched. A merged pair is re-emitted
// as the quad's two halves, so the triangle count never changes; the merge
// shows up as shared corners and one UV per quad. The search is greedy and
// single-pass: each triangle scans forward for the first qualifying partner
// and participates in at most one merge, so the result is not a global
// optimum and re-running Simplify on its own output is not expected to shrink
// it further.
func Simplify(m Mesh, cfg SimplifyConfig) Mesh {
	tris := m.TriangleCount()
	out := Mesh{
		Positions: make([]mgl32.Vec3, 0, len(m.Positions)),
		UVs:       make([]mgl32.Vec2, 0, len(m.UVs)),
	}

	normals := make([]mgl32.Vec3, tris)
	flat := make([]bool, tris) // degenerate triangles are excluded from merging
	materials := make([]int, tris)
	for i := 0; i < tris; i++ {
		n, ok := triangleNormal(m.Positions[i*3 : i*3+3])
		normals[i] = n
		flat[i] = !ok
		materials[i] = cfg.Atlas.Material(m.UVs[i*3])
	}

	consumed := make([]bool, tris)
	for i := 0; i < tris; i++ {
		if consumed[i] {
			continue
		}

		merged := false
		if !flat[i] {
			for j := i + 1; j < tris; j++ {
				if consumed[j] || flat[j] {
					continue
				}
				if materials[i] != materials[j] {
					continue
				}
				if normals[i].Dot(normals[j]) <= cfg.NormalThreshold {
					continue
				}
				quad, ok := quadCorners(m.Positions[i*3:i*3+3], m.Positions[j*3:j*3+3], cfg.VertexEpsilon)
				if !ok {
					continue
				}

				orderAroundCentroid(quad[:], normals[i])
				uv := m.UVs[i*3]
				out.Positions = append(out.Positions,
					quad[0], quad[1], quad[2],
					quad[0], quad[2], quad[3])
				out.UVs = append(out.UVs, uv, uv, uv, uv, uv, uv)

				consumed[i] = true
				consumed[j] = true
				merged = true
				break
			}
		}

		if !merged {
			out.Positions = append(out.Positions, m.Positions[i*3:i*3+3]...)
			out.UVs = append(out.UVs, m.UVs[i*3:i*3+3]...)
			consumed[i] = true
		}
	}

	return out
}

// triangleNormal returns the unit normal from the triangle's first two edges.
// ok is false for degenerate (zero-area) triangles.
func triangleNormal(tri []mgl32.Vec3) (mgl32.Vec3, bool) {
	cross := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	length := cross.Len()
	if length < 1e-8 {
		return mgl32.Vec3{}, false
	}
	return cross.Mul(1 / length), true
}

// quadCorners collapses the six corners of two triangles under the vertex
// epsilon. The pair forms a quad only when exactly four unique positions
// remain and exactly two of them are shared, meaning the triangles meet along
// one edge and nowhere else.
func quadCorners(a, b []mgl32.Vec3, epsilon float32) ([4]mgl32.Vec3, bool) {
	var unique [6]mgl32.Vec3
	var count [6]int
	n := 0

	for _, p := range append(append([]mgl32.Vec3(nil), a...), b...) {
		found := false
		for k := 0; k < n; k++ {
			if p.Sub(unique[k]).Len() <= epsilon {
				count[k]++
				found = true
				break
			}
		}
		if !found {
			unique[n] = p
			count[n] = 1
			n++
		}
	}

	if n != 4 {
		return [4]mgl32.Vec3{}, false
	}
	shared := 0
	for k := 0; k < n; k++ {
		if count[k] == 2 {
			shared++
		}
	}
	if shared != 2 {
		return [4]mgl32.Vec3{}, false
	}

	var quad [4]mgl32.Vec3
	copy(quad[:], unique[:4])
	return quad, true
}

// orderAroundCentroid sorts the quad corners by angle around their centroid
// measured in the plane of the face normal, then fixes the winding so the
// quad keeps facing the same way as the triangles it replaces.
func orderAroundCentroid(quad []mgl32.Vec3, normal mgl32.Vec3) {
	var centroid mgl32.Vec3
	for _, p := range quad {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float32(len(quad)))

	basisU := quad[0].Sub(centroid)
	if basisU.Len() < 1e-8 {
		basisU = mgl32.Vec3{1, 0, 0}
	}
	basisU = basisU.Normalize()
	basisV := normal.Cross(basisU).Normalize()

	sort.Slice(quad, func(i, j int) bool {
		return planeAngle(quad[i], centroid, basisU, basisV) < planeAngle(quad[j], centroid, basisU, basisV)
	})

	wound, ok := triangleNormal(quad[:3])
	if ok && wound.Dot(normal) < 0 {
		quad[1], quad[3] = quad[3], quad[1]
	}
}

func planeAngle(p, centroid, basisU, basisV mgl32.Vec3) float64 {
	d := p.Sub(centroid)
	return math.Atan2(float64(d.Dot(basisV)), float64(d.Dot(basisU)))
}
