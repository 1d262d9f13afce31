package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/voxel"
)

// ExtractConfig fixes the thresholds the extractor reads. IsoLevel is the
// global density threshold separating solid from empty; VoxelSide converts
// voxel-grid coordinates to world units.
type ExtractConfig struct {
	IsoLevel  uint8
	VoxelSide float32
	Atlas     Atlas
}

// Extract runs marching cubes over a chunk's voxel buffer and returns the
// triangulated isosurface in chunk-local world space. It is a pure function:
// no state survives between invocations, so chunks may be extracted
// concurrently.
//
// A corner counts as solid when its density exceeds the iso-level and its
// material is not the air sentinel. Cells are visited in the buffer's own
// flattening order (x fastest, then z, then y), which makes the output
// ordering deterministic for identical input.
func Extract(buf voxel.Buffer, cfg ExtractConfig) Mesh {
	dims := buf.Dims
	air := cfg.Atlas.Air()
	iso := float32(cfg.IsoLevel)

	var out Mesh

	var corner [8]voxel.Voxel
	for y := 0; y < dims.Height-1; y++ {
		for z := 0; z < dims.Depth-1; z++ {
			for x := 0; x < dims.Width-1; x++ {
				configuration := uint8(0)
				for i, off := range cubeCorners {
					v := buf.At(x+off[0], z+off[2], y+off[1])
					corner[i] = v
					if v.Density > cfg.IsoLevel && v.Material != air {
						configuration |= 1 << uint(i)
					}
				}

				edges := caseTriangles[configuration]
				for _, e := range edges {
					a, b := cubeEdges[e][0], cubeEdges[e][1]
					va, vb := corner[a], corner[b]

					t := crossing(float32(va.Density), float32(vb.Density), iso)
					pa := cornerPosition(x, y, z, a)
					pb := cornerPosition(x, y, z, b)
					pos := pa.Add(pb.Sub(pa).Mul(t)).Mul(cfg.VoxelSide)

					out.Positions = append(out.Positions, pos)
					out.UVs = append(out.UVs, cfg.Atlas.UV(edgeMaterial(va, vb, cfg.IsoLevel, air)))
				}
			}
		}
	}
	return out
}

// crossing returns the normalized position along an edge where the density
// crosses the iso-level, clamped to [0,1] so non-monotonic noise never pushes
// a vertex outside its cell. A flat edge degenerates to the midpoint.
func crossing(da, db, iso float32) float32 {
	if da == db {
		return 0.5
	}
	t := (iso - da) / (db - da)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// edgeMaterial picks the material an interpolated vertex carries. A crossed
// edge has exactly one solid endpoint and that endpoint's material wins, no
// matter where along the edge the crossing interpolates to; an empty endpoint
// may still carry a material (fractional surface voxels do) but it never
// outranks the solid side.
func edgeMaterial(va, vb voxel.Voxel, iso, air uint8) uint8 {
	if va.Density > iso && va.Material != air {
		return va.Material
	}
	if vb.Material != air {
		return vb.Material
	}
	return va.Material
}

func cornerPosition(x, y, z, corner int) mgl32.Vec3 {
	off := cubeCorners[corner]
	return mgl32.Vec3{
		float32(x + off[0]),
		float32(y + off[1]),
		float32(z + off[2]),
	}
}
