package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/voxel"
)

func testExtractConfig() ExtractConfig {
	return ExtractConfig{
		IsoLevel:  128,
		VoxelSide: 1,
		Atlas:     Atlas{MaterialsPerRow: 4},
	}
}

func slabBuffer(dims voxel.Dimensions, top int, material uint8) voxel.Buffer {
	buf := voxel.NewBuffer(dims)
	air := Atlas{MaterialsPerRow: 4}.Air()
	for y := 0; y < dims.Height; y++ {
		for z := 0; z < dims.Depth; z++ {
			for x := 0; x < dims.Width; x++ {
				if y < top {
					buf.Set(x, z, y, voxel.Voxel{Density: 255, Material: material})
				} else {
					buf.Set(x, z, y, voxel.Voxel{Density: 0, Material: air})
				}
			}
		}
	}
	return buf
}

func TestExtractUniformBuffersEmitNothing(t *testing.T) {
	dims := voxel.Dimensions{Width: 8, Depth: 8, Height: 16}
	cfg := testExtractConfig()

	empty := voxel.NewBuffer(dims)
	for i := range empty.Voxels {
		empty.Voxels[i] = voxel.Voxel{Density: 0, Material: cfg.Atlas.Air()}
	}
	if m := Extract(empty, cfg); m.TriangleCount() != 0 {
		t.Fatalf("all-empty buffer produced %d triangles", m.TriangleCount())
	}

	solid := voxel.NewBuffer(dims)
	for i := range solid.Voxels {
		solid.Voxels[i] = voxel.Voxel{Density: 255, Material: 1}
	}
	if m := Extract(solid, cfg); m.TriangleCount() != 0 {
		t.Fatalf("all-solid buffer produced %d triangles", m.TriangleCount())
	}
}

func TestExtractFlatSlabScenario(t *testing.T) {
	dims := voxel.Dimensions{Width: 16, Depth: 16, Height: 64}
	cfg := testExtractConfig()
	const slabTop = 20
	const material = 4

	m := Extract(slabBuffer(dims, slabTop, material), cfg)

	if len(m.Positions) != len(m.UVs) {
		t.Fatalf("position count %d != uv count %d", len(m.Positions), len(m.UVs))
	}
	if len(m.Positions)%3 != 0 {
		t.Fatalf("vertex count %d not a multiple of 3", len(m.Positions))
	}
	if m.TriangleCount() == 0 {
		t.Fatal("slab produced no surface")
	}

	up := mgl32.Vec3{0, 1, 0}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Positions[i*3 : i*3+3]
		normal, ok := triangleNormal(tri)
		if !ok {
			t.Fatalf("triangle %d is degenerate", i)
		}
		if normal.Dot(up) < 0.99 {
			t.Fatalf("triangle %d normal %v, want up", i, normal)
		}
		for _, p := range tri {
			if p.Y() < slabTop-1 || p.Y() > slabTop {
				t.Fatalf("vertex %v outside slab transition band", p)
			}
		}
		if got := cfg.Atlas.Material(m.UVs[i*3]); got != material {
			t.Fatalf("triangle %d decoded material %d, want %d", i, got, material)
		}
	}
}

func TestExtractVerticesStayInsideChunkBounds(t *testing.T) {
	dims := voxel.Dimensions{Width: 8, Depth: 8, Height: 32}
	cfg := testExtractConfig()
	cfg.VoxelSide = 0.5

	m := Extract(slabBuffer(dims, 10, 2), cfg)
	maxX := float32(dims.Width-1) * cfg.VoxelSide
	maxY := float32(dims.Height-1) * cfg.VoxelSide
	maxZ := float32(dims.Depth-1) * cfg.VoxelSide

	for _, p := range m.Positions {
		if p.X() < 0 || p.Y() < 0 || p.Z() < 0 || p.X() > maxX || p.Y() > maxY || p.Z() > maxZ {
			t.Fatalf("vertex %v outside chunk bounding box", p)
		}
	}
}

func TestExtractSolidTouchingVerticalBoundary(t *testing.T) {
	// Terrain may saturate the full chunk height; the extractor must not
	// fault or punch holes at either boundary.
	dims := voxel.Dimensions{Width: 6, Depth: 6, Height: 8}
	cfg := testExtractConfig()

	full := slabBuffer(dims, dims.Height, 1)
	if m := Extract(full, cfg); m.TriangleCount() != 0 {
		// Solid through the top boundary has no interior crossing at all.
		t.Fatalf("column saturated to the top produced %d triangles", m.TriangleCount())
	}
}

func TestExtractAirMaterialNeverSolid(t *testing.T) {
	dims := voxel.Dimensions{Width: 4, Depth: 4, Height: 4}
	cfg := testExtractConfig()

	buf := voxel.NewBuffer(dims)
	for i := range buf.Voxels {
		// Dense but tagged air: the extractor must ignore it entirely.
		buf.Voxels[i] = voxel.Voxel{Density: 255, Material: cfg.Atlas.Air()}
	}
	if m := Extract(buf, cfg); m.TriangleCount() != 0 {
		t.Fatalf("air-material voxels produced %d triangles", m.TriangleCount())
	}
}

func TestExtractDeterministicOutput(t *testing.T) {
	dims := voxel.Dimensions{Width: 8, Depth: 8, Height: 16}
	cfg := testExtractConfig()
	buf := slabBuffer(dims, 7, 3)

	a := Extract(buf, cfg)
	b := Extract(buf, cfg)
	if len(a.Positions) != len(b.Positions) {
		t.Fatalf("vertex counts differ across runs: %d vs %d", len(a.Positions), len(b.Positions))
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] || a.UVs[i] != b.UVs[i] {
			t.Fatalf("vertex %d differs across runs", i)
		}
	}
}
