package noise

import (
	"testing"

	"terravox/internal/voxel"
)

func TestHeightmapRangeAndShape(t *testing.T) {
	f := New(42)
	const width, depth = 16, 16

	hm := f.Heightmap(0.05, 4, 0.5, 2.0, voxel.ChunkCoord{X: 0, Z: 0}, width, depth)
	if len(hm) != width*depth {
		t.Fatalf("heightmap length = %d, want %d", len(hm), width*depth)
	}
	for i, v := range hm {
		if v < 0 || v > 1 {
			t.Fatalf("sample %d = %v outside [0,1]", i, v)
		}
	}
}

func TestHeightmapDeterministicForSameSeed(t *testing.T) {
	a := New(1337).Heightmap(0.02, 3, 0.5, 2.0, voxel.ChunkCoord{X: 2, Z: -1}, 16, 16)
	b := New(1337).Heightmap(0.02, 3, 0.5, 2.0, voxel.ChunkCoord{X: 2, Z: -1}, 16, 16)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identically seeded fields: %v vs %v", i, a[i], b[i])
		}
	}

	other := New(7).Heightmap(0.02, 3, 0.5, 2.0, voxel.ChunkCoord{X: 2, Z: -1}, 16, 16)
	same := true
	for i := range a {
		if a[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical heightmaps")
	}
}

func TestHeightmapConsistentAcrossChunkBorder(t *testing.T) {
	f := New(99)
	const width, depth = 16, 16
	const scale = 0.03

	right := f.Heightmap(scale, 4, 0.5, 2.0, voxel.ChunkCoord{X: 1, Z: 0}, width, depth)
	for z := 0; z < depth; z++ {
		direct := f.Sample(width, z, scale, 4, 0.5, 2.0)
		if got := right[0+z*width]; got != direct {
			t.Fatalf("column (16,%d): chunk sample %v != direct sample %v", z, got, direct)
		}
	}
}

func TestHeightmapClampsOctaves(t *testing.T) {
	f := New(5)
	zero := f.Heightmap(0.05, 0, 0.5, 2.0, voxel.ChunkCoord{}, 4, 4)
	one := f.Heightmap(0.05, 1, 0.5, 2.0, voxel.ChunkCoord{}, 4, 4)
	for i := range zero {
		if zero[i] != one[i] {
			t.Fatalf("octave count 0 should clamp to 1, sample %d: %v vs %v", i, zero[i], one[i])
		}
	}
}
