package world

import (
	"sync"

	"terravox/internal/mesh"
	"terravox/internal/voxel"
)

// Chunk owns one fixed-size voxel grid and the mesh most recently built from
// it. Voxel mutation and the rebuild of the mesh happen under the same write
// lock, so readers never observe a mesh that disagrees with the voxel data.
type Chunk struct {
	Coord voxel.ChunkCoord

	mu     sync.RWMutex
	voxels voxel.Buffer
	mesh   mesh.Mesh
}

func newChunk(coord voxel.ChunkCoord, voxels voxel.Buffer, m mesh.Mesh) *Chunk {
	return &Chunk{
		Coord:  coord,
		voxels: voxels,
		mesh:   m,
	}
}

// Voxel reads a single voxel by local coordinates.
func (c *Chunk) Voxel(x, z, y int) (voxel.Voxel, bool) {
	if !c.voxels.Dims.Contains(x, z, y) {
		return voxel.Voxel{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voxels.At(x, z, y), true
}

// Mesh returns the chunk's current mesh. The returned slices are replaced
// wholesale on every rebuild, never mutated in place, so callers may keep
// reading a returned value while the chunk remeshes.
func (c *Chunk) Mesh() mesh.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}

// Snapshot copies the chunk's voxel buffer for standalone inspection.
func (c *Chunk) Snapshot() voxel.Buffer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voxels.Clone()
}

// edit applies a mutation and, when anything changed, rebuilds the mesh
// inside the same critical section.
func (c *Chunk) edit(apply func(*voxel.Buffer) bool, rebuild func(voxel.Buffer) mesh.Mesh) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !apply(&c.voxels) {
		return false
	}
	c.mesh = rebuild(c.voxels)
	return true
}
