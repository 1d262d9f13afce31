package voxel

import "github.com/go-gl/mathgl/mgl32"

// Voxel is one sample of the volumetric density+material field. Density 0
// means fully empty air, 255 fully solid; values between encode where the
// surface crosses inside a cell. Material indexes the atlas palette; the
// sentinel equal to the palette size marks air.
type Voxel struct {
	Density  uint8
	Material uint8
}

// ChunkCoord identifies a chunk on the horizontal chunk grid.
type ChunkCoord struct {
	X int
	Z int
}

// Coord is a position in global voxel space.
type Coord struct {
	X int
	Y int
	Z int
}

// Dimensions defines the size of a chunk in voxels. Width and Depth span the
// horizontal axes, Height the vertical one.
type Dimensions struct {
	Width  int
	Depth  int
	Height int
}

// Index returns the flat buffer offset for local coordinates. The flattening
// order is the interchange contract shared by generation, extraction and
// editing: x fastest, then z, then y.
func (d Dimensions) Index(x, z, y int) int {
	return x + z*d.Width + y*d.Width*d.Depth
}

// Count is the number of voxels in one chunk.
func (d Dimensions) Count() int {
	return d.Width * d.Depth * d.Height
}

// Contains reports whether the local coordinates address a voxel of a chunk.
func (d Dimensions) Contains(x, z, y int) bool {
	return x >= 0 && z >= 0 && y >= 0 && x < d.Width && z < d.Depth && y < d.Height
}

// Buffer is one chunk's dense voxel grid.
type Buffer struct {
	Dims   Dimensions
	Voxels []Voxel
}

func NewBuffer(dims Dimensions) Buffer {
	return Buffer{
		Dims:   dims,
		Voxels: make([]Voxel, dims.Count()),
	}
}

func (b Buffer) At(x, z, y int) Voxel {
	return b.Voxels[b.Dims.Index(x, z, y)]
}

func (b Buffer) Set(x, z, y int, v Voxel) {
	b.Voxels[b.Dims.Index(x, z, y)] = v
}

// Clone returns an independent copy of the buffer.
func (b Buffer) Clone() Buffer {
	dup := make([]Voxel, len(b.Voxels))
	copy(dup, b.Voxels)
	return Buffer{Dims: b.Dims, Voxels: dup}
}

// Bytes serialises the buffer into the two-bytes-per-voxel interchange
// layout: [density, material] at offset Index(x,z,y)*2.
func (b Buffer) Bytes() []byte {
	out := make([]byte, len(b.Voxels)*2)
	for i, v := range b.Voxels {
		out[i*2] = v.Density
		out[i*2+1] = v.Material
	}
	return out
}

// Origin returns the global voxel coordinate of a chunk's minimum corner.
func (c ChunkCoord) Origin(dims Dimensions) Coord {
	return Coord{X: c.X * dims.Width, Y: 0, Z: c.Z * dims.Depth}
}

// Locate maps a global voxel coordinate to its owning chunk and the local
// coordinates inside it. The vertical axis is not chunked; callers must range
// check Y against the chunk height themselves.
func Locate(global Coord, dims Dimensions) (ChunkCoord, Coord) {
	chunk := ChunkCoord{
		X: floorDiv(global.X, dims.Width),
		Z: floorDiv(global.Z, dims.Depth),
	}
	local := Coord{
		X: global.X - chunk.X*dims.Width,
		Y: global.Y,
		Z: global.Z - chunk.Z*dims.Depth,
	}
	return chunk, local
}

// ToWorld converts a voxel-space coordinate to a world-space position using
// the fixed voxel side length.
func (c Coord) ToWorld(side float32) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X) * side, float32(c.Y) * side, float32(c.Z) * side}
}

// WorldToVoxel converts a world-space position to continuous voxel space.
func WorldToVoxel(p mgl32.Vec3, side float32) mgl32.Vec3 {
	return mgl32.Vec3{p.X() / side, p.Y() / side, p.Z() / side}
}

func floorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}
