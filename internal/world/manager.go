package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/biome"
	"terravox/internal/config"
	"terravox/internal/mesh"
	"terravox/internal/voxel"
)

// ErrMissingChunk reports a lookup for a chunk that was never generated when
// the caller did not ask for generation. That is a programming error on the
// caller's side, not a runtime condition.
var ErrMissingChunk = errors.New("chunk not loaded")

// BiomePolicy decides which biome generates a chunk and supplies the
// per-column blend weights pulling its height curve toward the shared
// baseline. Selection itself (temperature maps, biome borders) lives outside
// the engine.
type BiomePolicy interface {
	Select(coord voxel.ChunkCoord) (biome.Generator, []float64)
}

// UniformPolicy assigns every chunk the same generator and a constant blend
// weight. It is the default for tools and tests.
type UniformPolicy struct {
	Generator biome.Generator
	Columns   int // chunk width * depth
	Weight    float64
}

func (p UniformPolicy) Select(voxel.ChunkCoord) (biome.Generator, []float64) {
	blend := make([]float64, p.Columns)
	for i := range blend {
		blend[i] = p.Weight
	}
	return p.Generator, blend
}

// Manager keeps the authoritative set of live chunks and routes terrain
// edits to every chunk they touch.
type Manager struct {
	dims      voxel.Dimensions
	voxelSide float32
	maxRadius float64
	policy    BiomePolicy
	builder   *mesh.Builder

	mu     sync.RWMutex
	chunks map[voxel.ChunkCoord]*Chunk
}

func NewManager(cfg *config.Config, policy BiomePolicy, builder *mesh.Builder) *Manager {
	return &Manager{
		dims: voxel.Dimensions{
			Width:  cfg.Chunk.Width,
			Depth:  cfg.Chunk.Depth,
			Height: cfg.Chunk.Height,
		},
		voxelSide: float32(cfg.World.VoxelSide),
		maxRadius: cfg.Brush.MaxRadius,
		policy:    policy,
		builder:   builder,
		chunks:    make(map[voxel.ChunkCoord]*Chunk),
	}
}

func (m *Manager) Dimensions() voxel.Dimensions {
	return m.dims
}

// Chunk returns the chunk at a coordinate, generating it on first access.
// Generation runs outside the map lock; when two goroutines race on the same
// new coordinate the first insert wins and the loser's buffer is discarded,
// so at most one Chunk ever exists per coordinate.
func (m *Manager) Chunk(coord voxel.ChunkCoord) *Chunk {
	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if ok {
		return ch
	}

	gen, blend := m.policy.Select(coord)
	buf := gen.GenerateChunkData(coord, blend)
	built := m.builder.Build(buf)

	m.mu.Lock()
	if existing, ok := m.chunks[coord]; ok {
		m.mu.Unlock()
		return existing
	}
	ch = newChunk(coord, buf, built)
	m.chunks[coord] = ch
	m.mu.Unlock()

	log.Printf("chunk (%d,%d) generated by %s biome: %d triangles", coord.X, coord.Z, gen.Name(), built.TriangleCount())
	return ch
}

// LoadedChunk returns the chunk at a coordinate only if it already exists.
func (m *Manager) LoadedChunk(coord voxel.ChunkCoord) (*Chunk, error) {
	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("chunk (%d,%d): %w", coord.X, coord.Z, ErrMissingChunk)
	}
	return ch, nil
}

// Loaded lists the coordinates of all live chunks.
func (m *Manager) Loaded() []voxel.ChunkCoord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coords := make([]voxel.ChunkCoord, 0, len(m.chunks))
	for coord := range m.chunks {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})
	return coords
}

// Voxel reads one voxel by global coordinate, generating its chunk when
// needed.
func (m *Manager) Voxel(global voxel.Coord) (voxel.Voxel, error) {
	if global.Y < 0 || global.Y >= m.dims.Height {
		return voxel.Voxel{}, fmt.Errorf("voxel %v above or below world", global)
	}
	coord, local := voxel.Locate(global, m.dims)
	v, _ := m.Chunk(coord).Voxel(local.X, local.Z, local.Y)
	return v, nil
}

// Preload generates a set of chunks across a bounded worker pool. Each
// chunk's pipeline is independent, so the only shared state is the chunk map
// itself.
func (m *Manager) Preload(ctx context.Context, coords []voxel.ChunkCoord, workers int) error {
	if len(coords) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(coords) {
		workers = len(coords)
	}

	tasks := make(chan voxel.ChunkCoord)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coord := range tasks {
				m.Chunk(coord)
			}
		}()
	}

	var err error
feed:
	for _, coord := range coords {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case tasks <- coord:
		}
	}
	close(tasks)
	wg.Wait()
	return err
}

// pointEdit is one voxel's pending density change, grouped per chunk.
type pointEdit struct {
	local  voxel.Coord
	amount int
}

// ApplyBrush sculpts all voxels within radius (voxel-space units) of a
// world-space point. The applied delta falls off smoothly from full strength
// at the centre to zero at the radius; resulting densities clamp to [0,255].
// Every chunk the sphere overlaps is remeshed exactly once before returning,
// generating untouched chunks on demand.
func (m *Manager) ApplyBrush(worldPoint mgl32.Vec3, radius float64, delta int, material uint8) {
	if radius > m.maxRadius {
		radius = m.maxRadius
	}
	if radius <= 0 || delta == 0 {
		return
	}

	center := voxel.WorldToVoxel(worldPoint, m.voxelSide)
	cx := float64(center.X())
	cy := float64(center.Y())
	cz := float64(center.Z())

	byChunk := make(map[voxel.ChunkCoord][]pointEdit)
	for y := int(math.Floor(cy - radius)); y <= int(math.Ceil(cy+radius)); y++ {
		if y < 0 || y >= m.dims.Height {
			continue
		}
		for z := int(math.Floor(cz - radius)); z <= int(math.Ceil(cz+radius)); z++ {
			for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
				dx := float64(x) - cx
				dy := float64(y) - cy
				dz := float64(z) - cz
				dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if dist > radius {
					continue
				}
				amount := int(math.Round(float64(delta) * brushFalloff(dist/radius)))
				if amount == 0 {
					continue
				}
				coord, local := voxel.Locate(voxel.Coord{X: x, Y: y, Z: z}, m.dims)
				byChunk[coord] = append(byChunk[coord], pointEdit{local: local, amount: amount})
			}
		}
	}

	m.applyEdits(byChunk, material)
}

// ApplyPoints applies a flat density delta to a discrete set of voxel-space
// points. Duplicate points collapse to a single application. Chunks touched
// by the set are each remeshed exactly once.
func (m *Manager) ApplyPoints(points []voxel.Coord, delta int, material uint8) {
	if delta == 0 {
		return
	}

	seen := make(map[voxel.Coord]struct{}, len(points))
	byChunk := make(map[voxel.ChunkCoord][]pointEdit)
	for _, p := range points {
		if p.Y < 0 || p.Y >= m.dims.Height {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		coord, local := voxel.Locate(p, m.dims)
		byChunk[coord] = append(byChunk[coord], pointEdit{local: local, amount: delta})
	}

	m.applyEdits(byChunk, material)
}

// applyEdits mutates every touched chunk and rebuilds its mesh in one
// exclusive step per chunk, so voxel data and mesh can never desynchronize.
func (m *Manager) applyEdits(byChunk map[voxel.ChunkCoord][]pointEdit, material uint8) {
	coords := make([]voxel.ChunkCoord, 0, len(byChunk))
	for coord := range byChunk {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})

	air := m.builder.Atlas().Air()
	for _, coord := range coords {
		edits := byChunk[coord]
		ch := m.Chunk(coord)
		ch.edit(func(buf *voxel.Buffer) bool {
			changed := false
			for _, e := range edits {
				v := buf.At(e.local.X, e.local.Z, e.local.Y)
				next := applyDelta(v, e.amount, material, air)
				if next != v {
					buf.Set(e.local.X, e.local.Z, e.local.Y, next)
					changed = true
				}
			}
			return changed
		}, m.builder.Build)
	}
}

// applyDelta clamps the density change and settles the voxel's material:
// carving a voxel down to zero turns it back to air, while any added density
// stamps the brush material onto it.
func applyDelta(v voxel.Voxel, amount int, material, air uint8) voxel.Voxel {
	density := int(v.Density) + amount
	if density < 0 {
		density = 0
	}
	if density > 255 {
		density = 255
	}

	next := voxel.Voxel{Density: uint8(density), Material: v.Material}
	switch {
	case density == 0:
		next.Material = air
	case amount > 0:
		next.Material = material
	}
	return next
}

// brushFalloff maps normalized distance (0 at the brush centre, 1 at its
// radius) to delta strength. Smoothstep keeps the edit free of hard rings:
// full strength at the centre, exactly zero at the rim.
func brushFalloff(normalized float64) float64 {
	t := 1 - normalized
	return t * t * (3 - 2*t)
}
