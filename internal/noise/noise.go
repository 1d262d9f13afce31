package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"terravox/internal/voxel"
)

// Field produces deterministic 2D heightmaps from seeded multi-octave
// fractal noise. Samples are taken at global voxel coordinates so chunks
// sharing a border sample identical values along it.
type Field struct {
	seed  int64
	noise opensimplex.Noise
}

func New(seed int64) *Field {
	return &Field{
		seed:  seed,
		noise: opensimplex.NewNormalized(seed),
	}
}

func (f *Field) Seed() int64 {
	return f.seed
}

// Heightmap samples one value in [0,1] per horizontal cell of a chunk,
// flattened x fastest then z, matching the chunk's horizontal slice order.
// Octaves outside [1,5] and degenerate persistence/lacunarity are clamped.
func (f *Field) Heightmap(scale float64, octaves int, persistence, lacunarity float64, origin voxel.ChunkCoord, width, depth int) []float64 {
	if octaves < 1 {
		octaves = 1
	}
	if octaves > 5 {
		octaves = 5
	}
	if persistence <= 0 || persistence > 1 {
		persistence = 0.5
	}
	if lacunarity < 1 {
		lacunarity = 1
	}

	baseX := origin.X * width
	baseZ := origin.Z * depth

	out := make([]float64, width*depth)
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			out[x+z*width] = f.fractal(float64(baseX+x), float64(baseZ+z), scale, octaves, persistence, lacunarity)
		}
	}
	return out
}

// Sample evaluates the fractal field at a single global column.
func (f *Field) Sample(globalX, globalZ int, scale float64, octaves int, persistence, lacunarity float64) float64 {
	return f.fractal(float64(globalX), float64(globalZ), scale, octaves, persistence, lacunarity)
}

func (f *Field) fractal(x, z, scale float64, octaves int, persistence, lacunarity float64) float64 {
	frequency := scale
	amplitude := 1.0
	sum := 0.0
	norm := 0.0

	for i := 0; i < octaves; i++ {
		sum += f.noise.Eval2(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	if norm == 0 {
		return 0
	}
	return sum / norm
}
