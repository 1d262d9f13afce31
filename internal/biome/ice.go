package biome

import (
	"math"

	"github.com/aquilax/go-perlin"

	"terravox/internal/config"
	"terravox/internal/noise"
	"terravox/internal/voxel"
)

const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

// Ice is a snow-over-ice biome: a smooth height field capped with a snow
// layer, plus ice columns rising where an independent feature noise spikes
// past its threshold.
type Ice struct {
	dims    voxel.Dimensions
	field   *noise.Field
	columns *perlin.Perlin
	terrain config.TerrainConfig
	world   config.WorldConfig
	cfg     config.IceBiomeConfig
	iso     uint8
	air     uint8
}

func NewIce(cfg *config.Config, field *noise.Field) *Ice {
	return &Ice{
		dims: voxel.Dimensions{
			Width:  cfg.Chunk.Width,
			Depth:  cfg.Chunk.Depth,
			Height: cfg.Chunk.Height,
		},
		field: field,
		// Separate seed stream so columns do not correlate with the
		// height field.
		columns: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, field.Seed()+1),
		terrain: cfg.Terrain,
		world:   cfg.World,
		cfg:     cfg.Biomes.Ice,
		iso:     uint8(cfg.World.IsoLevel),
		air:     uint8(cfg.Atlas.MaterialsPerRow * cfg.Atlas.MaterialsPerRow),
	}
}

func (b *Ice) Name() string {
	return "ice"
}

func (b *Ice) GenerateChunkData(coord voxel.ChunkCoord, blend []float64) voxel.Buffer {
	buf := voxel.NewBuffer(b.dims)
	heights := b.field.Heightmap(
		b.terrain.Scale, b.terrain.Octaves, b.terrain.Persistence, b.terrain.Lacunarity,
		coord, b.dims.Width, b.dims.Depth,
	)

	snow := uint8(b.cfg.SurfaceMaterial)
	ice := uint8(b.cfg.FillMaterial)
	materialAt := func(depth int) uint8 {
		if depth < b.cfg.SnowDepth {
			return snow
		}
		return ice
	}

	origin := coord.Origin(b.dims)
	for z := 0; z < b.dims.Depth; z++ {
		for x := 0; x < b.dims.Width; x++ {
			i := x + z*b.dims.Width
			curved := math.Pow(heights[i], b.cfg.HeightExponent)
			own := b.world.SurfaceLevel + curved*b.cfg.MaxHeightDifference
			target := blendTarget(own, b.world.SurfaceLevel, blendAt(blend, i))

			rasterizeColumn(&buf, x, z, target, b.iso, b.air, materialAt)
			b.raiseColumnFeature(&buf, x, z, origin.X+x, origin.Z+z, target)
		}
	}
	return buf
}

// raiseColumnFeature grows an ice column where the feature noise exceeds its
// threshold, by an amount proportional to the overshoot and capped by
// configuration. Column cells carry their own material so they read as a
// distinct feature on the surface.
func (b *Ice) raiseColumnFeature(buf *voxel.Buffer, x, z, globalX, globalZ int, target float64) {
	sample := b.columnNoise(globalX, globalZ)
	if sample <= b.cfg.ColumnThreshold {
		return
	}

	extra := int((sample - b.cfg.ColumnThreshold) * b.cfg.ColumnGain)
	if extra > b.cfg.ColumnMaxExtra {
		extra = b.cfg.ColumnMaxExtra
	}
	if extra <= 0 {
		return
	}

	base := int(math.Floor(target))
	material := uint8(b.cfg.ColumnMaterial)
	for y := base; y <= base+extra; y++ {
		if y < 0 || y >= buf.Dims.Height {
			continue
		}
		buf.Set(x, z, y, voxel.Voxel{Density: 255, Material: material})
	}
}

// columnNoise maps the perlin sample into [0,1].
func (b *Ice) columnNoise(globalX, globalZ int) float64 {
	raw := b.columns.Noise2D(float64(globalX)*b.cfg.ColumnScale, float64(globalZ)*b.cfg.ColumnScale)
	return raw + 0.5
}
