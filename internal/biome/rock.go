package biome

import (
	"math"

	"terravox/internal/config"
	"terravox/internal/noise"
	"terravox/internal/voxel"
)

// Rock is a bare stone biome: a steeper height response than ice and a thin
// weathered top layer, with no surface features.
type Rock struct {
	dims    voxel.Dimensions
	field   *noise.Field
	terrain config.TerrainConfig
	world   config.WorldConfig
	cfg     config.RockBiomeConfig
	iso     uint8
	air     uint8
}

func NewRock(cfg *config.Config, field *noise.Field) *Rock {
	return &Rock{
		dims: voxel.Dimensions{
			Width:  cfg.Chunk.Width,
			Depth:  cfg.Chunk.Depth,
			Height: cfg.Chunk.Height,
		},
		field:   field,
		terrain: cfg.Terrain,
		world:   cfg.World,
		cfg:     cfg.Biomes.Rock,
		iso:     uint8(cfg.World.IsoLevel),
		air:     uint8(cfg.Atlas.MaterialsPerRow * cfg.Atlas.MaterialsPerRow),
	}
}

func (b *Rock) Name() string {
	return "rock"
}

func (b *Rock) GenerateChunkData(coord voxel.ChunkCoord, blend []float64) voxel.Buffer {
	buf := voxel.NewBuffer(b.dims)
	heights := b.field.Heightmap(
		b.terrain.Scale, b.terrain.Octaves, b.terrain.Persistence, b.terrain.Lacunarity,
		coord, b.dims.Width, b.dims.Depth,
	)

	top := uint8(b.cfg.SurfaceMaterial)
	stone := uint8(b.cfg.FillMaterial)
	materialAt := func(depth int) uint8 {
		if depth <= b.cfg.TopsoilDepth {
			return top
		}
		return stone
	}

	for z := 0; z < b.dims.Depth; z++ {
		for x := 0; x < b.dims.Width; x++ {
			i := x + z*b.dims.Width
			curved := math.Pow(heights[i], b.cfg.HeightExponent)
			own := b.world.SurfaceLevel + curved*b.cfg.MaxHeightDifference
			target := blendTarget(own, b.world.SurfaceLevel, blendAt(blend, i))
			rasterizeColumn(&buf, x, z, target, b.iso, b.air, materialAt)
		}
	}
	return buf
}
