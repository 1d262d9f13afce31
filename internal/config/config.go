package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures every tunable the terrain pipeline reads. All values are
// fixed inputs to the pure generation/meshing functions; nothing here is
// re-validated at runtime.
type Config struct {
	Chunk      ChunkConfig      `yaml:"chunk"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	World      WorldConfig      `yaml:"world"`
	Atlas      AtlasConfig      `yaml:"atlas"`
	Simplifier SimplifierConfig `yaml:"simplifier"`
	Brush      BrushConfig      `yaml:"brush"`
	Biomes     BiomesConfig     `yaml:"biomes"`
}

type ChunkConfig struct {
	Width  int `yaml:"width"`
	Depth  int `yaml:"depth"`
	Height int `yaml:"height"`
}

type TerrainConfig struct {
	Seed        int64   `yaml:"seed"`
	Scale       float64 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

type WorldConfig struct {
	VoxelSide    float64 `yaml:"voxel_side"`    // world units per voxel
	IsoLevel     int     `yaml:"iso_level"`     // density threshold separating solid from air
	SurfaceLevel float64 `yaml:"surface_level"` // shared baseline height biomes blend toward
}

type AtlasConfig struct {
	MaterialsPerRow int `yaml:"materials_per_row"`
}

type SimplifierConfig struct {
	Enabled         bool    `yaml:"enabled"`
	NormalThreshold float64 `yaml:"normal_threshold"` // min face-normal dot for coplanarity
	VertexEpsilon   float64 `yaml:"vertex_epsilon"`   // positional merge tolerance in world units
}

type BrushConfig struct {
	MaxRadius float64 `yaml:"max_radius"` // voxel-space units
}

type BiomesConfig struct {
	Ice  IceBiomeConfig  `yaml:"ice"`
	Rock RockBiomeConfig `yaml:"rock"`
}

type IceBiomeConfig struct {
	HeightExponent      float64 `yaml:"height_exponent"`
	MaxHeightDifference float64 `yaml:"max_height_difference"`
	SnowDepth           int     `yaml:"snow_depth"`
	SurfaceMaterial     int     `yaml:"surface_material"`
	FillMaterial        int     `yaml:"fill_material"`
	ColumnMaterial      int     `yaml:"column_material"`
	ColumnScale         float64 `yaml:"column_scale"`
	ColumnThreshold     float64 `yaml:"column_threshold"`
	ColumnGain          float64 `yaml:"column_gain"`
	ColumnMaxExtra      int     `yaml:"column_max_extra"`
}

type RockBiomeConfig struct {
	HeightExponent      float64 `yaml:"height_exponent"`
	MaxHeightDifference float64 `yaml:"max_height_difference"`
	TopsoilDepth        int     `yaml:"topsoil_depth"`
	SurfaceMaterial     int     `yaml:"surface_material"`
	FillMaterial        int     `yaml:"fill_material"`
}

// Load reads configuration from a YAML file. An empty path returns defaults.
// Out-of-range numeric parameters are clamped rather than rejected; the
// pipeline runs inside an interactive loop where aborting is worse than a
// slightly wrong value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Width:  16,
			Depth:  16,
			Height: 64,
		},
		Terrain: TerrainConfig{
			Seed:        1337,
			Scale:       0.02,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
		},
		World: WorldConfig{
			VoxelSide:    1.0,
			IsoLevel:     128,
			SurfaceLevel: 30,
		},
		Atlas: AtlasConfig{
			MaterialsPerRow: 4,
		},
		Simplifier: SimplifierConfig{
			Enabled:         true,
			NormalThreshold: 0.95,
			VertexEpsilon:   0.01,
		},
		Brush: BrushConfig{
			MaxRadius: 12,
		},
		Biomes: BiomesConfig{
			Ice: IceBiomeConfig{
				HeightExponent:      1.4,
				MaxHeightDifference: 18,
				SnowDepth:           3,
				SurfaceMaterial:     0,
				FillMaterial:        1,
				ColumnMaterial:      2,
				ColumnScale:         0.09,
				ColumnThreshold:     0.5,
				ColumnGain:          26,
				ColumnMaxExtra:      9,
			},
			Rock: RockBiomeConfig{
				HeightExponent:      2.0,
				MaxHeightDifference: 26,
				TopsoilDepth:        1,
				SurfaceMaterial:     3,
				FillMaterial:        4,
			},
		},
	}
}

// Clamp forces tunable parameters back into their documented ranges.
func (c *Config) Clamp() {
	c.Terrain.Octaves = clampInt(c.Terrain.Octaves, 1, 5)
	if c.Terrain.Persistence <= 0 || c.Terrain.Persistence > 1 {
		c.Terrain.Persistence = 0.5
	}
	if c.Terrain.Lacunarity < 1 {
		c.Terrain.Lacunarity = 1
	}
	if c.Terrain.Scale <= 0 {
		c.Terrain.Scale = 0.02
	}
	c.World.IsoLevel = clampInt(c.World.IsoLevel, 1, 254)
	if c.World.VoxelSide <= 0 {
		c.World.VoxelSide = 1
	}
	if c.Simplifier.NormalThreshold <= 0 || c.Simplifier.NormalThreshold > 1 {
		c.Simplifier.NormalThreshold = 0.95
	}
	if c.Simplifier.VertexEpsilon <= 0 {
		c.Simplifier.VertexEpsilon = 0.01
	}
	if c.Brush.MaxRadius < 0 {
		c.Brush.MaxRadius = 0
	}
	if c.Biomes.Ice.SnowDepth < 0 {
		c.Biomes.Ice.SnowDepth = 0
	}
	if c.Biomes.Ice.ColumnMaxExtra < 0 {
		c.Biomes.Ice.ColumnMaxExtra = 0
	}
	if c.Biomes.Rock.TopsoilDepth < 0 {
		c.Biomes.Rock.TopsoilDepth = 0
	}
}

// Validate rejects configurations the pipeline cannot run with at all.
func (c *Config) Validate() error {
	if c.Chunk.Width <= 1 || c.Chunk.Depth <= 1 || c.Chunk.Height <= 1 {
		return errors.New("chunk dimensions must each be at least 2")
	}
	if c.Atlas.MaterialsPerRow <= 0 {
		return errors.New("atlas.materials_per_row must be positive")
	}
	palette := c.Atlas.MaterialsPerRow * c.Atlas.MaterialsPerRow
	for _, m := range []int{
		c.Biomes.Ice.SurfaceMaterial, c.Biomes.Ice.FillMaterial, c.Biomes.Ice.ColumnMaterial,
		c.Biomes.Rock.SurfaceMaterial, c.Biomes.Rock.FillMaterial,
	} {
		if m < 0 || m >= palette {
			return fmt.Errorf("biome material %d outside palette of %d entries", m, palette)
		}
	}
	return nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
