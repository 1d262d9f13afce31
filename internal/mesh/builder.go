package mesh

import (
	"terravox/internal/config"
	"terravox/internal/voxel"
)

// Builder runs the per-chunk meshing pipeline: isosurface extraction followed
// by optional greedy simplification. It holds only immutable configuration,
// so a single Builder may serve any number of chunks concurrently.
type Builder struct {
	extract  ExtractConfig
	simplify SimplifyConfig
	enabled  bool
}

func NewBuilder(cfg *config.Config) *Builder {
	atlas := Atlas{MaterialsPerRow: cfg.Atlas.MaterialsPerRow}
	return &Builder{
		extract: ExtractConfig{
			IsoLevel:  uint8(cfg.World.IsoLevel),
			VoxelSide: float32(cfg.World.VoxelSide),
			Atlas:     atlas,
		},
		simplify: SimplifyConfig{
			NormalThreshold: float32(cfg.Simplifier.NormalThreshold),
			VertexEpsilon:   float32(cfg.Simplifier.VertexEpsilon),
			Atlas:           atlas,
		},
		enabled: cfg.Simplifier.Enabled,
	}
}

// Atlas exposes the material atlas the builder encodes UVs with.
func (b *Builder) Atlas() Atlas {
	return b.extract.Atlas
}

// ExtractOnly runs just the extraction stage, bypassing simplification.
// Consistency checks compare a chunk's stored mesh against this.
func (b *Builder) ExtractOnly(buf voxel.Buffer) Mesh {
	return Extract(buf, b.extract)
}

// Build produces the renderable mesh for one chunk's voxel buffer.
func (b *Builder) Build(buf voxel.Buffer) Mesh {
	m := Extract(buf, b.extract)
	if b.enabled {
		m = Simplify(m, b.simplify)
	}
	return m
}
