package main

import (
	"context"
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/biome"
	"terravox/internal/config"
	"terravox/internal/mesh"
	"terravox/internal/noise"
	"terravox/internal/voxel"
	"terravox/internal/world"
)

func main() {
	var (
		cfgPath string
		area    int
		workers int
	)
	flag.StringVar(&cfgPath, "config", "", "path to terrain configuration file")
	flag.IntVar(&area, "area", 4, "side length of the square chunk area to generate")
	flag.IntVar(&workers, "workers", 0, "concurrent chunk pipelines (0 = GOMAXPROCS)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	field := noise.New(cfg.Terrain.Seed)
	policy := world.UniformPolicy{
		Generator: biome.NewIce(cfg, field),
		Columns:   cfg.Chunk.Width * cfg.Chunk.Depth,
	}
	builder := mesh.NewBuilder(cfg)
	manager := world.NewManager(cfg, policy, builder)

	coords := make([]voxel.ChunkCoord, 0, area*area)
	for x := 0; x < area; x++ {
		for z := 0; z < area; z++ {
			coords = append(coords, voxel.ChunkCoord{X: x, Z: z})
		}
	}

	if err := manager.Preload(context.Background(), coords, workers); err != nil {
		log.Fatalf("preload chunks: %v", err)
	}

	total := 0
	for _, coord := range manager.Loaded() {
		ch, err := manager.LoadedChunk(coord)
		if err != nil {
			log.Fatalf("loaded chunk went missing: %v", err)
		}
		total += ch.Mesh().TriangleCount()
	}
	log.Printf("generated %d chunks, %d triangles total", len(coords), total)

	// Carve a crater in the middle of the area to exercise the edit path.
	center := mgl32.Vec3{
		float32(area) * float32(cfg.Chunk.Width) * float32(cfg.World.VoxelSide) / 2,
		float32(cfg.World.SurfaceLevel) * float32(cfg.World.VoxelSide),
		float32(area) * float32(cfg.Chunk.Depth) * float32(cfg.World.VoxelSide) / 2,
	}
	manager.ApplyBrush(center, 6, -160, 0)
	log.Printf("applied demo brush at %v", center)
}
