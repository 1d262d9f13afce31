package biome

import (
	"math"

	"terravox/internal/voxel"
)

// Generator fills a chunk's voxel buffer from layered noise. blend carries
// one weight in [0,1] per horizontal column (same flattening as the chunk's
// horizontal slice): 0 keeps the biome's own target height, 1 pulls the
// column fully onto the shared surface baseline so neighbouring biomes meet
// seamlessly.
type Generator interface {
	Name() string
	GenerateChunkData(coord voxel.ChunkCoord, blend []float64) voxel.Buffer
}

func blendAt(blend []float64, i int) float64 {
	if i >= len(blend) {
		return 0
	}
	w := blend[i]
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// rasterizeColumn writes one vertical column of voxels for a floating-point
// target surface height. Everything below the integer surface height is
// fully solid; the surface voxel itself gets a density interpolated between
// the iso-level and 255 from the fractional height, which is what the
// extractor later turns into a sub-voxel surface offset. The target may lie
// outside the chunk's vertical range; out-of-range rows simply saturate.
func rasterizeColumn(buf *voxel.Buffer, x, z int, target float64, iso, air uint8, materialAt func(depth int) uint8) {
	surface := int(math.Floor(target))
	frac := target - math.Floor(target)

	for y := 0; y < buf.Dims.Height; y++ {
		switch {
		case y < surface:
			buf.Set(x, z, y, voxel.Voxel{Density: 255, Material: materialAt(surface - y)})
		case y == surface:
			density := float64(iso) + frac*(255-float64(iso))
			buf.Set(x, z, y, voxel.Voxel{Density: uint8(density), Material: materialAt(0)})
		default:
			buf.Set(x, z, y, voxel.Voxel{Density: 0, Material: air})
		}
	}
}

// blendTarget interpolates a biome's own height toward the baseline.
func blendTarget(own, baseline, weight float64) float64 {
	return own + (baseline-own)*weight
}
