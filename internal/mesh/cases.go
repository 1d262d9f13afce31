package mesh

// Marching cubes cell topology. Corner and edge numbering, y up:
//
//	      4--------5        corners 0..3 on the lower face,
//	     /|       /|        corners 4..7 directly above them.
//	    7--------6 |
//	    | |      | |        edge e joins cubeEdges[e][0] and
//	    | 0------|-1        cubeEdges[e][1].
//	    |/       |/
//	    3--------2
//
// caseTriangles[c] holds, for the 8-bit solid-corner configuration c, the
// edge indices of the emitted triangles (three entries per triangle), wound
// so face normals point out of the solid region. The table is derived once
// at init by pairing surface crossings around each cube face and chaining
// them into loops; every face pairs its crossings across arcs of empty
// corners, so two cells sharing a face always agree on the shared contour.
var caseTriangles [256][]uint8

var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Each face lists its corner cycle counter-clockwise as seen from outside
// the cube, and the boundary edge crossed between consecutive cycle corners.
var cubeFaces = [6]struct {
	corners [4]int
	edges   [4]int
}{
	{[4]int{0, 1, 2, 3}, [4]int{0, 1, 2, 3}},   // bottom, -y
	{[4]int{4, 7, 6, 5}, [4]int{7, 6, 5, 4}},   // top, +y
	{[4]int{0, 4, 5, 1}, [4]int{8, 4, 9, 0}},   // front, -z
	{[4]int{3, 2, 6, 7}, [4]int{2, 10, 6, 11}}, // back, +z
	{[4]int{0, 3, 7, 4}, [4]int{3, 11, 7, 8}},  // left, -x
	{[4]int{1, 5, 6, 2}, [4]int{9, 5, 10, 1}},  // right, +x
}

func init() {
	for cfg := 1; cfg < 255; cfg++ {
		caseTriangles[cfg] = buildCase(uint8(cfg))
	}
}

func buildCase(cfg uint8) []uint8 {
	solid := func(corner int) bool {
		return cfg&(1<<uint(corner)) != 0
	}

	// For every face, pair each solid-to-empty crossing with the next
	// crossing along the cycle. A crossed edge lies on two faces walked in
	// opposite directions, so each crossing gains exactly one successor and
	// one predecessor, closing the contours.
	next := [12]int{}
	for i := range next {
		next[i] = -1
	}
	for _, face := range cubeFaces {
		type crossing struct {
			edge    int
			leaving bool // walk passes from a solid corner to an empty one
		}
		var crossings []crossing
		for i := 0; i < 4; i++ {
			a := face.corners[i]
			b := face.corners[(i+1)%4]
			if solid(a) != solid(b) {
				crossings = append(crossings, crossing{edge: face.edges[i], leaving: solid(a)})
			}
		}
		for k, c := range crossings {
			if c.leaving {
				next[c.edge] = crossings[(k+1)%len(crossings)].edge
			}
		}
	}

	var tris []uint8
	visited := [12]bool{}
	for start := 0; start < 12; start++ {
		if next[start] < 0 || visited[start] {
			continue
		}
		loop := []int{start}
		visited[start] = true
		for e := next[start]; e != start; e = next[e] {
			loop = append(loop, e)
			visited[e] = true
		}
		orientLoop(loop, solid)
		for i := 1; i+1 < len(loop); i++ {
			tris = append(tris, uint8(loop[0]), uint8(loop[i]), uint8(loop[i+1]))
		}
	}
	return tris
}

// orientLoop reverses the contour in place if its winding would face the
// solid side. The test direction is from the loop's own solid edge endpoints
// toward its empty ones, which is never degenerate for a single contour.
func orientLoop(loop []int, solid func(int) bool) {
	var normal, grad [3]float64
	n := len(loop)
	for i, e := range loop {
		cur := edgeMidpoint(e)
		nxt := edgeMidpoint(loop[(i+1)%n])
		normal[0] += (cur[1] - nxt[1]) * (cur[2] + nxt[2])
		normal[1] += (cur[2] - nxt[2]) * (cur[0] + nxt[0])
		normal[2] += (cur[0] - nxt[0]) * (cur[1] + nxt[1])

		a, b := cubeEdges[e][0], cubeEdges[e][1]
		if solid(a) {
			a, b = b, a
		}
		// a is now the empty endpoint, b the solid one.
		for axis := 0; axis < 3; axis++ {
			grad[axis] += float64(cubeCorners[a][axis] - cubeCorners[b][axis])
		}
	}

	dot := normal[0]*grad[0] + normal[1]*grad[1] + normal[2]*grad[2]
	if dot < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
	}
}

func edgeMidpoint(e int) [3]float64 {
	a := cubeCorners[cubeEdges[e][0]]
	b := cubeCorners[cubeEdges[e][1]]
	return [3]float64{
		float64(a[0]+b[0]) / 2,
		float64(a[1]+b[1]) / 2,
		float64(a[2]+b[2]) / 2,
	}
}
