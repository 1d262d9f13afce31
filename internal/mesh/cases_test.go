package mesh

import "testing"

func TestCaseTableEmptyForUniformCells(t *testing.T) {
	if len(caseTriangles[0]) != 0 {
		t.Fatalf("all-empty cell should emit no triangles, got %d entries", len(caseTriangles[0]))
	}
	if len(caseTriangles[255]) != 0 {
		t.Fatalf("all-solid cell should emit no triangles, got %d entries", len(caseTriangles[255]))
	}
}

func TestCaseTableStructure(t *testing.T) {
	for cfg := 0; cfg < 256; cfg++ {
		entries := caseTriangles[cfg]
		if len(entries)%3 != 0 {
			t.Fatalf("config %d: %d entries, not a multiple of 3", cfg, len(entries))
		}
		for _, e := range entries {
			if e >= 12 {
				t.Fatalf("config %d references invalid edge %d", cfg, e)
			}
			a, b := cubeEdges[e][0], cubeEdges[e][1]
			aSolid := cfg&(1<<uint(a)) != 0
			bSolid := cfg&(1<<uint(b)) != 0
			if aSolid == bSolid {
				t.Fatalf("config %d emits vertex on edge %d whose endpoints do not differ", cfg, e)
			}
		}
	}
}

// faceChords recovers the contour segments a configuration draws on one face.
// Sides of the fan-triangulated polygons that appear exactly once are the
// polygon boundary; a boundary side whose two crossing edges both lie on the
// face is that face's chord.
func faceChords(cfg int, faceEdges [4]int) map[[2]uint8]bool {
	sides := map[[2]uint8]int{}
	entries := caseTriangles[cfg]
	for i := 0; i+3 <= len(entries); i += 3 {
		for k := 0; k < 3; k++ {
			a, b := entries[i+k], entries[i+(k+1)%3]
			if a > b {
				a, b = b, a
			}
			sides[[2]uint8{a, b}]++
		}
	}

	onFace := map[uint8]bool{}
	for _, e := range faceEdges {
		onFace[uint8(e)] = true
	}

	chords := map[[2]uint8]bool{}
	for side, n := range sides {
		if n == 1 && onFace[side[0]] && onFace[side[1]] {
			chords[side] = true
		}
	}
	return chords
}

func TestCaseTableAdjacentCellsAgreeOnSharedFaces(t *testing.T) {
	// Two cells sharing a face see the same four corners, so every pair of
	// configurations compatible on that face must draw identical chords
	// across it, translated through the edge correspondence. This is the
	// property that makes the extracted surface crack-free.
	axes := []struct {
		name      string
		corners   map[int]int     // this cell's shared corner -> neighbour's
		edges     map[uint8]uint8 // this cell's face edge -> neighbour's
		face      [4]int          // boundary edges of this cell's shared face
		neighbour [4]int
	}{
		{"x", map[int]int{1: 0, 2: 3, 5: 4, 6: 7}, map[uint8]uint8{1: 3, 5: 7, 9: 8, 10: 11}, [4]int{9, 5, 10, 1}, [4]int{3, 11, 7, 8}},
		{"y", map[int]int{4: 0, 5: 1, 6: 2, 7: 3}, map[uint8]uint8{4: 0, 5: 1, 6: 2, 7: 3}, [4]int{7, 6, 5, 4}, [4]int{0, 1, 2, 3}},
		{"z", map[int]int{2: 1, 3: 0, 6: 5, 7: 4}, map[uint8]uint8{2: 0, 6: 4, 10: 9, 11: 8}, [4]int{2, 10, 6, 11}, [4]int{0, 9, 4, 8}},
	}

	for _, ax := range axes {
		mine := make([]map[[2]uint8]bool, 256)
		theirs := make([]map[[2]uint8]bool, 256)
		for cfg := 0; cfg < 256; cfg++ {
			mapped := map[[2]uint8]bool{}
			for chord := range faceChords(cfg, ax.face) {
				u, v := ax.edges[chord[0]], ax.edges[chord[1]]
				if u > v {
					u, v = v, u
				}
				mapped[[2]uint8{u, v}] = true
			}
			mine[cfg] = mapped
			theirs[cfg] = faceChords(cfg, ax.neighbour)
		}

		for a := 0; a < 256; a++ {
			for b := 0; b < 256; b++ {
				shared := true
				for ca, cb := range ax.corners {
					if (a&(1<<uint(ca)) != 0) != (b&(1<<uint(cb)) != 0) {
						shared = false
						break
					}
				}
				if !shared {
					continue
				}
				if len(mine[a]) != len(theirs[b]) {
					t.Fatalf("axis %s: configs %d/%d draw %d vs %d chords on their shared face",
						ax.name, a, b, len(mine[a]), len(theirs[b]))
				}
				for chord := range mine[a] {
					if !theirs[b][chord] {
						t.Fatalf("axis %s: configs %d/%d disagree on chord %v", ax.name, a, b, chord)
					}
				}
			}
		}
	}
}

func TestCaseTableSlabOrientation(t *testing.T) {
	cases := []struct {
		cfg   uint8
		wantY float64 // sign of the expected triangle normal
	}{
		{0x0F, 1},  // lower corners solid, surface faces up
		{0xF0, -1}, // upper corners solid, surface faces down
	}

	for _, tc := range cases {
		entries := caseTriangles[tc.cfg]
		if len(entries) != 6 {
			t.Fatalf("config %#x: expected 2 triangles, got %d entries", tc.cfg, len(entries))
		}
		for i := 0; i < len(entries); i += 3 {
			p0 := edgeMidpoint(int(entries[i]))
			p1 := edgeMidpoint(int(entries[i+1]))
			p2 := edgeMidpoint(int(entries[i+2]))

			e1 := [3]float64{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
			e2 := [3]float64{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
			normalY := e1[2]*e2[0] - e1[0]*e2[2]

			if normalY*tc.wantY <= 0 {
				t.Fatalf("config %#x triangle %d: normal y component %v, want sign %v",
					tc.cfg, i/3, normalY, tc.wantY)
			}
		}
	}
}

func TestCaseTableSingleCornerEmitsOneTriangle(t *testing.T) {
	for corner := 0; corner < 8; corner++ {
		cfg := 1 << uint(corner)
		if len(caseTriangles[cfg]) != 3 {
			t.Fatalf("single solid corner %d: expected 1 triangle, got %d entries",
				corner, len(caseTriangles[cfg]))
		}
	}
}
