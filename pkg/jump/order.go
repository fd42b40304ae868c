package jump

import "sort"

// SortByDistance orders candidates by document distance from the cursor,
// closest first, so they receive the shortest labels. Distance compares row
// delta before column delta; ties go to the earlier document position. The
// order is total, making label assignment reproducible for equal inputs.
func SortByDistance(cands []Candidate, cursor Point) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := docDistance(cands[i].Point, cursor), docDistance(cands[j].Point, cursor)
		if di != dj {
			return less2(di, dj)
		}
		return cands[i].Point.Before(cands[j].Point)
	})
}

// docDistance is (|Δrow|, |Δcol|); rows dominate because a target two rows
// away is further than one twenty columns away on the same row.
func docDistance(p, cursor Point) [2]int {
	return [2]int{absInt(p.Row - cursor.Row), absInt(p.Col - cursor.Col)}
}

func less2(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// SortByPixelDistance orders candidates by squared Euclidean on-screen
// distance from the reference pixel, closest first. Ties keep the stable
// input order so the merged multi-view assignment stays deterministic.
func SortByPixelDistance(cands []Candidate, ref Pixel) {
	sort.SliceStable(cands, func(i, j int) bool {
		return pixelDistSq(cands[i].Pixel, ref) < pixelDistSq(cands[j].Pixel, ref)
	})
}

func pixelDistSq(p, ref Pixel) float64 {
	dx := p.X - ref.X
	dy := p.Y - ref.Y
	return dx*dx + dy*dy
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
