package morph

// Score rates a complete candidate segmentation:
//
//	pieces
//	- 1 if the final piece is not a suffix
//	- 1 per root directly followed by a root
//	+ 1 if any piece is a prefix
//
// An empty segmentation scores 0.
func Score(segs []Segment) int {
	if len(segs) == 0 {
		return 0
	}

	score := len(segs)
	if segs[len(segs)-1].Rendering.Kind != KindSuffix {
		score--
	}

	hasPrefix := false
	for i, seg := range segs {
		kind := seg.Rendering.Kind
		if kind == KindPrefix {
			hasPrefix = true
		}
		if i > 0 && kind == KindRoot && segs[i-1].Rendering.Kind == KindRoot {
			score--
		}
	}
	if hasPrefix {
		score++
	}
	return score
}
