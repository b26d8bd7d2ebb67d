// Package textmerge implements the line-based three-way textual merge the
// spec treats as an external, swappable collaborator. It follows the
// classic diff3 synchronization approach: align base against ours and
// base against theirs independently, then walk the shared anchor points
// (lines unchanged on both sides) to decide, segment by segment, which
// side's change (if either) to take.
package textmerge

import "bytes"

const (
	markerOurs   = "<<<<<<< ours"
	markerBase   = "||||||| base"
	markerTheirs = "======="
	markerEnd    = ">>>>>>> theirs"
)

// Merge reconciles base, ours, and theirs line by line, returning the
// merged bytes and whether any region required conflict markers.
func Merge(base, ours, theirs []byte) ([]byte, bool) {
	baseLines := splitLines(base)
	ourLines := splitLines(ours)
	theirLines := splitLines(theirs)

	matchA := lcsMatch(baseLines, ourLines)
	matchB := lcsMatch(baseLines, theirLines)

	anchors := commonAnchors(matchA, matchB, len(baseLines))
	anchors = append(anchors, [3]int{len(baseLines), len(ourLines), len(theirLines)})

	var out [][]byte
	conflict := false
	bPrev, aPrev, tPrev := 0, 0, 0

	for _, anchor := range anchors {
		bIdx, aIdx, tIdx := anchor[0], anchor[1], anchor[2]

		merged, segConflict := mergeSegment(
			baseLines[bPrev:bIdx],
			ourLines[aPrev:aIdx],
			theirLines[tPrev:tIdx],
		)
		out = append(out, merged...)
		if segConflict {
			conflict = true
		}

		if bIdx < len(baseLines) {
			out = append(out, baseLines[bIdx])
		}
		bPrev, aPrev, tPrev = bIdx+1, aIdx+1, tIdx+1
	}

	return bytes.Join(out, []byte("\n")), conflict
}

func mergeSegment(base, ours, theirs [][]byte) ([][]byte, bool) {
	ourChanged := !linesEqual(base, ours)
	theirChanged := !linesEqual(base, theirs)

	switch {
	case !ourChanged && !theirChanged:
		return copyLines(base), false
	case ourChanged && !theirChanged:
		return copyLines(ours), false
	case !ourChanged && theirChanged:
		return copyLines(theirs), false
	case linesEqual(ours, theirs):
		return copyLines(ours), false
	default:
		var merged [][]byte
		merged = append(merged, []byte(markerOurs))
		merged = append(merged, ours...)
		merged = append(merged, []byte(markerBase))
		merged = append(merged, base...)
		merged = append(merged, []byte(markerTheirs))
		merged = append(merged, theirs...)
		merged = append(merged, []byte(markerEnd))
		return merged, true
	}
}

func copyLines(lines [][]byte) [][]byte {
	out := make([][]byte, len(lines))
	copy(out, lines)
	return out
}

func linesEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	return bytes.Split(data, []byte("\n"))
}

type linePair struct{ base, other int }

// lcsMatch returns the longest common subsequence of base and other as a
// list of matched (base index, other index) pairs, in increasing order.
func lcsMatch(base, other [][]byte) []linePair {
	n, m := len(base), len(other)
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case bytes.Equal(base[i], other[j]):
				dp[i][j] = dp[i+1][j+1] + 1
			case dp[i+1][j] >= dp[i][j+1]:
				dp[i][j] = dp[i+1][j]
			default:
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var matches []linePair
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case bytes.Equal(base[i], other[j]):
			matches = append(matches, linePair{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return matches
}

// commonAnchors returns, in increasing base-index order, every base line
// that is matched by both alignments — the synchronization points diff3
// walks between.
func commonAnchors(matchA, matchB []linePair, baseLen int) [][3]int {
	aOf := make(map[int]int, len(matchA))
	for _, p := range matchA {
		aOf[p.base] = p.other
	}
	bOf := make(map[int]int, len(matchB))
	for _, p := range matchB {
		bOf[p.base] = p.other
	}

	var anchors [][3]int
	for bIdx := 0; bIdx < baseLen; bIdx++ {
		aIdx, okA := aOf[bIdx]
		tIdx, okB := bOf[bIdx]
		if okA && okB {
			anchors = append(anchors, [3]int{bIdx, aIdx, tIdx})
		}
	}
	return anchors
}
