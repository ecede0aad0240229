/*
 * score.go, part of molsurf/sc.
 *
 * Copyright 2024 The molsurf developers
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

package sc

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// aggregate pairs the two trimmed surfaces by nearest neighbors and
// folds the per-dot scores into the final statistic. For a dot a with
// nearest opposite dot b,
//
//	score(a) = -(n_a . n_b) * exp(-w * |a-b|^2)
//
// which is 1 for touching, perfectly anti-aligned surface patches. Sc
// is the average of the two directional score medians; the reported
// distance is the average of the two directional distance medians.
// Workers write into id-indexed slots and the medians run over the
// id-ordered arrays, so the results do not depend on the worker count.
func (c *Calculator) aggregate(res *Results) error {
	if len(c.trimmed[0]) == 0 || len(c.trimmed[1]) == 0 {
		return newError(KindEmptyInterface, "no interface dots left after trimming; the molecules do not touch")
	}
	w := c.settings.Weight
	workers := c.settings.workers()
	for mol := 0; mol < 2; mol++ {
		other := 1 - mol
		tree := newDotTree(c.dots[other], c.trimmed[other])
		ids := c.trimmed[mol]
		dists := make([]float64, len(ids))
		scores := make([]float64, len(ids))
		parallelChunks(len(ids), workers, func(lo, hi int) {
			for x := lo; x < hi; x++ {
				d := &c.dots[mol][ids[x]]
				nb, d2 := tree.Nearest(dotPoint{pos: d.Coor, id: -1})
				b := &c.dots[other][nb.(dotPoint).id]
				r := math.Sqrt(d2)
				dists[x] = r
				scores[x] = -r3.Dot(d.Normal, b.Normal) * math.Exp(-w*d2)
			}
		})
		s := &res.Surfaces[mol]
		s.TrimmedArea = kahanSumAreas(c.dots[mol], ids)
		s.MeanDist = kahanSum(dists) / float64(len(dists))
		s.MedianDist = medianOf(dists)
		s.MeanScore = kahanSum(scores) / float64(len(scores))
		s.MedianScore = medianOf(scores)
	}
	res.Sc = (res.Surfaces[0].MedianScore + res.Surfaces[1].MedianScore) / 2
	res.Distance = (res.Surfaces[0].MedianDist + res.Surfaces[1].MedianDist) / 2
	res.Area = res.Surfaces[0].TrimmedArea + res.Surfaces[1].TrimmedArea
	return nil
}

// kahanSum sums in index order with Kahan-Babuska (Neumaier)
// compensation, which also recovers small terms swallowed by a much
// larger running sum; the result is a pure function of the slice
// contents.
func kahanSum(vals []float64) float64 {
	var sum, comp float64
	for _, v := range vals {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			comp += (sum - t) + v
		} else {
			comp += (v - t) + sum
		}
		sum = t
	}
	return sum + comp
}

// kahanSumAreas sums the per-dot areas of the selected dots, in id
// order.
func kahanSumAreas(dots []Dot, ids []int) float64 {
	var sum, comp float64
	for _, id := range ids {
		y := dots[id].Area - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return sum
}

// scored pairs a value with its slot id so that quickselect can break
// value ties deterministically.
type scored struct {
	v  float64
	id int
}

func scoredLess(a, b scored) bool {
	if a.v != b.v {
		return a.v < b.v
	}
	return a.id < b.id
}

// medianOf returns the median of the exact multiset: the middle element
// for odd lengths, the mean of the two middle elements for even ones.
func medianOf(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	s := make([]scored, n)
	for i, v := range vals {
		s[i] = scored{v: v, id: i}
	}
	if n%2 == 1 {
		return selectKth(s, n/2).v
	}
	lo := selectKth(s, n/2-1).v
	hi := selectKth(s, n/2).v
	return (lo + hi) / 2
}

// selectKth places the k-th smallest element (by scoredLess) at index k
// and returns it; quickselect with a median-of-three pivot.
func selectKth(s []scored, k int) scored {
	lo, hi := 0, len(s)-1
	for lo < hi {
		p := partitionScored(s, lo, hi)
		switch {
		case k == p:
			return s[k]
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return s[k]
}

func partitionScored(s []scored, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if scoredLess(s[mid], s[lo]) {
		s[mid], s[lo] = s[lo], s[mid]
	}
	if scoredLess(s[hi], s[lo]) {
		s[hi], s[lo] = s[lo], s[hi]
	}
	if scoredLess(s[hi], s[mid]) {
		s[hi], s[mid] = s[mid], s[hi]
	}
	s[mid], s[hi] = s[hi], s[mid]
	pivot := s[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if scoredLess(s[j], pivot) {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	s[i], s[hi] = s[hi], s[i]
	return i
}
