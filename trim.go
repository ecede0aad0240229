/*
 * trim.go, part of molsurf/sc.
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

	"gonum.org/v1/gonum/spatial/kdtree"
)

// trimPeripheral reduces each molecule's dots to the interface set in
// two stages. The burial stage already ran at emission time (a dot is
// buried when its probe position touches the other molecule's expanded
// surface); here the rim of the buried region is eroded: a dot keeps
// only if its TrimKN nearest buried companions all lie within the
// peripheral band and sit no farther apart on average than an interior
// patch at the sampling density allows. Rim dots see a sparser
// neighborhood on one side and fail the mean test. Removal is final;
// eroded dots are never reinstated.
func (c *Calculator) trimPeripheral() {
	workers := c.settings.workers()
	threshold := trimAlpha / math.Sqrt(c.settings.DotDensity)
	band := c.settings.PeripheralBand
	kn := c.settings.TrimKN
	for mol := 0; mol < 2; mol++ {
		dots := c.dots[mol]
		var buried []int
		for id := range dots {
			if dots[id].Buried {
				buried = append(buried, id)
			}
		}
		if len(buried) == 0 {
			c.trimmed[mol] = nil
			continue
		}
		tree := newDotTree(dots, buried)
		keep := make([]bool, len(buried))
		want := kn
		if len(buried)-1 < want {
			want = len(buried) - 1
		}
		parallelChunks(len(buried), workers, func(lo, hi int) {
			for x := lo; x < hi; x++ {
				id := buried[x]
				//the keeper holds the query dot itself plus its kn
				//nearest companions
				keeper := kdtree.NewNKeeper(kn + 1)
				tree.NearestSet(keeper, dotPoint{pos: dots[id].Coor, id: id})
				var sum float64
				n := 0
				for _, cd := range keeper.Heap {
					if cd.Comparable == nil {
						continue
					}
					if cd.Comparable.(dotPoint).id == id {
						continue
					}
					d := math.Sqrt(cd.Dist)
					if d > band {
						continue
					}
					sum += d
					n++
				}
				keep[x] = n >= want && n > 0 && sum/float64(n) <= threshold
			}
		})
		kept := make([]int, 0, len(buried))
		for x, id := range buried {
			if keep[x] {
				kept = append(kept, id)
			}
		}
		c.trimmed[mol] = kept
	}
}
