/*
 * grid.go, part of molsurf/sc.
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

// grid is a uniform voxel index over atom centers. Surface construction
// is local (every patch touches at most 3 atoms and is occluded by a
// small neighborhood), so a coarse grid gives expected O(1) neighbor
// enumeration. Cells are visited in lexicographic order and atoms
// within a cell in insertion order, which keeps every query
// deterministic.
type grid struct {
	atoms      []*Atom
	origin     r3.Vec
	cell       float64
	nx, ny, nz int
	cells      map[int][]int //flat cell index -> atom indices, insertion order
}

// anyMolecule selects both molecules in a grid query.
const anyMolecule = -1

// newGrid indexes the given atoms with the given cell edge, usually
// 2*(rmax+probe) so that a one-cell-halo query covers any
// bridge-distance pair.
func newGrid(atoms []*Atom, cell float64) *grid {
	g := &grid{atoms: atoms, cell: cell, cells: make(map[int][]int)}
	if len(atoms) == 0 || cell <= 0 {
		g.cell = 1
		return g
	}
	min := atoms[0].Coor
	max := atoms[0].Coor
	for _, a := range atoms {
		min.X = math.Min(min.X, a.Coor.X)
		min.Y = math.Min(min.Y, a.Coor.Y)
		min.Z = math.Min(min.Z, a.Coor.Z)
		max.X = math.Max(max.X, a.Coor.X)
		max.Y = math.Max(max.Y, a.Coor.Y)
		max.Z = math.Max(max.Z, a.Coor.Z)
	}
	g.origin = min
	g.nx = int((max.X-min.X)/cell) + 1
	g.ny = int((max.Y-min.Y)/cell) + 1
	g.nz = int((max.Z-min.Z)/cell) + 1
	for i, a := range atoms {
		c := g.cellOf(a.Coor)
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *grid) coords(p r3.Vec) (int, int, int) {
	ix := int(math.Floor((p.X - g.origin.X) / g.cell))
	iy := int(math.Floor((p.Y - g.origin.Y) / g.cell))
	iz := int(math.Floor((p.Z - g.origin.Z) / g.cell))
	return ix, iy, iz
}

func (g *grid) cellOf(p r3.Vec) int {
	ix, iy, iz := g.coords(p)
	return (ix*g.ny+iy)*g.nz + iz
}

// neighbors calls yield for every atom of molecule mol (or of both, for
// anyMolecule) whose center lies within r of p. Atoms arrive in cell
// lexicographic order, then insertion order.
func (g *grid) neighbors(p r3.Vec, r float64, mol int, yield func(i int, d2 float64)) {
	if len(g.atoms) == 0 {
		return
	}
	r2 := r * r
	span := int(math.Ceil(r/g.cell)) + 1
	cx, cy, cz := g.coords(p)
	//only occupied cell coordinates exist, so clamping to the index
	//range also keeps the flat cell key unambiguous
	x0, x1 := clampRange(cx-span, cx+span, g.nx)
	y0, y1 := clampRange(cy-span, cy+span, g.ny)
	z0, z1 := clampRange(cz-span, cz+span, g.nz)
	for ix := x0; ix <= x1; ix++ {
		for iy := y0; iy <= y1; iy++ {
			for iz := z0; iz <= z1; iz++ {
				for _, i := range g.cells[(ix*g.ny+iy)*g.nz+iz] {
					a := g.atoms[i]
					if mol != anyMolecule && a.Molecule != mol {
						continue
					}
					d2 := r3.Norm2(r3.Sub(a.Coor, p))
					if d2 <= r2 {
						yield(i, d2)
					}
				}
			}
		}
	}
}

// pairsWithin calls yield once per unordered same-molecule pair (i, j),
// i < j, whose centers lie within r of each other. Pairs arrive in
// ascending (i, j) order.
func (g *grid) pairsWithin(r float64, yield func(i, j int, d float64)) {
	r2 := r * r
	for i, a := range g.atoms {
		var found []int
		g.neighbors(a.Coor, r, a.Molecule, func(j int, d2 float64) {
			if j > i && d2 <= r2 {
				found = append(found, j)
			}
		})
		//cell order is not index order; restore it for the caller
		insertionSort(found)
		for _, j := range found {
			yield(i, j, a.distance(g.atoms[j]))
		}
	}
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

func insertionSort(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
