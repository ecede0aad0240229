/*
 * kdtree.go, part of molsurf/sc.
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
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// dotPoint adapts a surface dot position to the gonum kd-tree, keeping
// the dot id so query results can be mapped back. Distances are
// squared, following the kdtree package's convention.
type dotPoint struct {
	pos r3.Vec
	id  int
}

func (p dotPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(dotPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p dotPoint) Dims() int { return 3 }

func (p dotPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(dotPoint)
	return r3.Norm2(r3.Sub(p.pos, q.pos))
}

// dotCloud is a set of dotPoints implementing kdtree.Interface. Tree
// construction reorders the cloud, so build trees from a copy when the
// original order matters.
type dotCloud []dotPoint

func (c dotCloud) Index(i int) kdtree.Comparable         { return c[i] }
func (c dotCloud) Len() int                              { return len(c) }
func (c dotCloud) Pivot(d kdtree.Dim) int                { return dotPlane{Dim: d, cloud: c}.Pivot() }
func (c dotCloud) Slice(start, end int) kdtree.Interface { return c[start:end] }

// dotPlane implements the sorting used during tree construction.
type dotPlane struct {
	kdtree.Dim
	cloud dotCloud
}

func (p dotPlane) Len() int { return len(p.cloud) }

func (p dotPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.cloud[i].pos.X < p.cloud[j].pos.X
	case 1:
		return p.cloud[i].pos.Y < p.cloud[j].pos.Y
	default:
		return p.cloud[i].pos.Z < p.cloud[j].pos.Z
	}
}

func (p dotPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p dotPlane) Slice(start, end int) kdtree.SortSlicer {
	p.cloud = p.cloud[start:end]
	return p
}

func (p dotPlane) Swap(i, j int) {
	p.cloud[i], p.cloud[j] = p.cloud[j], p.cloud[i]
}

// newDotTree builds a kd-tree over the dots selected by ids.
func newDotTree(dots []Dot, ids []int) *kdtree.Tree {
	cloud := make(dotCloud, len(ids))
	for x, id := range ids {
		cloud[x] = dotPoint{pos: dots[id].Coor, id: id}
	}
	return kdtree.New(cloud, false)
}
