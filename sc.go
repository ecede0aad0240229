/*
 * sc.go, part of molsurf/sc.
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
	"gonum.org/v1/gonum/spatial/r3"
)

// Attention classifies how much of the pipeline an atom takes part in,
// depending on its distance to the other molecule.
type Attention int

const (
	//AttentionFar atoms are too far from the interface; no dots are
	//emitted for them.
	AttentionFar Attention = iota
	//AttentionConsider atoms take part in geometric constructions
	//(probe placement, occlusion) but do not emit dots themselves.
	AttentionConsider
	//AttentionBuried atoms are near the interface and emit dots.
	AttentionBuried
)

// Atom is a sphere taking part in one of the two molecular surfaces.
// Apart from the run state that every Calc rewrites (Density,
// Attention, Accessible and the neighbor slices), atoms are immutable
// after AddAtom.
type Atom struct {
	Index    int     //dense 0-based id across both molecules, insertion order
	Natom    int     //1-based insertion id, kept for stable cross references
	Molecule int     //0 or 1
	Radius   float64 //van der Waals radius in A
	Density  float64 //target dots per A^2 for this atom's patches
	Name     string  //atom label, e.g. "CA", "OD1"
	Residue  string  //residue label, e.g. "ALA"
	Coor     r3.Vec

	Attention  Attention
	Accessible bool //touched by solvent at least once during generation

	neighbors []int //same-molecule atoms within bridge distance, nearest first
	buriedBy  []int //opposite-molecule atoms within bridge distance
}

// Copy returns a copy of the atom without the run-state neighbor lists.
func (a *Atom) Copy() *Atom {
	na := new(Atom)
	*na = *a
	na.neighbors = nil
	na.buriedBy = nil
	return na
}

func (a *Atom) distanceSquared(b *Atom) float64 {
	return r3.Norm2(r3.Sub(a.Coor, b.Coor))
}

func (a *Atom) distance(b *Atom) float64 {
	return r3.Norm(r3.Sub(a.Coor, b.Coor))
}

// Probe is a placement of the rolling probe sphere tangent to three
// atoms. Probes reference atoms by index, never by pointer.
type Probe struct {
	Atoms  [3]int
	Height float64 //distance from the plane of the three atom centers to the probe center
	Point  r3.Vec  //probe center
	Alt    r3.Vec  //unit normal of that plane, on the side of Point
}

// DotKind tags the patch family a surface dot was sampled from.
type DotKind int

const (
	//Convex dots lie on an atom's own sphere.
	Convex DotKind = iota
	//Toroidal dots lie on the re-entrant surface swept between two atoms.
	Toroidal
	//Concave dots lie on the probe sphere between three atoms.
	Concave
)

func (k DotKind) String() string {
	switch k {
	case Convex:
		return "convex"
	case Toroidal:
		return "toroidal"
	default:
		return "concave"
	}
}

// Dot is one sampled point of a molecular surface. Its id is its index
// in the per-molecule dot slice; ids are assigned serially so that runs
// with the same input produce the same dot sequence.
type Dot struct {
	Coor     r3.Vec
	Normal   r3.Vec  //unit, pointing away from the molecular interior
	Area     float64 //sampling quantum in A^2
	Buried   bool    //probe position touches the other molecule
	Kind     DotKind
	Atom     int //index of the source atom
	Molecule int
}

// DotCounts holds per-patch-family dot totals over both molecules.
type DotCounts struct {
	Convex   int
	Toroidal int
	Concave  int
}

// SurfaceStats describes one molecule's side of the interface.
type SurfaceStats struct {
	NAtoms        int
	NBuriedAtoms  int //atoms near enough to the other molecule to emit dots
	NBlockedAtoms int //atoms classified far from the interface
	NAllDots      int
	NTrimmedDots  int
	TrimmedArea   float64 //A^2, id-ordered Kahan sum over surviving dots
	MeanDist      float64
	MedianDist    float64
	MeanScore     float64
	MedianScore   float64
}

// Results is the value returned by Calc. It is self-contained: nothing
// in it points back into the calculator.
type Results struct {
	Sc       float64 //the shape complementarity statistic
	Distance float64 //median interface separation in A
	Area     float64 //trimmed interface area, both surfaces, A^2
	NAtoms   int
	Surfaces [2]SurfaceStats
	Dots     DotCounts
	Warnings int    //degenerate patches skipped, fallback radii used
	Elapsed  uint64 //wall time of Calc in ms
}
