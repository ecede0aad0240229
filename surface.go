/*
 * surface.go, part of molsurf/sc.
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
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// generateSurfaces walks the atoms in id order and emits the convex and
// toroidal dots, collecting three-atom probes on the way; the concave
// dots are emitted from the probes afterwards. The whole walk is
// serial: patch enumeration order defines the dot-id space, and the
// determinism guarantee hangs on it.
func (c *Calculator) generateSurfaces() error {
	c.emitted = make([]int, len(c.atoms))
	for i := range c.atoms {
		a := c.atoms[i]
		if a.Attention == AttentionFar {
			continue
		}
		c.findNeighbors(i)
		if a.Attention == AttentionConsider && len(a.buriedBy) == 0 {
			continue
		}
		if err := c.buildProbes(i); err != nil {
			return errDecorate(err, "generateSurfaces")
		}
		if a.Accessible {
			if err := c.emitContact(i); err != nil {
				return errDecorate(err, "generateSurfaces")
			}
		}
	}
	if err := c.generateConcave(); err != nil {
		return errDecorate(err, "generateSurfaces")
	}
	return nil
}

// findNeighbors fills the atom's same-molecule neighbor list (nearest
// first) and its opposite-molecule burial list. Two atoms are neighbors
// when their expanded spheres leave room for a probe bridge:
// d < r_i + r_j + 2*rp.
func (c *Calculator) findNeighbors(i int) {
	a := c.atoms[i]
	rp := c.settings.ProbeRadius
	a.neighbors = a.neighbors[:0]
	a.buriedBy = a.buriedBy[:0]
	c.grid.neighbors(a.Coor, a.Radius+c.radmax+2*rp, anyMolecule, func(j int, d2 float64) {
		if j == i {
			return
		}
		b := c.atoms[j]
		bridge := a.Radius + b.Radius + 2*rp
		if d2 >= bridge*bridge {
			return
		}
		if b.Molecule == a.Molecule {
			a.neighbors = append(a.neighbors, j)
		} else {
			a.buriedBy = append(a.buriedBy, j)
		}
	})
	sort.Slice(a.neighbors, func(x, y int) bool {
		dx := c.atoms[a.neighbors[x]].distanceSquared(a)
		dy := c.atoms[a.neighbors[y]].distanceSquared(a)
		if dx != dy {
			return dx < dy
		}
		return a.neighbors[x] < a.neighbors[y]
	})
	if len(a.neighbors) == 0 {
		a.Accessible = true
	}
}

// torusRing solves the two-sphere intersection for atoms a and b with
// expanded radii: the probe rolling over both stays on a circle of
// radius rij around tij on the interatomic axis uij. ok is false when
// the expanded spheres do not intersect in a proper circle.
func torusRing(a, b *Atom, rp float64) (uij r3.Vec, tij r3.Vec, rij float64, asym float64, ok bool) {
	eri := a.Radius + rp
	erj := b.Radius + rp
	dij := a.distance(b)
	uij = r3.Scale(1/dij, r3.Sub(b.Coor, a.Coor))
	asym = (eri*eri - erj*erj) / dij
	tij = r3.Add(r3.Scale(0.5, r3.Add(a.Coor, b.Coor)), r3.Scale(asym*0.5, uij))
	far := (eri+erj)*(eri+erj) - dij*dij
	if far <= 0 {
		return uij, tij, 0, asym, false
	}
	contain := dij*dij - (a.Radius-b.Radius)*(a.Radius-b.Radius)
	if contain <= 0 {
		return uij, tij, 0, asym, false
	}
	rij = 0.5 * math.Sqrt(far) * math.Sqrt(contain) / dij
	return uij, tij, rij, asym, true
}

// buildProbes enumerates the torus rings of atom i with its
// higher-numbered neighbors, placing three-atom probes along each ring
// and emitting the toroidal surface of each pair.
func (c *Calculator) buildProbes(i int) error {
	a := c.atoms[i]
	rp := c.settings.ProbeRadius
	for _, j := range a.neighbors {
		b := c.atoms[j]
		if b.Natom <= a.Natom {
			continue
		}
		uij, tij, rij, asym, ok := torusRing(a, b, rp)
		if !ok {
			continue
		}
		if len(a.neighbors) <= 1 {
			//a single isolated pair leaves both caps fully open
			a.Accessible = true
			b.Accessible = true
			break
		}
		if err := c.buildProbeTriplets(i, j, uij, tij, rij); err != nil {
			return err
		}
		hasCusp := math.Abs(asym) < a.distance(b)
		if a.Attention != AttentionFar || b.Attention != AttentionFar {
			if err := c.emitReentrant(i, j, uij, tij, rij, hasCusp); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildProbeTriplets places the probe sphere tangent to atoms i, j and
// every higher-numbered neighbor k reachable from the (i, j) torus
// ring. Each triple admits up to two mirror positions; positions
// overlapped by a fourth atom are dropped.
func (c *Calculator) buildProbeTriplets(i, j int, uij, tij r3.Vec, rij float64) error {
	a := c.atoms[i]
	b := c.atoms[j]
	rp := c.settings.ProbeRadius
	eri := a.Radius + rp
	erj := b.Radius + rp
	made := false
	for _, k := range a.neighbors {
		t := c.atoms[k]
		if t.Natom <= b.Natom {
			continue
		}
		erk := t.Radius + rp
		if b.distance(t) >= erj+erk {
			continue
		}
		dik := a.distance(t)
		if dik >= eri+erk {
			continue
		}
		if a.Attention == AttentionFar && b.Attention == AttentionFar && t.Attention == AttentionFar {
			continue
		}
		uik := r3.Scale(1/dik, r3.Sub(t.Coor, a.Coor))
		wedge := math.Acos(clamp1(r3.Dot(uij, uik)))
		sinWedge := math.Sin(wedge)
		if sinWedge <= 0 {
			//collinear triple: the third atom either buries the whole
			//ring or contributes nothing to it
			dtijk := r3.Norm(r3.Sub(tij, t.Coor))
			if dtijk*dtijk < erk*erk-rij*rij {
				return nil
			}
			continue
		}
		uijk := r3.Scale(1/sinWedge, r3.Cross(uij, uik))
		utb := r3.Cross(uijk, uij)
		asymIK := (eri*eri - erk*erk) / dik
		tik := r3.Add(r3.Scale(0.5, r3.Add(a.Coor, t.Coor)), r3.Scale(asymIK*0.5, uik))
		comp := r3.Dot(uik, r3.Sub(tik, tij))
		bijk := r3.Add(tij, r3.Scale(comp/sinWedge, utb))
		h2 := eri*eri - r3.Norm2(r3.Sub(bijk, a.Coor))
		if h2 <= 0 {
			continue
		}
		h := math.Sqrt(h2)
		for _, sign := range []float64{1, -1} {
			pijk := r3.Add(bijk, r3.Scale(sign*h, uijk))
			if c.probeCollides(pijk, b, t, a.neighbors) {
				continue
			}
			probe := Probe{Height: h, Point: pijk, Alt: r3.Scale(sign, uijk)}
			if sign > 0 {
				probe.Atoms = [3]int{i, j, k}
			} else {
				probe.Atoms = [3]int{j, i, k}
			}
			c.probes = append(c.probes, probe)
			made = true
		}
	}
	if made {
		a.Accessible = true
	}
	return nil
}

// probeCollides reports whether a probe centered at p overlaps any
// neighbor other than the two contact atoms passed in.
func (c *Calculator) probeCollides(p r3.Vec, b, t *Atom, neighbors []int) bool {
	rp := c.settings.ProbeRadius
	for _, ni := range neighbors {
		n := c.atoms[ni]
		if n.Natom == b.Natom || n.Natom == t.Natom {
			continue
		}
		ern := n.Radius + rp
		if r3.Norm2(r3.Sub(p, n.Coor)) <= ern*ern {
			return true
		}
	}
	return false
}

// emitReentrant samples the toroidal surface swept between atoms i and
// j. The ring of probe positions is sampled at a density corrected for
// the torus eccentricity; at each position the probe arc between the
// two tangency directions is sampled, split at the cusp when the probe
// self-intersects the axis.
func (c *Calculator) emitReentrant(i, j int, uij, tij r3.Vec, rij float64, hasCusp bool) error {
	a := c.atoms[i]
	b := c.atoms[j]
	rp := c.settings.ProbeRadius
	density := (a.Density + b.Density) / 2
	eri := a.Radius + rp
	erj := b.Radius + rp
	rci := rij * a.Radius / eri
	rcj := rij * b.Radius / erj
	rb := rij - rp
	if rb < 0 {
		rb = 0
	}
	rm := (rci + 2*rb + rcj) / 4
	ecc := rm / rij
	subs, ts, err := sampleCircle(tij, rij, uij, ecc*ecc*density, nil)
	if err != nil {
		return errDecorate(err, "emitReentrant")
	}
	var arcBuf []r3.Vec
	for _, sub := range subs {
		tooClose := false
		for _, ni := range a.neighbors {
			n := c.atoms[ni]
			if n.Natom == b.Natom {
				continue
			}
			ern := n.Radius + rp
			if r3.Norm2(r3.Sub(sub, n.Coor)) < ern*ern {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		a.Accessible = true
		b.Accessible = true
		vpi := r3.Scale(1/eri, r3.Sub(a.Coor, sub))
		vpj := r3.Scale(1/erj, r3.Sub(b.Coor, sub))
		axis := unit(r3.Cross(vpi, vpj))
		cusp := rp*rp - rij*rij
		var endI, endJ r3.Vec
		if cusp > 0 && hasCusp {
			ct := math.Sqrt(cusp)
			qij := r3.Sub(tij, r3.Scale(ct, uij))
			qji := r3.Add(tij, r3.Scale(ct, uij))
			endI = r3.Scale(1/rp, r3.Sub(qij, sub))
			endJ = r3.Scale(1/rp, r3.Sub(qji, sub))
		} else {
			pq := unit(r3.Add(vpi, vpj))
			endI, endJ = pq, pq
		}
		if dt := r3.Dot(endI, vpi); dt >= 1 || dt <= -1 {
			return nil
		}
		if dt := r3.Dot(endJ, vpj); dt >= 1 || dt <= -1 {
			return nil
		}
		if a.Attention != AttentionFar {
			points, ps, err := sampleArc(sub, rp, axis, density, vpi, endI, arcBuf)
			if err != nil {
				return errDecorate(err, "emitReentrant")
			}
			arcBuf = points
			for _, p := range points {
				area := ps * ts * distPointToLine(tij, uij, p) / rij
				c.addDot(a.Molecule, Toroidal, p, area, sub, i)
			}
		}
		if b.Attention != AttentionFar {
			points, ps, err := sampleArc(sub, rp, axis, density, endJ, vpj, arcBuf)
			if err != nil {
				return errDecorate(err, "emitReentrant")
			}
			arcBuf = points
			for _, p := range points {
				area := ps * ts * distPointToLine(tij, uij, p) / rij
				c.addDot(b.Molecule, Toroidal, p, area, sub, j)
			}
		}
	}
	return nil
}

// emitContact samples the convex cap of atom i in latitude rings
// between the open pole (away from the nearest neighbor) and the
// contact ring with that neighbor, dropping candidates covered by any
// other neighbor's expanded sphere.
func (c *Calculator) emitContact(i int) error {
	a := c.atoms[i]
	rp := c.settings.ProbeRadius
	north := r3.Vec{Z: 1}
	south := r3.Vec{Z: -1}
	eq := r3.Vec{X: 1}
	eri := a.Radius + rp
	if len(a.neighbors) > 0 {
		nb := c.atoms[a.neighbors[0]]
		north = unit(r3.Sub(a.Coor, nb.Coor))
		eq = unit(r3.Cross(north, perpSeed(north)))
		_, tij, rij, _, ok := torusRing(a, nb, rp)
		if !ok {
			//one sphere swallows the other; no cap to emit
			c.skipPatch(a, nb, "contact ring")
			return nil
		}
		ringPoint := r3.Add(tij, r3.Scale(rij, r3.Cross(eq, north)))
		south = r3.Scale(1/eri, r3.Sub(ringPoint, a.Coor))
		if r3.Dot(r3.Cross(north, south), eq) <= 0 {
			c.skipPatch(a, nb, "contact frame")
			return nil
		}
	}
	lats, cs, err := sampleArc(r3.Vec{}, a.Radius, eq, a.Density, north, south, nil)
	if err != nil {
		return errDecorate(err, "emitContact")
	}
	var ring []r3.Vec
	for _, lat := range lats {
		dt := r3.Dot(lat, north)
		rad2 := a.Radius*a.Radius - dt*dt
		if rad2 <= 0 {
			continue
		}
		cen := r3.Add(a.Coor, r3.Scale(dt, north))
		points, ps, err := sampleCircle(cen, math.Sqrt(rad2), north, a.Density, ring)
		if err != nil {
			return errDecorate(err, "emitContact")
		}
		ring = points
		area := ps * cs
		for _, p := range points {
			pcen := r3.Add(a.Coor, r3.Scale(eri/a.Radius, r3.Sub(p, a.Coor)))
			if c.pointCovered(pcen, a.neighbors) {
				continue
			}
			c.addDot(a.Molecule, Convex, p, area, pcen, i)
		}
	}
	return nil
}

// pointCovered reports whether the expanded-sphere point pcen falls
// inside the expanded sphere of any neighbor but the nearest (whose
// contact ring already bounds the sampled cap).
func (c *Calculator) pointCovered(pcen r3.Vec, neighbors []int) bool {
	rp := c.settings.ProbeRadius
	for x := 1; x < len(neighbors); x++ {
		n := c.atoms[neighbors[x]]
		if r3.Norm(r3.Sub(pcen, n.Coor)) <= n.Radius+rp {
			return true
		}
	}
	return false
}

// addDot appends a dot to its molecule's sequence. pcen is the probe
// (or expanded-sphere) position the dot was projected from: the normal
// points from the dot toward it, which is the solvent side for every
// patch family, and burial is decided by whether that position touches
// the other molecule's expanded surface.
func (c *Calculator) addDot(mol int, kind DotKind, coor r3.Vec, area float64, pcen r3.Vec, atom int) {
	rp := c.settings.ProbeRadius
	normal := r3.Scale(1/rp, r3.Sub(pcen, coor))
	buried := false
	c.grid.neighbors(pcen, c.radmax+rp, 1-mol, func(j int, d2 float64) {
		if buried {
			return
		}
		erl := c.atoms[j].Radius + rp
		if d2 <= erl*erl {
			buried = true
		}
	})
	c.dots[mol] = append(c.dots[mol], Dot{
		Coor:     coor,
		Normal:   normal,
		Area:     area,
		Buried:   buried,
		Kind:     kind,
		Atom:     atom,
		Molecule: mol,
	})
	c.emitted[atom]++
	switch kind {
	case Convex:
		c.counts.Convex++
	case Toroidal:
		c.counts.Toroidal++
	default:
		c.counts.Concave++
	}
}

func (c *Calculator) skipPatch(a, nb *Atom, what string) {
	c.runWarnings++
	c.log.Warn("degenerate patch skipped",
		zap.String("patch", what),
		zap.Int("natom", a.Natom),
		zap.Int("neighbor", nb.Natom))
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
