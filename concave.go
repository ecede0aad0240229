/*
 * concave.go, part of molsurf/sc.
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

// generateConcave emits the spherical triangle on each probe sphere
// bounded by the three tangency directions. Probes sitting lower than
// their own radius over the triple's plane can intersect nearby mirror
// probes; dots inside such a neighbor probe are cut away to avoid
// doubled surface in the cusp region.
func (c *Calculator) generateConcave() error {
	rp := c.settings.ProbeRadius
	rp2 := rp * rp
	var lowProbes []int
	for idx := range c.probes {
		if c.probes[idx].Height < rp {
			lowProbes = append(lowProbes, idx)
		}
	}
	var latBuf, ringBuf []r3.Vec
	for i := range c.probes {
		probe := &c.probes[i]
		aidx := probe.Atoms
		if c.atoms[aidx[0]].Attention == AttentionConsider &&
			c.atoms[aidx[1]].Attention == AttentionConsider &&
			c.atoms[aidx[2]].Attention == AttentionConsider {
			continue
		}
		pijk := probe.Point
		uijk := probe.Alt
		density := (c.atoms[aidx[0]].Density + c.atoms[aidx[1]].Density + c.atoms[aidx[2]].Density) / 3
		var nears []int
		if probe.Height < rp {
			for _, lp := range lowProbes {
				if lp == i {
					continue
				}
				if r3.Norm2(r3.Sub(pijk, c.probes[lp].Point)) <= 4*rp2 {
					nears = append(nears, lp)
				}
			}
		}
		//tangency directions and the planes bounding the triangle
		var vp [3]r3.Vec
		for k := 0; k < 3; k++ {
			vp[k] = unit(r3.Sub(c.atoms[aidx[k]].Coor, pijk))
		}
		sides := [3]r3.Vec{
			unit(r3.Cross(vp[0], vp[1])),
			unit(r3.Cross(vp[1], vp[2])),
			unit(r3.Cross(vp[2], vp[0])),
		}
		//start the latitude sweep at the tangency direction most
		//aligned with the probe's outward axis
		dm := -1.0
		mm := 0
		for k := 0; k < 3; k++ {
			if dt := r3.Dot(uijk, vp[k]); dt > dm {
				dm = dt
				mm = k
			}
		}
		southDir := r3.Scale(-1, uijk)
		arcAxis := unit(r3.Cross(vp[mm], southDir))
		lats, cs, err := sampleArc(r3.Vec{}, rp, arcAxis, density, vp[mm], southDir, latBuf)
		if err != nil {
			return errDecorate(err, "generateConcave")
		}
		latBuf = lats
		for _, lat := range lats {
			dt := r3.Dot(lat, southDir)
			rad2 := rp2 - dt*dt
			if rad2 <= 0 {
				continue
			}
			cen := r3.Scale(dt, southDir)
			points, ps, err := sampleCircle(cen, math.Sqrt(rad2), southDir, density, ringBuf)
			if err != nil {
				return errDecorate(err, "generateConcave")
			}
			ringBuf = points
			area := ps * cs
			for _, p := range points {
				outside := false
				for _, v := range sides {
					if r3.Dot(p, v) >= 0 {
						outside = true
						break
					}
				}
				if outside {
					continue
				}
				world := r3.Add(p, pijk)
				if len(nears) > 0 && c.insideNearProbe(world, nears, rp2) {
					continue
				}
				//charge the dot to the closest atom surface of the triple
				mc := 0
				dmin := 2 * rp
				for k := 0; k < 3; k++ {
					d := r3.Norm(r3.Sub(world, c.atoms[aidx[k]].Coor)) - c.atoms[aidx[k]].Radius
					if d < dmin {
						dmin = d
						mc = k
					}
				}
				atom := aidx[mc]
				c.addDot(c.atoms[atom].Molecule, Concave, world, area, pijk, atom)
			}
		}
	}
	return nil
}

func (c *Calculator) insideNearProbe(p r3.Vec, nears []int, rp2 float64) bool {
	for _, np := range nears {
		if r3.Norm2(r3.Sub(p, c.probes[np].Point)) < rp2 {
			return true
		}
	}
	return false
}
