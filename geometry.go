/*
 * geometry.go, part of molsurf/sc.
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

// maxArcSamples bounds a single arc sampling loop. Reaching it means
// density times radius blew up and the run is not salvageable.
const maxArcSamples = 100000

// unit normalizes v, returning the zero vector for inputs too short to
// normalize. Callers that cannot tolerate the sentinel must check.
func unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-300 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// perpSeed returns a vector guaranteed not to be parallel to the unit
// vector n, to build a local frame from. The component-square shuffle
// favors the axes n is least aligned with.
func perpSeed(n r3.Vec) r3.Vec {
	v := unit(r3.Vec{
		X: n.Y*n.Y + n.Z*n.Z,
		Y: n.X*n.X + n.Z*n.Z,
		Z: n.X*n.X + n.Y*n.Y,
	})
	if math.Abs(r3.Dot(v, n)) > 0.99 {
		v = r3.Vec{X: 1}
	}
	return v
}

// distPointToLine returns the distance from pnt to the line through cen
// with unit direction axis.
func distPointToLine(cen, axis, pnt r3.Vec) float64 {
	vec := r3.Sub(pnt, cen)
	dt := r3.Dot(vec, axis)
	d2 := r3.Norm2(vec) - dt*dt
	if d2 < 0 {
		d2 = 0
	}
	return math.Sqrt(d2)
}

// sampleArcSegment emits points on the arc of radius rad around cen
// spanned by angle in the plane of the orthonormal pair (x, y),
// spaced 1/(sqrt(density)*rad) apart starting at half a step. It
// returns the points and the arc length per point (the linear sampling
// quantum). rad <= 0 emits nothing.
func sampleArcSegment(cen r3.Vec, rad float64, x, y r3.Vec, angle, density float64, points []r3.Vec) ([]r3.Vec, float64, error) {
	points = points[:0]
	if rad <= 0 {
		return points, 0, nil
	}
	delta := 1 / (math.Sqrt(density) * rad)
	a := -delta / 2
	for i := 0; i < maxArcSamples; i++ {
		a += delta
		if a > angle {
			break
		}
		c := rad * math.Cos(a)
		s := rad * math.Sin(a)
		points = append(points, r3.Add(cen, r3.Add(r3.Scale(c, x), r3.Scale(s, y))))
	}
	if a+delta < angle {
		return points, 0, newError(KindGeometry, "sampling limit exceeded")
	}
	var ps float64
	if len(points) > 0 {
		ps = rad * angle / float64(len(points))
	}
	return points, ps, nil
}

// sampleArc samples the arc around axis from direction x to direction v
// (both unit, both perpendicular to axis), sweeping counterclockwise.
func sampleArc(cen r3.Vec, rad float64, axis r3.Vec, density float64, x, v r3.Vec, points []r3.Vec) ([]r3.Vec, float64, error) {
	y := r3.Cross(axis, x)
	angle := math.Atan2(r3.Dot(v, y), r3.Dot(v, x))
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return sampleArcSegment(cen, rad, x, y, angle, density, points)
}

// sampleCircle samples the full circle of radius rad around cen in the
// plane normal to axis. The starting direction is a deterministic
// function of axis so reruns emit identical points.
func sampleCircle(cen r3.Vec, rad float64, axis r3.Vec, density float64, points []r3.Vec) ([]r3.Vec, float64, error) {
	v1 := perpSeed(axis)
	v2 := unit(r3.Cross(axis, v1))
	x := unit(r3.Cross(axis, v2))
	y := r3.Cross(axis, x)
	return sampleArcSegment(cen, rad, x, y, 2*math.Pi, density, points)
}
