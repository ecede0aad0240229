/*
 * doc.go, part of molsurf/sc.
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

// Package sc computes the shape complementarity statistic (Sc) of
// Lawrence and Colman (1993) between two interacting molecular surfaces.
// It builds a Connolly-style dot surface over the convex, toroidal and
// concave patches of each molecule, trims away the dots that do not take
// part in the interface, pairs the two trimmed surfaces by nearest
// neighbors and aggregates the per-dot scores into a single number,
// between 0 and 1 for real protein interfaces.
//
// The package consumes pre-built atoms (position, radius, labels) split
// into two molecules. PDB parsing and output formatting live in cmd/sc.
package sc
