/*
 * calculator.go, part of molsurf/sc.
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
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Calculator owns the atoms of the two molecules and runs the Sc
// pipeline. It is not safe for concurrent use; the parallelism lives
// inside Calc.
type Calculator struct {
	settings *Settings
	radii    []AtomRadius
	log      *zap.Logger

	atoms    []*Atom
	warnings int //ingest-time warnings (fallback radii); survive between runs

	//run state, rebuilt by every Calc
	radmax      float64
	grid        *grid
	probes      []Probe
	dots        [2][]Dot
	trimmed     [2][]int
	emitted     []int //dots per atom, for the all-patches-skipped warning
	counts      DotCounts
	runWarnings int
}

// New returns a calculator with default settings, the embedded radius
// table (overridable via the ATOMIC_RADII environment variable or
// SetRadii) and no logging.
func New() *Calculator {
	c := &Calculator{
		settings: DefaultSettings(),
		log:      zap.NewNop(),
	}
	c.radii = defaultRadii()
	for _, env := range radiiEnvVars {
		path := os.Getenv(env)
		if path == "" {
			continue
		}
		if r, err := ReadRadii(path); err == nil {
			c.radii = r
			break
		}
	}
	return c
}

// SetLogger injects the logger used for non-fatal warnings. nil
// restores the no-op logger.
func (c *Calculator) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.log = l
}

// SetRadii replaces the radius table used by subsequent AddAtom calls.
func (c *Calculator) SetRadii(radii []AtomRadius) {
	c.radii = radii
}

// Settings returns the mutable settings record.
func (c *Calculator) Settings() *Settings {
	return c.settings
}

// AddAtom records an atom into molecule 0 or 1. If the atom's radius is
// not already positive it is resolved against the radius table; a miss
// is a KindUnknownRadius error. An atom closer than EpsilonGeom to an
// already recorded atom of the same molecule is a KindDuplicateCoord
// error. The passed atom is copied.
func (c *Calculator) AddAtom(molecule int, atom *Atom) error {
	if molecule != 1 {
		molecule = 0
	}
	a := atom.Copy()
	if a.Radius <= 0 {
		rad, fallback, ok := lookupRadius(c.radii, a.Residue, a.Name)
		if !ok {
			return newError(KindUnknownRadius,
				fmt.Sprintf("no radius for %s:%s", a.Residue, a.Name))
		}
		if fallback {
			c.warnings++
			c.log.Warn("radius from element fallback",
				zap.String("residue", a.Residue), zap.String("atom", a.Name),
				zap.Float64("radius", rad))
		}
		a.Radius = rad
	}
	eps2 := c.settings.EpsilonGeom * c.settings.EpsilonGeom
	for _, b := range c.atoms {
		if b.Molecule != molecule {
			continue
		}
		if a.distanceSquared(b) < eps2 {
			return newError(KindDuplicateCoord,
				fmt.Sprintf("atom %s:%s coincides with atom %d of molecule %d",
					a.Residue, a.Name, b.Natom, molecule))
		}
	}
	a.Molecule = molecule
	a.Index = len(c.atoms)
	a.Natom = len(c.atoms) + 1
	a.Density = c.settings.DotDensity
	a.Attention = AttentionBuried
	a.Accessible = false
	c.atoms = append(c.atoms, a)
	return nil
}

// Reset clears the atoms, warnings and all run state. Settings, radius
// table and logger survive.
func (c *Calculator) Reset() {
	c.atoms = nil
	c.warnings = 0
	c.clearRun()
}

func (c *Calculator) clearRun() {
	c.radmax = 0
	c.grid = nil
	c.probes = nil
	c.dots[0] = nil
	c.dots[1] = nil
	c.trimmed[0] = nil
	c.trimmed[1] = nil
	c.emitted = nil
	c.counts = DotCounts{}
	c.runWarnings = 0
}

// Calc runs the full pipeline: neighbor indexing, probe placement,
// surface dot generation, peripheral trimming and the Sc aggregation.
// It returns the results by value; probes and dots are discarded before
// it returns. Given identical atoms and settings, the results are
// bitwise identical regardless of parallelism and worker count.
func (c *Calculator) Calc() (*Results, error) {
	start := time.Now()
	if err := c.settings.validate(); err != nil {
		return nil, errDecorate(err, "Calc")
	}
	var natoms [2]int
	for _, a := range c.atoms {
		natoms[a.Molecule]++
	}
	if natoms[0] == 0 || natoms[1] == 0 {
		return nil, newError(KindInsufficientAtoms,
			fmt.Sprintf("molecules hold %d and %d atoms, both need at least one",
				natoms[0], natoms[1]))
	}
	c.clearRun()
	for _, a := range c.atoms {
		//sample at the current setting, which may have changed since AddAtom
		a.Density = c.settings.DotDensity
		if a.Radius > c.radmax {
			c.radmax = a.Radius
		}
	}
	c.grid = newGrid(c.atoms, 2*(c.radmax+c.settings.ProbeRadius))
	if err := c.checkCoincident(); err != nil {
		return nil, errDecorate(err, "Calc")
	}
	res := &Results{NAtoms: len(c.atoms)}
	res.Surfaces[0].NAtoms = natoms[0]
	res.Surfaces[1].NAtoms = natoms[1]
	c.assignAttention(res)
	if err := c.generateSurfaces(); err != nil {
		return nil, errDecorate(err, "Calc")
	}
	for _, a := range c.atoms {
		if a.Attention != AttentionFar && c.emitted[a.Index] == 0 {
			c.runWarnings++
			c.log.Warn("atom emitted no surface dots",
				zap.Int("natom", a.Natom), zap.String("residue", a.Residue),
				zap.String("atom", a.Name))
		}
	}
	res.Dots = c.counts
	res.Surfaces[0].NAllDots = len(c.dots[0])
	res.Surfaces[1].NAllDots = len(c.dots[1])
	c.trimPeripheral()
	res.Surfaces[0].NTrimmedDots = len(c.trimmed[0])
	res.Surfaces[1].NTrimmedDots = len(c.trimmed[1])
	if err := c.aggregate(res); err != nil {
		return nil, errDecorate(err, "Calc")
	}
	res.Warnings = c.warnings + c.runWarnings
	res.Elapsed = uint64(time.Since(start).Milliseconds())
	c.clearRun()
	return res, nil
}

// checkCoincident re-verifies the coincidence invariant over the built
// grid. AddAtom already rejects duplicates; this catches callers that
// mutated atom coordinates behind the calculator's back.
func (c *Calculator) checkCoincident() error {
	var bad error
	c.grid.pairsWithin(c.settings.EpsilonGeom, func(i, j int, d float64) {
		if bad == nil {
			bad = newError(KindDuplicateCoord,
				fmt.Sprintf("atoms %d and %d of molecule %d coincide (%.3g A apart)",
					c.atoms[i].Natom, c.atoms[j].Natom, c.atoms[i].Molecule, d))
		}
	})
	return bad
}

// assignAttention classifies every atom by its distance to the other
// molecule: atoms with no opposite atom within the separation cutoff
// are far from the interface and emit no dots.
func (c *Calculator) assignAttention(res *Results) {
	for _, a := range c.atoms {
		a.Accessible = false
		near := false
		c.grid.neighbors(a.Coor, separationCutoff, 1-a.Molecule, func(int, float64) {
			near = true
		})
		if near {
			a.Attention = AttentionBuried
			res.Surfaces[a.Molecule].NBuriedAtoms++
		} else {
			a.Attention = AttentionFar
			res.Surfaces[a.Molecule].NBlockedAtoms++
		}
	}
}
