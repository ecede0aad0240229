/*
 * radii.go, part of molsurf/sc.
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
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AtomRadius is one entry of the ordered radius table. Residue and Atom
// may end in '*' for prefix matching; a Residue of "***" matches any
// residue. The first matching entry wins.
type AtomRadius struct {
	Residue string  `json:"residue"`
	Atom    string  `json:"atom"`
	Radius  float64 `json:"radius"`
}

// radiiEnvVars name the optional override file with a custom table.
var radiiEnvVars = []string{"ATOMIC_RADII", "ATOMIC_RADII_PATH"}

// ReadRadii reads a radius table from a JSON file: an array of
// {residue, atom, radius} records. Entries with non-positive radii are
// dropped.
func ReadRadii(path string) ([]AtomRadius, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []AtomRadius
	if err := json.Unmarshal(buf, &recs); err != nil {
		return nil, fmt.Errorf("invalid radii json in %s: %v", path, err)
	}
	out := make([]AtomRadius, 0, len(recs))
	for _, r := range recs {
		if r.Radius > 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

// wildcardMatch reports whether query matches pattern after trimming
// trailing spaces from both. A pattern starting with '*' matches
// anything; a pattern ending in '*' matches on the prefix before it;
// otherwise only an exact match counts.
func wildcardMatch(query, pattern string) bool {
	q := strings.TrimRight(query, " ")
	p := strings.TrimRight(pattern, " ")
	if strings.HasPrefix(p, "*") {
		return true
	}
	if star := strings.IndexByte(p, '*'); star >= 0 {
		if len(q) < star {
			return false
		}
		return q[:star] == p[:star]
	}
	return q == p
}

// elementOf extracts the element letter used for the fallback lookup:
// the first ASCII letter of the atom name, upper-cased.
func elementOf(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			return string(c - 'a' + 'A')
		}
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
	}
	return ""
}

// lookupRadius resolves the radius for a residue/atom pair against the
// ordered table. It returns the radius and whether the element fallback
// was used; ok is false when nothing matched.
func lookupRadius(table []AtomRadius, residue, name string) (radius float64, fallback, ok bool) {
	for _, e := range table {
		if !wildcardMatch(residue, e.Residue) {
			continue
		}
		if !wildcardMatch(name, e.Atom) {
			continue
		}
		return e.Radius, false, true
	}
	elem := elementOf(name)
	if elem == "" {
		return 0, false, false
	}
	for _, e := range table {
		if !strings.HasPrefix(strings.TrimRight(e.Residue, " "), "***") {
			continue
		}
		if strings.TrimRight(e.Atom, " ") != elem {
			continue
		}
		return e.Radius, true, true
	}
	return 0, false, false
}

// defaultRadii returns the embedded table. Carbonyl and aromatic
// carbons are thinner than aliphatic ones, and charged nitrogens
// slightly thinner than the backbone amide. Order matters: specific
// entries first, then wildcards, then the bare-element fallbacks.
func defaultRadii() []AtomRadius {
	return []AtomRadius{
		//backbone, any residue
		{"***", "N", 1.65},
		{"***", "CA", 1.87},
		{"***", "C", 1.76},
		{"***", "O", 1.40},
		{"***", "OXT", 1.40},
		{"***", "CB", 1.87},
		//aromatic rings
		{"PHE", "CG", 1.76},
		{"PHE", "CD*", 1.76},
		{"PHE", "CE*", 1.76},
		{"PHE", "CZ", 1.76},
		{"TYR", "CG", 1.76},
		{"TYR", "CD*", 1.76},
		{"TYR", "CE*", 1.76},
		{"TYR", "CZ", 1.76},
		{"TYR", "OH", 1.40},
		{"TRP", "CG", 1.76},
		{"TRP", "CD*", 1.76},
		{"TRP", "NE1", 1.65},
		{"TRP", "CE*", 1.76},
		{"TRP", "CZ*", 1.76},
		{"TRP", "CH2", 1.76},
		{"HIS", "CG", 1.76},
		{"HIS", "ND1", 1.65},
		{"HIS", "CD2", 1.76},
		{"HIS", "CE1", 1.76},
		{"HIS", "NE2", 1.65},
		//charged and polar side chain tips
		{"ARG", "CZ", 1.76},
		{"ARG", "NE", 1.65},
		{"ARG", "NH*", 1.65},
		{"LYS", "NZ", 1.50},
		{"ASP", "CG", 1.76},
		{"ASP", "OD*", 1.40},
		{"GLU", "CD", 1.76},
		{"GLU", "OE*", 1.40},
		{"ASN", "CG", 1.76},
		{"ASN", "OD1", 1.40},
		{"ASN", "ND2", 1.65},
		{"GLN", "CD", 1.76},
		{"GLN", "OE1", 1.40},
		{"GLN", "NE2", 1.65},
		{"SER", "OG", 1.40},
		{"THR", "OG1", 1.40},
		{"CYS", "SG", 1.85},
		{"MET", "SD", 1.85},
		//remaining heavy atoms of any residue, by prefix
		{"***", "C*", 1.87},
		{"***", "N*", 1.65},
		{"***", "O*", 1.40},
		{"***", "S*", 1.85},
		{"***", "P*", 1.90},
		//bare element fallbacks
		{"***", "H", 1.20},
		{"***", "F", 1.47},
		{"***", "I", 1.98},
	}
}
