/*
 * pdb.go, part of molsurf/sc.
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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/spatial/r3"
)

type pdbAtom struct {
	coor    r3.Vec
	name    string
	residue string
}

// parsePDBChains reads the heavy ATOM records of the two given chains.
// Only standard protein ATOM records count; HETATM (ligands, ions,
// water) and hydrogens are skipped, as are alternate locations other
// than ' ' and 'A'. Files ending in .gz are decompressed on the fly.
func parsePDBChains(path, chain1, chain2 string) ([]pdbAtom, []pdbAtom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, err
		}
		defer gz.Close()
		r = gz
	}
	var mol1, mol2 []pdbAtom
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if !strings.HasPrefix(line, "ATOM") || len(line) < 54 {
			continue
		}
		if alt := line[16]; alt != ' ' && alt != 'A' {
			continue
		}
		name := strings.TrimSpace(line[12:16])
		var element string
		if len(line) >= 78 {
			element = strings.TrimSpace(line[76:78])
		}
		if isHydrogen(name, element) {
			continue
		}
		residue := "UNK"
		if len(line) >= 20 {
			residue = strings.TrimSpace(line[17:20])
		}
		chain := string(line[21])
		x, err := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad x coordinate on line %d: %v", lineno, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad y coordinate on line %d: %v", lineno, err)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad z coordinate on line %d: %v", lineno, err)
		}
		rec := pdbAtom{coor: r3.Vec{X: x, Y: y, Z: z}, name: name, residue: residue}
		switch chain {
		case chain1:
			mol1 = append(mol1, rec)
		case chain2:
			mol2 = append(mol2, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return mol1, mol2, nil
}

// isHydrogen guesses whether a heavy-atom filter should drop the atom:
// the element column is authoritative when present, otherwise the PDB
// name heuristics (leading or trailing H, or an H after a leading
// digit, as in 1HB2) decide.
func isHydrogen(name, element string) bool {
	if strings.EqualFold(element, "H") || strings.EqualFold(element, "D") {
		return true
	}
	if element != "" {
		return false
	}
	if strings.HasPrefix(name, "H") || strings.HasSuffix(name, "H") {
		return true
	}
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' && strings.Contains(name, "H") {
		return true
	}
	return false
}
