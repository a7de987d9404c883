/*
 * bonds.go, part of fraggrow.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chem

import (
	"fmt"

	v3 "github.com/rmera/fraggrow/v3"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//Bond joins two atoms.
type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Dist  float64
}

//Cross returns the atom bonded to origin through B.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //I think this got to be a programming error, so a panic is warranted.
}

//bonded returns whether atoms i and j of mol, with coordinates coord, are
//close enough to be considered covalently bonded. It returns an error if
//the covalent radius of either atom is not known.
func bonded(coord *v3.Matrix, mol Atomer, i, j int) (bool, float64, error) {
	at1, at2 := mol.Atom(i), mol.Atom(j)
	cov1, ok1 := symbolCovrad[at1.Symbol]
	cov2, ok2 := symbolCovrad[at2.Symbol]
	if !ok1 || !ok2 {
		return false, 0, newCError(fmt.Sprintf("Couldn't find the covalent radii for %s %d or %s %d", at1.Symbol, i, at2.Symbol, j), "bonded")
	}
	d := v3.Distance(coord, i, coord, j)
	return d < cov1+cov2+bondtol && d > tooclose, d, nil
}

//AssignBonds assigns bonds to a molecule based on a simple distance
//criterium, similar to that described in DOI:10.1186/1758-2946-3-33
//It's really not thought for proteins or macromolecules, only for ligands.
func AssignBonds(coord *v3.Matrix, mol *Topology) ([]*Bond, error) {
	mol.FillIndexes()
	for _, at := range mol.Atoms {
		at.Bonds = nil
	}
	bonds := make([]*Bond, 0, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		for j := i + 1; j < mol.Len(); j++ {
			ok, d, err := bonded(coord, mol, i, j)
			if err != nil {
				return nil, errDecorate(err, "AssignBonds")
			}
			if !ok {
				continue
			}
			at1, at2 := mol.Atom(i), mol.Atom(j)
			b := &Bond{Index: len(bonds), Dist: d, At1: at1, At2: at2}
			at1.Bonds = append(at1.Bonds, b)
			at2.Bonds = append(at2.Bonds, b)
			bonds = append(bonds, b)
		}
	}
	return bonds, nil
}

//BondedHydrogens returns the indexes of the hydrogens of mol covalently bonded to the atom
//with index atom, in the given frame, in file order.
func BondedHydrogens(mol *Molecule, frame, atom int) ([]int, error) {
	if frame < 0 || frame >= mol.LenFrames() {
		return nil, newCError(fmt.Sprintf("Frame %d requested, but the molecule has %d", frame, mol.LenFrames()), "BondedHydrogens")
	}
	if atom < 0 || atom >= mol.Len() {
		return nil, newCError(fmt.Sprintf("Atom %d out of range (%d)", atom, mol.Len()), "BondedHydrogens")
	}
	coord := mol.Coords[frame]
	hs := make([]int, 0, 4)
	for i, at := range mol.Atoms {
		if i == atom || at.Heavy() {
			continue
		}
		ok, _, err := bonded(coord, mol, atom, i)
		if err != nil {
			return nil, errDecorate(err, "BondedHydrogens")
		}
		if ok {
			hs = append(hs, i)
		}
	}
	return hs, nil
}

//BondedTo returns the index of the heavy atom of mol closest to the atom with index h, among those
//covalently bonded to it, in the given frame. It returns -1 if there is none.
func BondedTo(mol *Molecule, frame, h int) (int, error) {
	coord := mol.Coords[frame]
	best, bestd := -1, 0.0
	for i, at := range mol.Atoms {
		if i == h || !at.Heavy() {
			continue
		}
		ok, d, err := bonded(coord, mol, h, i)
		if err != nil {
			return -1, errDecorate(err, "BondedTo")
		}
		if ok && (best < 0 || d < bestd) {
			best, bestd = i, d
		}
	}
	return best, nil
}
