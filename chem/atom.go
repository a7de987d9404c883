/*
 * atom.go, part of fraggrow.
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

//Package chem provides atom and molecule structures, and facilities for reading,
//writing and selecting parts of PDB structures.
package chem

import (
	"fmt"

	v3 "github.com/rmera/fraggrow/v3"
)

//Atom contains the information read for an atom, except for the coordinates and
//b-factors, which are kept by the Molecule, as they change from frame to frame.
type Atom struct {
	Name      string
	ID        int //the serial number in the PDB file
	Index     int //the position in the Topology, filled by FillIndexes
	Molname   string
	MolID     int
	Chain     string
	Symbol    string
	Occupancy float64
	Het       bool // is hetatm in the pdb file?
	Bonds     []*Bond
}

//Copy returns a copy of the Atom object. Bonds are not copied.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	N.Bonds = nil
	return &N
}

//Heavy returns true if the atom is not a hydrogen.
func (A *Atom) Heavy() bool {
	return A.Symbol != "H" && A.Symbol != "D"
}

//Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms []*Atom
}

//NewTopology returns a Topology with the given atoms.
func NewTopology(ats []*Atom) *Topology {
	return &Topology{Atoms: ats}
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//FillIndexes sets the Index field of each atom to its position in the Topology.
func (T *Topology) FillIndexes() {
	for key, val := range T.Atoms {
		val.Index = key
	}
}

//ResetIDs sets the serial number of each atom to its position in the topology, starting from 1.
func (T *Topology) ResetIDs() {
	for key, val := range T.Atoms {
		val.ID = key + 1
	}
}

//Names returns the names of all the atoms in the topology.
func (T *Topology) Names() []string {
	ret := make([]string, 0, T.Len())
	for _, v := range T.Atoms {
		ret = append(ret, v.Name)
	}
	return ret
}

//Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
//coordinates and b-factors, is stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
}

//NewMolecule makes a molecule with ats atoms, coords coordinates and bfactors b-factors.
//bfactors can be nil, in which case they are filled with zeros.
func NewMolecule(ats []*Atom, coords []*v3.Matrix, bfactors [][]float64) (*Molecule, error) {
	if ats == nil {
		return nil, newCError("Supplied a nil atom slice", "NewMolecule")
	}
	if len(coords) == 0 {
		return nil, newCError("Supplied no coordinates", "NewMolecule")
	}
	mol := &Molecule{Topology: NewTopology(ats), Coords: coords, Bfactors: bfactors}
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

//Corrupted checks whether the molecule is corrupted, i.e. the
//coordinates don't match the number of atoms. Missing b-factors
//are filled with zeros instead.
func (M *Molecule) Corrupted() error {
	for i := range M.Coords {
		if M.Len() != M.Coords[i].NVecs() {
			return newCError(fmt.Sprintf("Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", i, M.Len(), M.Coords[i].NVecs()), "Corrupted")
		}
		if len(M.Bfactors) <= i {
			M.Bfactors = append(M.Bfactors, make([]float64, M.Len()))
		} else if len(M.Bfactors[i]) != M.Len() {
			M.Bfactors[i] = make([]float64, M.Len())
		}
	}
	return nil
}

//LenFrames returns the number of frames in the molecule.
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

//Frame returns a one-frame molecule sharing the atoms with M, with a copy
//of the coordinates and b-factors of frame i.
func (M *Molecule) Frame(i int) (*Molecule, error) {
	if i < 0 || i >= len(M.Coords) {
		return nil, newCError(fmt.Sprintf("Frame %d requested, but the molecule has %d", i, len(M.Coords)), "Frame")
	}
	b := make([]float64, M.Len())
	if len(M.Bfactors) > i {
		copy(b, M.Bfactors[i])
	}
	return &Molecule{Topology: M.Topology, Coords: []*v3.Matrix{M.Coords[i].Copy()}, Bfactors: [][]float64{b}}, nil
}

//Subset returns a new molecule with copies of the atoms with the given indexes and their coordinates, for every frame.
func (M *Molecule) Subset(indexes []int) (*Molecule, error) {
	if len(indexes) == 0 {
		return nil, newCError("No atoms to keep", "Subset")
	}
	ats := make([]*Atom, 0, len(indexes))
	for _, v := range indexes {
		if v < 0 || v >= M.Len() {
			return nil, newCError(fmt.Sprintf("Atom %d out of range (%d)", v, M.Len()), "Subset")
		}
		ats = append(ats, M.Atoms[v].Copy())
	}
	coords := make([]*v3.Matrix, 0, len(M.Coords))
	bfacs := make([][]float64, 0, len(M.Coords))
	for i, c := range M.Coords {
		sub := v3.Zeros(len(indexes))
		if err := sub.SomeVecs(c, indexes); err != nil {
			return nil, errDecorate(err, "Subset")
		}
		coords = append(coords, sub)
		b := make([]float64, len(indexes))
		if len(M.Bfactors) > i {
			for k, v := range indexes {
				b[k] = M.Bfactors[i][v]
			}
		}
		bfacs = append(bfacs, b)
	}
	return NewMolecule(ats, coords, bfacs)
}

//Without returns a new molecule with every atom of M except for those with the given indexes.
func (M *Molecule) Without(indexes []int) (*Molecule, error) {
	skip := make(map[int]bool, len(indexes))
	for _, v := range indexes {
		skip[v] = true
	}
	keep := make([]int, 0, M.Len())
	for i := 0; i < M.Len(); i++ {
		if !skip[i] {
			keep = append(keep, i)
		}
	}
	return M.Subset(keep)
}

//Find returns the index of the first atom with the given name, in the given chain
//(any chain if chain is empty), or -1 if there is no such atom.
func (M *Molecule) Find(name, chain string) int {
	for i, v := range M.Atoms {
		if v.Name == name && (chain == "" || v.Chain == chain) {
			return i
		}
	}
	return -1
}
