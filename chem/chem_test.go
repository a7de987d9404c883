/*
 * chem_test.go, part of fraggrow.
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
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAtom struct {
	het     bool
	name    string
	resname string
	chain   string
	resnum  int
	x, y, z float64
	element string
}

func pdbText(ats []testAtom) string {
	var b strings.Builder
	for i, a := range ats {
		rec := "ATOM"
		if a.het {
			rec = "HETATM"
		}
		name := " " + a.name
		if len(a.name) == 4 {
			name = a.name
		}
		fmt.Fprintf(&b, "%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n", rec, i+1, name, a.resname, a.chain, a.resnum, a.x, a.y, a.z, 1.0, 0.0, a.element)
	}
	b.WriteString("END\n")
	return b.String()
}

//a small complex: one alanine in chain A and an ethane-like ligand in chain L.
var complexAtoms = []testAtom{
	{false, "N", "ALA", "A", 145, 5.0, 5.0, 5.0, "N"},
	{false, "CA", "ALA", "A", 145, 6.4, 5.0, 5.0, "C"},
	{false, "C", "ALA", "A", 145, 7.0, 6.3, 5.0, "C"},
	{false, "O", "ALA", "A", 145, 6.3, 7.3, 5.0, "O"},
	{true, "C1", "LIG", "L", 1, 0, 0, 0, "C"},
	{true, "C2", "LIG", "L", 1, 1.54, 0, 0, "C"},
	{true, "H1", "LIG", "L", 1, -0.36, 1.03, 0, "H"},
	{true, "H2", "LIG", "L", 1, -0.36, -0.51, 0.89, "H"},
	{true, "H3", "LIG", "L", 1, -0.36, -0.51, -0.89, "H"},
	{true, "H4", "LIG", "L", 1, 1.90, 1.03, 0, "H"},
	{true, "H5", "LIG", "L", 1, 1.90, -0.51, 0.89, "H"},
	{true, "H6", "LIG", "L", 1, 1.90, -0.51, -0.89, "H"},
}

func readComplex(Te *testing.T) *Molecule {
	mol, err := PDBRead(strings.NewReader(pdbText(complexAtoms)))
	require.NoError(Te, err)
	return mol
}

func TestPDBRead(Te *testing.T) {
	mol := readComplex(Te)
	assert.Equal(Te, 12, mol.Len())
	assert.Equal(Te, 1, mol.LenFrames())
	at := mol.Atom(1)
	assert.Equal(Te, "CA", at.Name)
	assert.Equal(Te, "C", at.Symbol)
	assert.Equal(Te, "ALA", at.Molname)
	assert.Equal(Te, 145, at.MolID)
	assert.False(Te, at.Het)
	assert.True(Te, mol.Atom(4).Het)
	assert.InDelta(Te, 1.54, mol.Coords[0].At(5, 0), 1e-9)
	assert.Equal(Te, 7, mol.Find("H2", "L"))
	assert.Equal(Te, -1, mol.Find("H2", "A"))
}

func TestPDBReadGuessesSymbols(Te *testing.T) {
	ats := []testAtom{
		{true, "CL1", "LIG", "L", 1, 0, 0, 0, ""},
		{true, "HC1", "LIG", "L", 1, 1, 0, 0, ""},
		{false, "CA", "ALA", "A", 2, 2, 0, 0, ""},
	}
	mol, err := PDBRead(strings.NewReader(pdbText(ats)))
	require.NoError(Te, err)
	assert.Equal(Te, "Cl", mol.Atom(0).Symbol)
	assert.Equal(Te, "H", mol.Atom(1).Symbol)
	assert.Equal(Te, "C", mol.Atom(2).Symbol)
}

func TestPDBMultiModel(Te *testing.T) {
	one := strings.TrimSuffix(pdbText(complexAtoms[4:6]), "END\n")
	two := strings.Replace(one, "   1.540", "   1.600", 1)
	text := "MODEL        1\n" + one + "ENDMDL\nMODEL        2\n" + two + "ENDMDL\nEND\n"
	mol, err := PDBRead(strings.NewReader(text))
	require.NoError(Te, err)
	require.Equal(Te, 2, mol.LenFrames())
	assert.InDelta(Te, 1.54, mol.Coords[0].At(1, 0), 1e-9)
	assert.InDelta(Te, 1.60, mol.Coords[1].At(1, 0), 1e-9)

	fr, err := mol.Frame(1)
	require.NoError(Te, err)
	assert.Equal(Te, 1, fr.LenFrames())
	assert.InDelta(Te, 1.60, fr.Coords[0].At(1, 0), 1e-9)
	_, err = mol.Frame(2)
	assert.Error(Te, err)

	bad := "MODEL        1\n" + one + "ENDMDL\nMODEL        2\n" + pdbText(complexAtoms[4:5])
	_, err = PDBRead(strings.NewReader(bad))
	assert.Error(Te, err)
}

func TestPDBRoundTripCompressed(Te *testing.T) {
	mol := readComplex(Te)
	dir := Te.TempDir()
	for _, name := range []string{"c.pdb", "c.pdb.gz", "c.pdb.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, PDBFileWrite(path, mol), name)
		back, err := PDBFileRead(path)
		require.NoError(Te, err, name)
		assert.Equal(Te, mol.Names(), back.Names(), name)
		for i := 0; i < mol.Len(); i++ {
			for j := 0; j < 3; j++ {
				assert.InDelta(Te, mol.Coords[0].At(i, j), back.Coords[0].At(i, j), 1e-3)
			}
		}
	}
}

func TestPDBWriteColumns(Te *testing.T) {
	mol := readComplex(Te)
	var buf bytes.Buffer
	require.NoError(Te, PDBWrite(&buf, mol))
	lines := strings.Split(buf.String(), "\n")
	var ca, c1 string
	for _, l := range lines {
		if strings.HasPrefix(l, "ATOM") && strings.Contains(l, " CA ") {
			ca = l
		}
		if strings.HasPrefix(l, "HETATM") && strings.Contains(l, " C1 ") {
			c1 = l
		}
	}
	require.NotEmpty(Te, ca)
	require.NotEmpty(Te, c1)
	assert.Equal(Te, " CA ", ca[12:16])
	assert.Equal(Te, "ALA", ca[17:20])
	assert.Equal(Te, "L", c1[21:22])
	assert.Contains(Te, buf.String(), "TER\n")
}

func TestSubsetWithout(Te *testing.T) {
	mol := readComplex(Te)
	sub, err := mol.Subset([]int{5, 4})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"C2", "C1"}, sub.Names())
	assert.InDelta(Te, 1.54, sub.Coords[0].At(0, 0), 1e-9)
	//copies, not the same atoms
	sub.Atom(0).Name = "XX"
	assert.Equal(Te, "C2", mol.Atom(5).Name)

	rest, err := mol.Without([]int{0, 1, 2, 3})
	require.NoError(Te, err)
	assert.Equal(Te, 8, rest.Len())
	assert.Equal(Te, "C1", rest.Atom(0).Name)

	_, err = mol.Subset([]int{40})
	assert.Error(Te, err)
}

func TestBonds(Te *testing.T) {
	mol := readComplex(Te)
	hs, err := BondedHydrogens(mol, 0, 4)
	require.NoError(Te, err)
	assert.Equal(Te, []int{6, 7, 8}, hs)
	heavy, err := BondedTo(mol, 0, 9)
	require.NoError(Te, err)
	assert.Equal(Te, 5, heavy)

	lig, err := mol.Subset(LigandSelection(mol, "L").Indexes)
	require.NoError(Te, err)
	bonds, err := AssignBonds(lig.Coords[0], lig.Topology)
	require.NoError(Te, err)
	assert.Len(Te, bonds, 7)
	assert.Len(Te, lig.Atom(0).Bonds, 4)
	assert.Equal(Te, lig.Atom(1), lig.Atom(0).Bonds[0].Cross(lig.Atom(0)))

	l, err := BondLength("C", "C")
	require.NoError(Te, err)
	assert.InDelta(Te, 1.52, l, 1e-9)
	_, err = BondLength("C", "Xx")
	assert.Error(Te, err)
}

func TestLigandSelection(Te *testing.T) {
	mol := readComplex(Te)
	sel := LigandSelection(mol, "L")
	require.True(Te, sel.Found())
	assert.Equal(Te, 8, sel.Len())
	assert.Equal(Te, 6, Hydrogens(mol, sel))
	assert.Equal(Te, []string{"LIG"}, ResidueNames(mol, sel))

	sel = LigandSelection(mol, "Z")
	assert.False(Te, sel.Found())
	assert.Contains(Te, sel.Reason(), "Wrong chain")

	//chain A exists but only has standard residues
	sel = LigandSelection(mol, "A")
	assert.False(Te, sel.Found())
	assert.Contains(Te, sel.Reason(), "heteroatoms")
}

func TestResidueSelection(Te *testing.T) {
	mol := readComplex(Te)
	sel := ResidueSelection(mol, "A", 145)
	require.True(Te, sel.Found())
	assert.Equal(Te, []int{0, 1, 2, 3}, sel.Indexes)
	assert.Equal(Te, 0, Hydrogens(mol, sel))
	assert.False(Te, ResidueSelection(mol, "A", 146).Found())
	assert.Equal(Te, "empty selection", Selection{}.Reason())
}

func TestParseResidue(Te *testing.T) {
	chain, resnum, err := ParseResidue("A:145")
	require.NoError(Te, err)
	assert.Equal(Te, "A", chain)
	assert.Equal(Te, "145", resnum)

	_, _, err = ParseResidue("A-145")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "separator")

	_, _, err = ParseResidue("A:145:X")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "3 parts")

	_, _, err = ParseResidue(":145")
	assert.Error(Te, err)
}
