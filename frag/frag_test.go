/*
 * frag_test.go, part of fraggrow.
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

package frag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rmera/fraggrow/chem"
	"github.com/rmera/fraggrow/internal/logging"
	v3 "github.com/rmera/fraggrow/v3"
)

func observed() (*Extractor, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewExtractor(logging.NewFromCore(core), false), logs
}

func read(Te *testing.T, name string) *chem.Molecule {
	mol, err := chem.PDBFileRead("testdata/" + name)
	require.NoError(Te, err)
	return mol
}

func criticals(logs *observer.ObservedLogs) int {
	n := 0
	for _, e := range logs.All() {
		if e.ContextMap()["critical"] == true {
			n++
		}
	}
	return n
}

func TestLigandNotHetero(Te *testing.T) {
	mol := read(Te, "nonhet.pdb")
	E, logs := observed()
	sel, err := E.Ligand(mol, "L")
	require.NoError(Te, err)
	assert.False(Te, sel.Found())
	assert.Contains(Te, sel.Reason(), "does not contain heteroatoms")
	assert.Equal(Te, 1, criticals(logs))

	sel, err = E.Ligand(mol, "Q")
	require.NoError(Te, err)
	assert.False(Te, sel.Found())
	assert.Contains(Te, sel.Reason(), "Wrong chain")

	E.Strict = true
	_, err = E.Ligand(mol, "L")
	assert.ErrorIs(Te, err, ErrSelection)
}

func TestResidue(Te *testing.T) {
	mol := read(Te, "complex.pdb")
	E, logs := observed()
	sel, err := E.Residue(mol, "A:145")
	require.NoError(Te, err)
	assert.Equal(Te, 4, sel.Len())

	_, err = E.Residue(mol, "A-145")
	assert.Error(Te, err)
	_, err = E.Residue(mol, "A:1x")
	assert.Error(Te, err)

	sel, err = E.Residue(mol, "A:146")
	require.NoError(Te, err)
	assert.False(Te, sel.Found())
	assert.Equal(Te, 1, criticals(logs))
}

func TestCheckProtonation(Te *testing.T) {
	E, logs := observed()
	mol := read(Te, "unprotonated.pdb")
	sel, err := E.Ligand(mol, "L")
	require.NoError(Te, err)
	require.True(Te, sel.Found())
	assert.False(Te, E.CheckProtonation(mol, sel))
	assert.Equal(Te, 1, criticals(logs))

	mol = read(Te, "complex.pdb")
	sel, _ = E.Ligand(mol, "L")
	assert.True(Te, E.CheckProtonation(mol, sel))
	assert.Equal(Te, 1, criticals(logs))
}

func TestContact(Te *testing.T) {
	E, _ := observed()
	mol := read(Te, "complex.pdb")
	lig, _ := E.Ligand(mol, "L")
	d, ok, err := E.Contact(mol, lig, "A:145")
	require.NoError(Te, err)
	require.True(Te, ok)
	assert.InDelta(Te, 7.0972, d, 1e-3)

	_, ok, err = E.Contact(mol, lig, "B:1")
	require.NoError(Te, err)
	assert.False(Te, ok)
}

func TestBuild(Te *testing.T) {
	E, logs := observed()
	cmplx := read(Te, "complex.pdb")
	fragment := read(Te, "fragment.pdb")
	G, err := E.Build(cmplx, fragment, Options{CoreChain: "L", FragChain: "L", CoreAtom: "C1", FragAtom: "F1"})
	require.NoError(Te, err)
	assert.Equal(Te, 0, criticals(logs))

	assert.Equal(Te, "H1", G.CoreH)
	assert.Equal(Te, "F1", G.Anchor)
	assert.Equal(Te, map[string]string{"H2": "H7", "H3": "H8", "H4": "H9"}, G.Renamed)
	assert.Equal(Te, 8, G.Core.Len())
	assert.Equal(Te, []string{"C1", "C2", "H2", "H3", "H4", "H5", "H6", "F1", "O1", "H7", "H8", "H9"}, G.Ligand.Names())
	for _, at := range G.Ligand.Atoms {
		assert.Equal(Te, DefaultResname, at.Molname)
		assert.Equal(Te, "L", at.Chain)
		assert.True(Te, at.Het)
	}
	assert.Equal(Te, 12, G.Ligand.Atom(11).ID)

	lc := G.Ligand.Coords[0]
	c1, f1, o1 := G.Ligand.Find("C1", ""), G.Ligand.Find("F1", ""), G.Ligand.Find("O1", "")
	assert.InDelta(Te, 1.52, v3.Distance(lc, c1, lc, f1), 1e-6)
	assert.InDelta(Te, -0.50151, lc.At(f1, 0), 1e-4)
	assert.InDelta(Te, 1.43488, lc.At(f1, 1), 1e-4)
	//the fragment is rigidly moved
	assert.InDelta(Te, 1.43, v3.Distance(lc, f1, lc, o1), 1e-6)
	assert.Greater(Te, v3.Distance(lc, c1, lc, o1), 2.0)
	//and bonded to the core, with no leftover hydrogens in between
	_, err = chem.AssignBonds(lc, G.Ligand.Topology)
	require.NoError(Te, err)
	cross := false
	for _, b := range G.Ligand.Atom(c1).Bonds {
		if b.Cross(G.Ligand.Atom(c1)).Name == "F1" {
			cross = true
		}
	}
	assert.True(Te, cross)

	assert.Equal(Te, 16, G.Complex.Len())
	assert.Equal(Te, "N", G.Complex.Atom(0).Name)
	assert.Equal(Te, 16, G.Complex.Atom(15).ID)
	cc := G.Complex.Coords[0]
	cf1, cc1 := G.Complex.Find("F1", "L"), G.Complex.Find("C1", "L")
	assert.InDelta(Te, 0.152, v3.Distance(cc, cc1, cc, cf1), 1e-6)
	//the input structures are untouched
	assert.Equal(Te, 12, cmplx.Len())
	assert.Equal(Te, "FRG", fragment.Atom(0).Molname)
}

func TestBuildChosenHydrogens(Te *testing.T) {
	E, _ := observed()
	G, err := E.Build(read(Te, "complex.pdb"), read(Te, "fragment.pdb"),
		Options{CoreChain: "L", FragChain: "L", CoreAtom: "C1", FragAtom: "F1", CoreH: "H3", FragH: "H2", DummyScale: 0.5})
	require.NoError(Te, err)
	assert.Equal(Te, "H3", G.CoreH)
	assert.NotContains(Te, G.Ligand.Names(), "H3")
	cc := G.Complex.Coords[0]
	cf1, cc1 := G.Complex.Find("F1", "L"), G.Complex.Find("C1", "L")
	assert.InDelta(Te, 0.76, v3.Distance(cc, cc1, cc, cf1), 1e-6)
}

func TestBuildErrors(Te *testing.T) {
	E, _ := observed()
	cmplx, fragment := read(Te, "complex.pdb"), read(Te, "fragment.pdb")
	base := Options{CoreChain: "L", FragChain: "L", CoreAtom: "C1", FragAtom: "F1"}

	O := base
	O.CoreAtom = "C9"
	_, err := E.Build(cmplx, fragment, O)
	assert.ErrorIs(Te, err, ErrAnchor)

	O = base
	O.FragAtom = "H1"
	_, err = E.Build(cmplx, fragment, O)
	assert.ErrorIs(Te, err, ErrAnchor)

	O = base
	O.CoreH = "H4" //bonded to C2, not C1
	_, err = E.Build(cmplx, fragment, O)
	assert.ErrorIs(Te, err, ErrAnchor)

	O = base
	O.CoreChain = "A"
	_, err = E.Build(cmplx, fragment, O)
	assert.ErrorIs(Te, err, ErrSelection)

	O = base
	O.DummyScale = 2
	_, err = E.Build(cmplx, fragment, O)
	assert.Error(Te, err)

	_, err = E.Build(read(Te, "unprotonated.pdb"), fragment, base)
	assert.ErrorIs(Te, err, ErrAnchor)
}

func TestUniqueName(Te *testing.T) {
	used := map[string]bool{"C1": true, "C2": true}
	n, err := uniqueName("C", used)
	require.NoError(Te, err)
	assert.Equal(Te, "C3", n)

	for k := 1; k <= 99; k++ {
		used[fmt.Sprintf("CL%d", k)] = true
	}
	_, err = uniqueName("Cl", used)
	assert.ErrorIs(Te, err, ErrAnchor)
}
