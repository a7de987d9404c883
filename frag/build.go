/*
 * build.go, part of fraggrow.
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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rmera/fraggrow/chem"
	"github.com/rmera/fraggrow/internal/logging"
	v3 "github.com/rmera/fraggrow/v3"
)

//DefaultDummyScale is the factor by which the fragment atoms are contracted toward the
//core atom in the complex that starts the growing.
const DefaultDummyScale = 0.1

//DefaultResname is the residue name of the grown ligand.
const DefaultResname = "GRW"

//ErrAnchor is returned, wrapped, when a growing point can't be used.
var ErrAnchor = errors.New("frag: bad growing point")

//Options define how a fragment is attached to a core ligand.
type Options struct {
	CoreChain string
	FragChain string
	CoreAtom  string //the core atom that bonds the fragment
	FragAtom  string //the fragment atom that bonds the core
	//the hydrogens replaced by the new bond. If empty, the first hydrogen bonded
	//to the corresponding atom, in file order, is used.
	CoreH      string
	FragH      string
	DummyScale float64 //DefaultDummyScale if zero
	Resname    string  //DefaultResname if empty
}

//Grown is the result of attaching a fragment to a core ligand.
type Grown struct {
	Core    *chem.Molecule //the core ligand, as in the complex
	Ligand  *chem.Molecule //the grown ligand, fully built
	Complex *chem.Molecule //the receptor and the grown ligand with the fragment contracted
	//CoreH is the name of the core hydrogen replaced by the fragment.
	CoreH string
	//Anchor is the name, in the grown ligand, of the fragment atom bonded to the core.
	Anchor string
	//Renamed maps the fragment atom names that had to change to their new names.
	Renamed map[string]string
}

//growingPoint returns the index of the heavy atom name of mol and the index of the hydrogen
//hname bonded to it, or of its first bonded hydrogen if hname is empty.
func growingPoint(mol *chem.Molecule, name, hname string) (int, int, error) {
	at := mol.Find(name, "")
	if at < 0 {
		return -1, -1, fmt.Errorf("%w: atom %s not found", ErrAnchor, name)
	}
	if !mol.Atom(at).Heavy() {
		return -1, -1, fmt.Errorf("%w: atom %s is a hydrogen", ErrAnchor, name)
	}
	hs, err := chem.BondedHydrogens(mol, 0, at)
	if err != nil {
		return -1, -1, fmt.Errorf("hydrogens bonded to %s: %w", name, err)
	}
	if len(hs) == 0 {
		return -1, -1, fmt.Errorf("%w: atom %s has no hydrogens to replace", ErrAnchor, name)
	}
	if hname == "" {
		return at, hs[0], nil
	}
	for _, h := range hs {
		if mol.Atom(h).Name == hname {
			return at, h, nil
		}
	}
	return -1, -1, fmt.Errorf("%w: %s is not a hydrogen bonded to %s", ErrAnchor, hname, name)
}

//uniqueName returns a name for an atom of element symbol not in used. PDB atom names
//have at most 4 characters, so the numbers available run out.
func uniqueName(symbol string, used map[string]bool) (string, error) {
	sym := strings.ToUpper(symbol)
	for k := 1; len(sym)+len(strconv.Itoa(k)) <= 4; k++ {
		n := sym + strconv.Itoa(k)
		if !used[n] {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: no free atom name for element %s", ErrAnchor, symbol)
}

//place returns the coordinates of the fragment, rotated and translated so its bond from the
//atom fa to the hydrogen fh points against the core bond from ca to the hydrogen ch, with
//fa at the ideal bond length from ca.
func place(core *chem.Molecule, ca, ch int, frag *chem.Molecule, fa, fh int) (*v3.Matrix, error) {
	cc, fc := core.Coords[0], frag.Coords[0]
	dcore := v3.Zeros(1)
	dcore.Sub(cc.VecView(ch), cc.VecView(ca))
	dfrag := v3.Zeros(1)
	dfrag.Sub(fc.VecView(fh), fc.VecView(fa))
	against := v3.Zeros(1)
	against.Scale(-1, dcore)
	R, err := v3.RotatorToAlign(dfrag, against)
	if err != nil {
		return nil, fmt.Errorf("aligning the fragment: %w", err)
	}
	placed := v3.Zeros(fc.NVecs())
	placed.RotateAbout(fc, R, fc.VecView(fa))
	bl, err := chem.BondLength(core.Atom(ca).Symbol, frag.Atom(fa).Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAnchor, err.Error())
	}
	unit, err := dcore.Unit()
	if err != nil {
		return nil, fmt.Errorf("core growing bond: %w", err)
	}
	target := v3.Zeros(1)
	target.Scale(bl, unit)
	target.Add(target, cc.VecView(ca))
	shift := v3.Zeros(1)
	shift.Sub(target, placed.VecView(fa))
	placed.AddVec(placed, shift)
	return placed, nil
}

//Build selects the core ligand in cmplx and the fragment in fragment, and attaches the
//fragment to the core by replacing one hydrogen of each with a bond between CoreAtom and
//FragAtom. Only the first frame of each structure is used.
func (E *Extractor) Build(cmplx, fragment *chem.Molecule, O Options) (*Grown, error) {
	if O.DummyScale == 0 {
		O.DummyScale = DefaultDummyScale
	}
	if O.Resname == "" {
		O.Resname = DefaultResname
	}
	if O.DummyScale < 0 || O.DummyScale > 1 {
		return nil, fmt.Errorf("dummy scale must be in (0,1], got %f", O.DummyScale)
	}
	cmplx, err := cmplx.Frame(0)
	if err != nil {
		return nil, err
	}
	fragment, err = fragment.Frame(0)
	if err != nil {
		return nil, err
	}
	coresel, err := E.Ligand(cmplx, O.CoreChain)
	if err != nil {
		return nil, fmt.Errorf("core ligand: %w", err)
	}
	if !coresel.Found() {
		return nil, fmt.Errorf("%w: core ligand: %s", ErrSelection, coresel.Reason())
	}
	fragsel, err := E.Ligand(fragment, O.FragChain)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	if !fragsel.Found() {
		return nil, fmt.Errorf("%w: fragment: %s", ErrSelection, fragsel.Reason())
	}
	E.CheckProtonation(cmplx, coresel)
	E.CheckProtonation(fragment, fragsel)
	core, err := cmplx.Subset(coresel.Indexes)
	if err != nil {
		return nil, err
	}
	frag, err := fragment.Subset(fragsel.Indexes)
	if err != nil {
		return nil, err
	}
	ca, ch, err := growingPoint(core, O.CoreAtom, O.CoreH)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	fa, fh, err := growingPoint(frag, O.FragAtom, O.FragH)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	placed, err := place(core, ca, ch, frag, fa, fh)
	if err != nil {
		return nil, err
	}
	frag.Coords[0] = placed
	ret := &Grown{Core: core, CoreH: core.Atom(ch).Name, Renamed: make(map[string]string)}
	//the replaced core hydrogen keeps its name reserved, so no new atom takes it.
	used := make(map[string]bool, core.Len()+frag.Len())
	for _, v := range core.Atoms {
		used[v.Name] = true
	}
	coreKeep, err := core.Without([]int{ch})
	if err != nil {
		return nil, err
	}
	fragKeep, err := frag.Without([]int{fh})
	if err != nil {
		return nil, err
	}
	ref := core.Atom(ca)
	for _, at := range fragKeep.Atoms {
		old := at.Name
		if used[at.Name] {
			name, err := uniqueName(at.Symbol, used)
			if err != nil {
				return nil, err
			}
			at.Name = name
			ret.Renamed[old] = at.Name
		}
		used[at.Name] = true
		if old == O.FragAtom {
			ret.Anchor = at.Name
		}
	}
	ats := make([]*chem.Atom, 0, coreKeep.Len()+fragKeep.Len())
	ats = append(ats, coreKeep.Atoms...)
	ats = append(ats, fragKeep.Atoms...)
	for _, at := range ats {
		at.Molname = O.Resname
		at.Chain = ref.Chain
		at.MolID = ref.MolID
		at.Het = true
	}
	ret.Ligand, err = chem.NewMolecule(ats, []*v3.Matrix{v3.Stack(coreKeep.Coords[0], fragKeep.Coords[0])}, nil)
	if err != nil {
		return nil, err
	}
	ret.Ligand.ResetIDs()

	//initialization complex: the fragment shrunk onto the core atom.
	shrunk := v3.Zeros(fragKeep.Len())
	shrunk.ScaleAbout(fragKeep.Coords[0], O.DummyScale, core.Coords[0].VecView(ca))
	cats := make([]*chem.Atom, 0, cmplx.Len())
	ccoords := v3.Stack(coreKeep.Coords[0], shrunk)
	if coresel.Len() < cmplx.Len() {
		receptor, err := cmplx.Without(coresel.Indexes)
		if err != nil {
			return nil, err
		}
		cats = append(cats, receptor.Atoms...)
		ccoords = v3.Stack(receptor.Coords[0], ccoords)
	}
	for _, at := range ats {
		cats = append(cats, at.Copy())
	}
	ret.Complex, err = chem.NewMolecule(cats, []*v3.Matrix{ccoords}, nil)
	if err != nil {
		return nil, err
	}
	ret.Complex.ResetIDs()
	E.Log.Info("Fragment attached", logging.String("core_atom", O.CoreAtom), logging.String("replaced_h", ret.CoreH),
		logging.String("anchor", ret.Anchor), logging.Int("ligand_atoms", ret.Ligand.Len()), logging.Any("renamed", ret.Renamed))
	return ret, nil
}
