/*
 * extract.go, part of fraggrow.
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

//Package frag extracts the core ligand and the fragment from their PDB structures
//and builds the grown ligand and the complex used to start a growing run.
package frag

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rmera/fraggrow/chem"
	"github.com/rmera/fraggrow/internal/logging"
	v3 "github.com/rmera/fraggrow/v3"
)

//ErrSelection is returned, wrapped, by a strict Extractor when a selection fails.
var ErrSelection = errors.New("frag: selection not found")

//Extractor selects ligands and residues from structures. A lenient Extractor (the default)
//logs failed selections as critical and returns them not found; a strict one returns an error.
type Extractor struct {
	Log    logging.Logger
	Strict bool
}

//NewExtractor returns an Extractor logging to log, or discarding its messages if log is nil.
func NewExtractor(log logging.Logger, strict bool) *Extractor {
	if log == nil {
		log = logging.NewNop()
	}
	return &Extractor{Log: log.Named("frag"), Strict: strict}
}

func (E *Extractor) check(sel chem.Selection, fields ...logging.Field) (chem.Selection, error) {
	if sel.Found() {
		return sel, nil
	}
	if E.Strict {
		return sel, fmt.Errorf("%w: %s", ErrSelection, sel.Reason())
	}
	E.Log.Critical(sel.Reason(), fields...)
	return sel, nil
}

//Ligand selects the hetero atoms of chain in mol.
func (E *Extractor) Ligand(mol chem.Atomer, chain string) (chem.Selection, error) {
	return E.check(chem.LigandSelection(mol, chain), logging.String("chain", chain))
}

//Residue selects the residue given by a selector such as "A:145". Malformed selectors
//are always an error, regardless of the strictness.
func (E *Extractor) Residue(mol chem.Atomer, selector string) (chem.Selection, error) {
	chain, num, err := chem.ParseResidue(selector)
	if err != nil {
		return chem.NotFound(err.Error()), err
	}
	resnum, err := strconv.Atoi(num)
	if err != nil {
		return chem.NotFound(err.Error()), fmt.Errorf("residue number in %q: %w", selector, err)
	}
	return E.check(chem.ResidueSelection(mol, chain, resnum), logging.String("residue", selector))
}

//CheckProtonation returns whether the selection contains hydrogens. If it doesn't, a critical
//message is logged, but nothing else is done: protonating the structure is up to the user.
func (E *Extractor) CheckProtonation(mol chem.Atomer, sel chem.Selection) bool {
	if !sel.Found() {
		return false
	}
	if chem.Hydrogens(mol, sel) > 0 {
		return true
	}
	E.Log.Critical("The selection has no hydrogens. Protonate the structure before growing",
		logging.Any("residues", chem.ResidueNames(mol, sel)), logging.Int("atoms", sel.Len()))
	return false
}

//Contact returns the shortest distance between the atoms of the ligand selection and those
//of the residue given by selector, both in the first frame of mol. ok is false if either
//selection is not found by a lenient Extractor.
func (E *Extractor) Contact(mol *chem.Molecule, ligand chem.Selection, selector string) (dist float64, ok bool, err error) {
	res, err := E.Residue(mol, selector)
	if err != nil || !res.Found() || !ligand.Found() {
		return 0, false, err
	}
	lc, rc := v3.Zeros(ligand.Len()), v3.Zeros(res.Len())
	if err := lc.SomeVecs(mol.Coords[0], ligand.Indexes); err != nil {
		return 0, false, fmt.Errorf("ligand coordinates: %w", err)
	}
	if err := rc.SomeVecs(mol.Coords[0], res.Indexes); err != nil {
		return 0, false, fmt.Errorf("residue coordinates: %w", err)
	}
	d, _, _ := v3.MinDistance(lc, rc)
	return d, true, nil
}
