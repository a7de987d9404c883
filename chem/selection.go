/*
 * selection.go, part of fraggrow.
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
	"strings"
)

//Selection is the result of selecting atoms from a molecule. It is either found,
//with the indexes of the selected atoms, or not found, with the reason why.
type Selection struct {
	Indexes []int
	Missing string //why the selection failed. Empty if it was found.
}

//Found returns a successful Selection of the atoms with indexes.
func Found(indexes []int) Selection {
	return Selection{Indexes: indexes}
}

//NotFound returns a failed Selection, with the given reason.
func NotFound(reason string) Selection {
	return Selection{Missing: reason}
}

//Found returns whether the selection succeeded.
func (S Selection) Found() bool {
	return S.Missing == "" && len(S.Indexes) > 0
}

//Reason returns why the selection failed, or an empty string if it succeeded.
func (S Selection) Reason() string {
	if S.Missing == "" && len(S.Indexes) == 0 {
		return "empty selection"
	}
	return S.Missing
}

//Len returns the number of selected atoms.
func (S Selection) Len() int {
	return len(S.Indexes)
}

//LigandSelection selects the hetero atoms in the given chain of mol.
//It fails if the chain is not in mol or contains no hetero atoms.
func LigandSelection(mol Atomer, chain string) Selection {
	inchain := 0
	sel := make([]int, 0, 50)
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		if at.Chain != chain {
			continue
		}
		inchain++
		if at.Het {
			sel = append(sel, i)
		}
	}
	if inchain == 0 {
		return NotFound(fmt.Sprintf("Wrong chain selected! Chain %q not found", chain))
	}
	if len(sel) == 0 {
		return NotFound(fmt.Sprintf("The selected chain %q does not contain heteroatoms!", chain))
	}
	return Found(sel)
}

//ResidueSelection selects the atoms of residue number resnum in the given chain of mol.
func ResidueSelection(mol Atomer, chain string, resnum int) Selection {
	sel := make([]int, 0, 20)
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		if at.Chain == chain && at.MolID == resnum {
			sel = append(sel, i)
		}
	}
	if len(sel) == 0 {
		return NotFound(fmt.Sprintf("Residue %s:%d not found", chain, resnum))
	}
	return Found(sel)
}

//ParseResidue splits a residue selector of the form "chain:resnum", such as "A:145",
//into its chain and residue number.
func ParseResidue(selector string) (string, string, error) {
	if !strings.Contains(selector, ":") {
		return "", "", newCError(fmt.Sprintf("Residue selector %q must have the form chain:resnum (i.e. A:145); the ':' separator is missing", selector), "ParseResidue")
	}
	fields := strings.Split(selector, ":")
	if len(fields) != 2 {
		return "", "", newCError(fmt.Sprintf("Residue selector %q must have the form chain:resnum (i.e. A:145); got %d parts instead of 2", selector, len(fields)), "ParseResidue")
	}
	chain, resnum := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
	if chain == "" || resnum == "" {
		return "", "", newCError(fmt.Sprintf("Residue selector %q has an empty chain or residue number", selector), "ParseResidue")
	}
	return chain, resnum, nil
}

//Hydrogens returns the number of hydrogens among the selected atoms of mol.
func Hydrogens(mol Atomer, sel Selection) int {
	n := 0
	for _, i := range sel.Indexes {
		if !mol.Atom(i).Heavy() {
			n++
		}
	}
	return n
}

//ResidueNames returns the residue names present among the selected atoms of mol, in order
//of first appearance.
func ResidueNames(mol Atomer, sel Selection) []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, 1)
	for _, i := range sel.Indexes {
		n := mol.Atom(i).Molname
		if !seen[n] {
			seen[n] = true
			ret = append(ret, n)
		}
	}
	return ret
}
