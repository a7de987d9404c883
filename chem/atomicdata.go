/*
 * atomicdata.go, part of fraggrow.
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

import "strings"

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.31,
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Fe": 1.52, //hs
	"Si": 1.11,
	"B":  0.84,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//Two-letter elements that can be confused with a one-letter element followed
//by something else in a PDB atom name.
var twoLetter = map[string]bool{
	"CL": true,
	"BR": true,
	"NA": true,
	"MG": true,
	"ZN": true,
	"FE": true,
	"CU": true,
	"CA": false, //usually an alpha carbon, not calcium.
	"SE": true,
	"SI": true,
}

//CovalentRadius returns the covalent radius, in A, for the element symbol, and
//whether the symbol is known.
func CovalentRadius(symbol string) (float64, bool) {
	r, ok := symbolCovrad[symbol]
	return r, ok
}

//BondLength returns the ideal single-bond length between two elements,
//estimated as the sum of their covalent radii.
func BondLength(symbol1, symbol2 string) (float64, error) {
	r1, ok1 := symbolCovrad[symbol1]
	r2, ok2 := symbolCovrad[symbol2]
	if !ok1 || !ok2 {
		return 0, newCError("Couldn't find the covalent radii for "+symbol1+"-"+symbol2, "BondLength")
	}
	return r1 + r2, nil
}

//symbolFromName tries to guess a chemical element symbol from a PDB atom name.
//It only deals with common bio-elements and returns an empty string if it can't guess.
func symbolFromName(name string) string {
	name = strings.TrimLeft(strings.ToUpper(strings.TrimSpace(name)), "0123456789")
	if name == "" {
		return ""
	}
	if len(name) >= 2 && twoLetter[name[:2]] {
		return name[:1] + strings.ToLower(name[1:2])
	}
	s := name[:1]
	if s == "D" {
		return "H"
	}
	if _, ok := symbolCovrad[s]; ok {
		return s
	}
	return ""
}

//normalizeSymbol takes an element symbol as written in the columns 77-78 of
//a PDB file and returns it with the usual capitalization.
func normalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return s
	}
	if len(s) == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
