/*
 * pdb.go, part of fraggrow.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v3 "github.com/rmera/fraggrow/v3"
)

//PDB reading family

//parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates and b-factors, which are returned
//separately as a slice of 3 float64 and a float64, respectively
func readFullPDBLine(line string, contlines int) (*Atom, []float64, float64, error) {
	line = padLine(line)
	err := make([]error, 5) //accumulate errors to check at the end of the read line.
	coords := make([]float64, 3)
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.Molname = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], err[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	//occupancy, b-factor and element are optional; bad or missing values are ignored.
	atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	bfactor, _ := strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	atom.Symbol = normalizeSymbol(line[76:78])
	if atom.Symbol == "" {
		atom.Symbol = symbolFromName(atom.Name)
	}
	for i := range err {
		if err[i] != nil {
			return nil, nil, 0, newCError(fmt.Sprintf("Ill formatted ATOM/HETATM record in line %d: %s", contlines, err[i].Error()), "readFullPDBLine")
		}
	}
	return atom, coords, bfactor, nil
}

//parses a PDB line when only the coordinates and b-factors are to be read.
func readOnlyCoordsPDBLine(line string, contlines int) ([]float64, float64, error) {
	line = padLine(line)
	coords := make([]float64, 3)
	err := make([]error, 3)
	coords[0], err[0] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[1] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[2] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	bfactor, _ := strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	for i := range err {
		if err[i] != nil {
			return nil, 0, newCError(fmt.Sprintf("Ill formatted coordinates in line %d: %s", contlines, err[i].Error()), "readOnlyCoordsPDBLine")
		}
	}
	return coords, bfactor, nil
}

func padLine(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 80 {
		line = line + strings.Repeat(" ", 80-len(line))
	}
	return line
}

//PDBRead reads the atomic entries of a PDB file from pdb. Every MODEL after the first
//is read as an additional frame of coordinates, and must have the same number of atoms.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	molecule := make([]*Atom, 0)
	coords := [][]float64{make([]float64, 0)}
	bfactors := [][]float64{make([]float64, 0)}
	firstModel := true //are we reading the first model? if not we only save coordinates
	reader := bufio.NewReader(pdb)
	contlines := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, newCError(err.Error(), "PDBRead")
		}
		contlines++
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			var c []float64
			var bfac float64
			var rerr error
			if firstModel {
				var atom *Atom
				atom, c, bfac, rerr = readFullPDBLine(line, contlines)
				if rerr == nil {
					molecule = append(molecule, atom)
				}
			} else {
				c, bfac, rerr = readOnlyCoordsPDBLine(line, contlines)
			}
			if rerr != nil {
				return nil, errDecorate(rerr, "PDBRead")
			}
			last := len(coords) - 1
			coords[last] = append(coords[last], c...)
			bfactors[last] = append(bfactors[last], bfac)
		case strings.HasPrefix(line, "MODEL"):
			//a MODEL record after atoms have been read starts a new frame.
			if len(coords[len(coords)-1]) > 0 {
				firstModel = false
				coords = append(coords, make([]float64, 0))
				bfactors = append(bfactors, make([]float64, 0))
			}
		}
		if err == io.EOF {
			break
		}
	}
	//an empty trailing frame comes from a MODEL record with no atoms.
	if len(coords) > 1 && len(coords[len(coords)-1]) == 0 {
		coords = coords[:len(coords)-1]
		bfactors = bfactors[:len(bfactors)-1]
	}
	if len(molecule) == 0 {
		return nil, newCError("No ATOM or HETATM records found", "PDBRead")
	}
	mcoords := make([]*v3.Matrix, 0, len(coords))
	for i, c := range coords {
		if len(c) != 3*len(molecule) {
			return nil, newCError(fmt.Sprintf("Model %d has %d atoms, but the first one has %d", i+1, len(c)/3, len(molecule)), "PDBRead")
		}
		m, err := v3.NewMatrix(c)
		if err != nil {
			return nil, errDecorate(err, "PDBRead")
		}
		mcoords = append(mcoords, m)
	}
	return NewMolecule(molecule, mcoords, bfactors)
}

//PDBFileRead reads the PDB file pdbname. Files ending in ".gz" are decompressed
//with gzip, and files ending in ".zst" with zstd.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, newCError(err.Error(), "os.Open", "PDBFileRead")
	}
	defer pdbfile.Close()
	var reader io.Reader = pdbfile
	switch {
	case strings.HasSuffix(pdbname, ".gz"):
		gz, err := gzip.NewReader(pdbfile)
		if err != nil {
			return nil, newCError(err.Error(), "gzip.NewReader", "PDBFileRead")
		}
		defer gz.Close()
		reader = gz
	case strings.HasSuffix(pdbname, ".zst"):
		zs, err := zstd.NewReader(pdbfile)
		if err != nil {
			return nil, newCError(err.Error(), "zstd.NewReader", "PDBFileRead")
		}
		defer zs.Close()
		reader = zs
	}
	mol, err := PDBRead(reader)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	return mol, nil
}

//End PDB reading family

//PDBFileWrite writes all the frames of mol to the file pdbname, compressing it if
//the name ends in ".gz" or ".zst".
func PDBFileWrite(pdbname string, mol *Molecule) (err error) {
	out, err := os.Create(pdbname)
	if err != nil {
		return newCError(err.Error(), "os.Create", "PDBFileWrite")
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = newCError(cerr.Error(), "Close", "PDBFileWrite")
		}
	}()
	var w io.WriteCloser
	switch {
	case strings.HasSuffix(pdbname, ".gz"):
		w = gzip.NewWriter(out)
	case strings.HasSuffix(pdbname, ".zst"):
		w, err = zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return newCError(err.Error(), "zstd.NewWriter", "PDBFileWrite")
		}
	default:
		return PDBWrite(out, mol)
	}
	if err := PDBWrite(w, mol); err != nil {
		w.Close()
		return errDecorate(err, "PDBFileWrite")
	}
	if err := w.Close(); err != nil {
		return newCError(err.Error(), "Close", "PDBFileWrite")
	}
	return nil
}

//PDBWrite writes every frame of mol to out, in PDB format. If mol has more than
//one frame, each is written as a MODEL.
func PDBWrite(out io.Writer, mol *Molecule) error {
	if err := mol.Corrupted(); err != nil {
		return errDecorate(err, "PDBWrite")
	}
	w := bufio.NewWriter(out)
	fmt.Fprint(w, "REMARK     WRITTEN WITH FRAGGROW\n")
	multi := len(mol.Coords) > 1
	for j, coords := range mol.Coords {
		if multi {
			fmt.Fprintf(w, "MODEL     %4d\n", j+1)
		}
		chainprev := mol.Atoms[0].Chain //this is to know when the chain changes.
		for i, at := range mol.Atoms {
			if at.Chain != chainprev {
				fmt.Fprintln(w, "TER")
				chainprev = at.Chain
			}
			if err := writePDBLine(w, at, coords.Vec(i), mol.Bfactors[j][i]); err != nil {
				return errDecorate(err, "PDBWrite")
			}
		}
		if multi {
			fmt.Fprint(w, "ENDMDL\n")
		}
	}
	fmt.Fprint(w, "END\n")
	if err := w.Flush(); err != nil {
		return newCError(err.Error(), "Flush", "PDBWrite")
	}
	return nil
}

func writePDBLine(w io.Writer, at *Atom, c []float64, bfac float64) error {
	first := "ATOM"
	if at.Het {
		first = "HETATM"
	}
	if len(at.Name) > 4 {
		return newCError(fmt.Sprintf("Atom name %q longer than 4 characters", at.Name), "writePDBLine")
	}
	//names start at column 14 unless they use all 4 characters or the element has 2 letters.
	name := " " + at.Name
	if len(at.Name) == 4 || len(at.Symbol) == 2 {
		name = at.Name
	}
	chain := at.Chain
	if chain == "" {
		chain = " "
	}
	_, err := fmt.Fprintf(w, "%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n", first, at.ID, name, at.Molname, chain[:1],
		at.MolID, c[0], c[1], c[2], at.Occupancy, bfac, at.Symbol)
	if err != nil {
		return newCError(err.Error(), "writePDBLine")
	}
	return nil
}
