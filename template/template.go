/*
 * template.go, part of fraggrow.
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

//Package template reads and writes IMPACT ligand templates, as produced by PlopRotTemp
//and used by PELE, and builds the intermediate templates of a growing run.
package template

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//ErrFormat is returned, wrapped, when a template file can't be parsed.
var ErrFormat = errors.New("template: ill formatted IMPACT template")

//Atom is one atom record of an IMPACT template, with its non-bonded parameters.
type Atom struct {
	Index  int
	Parent int
	Mobile string //M for the core of the ligand, S for side chains
	Type   string
	Name   string //as in the file, with underscores as padding.
	//Internal coordinates: the distance to the parent, and angle and dihedral.
	Dist, Angle, Dihedral float64
	NBON                  NBON
}

//NBON holds the non-bonded parameters of an atom.
type NBON struct {
	Sigma   float64
	Epsilon float64
	Charge  float64
	SGBRad  float64
	VdWRad  float64
	Gamma   float64
	Alpha   float64
}

//Channels returns the parameters as a slice, in the order they appear in the file.
func (N NBON) Channels() []float64 {
	return []float64{N.Sigma, N.Epsilon, N.Charge, N.SGBRad, N.VdWRad, N.Gamma, N.Alpha}
}

func nbonFromChannels(c []float64) NBON {
	return NBON{Sigma: c[0], Epsilon: c[1], Charge: c[2], SGBRad: c[3], VdWRad: c[4], Gamma: c[5], Alpha: c[6]}
}

//Bond is a BOND record of an IMPACT template. I and J are 1-based atom indexes.
type Bond struct {
	I, J   int
	Spring float64
	Length float64
}

//Template is an IMPACT ligand template.
type Template struct {
	Header  []string //comment lines, starting with '*'
	Resname string
	//the numbers after the residue name, other than the atom and bond counts, are kept as read.
	ResExtra []int
	Atoms    []*Atom
	Bonds    []*Bond
	//THET, PHI and IPHI sections, kept verbatim, including the section keyword lines.
	Tail []string
}

//CleanName returns an IMPACT atom name without the underscores used as padding.
func CleanName(name string) string {
	return strings.Trim(name, "_ ")
}

//Atom returns the atom with the given name, with or without padding, or nil if there is none.
func (T *Template) Atom(name string) *Atom {
	name = CleanName(name)
	for _, v := range T.Atoms {
		if CleanName(v.Name) == name {
			return v
		}
	}
	return nil
}

//AtomByIndex returns the atom with the 1-based index i, or nil if there is none.
func (T *Template) AtomByIndex(i int) *Atom {
	for _, v := range T.Atoms {
		if v.Index == i {
			return v
		}
	}
	return nil
}

//Bond returns the bond between the atoms named a and b, in any order, or nil.
func (T *Template) Bond(a, b string) *Bond {
	at1, at2 := T.Atom(a), T.Atom(b)
	if at1 == nil || at2 == nil {
		return nil
	}
	for _, v := range T.Bonds {
		if (v.I == at1.Index && v.J == at2.Index) || (v.I == at2.Index && v.J == at1.Index) {
			return v
		}
	}
	return nil
}

//Names returns the clean names of all the atoms in the template.
func (T *Template) Names() []string {
	ret := make([]string, 0, len(T.Atoms))
	for _, v := range T.Atoms {
		ret = append(ret, CleanName(v.Name))
	}
	return ret
}

//Copy returns a deep copy of T.
func (T *Template) Copy() *Template {
	ret := &Template{
		Header:   append([]string(nil), T.Header...),
		Resname:  T.Resname,
		ResExtra: append([]int(nil), T.ResExtra...),
		Tail:     append([]string(nil), T.Tail...),
	}
	for _, v := range T.Atoms {
		a := *v
		ret.Atoms = append(ret.Atoms, &a)
	}
	for _, v := range T.Bonds {
		b := *v
		ret.Bonds = append(ret.Bonds, &b)
	}
	return ret
}

func formatErr(line int, format string, a ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, line, fmt.Sprintf(format, a...))
}

func parseFloats(fields []string) ([]float64, error) {
	ret := make([]float64, len(fields))
	var err error
	for i, v := range fields {
		ret[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

//Read parses an IMPACT template from r.
func Read(r io.Reader) (*Template, error) {
	T := new(Template)
	scanner := bufio.NewScanner(r)
	section := "header"
	natoms := -1
	nline := 0
	for scanner.Scan() {
		nline++
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Fields(line)
		if section == "tail" {
			T.Tail = append(T.Tail, line)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "NBON", "BOND":
			section = fields[0]
			continue
		case "THET", "PHI", "IPHI", "END":
			section = "tail"
			T.Tail = append(T.Tail, line)
			continue
		}
		switch section {
		case "header":
			if strings.HasPrefix(line, "*") {
				T.Header = append(T.Header, line)
				continue
			}
			if len(fields) < 3 {
				return nil, formatErr(nline, "residue line needs a name and the atom and bond counts")
			}
			T.Resname = fields[0]
			var err error
			natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, formatErr(nline, "bad atom count %q", fields[1])
			}
			for _, v := range fields[3:] {
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, formatErr(nline, "bad count %q", v)
				}
				T.ResExtra = append(T.ResExtra, n)
			}
			section = "atoms"
		case "atoms":
			if len(fields) < 8 {
				return nil, formatErr(nline, "atom record needs 8 fields, got %d", len(fields))
			}
			idx, err1 := strconv.Atoi(fields[0])
			parent, err2 := strconv.Atoi(fields[1])
			ic, err3 := parseFloats(fields[5:8])
			if err := errors.Join(err1, err2, err3); err != nil {
				return nil, formatErr(nline, "%s", err.Error())
			}
			T.Atoms = append(T.Atoms, &Atom{Index: idx, Parent: parent, Mobile: fields[2], Type: fields[3], Name: fields[4], Dist: ic[0], Angle: ic[1], Dihedral: ic[2]})
		case "NBON":
			if len(fields) < 8 {
				return nil, formatErr(nline, "NBON record needs 8 fields, got %d", len(fields))
			}
			idx, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, formatErr(nline, "bad atom index %q", fields[0])
			}
			c, err := parseFloats(fields[1:8])
			if err != nil {
				return nil, formatErr(nline, "%s", err.Error())
			}
			at := T.AtomByIndex(idx)
			if at == nil {
				return nil, formatErr(nline, "NBON record for unknown atom %d", idx)
			}
			at.NBON = nbonFromChannels(c)
		case "BOND":
			if len(fields) < 4 {
				return nil, formatErr(nline, "BOND record needs 4 fields, got %d", len(fields))
			}
			i, err1 := strconv.Atoi(fields[0])
			j, err2 := strconv.Atoi(fields[1])
			c, err3 := parseFloats(fields[2:4])
			if err := errors.Join(err1, err2, err3); err != nil {
				return nil, formatErr(nline, "%s", err.Error())
			}
			T.Bonds = append(T.Bonds, &Bond{I: i, J: j, Spring: c[0], Length: c[1]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	if T.Resname == "" {
		return nil, formatErr(nline, "no residue line found")
	}
	if natoms != len(T.Atoms) {
		return nil, formatErr(nline, "residue line announces %d atoms, %d found", natoms, len(T.Atoms))
	}
	return T, nil
}

//ReadFile parses the IMPACT template in the file name.
func ReadFile(name string) (*Template, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()
	T, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return T, nil
}

//Write writes T to w in IMPACT format.
func (T *Template) Write(w io.Writer) error {
	out := bufio.NewWriter(w)
	for _, v := range T.Header {
		fmt.Fprintln(out, v)
	}
	fmt.Fprintf(out, "%-5s%6d%6d", T.Resname, len(T.Atoms), len(T.Bonds))
	for _, v := range T.ResExtra {
		fmt.Fprintf(out, "%6d", v)
	}
	fmt.Fprintln(out)
	for _, a := range T.Atoms {
		fmt.Fprintf(out, "%5d%6d %1s  %-5s%-6s%12.5f%12.5f%12.5f\n", a.Index, a.Parent, a.Mobile, a.Type, a.Name, a.Dist, a.Angle, a.Dihedral)
	}
	fmt.Fprintln(out, "NBON")
	for _, a := range T.Atoms {
		n := a.NBON
		fmt.Fprintf(out, "%5d%9.4f%9.4f%11.6f%9.4f%9.4f%13.9f%13.9f\n", a.Index, n.Sigma, n.Epsilon, n.Charge, n.SGBRad, n.VdWRad, n.Gamma, n.Alpha)
	}
	fmt.Fprintln(out, "BOND")
	for _, b := range T.Bonds {
		fmt.Fprintf(out, "%5d%6d%10.3f%8.4f\n", b.I, b.J, b.Spring, b.Length)
	}
	for _, v := range T.Tail {
		fmt.Fprintln(out, v)
	}
	return out.Flush()
}

//WriteFile writes T to the file name.
func (T *Template) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	if err := T.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing template %s: %w", name, err)
	}
	return f.Close()
}
