/*
 * select.go, part of fraggrow.
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

package report

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rmera/fraggrow/chem"
)

//DefaultFrameColumn is the report column holding the trajectory model of each row.
const DefaultFrameColumn = "#Accepted Pele Steps"

//Direction tells whether the best row has the lowest or the highest criterion value.
type Direction int

const (
	Min Direction = iota
	Max
)

func (D Direction) String() string {
	if D == Max {
		return "max"
	}
	return "min"
}

//ParseDirection returns the Direction for "min" or "max" (also "minimize" and "maximize").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "min", "minimize", "minimum":
		return Min, nil
	case "max", "maximize", "maximum":
		return Max, nil
	}
	return Min, fmt.Errorf("unknown selection direction %q, use min or max", s)
}

//Selector picks the best row among reports.
type Selector struct {
	Criterion string
	Direction Direction
	//FrameColumn gives the 0-based trajectory model of each row. If a report
	//lacks it, the position of the row in the report is used.
	FrameColumn string
}

//Best is the row chosen by a Selector.
type Best struct {
	Report     string
	Trajectory string
	Row        int //position in the report
	Frame      int //model in the trajectory, starting from 0
	Value      float64
}

//Select returns the best row of all the reports. Ties go to the first one, in report
//and row order, so the same reports always give the same selection.
func (S Selector) Select(reports []*Report) (Best, error) {
	if len(reports) == 0 {
		return Best{}, fmt.Errorf("%w: nothing to select from", ErrNoReport)
	}
	type origin struct{ rep, row int }
	values := make([]float64, 0, 100)
	origins := make([]origin, 0, 100)
	for i, R := range reports {
		v, err := R.Values(S.Criterion)
		if err != nil {
			return Best{}, err
		}
		for j, val := range v {
			if math.IsNaN(val) {
				continue
			}
			values = append(values, val)
			origins = append(origins, origin{i, j})
		}
	}
	if len(values) == 0 {
		return Best{}, fmt.Errorf("%w: the reports have no rows", ErrNoReport)
	}
	var best int
	if S.Direction == Max {
		best = floats.MaxIdx(values)
	} else {
		best = floats.MinIdx(values)
	}
	o := origins[best]
	R := reports[o.rep]
	frame := o.row
	if S.FrameColumn != "" {
		if c, err := R.Column(S.FrameColumn); err == nil {
			frame = int(R.Rows[o.row][c])
		}
	}
	return Best{Report: R.Path, Trajectory: R.Trajectory, Row: o.row, Frame: frame, Value: values[best]}, nil
}

//Extract reads the trajectory of b and returns the frame it points to.
func (b Best) Extract() (*chem.Molecule, error) {
	traj, err := chem.PDBFileRead(b.Trajectory)
	if err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}
	if b.Frame < 0 || b.Frame >= traj.LenFrames() {
		return nil, fmt.Errorf("frame %d of %s requested, but it has %d", b.Frame, b.Trajectory, traj.LenFrames())
	}
	return traj.Frame(b.Frame)
}

//SelectDir selects the best row among the reports in dir, as ReadDir pairs them with their
//trajectories, and writes its structure to out, overwriting it.
func (S Selector) SelectDir(dir, prefix, trajPrefix, out string) (Best, []*Report, error) {
	reports, err := ReadDir(dir, prefix, trajPrefix)
	if err != nil {
		return Best{}, nil, err
	}
	b, err := S.Select(reports)
	if err != nil {
		return Best{}, reports, err
	}
	mol, err := b.Extract()
	if err != nil {
		return b, reports, err
	}
	if err := chem.PDBFileWrite(out, mol); err != nil {
		return b, reports, fmt.Errorf("writing selected structure: %w", err)
	}
	return b, reports, nil
}

//Summary holds statistics of one report column.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

//Summarize returns statistics for the column name over all the rows of the reports.
func Summarize(reports []*Report, name string) (Summary, error) {
	all := make([]float64, 0, 100)
	for _, R := range reports {
		v, err := R.Values(name)
		if err != nil {
			return Summary{}, err
		}
		all = append(all, v...)
	}
	if len(all) == 0 {
		return Summary{}, fmt.Errorf("%w: no rows to summarize", ErrNoReport)
	}
	S := Summary{N: len(all), Min: floats.Min(all), Max: floats.Max(all)}
	S.Mean, S.Std = stat.MeanStdDev(all, nil)
	if len(all) == 1 {
		S.Std = 0
	}
	return S, nil
}
