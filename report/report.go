/*
 * report.go, part of fraggrow.
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

//Package report reads the report files PELE writes, selects the best structure of a
//simulation by one of the report columns, and extracts it from the trajectory.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	//ErrNoColumn is returned, wrapped, when a report lacks a requested column.
	ErrNoColumn = errors.New("report: column not found")
	//ErrNoReport is returned, wrapped, when there are no reports to select from.
	ErrNoReport = errors.New("report: no report found")
	//ErrFormat is returned, wrapped, when a report can't be parsed.
	ErrFormat = errors.New("report: ill formatted report")
)

//Report is a table from a PELE report file. Every row is one accepted step.
type Report struct {
	Path       string
	Trajectory string //the trajectory file that goes with the report
	Columns    []string
	Rows       [][]float64
}

var wideSpace = regexp.MustCompile(`\s{2,}`)

//headerColumns splits a report header. PELE column names can contain single spaces
//("Binding Energy"), so runs of 2 or more spaces separate columns whenever that gives as
//many columns as the data have fields. Otherwise, any whitespace separates them.
func headerColumns(header string, nfields int) []string {
	header = strings.TrimSpace(header)
	wide := wideSpace.Split(header, -1)
	if nfields < 0 || len(wide) == nfields {
		return wide
	}
	return strings.Fields(header)
}

//Read parses a report table from r. The first non-empty line is the header.
func Read(r io.Reader) (*Report, error) {
	R := new(Report)
	scanner := bufio.NewScanner(r)
	var header string
	nline := 0
	for scanner.Scan() {
		nline++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if header == "" {
			header = line
			continue
		}
		fields := strings.Fields(line)
		if R.Columns == nil {
			R.Columns = headerColumns(header, len(fields))
		}
		if len(fields) != len(R.Columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, the header %d columns", ErrFormat, nline, len(fields), len(R.Columns))
		}
		row := make([]float64, len(fields))
		for i, v := range fields {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s", ErrFormat, nline, err.Error())
			}
			row[i] = f
		}
		R.Rows = append(R.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	if header == "" {
		return nil, fmt.Errorf("%w: empty report", ErrFormat)
	}
	if R.Columns == nil {
		R.Columns = headerColumns(header, -1)
	}
	return R, nil
}

//ReadFile parses the report in the file name.
func ReadFile(name string) (*Report, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()
	R, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	R.Path = name
	return R, nil
}

//Column returns the position of the column name in R.
func (R *Report) Column(name string) (int, error) {
	for i, v := range R.Columns {
		if v == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q not in %s (columns: %s)", ErrNoColumn, name, R.Path, strings.Join(R.Columns, ", "))
}

//Values returns the values of the column name.
func (R *Report) Values(name string) ([]float64, error) {
	c, err := R.Column(name)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, len(R.Rows))
	for i, row := range R.Rows {
		ret[i] = row[c]
	}
	return ret, nil
}

//reportLess orders report names by their numeric suffix, so report_2 goes before report_10.
//Names without a numeric suffix go last, in string order.
func reportLess(a, b, prefix string) bool {
	na, erra := strconv.Atoi(strings.TrimPrefix(filepath.Base(a), prefix))
	nb, errb := strconv.Atoi(strings.TrimPrefix(filepath.Base(b), prefix))
	switch {
	case erra == nil && errb == nil:
		return na < nb
	case erra == nil:
		return true
	case errb == nil:
		return false
	}
	return a < b
}

//ReadDir reads every report in dir whose name starts with prefix, in the order of their
//numeric suffixes. Each is
//paired with the trajectory named trajPrefix followed by the same suffix as the report,
//and ".pdb". That is, report_3 goes with trajectory_3.pdb.
func ReadDir(dir, prefix, trajPrefix string) ([]*Report, error) {
	names, err := filepath.Glob(filepath.Join(dir, prefix+"*"))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	sort.Slice(names, func(i, j int) bool { return reportLess(names[i], names[j], prefix) })
	ret := make([]*Report, 0, len(names))
	for _, name := range names {
		if info, err := os.Stat(name); err != nil || info.IsDir() {
			continue
		}
		R, err := ReadFile(name)
		if err != nil {
			return nil, err
		}
		suffix := strings.TrimPrefix(filepath.Base(name), prefix)
		R.Trajectory = filepath.Join(dir, trajPrefix+suffix+".pdb")
		ret = append(ret, R)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: no %s* files in %s", ErrNoReport, prefix, dir)
	}
	return ret, nil
}
