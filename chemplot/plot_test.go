/*
 * plot_test.go, part of fraggrow.
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

package chemplot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/fraggrow/growing"
	"github.com/rmera/fraggrow/report"
)

func TestCriterionPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "criterion.png")
	best := []float64{-10, -12.5, -13, -15.2}
	mean := []float64{-8, -9, -11, -12}
	std := []float64{1, 1.5, 0.7, 2}
	require.NoError(Te, CriterionPlot(best, mean, std, "Binding Energy", "Test growing", name))
	info, err := os.Stat(name)
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))

	svg := filepath.Join(Te.TempDir(), "criterion.svg")
	require.NoError(Te, CriterionPlot(best, mean, nil, "Binding Energy", "No error bars", svg))
	assert.FileExists(Te, svg)

	assert.Error(Te, CriterionPlot(nil, nil, nil, "x", "empty", name))
	assert.Error(Te, CriterionPlot(best, mean[:2], nil, "x", "mismatched", name))
}

func TestPlotter(Te *testing.T) {
	rc, err := growing.NewRunContext(Te.TempDir(), nil)
	require.NoError(Te, err)
	P := &Plotter{Path: "growing.png", Criterion: "Binding Energy"}
	require.NoError(Te, P.Finish(context.Background(), rc, growing.Failed, nil))
	assert.NoFileExists(Te, rc.Path("growing.png"))
	its := []*growing.Iteration{
		{Index: 0, Best: report.Best{Value: -3}, Summary: report.Summary{Mean: -2, Std: 0.5}},
		{Index: 1, Best: report.Best{Value: -4}, Summary: report.Summary{Mean: -2.5, Std: 0.4}},
	}
	require.NoError(Te, P.Observe(context.Background(), rc, its[0]))
	require.NoError(Te, P.Finish(context.Background(), rc, growing.Done, its))
	assert.FileExists(Te, rc.Path("growing.png"))
}
