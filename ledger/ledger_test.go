/*
 * ledger_test.go, part of fraggrow.
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

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/fraggrow/growing"
	"github.com/rmera/fraggrow/report"
)

func iteration(i int, value float64) *growing.Iteration {
	return &growing.Iteration{
		Index:    i,
		Template: "grwz_" + string(rune('0'+i)),
		Input:    "in.pdb",
		Results:  "res",
		Control:  "ctl",
		Best:     report.Best{Report: "report_1", Frame: i + 1, Value: value},
		Summary:  report.Summary{N: 5, Mean: value / 2, Std: 0.5},
		Elapsed:  1500 * time.Millisecond,
	}
}

func TestLedger(Te *testing.T) {
	ctx := context.Background()
	path := filepath.Join(Te.TempDir(), "db", "ledger.db")
	L, err := Open(path)
	require.NoError(Te, err)
	defer L.Close()
	assert.Equal(Te, path, L.Path())

	rc, err := growing.NewRunContext(Te.TempDir(), nil)
	require.NoError(Te, err)
	first := iteration(0, -10)
	second := iteration(1, -12)
	second.Contact, second.HasContact = 3.5, true
	require.NoError(Te, L.Observe(ctx, rc, first))
	require.NoError(Te, L.Observe(ctx, rc, second))

	R, err := L.Run(ctx, rc.ID)
	require.NoError(Te, err)
	assert.Equal(Te, "ITERATING", R.State)
	assert.Equal(Te, 2, R.Iterations)
	assert.True(Te, R.Finished.IsZero())
	assert.WithinDuration(Te, rc.Start, R.Started, time.Millisecond)

	require.NoError(Te, L.Finish(ctx, rc, growing.Done, []*growing.Iteration{first, second}))
	R, err = L.Run(ctx, rc.ID)
	require.NoError(Te, err)
	assert.Equal(Te, "DONE", R.State)
	assert.False(Te, R.Finished.IsZero())

	its, err := L.Iterations(ctx, rc.ID)
	require.NoError(Te, err)
	require.Len(Te, its, 2)
	assert.Equal(Te, 0, its[0].Index)
	assert.Equal(Te, "grwz_0", its[0].Template)
	assert.Equal(Te, -12.0, its[1].Value)
	assert.Equal(Te, 2, its[1].Frame)
	assert.Equal(Te, 5, its[1].Steps)
	assert.False(Te, its[0].Contact.Valid)
	assert.True(Te, its[1].Contact.Valid)
	assert.Equal(Te, 3.5, its[1].Contact.Float64)
	assert.Equal(Te, 1500*time.Millisecond, its[1].Elapsed)
}

func TestLedgerFailedEarly(Te *testing.T) {
	ctx := context.Background()
	L, err := Open(filepath.Join(Te.TempDir(), "ledger.db"))
	require.NoError(Te, err)
	defer L.Close()
	rc, err := growing.NewRunContext(Te.TempDir(), nil)
	require.NoError(Te, err)
	require.NoError(Te, L.Finish(ctx, rc, growing.Failed, nil))
	R, err := L.Run(ctx, rc.ID)
	require.NoError(Te, err)
	assert.Equal(Te, "FAILED", R.State)
	assert.Equal(Te, 0, R.Iterations)

	runs, err := L.Runs(ctx)
	require.NoError(Te, err)
	assert.Len(Te, runs, 1)

	_, err = L.Run(ctx, "nope")
	assert.ErrorIs(Te, err, ErrNoRun)
}
