/*
 * logging_test.go, part of fraggrow.
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

package logging

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCritical(Te *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	L := NewFromCore(core).Named("frag").With(String("chain", "L"))
	L.Critical("The selected chain does not contain heteroatoms!", Int("atoms", 4))
	L.Info("ok", Float64("energy", -9.8), Bool("strict", false), Err(errors.New("boom")))

	entries := logs.All()
	require.Len(Te, entries, 2)
	assert.Equal(Te, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(Te, "frag", entries[0].LoggerName)
	ctx := entries[0].ContextMap()
	assert.Equal(Te, true, ctx["critical"])
	assert.Equal(Te, "L", ctx["chain"])
	assert.Equal(Te, int64(4), ctx["atoms"])
	assert.Equal(Te, "boom", entries[1].ContextMap()["error"])
	assert.Equal(Te, 1, logs.FilterField(zap.Bool("critical", true)).Len())
}

func TestNew(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "run.log")
	L, err := New(Config{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(Te, err)
	L.Debug("hello")
	require.NoError(Te, L.Sync())
	assert.FileExists(Te, path)

	_, err = New(Config{Level: "loud"})
	assert.Error(Te, err)
	_, err = New(Config{Format: "xml"})
	assert.Error(Te, err)
}

func TestNop(Te *testing.T) {
	L := NewNop().With(String("a", "b")).Named("x")
	L.Critical("nothing")
	assert.NoError(Te, L.Sync())
}
