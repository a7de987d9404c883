/*
 * v3_test.go, part of fraggrow.
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

package v3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, []float64{4, 5, 6}, A.Vec(1))

	_, err = NewMatrix([]float64{1, 2})
	assert.Error(Te, err)

	view := A.VecView(1)
	view.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0))
}

func TestSomeVecs(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	B := Zeros(2)
	require.NoError(Te, B.SomeVecs(A, []int{2, 0}))
	assert.Equal(Te, []float64{7, 8, 9}, B.Vec(0))
	assert.Equal(Te, []float64{1, 2, 3}, B.Vec(1))
	assert.Error(Te, B.SomeVecs(A, []int{5, 0}))
}

func TestRotatorToAlign(Te *testing.T) {
	cases := [][2][]float64{
		{{1, 0, 0}, {0, 1, 0}},
		{{1, 2, 3}, {-3, 0.5, 2}},
		{{0, 0, 2}, {0, 0, 5}},
		{{1, 1, 0}, {-1, -1, 0}},
	}
	for _, c := range cases {
		from, _ := NewMatrix(append([]float64{}, c[0]...))
		to, _ := NewMatrix(append([]float64{}, c[1]...))
		R, err := RotatorToAlign(from, to)
		require.NoError(Te, err)
		rotated := Zeros(1)
		rotated.RotateAbout(from, R, Zeros(1))
		u1, err := rotated.Unit()
		require.NoError(Te, err)
		u2, _ := to.Unit()
		for i := 0; i < 3; i++ {
			assert.InDelta(Te, u2.At(0, i), u1.At(0, i), 1e-9)
		}
		//rotations keep lengths
		assert.InDelta(Te, from.Norm(), rotated.Norm(), 1e-9)
	}
}

func TestScaleAboutAndDistance(Te *testing.T) {
	A, _ := NewMatrix([]float64{2, 0, 0, 0, 4, 0})
	center := Zeros(1)
	F := Zeros(2)
	F.ScaleAbout(A, 0.5, center)
	assert.InDelta(Te, 1.0, F.At(0, 0), 1e-12)
	assert.InDelta(Te, 2.0, F.At(1, 1), 1e-12)
	assert.InDelta(Te, math.Sqrt(5), Distance(F, 0, F, 1), 1e-12)

	d, i, j := MinDistance(A, F)
	assert.InDelta(Te, 1.0, d, 1e-12)
	assert.Equal(Te, 0, i)
	assert.Equal(Te, 0, j)
}

func TestUnitZero(Te *testing.T) {
	_, err := Zeros(1).Unit()
	require.Error(Te, err)
	assert.True(Te, err.(Error).Critical())
}
