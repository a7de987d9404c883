/*
 * geometry.go, part of fraggrow.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Distance returns the euclidean distance between the vector i of A and the vector j of B.
func Distance(A *Matrix, i int, B *Matrix, j int) float64 {
	return floats.Distance(A.Vec(i), B.Vec(j), 2)
}

//MinDistance returns the shortest distance between any vector of A and any vector of B,
//with the indexes of the closest pair.
func MinDistance(A, B *Matrix) (float64, int, int) {
	min := math.Inf(1)
	var mi, mj int
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < B.NVecs(); j++ {
			if d := Distance(A, i, B, j); d < min {
				min, mi, mj = d, i, j
			}
		}
	}
	return min, mi, mj
}

//RotatorToAlign returns the 3x3 rotation matrix that takes the direction of the 1x3 vector
//from onto the direction of the 1x3 vector to (Rodrigues' formula). The rotation is meant
//to be applied to row vectors as v*R.
func RotatorToAlign(from, to *Matrix) (*mat.Dense, error) {
	a, err := from.Unit()
	if err != nil {
		return nil, errDecorate(err, "RotatorToAlign")
	}
	b, err := to.Unit()
	if err != nil {
		return nil, errDecorate(err, "RotatorToAlign")
	}
	av, bv := a.Vec(0), b.Vec(0)
	c := floats.Dot(av, bv)
	k := cross(av, bv)
	s := floats.Norm(k, 2)
	R := mat.NewDense(3, 3, nil)
	switch {
	case s <= appzero && c > 0: //already aligned
		for i := 0; i < 3; i++ {
			R.Set(i, i, 1)
		}
		return R, nil
	case s <= appzero: //antiparallel, rotate pi around any perpendicular axis
		p := perpendicular(av)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				v := 2 * p[i] * p[j]
				if i == j {
					v--
				}
				R.Set(i, j, v)
			}
		}
		return R, nil
	}
	floats.Scale(1/s, k)
	//column-vector rotation matrix, transposed at the end for row vectors.
	K := mat.NewDense(3, 3, []float64{
		0, -k[2], k[1],
		k[2], 0, -k[0],
		-k[1], k[0], 0,
	})
	K2 := mat.NewDense(3, 3, nil)
	K2.Mul(K, K)
	for i := 0; i < 3; i++ {
		R.Set(i, i, 1)
	}
	K.Scale(s, K)
	K2.Scale(1-c, K2)
	R.Add(R, K)
	R.Add(R, K2)
	return mat.DenseCopyOf(R.T()), nil
}

//RotateAbout rotates the vectors of A with the row-vector rotation matrix R around the
//1x3 point center, and puts the result in F.
func (F *Matrix) RotateAbout(A *Matrix, R mat.Matrix, center *Matrix) {
	tmp := Zeros(A.NVecs())
	tmp.SubVec(A, center)
	rot := Zeros(A.NVecs())
	rot.Mul(tmp.Dense, R)
	F.AddVec(rot, center)
}

//ScaleAbout scales the distance between each vector of A and the 1x3 point center by factor,
//and puts the result in F.
func (F *Matrix) ScaleAbout(A *Matrix, factor float64, center *Matrix) {
	tmp := Zeros(A.NVecs())
	tmp.SubVec(A, center)
	tmp.Scale(factor, tmp)
	F.AddVec(tmp, center)
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

//perpendicular returns a unit vector perpendicular to the unit vector a.
func perpendicular(a []float64) []float64 {
	ref := []float64{1, 0, 0}
	if math.Abs(a[0]) > 0.9 {
		ref = []float64{0, 1, 0}
	}
	p := cross(a, ref)
	floats.Scale(1/floats.Norm(p, 2), p)
	return p
}
