/*
 * matrix.go, part of fraggrow.
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

//Package v3 implements a matrix of 3D vectors (i.e. cartesian coordinates)
//on top of gonum's mat.Dense. Each row of a Matrix is one point in space.
package v3

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space. Within the package, a "vector"
//is a row, i.e. the cartesian coordinates of one point.
type Matrix struct {
	*mat.Dense
}

//Dense2Matrix wraps a gonum Dense with 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	return &Matrix{A}
}

//NewMatrix returns a Matrix built on top of data, which must have a length divisible by 3.
//The slice is not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l == 0 || l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(PanicMsg(not3xXMatrix))
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the view
//are reflected in F.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Vec returns a copy of the ith vector of F as a slice.
func (F *Matrix) Vec(i int) []float64 {
	return mat.Row(nil, i, F.Dense)
}

//SetVec sets the ith vector of F to the first 3 values in v.
func (F *Matrix) SetVec(i int, v []float64) {
	if len(v) < 3 {
		panic(PanicMsg(fmt.Sprintf("goChem/v3: SetVec needs 3 values, got %d", len(v))))
	}
	F.SetRow(i, v[:3])
}

//Copy returns a deep copy of F.
func (F *Matrix) Copy() *Matrix {
	ret := Zeros(F.NVecs())
	ret.Dense.Copy(F.Dense)
	return ret
}

//SomeVecs puts in F the vectors of A with indexes in clist, in that order.
//F must have exactly len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) error {
	if F.NVecs() != len(clist) {
		return Error{fmt.Sprintf("Receiver has %d vectors, %d requested", F.NVecs(), len(clist)), []string{"SomeVecs"}, true}
	}
	an := A.NVecs()
	for key, val := range clist {
		if val < 0 || val >= an {
			return Error{fmt.Sprintf("Requested vector %d out of range (%d)", val, an), []string{"SomeVecs"}, true}
		}
		F.SetRow(key, A.Vec(val))
	}
	return nil
}

//Stack returns a new matrix with the vectors of A followed by those of B.
func Stack(A, B *Matrix) *Matrix {
	an, bn := A.NVecs(), B.NVecs()
	F := Zeros(an + bn)
	for i := 0; i < an; i++ {
		F.SetRow(i, A.Vec(i))
	}
	for i := 0; i < bn; i++ {
		F.SetRow(an+i, B.Vec(i))
	}
	return F
}

//AddVec adds the 1x3 vector vec to each vector of A and puts the result in F.
func (F *Matrix) AddVec(A, vec *Matrix) {
	if vec.NVecs() != 1 || A.NVecs() != F.NVecs() {
		panic(PanicMsg(ErrShape))
	}
	v := vec.Vec(0)
	for i := 0; i < A.NVecs(); i++ {
		r := A.Vec(i)
		floats.Add(r, v)
		F.SetRow(i, r)
	}
}

//SubVec subtracts the 1x3 vector vec from each vector of A and puts the result in F.
func (F *Matrix) SubVec(A, vec *Matrix) {
	if vec.NVecs() != 1 || A.NVecs() != F.NVecs() {
		panic(PanicMsg(ErrShape))
	}
	v := vec.Vec(0)
	for i := 0; i < A.NVecs(); i++ {
		r := A.Vec(i)
		floats.Sub(r, v)
		F.SetRow(i, r)
	}
}

//Add puts A+B in F.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Sub puts A-B in F.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Scale puts A*factor in F.
func (F *Matrix) Scale(factor float64, A *Matrix) {
	F.Dense.Scale(factor, A.Dense)
}

//Norm returns the euclidean norm of a 1x3 vector.
func (F *Matrix) Norm() float64 {
	if F.NVecs() != 1 {
		panic(PanicMsg(ErrShape))
	}
	return floats.Norm(F.Vec(0), 2)
}

//Unit returns a unit vector with the direction of the 1x3 vector F.
func (F *Matrix) Unit() (*Matrix, error) {
	n := F.Norm()
	if n <= appzero {
		return nil, Error{"Can't normalize a zero-length vector", []string{"Unit"}, true}
	}
	ret := F.Copy()
	ret.Scale(1/n, ret)
	return ret, nil
}

func (F *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(F.Dense, mat.Squeeze()))
}
