// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import (
	"math/rand"
	"testing"
)

func flatMatMul(a, b matrix, k int) matrix {
	out := make(matrix, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var acc byte
			for l := 0; l < k; l++ {
				acc ^= mulTbl[a[i*k+l]][b[l*k+j]]
			}
			out[i*k+j] = acc
		}
	}
	return out
}

func isFlatIdentity(m matrix, k int) bool {
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			exp := byte(0)
			if i == j {
				exp = 1
			}
			if m[i*k+j] != exp {
				return false
			}
		}
	}
	return true
}

func TestMatrixInvert(t *testing.T) {
	m := matrix{
		56, 23, 98,
		3, 100, 200,
		45, 201, 123,
	}
	exp := matrix{
		175, 133, 33,
		130, 13, 245,
		112, 35, 126,
	}
	if err := m.invert(3); err != nil {
		t.Fatal(err)
	}
	for i := range m {
		if m[i] != exp[i] {
			t.Fatalf("inverse mismatch at %d: %d != %d", i, m[i], exp[i])
		}
	}
}

func TestMatrixInvertZeroPivot(t *testing.T) {
	m := matrix{
		0, 23, 98,
		3, 100, 200,
		45, 201, 123,
	}
	orig := make(matrix, len(m))
	copy(orig, m)

	if err := m.invert(3); err != nil {
		t.Fatal(err)
	}
	if !isFlatIdentity(flatMatMul(orig, m, 3), 3) {
		t.Fatal("m * m^-1 != I")
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	m := matrix{
		4, 2,
		12, 6,
	}
	if err := m.invert(2); err != ErrSingular {
		t.Fatalf("expected ErrSingular, got %v", err)
	}
}

func TestMatrixInvertRandom(t *testing.T) {
	for i := 0; i < 100; i++ {
		k := rand.Intn(20) + 1
		m := make(matrix, k*k)
		fillRandom(m)
		orig := make(matrix, len(m))
		copy(orig, m)

		err := m.invert(k)
		if err == ErrSingular {
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if !isFlatIdentity(flatMatMul(orig, m, k), k) {
			t.Fatalf("m * m^-1 != I, k %d", k)
		}
	}
}

// The inverted Vandermonde times the Vandermonde on the points
// 0, 2^1, .., 2^(k-1) must give the identity.
func TestCreateInvertedVdm(t *testing.T) {
	for _, k := range []int{1, 2, 3, 5, 16, 64, 255} {
		inv := make(matrix, k*k)
		createInvertedVdm(inv, k)

		vdm := make(matrix, k*k)
		for i := 0; i < k; i++ {
			pt := gfVal(0)
			if i != 0 {
				pt = gfVal(expTbl[i%255])
			}
			for j := 0; j < k; j++ {
				vdm[i*k+j] = byte(pt.pow(j))
			}
		}

		if !isFlatIdentity(flatMatMul(vdm, inv, k), k) {
			t.Fatalf("vdm * inv != I, k %d", k)
		}
	}
}
