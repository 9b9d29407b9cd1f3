// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import (
	"bytes"
	"errors"
)

var ErrSingular = errors.New("fec: matrix is singular")

// matrix is a flat row-major byte matrix.
type matrix []byte

type pivotSearcher struct {
	k    int
	ipiv []bool
}

func newPivotSearcher(k int) *pivotSearcher {
	return &pivotSearcher{k: k, ipiv: make([]bool, k)}
}

func (p *pivotSearcher) search(col int, m matrix) (int, int, error) {
	if !p.ipiv[col] && m[col*p.k+col] != 0 {
		p.ipiv[col] = true
		return col, col, nil
	}

	for row := 0; row < p.k; row++ {
		if p.ipiv[row] {
			continue
		}
		for i := 0; i < p.k; i++ {
			if !p.ipiv[i] && m[row*p.k+i] != 0 {
				p.ipiv[i] = true
				return row, i, nil
			}
		}
	}

	return 0, 0, ErrSingular
}

// invert inverts the k*k matrix m in place using Gauss-Jordan
// elimination with full pivoting.
func (m matrix) invert(k int) error {
	pivot := newPivotSearcher(k)
	indxc := make([]int, k)
	indxr := make([]int, k)
	idRow := make([]byte, k)

	for col := 0; col < k; col++ {
		irow, icol, err := pivot.search(col, m)
		if err != nil {
			return err
		}

		// The swap moves the pivot onto the diagonal at (icol, icol);
		// the column swaps after the loop undo the reordering.
		if irow != icol {
			for i := 0; i < k; i++ {
				m[irow*k+i], m[icol*k+i] = m[icol*k+i], m[irow*k+i]
			}
		}

		indxr[col] = irow
		indxc[col] = icol
		pivotRow := m[icol*k : icol*k+k]
		c := pivotRow[icol]

		if c == 0 {
			return ErrSingular
		}

		if c != 1 {
			c = inverseTbl[c]
			pivotRow[icol] = 1
			mulC := &mulTbl[c]
			for i := 0; i < k; i++ {
				pivotRow[i] = mulC[pivotRow[i]]
			}
		}

		// Clearing the column can be skipped when the pivot row is
		// already an identity row.
		idRow[icol] = 1
		if !bytes.Equal(pivotRow, idRow) {
			p := m
			for i := 0; i < k; i++ {
				if i != icol {
					c = p[icol]
					p[icol] = 0
					addmul(p[:k], pivotRow, c)
				}
				p = p[k:]
			}
		}
		idRow[icol] = 0
	}

	for i := 0; i < k; i++ {
		if indxr[i] != indxc[i] {
			for row := 0; row < k; row++ {
				m[row*k+indxr[i]], m[row*k+indxc[i]] = m[row*k+indxc[i]], m[row*k+indxr[i]]
			}
		}
	}

	return nil
}

// createInvertedVdm fills vdm with the inverse of the k*k Vandermonde
// matrix whose evaluation points are 0, 2^1, .., 2^(k-1).
func createInvertedVdm(vdm matrix, k int) {
	if k == 1 {
		vdm[0] = 1
		return
	}

	b := make([]byte, k)
	c := make([]byte, k)

	// c accumulates the coefficients of prod_{i>=1} (x - 2^i), one
	// root at a time.
	c[k-1] = 0
	for i := 1; i < k; i++ {
		mulPI := &mulTbl[expTbl[i]]
		for j := k - 1 - (i - 1); j < k-1; j++ {
			c[j] ^= mulPI[c[j+1]]
		}
		c[k-1] ^= expTbl[i]
	}

	for row := 0; row < k; row++ {
		index := 0
		if row != 0 {
			index = int(expTbl[row])
		}
		mulPRow := &mulTbl[index]

		// Synthetic division of the product polynomial by (x - p) for
		// the row's point p leaves its Lagrange numerator in b; t is
		// the numerator's value at p, used for normalization.
		t := byte(1)
		b[k-1] = 1
		for i := k - 2; i >= 0; i-- {
			b[i] = c[i+1] ^ mulPRow[b[i+1]]
			t = b[i] ^ mulPRow[t]
		}

		mulTInv := &mulTbl[inverseTbl[t]]
		for col := 0; col < k; col++ {
			vdm[col*k+row] = mulTInv[b[col]]
		}
	}
}
