// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

// Correct detects and repairs corruption in the given shares using the
// Berlekamp-Welch algorithm. It needs at least k shares and can repair
// up to (len(shares)-k)/2 bad shares per byte column. Shares are
// re-sorted by number and their data mutated in place; after an error
// return the shares may be partially corrected and must be treated as
// invalid.
func (f *FEC) Correct(shares []Share) error {
	if len(shares) < f.k {
		return ErrTooFewShares
	}
	if err := checkShareSizes(shares); err != nil {
		return err
	}
	sortByNumber(shares)

	// Fast path: multiply the shares through the syndrome matrix. Any
	// non-zero output byte pinpoints a column that needs the full
	// Berlekamp-Welch solve.
	synd, err := f.syndromeMatrix(shares)
	if err != nil {
		return err
	}
	buf := make([]byte, len(shares[0].Data))

	for i := 0; i < synd.r; i++ {
		for j := range buf {
			buf[j] = 0
		}

		for j := 0; j < synd.c; j++ {
			addmul(buf, shares[j].Data, byte(synd.get(i, j)))
		}

		for j := range buf {
			if buf[j] == 0 {
				continue
			}
			data, err := f.berlekampWelch(shares, j)
			if err != nil {
				return err
			}
			for idx := range shares {
				shares[idx].Data[j] = data[shares[idx].Number]
			}
		}
	}

	return nil
}

// berlekampWelch solves one byte column: it finds the unique message
// polynomial of degree < k agreeing with all but at most e of the
// received values, and returns the corrected byte for every share
// number in [0, n).
func (f *FEC) berlekampWelch(shares []Share, index int) ([]byte, error) {
	r := len(shares)
	e := (r - f.k) / 2 // deg of E polynomial
	if e <= 0 {
		return nil, ErrNotEnoughShares
	}
	q := e + f.k // number of Q coefficients (deg Q < q)
	dim := q + e

	interpBase := gfVal(2)

	evalPoint := func(num int) gfVal {
		if num == 0 {
			return 0
		}
		return interpBase.pow(num - 1)
	}

	// Build the system s * u = fvec.
	s := newGFMat(dim, dim)
	a := newGFMat(dim, dim)
	fvec := make(gfVals, dim)
	u := make(gfVals, dim)

	for i := 0; i < dim; i++ {
		xi := evalPoint(shares[i].Number)
		ri := gfVal(shares[i].Data[index])
		fvec[i] = xi.pow(e).mul(ri)

		for j := 0; j < q; j++ {
			s.set(i, j, xi.pow(j))
			if i == j {
				a.set(i, j, 1)
			}
		}

		for l := 0; l < e; l++ {
			j := l + q
			s.set(i, j, xi.pow(l).mul(ri))
			if i == j {
				a.set(i, j, 1)
			}
		}
	}

	if err := s.invertWith(a); err != nil {
		return nil, err
	}

	for i := 0; i < dim; i++ {
		u[i] = a.indexRow(i).dot(fvec)
	}

	// Reverse u so both polynomials come out highest-degree first.
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}

	qPoly := gfPoly(u[e:])
	ePoly := make(gfPoly, e+1)
	ePoly[0] = 1
	copy(ePoly[1:], u[:e])

	pPoly, rem, err := qPoly.div(ePoly)
	if err != nil {
		return nil, err
	}
	if !rem.isZero() {
		return nil, ErrTooManyErrors
	}

	out := make([]byte, f.n)
	for i := range out {
		out[i] = byte(pPoly.eval(evalPoint(i)))
	}
	return out, nil
}

// syndromeMatrix builds the parity form of the Vandermonde sub-matrix
// restricted to the share numbers actually present. Its rows
// annihilate every valid codeword.
func (f *FEC) syndromeMatrix(shares []Share) (gfMat, error) {
	keepers := make([]bool, f.n)
	shareCount := 0
	for _, share := range shares {
		if share.Number < 0 || share.Number >= f.n {
			return gfMat{}, ErrInvalidShareNum
		}
		if !keepers[share.Number] {
			keepers[share.Number] = true
			shareCount++
		}
	}

	out := newGFMat(f.k, shareCount)
	for i := 0; i < f.k; i++ {
		skipped := 0
		for j := 0; j < f.n; j++ {
			if !keepers[j] {
				skipped++
				continue
			}
			out.set(i, j-skipped, gfVal(f.vandMatrix[i*f.n+j]))
		}
	}

	if err := out.standardize(); err != nil {
		return gfMat{}, err
	}
	return out.parity(), nil
}

// Decode corrects the shares, rebuilds the original data into dst and
// returns the number of bytes written. The shares are mutated and
// re-sorted like Correct does. Rebuild is faster when the shares are
// known to be error-free.
func (f *FEC) Decode(dst []byte, shares []Share) (int, error) {
	if err := f.Correct(shares); err != nil {
		return 0, err
	}

	pieceLen := len(shares[0].Data)
	resultLen := pieceLen * f.k
	if len(dst) < resultLen {
		return 0, ErrDstTooSmall
	}

	err := f.Rebuild(shares, func(num int, data []byte) {
		copy(dst[num*pieceLen:], data)
	})
	if err != nil {
		return 0, err
	}
	return resultLen, nil
}

// DecodeTo corrects the shares, then rebuilds through output.
func (f *FEC) DecodeTo(shares []Share, output ShareOutput) error {
	if err := f.Correct(shares); err != nil {
		return err
	}
	return f.Rebuild(shares, output)
}
