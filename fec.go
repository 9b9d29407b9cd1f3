// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package fec implements a systematic Reed-Solomon forward error
// correction code over GF(2^8) with Berlekamp-Welch error correction.
//
// Primitive Polynomial: x^8+x^4+x^3+x^2+1.
//
// Encoding data with a (k, n) FEC generates n shares; any k uncorrupted
// shares recover the original data, and when more than k shares are
// given, up to (len(shares)-k)/2 corrupted shares per byte column can
// be detected and repaired.
package fec

import "errors"

var (
	ErrInvalidParams   = errors.New("fec: requires 1 <= k <= n <= 256")
	ErrInputSize       = errors.New("fec: input length must be a multiple of k")
	ErrOutputSize      = errors.New("fec: output length must equal the block size")
	ErrInvalidShareNum = errors.New("fec: invalid share number")
	ErrShareSize       = errors.New("fec: share sizes mismatched")
	ErrDstTooSmall     = errors.New("fec: dst buffer is too small")
	ErrTooFewShares    = errors.New("fec: too few shares given")
	ErrNotEnoughShares = errors.New("fec: not enough shares")
	ErrTooManyErrors   = errors.New("fec: too many errors to reconstruct")
)

const byteMax = 256

// A Share holds one encoded piece: its number in [0, n) and its data.
// Shares numbered below k are primary (verbatim input blocks), the
// rest are parity.
type Share struct {
	Number int
	Data   []byte
}

// ShareOutput receives encoded or rebuilt shares. The data slice may
// be reused once the callback returns; copy it if it must be retained.
type ShareOutput func(num int, data []byte)

// FEC holds the matrices for a (k, n) code. It is immutable after New
// and safe for concurrent use on distinct inputs and outputs.
type FEC struct {
	k int
	n int

	// encMatrix is n*k and systematic: the top k rows are the
	// identity, the bottom n-k rows generate parity.
	encMatrix matrix

	// vandMatrix is k*n: column j holds the powers of share j's
	// evaluation point. Only the syndrome path reads it.
	vandMatrix matrix
}

// New creates an FEC using k required shares and n total shares.
func New(k, n int) (*FEC, error) {
	if k <= 0 || n <= 0 || k > byteMax || n > byteMax || k > n {
		return nil, ErrInvalidParams
	}

	encMatrix := make(matrix, n*k)
	vandMatrix := make(matrix, k*n)

	tempMatrix := make(matrix, n*k)
	createInvertedVdm(tempMatrix, k)

	for i := k * k; i < len(tempMatrix); i++ {
		tempMatrix[i] = expTbl[((i/k)*(i%k))%(byteMax-1)]
	}

	for i := 0; i < k; i++ {
		encMatrix[i*(k+1)] = 1
	}

	// The parity block is the raw Vandermonde rows times the inverted
	// Vandermonde, which makes the whole code systematic.
	for row := k * k; row < n*k; row += k {
		for col := 0; col < k; col++ {
			pa := tempMatrix[row:]
			pb := tempMatrix[col:]
			var acc byte
			for i := 0; i < k; i++ {
				acc ^= mulTbl[pa[i]][pb[i*k]]
			}
			encMatrix[row+col] = acc
		}
	}

	// vandMatrix row r, column j is x_j^r where x_0 = 0 and
	// x_j = 2^(j-1) for j > 0, matching the decoder's evaluation
	// points.
	vandMatrix[0] = 1
	g := byte(1)
	for row := 0; row < k; row++ {
		a := byte(1)
		for col := 1; col < n; col++ {
			vandMatrix[row*n+col] = a
			a = mulTbl[g][a]
		}
		g = mulTbl[2][g]
	}

	return &FEC{k: k, n: n, encMatrix: encMatrix, vandMatrix: vandMatrix}, nil
}

// Required returns the number of shares required for reconstruction,
// the k value passed to New.
func (f *FEC) Required() int {
	return f.k
}

// Total returns the number of shares generated by encoding, the n
// value passed to New.
func (f *FEC) Total() int {
	return f.n
}

// Encode encodes input into n shares, calling output once per share.
// The input length must be a multiple of k. Primary shares are slices
// of the input; the parity buffer is reused between callbacks.
func (f *FEC) Encode(input []byte, output ShareOutput) error {
	size := len(input)
	if size%f.k != 0 {
		return ErrInputSize
	}
	blockSize := size / f.k

	for i := 0; i < f.k; i++ {
		output(i, input[i*blockSize:(i+1)*blockSize])
	}

	fecBuf := make([]byte, blockSize)
	for i := f.k; i < f.n; i++ {
		f.encodeBlock(fecBuf, input, blockSize, i)
		output(i, fecBuf)
	}
	return nil
}

// EncodeSingle encodes only share number num into out. The out slice
// must be exactly len(input)/k bytes.
func (f *FEC) EncodeSingle(num int, input, out []byte) error {
	if num < 0 || num >= f.n {
		return ErrInvalidShareNum
	}
	size := len(input)
	if size%f.k != 0 {
		return ErrInputSize
	}
	blockSize := size / f.k
	if len(out) != blockSize {
		return ErrOutputSize
	}

	if num < f.k {
		copy(out, input[num*blockSize:(num+1)*blockSize])
		return nil
	}

	f.encodeBlock(out, input, blockSize, num)
	return nil
}

// encodeBlock writes parity share num into buf, walking the block in
// cache-sized chunks so each data row is still hot when the next
// coefficient touches it.
func (f *FEC) encodeBlock(buf, input []byte, blockSize, num int) {
	row := f.encMatrix[num*f.k : num*f.k+f.k]
	do := splitSize(blockSize)
	for start := 0; start < blockSize; start += do {
		end := start + do
		if end > blockSize {
			end = blockSize
		}
		for j := 0; j < f.k; j++ {
			in := input[j*blockSize+start : j*blockSize+end]
			if j == 0 {
				mulVect(buf[start:end], in, row[0])
			} else {
				addmul(buf[start:end], in, row[j])
			}
		}
	}
}
