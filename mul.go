// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import (
	"github.com/templexxx/cpu"
	xor "github.com/templexxx/xorsimd"
)

// addmul computes z[i] ^= mulTbl[c][x[i]] over the whole of z.
// x must be at least as long as z.
//
// Coefficient 0 leaves z unchanged, coefficient 1 degenerates to a row
// XOR and takes the SIMD XOR path.
func addmul(z, x []byte, c byte) {
	switch c {
	case 0:
	case 1:
		xor.Bytes(z, z, x[:len(z)])
	default:
		addmulBase(z, x, c)
	}
}

// addmulBase is the scalar reference for addmul. Every other addmul
// path must be byte-exact with it.
func addmulBase(z, x []byte, c byte) {
	t := &mulTbl[c]
	for i := 0; i < len(z); i++ {
		z[i] ^= t[x[i]]
	}
}

// mulVect computes z[i] = mulTbl[c][x[i]], overwriting z.
func mulVect(z, x []byte, c byte) {
	t := &mulTbl[c]
	for i := 0; i < len(z); i++ {
		z[i] = t[x[i]]
	}
}

// splitSize picks a chunk size for the encode inner loop so a data
// row and the parity row being built both stay in L1 cache between
// coefficient passes.
func splitSize(n int) int {
	l1d := cpu.X86.Cache.L1D
	if l1d <= 0 { // Cannot detect cache size(-1) or CPU is not X86(0).
		l1d = 32 * 1024
	}

	if n < 16 {
		return 16
	}
	// Half of L1 data cache is an empirical sweet spot: it fits, but
	// won't be fully evicted by the next round.
	if n < l1d/2 {
		return n
	}
	return l1d / 2
}
