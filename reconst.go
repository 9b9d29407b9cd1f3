// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import "sort"

func sortByNumber(shares []Share) {
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].Number < shares[j].Number
	})
}

func checkShareSizes(shares []Share) error {
	size := len(shares[0].Data)
	for i := 1; i < len(shares); i++ {
		if len(shares[i].Data) != size {
			return ErrShareSize
		}
	}
	return nil
}

// Rebuild reconstructs the k original data blocks from any k of the
// supplied shares and calls output once per block with its number.
// The shares must be free of corruption; call Correct first if that
// is not certain. The slice is re-sorted by share number in place.
//
// Blocks are not necessarily emitted in order of their number, and the
// rebuilt-block buffer is reused between callbacks.
func (f *FEC) Rebuild(shares []Share, output ShareOutput) error {
	k := f.k
	if len(shares) < k {
		return ErrNotEnoughShares
	}
	if err := checkShareSizes(shares); err != nil {
		return err
	}
	sortByNumber(shares)

	shareSize := len(shares[0].Data)
	mDec := make(matrix, k*k)
	indexes := make([]int, k)
	sharesBufs := make([][]byte, k)

	// Walk the sorted shares with two cursors: a primary share whose
	// number matches the target row is consumed from the front,
	// otherwise a parity share is taken from the back. The resulting
	// k*k decode matrix is invertible by construction.
	b := 0
	e := len(shares) - 1
	hasParity := false

	for i := 0; i < k; i++ {
		share := shares[b]
		if share.Number == i {
			b++
		} else {
			share = shares[e]
			e--
		}

		shareID := share.Number
		if shareID < 0 || shareID >= f.n {
			return ErrInvalidShareNum
		}

		if shareID < k {
			mDec[i*(k+1)] = 1
			if output != nil {
				output(shareID, share.Data)
			}
		} else {
			copy(mDec[i*k:i*k+k], f.encMatrix[shareID*k:shareID*k+k])
			hasParity = true
		}

		sharesBufs[i] = share.Data
		indexes[i] = shareID
	}

	// All k primaries present: every block was already emitted and the
	// decode matrix is the identity.
	if !hasParity {
		return nil
	}

	if err := mDec.invert(k); err != nil {
		return err
	}

	buf := make([]byte, shareSize)
	for i := range indexes {
		if indexes[i] < k {
			continue
		}
		row := mDec[i*k : i*k+k]
		for col := 0; col < k; col++ {
			if col == 0 {
				mulVect(buf, sharesBufs[0], row[0])
			} else {
				addmul(buf, sharesBufs[col], row[col])
			}
		}
		if output != nil {
			output(i, buf)
		}
	}

	return nil
}
