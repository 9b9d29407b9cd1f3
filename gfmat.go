// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

// gfMat is a dense row-major r*c matrix over GF(2^8).
type gfMat struct {
	d    gfVals
	r, c int
}

func newGFMat(r, c int) gfMat {
	return gfMat{d: make(gfVals, r*c), r: r, c: c}
}

func (m gfMat) index(i, j int) int {
	return m.c*i + j
}

func (m gfMat) get(i, j int) gfVal {
	return m.d[m.index(i, j)]
}

func (m gfMat) set(i, j int, val gfVal) {
	m.d[m.index(i, j)] = val
}

func (m gfMat) indexRow(i int) gfVals {
	return m.d[m.index(i, 0):m.index(i+1, 0)]
}

func (m gfMat) swapRow(i, j int) {
	ri := m.indexRow(i)
	rj := m.indexRow(j)
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}

func (m gfMat) scaleRow(i int, val gfVal) {
	ri := m.indexRow(i)
	for k := range ri {
		ri[k] = ri[k].mul(val)
	}
}

// addmulRow adds val times row i into row j.
func (m gfMat) addmulRow(i, j int, val gfVal) {
	ri := m.indexRow(i)
	rj := m.indexRow(j)
	for k := range rj {
		rj[k] = rj[k].add(ri[k].mul(val))
	}
}

// invertWith inverts m in place via Gauss-Jordan elimination, mirroring
// every row operation into a. a must enter as the identity matrix; it
// exits holding the inverse of the original m, while m exits as the
// identity. Columns with no usable pivot are skipped.
func (m gfMat) invertWith(a gfMat) error {
	for i := 0; i < m.r; i++ {
		pRow := i
		pVal := m.get(i, i)
		for j := i + 1; j < m.r && pVal.isZero(); j++ {
			pRow = j
			pVal = m.get(j, i)
		}
		if pVal.isZero() {
			continue
		}

		if pRow != i {
			m.swapRow(i, pRow)
			a.swapRow(i, pRow)
		}

		inv, err := pVal.inv()
		if err != nil {
			return err
		}
		m.scaleRow(i, inv)
		a.scaleRow(i, inv)

		for j := i + 1; j < m.r; j++ {
			leading := m.get(j, i)
			m.addmulRow(i, j, leading)
			a.addmulRow(i, j, leading)
		}
	}

	for i := m.r - 1; i > 0; i-- {
		for j := i - 1; j >= 0; j-- {
			trailing := m.get(j, i)
			m.addmulRow(i, j, trailing)
			a.addmulRow(i, j, trailing)
		}
	}

	return nil
}

// standardize reduces m in place to the form [I | P], tolerating zero
// pivot columns by skipping them.
func (m gfMat) standardize() error {
	for i := 0; i < m.r; i++ {
		pRow := i
		pVal := m.get(i, i)
		for j := i + 1; j < m.r && pVal.isZero(); j++ {
			pRow = j
			pVal = m.get(j, i)
		}
		if pVal.isZero() {
			continue
		}

		if pRow != i {
			m.swapRow(i, pRow)
		}

		inv, err := pVal.inv()
		if err != nil {
			return err
		}
		m.scaleRow(i, inv)

		for j := i + 1; j < m.r; j++ {
			m.addmulRow(i, j, m.get(j, i))
		}
	}

	for i := m.r - 1; i > 0; i-- {
		for j := i - 1; j >= 0; j-- {
			m.addmulRow(i, j, m.get(j, i))
		}
	}

	return nil
}

// parity assumes m is in standard form [I_r | P] and returns the
// (c-r)*c parity matrix [P_transpose | I_(c-r)]. The field has
// characteristic 2, so no negation is needed.
func (m gfMat) parity() gfMat {
	out := newGFMat(m.c-m.r, m.c)

	for i := 0; i < out.r; i++ {
		out.set(i, i+m.r, 1)
	}

	for i := 0; i < out.r; i++ {
		for j := 0; j < m.r; j++ {
			out.set(i, j, m.get(j, i+m.r))
		}
	}

	return out
}
