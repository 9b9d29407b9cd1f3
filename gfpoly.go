// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import "errors"

// ErrAlgebra reports a broken invariant inside polynomial division.
// Reaching it through the exported API is a bug.
var ErrAlgebra = errors.New("fec: internal algebra error")

// gfPoly is a polynomial over GF(2^8), coefficients stored
// highest-degree first.
type gfPoly []gfVal

func polyZero(size int) gfPoly {
	return make(gfPoly, size)
}

func (p gfPoly) isZero() bool {
	for _, c := range p {
		if !c.isZero() {
			return false
		}
	}
	return true
}

func (p gfPoly) deg() int {
	return len(p) - 1
}

// index returns the coefficient of x^power, 0 for out-of-range powers.
func (p gfPoly) index(power int) gfVal {
	if power < 0 {
		return 0
	}
	which := p.deg() - power
	if which < 0 {
		return 0
	}
	return p[which]
}

func (p gfPoly) scale(factor gfVal) gfPoly {
	out := make(gfPoly, len(p))
	for i, c := range p {
		out[i] = c.mul(factor)
	}
	return out
}

// set assigns the coefficient of x^pow, growing the polynomial with
// leading zeros when pow exceeds the current degree.
func (p *gfPoly) set(pow int, coef gfVal) {
	which := p.deg() - pow
	if which < 0 {
		*p = append(polyZero(-which), *p...)
		which = p.deg() - pow
	}
	(*p)[which] = coef
}

func (p gfPoly) add(b gfPoly) gfPoly {
	size := len(p)
	if len(b) > size {
		size = len(b)
	}
	out := polyZero(size)
	for i := range out {
		out.set(i, p.index(i).add(b.index(i)))
	}
	return out
}

// div does synthetic long division of p by b, returning quotient and
// remainder. Leading zeros of both operands are stripped first; a zero
// divisor fails with ErrDivideByZero.
func (p gfPoly) div(b gfPoly) (q, r gfPoly, err error) {
	for len(b) > 0 && b[0].isZero() {
		b = b[1:]
	}
	if len(b) == 0 {
		return nil, nil, ErrDivideByZero
	}

	for len(p) > 0 && p[0].isZero() {
		p = p[1:]
	}
	if len(p) == 0 {
		return polyZero(1), polyZero(1), nil
	}

	for b.deg() <= p.deg() {
		leadingP := p.index(p.deg())
		leadingB := b.index(b.deg())

		coef, derr := leadingP.div(leadingB)
		if derr != nil {
			return nil, nil, derr
		}
		q = append(q, coef)

		padded := b.scale(coef)
		padded = append(padded, polyZero(p.deg()-padded.deg())...)

		p = p.add(padded)
		if !p[0].isZero() {
			return nil, nil, ErrAlgebra
		}
		p = p[1:]
	}

	for len(p) > 1 && p[0].isZero() {
		p = p[1:]
	}

	return q, p, nil
}

func (p gfPoly) eval(x gfVal) gfVal {
	var out gfVal
	for i := 0; i <= p.deg(); i++ {
		out = out.add(p.index(i).mul(x.pow(i)))
	}
	return out
}
