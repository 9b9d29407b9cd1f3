// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package fec

import (
	"math/rand"
	"testing"
)

func TestGFTables(t *testing.T) {
	if expTbl[0] != 1 {
		t.Fatal("exp[0] must be 1")
	}
	for i := 0; i < 255; i++ {
		if expTbl[i] != expTbl[i+255] {
			t.Fatalf("exp table not tiled at %d", i)
		}
		if logTbl[expTbl[i]] != byte(i) {
			t.Fatalf("log(exp(%d)) != %d", i, i)
		}
	}

	// The generator's powers must cover every non-zero element.
	seen := make(map[byte]bool)
	for i := 0; i < 255; i++ {
		seen[expTbl[i]] = true
	}
	if len(seen) != 255 {
		t.Fatalf("expected 255 distinct powers, got %d", len(seen))
	}

	for a := 0; a < 256; a++ {
		if mulTbl[a][0] != 0 || mulTbl[0][a] != 0 {
			t.Fatalf("mul by zero not zero for %d", a)
		}
		if mulTbl[a][1] != byte(a) {
			t.Fatalf("mul identity broken for %d", a)
		}
		for b := 0; b < 256; b++ {
			if mulTbl[a][b] != mulTbl[b][a] {
				t.Fatalf("mul not commutative at %d,%d", a, b)
			}
		}
	}

	for a := 1; a < 256; a++ {
		if mulTbl[a][inverseTbl[a]] != 1 {
			t.Fatalf("a * inv(a) != 1 for %d", a)
		}
	}
}

func TestGFValDiv(t *testing.T) {
	for i := 0; i < 10000; i++ {
		a := gfVal(rand.Intn(256))
		b := gfVal(rand.Intn(255) + 1)
		q, err := a.mul(b).div(b)
		if err != nil {
			t.Fatal(err)
		}
		if q != a {
			t.Fatalf("(%d*%d)/%d = %d, expected %d", a, b, b, q, a)
		}
	}

	if _, err := gfVal(5).div(0); err != ErrDivideByZero {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
	q, err := gfVal(0).div(7)
	if err != nil || q != 0 {
		t.Fatalf("0/7 = %d, %v", q, err)
	}
}

func TestGFValInv(t *testing.T) {
	if _, err := gfVal(0).inv(); err != ErrInvertZero {
		t.Fatalf("expected ErrInvertZero, got %v", err)
	}
	for a := 1; a < 256; a++ {
		inv, err := gfVal(a).inv()
		if err != nil {
			t.Fatal(err)
		}
		if gfVal(a).mul(inv) != 1 {
			t.Fatalf("inv broken for %d", a)
		}
	}
}

func TestGFValPow(t *testing.T) {
	for a := 0; a < 256; a++ {
		if gfVal(a).pow(0) != 1 {
			t.Fatalf("%d^0 != 1", a)
		}
	}
	for i := 0; i < 1000; i++ {
		a := byte(rand.Intn(256))
		n := rand.Intn(600)
		if gfVal(a).pow(n) != gfVal(gfExp(a, n)) {
			t.Fatalf("pow and gfExp disagree: %d^%d", a, n)
		}
	}
}

func TestGFValsDot(t *testing.T) {
	a := gfVals{1, 2, 3}
	b := gfVals{4, 5, 6}
	exp := gfVal(4) ^ gfVal(2).mul(5) ^ gfVal(3).mul(6)
	if a.dot(b) != exp {
		t.Fatalf("dot = %d, expected %d", a.dot(b), exp)
	}
}
