// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// This tool dumps the GF(2^8) exponent, log, multiply and inverse
// tables used by the fec package, for offline inspection or for
// cross-checking another implementation against them.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
)

// x^8+x^4+x^3+x^2+1
const primitivePolynomial = 0x11d

const fieldSize = 256

func main() {
	f, err := os.OpenFile("gf_tables", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	expTbl := genExpTable()
	fmt.Fprintf(w, "expTbl: %#v\n", expTbl)

	logTbl := genLogTable(expTbl)
	fmt.Fprintf(w, "logTbl: %#v\n", logTbl)

	mulTbl := genMulTable(expTbl, logTbl)
	fmt.Fprintf(w, "mulTbl: %#v\n", mulTbl)

	inverseTbl := genInverseTable(expTbl, logTbl)
	fmt.Fprintf(w, "inverseTbl: %#v\n", inverseTbl)

	w.Flush()
}

// genExpTable returns the powers of the generator element 2, tiled
// twice so that exp[i+255] == exp[i].
func genExpTable() []byte {
	table := make([]byte, 2*(fieldSize-1))
	x := 1
	for i := 0; i < fieldSize-1; i++ {
		table[i] = byte(x)
		table[i+fieldSize-1] = byte(x)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitivePolynomial
		}
	}
	return table
}

func genLogTable(expTable []byte) []byte {
	table := make([]byte, fieldSize)
	for i := 0; i < fieldSize-1; i++ {
		table[expTable[i]] = byte(i)
	}
	return table
}

func genMulTable(expTable, logTable []byte) [256][256]byte {
	var result [256][256]byte
	for a := 1; a < fieldSize; a++ {
		for b := 1; b < fieldSize; b++ {
			logSum := int(logTable[a]) + int(logTable[b])
			for logSum >= fieldSize-1 {
				logSum -= fieldSize - 1
			}
			result[a][b] = expTable[logSum]
		}
	}
	return result
}

func genInverseTable(expTable, logTable []byte) [256]byte {
	var table [256]byte
	for a := 1; a < fieldSize; a++ {
		table[a] = expTable[fieldSize-1-int(logTable[a])]
	}
	return table
}
