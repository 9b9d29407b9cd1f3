// Copyright (c) 2017 Temple3x (temple3x@gmail.com)
//
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command fecsplit splits a file into n share files of which any k
// recover the original, and joins share files back together, repairing
// bit-level corruption when more than k shares are given.
package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/templexxx/fec"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

// share file layout: header | block bytes
//
// header: magic(4) version(1) flags(1) k(2) n(2) num(2), all
// little-endian. The encoded blob itself starts with an 8 byte length
// so join can strip the padding added to reach a multiple of k.
const (
	shareMagic   = "FECS"
	shareVersion = 1
	headerSize   = 12

	flagSnappy = 1 << 0
)

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "fecsplit"
	myApp.Usage = "split files into Reed-Solomon shares and join them back"
	myApp.Version = VERSION
	myApp.Commands = []cli.Command{
		{
			Name:      "split",
			Usage:     "encode FILE into n share files",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "required,k",
					Value: 3,
					Usage: "number of shares required to recover the file",
				},
				cli.IntFlag{
					Name:  "total,n",
					Value: 7,
					Usage: "total number of shares to generate",
				},
				cli.StringFlag{
					Name:  "out,o",
					Usage: "share file prefix (default: FILE)",
				},
				cli.BoolFlag{
					Name:  "comp",
					Usage: "snappy-compress the payload before encoding",
				},
			},
			Action: split,
		},
		{
			Name:      "join",
			Usage:     "decode share files back into the original file",
			ArgsUsage: "SHAREFILE...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out,o",
					Value: "joined.out",
					Usage: "output file",
				},
			},
			Action: join,
		},
	}

	if err := myApp.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func split(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("split takes exactly one input file")
	}
	path := c.Args().First()
	k := c.Int("required")
	n := c.Int("total")
	prefix := c.String("out")
	if prefix == "" {
		prefix = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	var flags byte
	if c.Bool("comp") {
		data = snappy.Encode(nil, data)
		flags |= flagSnappy
	}

	// Length prefix, then zero padding up to a multiple of k.
	blob := make([]byte, 8, 8+len(data))
	binary.LittleEndian.PutUint64(blob, uint64(len(data)))
	blob = append(blob, data...)
	if rem := len(blob) % k; rem != 0 {
		blob = append(blob, make([]byte, k-rem)...)
	}

	f, err := fec.New(k, n)
	if err != nil {
		return errors.Wrap(err, "new codec")
	}

	header := buildHeader(k, n, flags)
	var writeErr error
	err = f.Encode(blob, func(num int, shareData []byte) {
		if writeErr != nil {
			return
		}
		name := fmt.Sprintf("%s.%d", prefix, num)
		buf := make([]byte, headerSize, headerSize+len(shareData))
		copy(buf, header)
		binary.LittleEndian.PutUint16(buf[10:], uint16(num))
		buf = append(buf, shareData...)
		if werr := os.WriteFile(name, buf, 0644); werr != nil {
			writeErr = errors.Wrapf(werr, "write share %d", num)
		}
	})
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	if writeErr != nil {
		return writeErr
	}

	log.Printf("split %s into %d shares (%d required, %d bytes each)",
		path, n, k, len(blob)/k)
	return nil
}

func join(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("join takes at least one share file")
	}

	var (
		shares []fec.Share
		k, n   int
		flags  byte
	)
	for i, path := range c.Args() {
		buf, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read share %s", path)
		}
		sk, sn, num, sflags, data, err := parseShare(buf)
		if err != nil {
			return errors.Wrapf(err, "parse share %s", path)
		}
		if i == 0 {
			k, n, flags = sk, sn, sflags
		} else if sk != k || sn != n || sflags != flags {
			return errors.Errorf("share %s disagrees on parameters", path)
		}
		shares = append(shares, fec.Share{Number: num, Data: data})
	}

	f, err := fec.New(k, n)
	if err != nil {
		return errors.Wrap(err, "new codec")
	}

	blockSize := len(shares[0].Data)
	dst := make([]byte, k*blockSize)
	if _, err := f.Decode(dst, shares); err != nil {
		return errors.Wrap(err, "decode")
	}

	if len(dst) < 8 {
		return errors.New("decoded data too short")
	}
	origLen := binary.LittleEndian.Uint64(dst)
	if origLen > uint64(len(dst)-8) {
		return errors.New("corrupt length header")
	}
	payload := dst[8 : 8+origLen]

	if flags&flagSnappy != 0 {
		payload, err = snappy.Decode(nil, payload)
		if err != nil {
			return errors.Wrap(err, "decompress")
		}
	}

	out := c.String("out")
	if err := os.WriteFile(out, payload, 0644); err != nil {
		return errors.Wrap(err, "write output")
	}

	log.Printf("joined %d shares into %s (%d bytes)", len(shares), out, len(payload))
	return nil
}

func buildHeader(k, n int, flags byte) []byte {
	header := make([]byte, headerSize)
	copy(header, shareMagic)
	header[4] = shareVersion
	header[5] = flags
	binary.LittleEndian.PutUint16(header[6:], uint16(k))
	binary.LittleEndian.PutUint16(header[8:], uint16(n))
	return header
}

func parseShare(buf []byte) (k, n, num int, flags byte, data []byte, err error) {
	if len(buf) < headerSize {
		return 0, 0, 0, 0, nil, errors.New("share file too short")
	}
	if string(buf[:4]) != shareMagic {
		return 0, 0, 0, 0, nil, errors.New("bad magic")
	}
	if buf[4] != shareVersion {
		return 0, 0, 0, 0, nil, errors.Errorf("unsupported version %d", buf[4])
	}
	flags = buf[5]
	k = int(binary.LittleEndian.Uint16(buf[6:]))
	n = int(binary.LittleEndian.Uint16(buf[8:]))
	num = int(binary.LittleEndian.Uint16(buf[10:]))
	return k, n, num, flags, buf[headerSize:], nil
}
