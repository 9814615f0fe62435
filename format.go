// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package flatinterval reads and writes interval records and loads
// them into a segtree.Tree for point and range searches.
//
// Two record formats are supported. FIB (FlatInterval Binary) is a
// FlatGeobuf-like container: a magic number, a size-prefixed FlatBuffers
// header table, then one size-prefixed FlatBuffers table per interval.
// TSV is a text format with one start, end and value per line.
package flatinterval

import (
	"io"
)

const (
	// magicLen is the length of the FIB magic number in bytes.
	magicLen = 8
	// MinFormatMajorVersion is the minimum major version of the FIB
	// format that this package can read.
	MinFormatMajorVersion = 0x01
	// MaxFormatMajorVersion is the maximum major version of the FIB
	// format that this package can read.
	MaxFormatMajorVersion = 0x01
	// tableMaxLen is a limit on the size of any single FlatBuffers
	// table this package will read, to prevent corrupted or malicious
	// size prefixes from causing huge and pointless memory allocations.
	tableMaxLen = 32 * 1024 * 1024
)

// magic contains the FIB magic number.
//
// The fourth byte is the major version of data written by this
// package, and the last byte is the patch version.
var magic = [magicLen]byte{0x66, 0x69, 0x62, 0x01, 0x66, 0x69, 0x62, 0x00}

// FormatVersion is a version of the FIB format.
type FormatVersion struct {
	// Major is the major version of the FIB format.
	Major uint8
	// Patch is the patch version of the FIB format.
	Patch uint8
}

// Magic reads the FIB magic number from a stream and if it is valid,
// returns the FIB format version. It does not read beyond the magic
// number.
func Magic(r io.Reader) (FormatVersion, error) {
	m := make([]byte, magicLen)
	_, err := io.ReadFull(r, m)
	if err != nil {
		return FormatVersion{}, err
	}
	if v, ok := matchMagic(m); ok {
		return v, nil
	}
	return FormatVersion{}, textErr("invalid magic number")
}

// matchMagic reports whether m starts with a FIB magic number of any
// version.
func matchMagic(m []byte) (FormatVersion, bool) {
	if len(m) >= magicLen &&
		m[0] == magic[0] &&
		m[1] == magic[1] &&
		m[2] == magic[2] &&
		m[4] == magic[4] &&
		m[5] == magic[5] &&
		m[6] == magic[6] {
		return FormatVersion{m[3], m[7]}, true
	}
	return FormatVersion{}, false
}
