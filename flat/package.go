// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package flat provides FlatBuffers table accessors and builders for
// the tables of the FIB interval file format, as described by the
// schema in interval.fbs.
package flat
