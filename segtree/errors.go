// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package segtree

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is wrapped by the error New returns when an input
// interval's start is not strictly less than its end. Zero-width
// intervals are invalid because no tree node could ever hold them.
var ErrInvalidInterval = errors.New("start must be less than end")

const packageName = "segtree: "

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func textPanic(text string) {
	panic(packageName + text)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}
