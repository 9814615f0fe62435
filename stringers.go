// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import (
	"fmt"
	"strings"

	"github.com/gogama/flatinterval/flat"
)

// HeaderString returns a string summarizing the Header fields.
func HeaderString(hdr *flat.Header) string {
	var b strings.Builder
	b.WriteString("Header{")
	if err := safeFlatBuffersInteraction(func() error {
		stringBytes(&b, "Title", hdr.Title())
		if b.Len() > len("Header{") {
			b.WriteByte(',')
		}
		stringUint64(&b, "NumIntervals", hdr.IntervalsCount())
		return nil
	}); err != nil {
		return "error: " + err.Error()
	}
	b.WriteByte('}')
	return b.String()
}

func stringKey(b *strings.Builder, key string) {
	b.WriteString(key)
	b.WriteByte(':')
}

func stringBytes(b *strings.Builder, key string, value []byte) {
	if value != nil {
		stringKey(b, key)
		b.Write(value)
	}
}

func stringUint64(b *strings.Builder, key string, value uint64) {
	stringKey(b, key)
	fmt.Fprintf(b, "%d", value)
}
