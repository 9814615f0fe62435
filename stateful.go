// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package flatinterval

import "io"

// stateful tracks where a FileReader or FileWriter is within the FIB
// layout: magic number, header table, then interval tables. Once err
// is set, every further transition fails with it.
type stateful struct {
	state state
	err   error
}

type state int

const (
	uninitialized state = 0x00
	invalid       state = 0x01
	beforeMagic   state = 0x11
	beforeHeader  state = 0x21
	afterHeader   state = 0x22
	inData        state = 0x42
	eof           state = 0x52
)

func (s *stateful) close(a interface{}) error {
	if s.err == ErrClosed {
		return ErrClosed
	}

	s.err = ErrClosed

	if c, ok := a.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}

	return nil
}

func (s *stateful) sanityCheckState() {
	if s.state&invalid == invalid {
		fmtPanic("logic error: invalid state 0x%x", s.state)
	}
}

func (s *stateful) toState(expected, to state) (err error) {
	if s.err != nil {
		return s.err
	}

	if s.state == expected {
		s.state = to
		return nil
	}

	s.sanityCheckState()

	return errUnexpectedState
}

// toHeader claims the one-time Header call, moving from uninitialized
// to beforeMagic.
func (s *stateful) toHeader() error {
	err := s.toState(uninitialized, beforeMagic)
	if err == errUnexpectedState {
		return textErr(errHeaderAlreadyCalled)
	}
	return err
}

// afterHeaderTable leaves the header, going straight to eof when the
// header indicates there are no intervals.
func (s *stateful) afterHeaderTable(numIntervals int) error {
	if numIntervals == 0 {
		return s.toState(beforeHeader, eof)
	}
	return s.toState(beforeHeader, afterHeader)
}

// toData enters the interval data section. It returns done if every
// header-indicated interval has already been read or written.
func (s *stateful) toData() (done bool, err error) {
	if s.err != nil {
		return false, s.err
	}
	switch s.state {
	case uninitialized:
		return false, textErr(errHeaderNotCalled)
	case afterHeader, inData:
		s.state = inData
		return false, nil
	case eof:
		return true, nil
	default:
		fmtPanic("logic error: unexpected state 0x%x looking for interval data", s.state)
		return false, nil
	}
}

// afterInterval records one more interval read or written and moves to
// eof once all numIntervals are done.
func (s *stateful) afterInterval(index *int, numIntervals int) error {
	*index++
	if *index == numIntervals {
		return s.toState(inData, eof)
	}
	return nil
}

func (s *stateful) toErr(err error) error {
	if s.err != nil {
		textPanic("logic error: already in error state")
	}

	s.err = err
	return err
}
