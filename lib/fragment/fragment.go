// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fragment

import "io"

// Fragmenter is the capability to produce the nth fragment of a
// container's encoded form.
//
// FragmentAt returns the fragment at index *pos and true when *pos
// falls within the fragments this value owns. Otherwise it decrements
// *pos by the number of fragments it owns and returns false, so that a
// parent can route one monotonically increasing index across several
// children in order: each exhausted child rebases the index before the
// next child is asked. The capability is stateless: the same index
// always yields the same fragment, which allows resuming or parallel
// fragment production without iterator state inside each node.
//
// Returned fragments alias either the parsed input buffer or freshly
// built framing bytes; callers must not modify them.
type Fragmenter interface {
	FragmentAt(pos *int) ([]byte, bool)

	// EncodedLen returns the total number of bytes the fragments sum
	// to, i.e. the exact size of the encoded output.
	EncodedLen() int
}

// Encoder is a lazy sequence of fragments drawn from a Fragmenter.
//
// Containers are fragmented across dozens of small framing headers and
// large payload slices; the encoder yields them one at a time so that
// an entire file never has to exist in one contiguous allocation.
// WriteTo is the default encode path: each fragment is written to the
// sink as it is produced. Bytes flattens the sequence for callers that
// truly need a single buffer.
type Encoder struct {
	inner Fragmenter
	pos   int
}

// NewEncoder returns an encoder positioned at the first fragment of f.
func NewEncoder(f Fragmenter) *Encoder {
	return &Encoder{inner: f}
}

// Next returns the next fragment, or false when the sequence is
// exhausted.
func (e *Encoder) Next() ([]byte, bool) {
	pos := e.pos
	frag, ok := e.inner.FragmentAt(&pos)
	if ok {
		e.pos++
	}
	return frag, ok
}

// WriteTo streams the remaining fragments to w, writing each as it is
// produced. It returns the number of bytes written and the first write
// error encountered. Implements io.WriterTo.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for {
		frag, ok := e.Next()
		if !ok {
			return written, nil
		}
		n, err := w.Write(frag)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}

// Bytes drains the remaining fragments into one contiguous buffer.
//
// Prefer WriteTo where possible: it avoids building a second in-memory
// copy of the file.
func (e *Encoder) Bytes() []byte {
	out := make([]byte, 0, e.inner.EncodedLen())
	for {
		frag, ok := e.Next()
		if !ok {
			return out
		}
		out = append(out, frag...)
	}
}

// Reader adapts the encoder to io.Reader.
func (e *Encoder) Reader() *Reader {
	return &Reader{enc: e}
}

// Reader reads the encoded output fragment by fragment. Reads never
// fail; the end of the fragment sequence is reported as io.EOF.
type Reader struct {
	enc *Encoder
	buf []byte
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.buf) == 0 {
		frag, ok := r.enc.Next()
		if !ok {
			return 0, io.EOF
		}
		r.buf = frag
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
