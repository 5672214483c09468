// Package packet implements the binary wire protocol: fixed-width
// primitives, the three-byte packet header, and every outbound packet in
// both protocol dialects.
package packet

import (
	"math"
)

const (
	// Every value scaled to 24 bits uses the full range.
	max24 = 1<<24 - 1

	twoPi = 2 * math.Pi
)

// Writer builds a packet buffer. All multi-byte primitives are big-endian.
type Writer struct {
	buf []byte
}

// NewWriter starts a packet of type t. The two client-time bytes are left
// zero; the session layer patches them at send time.
func NewWriter(t byte) *Writer {
	w := &Writer{buf: make([]byte, 0, 32)}
	w.Uint8(0)
	w.Uint8(0)
	w.Uint8(t)
	return w
}

// Bytes returns the assembled packet.
func (w *Writer) Bytes() []byte { return w.buf }

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// Uint16 writes a big-endian 16-bit value.
func (w *Writer) Uint16(v uint16) *Writer {
	w.buf = append(w.buf, byte(v>>8), byte(v))
	return w
}

// Uint24 writes a big-endian 24-bit value.
func (w *Writer) Uint24(v uint32) *Writer {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
	return w
}

// Fp8 writes v scaled by 255 into one byte, clamped.
func (w *Writer) Fp8(v float64) *Writer {
	n := math.Round(v * 255)
	if n < 0 {
		n = 0
	} else if n > 255 {
		n = 255
	}
	return w.Uint8(uint8(n))
}

// Fp16 writes v scaled by 10^k as a 16-bit value.
func (w *Writer) Fp16(v float64, k int) *Writer {
	return w.Uint16(uint16(math.Round(v * math.Pow10(k))))
}

// Fp24 writes v in [0, 1] scaled to the full 24-bit range.
func (w *Writer) Fp24(v float64) *Writer {
	n := math.Round(v * max24)
	if n < 0 {
		n = 0
	} else if n > max24 {
		n = max24
	}
	return w.Uint24(uint32(n))
}

// Ang24 writes an angle as a 24-bit fraction of the full circle.
func (w *Writer) Ang24(ang float64) *Writer {
	ang -= twoPi * math.Floor(ang/twoPi)
	return w.Uint24(uint32(math.Round(ang / twoPi * max24)))
}

// String writes a length byte followed by the raw bytes, truncated at 255.
func (w *Writer) String(s string) *Writer {
	if len(s) > 255 {
		s = s[:255]
	}
	w.Uint8(uint8(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// Raw appends bytes verbatim, with no length prefix.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Reader is the decoding mirror of Writer, used by tests and by the inbound
// path. Reads past the end return zero values and set a sticky error flag.
type Reader struct {
	buf   []byte
	pos   int
	short bool
}

// NewReader wraps a received payload.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Short reports whether any read ran past the end of the buffer.
func (r *Reader) Short() bool { return r.short }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Uint8 reads one byte.
func (r *Reader) Uint8() uint8 {
	if r.pos+1 > len(r.buf) {
		r.short = true
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

// Uint16 reads a big-endian 16-bit value.
func (r *Reader) Uint16() uint16 {
	return uint16(r.Uint8())<<8 | uint16(r.Uint8())
}

// Uint24 reads a big-endian 24-bit value.
func (r *Reader) Uint24() uint32 {
	return uint32(r.Uint8())<<16 | uint32(r.Uint8())<<8 | uint32(r.Uint8())
}

// Fp24 reads a 24-bit fraction back into [0, 1].
func (r *Reader) Fp24() float64 {
	return float64(r.Uint24()) / max24
}

// Ang24 reads a 24-bit angle back into [0, 2π).
func (r *Reader) Ang24() float64 {
	return float64(r.Uint24()) / max24 * twoPi
}

// Fp16 reads a value scaled by 10^k.
func (r *Reader) Fp16(k int) float64 {
	return float64(r.Uint16()) / math.Pow10(k)
}

// String reads a length-prefixed string.
func (r *Reader) String() string {
	n := int(r.Uint8())
	if r.pos+n > len(r.buf) {
		r.short = true
		return ""
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	if r.pos+n > len(r.buf) {
		r.short = true
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}
