package packet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterHeader(t *testing.T) {
	pkt := NewWriter('x').Bytes()
	require.Len(t, pkt, 3)
	assert.Equal(t, byte(0), pkt[0])
	assert.Equal(t, byte(0), pkt[1])
	assert.Equal(t, byte('x'), pkt[2])
}

func TestUintRoundTrip(t *testing.T) {
	w := NewWriter('x').
		Uint8(0xab).
		Uint16(0xbeef).
		Uint24(0x123456)

	r := NewReader(w.Bytes()[3:])
	assert.Equal(t, uint8(0xab), r.Uint8())
	assert.Equal(t, uint16(0xbeef), r.Uint16())
	assert.Equal(t, uint32(0x123456), r.Uint24())
	assert.False(t, r.Short())
	assert.Equal(t, 0, r.Remaining())
}

func TestFp24RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.99, 1} {
		pkt := NewWriter('x').Fp24(v).Bytes()
		got := NewReader(pkt[3:]).Fp24()
		assert.InDelta(t, v, got, 1.0/(1<<24), "fp24 round trip of %v", v)
	}
}

func TestFp24Clamps(t *testing.T) {
	pkt := NewWriter('x').Fp24(1.5).Bytes()
	assert.Equal(t, 1.0, NewReader(pkt[3:]).Fp24())

	pkt = NewWriter('x').Fp24(-0.5).Bytes()
	assert.Equal(t, 0.0, NewReader(pkt[3:]).Fp24())
}

func TestAng24RoundTrip(t *testing.T) {
	for _, a := range []float64{0, 1, math.Pi, 5.5, -1, 3 * math.Pi} {
		pkt := NewWriter('x').Ang24(a).Bytes()
		got := NewReader(pkt[3:]).Ang24()

		want := a - 2*math.Pi*math.Floor(a/(2*math.Pi))
		assert.InDelta(t, want, got, 1e-5, "ang24 round trip of %v", a)
	}
}

func TestFp16RoundTrip(t *testing.T) {
	cases := []struct {
		v float64
		k int
	}{
		{5.39, 2},
		{0.4, 2},
		{14.0, 2},
		{0.033, 3},
		{0.43, 3},
	}
	for _, tc := range cases {
		pkt := NewWriter('x').Fp16(tc.v, tc.k).Bytes()
		got := NewReader(pkt[3:]).Fp16(tc.k)
		assert.InDelta(t, tc.v, got, math.Pow10(-tc.k)/2+1e-9, "fp16<%d> of %v", tc.k, tc.v)
	}
}

func TestStringRoundTrip(t *testing.T) {
	pkt := NewWriter('x').String("slither").Bytes()
	r := NewReader(pkt[3:])
	assert.Equal(t, "slither", r.String())
	assert.Equal(t, 0, r.Remaining())
}

func TestStringTruncatesAt255(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	pkt := NewWriter('x').String(string(long)).Bytes()
	got := NewReader(pkt[3:]).String()
	assert.Len(t, got, 255)
}

func TestReaderShortOnTruncation(t *testing.T) {
	r := NewReader([]byte{0x01})
	r.Uint16()
	assert.True(t, r.Short())

	r = NewReader([]byte{5, 'a', 'b'})
	assert.Equal(t, "", r.String())
	assert.True(t, r.Short())
}
