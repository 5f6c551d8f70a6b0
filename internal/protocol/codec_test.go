package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterIntegersAreBigEndian(t *testing.T) {
	w := NewWriter()
	w.WriteU16(0x0102)
	w.WriteU32(0x01020304)
	assert.Equal(t, []byte{0x01, 0x02, 0x01, 0x02, 0x03, 0x04}, w.Bytes())
}

func TestWriterFloatsAreLittleEndianIEEE754(t *testing.T) {
	w := NewWriter()
	w.WriteF32(1.0)
	r := NewReader(w.Bytes())
	assert.Equal(t, float32(1.0), r.ReadF32())
	require.NoError(t, r.Err())
}

func TestFixedStringTruncatesAndZeroPads(t *testing.T) {
	w := NewWriter()
	w.WriteFixedString("hello", 8)
	buf := w.Bytes()
	require.Len(t, buf, 8)
	assert.Equal(t, []byte{'h', 'e', 'l', 'l', 'o', 0, 0, 0}, buf)

	w2 := NewWriter()
	w2.WriteFixedString("this name is too long", 4)
	assert.Equal(t, []byte("this"), w2.Bytes(), "overlong strings must be truncated, not overflow the fixed field")
}

func TestReaderFixedStringStopsAtFirstNUL(t *testing.T) {
	r := NewReader([]byte{'a', 'b', 0, 'c'})
	assert.Equal(t, "ab", r.ReadFixedString(4))
}

func TestReaderShortReadSetsErrAndStopsMutating(t *testing.T) {
	r := NewReader([]byte{0x01})
	got := r.ReadU32()
	assert.Equal(t, uint32(0), got)
	require.Error(t, r.Err())

	// Further reads on an errored Reader must stay inert rather than panic
	// or silently succeed past the end of the buffer.
	assert.Equal(t, uint8(0), r.ReadU8())
}

func TestReaderRemaining(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	assert.Equal(t, 4, r.Remaining())
	r.ReadU16()
	assert.Equal(t, 2, r.Remaining())
}
