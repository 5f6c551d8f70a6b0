// Package protocol implements the wire format from spec §6: a fixed
// 8-byte header followed by a packed payload. All header integers and
// payload integers are big-endian; payload floats are IEEE-754 written
// little-endian byte-for-byte (see DESIGN.md "Open Question Decisions"
// for why that resolves the open endianness question deterministically
// in Go, unlike the C++ original).
package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	MagicHi byte = 0xC0
	MagicLo byte = 0xDE

	HeaderSize = 8
)

// Header is the fixed 8-byte frame prefix carried by every packet.
type Header struct {
	PacketType    byte
	Flags         byte
	PayloadLength uint16
	SequenceNumber uint16
}

// Encode writes the 8-byte header: magic_hi, magic_lo, type, flags,
// length (BE u16), sequence (BE u16).
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	buf[0] = MagicHi
	buf[1] = MagicLo
	buf[2] = h.PacketType
	buf[3] = h.Flags
	binary.BigEndian.PutUint16(buf[4:6], h.PayloadLength)
	binary.BigEndian.PutUint16(buf[6:8], h.SequenceNumber)
	return buf
}

// DecodeHeader validates magic bytes and parses the 8-byte header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("short header: %d bytes", len(buf))
	}
	if buf[0] != MagicHi || buf[1] != MagicLo {
		return Header{}, fmt.Errorf("bad magic: %#02x %#02x", buf[0], buf[1])
	}
	return Header{
		PacketType:     buf[2],
		Flags:          buf[3],
		PayloadLength:  binary.BigEndian.Uint16(buf[4:6]),
		SequenceNumber: binary.BigEndian.Uint16(buf[6:8]),
	}, nil
}
