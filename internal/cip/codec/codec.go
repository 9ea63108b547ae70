package codec

import "encoding/binary"

// HostWordSize is the width of a packed BOOL host word in bytes.
const HostWordSize = 4

// PutUint16 writes a uint16 to dst using the provided byte order.
func PutUint16(order binary.ByteOrder, dst []byte, value uint16) {
	order.PutUint16(dst, value)
}

// PutUint32 writes a uint32 to dst using the provided byte order.
func PutUint32(order binary.ByteOrder, dst []byte, value uint32) {
	order.PutUint32(dst, value)
}

// PutUint64 writes a uint64 to dst using the provided byte order.
func PutUint64(order binary.ByteOrder, dst []byte, value uint64) {
	order.PutUint64(dst, value)
}

// Uint16 reads a uint16 from src using the provided byte order.
func Uint16(order binary.ByteOrder, src []byte) uint16 {
	return order.Uint16(src)
}

// Uint32 reads a uint32 from src using the provided byte order.
func Uint32(order binary.ByteOrder, src []byte) uint32 {
	return order.Uint32(src)
}

// Uint64 reads a uint64 from src using the provided byte order.
func Uint64(order binary.ByteOrder, src []byte) uint64 {
	return order.Uint64(src)
}

// HostBit reports whether bit is set in a little-endian BOOL host word.
// Bit 0 is the least significant bit of word[0]. bit must be below 32.
func HostBit(word []byte, bit uint) bool {
	return word[bit/8]&(1<<(bit%8)) != 0
}

// SetHostBit sets or clears a single bit of a little-endian BOOL host word in
// place. The other 31 bits are left as they were.
func SetHostBit(word []byte, bit uint, v bool) {
	mask := byte(1) << (bit % 8)
	if v {
		word[bit/8] |= mask
	} else {
		word[bit/8] &^= mask
	}
}
