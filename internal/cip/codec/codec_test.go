package codec

import (
	"encoding/binary"
	"testing"
)

func TestPutUint16(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		value uint16
		want  []byte
	}{
		{"little endian zero", binary.LittleEndian, 0x0000, []byte{0x00, 0x00}},
		{"little endian", binary.LittleEndian, 0x0102, []byte{0x02, 0x01}},
		{"big endian", binary.BigEndian, 0x0102, []byte{0x01, 0x02}},
		{"INT -1", binary.LittleEndian, 0xFFFF, []byte{0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 2)
			PutUint16(tt.order, buf, tt.value)
			if buf[0] != tt.want[0] || buf[1] != tt.want[1] {
				t.Errorf("PutUint16() = %v, want %v", buf, tt.want)
			}
			if got := Uint16(tt.order, buf); got != tt.value {
				t.Errorf("Uint16() = 0x%04X, want 0x%04X", got, tt.value)
			}
		})
	}
}

func TestPutUint32(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		value uint32
		want  []byte
	}{
		{"little endian zero", binary.LittleEndian, 0x00000000, []byte{0x00, 0x00, 0x00, 0x00}},
		{"little endian", binary.LittleEndian, 0x01020304, []byte{0x04, 0x03, 0x02, 0x01}},
		{"big endian", binary.BigEndian, 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{"REAL 1.0", binary.LittleEndian, 0x3F800000, []byte{0x00, 0x00, 0x80, 0x3F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 4)
			PutUint32(tt.order, buf, tt.value)
			for i := range tt.want {
				if buf[i] != tt.want[i] {
					t.Errorf("PutUint32() = %v, want %v", buf, tt.want)
					break
				}
			}
			if got := Uint32(tt.order, buf); got != tt.value {
				t.Errorf("Uint32() = 0x%08X, want 0x%08X", got, tt.value)
			}
		})
	}
}

func TestPutUint64(t *testing.T) {
	buf := make([]byte, 8)
	PutUint64(binary.LittleEndian, buf, 0x0102030405060708)
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("PutUint64() = %v, want %v", buf, want)
		}
	}
	if got := Uint64(binary.LittleEndian, buf); got != 0x0102030405060708 {
		t.Errorf("Uint64() = 0x%X", got)
	}
}

func TestPackedMembers(t *testing.T) {
	buf := make([]byte, 12)
	PutUint32(binary.LittleEndian, buf[0:4], 0x00000003)  // host word, bits 0 and 1
	PutUint16(binary.LittleEndian, buf[4:6], 0xFFFE)      // INT -2
	PutUint32(binary.LittleEndian, buf[8:12], 0x3F800000) // REAL 1.0

	if !HostBit(buf[0:4], 0) || !HostBit(buf[0:4], 1) || HostBit(buf[0:4], 2) {
		t.Errorf("host word = % x", buf[0:4])
	}
	if buf[6] != 0 || buf[7] != 0 {
		t.Errorf("padding = % x, want zero", buf[6:8])
	}
	if int16(Uint16(binary.LittleEndian, buf[4:6])) != -2 {
		t.Errorf("INT = %d, want -2", int16(Uint16(binary.LittleEndian, buf[4:6])))
	}
	if Uint32(binary.LittleEndian, buf[8:12]) != 0x3F800000 {
		t.Errorf("REAL bits = 0x%08X", Uint32(binary.LittleEndian, buf[8:12]))
	}
}

func TestHostBit(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		bit   uint
		want  bool
	}{
		{"all zeros bit 0", 0x00000000, 0, false},
		{"all ones bit 31", 0xFFFFFFFF, 31, true},
		{"bit 0 only", 0x00000001, 0, true},
		{"bit 0 only check bit 1", 0x00000001, 1, false},
		{"bit 7 only", 0x00000080, 7, true},
		{"bit 8 lives in second byte", 0x00000100, 8, true},
		{"bit 31 only", 0x80000000, 31, true},
		{"bit 31 only check bit 30", 0x80000000, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := make([]byte, HostWordSize)
			PutUint32(binary.LittleEndian, word, tt.value)
			if got := HostBit(word, tt.bit); got != tt.want {
				t.Errorf("HostBit(0x%08X, %d) = %v, want %v", tt.value, tt.bit, got, tt.want)
			}
		})
	}
}

func TestSetHostBitPreservesNeighbours(t *testing.T) {
	for bit := uint(0); bit < 32; bit++ {
		word := []byte{0xA5, 0x5A, 0xC3, 0x3C}
		before := Uint32(binary.LittleEndian, word)

		SetHostBit(word, bit, true)
		if want := before | 1<<bit; Uint32(binary.LittleEndian, word) != want {
			t.Fatalf("set bit %d: got 0x%08X, want 0x%08X", bit, Uint32(binary.LittleEndian, word), want)
		}

		SetHostBit(word, bit, false)
		if want := before &^ (1 << bit); Uint32(binary.LittleEndian, word) != want {
			t.Fatalf("clear bit %d: got 0x%08X, want 0x%08X", bit, Uint32(binary.LittleEndian, word), want)
		}
	}
}
