package layout

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
	"sync"
	"testing"

	"github.com/tturner/aoiunit/internal/cip/codec"
)

// allTypes covers every packed type: host word 0..4, s 4, i 6, d 8, l 16, r 24.
func allTypes() []Parameter {
	return params("b0:BOOL", "b1:BOOL", "b2:BOOL", "s:SINT", "i:INT", "d:DINT", "l:LINT", "r:REAL")
}

func TestDecodeKnownBuffer(t *testing.T) {
	l := mustResolve(t, allTypes())
	buf := make([]byte, l.Size())
	codec.PutUint32(binary.LittleEndian, buf[0:4], 0x00000005)
	buf[4] = 0xFF
	codec.PutUint16(binary.LittleEndian, buf[6:8], 0xFFFE)
	codec.PutUint32(binary.LittleEndian, buf[8:12], 100000)
	codec.PutUint64(binary.LittleEndian, buf[16:24], uint64(0xFFFFFFFFFFFFFFFB))
	codec.PutUint32(binary.LittleEndian, buf[24:28], math.Float32bits(98.6))

	got, err := l.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Values{
		"b0": "1", "b1": "0", "b2": "1",
		"s": "-1", "i": "-2", "d": "100000", "l": "-5", "r": "98.6",
	}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s = %q, want %q", name, got[name], w)
		}
	}
}

func TestEncodeBoolScenario(t *testing.T) {
	l := mustResolve(t, params("a:BOOL", "b:BOOL", "c:SINT", "d:DINT"))
	buf := make([]byte, 12)

	out, err := l.Encode(buf, "b", "true")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// b is the second BOOL: bit index 30, host-word bit 1.
	if out[0] != 0x02 {
		t.Errorf("byte 0 = 0x%02X, want 0x02", out[0])
	}
	for i := 1; i < len(out); i++ {
		if out[i] != 0 {
			t.Errorf("byte %d = 0x%02X, want 0", i, out[i])
		}
	}
	if buf[0] != 0 {
		t.Error("Encode() modified its input buffer")
	}

	a, err := l.DecodeField(out, "a")
	if err != nil || a != "0" {
		t.Errorf("a = %q, %v; want \"0\"", a, err)
	}
	b, err := l.DecodeField(out, "b")
	if err != nil || b != "1" {
		t.Errorf("b = %q, %v; want \"1\"", b, err)
	}
}

func TestEncodeBoolClearsOnlyItsBit(t *testing.T) {
	l := mustResolve(t, params("a:BOOL", "b:BOOL", "c:BOOL"))
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	out, err := l.Encode(buf, "b", "false")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := codec.Uint32(binary.LittleEndian, out); got != 0xFFFFFFFD {
		t.Errorf("host word = 0x%08X, want 0xFFFFFFFD", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	l := mustResolve(t, allTypes())

	tests := []struct {
		name  string
		param string
		value string
		want  string
	}{
		{"bool true", "b1", "true", "1"},
		{"bool yes", "b2", "YES", "1"},
		{"bool zero", "b0", "0", "0"},
		{"sint min", "s", "-128", "-128"},
		{"sint max", "s", "127", "127"},
		{"sint truncates", "s", "200", "-56"},
		{"int min", "i", "-32768", "-32768"},
		{"int max", "i", "32767", "32767"},
		{"int wraps", "i", "65535", "-1"},
		{"dint", "d", "-2147483648", "-2147483648"},
		{"dint wraps", "d", "4294967296", "0"},
		{"lint max", "l", "9223372036854775807", "9223372036854775807"},
		{"lint min", "l", "-9223372036854775808", "-9223372036854775808"},
		{"real", "r", "98.6", "98.6"},
		{"real negative", "r", "-0.125", "-0.125"},
		{"real exponent", "r", "1e10", "1e+10"},
		{"real integer", "r", "3", "3"},
		{"padded input", "d", "  42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, l.Size())
			out, err := l.Encode(buf, tt.param, tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := l.DecodeField(out, tt.param)
			if err != nil {
				t.Fatalf("DecodeField() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("round trip %q = %q, want %q", tt.value, got, tt.want)
			}

			f, _ := l.Lookup(tt.param)
			norm, err := Normalize(f.Type, tt.value)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if norm != got {
				t.Errorf("Normalize(%q) = %q, decode gave %q", tt.value, norm, got)
			}
		})
	}
}

func TestEncodeFrameIsolation(t *testing.T) {
	l := mustResolve(t, allTypes())
	base := make([]byte, l.Size())
	for i := range base {
		base[i] = byte(i*37 + 11)
	}

	values := map[DataType]string{Sint: "-7", Int: "1234", Dint: "-99999", Lint: "123456789012", Real: "2.5"}

	for _, f := range l.Fields() {
		t.Run(f.Name, func(t *testing.T) {
			value := values[f.Type]
			if f.Type == Bool {
				current := codec.HostBit(base[f.ByteOffset:f.End()], f.HostBit())
				value = formatBool(!current)
			}

			out, err := l.Encode(base, f.Name, value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			for i := range out {
				if i >= f.ByteOffset && i < f.End() {
					continue
				}
				if out[i] != base[i] {
					t.Errorf("byte %d changed outside [%d,%d)", i, f.ByteOffset, f.End())
				}
			}
			if f.Type == Bool {
				diff := codec.Uint32(binary.LittleEndian, out[f.ByteOffset:]) ^ codec.Uint32(binary.LittleEndian, base[f.ByteOffset:])
				if bits.OnesCount32(diff) != 1 || diff != 1<<f.HostBit() {
					t.Errorf("host word diff = 0x%08X, want only bit %d", diff, f.HostBit())
				}
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	l := mustResolve(t, params("a:BOOL", "n:DINT", "r:REAL", "s:STRING"))
	buf := make([]byte, l.Size())

	tests := []struct {
		name    string
		buf     []byte
		param   string
		value   string
		wantErr error
	}{
		{"unknown parameter", buf, "z", "1", ErrUnknownParameter},
		{"unsupported type", buf, "s", "hello", ErrUnsupportedType},
		{"bad integer", buf, "n", "abc", ErrParse},
		{"float into dint", buf, "n", "1.5", ErrParse},
		{"bad bool", buf, "a", "maybe", ErrParse},
		{"bad real", buf, "r", "ninety", ErrParse},
		{"real overflow", buf, "r", "1e40", ErrParse},
		{"short buffer", buf[:6], "r", "1.0", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Encode(tt.buf, tt.param, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Encode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	l := mustResolve(t, params("a:BOOL", "n:DINT", "s:STRING"))

	if _, err := l.Decode(make([]byte, 7)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode(short) error = %v, want ErrOutOfRange", err)
	}
	if _, err := l.Decode(nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode(nil) error = %v, want ErrOutOfRange", err)
	}
	if _, err := l.DecodeField(make([]byte, 8), "missing"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("DecodeField(missing) error = %v, want ErrUnknownParameter", err)
	}
	if _, err := l.DecodeField(make([]byte, 8), "s"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("DecodeField(s) error = %v, want ErrUnsupportedType", err)
	}

	got, err := l.Decode(make([]byte, 8))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := got["s"]; ok {
		t.Error("unsupported field should be omitted from Decode() output")
	}
	if len(got) != 2 {
		t.Errorf("Decode() returned %d values, want 2", len(got))
	}
}

func TestDecodeFreshMapPerCall(t *testing.T) {
	l := mustResolve(t, params("n:DINT"))
	buf := make([]byte, 4)

	first, _ := l.Decode(buf)
	first["n"] = "tampered"
	second, _ := l.Decode(buf)
	if second["n"] != "0" {
		t.Errorf("second Decode() = %q, want \"0\"", second["n"])
	}
}

func TestConcurrentDecode(t *testing.T) {
	l := mustResolve(t, allTypes())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			buf := make([]byte, l.Size())
			codec.PutUint32(binary.LittleEndian, buf[8:12], uint32(g))
			for i := 0; i < 100; i++ {
				v, err := l.Decode(buf)
				if err != nil {
					t.Errorf("Decode() error = %v", err)
					return
				}
				if v["d"] != formatScalar(Dint, buf[8:12]) {
					t.Errorf("goroutine %d read %q", g, v["d"])
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		typ     DataType
		in      string
		want    string
		wantErr bool
	}{
		{Bool, "True", "1", false},
		{Bool, "no", "0", false},
		{Bool, "2", "", true},
		{Sint, "255", "-1", false},
		{Real, "0.1", "0.1", false},
		{Real, "98.60", "98.6", false},
		{Dint, "+7", "7", false},
		{Lint, "x", "", true},
		{Unsupported, "1", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.typ, tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Normalize(%s, %q) error = %v, wantErr %v", tt.typ, tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%s, %q) = %q, want %q", tt.typ, tt.in, got, tt.want)
		}
	}
}
