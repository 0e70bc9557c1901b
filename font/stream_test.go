package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestStreamIntCodecs(t *testing.T) {
	s := NewStream(nil)
	s.WriteUint8(0xAB)
	s.WriteInt8(-5)
	s.WriteUint16(0xCAFE)
	s.WriteInt16(-1234)
	s.WriteUint24(0x123456)
	s.WriteUint32(0xDEADBEEF)
	s.WriteInt32(-70000)

	r := NewStream(s.Bytes())
	u8, err := r.ReadUint8()
	test.Error(t, err)
	test.T(t, u8, uint8(0xAB))

	i8, err := r.ReadInt8()
	test.Error(t, err)
	test.T(t, i8, int8(-5))

	u16, err := r.ReadUint16()
	test.Error(t, err)
	test.T(t, u16, uint16(0xCAFE))

	i16, err := r.ReadInt16()
	test.Error(t, err)
	test.T(t, i16, int16(-1234))

	u24, err := r.ReadUint24()
	test.Error(t, err)
	test.T(t, u24, uint32(0x123456))

	u32, err := r.ReadUint32()
	test.Error(t, err)
	test.T(t, u32, uint32(0xDEADBEEF))

	i32, err := r.ReadInt32()
	test.Error(t, err)
	test.T(t, i32, int32(-70000))
}

func TestStreamFixedCodecs(t *testing.T) {
	s := NewStream(nil)
	s.WriteFixed(3.25)
	s.WriteF2Dot14(-1.5)
	s.WriteFWord(-100)
	s.WriteUFWord(100)
	s.WriteLongDateTime(-2_082_844_800)

	r := NewStream(s.Bytes())
	fixed, err := r.ReadFixed()
	test.Error(t, err)
	test.Float(t, fixed, 3.25)

	f2dot14, err := r.ReadF2Dot14()
	test.Error(t, err)
	test.Float(t, f2dot14, -1.5)

	fword, err := r.ReadFWord()
	test.Error(t, err)
	test.T(t, fword, int16(-100))

	ufword, err := r.ReadUFWord()
	test.Error(t, err)
	test.T(t, ufword, uint16(100))

	longDateTime, err := r.ReadLongDateTime()
	test.Error(t, err)
	test.T(t, longDateTime, int64(-2_082_844_800))
}

func TestStreamTagAndVersion16Dot16(t *testing.T) {
	s := NewStream(nil)
	_, err := s.WriteTag("true")
	test.Error(t, err)
	_, err = s.WriteVersion16Dot16(1, 5)
	test.Error(t, err)

	r := NewStream(s.Bytes())
	tag, err := r.ReadTag()
	test.Error(t, err)
	test.T(t, tag, "true")

	major, minor, err := r.ReadVersion16Dot16()
	test.Error(t, err)
	test.T(t, major, uint16(1))
	test.T(t, minor, uint16(5))

	_, err = NewStream(nil).WriteTag("abc")
	test.That(t, err != nil)
}

func TestStreamUint255(t *testing.T) {
	cases := []uint16{0, 252, 253, 505, 506, 761, 762, 0xFFFF}
	for _, v := range cases {
		s := NewStream(nil)
		_, err := s.WriteUint255(v)
		test.Error(t, err)
		got, err := NewStream(s.Bytes()).ReadUint255()
		test.Error(t, err)
		test.T(t, got, v)
	}

	// three-byte literal form FD hh ll.
	s := NewStream([]byte{0xFD, 0x03, 0x00})
	got, err := s.ReadUint255()
	test.Error(t, err)
	test.T(t, got, uint16(0x0300))
}

func TestStreamUintBase128(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 16384, 0xFFFFFFFF}
	for _, v := range cases {
		s := NewStream(nil)
		n, err := s.WriteUintBase128(v)
		test.Error(t, err)
		if v == 0xFFFFFFFF {
			test.T(t, n, 5)
		}
		got, err := NewStream(s.Bytes()).ReadUintBase128()
		test.Error(t, err)
		test.T(t, got, v)
	}
}

func TestStreamUintBase128RejectsLeadingZero(t *testing.T) {
	_, err := NewStream([]byte{0x80, 0x00}).ReadUintBase128()
	test.That(t, err != nil)
}

func TestStreamUintBase128RejectsOverlong(t *testing.T) {
	_, err := NewStream([]byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x00}).ReadUintBase128()
	test.That(t, err != nil)
}

func TestStreamSeekOverwrite(t *testing.T) {
	s := NewStream(nil)
	s.WriteUint32(0)
	s.WriteUint32(0xAAAAAAAA)
	s.Seek(0)
	s.WriteUint32(0xDEADBEEF)

	r := NewStream(s.Bytes())
	first, err := r.ReadUint32()
	test.Error(t, err)
	test.T(t, first, uint32(0xDEADBEEF))
	second, err := r.ReadUint32()
	test.Error(t, err)
	test.T(t, second, uint32(0xAAAAAAAA))
}
