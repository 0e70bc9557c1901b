package font

import (
	"reflect"
	"sort"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/sfnt"
)

// FromFreetype extracts the raw, already-parsed tables held in the
// unexported fields of a golang/freetype truetype.Font and reassembles
// them into a standalone SFNT byte slice Parse accepts, synthesizing a
// minimal 'post' table when the original font lacked one. Grounded on the
// teacher's own FromGoFreetype (font/font.go), ported to this module's
// Stream/TableDirectory/checksum primitives instead of a bespoke writer.
func FromFreetype(f *truetype.Font) ([]byte, error) {
	if f == nil {
		return nil, newErrorf("font", "nil freetype font")
	}
	v := reflect.ValueOf(*f)
	fieldBytes := func(name string) []byte {
		fv := v.FieldByName(name)
		if !fv.IsValid() || fv.Kind() != reflect.Slice {
			return nil
		}
		return fv.Bytes()
	}

	tables := map[string][]byte{
		"cmap": fieldBytes("cmap"),
		"cvt ": fieldBytes("cvt"),
		"fpgm": fieldBytes("fpgm"),
		"glyf": fieldBytes("glyf"),
		"hdmx": fieldBytes("hdmx"),
		"head": fieldBytes("head"),
		"hhea": fieldBytes("hhea"),
		"hmtx": fieldBytes("hmtx"),
		"kern": fieldBytes("kern"),
		"loca": fieldBytes("loca"),
		"maxp": fieldBytes("maxp"),
		"name": fieldBytes("name"),
		"OS/2": fieldBytes("os2"),
		"prep": fieldBytes("prep"),
		"vmtx": fieldBytes("vmtx"),
	}
	if len(tables["post"]) == 0 {
		tables["post"] = syntheticPostTable()
	}

	tags := make([]string, 0, len(tables))
	for tag, data := range tables {
		if len(data) > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	return assembleSfnt(SfntVersionTrueType, tags, tables)
}

// syntheticPostTable is a minimal version-3 'post' table (no glyph
// names), used when a truetype.Font carries none.
func syntheticPostTable() []byte {
	s := NewStream(nil)
	s.WriteUint32(0x00030000) // version
	s.WriteUint32(0)          // italicAngle
	s.WriteInt16(0)           // underlinePosition
	s.WriteInt16(0)           // underlineThickness
	s.WriteUint32(0)          // isFixedPitch
	s.WriteUint32(0)          // minMemType42
	s.WriteUint32(0)          // maxMemType42
	s.WriteUint32(0)          // minMemType1
	s.WriteUint32(0)          // maxMemType1
	return s.Bytes()
}

// assembleSfnt lays tags out in tag order behind a fresh table directory,
// 4-byte pads each table, and patches head.checksumAdjustment once every
// table's checksum (head's own computed with its adjustment field
// zeroed) is known.
func assembleSfnt(sfntVersion SfntVersion, tags []string, tables map[string][]byte) ([]byte, error) {
	padded := make(map[string][]byte, len(tags))
	for _, tag := range tags {
		data := append([]byte(nil), tables[tag]...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
		padded[tag] = data
	}
	if head, ok := padded["head"]; ok && len(head) >= 12 {
		head[8], head[9], head[10], head[11] = 0, 0, 0, 0
	}

	offset := uint32(TableDirectoryByteSize(len(tags)))
	records := make([]TableRecord, len(tags))
	var headOffset uint32
	hasHead := false
	for i, tag := range tags {
		data := padded[tag]
		checksum := CalculateChecksum(data)
		records[i] = TableRecord{Tag: tag, Checksum: checksum, Offset: offset, Length: uint32(len(tables[tag]))}
		if tag == "head" {
			hasHead = true
			headOffset = offset
		}
		offset += uint32(len(data))
	}

	d := NewTableDirectory(sfntVersion, records)
	s := NewStream(nil)
	if err := d.dump(s); err != nil {
		return nil, err
	}
	directoryBytes := append([]byte(nil), s.Bytes()...)
	for _, tag := range tags {
		s.Write(padded[tag])
	}
	buf := s.Bytes()

	if hasHead {
		checksums := make([]uint32, 0, len(records)+1)
		checksums = append(checksums, CalculateChecksum(directoryBytes))
		for _, r := range records {
			checksums = append(checksums, r.Checksum)
		}
		adjustment := calculateChecksumAdjustment(checksums)
		patch := NewStream(buf)
		patch.Seek(int(headOffset) + 8)
		patch.WriteUint32(adjustment)
		buf = patch.Bytes()
	}

	return buf, nil
}

// FromGoSFNT returns the original container bytes a golang.org/x/image
// font/sfnt Font parsed from, held in its unexported src.b field: x/image
// keeps the source bytes around rather than re-encoding, so there is
// nothing to reassemble — Grounded on the teacher's own FromGoSFNT
// (font/font.go), which reads the identical field.
func FromGoSFNT(f *sfnt.Font) ([]byte, error) {
	if f == nil {
		return nil, newErrorf("font", "nil sfnt.Font")
	}
	v := reflect.ValueOf(*f)
	src := v.FieldByName("src")
	if !src.IsValid() {
		return nil, newErrorf("font", "sfnt.Font has no 'src' field")
	}
	b := src.FieldByName("b")
	if !b.IsValid() || b.Kind() != reflect.Slice {
		return nil, newErrorf("font", "sfnt.Font.src has no 'b' field")
	}
	return append([]byte(nil), b.Bytes()...), nil
}
