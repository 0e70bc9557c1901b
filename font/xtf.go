package font

import "math"

// TableRecord is one 16-byte entry of a plain-SFNT table directory.
type TableRecord struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
}

func parseTableRecord(s *Stream) (TableRecord, error) {
	var r TableRecord
	var err error
	if r.Tag, err = s.ReadTag(); err != nil {
		return r, err
	}
	if r.Checksum, err = s.ReadUint32(); err != nil {
		return r, err
	}
	if r.Offset, err = s.ReadOffset32(); err != nil {
		return r, err
	}
	if r.Length, err = s.ReadUint32(); err != nil {
		return r, err
	}
	return r, nil
}

func (r TableRecord) readTableData(s *Stream) ([]byte, error) {
	s.Seek(int(r.Offset))
	return s.Read(int(r.Length))
}

func (r TableRecord) dump(s *Stream) error {
	if _, err := s.WriteTag(r.Tag); err != nil {
		return err
	}
	s.WriteUint32(r.Checksum)
	s.WriteOffset32(r.Offset)
	s.WriteUint32(r.Length)
	return nil
}

// TableDirectory is the SFNT header: a binary-search-friendly directory
// of TableRecords.
type TableDirectory struct {
	SfntVersion  SfntVersion
	SearchRange  uint16
	EntrySelector uint16
	RangeShift   uint16
	TableRecords []TableRecord
}

func (d *TableDirectory) NumTables() int {
	return len(d.TableRecords)
}

// TableDirectoryByteSize returns the on-wire size of a directory header
// with numTables records, before any table payload.
func TableDirectoryByteSize(numTables int) int {
	return 4 + 2 + 2 + 2 + 2 + (4+4+4+4)*numTables
}

// NewTableDirectory computes searchRange/entrySelector/rangeShift from the
// record count, per the binary-search layout the directory advertises.
func NewTableDirectory(sfntVersion SfntVersion, tableRecords []TableRecord) *TableDirectory {
	numTables := len(tableRecords)
	entrySelector := 0
	if numTables > 0 {
		entrySelector = int(math.Floor(math.Log2(float64(numTables))))
	}
	searchRange := (1 << entrySelector) * 16
	rangeShift := numTables*16 - searchRange
	return &TableDirectory{
		SfntVersion:   sfntVersion,
		SearchRange:   uint16(searchRange),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(rangeShift),
		TableRecords:  tableRecords,
	}
}

func parseTableDirectory(s *Stream) (*TableDirectory, error) {
	tag, err := s.ReadTag()
	if err != nil {
		return nil, err
	}
	d := &TableDirectory{SfntVersion: SfntVersion(tag)}
	numTables, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	if d.SearchRange, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if d.EntrySelector, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if d.RangeShift, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	d.TableRecords = make([]TableRecord, numTables)
	for i := range d.TableRecords {
		d.TableRecords[i], err = parseTableRecord(s)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *TableDirectory) dump(s *Stream) error {
	if _, err := s.WriteTag(string(d.SfntVersion)); err != nil {
		return err
	}
	s.WriteUint16(uint16(d.NumTables()))
	s.WriteUint16(d.SearchRange)
	s.WriteUint16(d.EntrySelector)
	s.WriteUint16(d.RangeShift)
	for _, r := range d.TableRecords {
		if err := r.dump(s); err != nil {
			return err
		}
	}
	return nil
}

// TtcHeader is the TrueType Collection header: an array of per-font
// table-directory offsets, plus (version 2.0 only) a shared DSIG pointer.
type TtcHeader struct {
	MajorVersion           uint16
	MinorVersion           uint16
	TableDirectoryOffsets  []uint32
	DsigLength             uint32
	DsigOffset             uint32
}

func (h *TtcHeader) NumFonts() int {
	return len(h.TableDirectoryOffsets)
}

func parseTtcHeader(s *Stream) (*TtcHeader, error) {
	if _, err := s.ReadTag(); err != nil {
		return nil, err
	}
	h := &TtcHeader{}
	var err error
	if h.MajorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.MinorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	numFonts, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	h.TableDirectoryOffsets = make([]uint32, numFonts)
	for i := range h.TableDirectoryOffsets {
		h.TableDirectoryOffsets[i], err = s.ReadOffset32()
		if err != nil {
			return nil, err
		}
	}

	switch {
	case h.MajorVersion == 1 && h.MinorVersion == 0:
	case h.MajorVersion == 2 && h.MinorVersion == 0:
		if _, err := s.ReadTag(); err != nil {
			return nil, err
		}
		if h.DsigLength, err = s.ReadUint32(); err != nil {
			return nil, err
		}
		if h.DsigOffset, err = s.ReadUint32(); err != nil {
			return nil, err
		}
	default:
		return nil, newErrorf("ttc", "%v: unsupported ttc header version", ErrUnsupportedVersion)
	}
	return h, nil
}

func (h *TtcHeader) readTableDirectory(s *Stream, fontIndex int) (*TableDirectory, uint32, error) {
	if fontIndex < 0 || fontIndex >= len(h.TableDirectoryOffsets) {
		return nil, 0, newErrorf("ttc", "%v", ErrMissingFontIndex)
	}
	offset := h.TableDirectoryOffsets[fontIndex]
	s.Seek(int(offset))
	d, err := parseTableDirectory(s)
	return d, offset, err
}

func (h *TtcHeader) readDsigTableData(s *Stream) ([]byte, error) {
	if h.DsigLength == 0 {
		return nil, nil
	}
	s.Seek(int(h.DsigOffset))
	return s.Read(int(h.DsigLength))
}

func (h *TtcHeader) dump(s *Stream) error {
	if _, err := s.WriteTag(FileTagTTC); err != nil {
		return err
	}
	s.WriteUint16(h.MajorVersion)
	s.WriteUint16(h.MinorVersion)
	s.WriteUint32(uint32(h.NumFonts()))
	for _, offset := range h.TableDirectoryOffsets {
		s.WriteOffset32(offset)
	}

	switch {
	case h.MajorVersion == 1 && h.MinorVersion == 0:
	case h.MajorVersion == 2 && h.MinorVersion == 0:
		dsigTag := "\x00\x00\x00\x00"
		if h.DsigLength > 0 {
			dsigTag = "DSIG"
		}
		if _, err := s.WriteTag(dsigTag); err != nil {
			return err
		}
		s.WriteUint32(h.DsigLength)
		s.WriteUint32(h.DsigOffset)
	default:
		return newErrorf("ttc", "%v: unsupported ttc header version", ErrUnsupportedVersion)
	}
	return nil
}
