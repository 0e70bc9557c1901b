package font

import (
	"bytes"
	"compress/zlib"
	"io"
)

// WoffTableDirectoryEntry is one WOFF 1.0 table directory entry: a table's
// location plus its original (decompressed) length and checksum.
type WoffTableDirectoryEntry struct {
	Tag          string
	Offset       uint32
	CompLength   uint32
	OrigLength   uint32
	OrigChecksum uint32
}

func parseWoffTableDirectoryEntry(s *Stream) (WoffTableDirectoryEntry, error) {
	var e WoffTableDirectoryEntry
	var err error
	if e.Tag, err = s.ReadTag(); err != nil {
		return e, err
	}
	if e.Offset, err = s.ReadUint32(); err != nil {
		return e, err
	}
	if e.CompLength, err = s.ReadUint32(); err != nil {
		return e, err
	}
	if e.OrigLength, err = s.ReadUint32(); err != nil {
		return e, err
	}
	if e.OrigChecksum, err = s.ReadUint32(); err != nil {
		return e, err
	}
	return e, nil
}

func (e WoffTableDirectoryEntry) readTableData(s *Stream) ([]byte, error) {
	s.Seek(int(e.Offset))
	data, err := s.Read(int(e.CompLength))
	if err != nil {
		return nil, err
	}
	if e.OrigLength <= e.CompLength {
		return data, nil
	}
	decompressed, err := zlibDecompress(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(decompressed)) != e.OrigLength {
		return nil, newErrorf("woff", "table %q bad data length", e.Tag)
	}
	return decompressed, nil
}

func (e WoffTableDirectoryEntry) dump(s *Stream) error {
	if _, err := s.WriteTag(e.Tag); err != nil {
		return err
	}
	s.WriteUint32(e.Offset)
	s.WriteUint32(e.CompLength)
	s.WriteUint32(e.OrigLength)
	s.WriteUint32(e.OrigChecksum)
	return nil
}

func zlibDecompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, newError("woff", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newError("woff", err)
	}
	return out, nil
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// WoffHeader is the WOFF 1.0 wrapper header.
type WoffHeader struct {
	SfntVersion           SfntVersion
	Length                uint32
	TotalSfntSize         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	MetaOffset            uint32
	MetaLength            uint32
	MetaOrigLength        uint32
	PrivOffset            uint32
	PrivLength            uint32
	TableDirectoryEntries []WoffTableDirectoryEntry
}

func (h *WoffHeader) NumTables() int {
	return len(h.TableDirectoryEntries)
}

func parseWoffHeader(s *Stream) (*WoffHeader, error) {
	if _, err := s.ReadTag(); err != nil {
		return nil, err
	}
	tag, err := s.ReadTag()
	if err != nil {
		return nil, err
	}
	h := &WoffHeader{SfntVersion: SfntVersion(tag)}
	if h.Length, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	numTables, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	if _, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.TotalSfntSize, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.MajorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.MinorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.MetaOffset, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.MetaLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.MetaOrigLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.PrivOffset, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.PrivLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	h.TableDirectoryEntries = make([]WoffTableDirectoryEntry, numTables)
	for i := range h.TableDirectoryEntries {
		h.TableDirectoryEntries[i], err = parseWoffTableDirectoryEntry(s)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *WoffHeader) readMetadata(s *Stream) ([]byte, error) {
	if h.MetaLength == 0 {
		return nil, nil
	}
	s.Seek(int(h.MetaOffset))
	data, err := s.Read(int(h.MetaLength))
	if err != nil {
		return nil, err
	}
	decompressed, err := zlibDecompress(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(decompressed)) != h.MetaOrigLength {
		return nil, newErrorf("woff", "bad metadata length")
	}
	return decompressed, nil
}

func (h *WoffHeader) readPrivateData(s *Stream) ([]byte, error) {
	if h.PrivLength == 0 {
		return nil, nil
	}
	s.Seek(int(h.PrivOffset))
	return s.Read(int(h.PrivLength))
}

func (h *WoffHeader) dump(s *Stream) error {
	if _, err := s.WriteTag(FileTagWOFF); err != nil {
		return err
	}
	if _, err := s.WriteTag(string(h.SfntVersion)); err != nil {
		return err
	}
	s.WriteUint32(h.Length)
	s.WriteUint16(uint16(h.NumTables()))
	s.WriteUint16(0)
	s.WriteUint32(h.TotalSfntSize)
	s.WriteUint16(h.MajorVersion)
	s.WriteUint16(h.MinorVersion)
	s.WriteUint32(h.MetaOffset)
	s.WriteUint32(h.MetaLength)
	s.WriteUint32(h.MetaOrigLength)
	s.WriteUint32(h.PrivOffset)
	s.WriteUint32(h.PrivLength)
	for _, e := range h.TableDirectoryEntries {
		if err := e.dump(s); err != nil {
			return err
		}
	}
	return nil
}

// woffReader reads a WOFF 1.0 font. WOFF never wraps a collection.
type woffReader struct {
	readerCore
	stream                  *Stream
	header                  *WoffHeader
	tableDirectoryEntriesByTag map[string]WoffTableDirectoryEntry
}

func newWoffReader(stream *Stream, configs *Configs, verifyChecksum bool) (*woffReader, error) {
	stream.Seek(0)
	header, err := parseWoffHeader(stream)
	if err != nil {
		return nil, newError("woff", err)
	}
	byTag := make(map[string]WoffTableDirectoryEntry, header.NumTables())
	for _, e := range header.TableDirectoryEntries {
		byTag[e.Tag] = e
	}
	return &woffReader{
		readerCore:                 newReaderCore(configs, false, verifyChecksum),
		stream:                     stream,
		header:                     header,
		tableDirectoryEntriesByTag: byTag,
	}, nil
}

func (r *woffReader) core() *readerCore { return &r.readerCore }

func (r *woffReader) isFontCollection() bool { return false }

func (r *woffReader) sfntVersion() SfntVersion { return r.header.SfntVersion }

func (r *woffReader) tableTags() []string {
	tags := make([]string, len(r.header.TableDirectoryEntries))
	for i, e := range r.header.TableDirectoryEntries {
		tags[i] = e.Tag
	}
	return tags
}

// reconstructHeaderData rebuilds a synthetic plain-SFNT table directory
// from the WOFF entries (sorted by file offset to lay out lengths, then
// re-sorted by tag, matching a plain-SFNT directory's own ordering
// convention) so its checksum can validate head.checksumAdjustment.
func (r *woffReader) reconstructHeaderData() ([]byte, error) {
	entries := append([]WoffTableDirectoryEntry(nil), r.header.TableDirectoryEntries...)
	sortWoffEntriesByOffset(entries)

	offset := uint32(TableDirectoryByteSize(r.header.NumTables()))
	records := make([]TableRecord, len(entries))
	for i, e := range entries {
		records[i] = TableRecord{Tag: e.Tag, Checksum: e.OrigChecksum, Offset: offset, Length: e.OrigLength}
		offset += e.OrigLength
		offset += 3 - (offset+3)%4
	}
	sortTableRecordsByTag(records)

	d := NewTableDirectory(r.header.SfntVersion, records)
	s := NewStream(nil)
	if err := d.dump(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func sortWoffEntriesByOffset(entries []WoffTableDirectoryEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Offset > entries[j].Offset; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

func sortTableRecordsByTag(records []TableRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j-1].Tag > records[j].Tag; j-- {
			records[j-1], records[j] = records[j], records[j-1]
		}
	}
}

func (r *woffReader) readTableDataAndExpectedChecksum(tag string) ([]byte, *uint32, error) {
	e, ok := r.tableDirectoryEntriesByTag[tag]
	if !ok {
		return nil, nil, newErrorf("woff", "unknown table %q", tag)
	}
	data, err := e.readTableData(r.stream)
	if err != nil {
		return nil, nil, err
	}
	checksum := e.OrigChecksum
	return data, &checksum, nil
}

func (r *woffReader) tableFromCollectionCache(tag string) (Table, uint32, bool) {
	return nil, 0, false
}

func (r *woffReader) setTableInCollectionCache(tag string, table Table, checksum uint32) {}

func (r *woffReader) readWoffPayload() (*WoffPayload, error) {
	metadata, err := r.header.readMetadata(r.stream)
	if err != nil {
		return nil, newError("woff", err)
	}
	privateData, err := r.header.readPrivateData(r.stream)
	if err != nil {
		return nil, newError("woff", err)
	}
	return &WoffPayload{
		MajorVersion: r.header.MajorVersion,
		MinorVersion: r.header.MinorVersion,
		Metadata:     metadata,
		PrivateData:  privateData,
	}, nil
}
