package font

import (
	"bytes"
	"io"
	"math"

	"github.com/andybalholm/brotli"
)

// knownWoff2TableTags is the fixed 63-entry table of well-known tags a
// WOFF2 directory entry can reference by index instead of spelling out.
var knownWoff2TableTags = []string{
	"cmap", "head", "hhea", "hmtx",
	"maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca",
	"prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern",
	"LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS",
	"GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL",
	"SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar",
	"fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar",
	"mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat",
	"Gloc", "Feat", "Sill",
}

type woff2TableDirectoryEntryFlags struct {
	tag         string
	transformed bool
}

func parseWoff2TableDirectoryEntryFlags(s *Stream) (woff2TableDirectoryEntryFlags, error) {
	value, err := s.ReadUint8()
	if err != nil {
		return woff2TableDirectoryEntryFlags{}, err
	}

	tagIndex := value & 0b0011_1111
	var tag string
	if int(tagIndex) < len(knownWoff2TableTags) {
		tag = knownWoff2TableTags[tagIndex]
	} else {
		tag, err = s.ReadTag()
		if err != nil {
			return woff2TableDirectoryEntryFlags{}, err
		}
	}

	transformVersion := value >> 6
	var transformed bool
	if tag == "glyf" || tag == "loca" {
		transformed = transformVersion != 3
	} else {
		transformed = transformVersion != 0
	}
	return woff2TableDirectoryEntryFlags{tag, transformed}, nil
}

func (f woff2TableDirectoryEntryFlags) dump(s *Stream) error {
	tagIndex := len(knownWoff2TableTags)
	for i, t := range knownWoff2TableTags {
		if t == f.tag {
			tagIndex = i
			break
		}
	}

	var transformVersion uint8
	if f.tag == "glyf" || f.tag == "loca" {
		if !f.transformed {
			transformVersion = 3
		}
	} else if f.transformed {
		transformVersion = 1
	}

	s.WriteUint8(transformVersion<<6 | uint8(tagIndex))
	if tagIndex == len(knownWoff2TableTags) {
		if _, err := s.WriteTag(f.tag); err != nil {
			return err
		}
	}
	return nil
}

// woff2TableDirectoryEntry describes one table within the WOFF2 payload:
// its position in the decompressed stream, original length, and, when
// transformed, the transform's own on-wire length.
type woff2TableDirectoryEntry struct {
	tag             string
	offset          uint32
	origLength      uint32
	transformLength *uint32
}

func (e woff2TableDirectoryEntry) transformed() bool {
	return e.transformLength != nil
}

func (e woff2TableDirectoryEntry) length() uint32 {
	if e.transformLength != nil {
		return *e.transformLength
	}
	return e.origLength
}

func parseWoff2TableDirectoryEntry(s *Stream, offset uint32) (woff2TableDirectoryEntry, error) {
	flags, err := parseWoff2TableDirectoryEntryFlags(s)
	if err != nil {
		return woff2TableDirectoryEntry{}, err
	}
	origLength, err := s.ReadUintBase128()
	if err != nil {
		return woff2TableDirectoryEntry{}, err
	}
	var transformLength *uint32
	if flags.transformed {
		length, err := s.ReadUintBase128()
		if err != nil {
			return woff2TableDirectoryEntry{}, err
		}
		if flags.tag == "loca" && length != 0 {
			return woff2TableDirectoryEntry{}, newErrorf("woff2", "%v: transformed table 'loca' length must be 0", ErrMalformedTransform)
		}
		transformLength = &length
	}
	return woff2TableDirectoryEntry{flags.tag, offset, origLength, transformLength}, nil
}

func (e woff2TableDirectoryEntry) readTableData(uncompressedStream *Stream) ([]byte, error) {
	uncompressedStream.Seek(int(e.offset))
	return uncompressedStream.Read(int(e.length()))
}

func (e woff2TableDirectoryEntry) dump(s *Stream) error {
	flags := woff2TableDirectoryEntryFlags{e.tag, e.transformed()}
	if err := flags.dump(s); err != nil {
		return err
	}
	if _, err := s.WriteUintBase128(e.origLength); err != nil {
		return err
	}
	if e.transformLength != nil {
		if e.tag == "loca" && *e.transformLength != 0 {
			return newErrorf("woff2", "%v: transformed table 'loca' length must be 0", ErrMalformedTransform)
		}
		if _, err := s.WriteUintBase128(*e.transformLength); err != nil {
			return err
		}
	}
	return nil
}

// woff2CollectionFontEntry lists, for one font of a WOFF2 collection, the
// indices into the shared table-entry array that belong to it.
type woff2CollectionFontEntry struct {
	sfntVersion SfntVersion
	indices     []int
}

func (e woff2CollectionFontEntry) numTables() int {
	return len(e.indices)
}

func parseWoff2CollectionFontEntry(s *Stream) (woff2CollectionFontEntry, error) {
	numTables, err := s.ReadUint255()
	if err != nil {
		return woff2CollectionFontEntry{}, err
	}
	tag, err := s.ReadTag()
	if err != nil {
		return woff2CollectionFontEntry{}, err
	}
	indices := make([]int, numTables)
	for i := range indices {
		index, err := s.ReadUint255()
		if err != nil {
			return woff2CollectionFontEntry{}, err
		}
		indices[i] = int(index)
	}
	return woff2CollectionFontEntry{SfntVersion(tag), indices}, nil
}

func (e woff2CollectionFontEntry) dump(s *Stream) error {
	if _, err := s.WriteUint255(uint16(e.numTables())); err != nil {
		return err
	}
	if _, err := s.WriteTag(string(e.sfntVersion)); err != nil {
		return err
	}
	for _, index := range e.indices {
		if _, err := s.WriteUint255(uint16(index)); err != nil {
			return err
		}
	}
	return nil
}

// woff2CollectionHeader is the extra header a WOFF2 file carries when its
// flavor is 'ttcf': a pointer from each collection member to its subset
// of the shared table-entry array.
type woff2CollectionHeader struct {
	majorVersion uint16
	minorVersion uint16
	fontEntries  []woff2CollectionFontEntry
}

func (h *woff2CollectionHeader) numFonts() int {
	return len(h.fontEntries)
}

func parseWoff2CollectionHeader(s *Stream) (*woff2CollectionHeader, error) {
	h := &woff2CollectionHeader{}
	var err error
	if h.majorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.minorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	numFonts, err := s.ReadUint255()
	if err != nil {
		return nil, err
	}
	h.fontEntries = make([]woff2CollectionFontEntry, numFonts)
	for i := range h.fontEntries {
		h.fontEntries[i], err = parseWoff2CollectionFontEntry(s)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *woff2CollectionHeader) dump(s *Stream) error {
	s.WriteUint16(h.majorVersion)
	s.WriteUint16(h.minorVersion)
	if _, err := s.WriteUint255(uint16(h.numFonts())); err != nil {
		return err
	}
	for _, e := range h.fontEntries {
		if err := e.dump(s); err != nil {
			return err
		}
	}
	return nil
}

// woff2Header is the WOFF2 wrapper header, including the table directory
// and, for collections, the collection header that follows it.
type woff2Header struct {
	flavor                string
	length                uint32
	totalSfntSize         uint32
	compressedDataOffset  uint32
	totalCompressedSize   uint32
	totalUncompressedSize uint32
	majorVersion          uint16
	minorVersion          uint16
	metaOffset            uint32
	metaLength            uint32
	metaOrigLength        uint32
	privOffset            uint32
	privLength            uint32
	tableDirectoryEntries []woff2TableDirectoryEntry
	collectionHeader      *woff2CollectionHeader
}

func (h *woff2Header) numTables() int {
	return len(h.tableDirectoryEntries)
}

func parseWoff2Header(s *Stream) (*woff2Header, error) {
	if _, err := s.ReadTag(); err != nil {
		return nil, err
	}
	flavor, err := s.ReadTag()
	if err != nil {
		return nil, err
	}
	h := &woff2Header{flavor: flavor}
	if h.length, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	numTables, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	if _, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.totalSfntSize, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.totalCompressedSize, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.majorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.minorVersion, err = s.ReadUint16(); err != nil {
		return nil, err
	}
	if h.metaOffset, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.metaLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.metaOrigLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.privOffset, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.privLength, err = s.ReadUint32(); err != nil {
		return nil, err
	}

	h.tableDirectoryEntries = make([]woff2TableDirectoryEntry, numTables)
	var totalUncompressedSize uint32
	for i := range h.tableDirectoryEntries {
		entry, err := parseWoff2TableDirectoryEntry(s, totalUncompressedSize)
		if err != nil {
			return nil, err
		}
		h.tableDirectoryEntries[i] = entry
		totalUncompressedSize += entry.length()
	}
	h.totalUncompressedSize = totalUncompressedSize

	if flavor == FileTagTTC {
		h.collectionHeader, err = parseWoff2CollectionHeader(s)
		if err != nil {
			return nil, err
		}
	}
	h.compressedDataOffset = uint32(s.Tell())
	return h, nil
}

func (h *woff2Header) readUncompressedData(s *Stream) ([]byte, error) {
	s.Seek(int(h.compressedDataOffset))
	data, err := s.Read(int(h.totalCompressedSize))
	if err != nil {
		return nil, err
	}
	decompressed, err := brotliDecompress(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(decompressed)) != h.totalUncompressedSize {
		return nil, newErrorf("woff2", "%v: bad uncompressed data size", ErrMalformedTransform)
	}
	return decompressed, nil
}

func (h *woff2Header) forSingleFontEntry() woff2CollectionFontEntry {
	indices := make([]int, h.numTables())
	for i := range indices {
		indices[i] = i
	}
	return woff2CollectionFontEntry{SfntVersion(h.flavor), indices}
}

func (h *woff2Header) tableDirectoryEntriesFor(fontEntry woff2CollectionFontEntry) []woff2TableDirectoryEntry {
	entries := make([]woff2TableDirectoryEntry, len(fontEntry.indices))
	for i, index := range fontEntry.indices {
		entries[i] = h.tableDirectoryEntries[index]
	}
	return entries
}

func (h *woff2Header) readMetadata(s *Stream) ([]byte, error) {
	if h.metaLength == 0 {
		return nil, nil
	}
	s.Seek(int(h.metaOffset))
	data, err := s.Read(int(h.metaLength))
	if err != nil {
		return nil, err
	}
	decompressed, err := brotliDecompress(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(decompressed)) != h.metaOrigLength {
		return nil, newErrorf("woff2", "bad metadata length")
	}
	return decompressed, nil
}

func (h *woff2Header) readPrivateData(s *Stream) ([]byte, error) {
	if h.privLength == 0 {
		return nil, nil
	}
	s.Seek(int(h.privOffset))
	return s.Read(int(h.privLength))
}

func (h *woff2Header) dump(s *Stream) error {
	if _, err := s.WriteTag(string(FileTagWOFF2)); err != nil {
		return err
	}
	if _, err := s.WriteTag(h.flavor); err != nil {
		return err
	}
	s.WriteUint32(h.length)
	s.WriteUint16(uint16(h.numTables()))
	s.WriteUint16(0)
	s.WriteUint32(h.totalSfntSize)
	s.WriteUint32(h.totalCompressedSize)
	s.WriteUint16(h.majorVersion)
	s.WriteUint16(h.minorVersion)
	s.WriteUint32(h.metaOffset)
	s.WriteUint32(h.metaLength)
	s.WriteUint32(h.metaOrigLength)
	s.WriteUint32(h.privOffset)
	s.WriteUint32(h.privLength)
	for _, e := range h.tableDirectoryEntries {
		if err := e.dump(s); err != nil {
			return err
		}
	}
	if h.collectionHeader != nil {
		if err := h.collectionHeader.dump(s); err != nil {
			return err
		}
	}
	return nil
}

func brotliDecompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, newError("woff2", err)
	}
	return out, nil
}

func brotliCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
