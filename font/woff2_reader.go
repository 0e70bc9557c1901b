package font

// woff2Reader reads a single font from a WOFF2 file, standalone or as one
// member of a WOFF2-wrapped collection.
type woff2Reader struct {
	readerCore
	stream                     *Stream
	uncompressedStream         *Stream
	header                     *woff2Header
	fontEntry                  woff2CollectionFontEntry
	tableDirectoryEntriesByTag map[string]woff2TableDirectoryEntry
	collectionTablesCache      map[collectionCacheKey]cachedTable
}

func newWoff2Reader(stream *Stream, configs *Configs) (*woff2Reader, error) {
	stream.Seek(0)
	header, err := parseWoff2Header(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	uncompressedData, err := header.readUncompressedData(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	return makeWoff2Reader(stream, NewStream(uncompressedData), configs, header, header.forSingleFontEntry(), false, nil), nil
}

// newWoff2ReaderFromTtc reads one member by index out of a ttcf-flavored
// WOFF2 file, standalone (not via a full ParseCollection). It never shares
// a table cache across members, matching newXtfReaderFromTtc.
func newWoff2ReaderFromTtc(stream *Stream, fontIndex int, configs *Configs) (*woff2Reader, error) {
	stream.Seek(0)
	header, err := parseWoff2Header(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	if header.collectionHeader == nil {
		return nil, newErrorf("woff2", "%v: not a collection", ErrUnsupportedFont)
	}
	fontEntries := header.collectionHeader.fontEntries
	if fontIndex < 0 || fontIndex >= len(fontEntries) {
		return nil, newErrorf("woff2", "%v: font index %d", ErrMissingFontIndex, fontIndex)
	}
	uncompressedData, err := header.readUncompressedData(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	return makeWoff2Reader(stream, NewStream(uncompressedData), configs, header, fontEntries[fontIndex], false, nil), nil
}

func makeWoff2Reader(
	stream *Stream,
	uncompressedStream *Stream,
	configs *Configs,
	header *woff2Header,
	fontEntry woff2CollectionFontEntry,
	shareTables bool,
	collectionTablesCache map[collectionCacheKey]cachedTable,
) *woff2Reader {
	entries := header.tableDirectoryEntriesFor(fontEntry)
	byTag := make(map[string]woff2TableDirectoryEntry, len(entries))
	for _, e := range entries {
		byTag[e.tag] = e
	}
	return &woff2Reader{
		readerCore:                 newReaderCore(configs, shareTables, false),
		stream:                     stream,
		uncompressedStream:         uncompressedStream,
		header:                     header,
		fontEntry:                  fontEntry,
		tableDirectoryEntriesByTag: byTag,
		collectionTablesCache:      collectionTablesCache,
	}
}

func (r *woff2Reader) core() *readerCore { return &r.readerCore }

func (r *woff2Reader) isFontCollection() bool { return r.collectionTablesCache != nil }

func (r *woff2Reader) sfntVersion() SfntVersion { return r.fontEntry.sfntVersion }

func (r *woff2Reader) tableTags() []string {
	entries := r.header.tableDirectoryEntriesFor(r.fontEntry)
	tags := make([]string, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	return tags
}

// reconstructHeaderData rebuilds a synthetic plain-SFNT table directory
// from the WOFF2 entries this member advertises, mirroring woffReader's
// approach but using each entry's original (untransformed) length.
func (r *woff2Reader) reconstructHeaderData() ([]byte, error) {
	entries := r.header.tableDirectoryEntriesFor(r.fontEntry)

	offset := uint32(TableDirectoryByteSize(len(entries)))
	records := make([]TableRecord, len(entries))
	for i, e := range entries {
		records[i] = TableRecord{Tag: e.tag, Checksum: 0, Offset: offset, Length: e.origLength}
		offset += e.origLength
		offset += 3 - (offset+3)%4
	}
	sortTableRecordsByTag(records)

	d := NewTableDirectory(r.fontEntry.sfntVersion, records)
	s := NewStream(nil)
	if err := d.dump(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// readTableDataAndExpectedChecksum never returns an expected checksum:
// WOFF2 table directory entries carry no per-table checksum field, and a
// reader never verifies checksums on a WOFF2 source.
func (r *woff2Reader) readTableDataAndExpectedChecksum(tag string) ([]byte, *uint32, error) {
	e, ok := r.tableDirectoryEntriesByTag[tag]
	if !ok {
		return nil, nil, newErrorf("woff2", "unknown table %q", tag)
	}
	data, err := e.readTableData(r.uncompressedStream)
	if err != nil {
		return nil, nil, err
	}
	return data, nil, nil
}

func (r *woff2Reader) tableFromCollectionCache(tag string) (Table, uint32, bool) {
	if r.collectionTablesCache == nil {
		return nil, 0, false
	}
	e, ok := r.tableDirectoryEntriesByTag[tag]
	if !ok {
		return nil, 0, false
	}
	entry, ok := r.collectionTablesCache[collectionCacheKey{tag, e.offset}]
	if !ok {
		return nil, 0, false
	}
	return entry.table, entry.checksum, true
}

func (r *woff2Reader) setTableInCollectionCache(tag string, table Table, checksum uint32) {
	if r.collectionTablesCache == nil {
		return
	}
	e, ok := r.tableDirectoryEntriesByTag[tag]
	if !ok {
		return
	}
	r.collectionTablesCache[collectionCacheKey{tag, e.offset}] = cachedTable{table, checksum}
}

// beforeParseTable materializes 'glyf' and 'loca' together the first time
// either is requested: WOFF2 stores glyf in a transformed representation
// that a decoder must expand into both tables at once, since the
// reconstructed loca offsets only exist as a side effect of laying the
// decoded glyph records back out.
func (r *woff2Reader) beforeParseTable(tag string) error {
	if tag == "hmtx" {
		return r.beforeParseHmtx()
	}
	if tag != "glyf" && tag != "loca" {
		return nil
	}

	c := r.core()
	if _, ok := c.tablesCache["glyf"]; ok {
		if _, ok := c.tablesCache["loca"]; ok {
			return nil
		}
	}
	if r.isFontCollection() {
		if _, _, ok := r.tableFromCollectionCache("glyf"); ok {
			if _, _, ok := r.tableFromCollectionCache("loca"); ok {
				return nil
			}
		}
	}

	glyfEntry, ok := r.tableDirectoryEntriesByTag["glyf"]
	if !ok {
		return nil
	}
	locaEntry, ok := r.tableDirectoryEntriesByTag["loca"]
	if !ok {
		return nil
	}
	if glyfEntry.transformed() != locaEntry.transformed() {
		return newErrorf("woff2", "%v: 'glyf' and 'loca' transform flags disagree", ErrMalformedTransform)
	}
	if !glyfEntry.transformed() {
		return nil
	}

	maxpTable, err := getOrParseTable(r, "maxp")
	if err != nil {
		return err
	}
	maxp, ok := maxpTable.(*MaxpTable)
	if !ok {
		return newErrorf("woff2", "'maxp' table has unexpected type")
	}

	data, err := glyfEntry.readTableData(r.uncompressedStream)
	if err != nil {
		return err
	}
	transformed, err := parseTransformedGlyfTable(data)
	if err != nil {
		return err
	}
	if transformed.numGlyphs != int(maxp.NumGlyphs) {
		return newErrorf("woff2", "%v: transformed glyf glyph count mismatch", ErrCountMismatch)
	}
	glyfTable, err := transformed.reconstruct()
	if err != nil {
		return err
	}

	_, mutated, err := glyfTable.Dump(c.configs, nil)
	if err != nil {
		return err
	}
	locaTable, ok := mutated["loca"].(*LocaTable)
	if !ok {
		return newErrorf("woff2", "glyf dump did not produce a loca table")
	}

	c.tablesCache["glyf"] = cachedTable{glyfTable, 0}
	c.tablesCache["loca"] = cachedTable{locaTable, 0}
	if r.isFontCollection() {
		r.setTableInCollectionCache("glyf", glyfTable, 0)
		r.setTableInCollectionCache("loca", locaTable, 0)
	}
	return nil
}

// beforeParseHmtx materializes 'hmtx' from its WOFF2 transform the first
// time it is requested, recovering any omitted left side bearing from the
// corresponding glyph's xMin.
func (r *woff2Reader) beforeParseHmtx() error {
	c := r.core()
	if _, ok := c.tablesCache["hmtx"]; ok {
		return nil
	}
	if r.isFontCollection() {
		if _, _, ok := r.tableFromCollectionCache("hmtx"); ok {
			return nil
		}
	}

	hmtxEntry, ok := r.tableDirectoryEntriesByTag["hmtx"]
	if !ok || !hmtxEntry.transformed() {
		return nil
	}

	maxpTable, err := getOrParseTable(r, "maxp")
	if err != nil {
		return err
	}
	maxp, ok := maxpTable.(*MaxpTable)
	if !ok {
		return newErrorf("woff2", "'maxp' table has unexpected type")
	}
	hheaTable, err := getOrParseTable(r, "hhea")
	if err != nil {
		return err
	}
	hhea, ok := hheaTable.(*HheaTable)
	if !ok {
		return newErrorf("woff2", "'hhea' table has unexpected type")
	}
	glyfTable, err := getOrParseTable(r, "glyf")
	if err != nil {
		return err
	}
	glyf, ok := glyfTable.(*GlyfTable)
	if !ok {
		return newErrorf("woff2", "'glyf' table has unexpected type")
	}

	data, err := hmtxEntry.readTableData(r.uncompressedStream)
	if err != nil {
		return err
	}
	transformed, err := parseTransformedHmtxTable(data, maxp, hhea)
	if err != nil {
		return err
	}
	hmtx, err := transformed.reconstruct(maxp, hhea, glyf)
	if err != nil {
		return err
	}

	c.tablesCache["hmtx"] = cachedTable{hmtx, 0}
	if r.isFontCollection() {
		r.setTableInCollectionCache("hmtx", hmtx, 0)
	}
	return nil
}

func (r *woff2Reader) readWoffPayload() (*WoffPayload, error) {
	metadata, err := r.header.readMetadata(r.stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	privateData, err := r.header.readPrivateData(r.stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	return &WoffPayload{
		MajorVersion: r.header.majorVersion,
		MinorVersion: r.header.minorVersion,
		Metadata:     metadata,
		PrivateData:  privateData,
	}, nil
}

// woff2CollectionReader reads a WOFF2-wrapped TrueType Collection. The
// payload is decompressed once and shared by every member reader it hands
// out, along with the table cache that lets members reuse identical table
// bytes.
type woff2CollectionReader struct {
	stream                *Stream
	uncompressedStream    *Stream
	configs               *Configs
	header                *woff2Header
	shareTables           bool
	collectionTablesCache map[collectionCacheKey]cachedTable
}

func newWoff2CollectionReader(stream *Stream, configs *Configs, shareTables bool) (*woff2CollectionReader, error) {
	stream.Seek(0)
	header, err := parseWoff2Header(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	if header.collectionHeader == nil {
		return nil, newErrorf("woff2", "%v: not a collection", ErrUnsupportedFont)
	}
	uncompressedData, err := header.readUncompressedData(stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	return &woff2CollectionReader{
		stream:                stream,
		uncompressedStream:    NewStream(uncompressedData),
		configs:               configs,
		header:                header,
		shareTables:           shareTables,
		collectionTablesCache: map[collectionCacheKey]cachedTable{},
	}, nil
}

func (r *woff2CollectionReader) numFonts() int { return r.header.collectionHeader.numFonts() }

func (r *woff2CollectionReader) createReader(fontIndex int) (sfntReader, error) {
	if fontIndex < 0 || fontIndex >= r.header.collectionHeader.numFonts() {
		return nil, newErrorf("woff2", "%v: font index %d", ErrMissingFontIndex, fontIndex)
	}
	fontEntry := r.header.collectionHeader.fontEntries[fontIndex]
	return makeWoff2Reader(r.stream, r.uncompressedStream, r.configs, r.header, fontEntry, r.shareTables, r.collectionTablesCache), nil
}

// readTtcPayload always returns a default payload: a WOFF2 collection
// carries its own version pair in the wrapper header, and this slot exists
// only to satisfy the TrueType Collection payload shape uniformly across
// container kinds.
func (r *woff2CollectionReader) readTtcPayload() (*TtcPayload, error) {
	return &TtcPayload{}, nil
}

func (r *woff2CollectionReader) readWoffPayload() (*WoffPayload, error) {
	metadata, err := r.header.readMetadata(r.stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	privateData, err := r.header.readPrivateData(r.stream)
	if err != nil {
		return nil, newError("woff2", err)
	}
	return &WoffPayload{
		MajorVersion: r.header.majorVersion,
		MinorVersion: r.header.minorVersion,
		Metadata:     metadata,
		PrivateData:  privateData,
	}, nil
}
