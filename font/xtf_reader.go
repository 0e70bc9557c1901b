package font

// collectionCacheKey identifies a table shared across the members of a
// collection: tag plus byte offset, since distinct members may reuse
// identical table bytes at the same or different offsets.
type collectionCacheKey struct {
	tag    string
	offset uint32
}

// xtfReader reads a single plain-SFNT font, either standalone or as one
// member of a TrueType Collection.
type xtfReader struct {
	readerCore
	stream                 *Stream
	tableDirectory         *TableDirectory
	tableDirectoryOffset   uint32
	tableRecordsByTag      map[string]TableRecord
	collectionTablesCache  map[collectionCacheKey]cachedTable
}

func newXtfReader(stream *Stream, configs *Configs, verifyChecksum bool) (*xtfReader, error) {
	stream.Seek(0)
	d, err := parseTableDirectory(stream)
	if err != nil {
		return nil, newError("xtf", err)
	}
	return makeXtfReader(stream, configs, d, 0, nil, false, verifyChecksum), nil
}

func newXtfReaderFromTtc(stream *Stream, fontIndex int, configs *Configs, verifyChecksum bool) (*xtfReader, error) {
	stream.Seek(0)
	header, err := parseTtcHeader(stream)
	if err != nil {
		return nil, newError("xtf", err)
	}
	d, offset, err := header.readTableDirectory(stream, fontIndex)
	if err != nil {
		return nil, newError("xtf", err)
	}
	return makeXtfReader(stream, configs, d, offset, nil, false, verifyChecksum), nil
}

func makeXtfReader(
	stream *Stream,
	configs *Configs,
	tableDirectory *TableDirectory,
	tableDirectoryOffset uint32,
	collectionTablesCache map[collectionCacheKey]cachedTable,
	shareTables bool,
	verifyChecksum bool,
) *xtfReader {
	byTag := make(map[string]TableRecord, tableDirectory.NumTables())
	for _, r := range tableDirectory.TableRecords {
		byTag[r.Tag] = r
	}
	return &xtfReader{
		readerCore:            newReaderCore(configs, shareTables, verifyChecksum),
		stream:                stream,
		tableDirectory:        tableDirectory,
		tableDirectoryOffset:  tableDirectoryOffset,
		tableRecordsByTag:     byTag,
		collectionTablesCache: collectionTablesCache,
	}
}

func (r *xtfReader) core() *readerCore { return &r.readerCore }

func (r *xtfReader) isFontCollection() bool { return r.collectionTablesCache != nil }

func (r *xtfReader) sfntVersion() SfntVersion { return r.tableDirectory.SfntVersion }

func (r *xtfReader) tableTags() []string {
	tags := make([]string, len(r.tableDirectory.TableRecords))
	for i, rec := range r.tableDirectory.TableRecords {
		tags[i] = rec.Tag
	}
	return tags
}

func (r *xtfReader) reconstructHeaderData() ([]byte, error) {
	r.stream.Seek(int(r.tableDirectoryOffset))
	return r.stream.Read(TableDirectoryByteSize(r.tableDirectory.NumTables()))
}

func (r *xtfReader) readTableDataAndExpectedChecksum(tag string) ([]byte, *uint32, error) {
	rec, ok := r.tableRecordsByTag[tag]
	if !ok {
		return nil, nil, newErrorf("xtf", "unknown table %q", tag)
	}
	data, err := rec.readTableData(r.stream)
	if err != nil {
		return nil, nil, err
	}
	checksum := rec.Checksum
	return data, &checksum, nil
}

func (r *xtfReader) tableFromCollectionCache(tag string) (Table, uint32, bool) {
	if r.collectionTablesCache == nil {
		return nil, 0, false
	}
	rec, ok := r.tableRecordsByTag[tag]
	if !ok {
		return nil, 0, false
	}
	entry, ok := r.collectionTablesCache[collectionCacheKey{tag, rec.Offset}]
	if !ok {
		return nil, 0, false
	}
	return entry.table, entry.checksum, true
}

func (r *xtfReader) setTableInCollectionCache(tag string, table Table, checksum uint32) {
	if r.collectionTablesCache == nil {
		return
	}
	rec, ok := r.tableRecordsByTag[tag]
	if !ok {
		return
	}
	r.collectionTablesCache[collectionCacheKey{tag, rec.Offset}] = cachedTable{table, checksum}
}

// xtfCollectionReader reads a TrueType Collection (.ttc).
type xtfCollectionReader struct {
	stream                *Stream
	configs               *Configs
	header                *TtcHeader
	collectionTablesCache map[collectionCacheKey]cachedTable
	shareTables           bool
	verifyChecksum        bool
}

func newXtfCollectionReader(stream *Stream, configs *Configs, shareTables, verifyChecksum bool) (*xtfCollectionReader, error) {
	stream.Seek(0)
	header, err := parseTtcHeader(stream)
	if err != nil {
		return nil, newError("xtf", err)
	}
	return &xtfCollectionReader{
		stream:                stream,
		configs:               configs,
		header:                header,
		collectionTablesCache: map[collectionCacheKey]cachedTable{},
		shareTables:           shareTables,
		verifyChecksum:        verifyChecksum,
	}, nil
}

func (r *xtfCollectionReader) numFonts() int { return r.header.NumFonts() }

func (r *xtfCollectionReader) createReader(fontIndex int) (sfntReader, error) {
	d, offset, err := r.header.readTableDirectory(r.stream, fontIndex)
	if err != nil {
		return nil, newError("xtf", err)
	}
	return makeXtfReader(r.stream, r.configs, d, offset, r.collectionTablesCache, r.shareTables, r.verifyChecksum), nil
}

func (r *xtfCollectionReader) readTtcPayload() (*TtcPayload, error) {
	data, err := r.header.readDsigTableData(r.stream)
	if err != nil {
		return nil, newError("xtf", err)
	}
	payload := &TtcPayload{MajorVersion: r.header.MajorVersion, MinorVersion: r.header.MinorVersion}
	if data != nil {
		table, err := parseDsigTable(data, r.configs, nil)
		if err != nil {
			return nil, newError("xtf", err)
		}
		payload.DsigTable = table.(*DsigTable)
	}
	return payload, nil
}

func (r *xtfCollectionReader) readWoffPayload() (*WoffPayload, error) {
	return nil, nil
}
