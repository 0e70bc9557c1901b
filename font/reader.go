package font

// cachedTable pairs a parsed table with the checksum computed over its
// raw bytes at parse time, so parseFont can later validate head's
// checksumAdjustment without re-reading anything.
type cachedTable struct {
	table    Table
	checksum uint32
}

// readerCore holds the state shared by every concrete reader
// (xtfReader, woffReader, woff2Reader): configuration, the per-reader
// table cache, and the collection-sharing policy. Concrete readers embed
// this and satisfy the sfntReader interface to plug it into
// getOrParseTable/parseFont.
type readerCore struct {
	configs        *Configs
	shareTables    bool
	verifyChecksum bool
	tablesCache    map[string]cachedTable
}

func newReaderCore(configs *Configs, shareTables, verifyChecksum bool) readerCore {
	return readerCore{
		configs:        configs,
		shareTables:    shareTables,
		verifyChecksum: verifyChecksum,
		tablesCache:    map[string]cachedTable{},
	}
}

// sfntReader is the contract a single concrete font source (plain SFNT,
// WOFF, or WOFF2) must satisfy for getOrParseTable/parseFont to drive it.
type sfntReader interface {
	core() *readerCore
	isFontCollection() bool
	sfntVersion() SfntVersion
	tableTags() []string
	reconstructHeaderData() ([]byte, error)
	readTableDataAndExpectedChecksum(tag string) ([]byte, *uint32, error)
	tableFromCollectionCache(tag string) (Table, uint32, bool)
	setTableInCollectionCache(tag string, table Table, checksum uint32)
}

// getOrParseTable resolves one table by tag, recursively resolving and
// caching its parse dependencies first. It mirrors the three-level cache
// precedence of the source this was ported from: per-reader cache, then
// collection-level cache (font-index-independent, shared across a TTC's
// members), then a fresh parse from raw bytes.
func getOrParseTable(r sfntReader, tag string) (Table, error) {
	if pre, ok := r.(interface{ beforeParseTable(tag string) error }); ok {
		if err := pre.beforeParseTable(tag); err != nil {
			return nil, err
		}
	}

	c := r.core()
	if entry, ok := c.tablesCache[tag]; ok {
		return entry.table, nil
	}

	var table Table
	var checksum uint32

	if r.isFontCollection() {
		if cached, cachedChecksum, ok := r.tableFromCollectionCache(tag); ok {
			if !c.shareTables {
				cached = cached.Copy()
			}
			c.tablesCache[tag] = cachedTable{cached, cachedChecksum}
			table, checksum = cached, cachedChecksum
		}
	}

	if table == nil {
		data, expectedChecksum, err := r.readTableDataAndExpectedChecksum(tag)
		if err != nil {
			return nil, err
		}

		if c.verifyChecksum {
			if tag == "head" {
				checksum = checksumHeadZeroed(data)
			} else {
				checksum = CalculateChecksum(data)
			}
			if expectedChecksum != nil && checksum != *expectedChecksum {
				return nil, newErrorf("reader", "%w: table %q", ErrBadChecksum, tag)
			}
		}

		tableType := lookupTableType(tag)
		dependencies := map[string]Table{}
		for _, depTag := range tableType.parseDependencies {
			depTable, err := getOrParseTable(r, depTag)
			if err != nil {
				return nil, err
			}
			dependencies[depTag] = depTable
		}

		table, err = tableType.parse(data, c.configs, dependencies)
		if err != nil {
			return nil, err
		}
		c.tablesCache[tag] = cachedTable{table, checksum}
		if r.isFontCollection() {
			r.setTableInCollectionCache(tag, table, checksum)
		}
	}

	return table, nil
}

// parseFont resolves every table the reader advertises and, for a
// non-collection member with checksum verification enabled, validates
// head.checksumAdjustment against the reconstructed whole-file checksum.
func parseFont(r sfntReader) (SfntVersion, map[string]Table, error) {
	tables := map[string]Table{}
	for _, tag := range r.tableTags() {
		if _, ok := tables[tag]; ok {
			return "", nil, newErrorf("reader", "table %q duplicate", tag)
		}
		table, err := getOrParseTable(r, tag)
		if err != nil {
			return "", nil, err
		}
		tables[tag] = table
	}

	c := r.core()
	if c.verifyChecksum && !r.isFontCollection() {
		if headEntry, ok := c.tablesCache["head"]; ok {
			headerData, err := r.reconstructHeaderData()
			if err != nil {
				return "", nil, err
			}
			checksums := []uint32{CalculateChecksum(headerData)}
			for _, entry := range c.tablesCache {
				checksums = append(checksums, entry.checksum)
			}
			adjustment := calculateChecksumAdjustment(checksums)
			headTable, ok := headEntry.table.(*HeadTable)
			if !ok {
				return "", nil, newErrorf("reader", "'head' table has unexpected type")
			}
			if adjustment != headTable.ChecksumAdjustment {
				return "", nil, newErrorf("reader", "%w: bad checksum adjustment", ErrBadChecksum)
			}
		}
	}

	return r.sfntVersion(), tables, nil
}

// sfntCollectionReader is the contract a collection-capable container
// (TTC, WOFF2 collection) satisfies to produce per-member readers.
type sfntCollectionReader interface {
	numFonts() int
	createReader(fontIndex int) (sfntReader, error)
	readTtcPayload() (*TtcPayload, error)
	readWoffPayload() (*WoffPayload, error)
}
