package font

import (
	"testing"

	"github.com/tdewolff/test"
)

// sharedMaxpStream is a minimal version-0.5 maxp table: two CFF fonts in a
// collection pointing at the same bytes should resolve to the same parsed
// table when shareTables is set.
func sharedMaxpStream() (*Stream, TableRecord) {
	body := NewStream(nil)
	if _, err := body.WriteVersion16Dot16(0, 5); err != nil {
		panic(err)
	}
	body.WriteUint16(7)

	s := NewStream(nil)
	s.Write(make([]byte, 100))
	offset := s.Len()
	s.Write(body.Bytes())

	rec := TableRecord{Tag: "maxp", Offset: uint32(offset), Length: uint32(len(body.Bytes()))}
	return s, rec
}

func TestCollectionCacheSharesTableByOffset(t *testing.T) {
	stream, rec := sharedMaxpStream()
	configs := DefaultConfigs()
	cache := map[collectionCacheKey]cachedTable{}

	dirA := &TableDirectory{SfntVersion: SfntVersionTrueType, TableRecords: []TableRecord{rec}}
	dirB := &TableDirectory{SfntVersion: SfntVersionTrueType, TableRecords: []TableRecord{rec}}
	readerA := makeXtfReader(stream, configs, dirA, 0, cache, true, false)
	readerB := makeXtfReader(stream, configs, dirB, 0, cache, true, false)

	tableA, err := getOrParseTable(readerA, "maxp")
	test.Error(t, err)
	tableB, err := getOrParseTable(readerB, "maxp")
	test.Error(t, err)

	test.That(t, len(cache) == 1)
	test.That(t, tableA == tableB)
}

func TestCollectionCacheCopiesWhenNotSharing(t *testing.T) {
	stream, rec := sharedMaxpStream()
	configs := DefaultConfigs()
	cache := map[collectionCacheKey]cachedTable{}

	dirA := &TableDirectory{SfntVersion: SfntVersionTrueType, TableRecords: []TableRecord{rec}}
	dirB := &TableDirectory{SfntVersion: SfntVersionTrueType, TableRecords: []TableRecord{rec}}
	readerA := makeXtfReader(stream, configs, dirA, 0, cache, false, false)
	readerB := makeXtfReader(stream, configs, dirB, 0, cache, false, false)

	tableA, err := getOrParseTable(readerA, "maxp")
	test.Error(t, err)
	tableB, err := getOrParseTable(readerB, "maxp")
	test.Error(t, err)

	test.That(t, tableA != tableB)
	test.T(t, tableA.(*MaxpTable).NumGlyphs, tableB.(*MaxpTable).NumGlyphs)
}
