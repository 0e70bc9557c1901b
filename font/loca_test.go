package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestLocaIndexToLocFormatShort(t *testing.T) {
	loca := &LocaTable{Offsets: []uint32{0, 4, 10, 16}}
	test.T(t, loca.CalculateIndexToLocFormat(), IndexToLocShort)
}

func TestLocaIndexToLocFormatLongOnOddOffset(t *testing.T) {
	loca := &LocaTable{Offsets: []uint32{0, 4, 11, 16}}
	test.T(t, loca.CalculateIndexToLocFormat(), IndexToLocLong)
}

func TestLocaIndexToLocFormatLongOnLargeOffset(t *testing.T) {
	loca := &LocaTable{Offsets: []uint32{0, 0x20000}}
	test.T(t, loca.CalculateIndexToLocFormat(), IndexToLocLong)
}

func TestLocaDumpSetsHeadFormat(t *testing.T) {
	loca := &LocaTable{Offsets: []uint32{0, 4, 11, 16}}
	head := &HeadTable{IndexToLocFormat: IndexToLocShort}
	data, _, err := loca.Dump(DefaultConfigs(), map[string]Table{"head": head})
	test.Error(t, err)
	test.T(t, head.IndexToLocFormat, IndexToLocLong)
	test.T(t, len(data), len(loca.Offsets)*4)
}

func TestLocaParseRoundTrip(t *testing.T) {
	loca := &LocaTable{Offsets: []uint32{0, 6, 20, 20, 40}}
	head := &HeadTable{}
	data, _, err := loca.Dump(DefaultConfigs(), map[string]Table{"head": head})
	test.Error(t, err)

	maxp := &MaxpTable{NumGlyphs: uint16(len(loca.Offsets) - 1)}
	parsed, err := parseLocaTable(data, DefaultConfigs(), map[string]Table{"maxp": maxp, "head": head})
	test.Error(t, err)
	got := parsed.(*LocaTable)
	test.T(t, len(got.Offsets), len(loca.Offsets))
	for i, off := range loca.Offsets {
		test.T(t, got.Offsets[i], off)
	}
}
