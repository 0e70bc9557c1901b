package font

import (
	"os"
	"reflect"
	"sort"
)

// tableVariantChecks lets Font.Set reject a table installed under a known
// tag with the wrong concrete type, the static-language stand-in for the
// registry's class binding (see SPEC_FULL.md: "Dynamic dispatch of tables").
var tableVariantChecks = map[string]func(Table) bool{
	"head": func(t Table) bool { _, ok := t.(*HeadTable); return ok },
	"maxp": func(t Table) bool { _, ok := t.(*MaxpTable); return ok },
	"hhea": func(t Table) bool { _, ok := t.(*HheaTable); return ok },
	"vhea": func(t Table) bool { _, ok := t.(*VheaTable); return ok },
	"hmtx": func(t Table) bool { _, ok := t.(*HmtxTable); return ok },
	"vmtx": func(t Table) bool { _, ok := t.(*VmtxTable); return ok },
	"loca": func(t Table) bool { _, ok := t.(*LocaTable); return ok },
	"glyf": func(t Table) bool { _, ok := t.(*GlyfTable); return ok },
	"DSIG": func(t Table) bool { _, ok := t.(*DsigTable); return ok },
	"CFF ": func(t Table) bool { _, ok := t.(*CffTable); return ok },
	"CFF2": func(t Table) bool { _, ok := t.(*Cff2Table); return ok },
}

// Font is a parsed font: an SFNT version plus a tag-keyed set of
// structural tables. WoffPayload, when non-nil, is the metadata/private
// data a WOFF or WOFF2 wrapper carried alongside this font; it is never a
// table in its own right (SPEC_FULL.md: "Payloads as cross-cutting state").
type Font struct {
	SfntVersion SfntVersion
	Tables      map[string]Table
	WoffPayload *WoffPayload
}

func newFont(sfntVersion SfntVersion, tables map[string]Table) *Font {
	return &Font{SfntVersion: sfntVersion, Tables: tables}
}

// Set installs table under tag, validating the tag's shape and, for tags
// the registry recognizes, the table's concrete type.
func (f *Font) Set(tag string, table Table) error {
	if err := validateTag(tag); err != nil {
		return err
	}
	if check, ok := tableVariantChecks[tag]; ok && !check(table) {
		return newErrorf("font", "table %q has unexpected type", tag)
	}
	if f.Tables == nil {
		f.Tables = map[string]Table{}
	}
	f.Tables[tag] = table
	return nil
}

// Get returns the table installed under tag, if any.
func (f *Font) Get(tag string) (Table, bool) {
	t, ok := f.Tables[tag]
	return t, ok
}

// Tags returns every installed tag, sorted for deterministic iteration.
func (f *Font) Tags() []string {
	tags := make([]string, 0, len(f.Tables))
	for tag := range f.Tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Copy returns a deep copy sharing no mutable state with f.
func (f *Font) Copy() *Font {
	tables := make(map[string]Table, len(f.Tables))
	for tag, t := range f.Tables {
		tables[tag] = t.Copy()
	}
	return &Font{
		SfntVersion: f.SfntVersion,
		Tables:      tables,
		WoffPayload: f.WoffPayload.Copy(),
	}
}

// Equal reports whether f and other carry structurally equal tables,
// ignoring any tag named in except. Comparing an SFNT against its WOFF2
// re-encoding should pass except "head", "DSIG": WOFF2 never preserves
// head.checksumAdjustment or a DSIG table.
func (f *Font) Equal(other *Font, except ...string) bool {
	if other == nil {
		return false
	}
	if f.SfntVersion != other.SfntVersion {
		return false
	}
	skip := make(map[string]bool, len(except))
	for _, tag := range except {
		skip[tag] = true
	}
	seen := make(map[string]bool, len(f.Tables))
	for tag, t := range f.Tables {
		if skip[tag] {
			continue
		}
		seen[tag] = true
		o, ok := other.Tables[tag]
		if !ok || !reflect.DeepEqual(t, o) {
			return false
		}
	}
	for tag := range other.Tables {
		if skip[tag] || seen[tag] {
			continue
		}
		return false
	}
	return true
}

// FontCollection is an ordered list of Fonts sharing one container file.
// Ttc/WoffPayload, when non-nil, are the companion state (shared DSIG and
// version, or WOFF2 wrapper metadata/private data) the container carried
// alongside its members rather than inside any one of them.
type FontCollection struct {
	Fonts       []*Font
	TtcPayload  *TtcPayload
	WoffPayload *WoffPayload
}

// Copy returns a deep copy sharing no mutable state with c.
func (c *FontCollection) Copy() *FontCollection {
	fonts := make([]*Font, len(c.Fonts))
	for i, f := range c.Fonts {
		fonts[i] = f.Copy()
	}
	return &FontCollection{
		Fonts:       fonts,
		TtcPayload:  c.TtcPayload.Copy(),
		WoffPayload: c.WoffPayload.Copy(),
	}
}

// Equal reports whether c and other carry the same number of fonts, each
// structurally equal under Font.Equal with the same excepted tags.
func (c *FontCollection) Equal(other *FontCollection, except ...string) bool {
	if other == nil || len(c.Fonts) != len(other.Fonts) {
		return false
	}
	for i, f := range c.Fonts {
		if !f.Equal(other.Fonts[i], except...) {
			return false
		}
	}
	return true
}

// peekTag reads the leading 4-byte tag that every supported container
// format begins with, without consuming the caller's slice.
func peekTag(data []byte) (string, error) {
	if len(data) < 4 {
		return "", newError("font", ErrEndOfStream)
	}
	return string(data[:4]), nil
}

// peekWoff2Flavor reads the sfntVersion/flavor field at byte offset 4 of a
// WOFF2 file, which for a collection is literally the ttcf tag and for a
// standalone font is the wrapped SFNT version.
func peekWoff2Flavor(data []byte) (string, error) {
	if len(data) < 8 {
		return "", newError("font", ErrEndOfStream)
	}
	return string(data[4:8]), nil
}

func readerToFont(r sfntReader) (*Font, error) {
	sfntVersion, tables, err := parseFont(r)
	if err != nil {
		return nil, err
	}
	return newFont(sfntVersion, tables), nil
}

// Parse dispatches on data's leading 4-byte tag to read a single font out
// of a plain SFNT, a TrueType Collection member, a WOFF 1.0 file, or a
// WOFF2 file (standalone or one member of a ttcf-flavored WOFF2). fontIndex
// is required, and its absence a fatal error, exactly when the container is
// a collection (ttcf, or WOFF2 flavored ttcf).
func Parse(data []byte, configs *Configs, fontIndex *int, verifyChecksum bool) (*Font, error) {
	if configs == nil {
		configs = DefaultConfigs()
	}
	tag, err := peekTag(data)
	if err != nil {
		return nil, err
	}

	switch {
	case tag == FileTagTTC:
		if fontIndex == nil {
			return nil, newErrorf("font", "%v: ttc requires a font index", ErrMissingFontIndex)
		}
		r, err := newXtfReaderFromTtc(NewStream(data), *fontIndex, configs, verifyChecksum)
		if err != nil {
			return nil, err
		}
		return readerToFont(r)

	case tag == FileTagWOFF:
		r, err := newWoffReader(NewStream(data), configs, verifyChecksum)
		if err != nil {
			return nil, err
		}
		font, err := readerToFont(r)
		if err != nil {
			return nil, err
		}
		if font.WoffPayload, err = r.readWoffPayload(); err != nil {
			return nil, err
		}
		return font, nil

	case tag == FileTagWOFF2:
		flavor, err := peekWoff2Flavor(data)
		if err != nil {
			return nil, err
		}
		if flavor == FileTagTTC {
			if fontIndex == nil {
				return nil, newErrorf("font", "%v: woff2 collection requires a font index", ErrMissingFontIndex)
			}
			r, err := newWoff2ReaderFromTtc(NewStream(data), *fontIndex, configs)
			if err != nil {
				return nil, err
			}
			font, err := readerToFont(r)
			if err != nil {
				return nil, err
			}
			if font.WoffPayload, err = r.readWoffPayload(); err != nil {
				return nil, err
			}
			return font, nil
		}
		r, err := newWoff2Reader(NewStream(data), configs)
		if err != nil {
			return nil, err
		}
		font, err := readerToFont(r)
		if err != nil {
			return nil, err
		}
		if font.WoffPayload, err = r.readWoffPayload(); err != nil {
			return nil, err
		}
		return font, nil

	case isSfntVersion(tag):
		r, err := newXtfReader(NewStream(data), configs, verifyChecksum)
		if err != nil {
			return nil, err
		}
		return readerToFont(r)

	default:
		return nil, newErrorf("font", "%v: %q", ErrUnsupportedFont, tag)
	}
}

// Load reads path fully into memory and parses it with Parse.
func Load(path string, configs *Configs, fontIndex *int, verifyChecksum bool) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("font", err)
	}
	return Parse(data, configs, fontIndex, verifyChecksum)
}

// ParseCollection dispatches on data's leading tag to read every member of
// a TrueType Collection (ttcf) or a ttcf-flavored WOFF2 file. shareTables
// controls whether members reuse the very same Table instance for bytes
// they share by offset, or each get an independent copy.
func ParseCollection(data []byte, configs *Configs, shareTables, verifyChecksum bool) (*FontCollection, error) {
	if configs == nil {
		configs = DefaultConfigs()
	}
	tag, err := peekTag(data)
	if err != nil {
		return nil, err
	}

	switch {
	case tag == FileTagTTC:
		r, err := newXtfCollectionReader(NewStream(data), configs, shareTables, verifyChecksum)
		if err != nil {
			return nil, err
		}
		return readCollection(r)

	case tag == FileTagWOFF2:
		flavor, err := peekWoff2Flavor(data)
		if err != nil {
			return nil, err
		}
		if flavor != FileTagTTC {
			return nil, newErrorf("font", "%v: woff2 flavor %q is not a collection", ErrUnsupportedFont, flavor)
		}
		r, err := newWoff2CollectionReader(NewStream(data), configs, shareTables)
		if err != nil {
			return nil, err
		}
		return readCollection(r)

	default:
		return nil, newErrorf("font", "%v: %q", ErrUnsupportedFont, tag)
	}
}

// LoadCollection reads path fully into memory and parses it with
// ParseCollection.
func LoadCollection(path string, configs *Configs, shareTables, verifyChecksum bool) (*FontCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("font", err)
	}
	return ParseCollection(data, configs, shareTables, verifyChecksum)
}

func readCollection(r sfntCollectionReader) (*FontCollection, error) {
	numFonts := r.numFonts()
	fonts := make([]*Font, numFonts)
	for i := 0; i < numFonts; i++ {
		member, err := r.createReader(i)
		if err != nil {
			return nil, err
		}
		font, err := readerToFont(member)
		if err != nil {
			return nil, err
		}
		fonts[i] = font
	}

	ttcPayload, err := r.readTtcPayload()
	if err != nil {
		return nil, err
	}
	woffPayload, err := r.readWoffPayload()
	if err != nil {
		return nil, err
	}
	return &FontCollection{Fonts: fonts, TtcPayload: ttcPayload, WoffPayload: woffPayload}, nil
}
