package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestFontSetGetTags(t *testing.T) {
	f := &Font{SfntVersion: SfntVersionTrueType}
	test.Error(t, f.Set("head", &HeadTable{}))
	test.Error(t, f.Set("maxp", &MaxpTable{NumGlyphs: 4}))

	head, ok := f.Get("head")
	test.That(t, ok)
	test.That(t, head != nil)

	_, ok = f.Get("glyf")
	test.That(t, !ok)

	test.T(t, f.Tags(), []string{"head", "maxp"})
}

func TestFontSetRejectsMalformedTag(t *testing.T) {
	f := &Font{}
	err := f.Set("ab", &HeadTable{})
	test.That(t, err != nil)

	err = f.Set(" bcd", &HeadTable{})
	test.That(t, err != nil)
}

func TestFontSetRejectsWrongVariant(t *testing.T) {
	f := &Font{}
	err := f.Set("head", &MaxpTable{})
	test.That(t, err != nil)
}

func TestFontCopyIsIndependent(t *testing.T) {
	f := &Font{SfntVersion: SfntVersionTrueType}
	test.Error(t, f.Set("maxp", &MaxpTable{NumGlyphs: 4}))

	c := f.Copy()
	test.That(t, c != f)
	maxp := c.Tables["maxp"].(*MaxpTable)
	maxp.NumGlyphs = 99
	test.T(t, f.Tables["maxp"].(*MaxpTable).NumGlyphs, uint16(4))
}

func TestFontEqual(t *testing.T) {
	a := &Font{SfntVersion: SfntVersionTrueType}
	test.Error(t, a.Set("head", &HeadTable{UnitsPerEm: 1000}))
	test.Error(t, a.Set("maxp", &MaxpTable{NumGlyphs: 4}))

	b := a.Copy()
	test.That(t, a.Equal(b))

	b.Tables["head"].(*HeadTable).UnitsPerEm = 2048
	test.That(t, !a.Equal(b))
	test.That(t, a.Equal(b, "head"))
}

func TestFontCollectionEqual(t *testing.T) {
	f1 := &Font{SfntVersion: SfntVersionTrueType}
	test.Error(t, f1.Set("maxp", &MaxpTable{NumGlyphs: 1}))
	f2 := &Font{SfntVersion: SfntVersionTrueType}
	test.Error(t, f2.Set("maxp", &MaxpTable{NumGlyphs: 2}))

	c := &FontCollection{Fonts: []*Font{f1, f2}}
	d := c.Copy()
	test.That(t, c.Equal(d))

	d.Fonts[1].Tables["maxp"].(*MaxpTable).NumGlyphs = 3
	test.That(t, !c.Equal(d))
}

func TestParseUnsupportedTag(t *testing.T) {
	_, err := Parse([]byte("bad!extra data follows here"), nil, nil, false)
	test.That(t, err != nil)
}

func TestParseTtcRequiresFontIndex(t *testing.T) {
	_, err := Parse([]byte("ttcfextradata-------------"), nil, nil, false)
	test.That(t, err != nil)
}

func TestParseCollectionRejectsNonCollectionWoff2Flavor(t *testing.T) {
	data := []byte("wOF2" + string(SfntVersionTrueType) + "padpadpadpad")
	_, err := ParseCollection([]byte(data), nil, false, false)
	test.That(t, err != nil)
}

func TestPeekTagAndFlavor(t *testing.T) {
	tag, err := peekTag([]byte("ttcfrest"))
	test.Error(t, err)
	test.T(t, tag, FileTagTTC)

	_, err = peekTag([]byte("ab"))
	test.That(t, err != nil)

	flavor, err := peekWoff2Flavor([]byte("wOF2ttcfrest"))
	test.Error(t, err)
	test.T(t, flavor, FileTagTTC)

	_, err = peekWoff2Flavor([]byte("wOF2"))
	test.That(t, err != nil)
}
