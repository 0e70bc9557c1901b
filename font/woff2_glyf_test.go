package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestBitmapGetSetBit(t *testing.T) {
	bitmap := make([]byte, bitmapByteSize(20, 8))
	setBit(bitmap, 0)
	setBit(bitmap, 7)
	setBit(bitmap, 9)
	for i := 0; i < 20; i++ {
		want := i == 0 || i == 7 || i == 9
		test.T(t, getBit(bitmap, i), want)
	}
}

func TestBitmapByteSize(t *testing.T) {
	test.T(t, bitmapByteSize(1, 8), 1)
	test.T(t, bitmapByteSize(8, 8), 1)
	test.T(t, bitmapByteSize(9, 8), 2)
	test.T(t, bitmapByteSize(1, 32), 1)
	test.T(t, bitmapByteSize(33, 32), 2)
}

func simpleGlyphForTransform() *SimpleGlyph {
	coords := []GlyphCoordinate{
		{OnCurvePoint: true, DeltaX: 0, DeltaY: 500},     // deltaX==0 range
		{OnCurvePoint: true, DeltaX: -300, DeltaY: 0},    // deltaY==0 range
		{OnCurvePoint: false, DeltaX: 10, DeltaY: -20},   // both small range
		{OnCurvePoint: true, DeltaX: 500, DeltaY: -600},  // both medium range
		{OnCurvePoint: true, DeltaX: 2000, DeltaY: -1500}, // 3-byte packed range
		{OnCurvePoint: true, DeltaX: -20000, DeltaY: 20000}, // fallback 2x uint16 range
	}
	xMin, yMin, xMax, yMax := CalculateCoordinateBounds(coords)
	return &SimpleGlyph{
		XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax,
		EndPtsOfContours: []uint16{2, uint16(len(coords) - 1)},
		Coordinates:      coords,
		Instructions:     []byte{0x01, 0x02, 0x03},
		OverlapSimple:    true,
	}
}

func compositeGlyphForTransform() *ComponentGlyph {
	return &ComponentGlyph{
		XMin: -10, YMin: -20, XMax: 300, YMax: 400,
		Components: []GlyphComponent{
			{
				GlyphIndex: 3, ByXY: true, X: 10, Y: -5,
				RoundXYToGrid: true, HasTransform: true,
				Transform: ComponentTransform{XScale: 1.5, Scale01: 0.25, Scale10: -0.5, YScale: 0.75},
			},
		},
		Instructions:    nil,
		OverlapCompound: true,
	}
}

func TestWoff2GlyfTransformRoundTrip(t *testing.T) {
	glyfTable := &GlyfTable{Glyphs: []Glyph{
		simpleGlyphForTransform(),
		compositeGlyphForTransform(),
		nil,
	}}

	transformed, err := transformGlyfTable(glyfTable, IndexToLocShort)
	test.Error(t, err)
	test.T(t, transformed.numGlyphs, 3)

	dumped := transformed.dump()
	reparsed, err := parseTransformedGlyfTable(dumped)
	test.Error(t, err)
	test.T(t, reparsed.numGlyphs, 3)

	got, err := reparsed.reconstruct()
	test.Error(t, err)
	test.T(t, len(got.Glyphs), 3)

	wantSimple := simpleGlyphForTransform()
	gotSimple, ok := got.Glyphs[0].(*SimpleGlyph)
	test.That(t, ok)
	test.T(t, gotSimple.XMin, wantSimple.XMin)
	test.T(t, gotSimple.YMin, wantSimple.YMin)
	test.T(t, gotSimple.XMax, wantSimple.XMax)
	test.T(t, gotSimple.YMax, wantSimple.YMax)
	test.T(t, gotSimple.EndPtsOfContours, wantSimple.EndPtsOfContours)
	test.T(t, gotSimple.Coordinates, wantSimple.Coordinates)
	test.T(t, gotSimple.Instructions, wantSimple.Instructions)
	test.T(t, gotSimple.OverlapSimple, wantSimple.OverlapSimple)

	wantComposite := compositeGlyphForTransform()
	gotComposite, ok := got.Glyphs[1].(*ComponentGlyph)
	test.That(t, ok)
	test.T(t, gotComposite.XMin, wantComposite.XMin)
	test.T(t, gotComposite.YMin, wantComposite.YMin)
	test.T(t, gotComposite.XMax, wantComposite.XMax)
	test.T(t, gotComposite.YMax, wantComposite.YMax)
	test.T(t, gotComposite.Components, wantComposite.Components)
	test.T(t, gotComposite.OverlapCompound, wantComposite.OverlapCompound)

	test.That(t, got.Glyphs[2] == nil)
}

func TestWoff2GlyfTransformCompositeRequiresBounds(t *testing.T) {
	transformed := &transformedGlyfTable{
		numGlyphs:   1,
		bboxBitmap:  make([]byte, bitmapByteSize(1, 32)*4),
		nContourStream: func() []byte {
			s := NewStream(nil)
			s.WriteInt16(-1)
			return s.Bytes()
		}(),
	}
	_, err := transformed.reconstruct()
	test.That(t, err != nil)
}
