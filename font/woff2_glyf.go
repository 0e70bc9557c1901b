package font

const woff2GlyfOptionFlagHasOverlapSimpleBitmap uint16 = 0b0000_0000_0000_0001

const (
	transformedGlyfFlagOnCurvePoint uint8 = 0b1000_0000
	transformedGlyfFlagOthers       uint8 = 0b0111_1111
)

// transformedGlyfTable is the WOFF2 'glyf' transform: seven parallel byte
// streams plus two bitmaps, in place of the untransformed table's
// offset-addressed glyph records.
type transformedGlyfTable struct {
	numGlyphs           int
	indexFormat         IndexToLocFormat
	nContourStream      []byte
	nPointsStream       []byte
	flagStream          []byte
	glyphStream         []byte
	compositeStream     []byte
	bboxBitmap          []byte
	bboxStream          []byte
	instructionStream   []byte
	overlapSimpleBitmap []byte
}

func bitmapByteSize(numGlyphs, bitsPerByte int) int {
	return ceilDiv(numGlyphs, bitsPerByte)
}

func getBit(bitmap []byte, i int) bool {
	return bitmap[i/8]>>(7-uint(i%8))&1 == 1
}

func setBit(bitmap []byte, i int) {
	bitmap[i/8] |= 1 << (7 - uint(i%8))
}

func parseTransformedGlyfTable(data []byte) (*transformedGlyfTable, error) {
	s := NewStream(data)
	if _, err := s.ReadUint16(); err != nil {
		return nil, newError("woff2", err)
	}
	optionFlagsValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("woff2", err)
	}
	hasOverlapSimpleBitmap := optionFlagsValue&woff2GlyfOptionFlagHasOverlapSimpleBitmap > 0
	numGlyphsValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("woff2", err)
	}
	numGlyphs := int(numGlyphsValue)
	indexFormatValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("woff2", err)
	}
	indexFormat := IndexToLocFormat(indexFormatValue)

	nContourStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	nPointsStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	flagStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	glyphStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	compositeStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	bboxBitmapSize := bitmapByteSize(numGlyphs, 32) * 4
	bboxStreamSizeWithBitmap, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}
	bboxStreamSize := int(bboxStreamSizeWithBitmap) - bboxBitmapSize
	instructionStreamSize, err := s.ReadUint32()
	if err != nil {
		return nil, newError("woff2", err)
	}

	nContourStream, err := s.Read(int(nContourStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}
	nPointsStream, err := s.Read(int(nPointsStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}
	flagStream, err := s.Read(int(flagStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}
	glyphStream, err := s.Read(int(glyphStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}
	compositeStream, err := s.Read(int(compositeStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}
	bboxBitmap, err := s.Read(bboxBitmapSize)
	if err != nil {
		return nil, newError("woff2", err)
	}
	bboxStream, err := s.Read(bboxStreamSize)
	if err != nil {
		return nil, newError("woff2", err)
	}
	instructionStream, err := s.Read(int(instructionStreamSize))
	if err != nil {
		return nil, newError("woff2", err)
	}

	var overlapSimpleBitmap []byte
	if hasOverlapSimpleBitmap {
		overlapSimpleBitmap, err = s.Read(bitmapByteSize(numGlyphs, 8))
		if err != nil {
			return nil, newError("woff2", err)
		}
	}

	return &transformedGlyfTable{
		numGlyphs:           numGlyphs,
		indexFormat:         indexFormat,
		nContourStream:      copyBytes(nContourStream),
		nPointsStream:       copyBytes(nPointsStream),
		flagStream:          copyBytes(flagStream),
		glyphStream:         copyBytes(glyphStream),
		compositeStream:     copyBytes(compositeStream),
		bboxBitmap:          copyBytes(bboxBitmap),
		bboxStream:          copyBytes(bboxStream),
		instructionStream:   copyBytes(instructionStream),
		overlapSimpleBitmap: copyBytes(overlapSimpleBitmap),
	}, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// transformGlyfTable encodes an ordinary 'glyf' table into its WOFF2
// transformed representation, choosing the smallest triplet range for
// every simple-glyph point delta.
func transformGlyfTable(glyfTable *GlyfTable, indexFormat IndexToLocFormat) (*transformedGlyfTable, error) {
	nContourStream := NewStream(nil)
	nPointsStream := NewStream(nil)
	flagStream := NewStream(nil)
	glyphStream := NewStream(nil)
	compositeStream := NewStream(nil)
	bboxStream := NewStream(nil)

	numGlyphs := glyfTable.NumGlyphs()
	bboxBitmap := make([]byte, bitmapByteSize(numGlyphs, 32)*4)
	overlapSimpleBitmap := make([]byte, bitmapByteSize(numGlyphs, 8))
	anyOverlapSimple := false

	for i, glyph := range glyfTable.Glyphs {
		switch g := glyph.(type) {
		case *SimpleGlyph:
			nContourStream.WriteInt16(int16(g.NumContours()))

			nPoint := 0
			for _, endPoint := range g.EndPtsOfContours {
				end := int(endPoint) + 1
				if _, err := nPointsStream.WriteUint255(uint16(end - nPoint)); err != nil {
					return nil, newError("woff2", err)
				}
				nPoint = end
			}

			for _, c := range g.Coordinates {
				encodeGlyfTriplet(glyphStream, flagStream, c)
			}

			if _, err := glyphStream.WriteUint255(uint16(len(g.Instructions))); err != nil {
				return nil, newError("woff2", err)
			}

			if g.OverlapSimple {
				setBit(overlapSimpleBitmap, i)
				anyOverlapSimple = true
			}
		case *ComponentGlyph:
			nContourStream.WriteInt16(-1)

			bboxStream.WriteInt16(g.XMin)
			bboxStream.WriteInt16(g.YMin)
			bboxStream.WriteInt16(g.XMax)
			bboxStream.WriteInt16(g.YMax)
			setBit(bboxBitmap, i)

			if err := g.dumpBody(compositeStream); err != nil {
				return nil, newError("woff2", err)
			}
		default:
			nContourStream.WriteInt16(0)
		}
	}

	instructionStream := NewStream(nil)
	for _, glyph := range glyfTable.Glyphs {
		if g, ok := glyph.(*SimpleGlyph); ok {
			instructionStream.Write(g.Instructions)
		}
	}

	var overlapBitmapOut []byte
	if anyOverlapSimple {
		overlapBitmapOut = overlapSimpleBitmap
	}

	return &transformedGlyfTable{
		numGlyphs:           numGlyphs,
		indexFormat:         indexFormat,
		nContourStream:      nContourStream.Bytes(),
		nPointsStream:       nPointsStream.Bytes(),
		flagStream:          flagStream.Bytes(),
		glyphStream:         glyphStream.Bytes(),
		compositeStream:     compositeStream.Bytes(),
		bboxBitmap:          bboxBitmap,
		bboxStream:          bboxStream.Bytes(),
		instructionStream:   instructionStream.Bytes(),
		overlapSimpleBitmap: overlapBitmapOut,
	}, nil
}

// encodeGlyfTriplet writes one point delta using the smallest range that
// fits, per the WOFF2 triplet encoding.
func encodeGlyfTriplet(glyphStream, flagStream *Stream, c GlyphCoordinate) {
	absDeltaX := int(abs16(c.DeltaX))
	absDeltaY := int(abs16(c.DeltaY))

	var flags int
	switch {
	case c.DeltaX == 0 && absDeltaY <= 1279:
		glyphStream.WriteUint8(uint8(absDeltaY % 256))
		flags = absDeltaY / 256 * 2
		if c.DeltaY >= 0 {
			flags++
		}
	case c.DeltaY == 0 && absDeltaX <= 1279:
		glyphStream.WriteUint8(uint8(absDeltaX % 256))
		flags = absDeltaX/256*2 + 10
		if c.DeltaX >= 0 {
			flags++
		}
	case absDeltaX >= 1 && absDeltaX <= 64 && absDeltaY >= 1 && absDeltaY <= 64:
		glyphStream.WriteUint8(uint8((absDeltaX-1)%16<<4 | (absDeltaY-1)%16))
		flags = (absDeltaX-1)/16*16 + (absDeltaY-1)/16*4 + 20
		if c.DeltaY >= 0 {
			flags += 2
		}
		if c.DeltaX >= 0 {
			flags++
		}
	case absDeltaX >= 1 && absDeltaX <= 768 && absDeltaY >= 1 && absDeltaY <= 768:
		glyphStream.WriteUint8(uint8((absDeltaX - 1) % 256))
		glyphStream.WriteUint8(uint8((absDeltaY - 1) % 256))
		flags = (absDeltaX-1)/256*12 + (absDeltaY-1)/256*4 + 84
		if c.DeltaY >= 0 {
			flags += 2
		}
		if c.DeltaX >= 0 {
			flags++
		}
	case absDeltaX <= 0xFFF && absDeltaY <= 0xFFF:
		glyphStream.WriteUint24(uint32(absDeltaX<<12 | absDeltaY))
		flags = 120
		if c.DeltaY >= 0 {
			flags += 2
		}
		if c.DeltaX >= 0 {
			flags++
		}
	default:
		glyphStream.WriteUint16(uint16(absDeltaX))
		glyphStream.WriteUint16(uint16(absDeltaY))
		flags = 124
		if c.DeltaY >= 0 {
			flags += 2
		}
		if c.DeltaX >= 0 {
			flags++
		}
	}

	if !c.OnCurvePoint {
		flags |= int(transformedGlyfFlagOnCurvePoint)
	}
	flagStream.WriteUint8(uint8(flags))
}

// reconstruct rebuilds an ordinary 'glyf' table from the seven streams.
func (t *transformedGlyfTable) reconstruct() (*GlyfTable, error) {
	nContourStream := NewStream(t.nContourStream)
	nPointsStream := NewStream(t.nPointsStream)
	flagStream := NewStream(t.flagStream)
	glyphStream := NewStream(t.glyphStream)
	compositeStream := NewStream(t.compositeStream)
	bboxStream := NewStream(t.bboxStream)
	instructionStream := NewStream(t.instructionStream)

	var glyphs []Glyph
	for i := 0; i < t.numGlyphs; i++ {
		numContours, err := nContourStream.ReadInt16()
		if err != nil {
			return nil, newError("woff2", err)
		}

		var glyph Glyph
		switch {
		case numContours > 0:
			endPtsOfContours := make([]uint16, 0, numContours)
			nPoints := 0
			for c := 0; c < int(numContours); c++ {
				delta, err := nPointsStream.ReadUint255()
				if err != nil {
					return nil, newError("woff2", err)
				}
				nPoints += int(delta)
				endPtsOfContours = append(endPtsOfContours, uint16(nPoints-1))
			}

			coordinates := make([]GlyphCoordinate, nPoints)
			for p := 0; p < nPoints; p++ {
				rawFlags, err := flagStream.ReadUint8()
				if err != nil {
					return nil, newError("woff2", err)
				}
				onCurvePoint := rawFlags&transformedGlyfFlagOnCurvePoint == 0
				flags := int(rawFlags & transformedGlyfFlagOthers)

				var deltaX, deltaY int
				switch {
				case flags < 10:
					v, err := glyphStream.ReadUint8()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaY = int(v) + flags/2*256
					if flags%2 == 0 {
						deltaY = -deltaY
					}
				case flags < 20:
					flags -= 10
					v, err := glyphStream.ReadUint8()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaX = int(v) + flags/2*256
					if flags%2 == 0 {
						deltaX = -deltaX
					}
				case flags < 84:
					flags -= 20
					v, err := glyphStream.ReadUint8()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaX = int(v>>4) + flags/16*16 + 1
					deltaY = int(v&0x0F) + flags%16/4*16 + 1
					if flags%2 == 0 {
						deltaX = -deltaX
					}
					if flags/2%2 == 0 {
						deltaY = -deltaY
					}
				case flags < 120:
					flags -= 84
					v1, err := glyphStream.ReadUint8()
					if err != nil {
						return nil, newError("woff2", err)
					}
					v2, err := glyphStream.ReadUint8()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaX = int(v1) + flags/12*256 + 1
					deltaY = int(v2) + flags%12/4*256 + 1
					if flags%2 == 0 {
						deltaX = -deltaX
					}
					if flags/2%2 == 0 {
						deltaY = -deltaY
					}
				case flags < 124:
					flags -= 120
					v, err := glyphStream.ReadUint24()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaX = int(v >> 12)
					deltaY = int(v & 0x0FFF)
					if flags%2 == 0 {
						deltaX = -deltaX
					}
					if flags/2%2 == 0 {
						deltaY = -deltaY
					}
				default:
					flags -= 124
					x, err := glyphStream.ReadUint16()
					if err != nil {
						return nil, newError("woff2", err)
					}
					y, err := glyphStream.ReadUint16()
					if err != nil {
						return nil, newError("woff2", err)
					}
					deltaX = int(x)
					deltaY = int(y)
					if flags%2 == 0 {
						deltaX = -deltaX
					}
					if flags/2%2 == 0 {
						deltaY = -deltaY
					}
				}

				coordinates[p] = GlyphCoordinate{OnCurvePoint: onCurvePoint, DeltaX: int16(deltaX), DeltaY: int16(deltaY)}
			}

			instructionLength, err := glyphStream.ReadUint255()
			if err != nil {
				return nil, newError("woff2", err)
			}
			instructions, err := instructionStream.Read(int(instructionLength))
			if err != nil {
				return nil, newError("woff2", err)
			}

			overlapSimple := false
			if t.overlapSimpleBitmap != nil {
				overlapSimple = getBit(t.overlapSimpleBitmap, i)
			}

			var xMin, yMin, xMax, yMax int16
			if getBit(t.bboxBitmap, i) {
				if xMin, err = bboxStream.ReadInt16(); err != nil {
					return nil, newError("woff2", err)
				}
				if yMin, err = bboxStream.ReadInt16(); err != nil {
					return nil, newError("woff2", err)
				}
				if xMax, err = bboxStream.ReadInt16(); err != nil {
					return nil, newError("woff2", err)
				}
				if yMax, err = bboxStream.ReadInt16(); err != nil {
					return nil, newError("woff2", err)
				}
			} else {
				xMin, yMin, xMax, yMax = CalculateCoordinateBounds(coordinates)
			}

			glyph = &SimpleGlyph{
				XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax,
				EndPtsOfContours: endPtsOfContours,
				Coordinates:      coordinates,
				Instructions:     copyBytes(instructions),
				OverlapSimple:    overlapSimple,
			}
		case numContours < 0:
			if !getBit(t.bboxBitmap, i) {
				return nil, newErrorf("woff2", "%v: transformed component glyph must set bounds", ErrMalformedTransform)
			}
			xMin, err := bboxStream.ReadInt16()
			if err != nil {
				return nil, newError("woff2", err)
			}
			yMin, err := bboxStream.ReadInt16()
			if err != nil {
				return nil, newError("woff2", err)
			}
			xMax, err := bboxStream.ReadInt16()
			if err != nil {
				return nil, newError("woff2", err)
			}
			yMax, err := bboxStream.ReadInt16()
			if err != nil {
				return nil, newError("woff2", err)
			}
			glyph, err = parseComponentGlyphBody(compositeStream, xMin, yMin, xMax, yMax)
			if err != nil {
				return nil, newError("woff2", err)
			}
		}

		glyphs = append(glyphs, glyph)
	}

	return &GlyfTable{Glyphs: glyphs}, nil
}

func (t *transformedGlyfTable) dump() []byte {
	hasOverlapSimpleBitmap := t.overlapSimpleBitmap != nil

	s := NewStream(nil)
	s.WriteUint16(0)
	var optionFlags uint16
	if hasOverlapSimpleBitmap {
		optionFlags = woff2GlyfOptionFlagHasOverlapSimpleBitmap
	}
	s.WriteUint16(optionFlags)
	s.WriteUint16(uint16(t.numGlyphs))
	s.WriteUint16(uint16(t.indexFormat))

	s.WriteUint32(uint32(len(t.nContourStream)))
	s.WriteUint32(uint32(len(t.nPointsStream)))
	s.WriteUint32(uint32(len(t.flagStream)))
	s.WriteUint32(uint32(len(t.glyphStream)))
	s.WriteUint32(uint32(len(t.compositeStream)))
	s.WriteUint32(uint32(len(t.bboxBitmap) + len(t.bboxStream)))
	s.WriteUint32(uint32(len(t.instructionStream)))

	s.Write(t.nContourStream)
	s.Write(t.nPointsStream)
	s.Write(t.flagStream)
	s.Write(t.glyphStream)
	s.Write(t.compositeStream)
	s.Write(t.bboxBitmap)
	s.Write(t.bboxStream)
	s.Write(t.instructionStream)
	if hasOverlapSimpleBitmap {
		s.Write(t.overlapSimpleBitmap)
	}

	return s.Bytes()
}
