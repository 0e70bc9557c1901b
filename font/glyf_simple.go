package font

const (
	simpleGlyphFlagOnCurvePoint                    uint8 = 0b0000_0001
	simpleGlyphFlagXShortVector                     uint8 = 0b0000_0010
	simpleGlyphFlagYShortVector                     uint8 = 0b0000_0100
	simpleGlyphFlagRepeatFlag                       uint8 = 0b0000_1000
	simpleGlyphFlagXIsSameOrPositiveXShortVector    uint8 = 0b0001_0000
	simpleGlyphFlagYIsSameOrPositiveYShortVector    uint8 = 0b0010_0000
	simpleGlyphFlagOverlapSimple                    uint8 = 0b0100_0000
)

// SimpleGlyphFlags is the per-point flag byte of a simple glyph.
type SimpleGlyphFlags struct {
	OnCurvePoint                 bool
	XShortVector                 bool
	YShortVector                 bool
	RepeatFlag                   bool
	XIsSameOrPositiveXShortVector bool
	YIsSameOrPositiveYShortVector bool
	OverlapSimple                bool
}

func parseSimpleGlyphFlags(value uint8) SimpleGlyphFlags {
	return SimpleGlyphFlags{
		OnCurvePoint:                  value&simpleGlyphFlagOnCurvePoint > 0,
		XShortVector:                  value&simpleGlyphFlagXShortVector > 0,
		YShortVector:                  value&simpleGlyphFlagYShortVector > 0,
		RepeatFlag:                    value&simpleGlyphFlagRepeatFlag > 0,
		XIsSameOrPositiveXShortVector: value&simpleGlyphFlagXIsSameOrPositiveXShortVector > 0,
		YIsSameOrPositiveYShortVector: value&simpleGlyphFlagYIsSameOrPositiveYShortVector > 0,
		OverlapSimple:                 value&simpleGlyphFlagOverlapSimple > 0,
	}
}

func (f SimpleGlyphFlags) value() uint8 {
	var v uint8
	if f.OnCurvePoint {
		v |= simpleGlyphFlagOnCurvePoint
	}
	if f.XShortVector {
		v |= simpleGlyphFlagXShortVector
	}
	if f.YShortVector {
		v |= simpleGlyphFlagYShortVector
	}
	if f.RepeatFlag {
		v |= simpleGlyphFlagRepeatFlag
	}
	if f.XIsSameOrPositiveXShortVector {
		v |= simpleGlyphFlagXIsSameOrPositiveXShortVector
	}
	if f.YIsSameOrPositiveYShortVector {
		v |= simpleGlyphFlagYIsSameOrPositiveYShortVector
	}
	if f.OverlapSimple {
		v |= simpleGlyphFlagOverlapSimple
	}
	return v
}

// GlyphCoordinate is one on/off-curve point, stored as the delta from the
// previous point (matching the wire encoding directly).
type GlyphCoordinate struct {
	OnCurvePoint bool
	DeltaX       int16
	DeltaY       int16
}

// CalculateCoordinateBounds sums the deltas and returns the resulting
// absolute-coordinate bounding box.
func CalculateCoordinateBounds(coordinates []GlyphCoordinate) (xMin, yMin, xMax, yMax int16) {
	var x, y int16
	first := true
	for _, c := range coordinates {
		x += c.DeltaX
		y += c.DeltaY
		if first {
			xMin, xMax, yMin, yMax = x, x, y, y
			first = false
			continue
		}
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
		if y < yMin {
			yMin = y
		}
		if y > yMax {
			yMax = y
		}
	}
	return
}

// SimpleGlyph is a glyf outline described directly by contours of points.
type SimpleGlyph struct {
	XMin, YMin, XMax, YMax int16
	EndPtsOfContours       []uint16
	Coordinates            []GlyphCoordinate
	Instructions           []byte
	OverlapSimple          bool
}

func (g *SimpleGlyph) NumContours() int {
	return len(g.EndPtsOfContours)
}

func parseSimpleGlyphBody(s *Stream, numContours int, xMin, yMin, xMax, yMax int16) (*SimpleGlyph, error) {
	endPts := make([]uint16, numContours)
	for i := range endPts {
		v, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		endPts[i] = v
	}
	numCoordinates := int(endPts[len(endPts)-1]) + 1

	instructionLength, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	instructions, err := s.Read(int(instructionLength))
	if err != nil {
		return nil, err
	}
	instructionsCopy := make([]byte, len(instructions))
	copy(instructionsCopy, instructions)

	var flagsList []SimpleGlyphFlags
	for len(flagsList) < numCoordinates {
		raw, err := s.ReadUint8()
		if err != nil {
			return nil, err
		}
		flags := parseSimpleGlyphFlags(raw)
		additionalRepeatTimes := 0
		if flags.RepeatFlag {
			n, err := s.ReadUint8()
			if err != nil {
				return nil, err
			}
			additionalRepeatTimes = int(n)
		}
		for i := 0; i < additionalRepeatTimes+1; i++ {
			flagsList = append(flagsList, flags)
		}
	}
	if len(flagsList) != numCoordinates {
		return nil, newErrorf("glyf", "%v: bad number of coordinates", ErrCountMismatch)
	}

	xCoordinates := make([]int16, numCoordinates)
	for i, flags := range flagsList {
		switch {
		case flags.XShortVector:
			v, err := s.ReadUint8()
			if err != nil {
				return nil, err
			}
			dx := int16(v)
			if !flags.XIsSameOrPositiveXShortVector {
				dx = -dx
			}
			xCoordinates[i] = dx
		case flags.XIsSameOrPositiveXShortVector:
			xCoordinates[i] = 0
		default:
			v, err := s.ReadInt16()
			if err != nil {
				return nil, err
			}
			xCoordinates[i] = v
		}
	}

	yCoordinates := make([]int16, numCoordinates)
	for i, flags := range flagsList {
		switch {
		case flags.YShortVector:
			v, err := s.ReadUint8()
			if err != nil {
				return nil, err
			}
			dy := int16(v)
			if !flags.YIsSameOrPositiveYShortVector {
				dy = -dy
			}
			yCoordinates[i] = dy
		case flags.YIsSameOrPositiveYShortVector:
			yCoordinates[i] = 0
		default:
			v, err := s.ReadInt16()
			if err != nil {
				return nil, err
			}
			yCoordinates[i] = v
		}
	}

	coordinates := make([]GlyphCoordinate, numCoordinates)
	for i, flags := range flagsList {
		coordinates[i] = GlyphCoordinate{
			OnCurvePoint: flags.OnCurvePoint,
			DeltaX:       xCoordinates[i],
			DeltaY:       yCoordinates[i],
		}
	}

	return &SimpleGlyph{
		XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax,
		EndPtsOfContours: endPts,
		Coordinates:      coordinates,
		Instructions:     instructionsCopy,
		OverlapSimple:    flagsList[0].OverlapSimple,
	}, nil
}

func (g *SimpleGlyph) Copy() *SimpleGlyph {
	c := &SimpleGlyph{
		XMin: g.XMin, YMin: g.YMin, XMax: g.XMax, YMax: g.YMax,
		EndPtsOfContours: make([]uint16, len(g.EndPtsOfContours)),
		Coordinates:      make([]GlyphCoordinate, len(g.Coordinates)),
		Instructions:     make([]byte, len(g.Instructions)),
		OverlapSimple:    g.OverlapSimple,
	}
	copy(c.EndPtsOfContours, g.EndPtsOfContours)
	copy(c.Coordinates, g.Coordinates)
	copy(c.Instructions, g.Instructions)
	return c
}

// dumpBody re-encodes contours, repeat-compressing consecutive identical
// flag bytes exactly as the encoder that produced real-world fonts does.
func (g *SimpleGlyph) dumpBody(s *Stream) error {
	if len(g.EndPtsOfContours) == 0 || len(g.Coordinates) != int(g.EndPtsOfContours[len(g.EndPtsOfContours)-1])+1 {
		return newErrorf("glyf", "%v: bad number of coordinates", ErrCountMismatch)
	}

	var flagsBytes []byte
	var xBytes, yBytes []byte
	var lastFlagsValue int
	haveLastFlags := false
	additionalRepeatTimes := 0

	for i, c := range g.Coordinates {
		flags := SimpleGlyphFlags{OnCurvePoint: c.OnCurvePoint}
		if i == 0 {
			flags.OverlapSimple = g.OverlapSimple
		}

		switch {
		case c.DeltaX == 0:
			flags.XIsSameOrPositiveXShortVector = true
		case c.DeltaX >= -0xFF && c.DeltaX <= 0xFF:
			flags.XShortVector = true
			if c.DeltaX > 0 {
				flags.XIsSameOrPositiveXShortVector = true
			}
			xBytes = append(xBytes, byte(abs16(c.DeltaX)))
		default:
			xBytes = append(xBytes, byte(c.DeltaX>>8), byte(c.DeltaX))
		}

		switch {
		case c.DeltaY == 0:
			flags.YIsSameOrPositiveYShortVector = true
		case c.DeltaY >= -0xFF && c.DeltaY <= 0xFF:
			flags.YShortVector = true
			if c.DeltaY > 0 {
				flags.YIsSameOrPositiveYShortVector = true
			}
			yBytes = append(yBytes, byte(abs16(c.DeltaY)))
		default:
			yBytes = append(yBytes, byte(c.DeltaY>>8), byte(c.DeltaY))
		}

		flagsValue := int(flags.value())
		if haveLastFlags && flagsValue == lastFlagsValue && additionalRepeatTimes < 0xFF {
			additionalRepeatTimes++
			if additionalRepeatTimes == 1 {
				flagsBytes = append(flagsBytes, byte(flagsValue))
			} else {
				flagsBytes[len(flagsBytes)-2] = byte(flagsValue) | simpleGlyphFlagRepeatFlag
				flagsBytes[len(flagsBytes)-1] = byte(additionalRepeatTimes)
			}
		} else {
			additionalRepeatTimes = 0
			flagsBytes = append(flagsBytes, byte(flagsValue))
		}
		lastFlagsValue = flagsValue
		haveLastFlags = true
	}

	for _, idx := range g.EndPtsOfContours {
		s.WriteUint16(idx)
	}
	s.WriteUint16(uint16(len(g.Instructions)))
	s.Write(g.Instructions)
	s.Write(flagsBytes)
	s.Write(xBytes)
	s.Write(yBytes)
	return nil
}

func (g *SimpleGlyph) dump() ([]byte, error) {
	s := NewStream(nil)
	s.WriteInt16(int16(g.NumContours()))
	s.WriteInt16(g.XMin)
	s.WriteInt16(g.YMin)
	s.WriteInt16(g.XMax)
	s.WriteInt16(g.YMax)
	if err := g.dumpBody(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
