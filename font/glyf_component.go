package font

const (
	componentGlyphFlagArg1And2AreWords       uint16 = 0b0000_0000_0000_0001
	componentGlyphFlagArgsAreXYValues          uint16 = 0b0000_0000_0000_0010
	componentGlyphFlagRoundXYToGrid            uint16 = 0b0000_0000_0000_0100
	componentGlyphFlagWeHaveAScale              uint16 = 0b0000_0000_0000_1000
	componentGlyphFlagMoreComponents            uint16 = 0b0000_0000_0010_0000
	componentGlyphFlagWeHaveAnXAndYScale        uint16 = 0b0000_0000_0100_0000
	componentGlyphFlagWeHaveATwoByTwo           uint16 = 0b0000_0000_1000_0000
	componentGlyphFlagWeHaveInstructions        uint16 = 0b0000_0001_0000_0000
	componentGlyphFlagUseMyMetrics              uint16 = 0b0000_0010_0000_0000
	componentGlyphFlagOverlapCompound           uint16 = 0b0000_0100_0000_0000
	componentGlyphFlagScaledComponentOffset     uint16 = 0b0000_1000_0000_0000
	componentGlyphFlagUnscaledComponentOffset   uint16 = 0b0001_0000_0000_0000
)

type componentGlyphFlags struct {
	arg1And2AreWords       bool
	argsAreXYValues        bool
	roundXYToGrid           bool
	weHaveAScale            bool
	moreComponents          bool
	weHaveAnXAndYScale      bool
	weHaveATwoByTwo         bool
	weHaveInstructions      bool
	useMyMetrics            bool
	overlapCompound         bool
	scaledComponentOffset   bool
	unscaledComponentOffset bool
}

func parseComponentGlyphFlags(value uint16) componentGlyphFlags {
	return componentGlyphFlags{
		arg1And2AreWords:       value&componentGlyphFlagArg1And2AreWords > 0,
		argsAreXYValues:        value&componentGlyphFlagArgsAreXYValues > 0,
		roundXYToGrid:          value&componentGlyphFlagRoundXYToGrid > 0,
		weHaveAScale:           value&componentGlyphFlagWeHaveAScale > 0,
		moreComponents:         value&componentGlyphFlagMoreComponents > 0,
		weHaveAnXAndYScale:     value&componentGlyphFlagWeHaveAnXAndYScale > 0,
		weHaveATwoByTwo:        value&componentGlyphFlagWeHaveATwoByTwo > 0,
		weHaveInstructions:     value&componentGlyphFlagWeHaveInstructions > 0,
		useMyMetrics:           value&componentGlyphFlagUseMyMetrics > 0,
		overlapCompound:        value&componentGlyphFlagOverlapCompound > 0,
		scaledComponentOffset:  value&componentGlyphFlagScaledComponentOffset > 0,
		unscaledComponentOffset: value&componentGlyphFlagUnscaledComponentOffset > 0,
	}
}

func (f componentGlyphFlags) value() uint16 {
	var v uint16
	if f.arg1And2AreWords {
		v |= componentGlyphFlagArg1And2AreWords
	}
	if f.argsAreXYValues {
		v |= componentGlyphFlagArgsAreXYValues
	}
	if f.roundXYToGrid {
		v |= componentGlyphFlagRoundXYToGrid
	}
	if f.weHaveAScale {
		v |= componentGlyphFlagWeHaveAScale
	}
	if f.moreComponents {
		v |= componentGlyphFlagMoreComponents
	}
	if f.weHaveAnXAndYScale {
		v |= componentGlyphFlagWeHaveAnXAndYScale
	}
	if f.weHaveATwoByTwo {
		v |= componentGlyphFlagWeHaveATwoByTwo
	}
	if f.weHaveInstructions {
		v |= componentGlyphFlagWeHaveInstructions
	}
	if f.useMyMetrics {
		v |= componentGlyphFlagUseMyMetrics
	}
	if f.overlapCompound {
		v |= componentGlyphFlagOverlapCompound
	}
	if f.scaledComponentOffset {
		v |= componentGlyphFlagScaledComponentOffset
	}
	if f.unscaledComponentOffset {
		v |= componentGlyphFlagUnscaledComponentOffset
	}
	return v
}

// ComponentTransform is the optional 2x2 scale/rotation matrix attached to
// a component reference: (xScale, scale01, scale10, yScale).
type ComponentTransform struct {
	XScale, Scale01, Scale10, YScale float64
}

// GlyphComponent is one reference inside a composite glyph, either
// positioned by XY offset or by point-matching against the parent.
type GlyphComponent struct {
	GlyphIndex uint16

	// ByXY is true when the component is positioned by (X, Y); otherwise
	// it is anchored by matching ParentPoint against ChildPoint.
	ByXY bool
	X, Y int16

	ParentPoint, ChildPoint uint16

	RoundXYToGrid           bool
	ScaledComponentOffset   bool
	UnscaledComponentOffset bool
	UseMyMetrics            bool

	HasTransform bool
	Transform    ComponentTransform
}

// ComponentGlyph is a glyf outline built by referencing and positioning
// other glyphs.
type ComponentGlyph struct {
	XMin, YMin, XMax, YMax int16
	Components             []GlyphComponent
	Instructions           []byte
	OverlapCompound         bool
}

func (g *ComponentGlyph) NumComponents() int {
	return len(g.Components)
}

func parseComponentGlyphBody(s *Stream, xMin, yMin, xMax, yMax int16) (*ComponentGlyph, error) {
	var components []GlyphComponent
	overlapCompound := false
	overlapSet := false
	weHaveInstructions := false

	for {
		rawFlags, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		flags := parseComponentGlyphFlags(rawFlags)
		glyphIndex, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}

		if !overlapSet {
			overlapCompound = flags.overlapCompound
			overlapSet = true
		}

		var argument1, argument2 int32
		if flags.arg1And2AreWords {
			if flags.argsAreXYValues {
				a, err := s.ReadInt16()
				if err != nil {
					return nil, err
				}
				b, err := s.ReadInt16()
				if err != nil {
					return nil, err
				}
				argument1, argument2 = int32(a), int32(b)
			} else {
				a, err := s.ReadUint16()
				if err != nil {
					return nil, err
				}
				b, err := s.ReadUint16()
				if err != nil {
					return nil, err
				}
				argument1, argument2 = int32(a), int32(b)
			}
		} else {
			if flags.argsAreXYValues {
				a, err := s.ReadInt8()
				if err != nil {
					return nil, err
				}
				b, err := s.ReadInt8()
				if err != nil {
					return nil, err
				}
				argument1, argument2 = int32(a), int32(b)
			} else {
				a, err := s.ReadUint8()
				if err != nil {
					return nil, err
				}
				b, err := s.ReadUint8()
				if err != nil {
					return nil, err
				}
				argument1, argument2 = int32(a), int32(b)
			}
		}

		hasTransform := true
		var transform ComponentTransform
		switch {
		case flags.weHaveAScale:
			scale, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			transform = ComponentTransform{scale, 0, 0, scale}
		case flags.weHaveAnXAndYScale:
			xScale, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			yScale, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			transform = ComponentTransform{xScale, 0, 0, yScale}
		case flags.weHaveATwoByTwo:
			xScale, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			scale01, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			scale10, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			yScale, err := s.ReadF2Dot14()
			if err != nil {
				return nil, err
			}
			transform = ComponentTransform{xScale, scale01, scale10, yScale}
		default:
			hasTransform = false
		}

		component := GlyphComponent{
			GlyphIndex:   glyphIndex,
			ByXY:         flags.argsAreXYValues,
			UseMyMetrics: flags.useMyMetrics,
			HasTransform: hasTransform,
			Transform:    transform,
		}
		if flags.argsAreXYValues {
			component.X = int16(argument1)
			component.Y = int16(argument2)
			component.RoundXYToGrid = flags.roundXYToGrid
			component.ScaledComponentOffset = flags.scaledComponentOffset
			component.UnscaledComponentOffset = flags.unscaledComponentOffset
		} else {
			component.ParentPoint = uint16(argument1)
			component.ChildPoint = uint16(argument2)
		}
		components = append(components, component)

		if !flags.moreComponents {
			weHaveInstructions = flags.weHaveInstructions
			break
		}
	}

	var instructions []byte
	if weHaveInstructions {
		instructionLength, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		raw, err := s.Read(int(instructionLength))
		if err != nil {
			return nil, err
		}
		instructions = make([]byte, len(raw))
		copy(instructions, raw)
	}

	return &ComponentGlyph{
		XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax,
		Components:      components,
		Instructions:    instructions,
		OverlapCompound: overlapCompound,
	}, nil
}

func (g *ComponentGlyph) Copy() *ComponentGlyph {
	c := &ComponentGlyph{
		XMin: g.XMin, YMin: g.YMin, XMax: g.XMax, YMax: g.YMax,
		Components:      make([]GlyphComponent, len(g.Components)),
		Instructions:    make([]byte, len(g.Instructions)),
		OverlapCompound: g.OverlapCompound,
	}
	copy(c.Components, g.Components)
	copy(c.Instructions, g.Instructions)
	return c
}

func (g *ComponentGlyph) dumpBody(s *Stream) error {
	for i, component := range g.Components {
		flags := componentGlyphFlags{moreComponents: true}
		if i == 0 {
			flags.overlapCompound = g.OverlapCompound
		}
		last := i == g.NumComponents()-1
		if last {
			flags.moreComponents = false
			flags.weHaveInstructions = len(g.Instructions) > 0
		}

		var glyphIndex uint16
		var argument1, argument2 int32
		if component.ByXY {
			glyphIndex = component.GlyphIndex
			argument1, argument2 = int32(component.X), int32(component.Y)
			flags.argsAreXYValues = true
			flags.arg1And2AreWords = argument1 < -0x80 || argument1 > 0x7F || argument2 < -0x80 || argument2 > 0x7F
			flags.roundXYToGrid = component.RoundXYToGrid
			flags.scaledComponentOffset = component.ScaledComponentOffset
			flags.unscaledComponentOffset = component.UnscaledComponentOffset
			flags.useMyMetrics = component.UseMyMetrics
		} else {
			glyphIndex = component.GlyphIndex
			argument1, argument2 = int32(component.ParentPoint), int32(component.ChildPoint)
			flags.arg1And2AreWords = argument1 > 0xFF || argument2 > 0xFF
			flags.useMyMetrics = component.UseMyMetrics
		}

		if component.HasTransform {
			t := component.Transform
			switch {
			case t.XScale == t.YScale && t.Scale01 == 0 && t.Scale10 == 0:
				flags.weHaveAScale = true
			case t.Scale01 == 0 && t.Scale10 == 0:
				flags.weHaveAnXAndYScale = true
			default:
				flags.weHaveATwoByTwo = true
			}
		}

		s.WriteUint16(flags.value())
		s.WriteUint16(glyphIndex)

		if flags.arg1And2AreWords {
			if flags.argsAreXYValues {
				s.WriteInt16(int16(argument1))
				s.WriteInt16(int16(argument2))
			} else {
				s.WriteUint16(uint16(argument1))
				s.WriteUint16(uint16(argument2))
			}
		} else {
			if flags.argsAreXYValues {
				s.WriteInt8(int8(argument1))
				s.WriteInt8(int8(argument2))
			} else {
				s.WriteUint8(uint8(argument1))
				s.WriteUint8(uint8(argument2))
			}
		}

		if component.HasTransform {
			t := component.Transform
			switch {
			case flags.weHaveAScale:
				s.WriteF2Dot14(t.XScale)
			case flags.weHaveAnXAndYScale:
				s.WriteF2Dot14(t.XScale)
				s.WriteF2Dot14(t.YScale)
			case flags.weHaveATwoByTwo:
				s.WriteF2Dot14(t.XScale)
				s.WriteF2Dot14(t.Scale01)
				s.WriteF2Dot14(t.Scale10)
				s.WriteF2Dot14(t.YScale)
			}
		}
	}

	if len(g.Instructions) > 0 {
		s.WriteUint16(uint16(len(g.Instructions)))
		s.Write(g.Instructions)
	}
	return nil
}

func (g *ComponentGlyph) dump() ([]byte, error) {
	s := NewStream(nil)
	s.WriteInt16(-1)
	s.WriteInt16(g.XMin)
	s.WriteInt16(g.YMin)
	s.WriteInt16(g.XMax)
	s.WriteInt16(g.YMax)
	if err := g.dumpBody(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}
