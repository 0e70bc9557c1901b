package font

const headMagicNumber uint32 = 0x5F0F3CF5

const (
	UnitsPerEmMin = 1 << 4
	UnitsPerEmMax = 1 << 14
)

// HeadTableFlags is the bitfield record for head.flags.
type HeadTableFlags struct {
	BaselineAtY0                         bool
	LeftSidebearingAtX0                  bool
	InstructionsMayDependOnPointSize     bool
	ForcePpemToInteger                   bool
	InstructionsMayAlterAdvanceWidth     bool
	FontDataIsLosslessAfterOptimization  bool
	FontConverted                        bool
	FontOptimizedForCleartype            bool
	LastResortFont                       bool
}

const (
	headFlagBaselineAtY0                       uint16 = 0b0000_0000_0000_0001
	headFlagLeftSidebearingAtX0                uint16 = 0b0000_0000_0000_0010
	headFlagInstructionsMayDependOnPointSize   uint16 = 0b0000_0000_0000_0100
	headFlagForcePpemToInteger                 uint16 = 0b0000_0000_0000_1000
	headFlagInstructionsMayAlterAdvanceWidth   uint16 = 0b0000_0000_0001_0000
	headFlagFontDataIsLosslessAfterOptimization uint16 = 0b0000_1000_0000_0000
	headFlagFontConverted                      uint16 = 0b0001_0000_0000_0000
	headFlagFontOptimizedForCleartype          uint16 = 0b0010_0000_0000_0000
	headFlagLastResortFont                     uint16 = 0b0100_0000_0000_0000
)

func parseHeadTableFlags(value uint16) HeadTableFlags {
	return HeadTableFlags{
		BaselineAtY0:                       value&headFlagBaselineAtY0 > 0,
		LeftSidebearingAtX0:                value&headFlagLeftSidebearingAtX0 > 0,
		InstructionsMayDependOnPointSize:   value&headFlagInstructionsMayDependOnPointSize > 0,
		ForcePpemToInteger:                 value&headFlagForcePpemToInteger > 0,
		InstructionsMayAlterAdvanceWidth:   value&headFlagInstructionsMayAlterAdvanceWidth > 0,
		FontDataIsLosslessAfterOptimization: value&headFlagFontDataIsLosslessAfterOptimization > 0,
		FontConverted:                      value&headFlagFontConverted > 0,
		FontOptimizedForCleartype:          value&headFlagFontOptimizedForCleartype > 0,
		LastResortFont:                     value&headFlagLastResortFont > 0,
	}
}

func (f HeadTableFlags) value() uint16 {
	var v uint16
	if f.BaselineAtY0 {
		v |= headFlagBaselineAtY0
	}
	if f.LeftSidebearingAtX0 {
		v |= headFlagLeftSidebearingAtX0
	}
	if f.InstructionsMayDependOnPointSize {
		v |= headFlagInstructionsMayDependOnPointSize
	}
	if f.ForcePpemToInteger {
		v |= headFlagForcePpemToInteger
	}
	if f.InstructionsMayAlterAdvanceWidth {
		v |= headFlagInstructionsMayAlterAdvanceWidth
	}
	if f.FontDataIsLosslessAfterOptimization {
		v |= headFlagFontDataIsLosslessAfterOptimization
	}
	if f.FontConverted {
		v |= headFlagFontConverted
	}
	if f.FontOptimizedForCleartype {
		v |= headFlagFontOptimizedForCleartype
	}
	if f.LastResortFont {
		v |= headFlagLastResortFont
	}
	return v
}

// MacStyle is the bitfield record for head.macStyle.
type MacStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Outline   bool
	Shadow    bool
	Condensed bool
	Extended  bool
}

const (
	macStyleBold      uint16 = 0b0000_0000_0000_0001
	macStyleItalic    uint16 = 0b0000_0000_0000_0010
	macStyleUnderline uint16 = 0b0000_0000_0000_0100
	macStyleOutline   uint16 = 0b0000_0000_0000_1000
	macStyleShadow    uint16 = 0b0000_0000_0001_0000
	macStyleCondensed uint16 = 0b0000_0000_0010_0000
	macStyleExtended  uint16 = 0b0000_0000_0100_0000
)

func parseMacStyle(value uint16) MacStyle {
	return MacStyle{
		Bold:      value&macStyleBold > 0,
		Italic:    value&macStyleItalic > 0,
		Underline: value&macStyleUnderline > 0,
		Outline:   value&macStyleOutline > 0,
		Shadow:    value&macStyleShadow > 0,
		Condensed: value&macStyleCondensed > 0,
		Extended:  value&macStyleExtended > 0,
	}
}

func (m MacStyle) value() uint16 {
	var v uint16
	if m.Bold {
		v |= macStyleBold
	}
	if m.Italic {
		v |= macStyleItalic
	}
	if m.Underline {
		v |= macStyleUnderline
	}
	if m.Outline {
		v |= macStyleOutline
	}
	if m.Shadow {
		v |= macStyleShadow
	}
	if m.Condensed {
		v |= macStyleCondensed
	}
	if m.Extended {
		v |= macStyleExtended
	}
	return v
}

type FontDirectionHint int16

const (
	FontDirectionFullyMixed                    FontDirectionHint = 0
	FontDirectionLeftToRight                    FontDirectionHint = 1
	FontDirectionLeftToRightContainsNeutrals    FontDirectionHint = 2
	FontDirectionRightToLeft                    FontDirectionHint = -1
	FontDirectionRightToLeftContainsNeutrals    FontDirectionHint = -2
)

type IndexToLocFormat int16

const (
	IndexToLocShort IndexToLocFormat = 0
	IndexToLocLong  IndexToLocFormat = 1
)

type GlyphDataFormat int16

const GlyphDataFormatCurrent GlyphDataFormat = 0

// timestamp1904Offset converts between seconds-since-1904-01-01 (the font
// epoch) and seconds-since-1970-01-01 (the Unix epoch).
const timestamp1904Offset int64 = 2_082_844_800

func secondsSince1904ToUnix(v int64) int64 { return v + timestamp1904Offset }
func unixToSecondsSince1904(v int64) int64 { return v - timestamp1904Offset }

// HeadTable is the structural 'head' table.
type HeadTable struct {
	MajorVersion               uint16
	MinorVersion               uint16
	FontRevision               float64
	ChecksumAdjustment         uint32
	Flags                      HeadTableFlags
	UnitsPerEm                 uint16
	CreatedSecondsSince1904    int64
	ModifiedSecondsSince1904   int64
	XMin, YMin, XMax, YMax     int16
	MacStyle                   MacStyle
	LowestRecPPEM              uint16
	FontDirectionHint          FontDirectionHint
	IndexToLocFormat           IndexToLocFormat
	GlyphDataFormat            GlyphDataFormat
}

func parseHeadTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	s := NewStream(data)
	t := &HeadTable{}
	var err error
	if t.MajorVersion, err = s.ReadUint16(); err != nil {
		return nil, newError("head", err)
	}
	if t.MinorVersion, err = s.ReadUint16(); err != nil {
		return nil, newError("head", err)
	}
	if t.FontRevision, err = s.ReadFixed(); err != nil {
		return nil, newError("head", err)
	}
	if t.ChecksumAdjustment, err = s.ReadUint32(); err != nil {
		return nil, newError("head", err)
	}
	magic, err := s.ReadUint32()
	if err != nil {
		return nil, newError("head", err)
	}
	if magic != headMagicNumber {
		return nil, newErrorf("head", "%v", ErrBadMagicNumber)
	}
	flagsValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("head", err)
	}
	t.Flags = parseHeadTableFlags(flagsValue)
	if t.UnitsPerEm, err = s.ReadUint16(); err != nil {
		return nil, newError("head", err)
	}
	if t.CreatedSecondsSince1904, err = s.ReadLongDateTime(); err != nil {
		return nil, newError("head", err)
	}
	if t.ModifiedSecondsSince1904, err = s.ReadLongDateTime(); err != nil {
		return nil, newError("head", err)
	}
	if t.XMin, err = s.ReadInt16(); err != nil {
		return nil, newError("head", err)
	}
	if t.YMin, err = s.ReadInt16(); err != nil {
		return nil, newError("head", err)
	}
	if t.XMax, err = s.ReadInt16(); err != nil {
		return nil, newError("head", err)
	}
	if t.YMax, err = s.ReadInt16(); err != nil {
		return nil, newError("head", err)
	}
	macStyleValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("head", err)
	}
	t.MacStyle = parseMacStyle(macStyleValue)
	if t.LowestRecPPEM, err = s.ReadUint16(); err != nil {
		return nil, newError("head", err)
	}
	hint, err := s.ReadInt16()
	if err != nil {
		return nil, newError("head", err)
	}
	t.FontDirectionHint = FontDirectionHint(hint)
	locFormat, err := s.ReadInt16()
	if err != nil {
		return nil, newError("head", err)
	}
	t.IndexToLocFormat = IndexToLocFormat(locFormat)
	dataFormat, err := s.ReadInt16()
	if err != nil {
		return nil, newError("head", err)
	}
	t.GlyphDataFormat = GlyphDataFormat(dataFormat)
	return t, nil
}

func (t *HeadTable) Copy() Table {
	c := *t
	return &c
}

// Update recomputes the bounding box and indexToLocFormat from the
// available glyph-outline table (CFF, CFF2, or glyf+loca), in that
// priority order. The dependency map is threaded through as `tables`
// consistently end to end: the source's head.update references an
// undefined local name `dependencies` here (its parameter is named
// `tables`), which would raise a NameError the first time this path ran.
func (t *HeadTable) Update(configs *Configs, tables map[string]Table) error {
	if cff, ok := tables["CFF "].(*CffTable); ok {
		t.XMin, t.YMin, t.XMax, t.YMax = cff.CalculateBoundsBox()
		return nil
	}
	if cff2, ok := tables["CFF2"].(*Cff2Table); ok {
		t.XMin, t.YMin, t.XMax, t.YMax = cff2.CalculateBoundsBox()
		return nil
	}
	if glyf, ok := tables["glyf"].(*GlyfTable); ok {
		t.XMin, t.YMin, t.XMax, t.YMax = glyf.CalculateBoundsBox()
		loca, ok := tables["loca"].(*LocaTable)
		if !ok {
			return newErrorf("head", "update requires 'loca' alongside 'glyf'")
		}
		t.IndexToLocFormat = loca.CalculateIndexToLocFormat()
	}
	return nil
}

func (t *HeadTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	s.WriteUint16(t.MajorVersion)
	s.WriteUint16(t.MinorVersion)
	s.WriteFixed(t.FontRevision)
	s.WriteUint32(t.ChecksumAdjustment)
	s.WriteUint32(headMagicNumber)
	s.WriteUint16(t.Flags.value())
	s.WriteUint16(t.UnitsPerEm)
	s.WriteLongDateTime(t.CreatedSecondsSince1904)
	s.WriteLongDateTime(t.ModifiedSecondsSince1904)
	s.WriteInt16(t.XMin)
	s.WriteInt16(t.YMin)
	s.WriteInt16(t.XMax)
	s.WriteInt16(t.YMax)
	s.WriteUint16(t.MacStyle.value())
	s.WriteUint16(t.LowestRecPPEM)
	s.WriteInt16(int16(t.FontDirectionHint))
	s.WriteInt16(int16(t.IndexToLocFormat))
	s.WriteInt16(int16(t.GlyphDataFormat))
	return s.Bytes(), nil, nil
}
