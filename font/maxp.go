package font

// MaxpTable is the structural 'maxp' table: memory requirements for a
// CFF-outline font (version 0.5, num_glyphs only) or a TrueType-outline
// font (version 1.0, full profile).
type MaxpTable struct {
	MajorVersion          uint16
	MinorVersion          uint16
	NumGlyphs             uint16
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

func NewMaxpTableForCFF(numGlyphs uint16) *MaxpTable {
	return &MaxpTable{MajorVersion: 0, MinorVersion: 5, NumGlyphs: numGlyphs}
}

func parseMaxpTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	s := NewStream(data)
	t := &MaxpTable{}
	var err error
	if t.MajorVersion, t.MinorVersion, err = s.ReadVersion16Dot16(); err != nil {
		return nil, newError("maxp", err)
	}
	if t.NumGlyphs, err = s.ReadUint16(); err != nil {
		return nil, newError("maxp", err)
	}
	switch {
	case t.MajorVersion == 0 && t.MinorVersion == 5:
		return t, nil
	case t.MajorVersion == 1 && t.MinorVersion == 0:
		fields := []*uint16{
			&t.MaxPoints, &t.MaxContours, &t.MaxCompositePoints, &t.MaxCompositeContours,
			&t.MaxZones, &t.MaxTwilightPoints, &t.MaxStorage, &t.MaxFunctionDefs,
			&t.MaxInstructionDefs, &t.MaxStackElements, &t.MaxSizeOfInstructions,
			&t.MaxComponentElements, &t.MaxComponentDepth,
		}
		for _, f := range fields {
			if *f, err = s.ReadUint16(); err != nil {
				return nil, newError("maxp", err)
			}
		}
		return t, nil
	default:
		return nil, newErrorf("maxp", "%v", ErrUnsupportedVersion)
	}
}

func (t *MaxpTable) Copy() Table {
	c := *t
	return &c
}

func (t *MaxpTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	if _, err := s.WriteVersion16Dot16(t.MajorVersion, t.MinorVersion); err != nil {
		return nil, nil, newError("maxp", err)
	}
	s.WriteUint16(t.NumGlyphs)
	switch {
	case t.MajorVersion == 0 && t.MinorVersion == 5:
	case t.MajorVersion == 1 && t.MinorVersion == 0:
		for _, v := range []uint16{
			t.MaxPoints, t.MaxContours, t.MaxCompositePoints, t.MaxCompositeContours,
			t.MaxZones, t.MaxTwilightPoints, t.MaxStorage, t.MaxFunctionDefs,
			t.MaxInstructionDefs, t.MaxStackElements, t.MaxSizeOfInstructions,
			t.MaxComponentElements, t.MaxComponentDepth,
		} {
			s.WriteUint16(v)
		}
	default:
		return nil, nil, newErrorf("maxp", "%v", ErrUnsupportedVersion)
	}
	return s.Bytes(), nil, nil
}
