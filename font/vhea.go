package font

// VheaTable is the structural 'vhea' table: vertical layout metrics.
type VheaTable struct {
	MajorVersion         uint16
	MinorVersion         uint16
	Ascender             int16
	Descender            int16
	LineGap              int16
	AdvanceHeightMax     uint16
	MinTopSideBearing    int16
	MinBottomSideBearing int16
	YMaxExtent           int16
	CaretSlopeRise       int16
	CaretSlopeRun        int16
	CaretOffset          int16
	MetricDataFormat     MetricDataFormat
	NumVertMetrics       uint16
}

func parseVheaTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	s := NewStream(data)
	t := &VheaTable{}
	var err error
	if t.MajorVersion, t.MinorVersion, err = s.ReadVersion16Dot16(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.Ascender, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.Descender, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.LineGap, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.AdvanceHeightMax, err = s.ReadUFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.MinTopSideBearing, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.MinBottomSideBearing, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.YMaxExtent, err = s.ReadFWord(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.CaretSlopeRise, err = s.ReadInt16(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.CaretSlopeRun, err = s.ReadInt16(); err != nil {
		return nil, newError("vhea", err)
	}
	if t.CaretOffset, err = s.ReadInt16(); err != nil {
		return nil, newError("vhea", err)
	}
	for i := 0; i < 4; i++ {
		if _, err = s.ReadInt16(); err != nil {
			return nil, newError("vhea", err)
		}
	}
	format, err := s.ReadInt16()
	if err != nil {
		return nil, newError("vhea", err)
	}
	t.MetricDataFormat = MetricDataFormat(format)
	if t.NumVertMetrics, err = s.ReadUint16(); err != nil {
		return nil, newError("vhea", err)
	}
	return t, nil
}

func (t *VheaTable) Copy() Table {
	c := *t
	return &c
}

// Update recomputes advanceHeightMax from vmtx. The other derived bounds
// are not recomputed here, matching the upstream algorithm this was
// ported from.
func (t *VheaTable) Update(configs *Configs, tables map[string]Table) error {
	vmtx, ok := tables["vmtx"].(*VmtxTable)
	if !ok {
		return newErrorf("vhea", "update requires 'vmtx'")
	}
	var max uint16
	for _, m := range vmtx.VertMetrics {
		if m.AdvanceHeight > max {
			max = m.AdvanceHeight
		}
	}
	t.AdvanceHeightMax = max
	return nil
}

func (t *VheaTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	if _, err := s.WriteVersion16Dot16(t.MajorVersion, t.MinorVersion); err != nil {
		return nil, nil, newError("vhea", err)
	}
	s.WriteFWord(t.Ascender)
	s.WriteFWord(t.Descender)
	s.WriteFWord(t.LineGap)
	s.WriteUFWord(t.AdvanceHeightMax)
	s.WriteFWord(t.MinTopSideBearing)
	s.WriteFWord(t.MinBottomSideBearing)
	s.WriteFWord(t.YMaxExtent)
	s.WriteInt16(t.CaretSlopeRise)
	s.WriteInt16(t.CaretSlopeRun)
	s.WriteInt16(t.CaretOffset)
	for i := 0; i < 4; i++ {
		s.WriteInt16(0)
	}
	s.WriteInt16(int16(t.MetricDataFormat))
	s.WriteUint16(t.NumVertMetrics)
	return s.Bytes(), nil, nil
}
