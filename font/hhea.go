package font

// MetricDataFormat is the reserved metricDataFormat field shared by hhea
// and vhea; 0 is the only format defined to date.
type MetricDataFormat int16

const MetricDataFormatCurrent MetricDataFormat = 0

// HheaTable is the structural 'hhea' table: horizontal layout metrics.
type HheaTable struct {
	MajorVersion        uint16
	MinorVersion        uint16
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	MetricDataFormat    MetricDataFormat
	NumHoriMetrics      uint16
}

func parseHheaTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	s := NewStream(data)
	t := &HheaTable{}
	var err error
	if t.MajorVersion, err = s.ReadUint16(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.MinorVersion, err = s.ReadUint16(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.Ascender, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.Descender, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.LineGap, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.AdvanceWidthMax, err = s.ReadUFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.MinLeftSideBearing, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.MinRightSideBearing, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.XMaxExtent, err = s.ReadFWord(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.CaretSlopeRise, err = s.ReadInt16(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.CaretSlopeRun, err = s.ReadInt16(); err != nil {
		return nil, newError("hhea", err)
	}
	if t.CaretOffset, err = s.ReadInt16(); err != nil {
		return nil, newError("hhea", err)
	}
	for i := 0; i < 4; i++ {
		if _, err = s.ReadInt16(); err != nil {
			return nil, newError("hhea", err)
		}
	}
	format, err := s.ReadInt16()
	if err != nil {
		return nil, newError("hhea", err)
	}
	t.MetricDataFormat = MetricDataFormat(format)
	if t.NumHoriMetrics, err = s.ReadUint16(); err != nil {
		return nil, newError("hhea", err)
	}
	return t, nil
}

func (t *HheaTable) Copy() Table {
	c := *t
	return &c
}

// Update recomputes advanceWidthMax from hmtx. The other derived bounds
// (minLeftSideBearing, minRightSideBearing, xMaxExtent) are not
// recomputed here, matching the upstream algorithm this was ported from.
func (t *HheaTable) Update(configs *Configs, tables map[string]Table) error {
	hmtx, ok := tables["hmtx"].(*HmtxTable)
	if !ok {
		return newErrorf("hhea", "update requires 'hmtx'")
	}
	var max uint16
	for _, m := range hmtx.HoriMetrics {
		if m.AdvanceWidth > max {
			max = m.AdvanceWidth
		}
	}
	t.AdvanceWidthMax = max
	return nil
}

func (t *HheaTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	s.WriteUint16(t.MajorVersion)
	s.WriteUint16(t.MinorVersion)
	s.WriteFWord(t.Ascender)
	s.WriteFWord(t.Descender)
	s.WriteFWord(t.LineGap)
	s.WriteUFWord(t.AdvanceWidthMax)
	s.WriteFWord(t.MinLeftSideBearing)
	s.WriteFWord(t.MinRightSideBearing)
	s.WriteFWord(t.XMaxExtent)
	s.WriteInt16(t.CaretSlopeRise)
	s.WriteInt16(t.CaretSlopeRun)
	s.WriteInt16(t.CaretOffset)
	for i := 0; i < 4; i++ {
		s.WriteInt16(0)
	}
	s.WriteInt16(int16(t.MetricDataFormat))
	s.WriteUint16(t.NumHoriMetrics)
	return s.Bytes(), nil, nil
}
