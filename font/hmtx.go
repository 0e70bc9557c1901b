package font

// LongHoriMetric is one entry of hmtx's leading array.
type LongHoriMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

func parseLongHoriMetric(s *Stream) (LongHoriMetric, error) {
	var m LongHoriMetric
	var err error
	if m.AdvanceWidth, err = s.ReadUFWord(); err != nil {
		return m, err
	}
	if m.LeftSideBearing, err = s.ReadFWord(); err != nil {
		return m, err
	}
	return m, nil
}

func (m LongHoriMetric) dump(s *Stream) {
	s.WriteUFWord(m.AdvanceWidth)
	s.WriteFWord(m.LeftSideBearing)
}

// HmtxTable is the structural 'hmtx' table: per-glyph horizontal metrics.
// Its length depends on hhea.numHoriMetrics and maxp.numGlyphs.
type HmtxTable struct {
	HoriMetrics      []LongHoriMetric
	LeftSideBearings []int16
}

func parseHmtxTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	hhea, ok := dependencies["hhea"].(*HheaTable)
	if !ok {
		return nil, newErrorf("hmtx", "parse requires 'hhea'")
	}
	maxp, ok := dependencies["maxp"].(*MaxpTable)
	if !ok {
		return nil, newErrorf("hmtx", "parse requires 'maxp'")
	}

	s := NewStream(data)
	t := &HmtxTable{}
	for i := 0; i < int(hhea.NumHoriMetrics); i++ {
		m, err := parseLongHoriMetric(s)
		if err != nil {
			return nil, newError("hmtx", err)
		}
		t.HoriMetrics = append(t.HoriMetrics, m)
	}
	remaining := int(maxp.NumGlyphs) - int(hhea.NumHoriMetrics)
	for i := 0; i < remaining; i++ {
		lsb, err := s.ReadFWord()
		if err != nil {
			return nil, newError("hmtx", err)
		}
		t.LeftSideBearings = append(t.LeftSideBearings, lsb)
	}
	return t, nil
}

func (t *HmtxTable) Copy() Table {
	c := &HmtxTable{
		HoriMetrics:      make([]LongHoriMetric, len(t.HoriMetrics)),
		LeftSideBearings: make([]int16, len(t.LeftSideBearings)),
	}
	copy(c.HoriMetrics, t.HoriMetrics)
	copy(c.LeftSideBearings, t.LeftSideBearings)
	return c
}

func (t *HmtxTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	for _, m := range t.HoriMetrics {
		m.dump(s)
	}
	for _, lsb := range t.LeftSideBearings {
		s.WriteFWord(lsb)
	}
	return s.Bytes(), nil, nil
}
