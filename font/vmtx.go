package font

// LongVertMetric is one entry of vmtx's leading array.
type LongVertMetric struct {
	AdvanceHeight  uint16
	TopSideBearing int16
}

func parseLongVertMetric(s *Stream) (LongVertMetric, error) {
	var m LongVertMetric
	var err error
	if m.AdvanceHeight, err = s.ReadUFWord(); err != nil {
		return m, err
	}
	if m.TopSideBearing, err = s.ReadFWord(); err != nil {
		return m, err
	}
	return m, nil
}

func (m LongVertMetric) dump(s *Stream) {
	s.WriteUFWord(m.AdvanceHeight)
	s.WriteFWord(m.TopSideBearing)
}

// VmtxTable is the structural 'vmtx' table: per-glyph vertical metrics.
// Its length depends on vhea.numVertMetrics and maxp.numGlyphs.
type VmtxTable struct {
	VertMetrics      []LongVertMetric
	TopSideBearings  []int16
}

func parseVmtxTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	vhea, ok := dependencies["vhea"].(*VheaTable)
	if !ok {
		return nil, newErrorf("vmtx", "parse requires 'vhea'")
	}
	maxp, ok := dependencies["maxp"].(*MaxpTable)
	if !ok {
		return nil, newErrorf("vmtx", "parse requires 'maxp'")
	}

	s := NewStream(data)
	t := &VmtxTable{}
	for i := 0; i < int(vhea.NumVertMetrics); i++ {
		m, err := parseLongVertMetric(s)
		if err != nil {
			return nil, newError("vmtx", err)
		}
		t.VertMetrics = append(t.VertMetrics, m)
	}
	remaining := int(maxp.NumGlyphs) - int(vhea.NumVertMetrics)
	for i := 0; i < remaining; i++ {
		tsb, err := s.ReadFWord()
		if err != nil {
			return nil, newError("vmtx", err)
		}
		t.TopSideBearings = append(t.TopSideBearings, tsb)
	}
	return t, nil
}

func (t *VmtxTable) Copy() Table {
	c := &VmtxTable{
		VertMetrics:     make([]LongVertMetric, len(t.VertMetrics)),
		TopSideBearings: make([]int16, len(t.TopSideBearings)),
	}
	copy(c.VertMetrics, t.VertMetrics)
	copy(c.TopSideBearings, t.TopSideBearings)
	return c
}

func (t *VmtxTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	for _, m := range t.VertMetrics {
		m.dump(s)
	}
	for _, tsb := range t.TopSideBearings {
		s.WriteFWord(tsb)
	}
	return s.Bytes(), nil, nil
}
