package font

// LocaTable is the structural 'loca' table: an index of byte offsets into
// 'glyf', one per glyph plus a trailing sentinel, encoded as either
// 16-bit half-offsets (SHORT) or full 32-bit offsets (LONG) depending on
// head.indexToLocFormat.
type LocaTable struct {
	Offsets []uint32
}

func parseLocaTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	maxp, ok := dependencies["maxp"].(*MaxpTable)
	if !ok {
		return nil, newErrorf("loca", "parse requires 'maxp'")
	}
	head, ok := dependencies["head"].(*HeadTable)
	if !ok {
		return nil, newErrorf("loca", "parse requires 'head'")
	}

	s := NewStream(data)
	t := &LocaTable{}
	for i := 0; i < int(maxp.NumGlyphs)+1; i++ {
		var offset uint32
		var err error
		if head.IndexToLocFormat == IndexToLocShort {
			var half uint16
			half, err = s.ReadOffset16()
			offset = uint32(half) * 2
		} else {
			offset, err = s.ReadOffset32()
		}
		if err != nil {
			return nil, newError("loca", err)
		}
		t.Offsets = append(t.Offsets, offset)
	}
	return t, nil
}

// CalculateIndexToLocFormat picks SHORT when every offset is even and the
// largest fits a doubled 16-bit value, else LONG.
func (t *LocaTable) CalculateIndexToLocFormat() IndexToLocFormat {
	var max uint32
	for _, offset := range t.Offsets {
		if offset > max {
			max = offset
		}
		if offset%2 != 0 {
			return IndexToLocLong
		}
	}
	if max <= 0xFFFF*2 {
		return IndexToLocShort
	}
	return IndexToLocLong
}

func (t *LocaTable) Copy() Table {
	c := &LocaTable{Offsets: make([]uint32, len(t.Offsets))}
	copy(c.Offsets, t.Offsets)
	return c
}

func (t *LocaTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	head, ok := dependencies["head"].(*HeadTable)
	if !ok {
		return nil, nil, newErrorf("loca", "dump requires 'head'")
	}
	head.IndexToLocFormat = t.CalculateIndexToLocFormat()

	s := NewStream(nil)
	for _, offset := range t.Offsets {
		if head.IndexToLocFormat == IndexToLocShort {
			s.WriteOffset16(uint16(offset / 2))
		} else {
			s.WriteOffset32(offset)
		}
	}
	return s.Bytes(), nil, nil
}
