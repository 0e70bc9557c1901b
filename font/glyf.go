package font

// Glyph is implemented by SimpleGlyph and ComponentGlyph; a glyf slot may
// also be nil for an empty glyph (e.g. the space character).
type Glyph interface {
	bounds() (xMin, yMin, xMax, yMax int16)
	copyGlyph() Glyph
	dump() ([]byte, error)
}

func (g *SimpleGlyph) bounds() (int16, int16, int16, int16) { return g.XMin, g.YMin, g.XMax, g.YMax }
func (g *SimpleGlyph) copyGlyph() Glyph                      { return g.Copy() }

func (g *ComponentGlyph) bounds() (int16, int16, int16, int16) { return g.XMin, g.YMin, g.XMax, g.YMax }
func (g *ComponentGlyph) copyGlyph() Glyph                     { return g.Copy() }

// GlyfTable is the structural 'glyf' table: the concatenated outline data
// for every glyph, sliced according to 'loca'.
type GlyfTable struct {
	Glyphs []Glyph
}

func (t *GlyfTable) NumGlyphs() int {
	return len(t.Glyphs)
}

func parseGlyfTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	loca, ok := dependencies["loca"].(*LocaTable)
	if !ok {
		return nil, newErrorf("glyf", "parse requires 'loca'")
	}

	t := &GlyfTable{}
	for i := 0; i < len(loca.Offsets)-1; i++ {
		offset := loca.Offsets[i]
		nextOffset := loca.Offsets[i+1]
		if nextOffset == offset {
			t.Glyphs = append(t.Glyphs, nil)
			continue
		}
		if int(nextOffset) > len(data) || offset > nextOffset {
			return nil, newErrorf("glyf", "%v: glyph offsets out of range", ErrCountMismatch)
		}
		glyphData := data[offset:nextOffset]
		s := NewStream(glyphData)
		numContours, err := s.ReadInt16()
		if err != nil {
			return nil, newError("glyf", err)
		}
		xMin, err := s.ReadInt16()
		if err != nil {
			return nil, newError("glyf", err)
		}
		yMin, err := s.ReadInt16()
		if err != nil {
			return nil, newError("glyf", err)
		}
		xMax, err := s.ReadInt16()
		if err != nil {
			return nil, newError("glyf", err)
		}
		yMax, err := s.ReadInt16()
		if err != nil {
			return nil, newError("glyf", err)
		}

		var glyph Glyph
		switch {
		case numContours > 0:
			glyph, err = parseSimpleGlyphBody(s, int(numContours), xMin, yMin, xMax, yMax)
		case numContours < 0:
			glyph, err = parseComponentGlyphBody(s, xMin, yMin, xMax, yMax)
		default:
			return nil, newErrorf("glyf", "bad glyph data")
		}
		if err != nil {
			return nil, newError("glyf", err)
		}
		t.Glyphs = append(t.Glyphs, glyph)
	}
	return t, nil
}

// CalculateBoundsBox returns the union of every glyph's own bounding box,
// used by head.Update to refresh head.xMin/yMin/xMax/yMax.
func (t *GlyfTable) CalculateBoundsBox() (xMin, yMin, xMax, yMax int16) {
	first := true
	for _, g := range t.Glyphs {
		if g == nil {
			continue
		}
		gxMin, gyMin, gxMax, gyMax := g.bounds()
		if first {
			xMin, yMin, xMax, yMax = gxMin, gyMin, gxMax, gyMax
			first = false
			continue
		}
		if gxMin < xMin {
			xMin = gxMin
		}
		if gyMin < yMin {
			yMin = gyMin
		}
		if gxMax > xMax {
			xMax = gxMax
		}
		if gyMax > yMax {
			yMax = gyMax
		}
	}
	return
}

func (t *GlyfTable) Copy() Table {
	c := &GlyfTable{Glyphs: make([]Glyph, len(t.Glyphs))}
	for i, g := range t.Glyphs {
		if g != nil {
			c.Glyphs[i] = g.copyGlyph()
		}
	}
	return c
}

// Dump re-serializes every glyph and returns a freshly computed 'loca' for
// the orchestrator to install alongside it, mirroring the source's
// coupled glyf/loca dump.
func (t *GlyfTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	offsets := make([]uint32, 0, len(t.Glyphs)+1)
	for _, g := range t.Glyphs {
		offsets = append(offsets, uint32(s.Tell()))
		if g != nil {
			b, err := g.dump()
			if err != nil {
				return nil, nil, newError("glyf", err)
			}
			s.Write(b)
		}
		switch configs.GlyfDataOffsetsPaddingMode {
		case AlignTo2Byte:
			s.AlignTo2ByteWithNulls()
		case AlignTo4Byte:
			s.AlignTo4ByteWithNulls()
		}
	}
	offsets = append(offsets, uint32(s.Tell()))

	return s.Bytes(), map[string]Table{"loca": &LocaTable{Offsets: offsets}}, nil
}
