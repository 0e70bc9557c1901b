package font

const (
	woff2HmtxFlagProportionalLsbOmitted uint8 = 0b0000_0001
	woff2HmtxFlagMonospacedLsbOmitted   uint8 = 0b0000_0010
)

// transformedHmtxTable is the WOFF2 'hmtx' transform: the advance widths
// are kept verbatim, but left side bearings equal to the corresponding
// glyph's xMin may be omitted and reconstructed from 'glyf'.
type transformedHmtxTable struct {
	proportionalLsbOmitted bool
	monospacedLsbOmitted   bool
	advanceWidths          []uint16
	proportionalLsbs       []int16
	monospacedLsbs         []int16
}

func parseTransformedHmtxTable(data []byte, maxp *MaxpTable, hhea *HheaTable) (*transformedHmtxTable, error) {
	s := NewStream(data)
	flags, err := s.ReadUint8()
	if err != nil {
		return nil, newError("woff2", err)
	}
	t := &transformedHmtxTable{
		proportionalLsbOmitted: flags&woff2HmtxFlagProportionalLsbOmitted > 0,
		monospacedLsbOmitted:   flags&woff2HmtxFlagMonospacedLsbOmitted > 0,
	}

	numHoriMetrics := int(hhea.NumHoriMetrics)
	t.advanceWidths = make([]uint16, numHoriMetrics)
	for i := range t.advanceWidths {
		if t.advanceWidths[i], err = s.ReadUFWord(); err != nil {
			return nil, newError("woff2", err)
		}
	}

	if !t.proportionalLsbOmitted {
		t.proportionalLsbs = make([]int16, numHoriMetrics)
		for i := range t.proportionalLsbs {
			if t.proportionalLsbs[i], err = s.ReadFWord(); err != nil {
				return nil, newError("woff2", err)
			}
		}
	}

	numRemaining := int(maxp.NumGlyphs) - numHoriMetrics
	if !t.monospacedLsbOmitted && numRemaining > 0 {
		t.monospacedLsbs = make([]int16, numRemaining)
		for i := range t.monospacedLsbs {
			if t.monospacedLsbs[i], err = s.ReadFWord(); err != nil {
				return nil, newError("woff2", err)
			}
		}
	}

	return t, nil
}

// reconstruct rebuilds a structural 'hmtx' table, filling in any omitted
// left side bearing from the referenced glyph's xMin.
func (t *transformedHmtxTable) reconstruct(maxp *MaxpTable, hhea *HheaTable, glyf *GlyfTable) (*HmtxTable, error) {
	numHoriMetrics := int(hhea.NumHoriMetrics)
	if len(t.advanceWidths) != numHoriMetrics {
		return nil, newErrorf("woff2", "%v: hmtx advance width count mismatch", ErrCountMismatch)
	}

	glyphXMin := func(glyphIndex int) int16 {
		if glyphIndex >= glyf.NumGlyphs() {
			return 0
		}
		g := glyf.Glyphs[glyphIndex]
		if g == nil {
			return 0
		}
		xMin, _, _, _ := g.bounds()
		return xMin
	}

	hmtx := &HmtxTable{HoriMetrics: make([]LongHoriMetric, numHoriMetrics)}
	for i := 0; i < numHoriMetrics; i++ {
		lsb := glyphXMin(i)
		if !t.proportionalLsbOmitted {
			lsb = t.proportionalLsbs[i]
		}
		hmtx.HoriMetrics[i] = LongHoriMetric{AdvanceWidth: t.advanceWidths[i], LeftSideBearing: lsb}
	}

	numRemaining := int(maxp.NumGlyphs) - numHoriMetrics
	if numRemaining > 0 {
		hmtx.LeftSideBearings = make([]int16, numRemaining)
		for i := 0; i < numRemaining; i++ {
			lsb := glyphXMin(numHoriMetrics + i)
			if !t.monospacedLsbOmitted && i < len(t.monospacedLsbs) {
				lsb = t.monospacedLsbs[i]
			}
			hmtx.LeftSideBearings[i] = lsb
		}
	}

	return hmtx, nil
}

// transformHmtxTable encodes a structural 'hmtx' table into its WOFF2
// transformed representation, omitting bearings that equal the glyph's
// xMin since the decoder can recompute them from 'glyf'.
func transformHmtxTable(hmtx *HmtxTable, hhea *HheaTable, glyf *GlyfTable) *transformedHmtxTable {
	numHoriMetrics := int(hhea.NumHoriMetrics)

	glyphXMin := func(glyphIndex int) (int16, bool) {
		if glyphIndex >= glyf.NumGlyphs() {
			return 0, false
		}
		g := glyf.Glyphs[glyphIndex]
		if g == nil {
			return 0, false
		}
		xMin, _, _, _ := g.bounds()
		return xMin, true
	}

	proportionalOmittable := true
	for i, m := range hmtx.HoriMetrics {
		xMin, ok := glyphXMin(i)
		if !ok || xMin != m.LeftSideBearing {
			proportionalOmittable = false
			break
		}
	}

	monospacedOmittable := len(hmtx.LeftSideBearings) > 0
	for i, lsb := range hmtx.LeftSideBearings {
		xMin, ok := glyphXMin(numHoriMetrics + i)
		if !ok || xMin != lsb {
			monospacedOmittable = false
			break
		}
	}

	t := &transformedHmtxTable{
		proportionalLsbOmitted: proportionalOmittable,
		monospacedLsbOmitted:   monospacedOmittable,
	}
	t.advanceWidths = make([]uint16, numHoriMetrics)
	for i, m := range hmtx.HoriMetrics {
		t.advanceWidths[i] = m.AdvanceWidth
	}
	if !proportionalOmittable {
		t.proportionalLsbs = make([]int16, numHoriMetrics)
		for i, m := range hmtx.HoriMetrics {
			t.proportionalLsbs[i] = m.LeftSideBearing
		}
	}
	if !monospacedOmittable {
		t.monospacedLsbs = append([]int16(nil), hmtx.LeftSideBearings...)
	}
	return t
}

func (t *transformedHmtxTable) dump() []byte {
	s := NewStream(nil)
	var flags uint8
	if t.proportionalLsbOmitted {
		flags |= woff2HmtxFlagProportionalLsbOmitted
	}
	if t.monospacedLsbOmitted {
		flags |= woff2HmtxFlagMonospacedLsbOmitted
	}
	s.WriteUint8(flags)
	for _, w := range t.advanceWidths {
		s.WriteUFWord(w)
	}
	if !t.proportionalLsbOmitted {
		for _, lsb := range t.proportionalLsbs {
			s.WriteFWord(lsb)
		}
	}
	if !t.monospacedLsbOmitted {
		for _, lsb := range t.monospacedLsbs {
			s.WriteFWord(lsb)
		}
	}
	return s.Bytes()
}
