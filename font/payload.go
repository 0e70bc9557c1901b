package font

// TtcPayload carries the TTC-collection-level data that sits outside any
// single font's table directory: the collection header version and its
// optional shared DSIG table.
type TtcPayload struct {
	MajorVersion uint16
	MinorVersion uint16
	DsigTable    *DsigTable
}

func (p *TtcPayload) Copy() *TtcPayload {
	if p == nil {
		return nil
	}
	c := &TtcPayload{MajorVersion: p.MajorVersion, MinorVersion: p.MinorVersion}
	if p.DsigTable != nil {
		c.DsigTable = p.DsigTable.Copy().(*DsigTable)
	}
	return c
}

// WoffPayload carries the WOFF/WOFF2-wrapper-level data that sits outside
// the table set: the wrapper's own version and its optional metadata and
// private-data blocks.
type WoffPayload struct {
	MajorVersion uint16
	MinorVersion uint16
	Metadata     []byte
	PrivateData  []byte
}

func (p *WoffPayload) Copy() *WoffPayload {
	if p == nil {
		return nil
	}
	c := &WoffPayload{MajorVersion: p.MajorVersion, MinorVersion: p.MinorVersion}
	if p.Metadata != nil {
		c.Metadata = append([]byte(nil), p.Metadata...)
	}
	if p.PrivateData != nil {
		c.PrivateData = append([]byte(nil), p.PrivateData...)
	}
	return c
}
