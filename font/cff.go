package font

// CffTable is the structural 'CFF ' table. The CFF charstring format is
// kept as an opaque blob: parsing it fully is a separate outline format
// in its own right, not a container concern this module takes on.
type CffTable struct {
	Data []byte
}

func parseCffTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	b := make([]byte, len(data))
	copy(b, data)
	return &CffTable{Data: b}, nil
}

// CalculateBoundsBox is not derivable without parsing CFF charstrings; it
// returns a zero box, matching the unimplemented upstream behavior.
func (t *CffTable) CalculateBoundsBox() (xMin, yMin, xMax, yMax int16) {
	return 0, 0, 0, 0
}

func (t *CffTable) Copy() Table {
	b := make([]byte, len(t.Data))
	copy(b, t.Data)
	return &CffTable{Data: b}
}

func (t *CffTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	return t.Data, nil, nil
}

// Cff2Table is the structural 'CFF2' table, kept opaque for the same
// reason as CffTable.
type Cff2Table struct {
	Data []byte
}

func parseCff2Table(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	b := make([]byte, len(data))
	copy(b, data)
	return &Cff2Table{Data: b}, nil
}

func (t *Cff2Table) CalculateBoundsBox() (xMin, yMin, xMax, yMax int16) {
	return 0, 0, 0, 0
}

func (t *Cff2Table) Copy() Table {
	b := make([]byte, len(t.Data))
	copy(b, t.Data)
	return &Cff2Table{Data: b}
}

func (t *Cff2Table) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	return t.Data, nil, nil
}
