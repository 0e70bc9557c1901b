package font

// DefaultTable is the opaque-blob catch-all for any tag without a
// structural type: name, cmap, post, OS/2, and any unrecognized tag.
type DefaultTable struct {
	Data []byte
}

func parseDefaultTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	b := make([]byte, len(data))
	copy(b, data)
	return &DefaultTable{Data: b}, nil
}

func (t *DefaultTable) Copy() Table {
	b := make([]byte, len(t.Data))
	copy(b, t.Data)
	return &DefaultTable{Data: b}
}

func (t *DefaultTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	return t.Data, nil, nil
}
