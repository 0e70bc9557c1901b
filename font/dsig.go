package font

const dsigPermissionFlagCannotBeResigned uint16 = 0b0000_0000_0000_0001

// DsigPermissionFlags is the flags field of the DSIG header.
type DsigPermissionFlags struct {
	CannotBeResigned bool
}

func parseDsigPermissionFlags(value uint16) DsigPermissionFlags {
	return DsigPermissionFlags{CannotBeResigned: value&dsigPermissionFlagCannotBeResigned > 0}
}

func (f DsigPermissionFlags) value() uint16 {
	if f.CannotBeResigned {
		return dsigPermissionFlagCannotBeResigned
	}
	return 0
}

// SignatureBlock is implemented by every known DSIG signature block
// format (only format 1, PKCS#7, is currently defined).
type SignatureBlock interface {
	Format() uint32
	copyBlock() SignatureBlock
	dump() []byte
}

// SignatureBlockFormat1 wraps a raw PKCS#7 signature.
type SignatureBlockFormat1 struct {
	Signature []byte
}

func (b *SignatureBlockFormat1) Format() uint32 { return 1 }

func (b *SignatureBlockFormat1) copyBlock() SignatureBlock {
	c := make([]byte, len(b.Signature))
	copy(c, b.Signature)
	return &SignatureBlockFormat1{Signature: c}
}

func (b *SignatureBlockFormat1) dump() []byte {
	s := NewStream(nil)
	s.WriteUint16(0)
	s.WriteUint16(0)
	s.WriteUint32(uint32(len(b.Signature)))
	s.Write(b.Signature)
	return s.Bytes()
}

func parseSignatureBlockFormat1(data []byte) (SignatureBlock, error) {
	s := NewStream(data)
	if _, err := s.ReadUint16(); err != nil {
		return nil, err
	}
	if _, err := s.ReadUint16(); err != nil {
		return nil, err
	}
	length, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	signature, err := s.Read(int(length))
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(signature))
	copy(b, signature)
	return &SignatureBlockFormat1{Signature: b}, nil
}

func parseSignatureBlock(format uint32, data []byte) (SignatureBlock, error) {
	switch format {
	case 1:
		return parseSignatureBlockFormat1(data)
	default:
		return nil, newErrorf("DSIG", "unsupported signature format: %d", format)
	}
}

type signatureRecord struct {
	format uint32
	length uint32
	offset uint32
}

func parseSignatureRecord(s *Stream) (signatureRecord, error) {
	var r signatureRecord
	var err error
	if r.format, err = s.ReadUint32(); err != nil {
		return r, err
	}
	if r.length, err = s.ReadUint32(); err != nil {
		return r, err
	}
	if r.offset, err = s.ReadOffset32(); err != nil {
		return r, err
	}
	return r, nil
}

func (r signatureRecord) dump(s *Stream) {
	s.WriteUint32(r.format)
	s.WriteUint32(r.length)
	s.WriteOffset32(r.offset)
}

// DsigTable is the structural 'DSIG' table: a digital-signature container.
type DsigTable struct {
	Version         uint32
	Flags           DsigPermissionFlags
	SignatureBlocks []SignatureBlock
}

func (t *DsigTable) NumSignatures() int {
	return len(t.SignatureBlocks)
}

func parseDsigTable(data []byte, configs *Configs, dependencies map[string]Table) (Table, error) {
	s := NewStream(data)
	t := &DsigTable{}
	var err error
	if t.Version, err = s.ReadUint32(); err != nil {
		return nil, newError("DSIG", err)
	}
	numSignatures, err := s.ReadUint16()
	if err != nil {
		return nil, newError("DSIG", err)
	}
	flagsValue, err := s.ReadUint16()
	if err != nil {
		return nil, newError("DSIG", err)
	}
	t.Flags = parseDsigPermissionFlags(flagsValue)

	records := make([]signatureRecord, numSignatures)
	for i := range records {
		records[i], err = parseSignatureRecord(s)
		if err != nil {
			return nil, newError("DSIG", err)
		}
	}
	for _, r := range records {
		s.Seek(int(r.offset))
		blockData, err := s.Read(int(r.length))
		if err != nil {
			return nil, newError("DSIG", err)
		}
		block, err := parseSignatureBlock(r.format, blockData)
		if err != nil {
			return nil, newError("DSIG", err)
		}
		t.SignatureBlocks = append(t.SignatureBlocks, block)
	}
	return t, nil
}

func (t *DsigTable) Copy() Table {
	c := &DsigTable{Version: t.Version, Flags: t.Flags, SignatureBlocks: make([]SignatureBlock, len(t.SignatureBlocks))}
	for i, b := range t.SignatureBlocks {
		c.SignatureBlocks[i] = b.copyBlock()
	}
	return c
}

// Dump reserves the fixed-size header and record area by seeking past it,
// serializes the signature blocks while recording their offsets, then
// seeks back to the start and writes the header and records once, with
// those offsets known.
func (t *DsigTable) Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error) {
	s := NewStream(nil)
	headerSize := 4 + 2 + 2 + (4+4+4)*t.NumSignatures()
	s.Seek(headerSize)
	s.Write(nil)

	records := make([]signatureRecord, 0, t.NumSignatures())
	for _, block := range t.SignatureBlocks {
		offset := s.Tell()
		data := block.dump()
		s.Write(data)
		records = append(records, signatureRecord{format: block.Format(), length: uint32(len(data)), offset: uint32(offset)})
	}

	s.Seek(0)
	s.WriteUint32(t.Version)
	s.WriteUint16(uint16(t.NumSignatures()))
	s.WriteUint16(t.Flags.value())
	for _, r := range records {
		r.dump(s)
	}

	return s.Bytes(), nil, nil
}
