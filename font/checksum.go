package font

import "encoding/binary"

const checksumMagicNumber uint32 = 0xB1B0AFBA

// CalculateChecksum sums data as big-endian uint32 words, zero-padding the
// final word to a multiple of 4 bytes, modulo 2^32. This matches the
// teacher's calcChecksum (util.go) and the source's calculate_checksum.
func CalculateChecksum(data []byte) uint32 {
	var checksum uint32
	for i := 0; i < len(data); i += 4 {
		end := i + 4
		if end > len(data) {
			chunk := make([]byte, 4)
			copy(chunk, data[i:])
			checksum += binary.BigEndian.Uint32(chunk)
			break
		}
		checksum += binary.BigEndian.Uint32(data[i:end])
	}
	return checksum
}

// calculateChecksumAdjustment subtracts the sum of checksums from the magic
// constant, modulo 2^32.
func calculateChecksumAdjustment(checksums []uint32) uint32 {
	var total uint32
	for _, c := range checksums {
		total += c
	}
	return checksumMagicNumber - total
}

// checksumHeadZeroed computes a table's checksum with head's own
// checksumAdjustment field (bytes 8:12) treated as zero, per the
// orchestrator contract.
func checksumHeadZeroed(data []byte) uint32 {
	if len(data) < 12 {
		return CalculateChecksum(data)
	}
	patched := make([]byte, len(data))
	copy(patched, data)
	for i := 8; i < 12; i++ {
		patched[i] = 0
	}
	return CalculateChecksum(patched)
}
