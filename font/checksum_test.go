package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestCalculateChecksum(t *testing.T) {
	test.T(t, CalculateChecksum([]byte("abcd")), uint32(1_633_837_924))
	test.T(t, CalculateChecksum([]byte("Hello World!")), uint32(703_735_804))
}

func TestCalculateChecksumAdjustment(t *testing.T) {
	checksums := []uint32{1, 2, 3}
	test.T(t, calculateChecksumAdjustment(checksums), checksumMagicNumber-6)
}

func TestChecksumHeadZeroed(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i + 1)
	}
	zeroed := make([]byte, len(data))
	copy(zeroed, data)
	for i := 8; i < 12; i++ {
		zeroed[i] = 0
	}
	test.T(t, checksumHeadZeroed(data), CalculateChecksum(zeroed))
}
