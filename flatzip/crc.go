package flatzip

// crcTable is the 256-entry lookup table for the reversed CRC-32
// polynomial 0xEDB88320 mandated by the archive format.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = 0xEDB88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// Checksum computes the CRC-32 variant stored in archive entry headers:
// table-driven, register seeded with all ones, each input byte XORed into
// the low register byte to index the table, final result XORed with all
// ones. Checksum of empty input is 0.
func Checksum(data []byte) uint32 {
	reg := uint32(0xFFFFFFFF)
	for _, b := range data {
		reg = reg>>8 ^ crcTable[byte(reg)^b]
	}
	return reg ^ 0xFFFFFFFF
}
