package icurl

import "github.com/sigurn/crc8"

// crcTable is CRC-8/SMBUS: poly 0x07, init 0, no reflection, no final xor.
var crcTable = crc8.MakeTable(crc8.CRC8)

// Checksum returns the CRC-8 of b as carried in the last byte of an ic: URL.
func Checksum(b []byte) byte {
	return crc8.Checksum(b, crcTable)
}
