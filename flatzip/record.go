package flatzip

import (
	"encoding/binary"
	"time"
)

const (
	localHeaderSig = 0x04034b50
	centralDirSig  = 0x02014b50
	endRecordSig   = 0x06054b50

	localHeaderLen   = 30
	centralHeaderLen = 46
	endRecordLen     = 22

	// Format version 1.0, the minimum any extractor supports; stored
	// entries need nothing newer. Doubles as version-made-by.
	zipVersion = 0x000A

	maxNameLen = 0xFFFF
)

// entryDesc carries the fields that an entry's local header and its
// central directory record share verbatim.
type entryDesc struct {
	modTime uint16
	modDate uint16
	crc     uint32
	size    uint32 // stored entries: compressed == uncompressed
	name    string
}

func (e *entryDesc) encodeLocal() []byte {
	b := make([]byte, 0, localHeaderLen+len(e.name))
	b = binary.LittleEndian.AppendUint32(b, localHeaderSig)
	b = binary.LittleEndian.AppendUint16(b, zipVersion) // version needed to extract
	b = binary.LittleEndian.AppendUint16(b, 0)          // general purpose flags
	b = binary.LittleEndian.AppendUint16(b, 0)          // compression method: store
	b = binary.LittleEndian.AppendUint16(b, e.modTime)
	b = binary.LittleEndian.AppendUint16(b, e.modDate)
	b = binary.LittleEndian.AppendUint32(b, e.crc)
	b = binary.LittleEndian.AppendUint32(b, e.size) // compressed size
	b = binary.LittleEndian.AppendUint32(b, e.size) // uncompressed size
	b = binary.LittleEndian.AppendUint16(b, uint16(len(e.name)))
	b = binary.LittleEndian.AppendUint16(b, 0) // extra field length
	return append(b, e.name...)
}

func (e *entryDesc) encodeCentral(offset uint32) []byte {
	b := make([]byte, 0, centralHeaderLen+len(e.name))
	b = binary.LittleEndian.AppendUint32(b, centralDirSig)
	b = binary.LittleEndian.AppendUint16(b, zipVersion) // version made by
	b = binary.LittleEndian.AppendUint16(b, zipVersion) // version needed to extract
	b = binary.LittleEndian.AppendUint16(b, 0)          // general purpose flags
	b = binary.LittleEndian.AppendUint16(b, 0)          // compression method: store
	b = binary.LittleEndian.AppendUint16(b, e.modTime)
	b = binary.LittleEndian.AppendUint16(b, e.modDate)
	b = binary.LittleEndian.AppendUint32(b, e.crc)
	b = binary.LittleEndian.AppendUint32(b, e.size)
	b = binary.LittleEndian.AppendUint32(b, e.size)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(e.name)))
	b = binary.LittleEndian.AppendUint16(b, 0) // extra field length
	b = binary.LittleEndian.AppendUint16(b, 0) // file comment length
	b = binary.LittleEndian.AppendUint16(b, 0) // disk number start
	b = binary.LittleEndian.AppendUint16(b, 0) // internal attributes
	b = binary.LittleEndian.AppendUint32(b, 0) // external attributes
	b = binary.LittleEndian.AppendUint32(b, offset)
	return append(b, e.name...)
}

func encodeEndRecord(entries uint16, dirSize, dirOffset uint32) []byte {
	b := make([]byte, 0, endRecordLen)
	b = binary.LittleEndian.AppendUint32(b, endRecordSig)
	b = binary.LittleEndian.AppendUint16(b, 0)       // this disk number
	b = binary.LittleEndian.AppendUint16(b, 0)       // disk where directory starts
	b = binary.LittleEndian.AppendUint16(b, entries) // entries on this disk
	b = binary.LittleEndian.AppendUint16(b, entries) // entries total
	b = binary.LittleEndian.AppendUint32(b, dirSize)
	b = binary.LittleEndian.AppendUint32(b, dirOffset)
	b = binary.LittleEndian.AppendUint16(b, 0) // comment length
	return b
}

// dosTimeDate packs t into the two-byte DOS time and date pair used by
// entry headers. Time is hour/minute/half-seconds with seconds clamped
// to [0,59] before halving. Date packs day and month unconditionally,
// but the year field can only represent 1980 through 2107; outside that
// window the year bits stay zero while everything else still encodes.
func dosTimeDate(t time.Time) (timeVal, dateVal uint16) {
	hour, minute, sec := t.Clock()
	if sec > 59 {
		sec = 59
	}
	timeVal = uint16(sec/2) | uint16(minute)<<5 | uint16(hour)<<11

	year, month, day := t.Date()
	dateVal = uint16(day) | uint16(month)<<5
	if year >= 1980 && year <= 2107 {
		dateVal |= uint16(year-1980) << 9
	}
	return timeVal, dateVal
}
