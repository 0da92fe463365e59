package pager

import "encoding/binary"

// pointer is a fixed-width directory entry describing one record's
// location and size. The slotted page never inspects key or value bytes
// directly through a pointer — decoding is the caller's job.
type pointer interface {
	slotOffset() uint16
	keySize() uint16
	valueSize() uint16
	slotSize() uint16
	encode() []byte
}

// leafPointer is the 6-byte directory entry used by leaf pages:
// { slot_offset: u16, key_size: u16, value_size: u16 }.
type leafPointer struct {
	offset  uint16
	keySz   uint16
	valueSz uint16
}

const leafPointerSize = 6

func decodeLeafPointer(b []byte) leafPointer {
	return leafPointer{
		offset:  binary.LittleEndian.Uint16(b[0:2]),
		keySz:   binary.LittleEndian.Uint16(b[2:4]),
		valueSz: binary.LittleEndian.Uint16(b[4:6]),
	}
}

func (p leafPointer) slotOffset() uint16 { return p.offset }
func (p leafPointer) keySize() uint16    { return p.keySz }
func (p leafPointer) valueSize() uint16  { return p.valueSz }
func (p leafPointer) slotSize() uint16   { return p.keySz + p.valueSz }

func (p leafPointer) encode() []byte {
	b := make([]byte, leafPointerSize)
	binary.LittleEndian.PutUint16(b[0:2], p.offset)
	binary.LittleEndian.PutUint16(b[2:4], p.keySz)
	binary.LittleEndian.PutUint16(b[4:6], p.valueSz)
	return b
}

// branchPointer is the 4-byte directory entry used by branch pages:
// { slot_offset: u16, key_size: u16 }. The value is always a 2-byte child
// page identifier, so its size is implicit rather than stored.
type branchPointer struct {
	offset uint16
	keySz  uint16
}

const branchPointerSize = 4
const branchValueSize = 2

func decodeBranchPointer(b []byte) branchPointer {
	return branchPointer{
		offset: binary.LittleEndian.Uint16(b[0:2]),
		keySz:  binary.LittleEndian.Uint16(b[2:4]),
	}
}

func (p branchPointer) slotOffset() uint16 { return p.offset }
func (p branchPointer) keySize() uint16    { return p.keySz }
func (p branchPointer) valueSize() uint16  { return branchValueSize }
func (p branchPointer) slotSize() uint16   { return p.keySz + branchValueSize }

func (p branchPointer) encode() []byte {
	b := make([]byte, branchPointerSize)
	binary.LittleEndian.PutUint16(b[0:2], p.offset)
	binary.LittleEndian.PutUint16(b[2:4], p.keySz)
	return b
}
