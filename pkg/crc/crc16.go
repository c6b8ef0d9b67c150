// Package crc computes the CRC16/Modbus checksum used by the Modbus RTU
// framer to validate candidate frame boundaries.
package crc

// Modbus16 computes CRC16 with polynomial 0xA001, seed 0xFFFF, no final
// XOR, over buf. The transmitted checksum is this value's low byte
// first, high byte second.
func Modbus16(buf []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range buf {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// Valid reports whether frame's trailing two bytes are a correct
// little-endian CRC16/Modbus over frame[:len(frame)-2]. It returns false
// for any frame shorter than 2 bytes.
func Valid(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	payload := frame[:len(frame)-2]
	want := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	return Modbus16(payload) == want
}

// AppendCRC appends the little-endian CRC16/Modbus of payload to payload
// and returns the extended slice.
func AppendCRC(payload []byte) []byte {
	sum := Modbus16(payload)
	return append(payload, byte(sum), byte(sum>>8))
}
