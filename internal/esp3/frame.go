package esp3

import (
	"encoding/binary"
	"fmt"
)

// Packet types carried in an ESP3 frame header.
const (
	PacketTypeRadioERP1     byte = 0x01
	PacketTypeResponse      byte = 0x02
	PacketTypeRadioSubTel   byte = 0x03
	PacketTypeEvent         byte = 0x04
	PacketTypeCommonCommand byte = 0x05
)

const syncByte = 0x55

// headerSize is sync + data length (2) + optional length (1) + packet type
// (1) + header CRC (1).
const headerSize = 6

// Frame is a decoded ESP3 packet: a packet type plus its data and optional
// blocks, both already CRC-validated.
type Frame struct {
	PacketType byte
	Data       []byte
	Optional   []byte
}

// Encode serialises a Frame to its ESP3 wire representation, computing both
// CRCs.
func (f Frame) Encode() []byte {
	header := []byte{
		byte(len(f.Data) >> 8), //nolint:gosec // data blocks are well under 64KiB
		byte(len(f.Data)),
		byte(len(f.Optional)),
		f.PacketType,
	}
	headerCRC := crc8(header)

	body := make([]byte, 0, len(f.Data)+len(f.Optional))
	body = append(body, f.Data...)
	body = append(body, f.Optional...)
	dataCRC := crc8(body)

	out := make([]byte, 0, 1+len(header)+1+len(body)+1)
	out = append(out, syncByte)
	out = append(out, header...)
	out = append(out, headerCRC)
	out = append(out, body...)
	out = append(out, dataCRC)
	return out
}

// RadioTelegram is a decoded RADIO_ERP1 packet: a sender, its payload, the
// trailing status byte, and the RSSI read from the optional block, when
// present.
type RadioTelegram struct {
	RORG     byte
	SenderID uint32
	Status   byte
	Payload  []byte
	RSSI     int // negative dBm; 0 when the optional block carried no RSSI
}

// SenderHex formats the sender address as "0xAABBCCDD".
func (t RadioTelegram) SenderHex() string {
	return fmt.Sprintf("0x%08X", t.SenderID)
}

// RORGHex formats the RORG as a two-digit uppercase hex string.
func (t RadioTelegram) RORGHex() string {
	return fmt.Sprintf("%02X", t.RORG)
}

// DecodeRadioTelegram extracts a RadioTelegram from a RADIO_ERP1 frame's
// data and optional blocks.
//
// The data block layout is [rorg][payload...][sender_id(4, big-endian)][status].
// The optional block, when present, is [sub_tel_num][dest_id(4)][dbm][security_level],
// and RSSI is the negated dBm byte.
func DecodeRadioTelegram(data, optional []byte) (RadioTelegram, error) {
	const minLen = 6 // rorg(1) + sender_id(4) + status(1)
	if len(data) < minLen {
		return RadioTelegram{}, fmt.Errorf("%w: radio telegram data is %d bytes, need at least %d", ErrFrameTooShort, len(data), minLen)
	}

	senderOffset := len(data) - 5
	telegram := RadioTelegram{
		RORG:     data[0],
		SenderID: binary.BigEndian.Uint32(data[senderOffset : senderOffset+4]),
		Status:   data[len(data)-1],
		Payload:  data[1:senderOffset],
	}

	const rssiOptionalLen = 5
	if len(optional) >= rssiOptionalLen {
		telegram.RSSI = -int(optional[4])
	}
	return telegram, nil
}

// EncodeRadioTelegram builds the data and optional blocks for an outbound
// RADIO_ERP1 frame addressed to destination, from this gateway's own
// senderID.
func EncodeRadioTelegram(rorg byte, payload []byte, senderID uint32, destination uint32) (data, optional []byte) {
	data = make([]byte, 0, 1+len(payload)+4+1)
	data = append(data, rorg)
	data = append(data, payload...)
	data = binary.BigEndian.AppendUint32(data, senderID)
	data = append(data, 0x00) // status

	optional = make([]byte, 7)
	optional[0] = 0x03 // sub-telegram count
	binary.BigEndian.PutUint32(optional[1:5], destination)
	optional[5] = 0xFF // send with default signal strength
	optional[6] = 0x00 // security level: none
	return data, optional
}
