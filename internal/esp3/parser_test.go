package esp3

import (
	"bytes"
	"testing"
)

func TestParserRoundTripsEncodedFrame(t *testing.T) {
	data, optional := EncodeRadioTelegram(0xF6, []byte{0x70}, 0x0583A4F2, 0xFFFFFFFF)
	frame := Frame{PacketType: PacketTypeRadioERP1, Data: data, Optional: optional}
	wire := frame.Encode()

	p := NewParser()
	p.Write(wire)
	frames := p.Pop()

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	got := frames[0]
	if got.PacketType != PacketTypeRadioERP1 {
		t.Errorf("PacketType = %#x, want %#x", got.PacketType, PacketTypeRadioERP1)
	}
	if !bytes.Equal(got.Data, data) {
		t.Errorf("Data = %x, want %x", got.Data, data)
	}
	if !bytes.Equal(got.Optional, optional) {
		t.Errorf("Optional = %x, want %x", got.Optional, optional)
	}
}

func TestParserFeedsByteAtATime(t *testing.T) {
	data, optional := EncodeRadioTelegram(0xA5, []byte{0x01, 0x02, 0x03, 0x04}, 0x01020304, 0xFFFFFFFF)
	wire := Frame{PacketType: PacketTypeRadioERP1, Data: data, Optional: optional}.Encode()

	p := NewParser()
	var frames []Frame
	for _, b := range wire {
		p.Write([]byte{b})
		frames = append(frames, p.Pop()...)
	}

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].PacketType != PacketTypeRadioERP1 {
		t.Errorf("PacketType = %#x, want %#x", frames[0].PacketType, PacketTypeRadioERP1)
	}
}

func TestParserResyncsAfterHeaderCorruption(t *testing.T) {
	data, optional := EncodeRadioTelegram(0xF6, []byte{0x70}, 0x0583A4F2, 0xFFFFFFFF)
	good := Frame{PacketType: PacketTypeRadioERP1, Data: data, Optional: optional}.Encode()

	// Corrupt the header CRC of a leading garbage frame, then append a
	// valid frame; the parser must recover and emit exactly the valid one.
	garbage := append([]byte{}, good...)
	garbage[4] ^= 0xFF // flip header CRC byte

	p := NewParser()
	p.Write(garbage)
	p.Write(good)
	frames := p.Pop()

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 after resync", len(frames))
	}
}

func TestParserResyncsAfterBodyCorruption(t *testing.T) {
	data, optional := EncodeRadioTelegram(0xF6, []byte{0x70}, 0x0583A4F2, 0xFFFFFFFF)
	corrupt := Frame{PacketType: PacketTypeRadioERP1, Data: data, Optional: optional}.Encode()
	// Flip a data byte without touching CRCs, so the header is valid but
	// the body CRC check fails.
	corrupt[6] ^= 0xFF

	good := Frame{PacketType: PacketTypeRadioERP1, Data: data, Optional: optional}.Encode()

	p := NewParser()
	p.Write(corrupt)
	p.Write(good)
	frames := p.Pop()

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 after resync", len(frames))
	}
}

func TestDecodeRadioTelegramExtractsRSSI(t *testing.T) {
	data, optional := EncodeRadioTelegram(0xF6, []byte{0x70}, 0x0583A4F2, 0xFFFFFFFF)
	telegram, err := DecodeRadioTelegram(data, optional)
	if err != nil {
		t.Fatalf("DecodeRadioTelegram: %v", err)
	}
	if telegram.SenderID != 0x0583A4F2 {
		t.Errorf("SenderID = %#x, want 0x0583A4F2", telegram.SenderID)
	}
	if telegram.SenderHex() != "0x0583A4F2" {
		t.Errorf("SenderHex() = %q, want 0x0583A4F2", telegram.SenderHex())
	}
	if telegram.RSSI != -0xFF {
		t.Errorf("RSSI = %d, want %d", telegram.RSSI, -0xFF)
	}
}

func TestDecodeRadioTelegramRejectsShortData(t *testing.T) {
	if _, err := DecodeRadioTelegram([]byte{0x01, 0x02}, nil); err == nil {
		t.Fatal("expected error for short data block")
	}
}
