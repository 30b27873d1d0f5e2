package eep

import "testing"

func TestDecodeEnumField(t *testing.T) {
	profile := Profile{
		Fields: []FieldDescriptor{
			{Shortcut: "MOV", Offset: 7, Size: 1, Kind: FieldEnum, Values: []EnumValue{
				{Value: 0, Description: "no motion"},
				{Value: 1, Description: "motion"},
			}},
		},
	}

	out := Decode(profile, []byte{0x01})
	if out["MOV"] != 1 {
		t.Errorf("MOV = %v, want 1", out["MOV"])
	}
	if out["MOV_text"] != "motion" {
		t.Errorf("MOV_text = %v, want motion", out["MOV_text"])
	}
}

func TestDecodeValueFieldScales(t *testing.T) {
	profile := Profile{
		Fields: []FieldDescriptor{
			{
				Shortcut: "TMP", Offset: 8, Size: 8, Kind: FieldValue,
				RawRange: Range{Min: 0, Max: 255},
				Scale:    Range{Min: 0, Max: 40},
			},
		},
	}

	// Payload: 2 bytes, TMP occupies the low byte.
	out := Decode(profile, []byte{0x00, 0xFF})
	if out["TMP"] != 40.0 {
		t.Errorf("TMP = %v, want 40", out["TMP"])
	}

	out = Decode(profile, []byte{0x00, 0x00})
	if out["TMP"] != 0.0 {
		t.Errorf("TMP = %v, want 0", out["TMP"])
	}
}

func TestDecodeValueFieldDegenerateRangeReturnsRaw(t *testing.T) {
	profile := Profile{
		Fields: []FieldDescriptor{
			{Shortcut: "RAW", Offset: 0, Size: 8, Kind: FieldValue, RawRange: Range{Min: 5, Max: 5}},
		},
	}
	out := Decode(profile, []byte{0x2A})
	if out["RAW"] != 0x2A {
		t.Errorf("RAW = %v, want 42", out["RAW"])
	}
}

func TestDecodeSkipsFieldsOutsidePayload(t *testing.T) {
	profile := Profile{
		Fields: []FieldDescriptor{
			{Shortcut: "OOB", Offset: 100, Size: 8, Kind: FieldRaw},
		},
	}
	out := Decode(profile, []byte{0x01})
	if _, ok := out["OOB"]; ok {
		t.Errorf("expected OOB field to be skipped, got %v", out["OOB"])
	}
}

func TestIsTeachIn(t *testing.T) {
	cases := []struct {
		name    string
		rorg    byte
		payload []byte
		want    bool
	}{
		{"RPS never teaches in", 0xF6, []byte{0x70}, false},
		{"1BS teach-in", 0xD5, []byte{0x00}, true},
		{"1BS data telegram", 0xD5, []byte{0x08}, false},
		{"4BS teach-in", 0xA5, []byte{0x00, 0x00, 0x00, 0x00}, true},
		{"4BS data telegram", 0xA5, []byte{0x00, 0x00, 0x00, 0x08}, false},
		{"VLD never reported as teach-in", 0xD2, []byte{0x00}, false},
	}
	for _, c := range cases {
		if got := IsTeachIn(c.rorg, c.payload); got != c.want {
			t.Errorf("%s: IsTeachIn() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestImplicitEEP(t *testing.T) {
	// func=0x02 (binary 000010), type=0x01 -> payload[0]=0b00001000, payload[1]=0b00001000
	fn, typ, ok := ImplicitEEP([]byte{0x08, 0x08, 0x00, 0x00})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if fn != 0x02 {
		t.Errorf("fn = %#x, want 0x02", fn)
	}
	if typ != 0x01 {
		t.Errorf("typ = %#x, want 0x01", typ)
	}
}
