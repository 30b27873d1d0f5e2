package ringbuffer

import "testing"

func TestBufferEvictsOldestOnOverflow(t *testing.T) {
	b := New(3)
	for i := 0; i < 5; i++ {
		b.Add(TelegramEntry{SenderID: string(rune('A' + i)), DeviceName: "dev"})
	}

	recent := b.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("len(Recent) = %d, want 3", len(recent))
	}
	// Most recent first: E, D, C
	if recent[0].SenderID != "E" || recent[2].SenderID != "C" {
		t.Fatalf("Recent() = %+v, want E,D,C order", recent)
	}
}

func TestBufferTracksUnknownSenders(t *testing.T) {
	b := New(DefaultCapacity)
	b.Add(TelegramEntry{SenderID: "0x01020304", RORG: "F6", DBm: -70})
	b.Add(TelegramEntry{SenderID: "0x01020304", RORG: "F6", DBm: -65})
	b.Add(TelegramEntry{SenderID: "0x0A0B0C0D", RORG: "A5", DeviceName: "known_device"})

	unknown := b.UnknownSenders()
	if len(unknown) != 1 {
		t.Fatalf("len(UnknownSenders) = %d, want 1", len(unknown))
	}
	if unknown[0].Count != 2 {
		t.Errorf("Count = %d, want 2", unknown[0].Count)
	}
	if unknown[0].DBm != -65 {
		t.Errorf("DBm = %d, want -65 (latest observation)", unknown[0].DBm)
	}
}

func TestBufferByDeviceAndBySender(t *testing.T) {
	b := New(DefaultCapacity)
	b.Add(TelegramEntry{SenderID: "0x01020304", DeviceName: "kitchen_light"})
	b.Add(TelegramEntry{SenderID: "0x0A0B0C0D", DeviceName: "hallway_switch"})

	byDevice := b.ByDevice("kitchen_light", 10)
	if len(byDevice) != 1 {
		t.Fatalf("ByDevice: got %d, want 1", len(byDevice))
	}

	bySender := b.BySender("0X01020304", 10)
	if len(bySender) != 1 {
		t.Fatalf("BySender (case-insensitive): got %d, want 1", len(bySender))
	}
}

func TestBufferTeachInsAndStats(t *testing.T) {
	b := New(DefaultCapacity)
	b.Add(TelegramEntry{SenderID: "0x01", IsTeachIn: true, DeviceName: "d"})
	b.Add(TelegramEntry{SenderID: "0x02", DeviceName: "d"})

	if got := b.TeachIns(10); len(got) != 1 {
		t.Fatalf("TeachIns: got %d, want 1", len(got))
	}

	stats := b.Stats()
	if stats.TotalCount != 2 || stats.TeachInCount != 1 {
		t.Fatalf("Stats() = %+v, want TotalCount=2 TeachInCount=1", stats)
	}
}

func TestBufferClear(t *testing.T) {
	b := New(DefaultCapacity)
	b.Add(TelegramEntry{SenderID: "0x01"})
	b.Clear()

	if len(b.Recent(10)) != 0 {
		t.Error("expected empty buffer after Clear")
	}
	if len(b.UnknownSenders()) != 0 {
		t.Error("expected empty unknown-sender list after Clear")
	}
}
