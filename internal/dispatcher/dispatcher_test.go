package dispatcher

import (
	"testing"

	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/eep"
	"github.com/enoceanmqtt/core/internal/esp3"
	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// fakePublisher records every PublishState call it receives.
type fakePublisher struct {
	calls []map[string]any
	dev   *device.Device
}

func (f *fakePublisher) PublishState(dev *device.Device, decoded map[string]any) error {
	f.dev = dev
	f.calls = append(f.calls, decoded)
	return nil
}

// fakeTeachIn records every teach-in event it receives.
type fakeTeachIn struct {
	events []TeachInEvent
}

func (f *fakeTeachIn) NotifyTeachIn(event TeachInEvent) {
	f.events = append(f.events, event)
}

func newTestRegistry(t *testing.T) *device.Registry {
	t.Helper()
	r := device.NewRegistry(t.TempDir())
	if err := r.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

// temperatureProfile mirrors A5-02-05: an 8-bit TMP field scaled 0..40C
// over the raw range 0..255, at byte offset 1 of the 4BS payload.
func temperatureProfile() eep.Profile {
	return eep.Profile{
		RORG: "A5",
		Func: "02",
		Type: "05",
		Fields: []eep.FieldDescriptor{
			{
				Shortcut: "TMP",
				Offset:   8,
				Size:     8,
				Kind:     eep.FieldValue,
				RawRange: eep.Range{Min: 0, Max: 255},
				Scale:    eep.Range{Min: 0, Max: 40},
			},
		},
	}
}

func radioFrame(rorg byte, payload []byte, senderID uint32, status byte) esp3.Frame {
	data, optional := esp3.EncodeRadioTelegram(rorg, payload, senderID, 0xFFFFFFFF)
	data[len(data)-1] = status
	return esp3.Frame{PacketType: esp3.PacketTypeRadioERP1, Data: data, Optional: optional}
}

func TestHandleDecodesKnownDeviceAndPublishes(t *testing.T) {
	registry := newTestRegistry(t)
	dev := &device.Device{Name: "kitchen-thermo", Address: "0x05834FA4", RORG: "A5", Func: "02", Type: "05"}
	if err := registry.Add(dev); err != nil {
		t.Fatalf("Add: %v", err)
	}

	store := eep.NewStore(t.TempDir(), "")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := store.SaveCustom(temperatureProfile()); err != nil {
		t.Fatalf("SaveCustom: %v", err)
	}

	pub := &fakePublisher{}
	teach := &fakeTeachIn{}
	ring := ringbuffer.New(10)

	d := New(Options{Registry: registry, Profiles: store, Ring: ring, Publisher: pub, TeachIn: teach})

	// payload: [db0][db1=0xA0][db2][db3, LRN bit set = no teach-in]
	payload := []byte{0x00, 0xA0, 0x00, 0x08}
	frame := radioFrame(0xA5, payload, 0x05834FA4, 0x00)

	d.Handle(frame)

	if len(pub.calls) != 1 {
		t.Fatalf("got %d publish calls, want 1", len(pub.calls))
	}
	decoded := pub.calls[0]
	if decoded["sender_id"] != "0x05834FA4" {
		t.Errorf("sender_id = %v", decoded["sender_id"])
	}
	tmp, ok := decoded["TMP"].(float64)
	if !ok || tmp < 24.9 || tmp > 25.1 {
		t.Errorf("TMP = %v, want ~25.0", decoded["TMP"])
	}
	if len(teach.events) != 0 {
		t.Errorf("expected no teach-in event, got %d", len(teach.events))
	}
	if stats := ring.Stats(); stats.TotalCount != 1 {
		t.Errorf("ring count = %d, want 1", stats.TotalCount)
	}
}

func TestHandleDetectsFourBSTeachIn(t *testing.T) {
	registry := newTestRegistry(t)
	store := eep.NewStore(t.TempDir(), "")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	teach := &fakeTeachIn{}
	ring := ringbuffer.New(10)
	d := New(Options{Registry: registry, Profiles: store, Ring: ring, TeachIn: teach})

	// db3 bit 3 (LRN bit) cleared signals teach-in for 4BS; db0/db1 encode
	// the implicit FUNC/TYPE as 0x02/0x05.
	payload := []byte{0x08, 0x28, 0x05, 0x00}
	frame := radioFrame(0xA5, payload, 0x01020304, 0x00)

	d.Handle(frame)

	if len(teach.events) != 1 {
		t.Fatalf("got %d teach-in events, want 1", len(teach.events))
	}
	event := teach.events[0]
	if event.SenderID != "0x01020304" {
		t.Errorf("SenderID = %q", event.SenderID)
	}
	if event.Func != "02" || event.Type != "05" {
		t.Errorf("implicit EEP = %s-%s, want 02-05", event.Func, event.Type)
	}
}

func TestHandleUnknownSenderIsRecordedNotPublished(t *testing.T) {
	registry := newTestRegistry(t)
	store := eep.NewStore(t.TempDir(), "")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pub := &fakePublisher{}
	ring := ringbuffer.New(10)
	d := New(Options{Registry: registry, Profiles: store, Ring: ring, Publisher: pub})

	frame := radioFrame(0xF6, []byte{0x70}, 0xDEADBEEF, 0x00)

	d.Handle(frame)
	d.Handle(frame)

	if len(pub.calls) != 0 {
		t.Errorf("got %d publish calls, want 0 for unknown sender", len(pub.calls))
	}
	unknown := ring.UnknownSenders()
	if len(unknown) != 1 {
		t.Fatalf("got %d unknown sender records, want 1", len(unknown))
	}
	if unknown[0].Count != 2 {
		t.Errorf("Count = %d, want 2", unknown[0].Count)
	}
}

func TestHandleIgnoresNonRadioFrames(t *testing.T) {
	registry := newTestRegistry(t)
	store := eep.NewStore(t.TempDir(), "")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ring := ringbuffer.New(10)
	d := New(Options{Registry: registry, Profiles: store, Ring: ring})

	d.Handle(esp3.Frame{PacketType: esp3.PacketTypeResponse, Data: []byte{0x00}})

	if stats := ring.Stats(); stats.TotalCount != 0 {
		t.Errorf("ring count = %d, want 0 for non-radio frame", stats.TotalCount)
	}
}

func TestHandleMissingProfileRecordsWithoutPublish(t *testing.T) {
	registry := newTestRegistry(t)
	dev := &device.Device{Name: "mystery", Address: "0x11223344", RORG: "A5", Func: "FF", Type: "FF"}
	if err := registry.Add(dev); err != nil {
		t.Fatalf("Add: %v", err)
	}
	store := eep.NewStore(t.TempDir(), "")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pub := &fakePublisher{}
	ring := ringbuffer.New(10)
	d := New(Options{Registry: registry, Profiles: store, Ring: ring, Publisher: pub})

	payload := []byte{0x00, 0x02, 0x05, 0x08}
	frame := radioFrame(0xA5, payload, 0x11223344, 0x00)
	d.Handle(frame)

	if len(pub.calls) != 0 {
		t.Errorf("got %d publish calls, want 0 for unmapped profile", len(pub.calls))
	}
	if stats := ring.Stats(); stats.TotalCount != 1 {
		t.Errorf("ring count = %d, want 1", stats.TotalCount)
	}
}
