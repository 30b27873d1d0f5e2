package bridge

import "testing"

func TestCommandForPlainSetTopic(t *testing.T) {
	cmd, value := commandFor("enocean/kitchen-switch/set", []byte("on"))
	if cmd != "on" || value != "" {
		t.Errorf("commandFor() = (%q, %q), want (\"on\", \"\")", cmd, value)
	}
}

func TestCommandForBrightnessTopic(t *testing.T) {
	cmd, value := commandFor("enocean/lamp/brightness/set", []byte("75"))
	if cmd != "brightness" || value != "75" {
		t.Errorf("commandFor() = (%q, %q), want (\"brightness\", \"75\")", cmd, value)
	}
}

func TestCommandForPositionTopic(t *testing.T) {
	cmd, value := commandFor("enocean/blind/position/set", []byte("40"))
	if cmd != "position" || value != "40" {
		t.Errorf("commandFor() = (%q, %q), want (\"position\", \"40\")", cmd, value)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error for empty Options")
	}
}
