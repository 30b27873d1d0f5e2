package mapping

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreFallsBackToDefault(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := s.Get("f6-02-01")
	if got["R1"].Component != "binary_sensor" {
		t.Fatalf("R1 component = %q, want binary_sensor", got["R1"].Component)
	}
}

func TestStoreCustomOverridesDefaultWholesale(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := `
A5-02-05:
  TMP:
    component: sensor
    name: Custom Temp
`
	if err := os.WriteFile(filepath.Join(dir, mappingFileName), []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := s.Get("A5-02-05")
	if got["TMP"].Name != "Custom Temp" {
		t.Fatalf("TMP.Name = %q, want Custom Temp", got["TMP"].Name)
	}
}

func TestStoreCommonKeyAppendsWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := `
common:
  rssi:
    component: sensor
    name: Signal Strength
  TMP:
    component: sensor
    name: Should Not Apply
`
	if err := os.WriteFile(filepath.Join(dir, mappingFileName), []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := s.Get("A5-02-05")
	if got["rssi"].Name != "Signal Strength" {
		t.Fatalf("rssi entry missing from merged mapping: %+v", got)
	}
	if got["TMP"].DeviceClass != "temperature" {
		t.Fatalf("common key overrode the default TMP entry: %+v", got["TMP"])
	}
}

func TestStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m := Mapping{"CMD": {Component: "switch", Name: "Custom Switch"}}
	if err := s.Save("D2-01-0F", m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := s.Get("D2-01-0F"); got["CMD"].Name != "Custom Switch" {
		t.Fatalf("Get after Save = %+v, want Custom Switch", got["CMD"])
	}

	if err := s.Delete("D2-01-0F"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s.Get("D2-01-0F"); got["CMD"].Name != "Switch" {
		t.Fatalf("Get after Delete = %+v, want reverted to compiled-in default", got["CMD"])
	}
}
