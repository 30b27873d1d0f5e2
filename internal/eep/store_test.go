package eep

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreFallsBackToMinimalProfiles(t *testing.T) {
	s := NewStore(t.TempDir(), filepath.Join(t.TempDir(), "missing.xml"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != len(minimalProfiles) {
		t.Fatalf("Count() = %d, want %d", s.Count(), len(minimalProfiles))
	}

	p, ok := s.Get("F6-02-01")
	if !ok {
		t.Fatal("expected F6-02-01 in minimal catalog")
	}
	if p.Description == "" {
		t.Error("expected non-empty description")
	}
}

func TestStoreLoadsBundledXML(t *testing.T) {
	xmlDoc := `<telegrams>
  <telegram rorg="0xA5">
    <profiles func="0x02" description="Temperature Sensors">
      <profile type="0x05" description="Temperature Sensor 0C to +40C">
        <data>
          <value shortcut="TMP" description="Temperature" offset="8" size="8" unit="C">
            <range min="0" max="255"/>
            <scale min="0" max="40"/>
          </value>
        </data>
      </profile>
    </profiles>
  </telegram>
</telegrams>`

	dir := t.TempDir()
	bundled := filepath.Join(dir, "EEP.xml")
	if err := os.WriteFile(bundled, []byte(xmlDoc), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := NewStore(t.TempDir(), bundled)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, ok := s.Get("A5-02-05")
	if !ok {
		t.Fatal("expected A5-02-05 to be parsed from bundled XML")
	}
	if len(p.Fields) != 1 || p.Fields[0].Shortcut != "TMP" {
		t.Fatalf("Fields = %+v, want one TMP field", p.Fields)
	}
}

func TestStoreSaveAndDeleteCustomProfile(t *testing.T) {
	configDir := t.TempDir()
	s := NewStore(configDir, filepath.Join(t.TempDir(), "missing.xml"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	custom := Profile{RORG: "A5", Func: "FF", Type: "FF", Description: "Custom test profile"}
	if err := s.SaveCustom(custom); err != nil {
		t.Fatalf("SaveCustom: %v", err)
	}

	got, ok := s.Get("A5-FF-FF")
	if !ok || !got.IsCustom {
		t.Fatalf("expected custom profile to be registered, got %+v ok=%v", got, ok)
	}

	if err := s.DeleteCustom("A5-FF-FF"); err != nil {
		t.Fatalf("DeleteCustom: %v", err)
	}
	if _, ok := s.Get("A5-FF-FF"); ok {
		t.Error("expected profile to be removed after DeleteCustom")
	}

	// A reload must not resurrect the deleted override.
	s2 := NewStore(configDir, filepath.Join(t.TempDir(), "missing.xml"))
	if err := s2.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := s2.Get("A5-FF-FF"); ok {
		t.Error("deleted custom profile reappeared after reload")
	}
}
