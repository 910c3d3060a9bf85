package camera

import (
	"context"
	"errors"
	"testing"
)

func TestPoller_SkipsWithoutDimensions(t *testing.T) {
	src := NewFake(640, 480) // not opened: reports 0x0
	p := NewPoller(src)

	frame, ok, err := p.Poll()
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if ok || frame != nil {
		t.Errorf("expected skipped cycle, got ok=%v frame=%v", ok, frame)
	}
	if src.Reads != 0 {
		t.Errorf("source should not be read, got %d reads", src.Reads)
	}
}

func TestPoller_ResizesLazily(t *testing.T) {
	src := NewFake(4, 2)
	if err := src.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	p := NewPoller(src)

	first, ok, err := p.Poll()
	if err != nil || !ok {
		t.Fatalf("first poll: ok=%v err=%v", ok, err)
	}
	if len(first.Pix) != 4*2*4 {
		t.Fatalf("buffer size: got %d, want %d", len(first.Pix), 32)
	}
	buf := &first.Pix[0]

	second, _, _ := p.Poll()
	if &second.Pix[0] != buf {
		t.Error("buffer should be reused when size is unchanged")
	}

	src.Resize(8, 6)
	third, ok, err := p.Poll()
	if err != nil || !ok {
		t.Fatalf("third poll: ok=%v err=%v", ok, err)
	}
	if third.Width != 8 || third.Height != 6 || len(third.Pix) != 8*6*4 {
		t.Errorf("resized frame: got %dx%d len %d", third.Width, third.Height, len(third.Pix))
	}
}

func TestPoller_ReadError(t *testing.T) {
	src := NewFake(4, 4)
	_ = src.Open(context.Background())
	src.ReadErr = ErrNoFrame

	_, ok, err := NewPoller(src).Poll()
	if ok {
		t.Error("expected ok=false on read error")
	}
	if !errors.Is(err, ErrNoFrame) {
		t.Errorf("expected ErrNoFrame, got %v", err)
	}
}

func TestAcquisitionError(t *testing.T) {
	cause := errors.New("permission denied")
	err := error(&AcquisitionError{Device: "0", Err: cause})

	if !errors.Is(err, ErrAcquisition) {
		t.Error("expected errors.Is(err, ErrAcquisition)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	var acq *AcquisitionError
	if !errors.As(err, &acq) || acq.Device != "0" {
		t.Errorf("errors.As failed: %+v", acq)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"front", func(c *Config) { c.FacingMode = FacingUser }, false},
		{"bad facing", func(c *Config) { c.FacingMode = "sideways" }, true},
		{"tiny width", func(c *Config) { c.Width = 10 }, true},
		{"zero framerate", func(c *Config) { c.Framerate = 0 }, true},
		{"quality too high", func(c *Config) { c.Quality = 101 }, true},
		{"zoom below 1", func(c *Config) { c.ZoomLevel = 0.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			errs := cfg.Validate()
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestPresets_Valid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Errorf("preset %q missing", name)
			continue
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			t.Errorf("preset %q invalid: %v", name, errs)
		}
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestManager_UpdateConfig(t *testing.T) {
	m := NewManager(DefaultConfig())

	var applied []Config
	m.OnConfigChange = func(cfg Config) error {
		applied = append(applied, cfg)
		return nil
	}

	err := m.UpdateConfig(map[string]interface{}{
		"device":  "2",
		"width":   float64(640),
		"height":  float64(480),
		"quality": 60,
	})
	if err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.Device != "2" || cfg.Width != 640 || cfg.Height != 480 || cfg.Quality != 60 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(applied) != 1 {
		t.Fatalf("OnConfigChange calls: got %d, want 1", len(applied))
	}

	// Preset keeps the explicit device
	if err := m.UpdateConfig(map[string]interface{}{"preset": PresetFront}); err != nil {
		t.Fatalf("preset update failed: %v", err)
	}
	cfg = m.GetConfig()
	if cfg.FacingMode != FacingUser || cfg.Device != "2" {
		t.Errorf("preset not applied correctly: %+v", cfg)
	}
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager(DefaultConfig())
	called := false
	m.OnConfigChange = func(Config) error { called = true; return nil }

	if err := m.UpdateConfig(map[string]interface{}{"preset": "nope"}); err == nil {
		t.Error("expected error for unknown preset")
	}
	if err := m.UpdateConfig(map[string]interface{}{"width": 1}); err == nil {
		t.Error("expected validation error")
	}
	if called {
		t.Error("OnConfigChange should not run for rejected updates")
	}
	if m.GetConfig().Width != DefaultConfig().Width {
		t.Error("rejected update must not change the config")
	}
}

func TestManager_GetConfigJSON(t *testing.T) {
	m := NewManager(LegacyConfig())
	j := m.GetConfigJSON()
	if j["width"] != float64(640) {
		t.Errorf("width: got %v", j["width"])
	}
	if j["facing_mode"] != FacingEnvironment {
		t.Errorf("facing_mode: got %v", j["facing_mode"])
	}
}
