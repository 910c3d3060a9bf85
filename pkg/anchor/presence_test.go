package anchor

import (
	"errors"
	"testing"
	"time"
)

func TestPresence_State(t *testing.T) {
	tests := []struct {
		name   string
		events string // h = hit, m = miss
		want   PresenceState
	}{
		{"initial", "", Absent},
		{"one hit", "h", Appearing},
		{"stable", "hh", Present},
		{"stays present", "hhhh", Present},
		{"one miss after present", "hhm", Disappearing},
		{"gone", "hhmm", Absent},
		{"flicker resets", "hmh", Appearing},
		{"misses from start", "mmm", Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Presence
			for _, e := range tt.events {
				if e == 'h' {
					p.Hit()
				} else {
					p.Miss()
				}
			}
			if got := p.State(2, 2); got != tt.want {
				t.Errorf("State() = %v, want %v (visible=%d lost=%d)", got, tt.want, p.Visible, p.Lost)
			}
		})
	}
}

func TestPresence_CountersResetEachOther(t *testing.T) {
	var p Presence
	p.Hit()
	p.Hit()
	p.Miss()
	if p.Visible != 0 || p.Lost != 1 {
		t.Errorf("after miss: visible=%d lost=%d", p.Visible, p.Lost)
	}
	p.Hit()
	if p.Visible != 1 || p.Lost != 0 {
		t.Errorf("after hit: visible=%d lost=%d", p.Visible, p.Lost)
	}
}

func TestLongPress(t *testing.T) {
	t0 := time.Unix(1000, 0)

	tests := []struct {
		name    string
		held    time.Duration
		release bool
		want    bool
	}{
		{"held past threshold", 900 * time.Millisecond, false, true},
		{"exactly threshold", 800 * time.Millisecond, false, true},
		{"released early", 500 * time.Millisecond, true, false},
		{"still holding short", 500 * time.Millisecond, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := LongPress{Threshold: 800 * time.Millisecond}
			lp.Down(t0)
			var got bool
			if tt.release {
				got = lp.Up(t0.Add(tt.held))
			} else {
				got = lp.Fired(t0.Add(tt.held))
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLongPress_FiresOnce(t *testing.T) {
	t0 := time.Unix(1000, 0)
	lp := LongPress{Threshold: 800 * time.Millisecond}
	lp.Down(t0)

	if !lp.Fired(t0.Add(time.Second)) {
		t.Fatal("expected first check to fire")
	}
	if lp.Fired(t0.Add(2 * time.Second)) {
		t.Error("press should fire only once")
	}
	if lp.Up(t0.Add(3 * time.Second)) {
		t.Error("release after firing should not fire again")
	}
}

func TestLongPress_ReleaseCancels(t *testing.T) {
	t0 := time.Unix(1000, 0)
	lp := LongPress{Threshold: 800 * time.Millisecond}
	lp.Down(t0)
	lp.Up(t0.Add(500 * time.Millisecond))

	if lp.Fired(t0.Add(900 * time.Millisecond)) {
		t.Error("released press must not fire later")
	}
	if lp.Pressed() {
		t.Error("Pressed should be false after release")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"default", func(c *Config) {}, ""},
		{"responsive", func(c *Config) { *c = ResponsiveConfig() }, ""},
		{"demo", func(c *Config) { *c = DemoConfig() }, ""},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }, "PollInterval"},
		{"negative render", func(c *Config) { c.RenderInterval = -time.Millisecond }, "RenderInterval"},
		{"zero stable", func(c *Config) { c.StableThreshold = 0 }, "StableThreshold"},
		{"zero lost", func(c *Config) { c.LostThreshold = 0 }, "LostThreshold"},
		{"far plane depth", func(c *Config) { c.AnchorDepth = 1 }, "AnchorDepth"},
		{"no model", func(c *Config) { c.ModelID = "" }, "ModelID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestConfig_ModelFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Models = map[string]string{"https://example.com/card": "card"}

	if got := cfg.ModelFor("https://example.com/card"); got != "card" {
		t.Errorf("mapped payload: got %q", got)
	}
	if got := cfg.ModelFor("anything else"); got != "model" {
		t.Errorf("fallback: got %q", got)
	}
}
