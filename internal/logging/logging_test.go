package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"", false, true},
		{"nonsense", false, true},
		{"disabled", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf, false)
			log.Debug().Msg("dbg")
			log.Info().Msg("inf")
			out := buf.String()
			if got := strings.Contains(out, "dbg"); got != tt.debugSeen {
				t.Errorf("debug logged = %v, want %v", got, tt.debugSeen)
			}
			if got := strings.Contains(out, "inf"); got != tt.infoSeen {
				t.Errorf("info logged = %v, want %v", got, tt.infoSeen)
			}
		})
	}
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New("info", &buf, false), "engine")
	log.Info().Int("depth", 4).Msg("iteration complete")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if rec["component"] != "engine" || rec["depth"] != float64(4) || rec["message"] != "iteration complete" {
		t.Fatalf("record = %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", &buf, true)
	l.Info().Str("move", "e2e4").Msg("search finished")
	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("pretty output is JSON: %s", out)
	}
	if !strings.Contains(out, "search finished") || !strings.Contains(out, "e2e4") {
		t.Fatalf("pretty output = %q", out)
	}
}
