package renderer

import (
	"reflect"
	"testing"
)

func TestBuildOverrideArgs(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		want      []string
	}{
		{
			name:      "nil overrides",
			overrides: nil,
			want:      nil,
		},
		{
			name:      "empty overrides",
			overrides: Overrides{},
			want:      nil,
		},
		{
			name:      "single int",
			overrides: Overrides{"num_steps": 50},
			want:      []string{"-D", "num_steps=50"},
		},
		{
			name:      "deterministic key order",
			overrides: Overrides{"num_steps": 50, "$fn": 60},
			want:      []string{"-D", "$fn=60", "-D", "num_steps=50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildOverrideArgs(tt.overrides)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildOverrideArgs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCameraArgs(t *testing.T) {
	args, err := cameraArgs("isometric")
	if err != nil {
		t.Fatalf("cameraArgs returned error: %v", err)
	}
	want := []string{"--camera", "0,0,0,55,0,25,140"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("cameraArgs = %v, want %v", args, want)
	}

	if _, err := cameraArgs("diagonal"); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestIsValidView(t *testing.T) {
	for _, name := range []string{"front", "back", "left", "right", "top", "bottom", "isometric"} {
		if !IsValidView(name) {
			t.Errorf("IsValidView(%q) = false", name)
		}
	}
	if IsValidView("diagonal") {
		t.Error("IsValidView(diagonal) = true")
	}
	if len(ViewNames()) != 7 {
		t.Errorf("ViewNames() = %v, want 7 entries", ViewNames())
	}
}

func TestExportFormats(t *testing.T) {
	for _, format := range []string{"stl", "3mf", "dxf", "svg", "off", "amf", "csg"} {
		if !ExportFormats[format] {
			t.Errorf("ExportFormats[%q] = false", format)
		}
	}
	if ExportFormats["step"] {
		t.Error("step is not a supported format")
	}
}

func TestPresets(t *testing.T) {
	if got := PresetEval(); got["$fn"] != 60 || got["num_steps"] != 50 {
		t.Errorf("PresetEval = %v", got)
	}
	if got := PresetExport(); got["$fn"] != 90 || got["num_steps"] != 100 {
		t.Errorf("PresetExport = %v", got)
	}
}
