package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"LightBoundaries", topics.LightBoundaries("living-room"), "lumen/light/living-room/boundaries"},
		{"LightManualOverride", topics.LightManualOverride("bedroom"), "lumen/light/bedroom/manual_override"},
		{"CoreCalculation", topics.CoreCalculation(), "lumen/core/calculation"},
		{"CoreZoneState", topics.CoreZoneState("hall"), "lumen/core/zone/hall/state"},
		{"CoreSceneChanged", topics.CoreSceneChanged(), "lumen/core/scene"},
		{"SystemStatus", topics.SystemStatus(), "lumen/system/status"},
		{"AllZoneStates", topics.AllZoneStates(), "lumen/core/zone/+/state"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
