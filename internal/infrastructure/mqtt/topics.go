package mqtt

import "fmt"

// Topic prefixes for the Lumen MQTT contract.
//
// Outbound command topics address the lighting-adaptation engine, which
// consumes boundary and override commands per zone. Core topics carry
// Lumen's own events; system topics carry liveness.
const (
	// TopicPrefixLight is the base for commands to the lighting engine.
	TopicPrefixLight = "lumen/light"

	// TopicPrefixCore is the base for Lumen Core events.
	TopicPrefixCore = "lumen/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "lumen/system"
)

// Topics provides builders for Lumen MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.LightBoundaries("living-room")
//	// Returns: "lumen/light/living-room/boundaries"
type Topics struct{}

// LightBoundaries returns the topic for boundary commands to a zone.
//
// Example: lumen/light/living-room/boundaries
func (Topics) LightBoundaries(zoneID string) string {
	return fmt.Sprintf("%s/%s/boundaries", TopicPrefixLight, zoneID)
}

// LightManualOverride returns the topic for manual-override commands to a zone.
//
// Example: lumen/light/living-room/manual_override
func (Topics) LightManualOverride(zoneID string) string {
	return fmt.Sprintf("%s/%s/manual_override", TopicPrefixLight, zoneID)
}

// CoreCalculation returns the topic for the per-tick calculation snapshot.
// Published retained so dashboards joining late see the last pass.
//
// Example: lumen/core/calculation
func (Topics) CoreCalculation() string {
	return fmt.Sprintf("%s/calculation", TopicPrefixCore)
}

// CoreZoneState returns the topic for per-zone boundary state.
//
// Example: lumen/core/zone/living-room/state
func (Topics) CoreZoneState(zoneID string) string {
	return fmt.Sprintf("%s/zone/%s/state", TopicPrefixCore, zoneID)
}

// CoreSceneChanged returns the topic for scene change events.
//
// Example: lumen/core/scene
func (Topics) CoreSceneChanged() string {
	return fmt.Sprintf("%s/scene", TopicPrefixCore)
}

// SystemStatus returns the system status topic (online/offline, LWT).
//
// Example: lumen/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllZoneStates returns a pattern matching all per-zone state topics.
//
// Pattern: lumen/core/zone/+/state
func (Topics) AllZoneStates() string {
	return fmt.Sprintf("%s/zone/+/state", TopicPrefixCore)
}
