// Package config loads and validates Lumen Core configuration.
//
// Configuration comes from three layers, each overriding the last:
// hardcoded defaults, a YAML file, and LUMEN_* environment variables.
// The loaded Config is immutable after startup; components receive the
// sections they need by value.
//
// Zone definitions (base brightness and colour-temperature ranges plus
// per-zone feature flags) live here too, because zones are configuration:
// their identity and base ranges are authoritative input, while computed
// boundaries are derived state that is never persisted back.
package config
