// Package mqtt wraps the paho MQTT client for Lumen Core.
//
// MQTT carries all external traffic: sensor readings in, boundary and
// manual-override commands out to the lighting-adaptation engine, and
// the per-tick calculation snapshot for observers. The wrapper adds
// connection management with LWT, automatic re-subscription after
// reconnect, panic-recovering handlers, and awaited publishes.
package mqtt
