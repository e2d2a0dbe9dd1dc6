package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device serial number
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single Loupedeck device.
// This is keyed by the device's serial number in the Registry.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastPort string    `yaml:"last_port,omitempty"` // Last serial port path it was found on
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last probe/connection time
	Firmware string    `yaml:"firmware,omitempty"`  // Last reported firmware version
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultBrightness int    `yaml:"default_brightness"`       // Applied on connect, 0-100
	DefaultHaptic     string `yaml:"default_haptic,omitempty"` // Pattern name for the vibrate command
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			DefaultBrightness: 50,
			DefaultHaptic:     "SHORT",
		},
	}
}

// GetDevice retrieves device metadata by serial number.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[serial]; exists {
		return device
	}

	device := &Device{}
	r.Devices[serial] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp, port path, and
// firmware version for a device.
func (r *Registry) UpdateDeviceLastSeen(serial, port, firmware string) {
	device := r.EnsureDevice(serial)
	device.LastSeen = time.Now()
	device.LastPort = port
	if firmware != "" {
		device.Firmware = firmware
	}
}

// SetNickname sets or clears the user-friendly name for a device.
func (r *Registry) SetNickname(serial, nickname string) {
	r.EnsureDevice(serial).Nickname = nickname
}
