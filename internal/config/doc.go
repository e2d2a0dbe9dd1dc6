// Package config provides user configuration management for loupekit.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for Loupedeck devices (nicknames, the serial port
// each was last found on, firmware versions) and application preferences.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/loupekit/config.yaml or $HOME/.config/loupekit/config.yaml
//   - macOS: $HOME/.config/loupekit/config.yaml
//   - Windows: %LOCALAPPDATA%\loupekit\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.UpdateDeviceLastSeen("LDL1234567", "/dev/ttyUSB0", "0.2.5")
//	registry.SetNickname("LDL1234567", "Studio Deck")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex and writes are
// atomic (temp file plus rename).
package config
