package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "loupekit"
	if !contains(configDir, "loupekit") {
		t.Errorf("GetConfigDir() = %v, should contain 'loupekit'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !contains(configDir, "AppData") && !contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}

	if reg.Preferences == nil {
		t.Error("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.DefaultBrightness != 50 {
		t.Errorf("NewRegistry().Preferences.DefaultBrightness = %v, want 50", reg.Preferences.DefaultBrightness)
	}

	if reg.Preferences.DefaultHaptic != "SHORT" {
		t.Errorf("NewRegistry().Preferences.DefaultHaptic = %v, want SHORT", reg.Preferences.DefaultHaptic)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	// First call should create device
	device1 := reg.EnsureDevice("LDL123456")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Second call should return same device
	device2 := reg.EnsureDevice("LDL123456")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same serial")
	}

	// Different serial should create new device
	device3 := reg.EnsureDevice("LDL789012")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different serial")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateDeviceLastSeen("LDL123456", "/dev/ttyACM0", "0.2.5")
	after := time.Now()

	device := reg.GetDevice("LDL123456")
	if device == nil {
		t.Fatal("Device should exist after UpdateDeviceLastSeen()")
	}

	if device.LastPort != "/dev/ttyACM0" {
		t.Errorf("LastPort = %v, want /dev/ttyACM0", device.LastPort)
	}

	if device.Firmware != "0.2.5" {
		t.Errorf("Firmware = %v, want 0.2.5", device.Firmware)
	}

	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}

	// An empty firmware string must not clobber a known version
	reg.UpdateDeviceLastSeen("LDL123456", "/dev/ttyACM1", "")
	if device.Firmware != "0.2.5" {
		t.Errorf("Firmware = %v after empty update, want 0.2.5", device.Firmware)
	}
	if device.LastPort != "/dev/ttyACM1" {
		t.Errorf("LastPort = %v, want /dev/ttyACM1", device.LastPort)
	}
}

func TestRegistrySetNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetNickname("LDL123456", "Studio Desk")

	device := reg.GetDevice("LDL123456")
	if device == nil {
		t.Fatal("Device should exist after SetNickname()")
	}

	if device.Nickname != "Studio Desk" {
		t.Errorf("Nickname = %v, want 'Studio Desk'", device.Nickname)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	// Use a temporary directory for testing
	tmpDir, err := os.MkdirTemp("", "loupekit-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	testConfigPath := filepath.Join(tmpDir, "config.yaml")

	// Create and populate registry
	reg := NewRegistry()
	reg.SetNickname("LDL123456", "Studio Desk")
	reg.UpdateDeviceLastSeen("LDL123456", "/dev/ttyACM0", "0.2.5")
	reg.Preferences.DefaultBrightness = 80

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}

	if err := os.WriteFile(testConfigPath, data, 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	raw, err := os.ReadFile(testConfigPath)
	if err != nil {
		t.Fatalf("Failed to read test config: %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("Failed to parse test config: %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("Loaded version = %v, want 1", loaded.Version)
	}

	device := loaded.GetDevice("LDL123456")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}

	if device.Nickname != "Studio Desk" {
		t.Errorf("Loaded nickname = %v, want 'Studio Desk'", device.Nickname)
	}

	if device.LastPort != "/dev/ttyACM0" {
		t.Errorf("Loaded port = %v, want /dev/ttyACM0", device.LastPort)
	}

	if loaded.Preferences.DefaultBrightness != 80 {
		t.Errorf("Loaded brightness = %v, want 80", loaded.Preferences.DefaultBrightness)
	}
}

// Helper functions

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && (s[:len(substr)] == substr || contains(s[1:], substr))))
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("LDL123456")
	}
}
