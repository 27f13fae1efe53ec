package config

import (
	"github.com/BurntSushi/toml"
)

// Config is the full program configuration.
type Config struct {
	Logger  LogConf     // Logger - logging configuration.
	Device  DeviceConf  // Device - mixer identity and naming.
	Network NetworkConf // Network - broadcast destination policy.
	MQTT    MQTTConf    // MQTT - optional status publisher.
}

// LogConf configures the logger.
type LogConf struct {
	Level string `toml:"log-level"` // Level - logging level.
}

// DeviceConf configures how the mixer is found and announced.
type DeviceConf struct {
	Name  string `toml:"name"`  // Name - device name carried in every packet (20 bytes max on the wire).
	Match string `toml:"match"` // Match - substring a MIDI port name must contain to be considered.
}

// NetworkConf configures the UDP broadcast sender.
type NetworkConf struct {
	Interface      string `toml:"interface"`       // Interface - network interface the packets leave on.
	LocalBroadcast bool   `toml:"local-broadcast"` // LocalBroadcast - use the subnet broadcast address instead of 255.255.255.255.
}

// MQTTConf configures the optional MQTT status publisher.
// An empty Host disables the publisher entirely.
type MQTTConf struct {
	ClientID string `toml:"clientID"` // ClientID - client name.
	Host     string `toml:"server"`   // Host - MQTT broker address.
	Port     string `toml:"port"`     // Port - MQTT broker port.
	User     string `toml:"user"`     // User - broker login.
	Password string `toml:"password"` // Password - broker password.
	Topic    string `toml:"topic"`    // Topic - topic the on-air state is published to.
	Qos      byte   `toml:"qos"`      // Qos - quality of service.
}

// NewConfig reads the configuration file at path over the defaults.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Config{
		Logger: LogConf{Level: "warning"},
		Device: DeviceConf{
			Name:  "On Air Link",
			Match: "DJM",
		},
		Network: NetworkConf{
			Interface: "eth0",
		},
		MQTT: MQTTConf{
			ClientID: "onairlink",
			Topic:    "onairlink/onair",
		},
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}
