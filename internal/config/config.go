// Package config loads the KEY=VALUE configuration file shared by the
// command-line tools.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all tool configuration values.
type Config struct {
	// I2C
	I2CBus  string // periph bus name; empty selects the first available
	I2CAddr uint16

	// Sensor ranges
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	AccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	GyroRange byte

	// Timing
	SampleIntervalMS int

	// MQTT
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string

	// Web
	WebAddr string
}

// Defaults returns the configuration used when no file (or key) is present.
func Defaults() Config {
	return Config{
		I2CBus:           "",
		I2CAddr:          0x68,
		AccelRange:       0,
		GyroRange:        0,
		SampleIntervalMS: 100,
		MQTTBroker:       "tcp://localhost:1883",
		MQTTClientID:     "mpu6050-pub",
		MQTTTopic:        "imu/sample",
		WebAddr:          ":8081",
	}
}

var (
	globalConfig Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// InitGlobal loads the file once into the process-wide config. An empty
// path keeps the defaults.
func InitGlobal(path string) error {
	var err error
	configOnce.Do(func() {
		cfg := Defaults()
		if path != "" {
			var loaded *Config
			loaded, err = Load(path)
			if err != nil {
				return
			}
			cfg = *loaded
		}
		configMu.Lock()
		globalConfig = cfg
		configMu.Unlock()
	})
	return err
}

// Get returns a copy of the process-wide config.
func Get() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Load reads a KEY=VALUE file. Blank lines and '#' comments are skipped;
// unknown keys are an error so typos do not pass silently.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setValue(key, value string) error {
	switch key {
	case "I2C_BUS":
		c.I2CBus = value
	case "I2C_ADDR":
		v, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("I2C_ADDR: %w", err)
		}
		c.I2CAddr = uint16(v)
	case "ACCEL_RANGE":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("ACCEL_RANGE: %w", err)
		}
		c.AccelRange = byte(v)
	case "GYRO_RANGE":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("GYRO_RANGE: %w", err)
		}
		c.GyroRange = byte(v)
	case "SAMPLE_INTERVAL_MS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SAMPLE_INTERVAL_MS: %w", err)
		}
		c.SampleIntervalMS = v
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value
	case "WEB_ADDR":
		c.WebAddr = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func (c *Config) validate() error {
	if c.AccelRange > 3 {
		return fmt.Errorf("ACCEL_RANGE must be 0-3, got %d", c.AccelRange)
	}
	if c.GyroRange > 3 {
		return fmt.Errorf("GYRO_RANGE must be 0-3, got %d", c.GyroRange)
	}
	if c.SampleIntervalMS <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL_MS must be positive, got %d", c.SampleIntervalMS)
	}
	if c.I2CAddr == 0 || c.I2CAddr > 0x7F {
		return fmt.Errorf("I2C_ADDR must be a 7-bit address, got %#x", c.I2CAddr)
	}
	return nil
}
