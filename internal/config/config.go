// Package config provides satellite configuration management. The
// configuration is loaded once at startup and immutable afterwards.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
)

// Configuration defaults are used when values are not specified. Colors
// and brightness match the hardware the service usually ships with: a 12
// pixel WS2812 ring on GPIO 18.
const (
	DefaultDriver             = "ws281x"
	DefaultGPIOPin            = 18
	DefaultPixelCount         = 12
	DefaultBrightness         = 0.4
	DefaultPrimaryColor       = "#0080FF"
	DefaultSecondaryColor     = "#007A37"
	DefaultWarningColor       = "#FF0000"
	DefaultEventURI           = "tcp://127.0.0.1:10700"
	DefaultDialTimeoutMs      = 10000
	DefaultReconnectInitialMs = 1000
	DefaultReconnectMaxMs     = 30000
	DefaultTickMs             = 33 // ~30 Hz
)

// LEDConfig holds ring hardware settings. Brightness is a pointer so an
// explicit 0 (ring dark by configuration) is distinguishable from the field
// being absent.
type LEDConfig struct {
	Driver         string   `json:"driver" validate:"oneof=ws281x null"`            // Strip implementation
	GPIOPin        int      `json:"gpio_pin" validate:"gte=0,lte=27"`               // BCM pin driving the ring
	PixelCount     int      `json:"pixel_count" validate:"required,gte=1,lte=1024"` // Number of pixels in the ring
	Brightness     *float64 `json:"brightness" validate:"required,gte=0,lte=1"`     // Global brightness applied at render time
	PrimaryColor   string   `json:"primary_color" validate:"required,hexcolor"`     // Main animation color (#RRGGBB)
	SecondaryColor string   `json:"secondary_color" validate:"required,hexcolor"`   // Spinner color (#RRGGBB)
	WarningColor   string   `json:"warning_color" validate:"required,hexcolor"`     // Error blink color (#RRGGBB)
}

// EventSourceConfig holds event stream connection settings.
type EventSourceConfig struct {
	URI                string `json:"uri" validate:"required,uri"`                  // tcp://, unix://, ws:// or wss://
	DialTimeoutMs      int64  `json:"dial_timeout_ms" validate:"gte=100,lte=60000"` // Connect timeout
	ReconnectInitialMs int64  `json:"reconnect_initial_ms" validate:"gte=100,lte=60000"`
	ReconnectMaxMs     int64  `json:"reconnect_max_ms" validate:"gte=100,lte=600000"`
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	TickMs int64 `json:"tick_ms" validate:"gte=10,lte=1000"` // Render cadence
}

// StatusConfig holds the status HTTP server settings.
type StatusConfig struct {
	Port int `json:"port" validate:"gte=0,lte=65535"` // 0 disables the status server
}

// NotificationsConfig holds webhook notification settings.
type NotificationsConfig struct {
	WebhookURL string `json:"webhook_url" validate:"omitempty,url,max=2048"` // Webhook for connectivity alerts
}

// LogConfig holds transition log settings.
type LogConfig struct {
	TransitionsPath string `json:"transitions_path" validate:"omitempty,max=4096"` // JSONL file, empty disables
}

// Config holds all satellite configuration.
type Config struct {
	LED           LEDConfig           `json:"led"`
	EventSource   EventSourceConfig   `json:"event_source"`
	Render        RenderConfig        `json:"render"`
	Status        StatusConfig        `json:"status"`
	Notifications NotificationsConfig `json:"notifications"`
	Log           LogConfig           `json:"log"`

	filePath string

	// parsed during Load
	primary   ledring.Color
	secondary ledring.Color
	warning   ledring.Color
}

// validate is the shared validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// New creates a new Config with default values.
func New(filePath string) *Config {
	return &Config{
		LED: LEDConfig{
			Driver:         DefaultDriver,
			GPIOPin:        DefaultGPIOPin,
			PixelCount:     DefaultPixelCount,
			Brightness:     floatPtr(DefaultBrightness),
			PrimaryColor:   DefaultPrimaryColor,
			SecondaryColor: DefaultSecondaryColor,
			WarningColor:   DefaultWarningColor,
		},
		EventSource: EventSourceConfig{
			URI:                DefaultEventURI,
			DialTimeoutMs:      DefaultDialTimeoutMs,
			ReconnectInitialMs: DefaultReconnectInitialMs,
			ReconnectMaxMs:     DefaultReconnectMaxMs,
		},
		Render:   RenderConfig{TickMs: DefaultTickMs},
		filePath: filePath,
	}
}

// Load reads config from file, creating a default one if none exists.
// Every validation failure is fatal: no activity may start on an invalid
// configuration.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		if err := c.save(); err != nil {
			return err
		}
		return c.finish()
	}
	if err != nil {
		return util.WrapError("read config", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return util.WrapError("parse config", err)
	}

	c.applyDefaults()
	return c.finish()
}

// finish validates the configuration and caches parsed values.
func (c *Config) finish() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return fmt.Errorf("invalid config field %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return util.WrapError("validate config", err)
	}

	if c.EventSource.ReconnectInitialMs > c.EventSource.ReconnectMaxMs {
		return fmt.Errorf("invalid config: reconnect_initial_ms (%d) exceeds reconnect_max_ms (%d)",
			c.EventSource.ReconnectInitialMs, c.EventSource.ReconnectMaxMs)
	}

	var err error
	if c.primary, err = util.ParseHexColor(c.LED.PrimaryColor); err != nil {
		return util.WrapError("parse primary_color", err)
	}
	if c.secondary, err = util.ParseHexColor(c.LED.SecondaryColor); err != nil {
		return util.WrapError("parse secondary_color", err)
	}
	if c.warning, err = util.ParseHexColor(c.LED.WarningColor); err != nil {
		return util.WrapError("parse warning_color", err)
	}
	return nil
}

// applyDefaults sets default values for zero-value fields.
func (c *Config) applyDefaults() {
	if c.LED.Driver == "" {
		c.LED.Driver = DefaultDriver
	}
	if c.LED.PixelCount == 0 {
		c.LED.PixelCount = DefaultPixelCount
	}
	if c.LED.Brightness == nil {
		c.LED.Brightness = floatPtr(DefaultBrightness)
	}
	if c.LED.PrimaryColor == "" {
		c.LED.PrimaryColor = DefaultPrimaryColor
	}
	if c.LED.SecondaryColor == "" {
		c.LED.SecondaryColor = DefaultSecondaryColor
	}
	if c.LED.WarningColor == "" {
		c.LED.WarningColor = DefaultWarningColor
	}
	if c.EventSource.URI == "" {
		c.EventSource.URI = DefaultEventURI
	}
	if c.EventSource.DialTimeoutMs == 0 {
		c.EventSource.DialTimeoutMs = DefaultDialTimeoutMs
	}
	if c.EventSource.ReconnectInitialMs == 0 {
		c.EventSource.ReconnectInitialMs = DefaultReconnectInitialMs
	}
	if c.EventSource.ReconnectMaxMs == 0 {
		c.EventSource.ReconnectMaxMs = DefaultReconnectMaxMs
	}
	if c.Render.TickMs == 0 {
		c.Render.TickMs = DefaultTickMs
	}
}

// save persists the configuration, used to seed a default config file.
func (c *Config) save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return util.WrapError("marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o755); err != nil {
		return util.WrapError("create config directory", err)
	}

	if err := os.WriteFile(c.filePath, data, 0o644); err != nil {
		return util.WrapError("write config", err)
	}
	return nil
}

// --- Typed accessors ---

// PrimaryColor returns the parsed primary color.
func (c *Config) PrimaryColor() ledring.Color { return c.primary }

// SecondaryColor returns the parsed secondary color.
func (c *Config) SecondaryColor() ledring.Color { return c.secondary }

// WarningColor returns the parsed warning color.
func (c *Config) WarningColor() ledring.Color { return c.warning }

// Brightness returns the global render brightness.
func (c *Config) Brightness() float64 { return *c.LED.Brightness }

// TickInterval returns the render cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Render.TickMs) * time.Millisecond
}

// DialTimeout returns the event-source connect timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.EventSource.DialTimeoutMs) * time.Millisecond
}

// ReconnectInitial returns the initial reconnect backoff delay.
func (c *Config) ReconnectInitial() time.Duration {
	return time.Duration(c.EventSource.ReconnectInitialMs) * time.Millisecond
}

// ReconnectMax returns the reconnect backoff cap.
func (c *Config) ReconnectMax() time.Duration {
	return time.Duration(c.EventSource.ReconnectMaxMs) * time.Millisecond
}

func floatPtr(v float64) *float64 { return &v }
