// Package config loads the YAML configuration of the vl53l1x command.
package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rangekit/vl53l1x"
	"github.com/rangekit/vl53l1x/i2cbus"
)

type Config struct {
	Bus      BusConfig      `yaml:"bus"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Sampling SamplingConfig `yaml:"sampling"`
}

// BusConfig selects how the sensor is reached
type BusConfig struct {
	Backend string `yaml:"backend"` // periph | sysfs
	Device  string `yaml:"device"`
	Address uint8  `yaml:"address"`
}

type SensorConfig struct {
	DistanceMode   string `yaml:"distance_mode"`
	TimingBudgetUs uint32 `yaml:"timing_budget_us"`
	TimeoutMs      int    `yaml:"timeout_ms"` // 0 disables

	// optional, the sensor default is the full 16x16 array
	ROI *ROIConfig `yaml:"roi"`
}

type ROIConfig struct {
	Width  uint8 `yaml:"width"`
	Height uint8 `yaml:"height"`
	Center uint8 `yaml:"center"`
}

type SamplingConfig struct {
	Count      int `yaml:"count"` // 0 samples until interrupted
	IntervalMs int `yaml:"interval_ms"`
}

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	return Config{
		Bus: BusConfig{
			Backend: i2cbus.BackendPeriph,
			Device:  "",
			Address: vl53l1x.Address,
		},
		Sensor: SensorConfig{
			DistanceMode:   vl53l1x.Long.String(),
			TimingBudgetUs: vl53l1x.DefaultTimingBudget,
			TimeoutMs:      int(vl53l1x.DefaultTimeout.Milliseconds()),
		},
		Sampling: SamplingConfig{
			Count:      10,
			IntervalMs: 100,
		},
	}
}

// Load reads path, expands ${VAR} references from the environment and
// decodes it over Default. Unknown keys are an error.
func Load(path string) (Config, error) {

	buf, err := envsubst.ReadFile(path)

	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %q", path)
	}

	return Parse(buf)
}

// Parse decodes YAML over Default
func Parse(buf []byte) (Config, error) {

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	// an empty document leaves the defaults
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}

	return cfg, nil
}
