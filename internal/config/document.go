// SPDX-License-Identifier: Apache-2.0

// Package config implements the configuration document loader and the
// config→command compiler: it walks a parsed configuration tree and
// emits a strictly ordered sequence of Commands, bracketed by a
// mute-during-reconfigure discipline.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Document is the top-level parsed configuration tree: an array of
// backends, an array of sensors, and a singleton IMU object.
type Document struct {
	Backends []BackendDoc `mapstructure:"backends" yaml:"backends"`
	Sensors  []SensorDoc  `mapstructure:"sensors" yaml:"sensors"`
	IMU      IMUDoc       `mapstructure:"imu" yaml:"imu"`
}

// SensorDoc mirrors one element of the "sensors" array. Pointer fields
// distinguish "key absent" from "key present with zero value", since the
// compiler must skip absent optional keys rather than emit a command for
// them.
type SensorDoc struct {
	ID         *int          `mapstructure:"id" yaml:"id"`
	Name       *string       `mapstructure:"name" yaml:"name"`
	SensorType *string       `mapstructure:"sensor_type" yaml:"sensor_type"`
	Hardware   *HardwareDoc  `mapstructure:"hardware" yaml:"hardware"`
	Parameter  *string       `mapstructure:"parameter" yaml:"parameter"`
	Enabled    *bool         `mapstructure:"enabled" yaml:"enabled"`
	Mode       *string       `mapstructure:"mode" yaml:"mode"`
	Inverted   *bool         `mapstructure:"inverted" yaml:"inverted"`
	Range      []float64     `mapstructure:"range" yaml:"range"`
}

// HardwareDoc mirrors the sensor's nested "hardware" object.
type HardwareDoc struct {
	PinIndex        *int     `mapstructure:"pin_index" yaml:"pin_index"`
	HardwareType    *string  `mapstructure:"hardware_type" yaml:"hardware_type"`
	DeltaTicks      *int     `mapstructure:"delta_ticks" yaml:"delta_ticks"`
	ADCResolution   *int     `mapstructure:"adc_resolution" yaml:"adc_resolution"`
	LowpassCutoff   *float64 `mapstructure:"lowpass_cutoff" yaml:"lowpass_cutoff"`
	LowpassOrder    *int     `mapstructure:"lowpass_order" yaml:"lowpass_order"`
	SliderThreshold *int     `mapstructure:"slider_threshold" yaml:"slider_threshold"`
}

// BackendDoc mirrors one element of the "backends" array.
type BackendDoc struct {
	ID                *int    `mapstructure:"id" yaml:"id"`
	Type              *string `mapstructure:"type" yaml:"type"`
	Enabled           *bool   `mapstructure:"enabled" yaml:"enabled"`
	RawInputEnabled   *bool   `mapstructure:"raw_input_enabled" yaml:"raw_input_enabled"`
	Host              *string `mapstructure:"host" yaml:"host"`
	Port              *int    `mapstructure:"port" yaml:"port"`
	BasePath          *string `mapstructure:"base_path" yaml:"base_path"`
	BaseRawInputPath  *string `mapstructure:"base_raw_input_path" yaml:"base_raw_input_path"`
}

// IMUDoc mirrors the singleton "imu" object. All keys are optional.
type IMUDoc struct {
	FilterMode            *string  `mapstructure:"filter_mode" yaml:"filter_mode"`
	AccelerometerRangeMax *float64 `mapstructure:"accelerometer_range_max" yaml:"accelerometer_range_max"`
	GyroscopeRangeMax     *float64 `mapstructure:"gyroscope_range_max" yaml:"gyroscope_range_max"`
	CompassRangeMax       *float64 `mapstructure:"compass_range_max" yaml:"compass_range_max"`
	CompassEnabled        *bool    `mapstructure:"compass_enabled" yaml:"compass_enabled"`
	Mode                  *string  `mapstructure:"mode" yaml:"mode"`
	DeltaTicks            *int     `mapstructure:"delta_ticks" yaml:"delta_ticks"`
	Data                  *string  `mapstructure:"data" yaml:"data"`
	AccNormThreshold      *float64 `mapstructure:"acc_norm_threshold" yaml:"acc_norm_threshold"`
	Enabled               *bool    `mapstructure:"enabled" yaml:"enabled"`
}

// Load reads the configuration document at path through viper and
// unmarshals it into a Document. No defaults are registered: keys absent
// from the document stay nil (or empty, for the arrays).
func Load(path string) (*Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	return &doc, nil
}

// LoadYAML decodes the document directly with yaml.v3, bypassing viper.
// Used by `sensei validate` for a fast, dependency-light parse path.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	return &doc, nil
}
