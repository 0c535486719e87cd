// Package config loads and validates the option set the synthesis core
// reads at init: sample geometry, tuning, envelope timing, stereo mapping
// and contrast shaping.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full option set consumed by the core packages at init.
type Config struct {
	SamplingFrequency int `yaml:"sampling_frequency"`
	AudioBufferSize   int `yaml:"audio_buffer_size"`
	PixelsPerImage    int `yaml:"pixels_per_image"`
	PixelsPerNote     int `yaml:"pixels_per_note"`

	StartFrequency     float64 `yaml:"start_frequency"`
	SemitonesPerOctave int     `yaml:"semitones_per_octave"`
	CommasPerSemitone  int     `yaml:"commas_per_semitone"`

	InvertIntensity bool    `yaml:"invert_intensity"`
	GammaValue      float64 `yaml:"gamma_value"`

	TauUpBaseMs      float64 `yaml:"tau_up_base_ms"`
	TauDownBaseMs    float64 `yaml:"tau_down_base_ms"`
	DecayFreqRefHz   float64 `yaml:"decay_freq_ref_hz"`
	DecayFreqBeta    float64 `yaml:"decay_freq_beta"`
	DecayFreqMin     float64 `yaml:"decay_freq_min"`
	DecayFreqMax     float64 `yaml:"decay_freq_max"`
	AlphaMin         float64 `yaml:"alpha_min"`
	InstantAttack    bool    `yaml:"instant_attack"`
	RelativeMode     bool    `yaml:"relative_mode"`
	GapLimiterEnabled bool   `yaml:"gap_limiter_enabled"`

	StereoModeEnabled               bool    `yaml:"stereo_mode_enabled"`
	StereoBlueRedWeight             float64 `yaml:"stereo_blue_red_weight"`
	StereoCyanYellowWeight          float64 `yaml:"stereo_cyan_yellow_weight"`
	StereoTemperatureAmplification  float64 `yaml:"stereo_temperature_amplification"`
	StereoTemperatureCurveExponent  int     `yaml:"stereo_temperature_curve_exponent"`
	StereoPanLawConstantPower       bool    `yaml:"stereo_pan_law_constant_power"`
	StereoCenterCompensationThresh  float64 `yaml:"stereo_center_compensation_threshold"`
	StereoCenterBoostFactor         float64 `yaml:"stereo_center_boost_factor"`

	AdditiveContrastStride           int     `yaml:"additive_contrast_stride"`
	AdditiveContrastMin              float64 `yaml:"additive_contrast_min"`
	AdditiveContrastAdjustmentPower  float64 `yaml:"additive_contrast_adjustment_power"`

	VolumeWeightingExponent    float64 `yaml:"volume_weighting_exponent"`
	PlatformAmplificationDiv   float64 `yaml:"platform_amplification_divisor"`
}

// Default returns the option set used by tests and as a starting point
// for on-disk configs.
func Default() Config {
	platformDiv := 1.0
	if runtime.GOOS == "linux" {
		platformDiv = 3.0
	}
	return Config{
		SamplingFrequency: 48000,
		AudioBufferSize:   256,
		PixelsPerImage:    3456,
		PixelsPerNote:     4,

		StartFrequency:     55.0,
		SemitonesPerOctave: 12,
		CommasPerSemitone:  8,

		InvertIntensity: false,
		GammaValue:      1.0,

		TauUpBaseMs:       5,
		TauDownBaseMs:     50,
		DecayFreqRefHz:    440,
		DecayFreqBeta:     0.3,
		DecayFreqMin:      0.25,
		DecayFreqMax:      4.0,
		AlphaMin:          1e-4,
		InstantAttack:     false,
		RelativeMode:      false,
		GapLimiterEnabled: true,

		StereoModeEnabled:              true,
		StereoBlueRedWeight:            0.7,
		StereoCyanYellowWeight:         0.3,
		StereoTemperatureAmplification: 1.5,
		StereoTemperatureCurveExponent: 3,
		StereoPanLawConstantPower:      true,
		StereoCenterCompensationThresh: 0.08,
		StereoCenterBoostFactor:        1.1,

		AdditiveContrastStride:          8,
		AdditiveContrastMin:             0.35,
		AdditiveContrastAdjustmentPower: 0.5,

		VolumeWeightingExponent:  1.0,
		PlatformAmplificationDiv: platformDiv,
	}
}

// Load reads a YAML config file and applies it on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the structural invariants the rest of the core
// assumes hold at init.
func (c Config) Validate() error {
	switch {
	case c.SamplingFrequency <= 0:
		return fmt.Errorf("sampling_frequency must be positive, got %d", c.SamplingFrequency)
	case c.AudioBufferSize <= 0:
		return fmt.Errorf("audio_buffer_size must be positive, got %d", c.AudioBufferSize)
	case c.PixelsPerImage <= 0:
		return fmt.Errorf("pixels_per_image must be positive, got %d", c.PixelsPerImage)
	case c.PixelsPerNote <= 0:
		return fmt.Errorf("pixels_per_note must be positive, got %d", c.PixelsPerNote)
	case c.PixelsPerImage%c.PixelsPerNote != 0:
		return fmt.Errorf("pixels_per_image (%d) must be a multiple of pixels_per_note (%d)", c.PixelsPerImage, c.PixelsPerNote)
	case c.StartFrequency <= 0:
		return fmt.Errorf("start_frequency must be positive, got %g", c.StartFrequency)
	case c.SemitonesPerOctave <= 0:
		return fmt.Errorf("semitones_per_octave must be positive, got %d", c.SemitonesPerOctave)
	case c.CommasPerSemitone <= 0:
		return fmt.Errorf("commas_per_semitone must be positive, got %d", c.CommasPerSemitone)
	case c.PlatformAmplificationDiv <= 0:
		return fmt.Errorf("platform_amplification_divisor must be positive, got %g", c.PlatformAmplificationDiv)
	}
	return nil
}

// NoteCount returns the number of oscillators derived from the image
// geometry.
func (c Config) NoteCount() int {
	return c.PixelsPerImage / c.PixelsPerNote
}

// CommasPerOctave returns the oscillator count per reference octave.
func (c Config) CommasPerOctave() int {
	return c.SemitonesPerOctave * c.CommasPerSemitone
}
