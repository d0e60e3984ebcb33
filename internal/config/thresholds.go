package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ProfileDemo       = "demo"
	ProfileProduction = "production"
)

var ErrInvalidThresholds = errors.New("invalid checkup thresholds")

// Thresholds - 점검 임계값
//
// demo 프로필은 알림이 쉽게 뜨도록 낮춘 값이고 production 프로필이 실제 운영 기본값입니다.
type Thresholds struct {
	QueryCountThreshold int     `yaml:"query_count_threshold"`
	QueryCountWarning   int     `yaml:"query_count_warning"`
	SlowQuerySeconds    float64 `yaml:"slow_query_seconds"`
	MemoryWarningMB     float64 `yaml:"memory_warning_mb"`
}

func DemoThresholds() Thresholds {
	return Thresholds{
		QueryCountThreshold: 10,
		QueryCountWarning:   50,
		SlowQuerySeconds:    0.1,
		MemoryWarningMB:     5,
	}
}

func ProductionThresholds() Thresholds {
	return Thresholds{
		QueryCountThreshold: 100,
		QueryCountWarning:   200,
		SlowQuerySeconds:    0.1,
		MemoryWarningMB:     64,
	}
}

// LoadThresholds resolves the profile defaults and applies any fields set
// in the optional YAML file on top of them.
func LoadThresholds(cfg CheckupConfig) (Thresholds, error) {
	var t Thresholds
	switch cfg.Profile {
	case "", ProfileDemo:
		t = DemoThresholds()
	case ProfileProduction:
		t = ProductionThresholds()
	default:
		return Thresholds{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidThresholds, cfg.Profile)
	}

	if cfg.ThresholdsFile != "" {
		data, err := os.ReadFile(cfg.ThresholdsFile)
		if err != nil {
			return Thresholds{}, fmt.Errorf("failed to read thresholds file: %w", err)
		}
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Thresholds{}, fmt.Errorf("failed to parse thresholds file: %w", err)
		}
	}

	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

func (t Thresholds) Validate() error {
	if t.QueryCountThreshold < 0 || t.QueryCountWarning < t.QueryCountThreshold {
		return fmt.Errorf("%w: query_count_warning must be >= query_count_threshold >= 0", ErrInvalidThresholds)
	}
	if t.SlowQuerySeconds <= 0 {
		return fmt.Errorf("%w: slow_query_seconds must be positive", ErrInvalidThresholds)
	}
	if t.MemoryWarningMB < 0 {
		return fmt.Errorf("%w: memory_warning_mb must be >= 0", ErrInvalidThresholds)
	}
	return nil
}
