package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
}

type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	Lifetime time.Duration `yaml:"lifetime"`
}

// AuthConfig controls login lockout and password policy. Injected into the
// auth and user usecases at construction so tests can substitute tighter limits.
type AuthConfig struct {
	MaxLoginAttempts  int           `yaml:"max_login_attempts"`
	LockoutDuration   time.Duration `yaml:"lockout_duration"`
	MinPasswordLength int           `yaml:"min_password_length"`
}

// BMIConfig carries the categorization thresholds as strings so they survive
// YAML round-trips without float drift; the BMI engine parses them as decimals.
type BMIConfig struct {
	LowThreshold  string `yaml:"low_threshold"`
	HighThreshold string `yaml:"high_threshold"`
}

// SweepConfig controls the background sweeps.
type SweepConfig struct {
	Interval              time.Duration `yaml:"interval"`
	LoginAuditRetention   time.Duration `yaml:"login_audit_retention"`
	GeneralAuditRetention time.Duration `yaml:"general_audit_retention"`
	ClosedProjectMaxAge   time.Duration `yaml:"closed_project_max_age"`
}

func (c *Config) applyDefaults() {
	if c.JWT.Lifetime == 0 {
		c.JWT.Lifetime = time.Hour
	}
	if c.Auth.MaxLoginAttempts == 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Auth.LockoutDuration == 0 {
		c.Auth.LockoutDuration = 15 * time.Minute
	}
	if c.Auth.MinPasswordLength == 0 {
		c.Auth.MinPasswordLength = 8
	}
	if c.BMI.LowThreshold == "" {
		c.BMI.LowThreshold = "18.00"
	}
	if c.BMI.HighThreshold == "" {
		c.BMI.HighThreshold = "27.00"
	}
	if c.Sweep.Interval == 0 {
		c.Sweep.Interval = 24 * time.Hour
	}
	if c.Sweep.LoginAuditRetention == 0 {
		c.Sweep.LoginAuditRetention = 90 * 24 * time.Hour
	}
	if c.Sweep.GeneralAuditRetention == 0 {
		c.Sweep.GeneralAuditRetention = 365 * 24 * time.Hour
	}
	if c.Sweep.ClosedProjectMaxAge == 0 {
		c.Sweep.ClosedProjectMaxAge = 6 * 30 * 24 * time.Hour
	}
}
