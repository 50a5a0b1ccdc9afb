package operations

import (
	"time"
)

// Config represents the operation execution configuration
type Config struct {
	// Step-specific timeouts
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`

	// Retry configuration for steps returning retryable errors
	RetryConfig RetryConfig `json:"retry_config"`

	// Deferred reports errors that fail their Step without stopping the
	// run. Steps that do not depend on the failed one still execute and
	// the first deferred error is returned at the end.
	Deferred func(error) bool `json:"-"`
}

// NewConfig returns the default operation configuration
func NewConfig() *Config {
	return &Config{
		StageTimeouts: map[string]time.Duration{
			StepIDLoad:  DefaultLoadTimeout,
			StepIDWrite: DefaultWriteTimeout,
		},
		RetryConfig: NewRetryConfig(),
	}
}

// GetStageTimeout returns the timeout for a specific Step
func (c *Config) GetStageTimeout(stageID string) time.Duration {
	if timeout, ok := c.StageTimeouts[stageID]; ok {
		return timeout
	}
	return DefaultStageTimeout
}

// SetStageTimeout sets the timeout for a specific Step
func (c *Config) SetStageTimeout(stageID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stageID] = timeout
}

func (c *Config) isDeferred(err error) bool {
	return c.Deferred != nil && c.Deferred(err)
}
