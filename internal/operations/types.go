package operations

import (
	"time"

	"fuelcli/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDDiscover    = "discover"
	StepIDLoad        = "load"
	StepIDNormalize   = "normalize"
	StepIDAggregate   = "aggregate"
	StepIDListings    = "listings"
	StepIDDaily       = "daily"
	StepIDConsolidate = "consolidate"
	StepIDWrite       = "write"
)

// Step names
const (
	StepNameDiscover    = "Source Discovery"
	StepNameLoad        = "Source Loading"
	StepNameNormalize   = "Record Normalization"
	StepNameAggregate   = "Period Aggregation"
	StepNameListings    = "Company Listings"
	StepNameDaily       = "Daily Summary"
	StepNameConsolidate = "Consumption Consolidation"
	StepNameWrite       = "Report Output"
)

// Operation modes
const (
	ModeMonthly     = "monthly"
	ModeConsumption = "consumption"
)

// Default timeouts
const (
	DefaultStageTimeout = 10 * time.Minute
	DefaultLoadTimeout  = 20 * time.Minute
	DefaultWriteTimeout = 5 * time.Minute
)

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// OperationRequest represents a request to execute an operation
type OperationRequest struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	ReferenceDate time.Time `json:"reference_date"`
}

// OperationResponse represents the response from an operation execution
type OperationResponse struct {
	ID       string                `json:"id"`
	Mode     string                `json:"mode"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Summary  domain.RunSummary     `json:"summary"`
	Outputs  []string              `json:"outputs,omitempty"`
	Error    string                `json:"error,omitempty"`
}
