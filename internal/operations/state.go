package operations

import (
	"sync"
	"time"

	"fuelcli/internal/dataprocessing"
	"fuelcli/internal/files"
	"fuelcli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState is the complete state of one run. Steps run sequentially
// and hand their results to later steps through the typed fields below;
// nothing outlives the run.
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Mode      string               `json:"mode"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Run data, in the order the steps fill it.
	ReferenceDate time.Time                      `json:"reference_date"`
	Sources       []files.FileInfo               `json:"sources"`
	RawTables     []dataprocessing.RawTable      `json:"-"`
	Normalized    dataprocessing.NormalizeResult `json:"-"`
	Tables        []domain.Table                 `json:"-"`
	Summary       domain.RunSummary              `json:"summary"`
	Outputs       []string                       `json:"outputs"`

	Error error `json:"-"`
}

// NewOperationState creates a new operation state
func NewOperationState(id, mode string, referenceDate time.Time) *OperationState {
	return &OperationState{
		ID:            id,
		Mode:          mode,
		Status:        OperationStatusPending,
		StartTime:     time.Now(),
		Steps:         make(map[string]*StepState),
		ReferenceDate: referenceDate,
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// AddTables appends output tables in report order
func (p *OperationState) AddTables(tables ...domain.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Tables = append(p.Tables, tables...)
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// GetFailedStages returns all failed steps
func (p *OperationState) GetFailedStages() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var failed []*StepState
	for _, step := range p.Steps {
		if step.GetStatus() == StepStatusFailed {
			failed = append(failed, step)
		}
	}
	return failed
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	return len(p.GetFailedStages()) > 0
}
