package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"fuelcli/internal/infrastructure"
)

// Manager orchestrates operation execution
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new operation manager with dependency injection
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   logger,
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs every registered Step in dependency order on a fresh state.
// The returned response is never nil.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = "run-" + uuid.NewString()
	}
	if infrastructure.GetTraceID(ctx) == "" {
		ctx = infrastructure.WithTraceID(ctx, req.ID)
	}

	state := NewOperationState(req.ID, req.Mode, req.ReferenceDate)

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		err = NewFatalError("failed to order steps", err)
		m.logOperationError(ctx, req.ID, err)
		state.Fail(err)
		return m.createResponse(state), err
	}
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, req.Mode)
	defer span.End()

	m.logOperationStart(ctx, req, len(steps))
	state.Start()

	err = m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, req.Mode, state.Duration(), err)
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
	}
	m.logOperationComplete(ctx, req.ID, state.Duration(), string(state.Status))

	return m.createResponse(state), err
}

// executeSequential executes steps one by one. A deferred failure lets the
// independent steps run and is returned at the end; any other failure stops
// the run.
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	var deferred error

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		stepState := state.GetStage(step.ID())
		if err := m.checkDependencies(state, step); err != nil {
			m.logger.InfoContext(ctx, "stage_skipped",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("reason", err.Error()))
			stepState.Skip(err.Error())
			continue
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.logStageError(ctx, state.ID, step.ID(), err)
			if m.config.isDeferred(err) {
				m.logger.WarnContext(ctx, "stage_failed_continuing",
					slog.String("operation_id", state.ID),
					slog.String("step", step.ID()))
				if deferred == nil {
					deferred = err
				}
				continue
			}
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
	}
	return deferred
}

// executeStage executes a single Step with timeout and retry logic
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	m.logStageStart(ctx, state.ID, step.ID())
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	timeout := m.config.GetStageTimeout(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	attempts := m.config.RetryConfig.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	began := time.Now()
attempts:
	for attempt := 1; attempt <= attempts; attempt++ {
		stepState.Start()
		start := time.Now()
		err := step.Execute(stageCtx, state)
		duration := time.Since(start)

		if err == nil {
			stepState.Complete()
			m.logStageComplete(ctx, state.ID, step.ID(), duration)
			m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), time.Since(began), StepStatusCompleted, nil)
			return nil
		}

		lastErr = err
		if ctx.Err() == nil && errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
			lastErr = NewTimeoutError(step.ID(), timeout.String())
			break
		}
		if !IsRetryable(err) || attempt == attempts {
			break
		}

		delay := m.calculateRetryDelay(attempt, m.config.RetryConfig)
		m.logger.WarnContext(ctx, "stage_retry",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-stageCtx.Done():
			if ctx.Err() == nil {
				lastErr = NewTimeoutError(step.ID(), timeout.String())
			}
			break attempts
		}
	}

	stepState.Fail(lastErr)
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), time.Since(began), StepStatusFailed, lastErr)

	if err := ctx.Err(); err != nil {
		return NewCancellationError(step.ID(), err)
	}
	return WrapError(lastErr, step.ID(), "step execution failed")
}

// skipRemaining marks every still pending Step as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// checkDependencies verifies that all dependencies completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not found", dep))
		}
		if status := depState.GetStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
		}
	}
	return nil
}

// calculateRetryDelay grows the delay exponentially up to MaxDelay
func (m *Manager) calculateRetryDelay(attempt int, config RetryConfig) time.Duration {
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1)))
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Mode:     state.Mode,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    state.Steps,
		Summary:  state.Summary,
		Outputs:  state.Outputs,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
