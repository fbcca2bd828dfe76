package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dbaudit/datacheck/checks"
	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/metrics"
	"github.com/dbaudit/datacheck/params"
	"github.com/dbaudit/datacheck/registry"
	"github.com/dbaudit/datacheck/types"
)

// Legacy table defaults applied when a schema or row count case omits its
// table parameters and legacy defaults are enabled.
const (
	LegacySourceTable = "products"
	LegacyTargetTable = "new_products"
)

// GroupResult captures aggregated results for a test group
type GroupResult struct {
	Name        string
	Description string
	Outcomes    []*types.Outcome
	Status      types.TestStatus
	Duration    time.Duration
	Stats       ResultStats
}

// Report captures the complete validation run results
type Report struct {
	RunID    string
	Groups   []*GroupResult
	Status   types.TestStatus
	Duration time.Duration
	Stats    ResultStats
}

// ResultStats tracks outcome counts at each level
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	Errored   int
	StartTime time.Time
	EndTime   time.Time
}

// Outcomes returns every outcome in the report in execution order.
func (r *Report) Outcomes() []*types.Outcome {
	var out []*types.Outcome
	for _, group := range r.Groups {
		out = append(out, group.Outcomes...)
	}
	return out
}

// TestRunner defines the interface for running validation suites
type TestRunner interface {
	RunAllTests(ctx context.Context) (*Report, error)
	RunTest(ctx context.Context, tc types.TestCase) *types.Outcome
}

// runner struct implements TestRunner interface
type runner struct {
	registry       *registry.Registry
	checks         *checks.Registry
	source         connector.Factory
	target         connector.Factory
	separateTarget bool
	log            log.Logger
	runID          string
	legacyDefaults bool
	tracer         trace.Tracer
}

// Config holds configuration for creating a new runner
type Config struct {
	Registry *registry.Registry
	Checks   *checks.Registry
	Source   connector.Factory
	Target   connector.Factory // defaults to Source when nil
	Log      log.Logger
	// LegacyDefaults restores the historical table fallbacks for schema and
	// row count cases with missing table parameters. Off, those cases error.
	LegacyDefaults bool
}

// NewTestRunner creates a new test runner instance
func NewTestRunner(cfg Config) (TestRunner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("source connector factory is required")
	}
	separateTarget := cfg.Target != nil
	if cfg.Target == nil {
		cfg.Target = cfg.Source
	}
	if cfg.Checks == nil {
		cfg.Checks = checks.NewRegistry()
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	cfg.Log.Debug("NewTestRunner()", "source", cfg.Source.Backend(), "target", cfg.Target.Backend(),
		"legacyDefaults", cfg.LegacyDefaults, "cases", cfg.Registry.TotalCases())

	return &runner{
		registry:       cfg.Registry,
		checks:         cfg.Checks,
		source:         cfg.Source,
		target:         cfg.Target,
		separateTarget: separateTarget,
		log:            cfg.Log,
		legacyDefaults: cfg.LegacyDefaults,
		tracer:         otel.Tracer("check runner"),
	}, nil
}

// RunAllTests implements the TestRunner interface. Every configured case
// produces exactly one outcome, disabled and unknown-category cases
// included.
func (r *runner) RunAllTests(ctx context.Context) (*Report, error) {
	r.runID = uuid.New().String()
	defer func() {
		r.runID = ""
	}()
	start := time.Now()
	r.log.Debug("Running all validation checks", "run_id", r.runID)

	groups := r.registry.Groups()
	r.logControllerSummary(groups)

	report := &Report{
		RunID:  r.runID,
		Groups: make([]*GroupResult, 0, len(groups)),
		Stats:  ResultStats{StartTime: start},
	}

	for _, group := range groups {
		groupResult := r.processGroup(ctx, group)
		report.Groups = append(report.Groups, groupResult)
		accumulateStats(&report.Stats, groupResult.Stats)
	}

	report.Duration = time.Since(start)
	report.Status = determineReportStatus(report)
	report.Stats.EndTime = time.Now()

	metrics.RecordRun(r.runID, string(report.Status), report.Stats.Total,
		report.Stats.Passed, report.Stats.Failed, report.Stats.Errored, report.Duration)

	return report, nil
}

// logControllerSummary logs the gating decisions before anything runs, in
// configuration order.
func (r *runner) logControllerSummary(groups []types.Group) {
	for _, group := range groups {
		r.log.Info("Group configured",
			"group", group.Name,
			"enabled", group.Enabled,
			"cases", len(group.Cases),
			"will_run", group.EnabledCount())
	}
}

// processGroup runs a single group. Enabled cases execute in configuration
// order; cases gated off are appended afterwards as skips.
func (r *runner) processGroup(ctx context.Context, group types.Group) *GroupResult {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("group %s", group.Name))
	defer span.End()

	groupStart := time.Now()
	result := &GroupResult{
		Name:        group.Name,
		Description: group.Description,
		Stats:       ResultStats{StartTime: groupStart},
	}

	var skipped []types.TestCase
	for _, tc := range group.Cases {
		if !group.Enabled || !tc.Enabled {
			skipped = append(skipped, tc)
			continue
		}
		outcome := r.RunTest(ctx, tc)
		result.Outcomes = append(result.Outcomes, outcome)
		r.recordOutcome(result, outcome)
	}

	for _, tc := range skipped {
		reason := "test case disabled"
		if !group.Enabled {
			reason = "group disabled"
		}
		outcome := skipOutcome(tc, reason)
		result.Outcomes = append(result.Outcomes, outcome)
		r.recordOutcome(result, outcome)
	}

	result.Duration = time.Since(groupStart)
	result.Status = determineGroupStatus(result)
	result.Stats.EndTime = time.Now()
	return result
}

func (r *runner) recordOutcome(result *GroupResult, outcome *types.Outcome) {
	updateStats(&result.Stats, outcome.Status)
	metrics.RecordOutcome(r.runID, outcome.Group, outcome.Category, outcome.Status)
}

// RunTest implements the TestRunner interface. It never returns nil: panics
// and infrastructure failures come back as error outcomes.
func (r *runner) RunTest(ctx context.Context, tc types.TestCase) (outcome *types.Outcome) {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("case %s", tc.ID))
	defer span.End()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			errMsg := fmt.Sprintf("runtime error: %v", rec)
			r.log.Error("Panic in RunTest", "error", errMsg, "case", tc.ID)
			outcome = errorOutcome(tc, errMsg, nil)
		}
		outcome.Duration = time.Since(start)
	}()

	r.log.Info("Running check", "case", tc.ID, "category", tc.Category, "priority", tc.Priority)

	check, ok := r.checks.Lookup(tc.Category)
	if !ok {
		r.log.Warn("No check registered for category", "case", tc.ID, "category", tc.Category)
		return skipOutcome(tc, fmt.Sprintf("category %q not implemented", tc.Category))
	}

	set := params.Resolve(tc.RawParams)
	applied := r.applyLegacyDefaults(tc, set)

	if missing := set.Missing(check.RequiredKeys()); len(missing) > 0 {
		err := params.NewMissingKeysError(missing)
		metrics.RecordErrorDetails("params", err)
		return errorOutcome(tc, err.Error(), map[string]any{"missing_keys": missing})
	}

	source := r.source.New()
	if err := source.Connect(ctx); err != nil {
		metrics.RecordErrorDetails("connect", err)
		return errorOutcome(tc, fmt.Sprintf("source connection failed: %v", err), nil)
	}
	defer source.Disconnect()

	target := source
	if check.RequiresTarget() && r.separateTarget {
		target = r.target.New()
		if err := target.Connect(ctx); err != nil {
			metrics.RecordErrorDetails("connect", err)
			return errorOutcome(tc, fmt.Sprintf("target connection failed: %v", err), nil)
		}
		defer target.Disconnect()
	}

	result, err := check.Run(ctx, set, source, target)
	if err != nil {
		metrics.RecordErrorDetails("check", err)
		return errorOutcome(tc, err.Error(), map[string]any{"category": tc.Category})
	}

	outcome = &types.Outcome{
		TestID:   tc.ID,
		Name:     tc.Name,
		Group:    tc.Group,
		Category: tc.Category,
		Status:   result.Status,
		Message:  result.Message,
		Details:  result.Details,
	}
	if len(applied) > 0 {
		if outcome.Details == nil {
			outcome.Details = make(map[string]any)
		}
		outcome.Details["legacy_defaults"] = applied
	}
	return outcome
}

// applyLegacyDefaults fills in the historical table fallbacks for the two
// migration categories. Returns the keys it filled so the outcome can
// disclose them.
func (r *runner) applyLegacyDefaults(tc types.TestCase, set params.Set) []string {
	if !r.legacyDefaults {
		return nil
	}
	if tc.Category != checks.CategorySchema && tc.Category != checks.CategoryRowCount {
		return nil
	}
	var applied []string
	if !set.Has("source_table") {
		set["source_table"] = LegacySourceTable
		applied = append(applied, "source_table")
	}
	if !set.Has("target_table") {
		set["target_table"] = LegacyTargetTable
		applied = append(applied, "target_table")
	}
	if len(applied) > 0 {
		r.log.Warn("Applied legacy table defaults", "case", tc.ID, "keys", applied)
	}
	return applied
}

func skipOutcome(tc types.TestCase, reason string) *types.Outcome {
	return &types.Outcome{
		TestID:   tc.ID,
		Name:     tc.Name,
		Group:    tc.Group,
		Category: tc.Category,
		Status:   types.TestStatusSkip,
		Message:  reason,
	}
}

func errorOutcome(tc types.TestCase, message string, details map[string]any) *types.Outcome {
	return &types.Outcome{
		TestID:   tc.ID,
		Name:     tc.Name,
		Group:    tc.Group,
		Category: tc.Category,
		Status:   types.TestStatusError,
		Message:  message,
		Details:  details,
	}
}

func updateStats(stats *ResultStats, status types.TestStatus) {
	stats.Total++
	switch status {
	case types.TestStatusPass:
		stats.Passed++
	case types.TestStatusFail:
		stats.Failed++
	case types.TestStatusSkip:
		stats.Skipped++
	case types.TestStatusError:
		stats.Errored++
	}
}

func accumulateStats(into *ResultStats, from ResultStats) {
	into.Total += from.Total
	into.Passed += from.Passed
	into.Failed += from.Failed
	into.Skipped += from.Skipped
	into.Errored += from.Errored
}

// determineGroupStatus determines the overall status of a group based on its outcomes
func determineGroupStatus(group *GroupResult) types.TestStatus {
	if len(group.Outcomes) == 0 {
		return types.TestStatusSkip
	}

	allSkipped := true
	anyFailed := false
	anyErrored := false

	for _, outcome := range group.Outcomes {
		if outcome.Status != types.TestStatusSkip {
			allSkipped = false
		}
		if outcome.Status == types.TestStatusFail {
			anyFailed = true
		}
		if outcome.Status == types.TestStatusError {
			anyErrored = true
		}
	}

	return determineStatusFromFlags(allSkipped, anyFailed, anyErrored)
}

// determineReportStatus determines the overall status of the run
func determineReportStatus(report *Report) types.TestStatus {
	if len(report.Groups) == 0 {
		return types.TestStatusSkip
	}

	allSkipped := true
	anyFailed := false
	anyErrored := false

	for _, group := range report.Groups {
		if group.Status != types.TestStatusSkip {
			allSkipped = false
		}
		if group.Status == types.TestStatusFail {
			anyFailed = true
		}
		if group.Status == types.TestStatusError {
			anyErrored = true
		}
	}

	return determineStatusFromFlags(allSkipped, anyFailed, anyErrored)
}

// String returns a formatted string representation of the run results
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Validation Run Results (%s):\n", fmt.Sprintf("%.1fs", r.Duration.Seconds())))
	b.WriteString(fmt.Sprintf("Total: %d, Passed: %d, Failed: %d, Skipped: %d, Errored: %d\n",
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped, r.Stats.Errored))

	for _, group := range r.Groups {
		b.WriteString(fmt.Sprintf("\nGroup: %s (%.1fs)\n", group.Name, group.Duration.Seconds()))
		b.WriteString(fmt.Sprintf("├── Status: %s\n", group.Status))
		b.WriteString(fmt.Sprintf("├── Checks: %d passed, %d failed, %d skipped, %d errored\n",
			group.Stats.Passed, group.Stats.Failed, group.Stats.Skipped, group.Stats.Errored))

		for _, outcome := range group.Outcomes {
			b.WriteString(fmt.Sprintf("├── Check: %s %s (%.1fs) [status=%s]\n",
				outcome.TestID, outcome.Name, outcome.Duration.Seconds(), outcome.Status))
			if outcome.Status.IsFailure() && outcome.Message != "" {
				b.WriteString(fmt.Sprintf("│       └── %s\n", outcome.Message))
			}
		}
	}
	return b.String()
}

// determineStatusFromFlags is a helper that returns a status based on common flag logic
func determineStatusFromFlags(allSkipped, anyFailed, anyErrored bool) types.TestStatus {
	if allSkipped {
		return types.TestStatusSkip
	}
	if anyErrored {
		return types.TestStatusError
	}
	if anyFailed {
		return types.TestStatusFail
	}
	return types.TestStatusPass
}
