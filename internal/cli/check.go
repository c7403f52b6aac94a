package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/server"
	"github.com/amribhatt/pega/pkg/logging"
)

// CheckStatus is the result of a single check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusFail CheckStatus = "FAIL"
)

// Check names, in the order they run.
const (
	CheckConfiguration            = "Configuration"
	CheckConnectivity             = "Connectivity"
	CheckGetCaseTypes             = "Get Case Types"
	CheckCreateCase               = "Create Case"
	CheckCaseTypesResource        = "Case Types Resource"
	CheckConnectionStatusResource = "Connection Status Resource"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string        `json:"name" yaml:"name"`
	Status   CheckStatus   `json:"status" yaml:"status"`
	Message  string        `json:"message" yaml:"message"`
	Details  string        `json:"details,omitempty" yaml:"details,omitempty"`
	Duration time.Duration `json:"-" yaml:"-"`
}

// Passed reports whether the check passed.
func (r CheckResult) Passed() bool {
	return r.Status == StatusPass
}

// Report collects the results of a run.
type Report struct {
	Target      string        `json:"target" yaml:"target"`
	Results     []CheckResult `json:"results" yaml:"results"`
	Total       int           `json:"total" yaml:"total"`
	Passed      int           `json:"passed" yaml:"passed"`
	Failed      int           `json:"failed" yaml:"failed"`
	SuccessRate float64       `json:"successRate" yaml:"successRate"`
}

// AllPassed reports whether every check passed.
func (r *Report) AllPassed() bool {
	return r.Total > 0 && r.Failed == 0
}

func (r *Report) add(result CheckResult) {
	r.Results = append(r.Results, result)
	r.Total++
	if result.Passed() {
		r.Passed++
	} else {
		r.Failed++
	}
	r.SuccessRate = float64(r.Passed) / float64(r.Total) * 100
}

// RunnerOptions controls how checks are run.
type RunnerOptions struct {
	// Quiet suppresses the progress spinner.
	Quiet bool
	// TargetName describes the target in the report, for example the endpoint.
	TargetName string
	// Progress receives the spinner; defaults to stderr.
	Progress io.Writer
}

// Runner runs the check suite against a Target.
type Runner struct {
	cfg     *config.Config
	target  Target
	options RunnerOptions
}

// NewRunner creates a Runner. cfg is only used for the configuration check.
func NewRunner(cfg *config.Config, target Target, options RunnerOptions) *Runner {
	if options.Progress == nil {
		options.Progress = os.Stderr
	}
	return &Runner{cfg: cfg, target: target, options: options}
}

// Run executes every check in order. A failing check never stops the suite.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{Target: r.options.TargetName}

	checks := []struct {
		name string
		run  func(context.Context) CheckResult
	}{
		{CheckConfiguration, r.checkConfiguration},
		{CheckConnectivity, r.checkConnectivity},
		{CheckGetCaseTypes, r.checkGetCaseTypes},
		{CheckCreateCase, r.checkCreateCase},
		{CheckCaseTypesResource, r.checkCaseTypesResource},
		{CheckConnectionStatusResource, r.checkConnectionStatusResource},
	}

	for _, check := range checks {
		result := r.runWithProgress(ctx, check.name, check.run)
		logging.Debug("Check", "%s: %s (%s)", result.Name, result.Status, result.Message)
		report.add(result)
	}

	return report
}

func (r *Runner) runWithProgress(ctx context.Context, name string, run func(context.Context) CheckResult) CheckResult {
	var s *spinner.Spinner
	if !r.options.Quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.options.Progress))
		s.Suffix = fmt.Sprintf(" Checking %s...", name)
		s.Start()
	}

	start := time.Now()
	result := run(ctx)
	result.Name = name
	result.Duration = time.Since(start)

	if s != nil {
		if result.Passed() {
			s.FinalMSG = text.FgGreen.Sprintf("✓ %s", name) + "\n"
		} else {
			s.FinalMSG = text.FgRed.Sprintf("✗ %s", name) + "\n"
		}
		s.Stop()
	}
	return result
}

func pass(message, details string) CheckResult {
	return CheckResult{Status: StatusPass, Message: message, Details: details}
}

func fail(message, details string) CheckResult {
	return CheckResult{Status: StatusFail, Message: message, Details: details}
}

func (r *Runner) checkConfiguration(context.Context) CheckResult {
	c := r.cfg
	if !c.IsConfigured() {
		return fail("Configuration is incomplete", fmt.Sprintf(
			"Missing required values. %s: %t, %s: %t, %s: %t, %s: %t",
			config.KeyBaseURL, c.BaseURL != "",
			config.KeyClientID, c.ClientID != "",
			config.KeyClientSecret, c.ClientSecret != "",
			config.KeyAppAlias, c.AppAlias != ""))
	}
	return pass("Configuration is valid", fmt.Sprintf("%s: %s, %s: %s",
		config.KeyBaseURL, c.BaseURL, config.KeyAppAlias, c.AppAlias))
}

func (r *Runner) checkConnectivity(ctx context.Context) CheckResult {
	out, isError, err := r.target.CallToolText(ctx, server.ToolVerifyConnectivity, nil)
	if err != nil {
		return fail("Connectivity check failed with an error", err.Error())
	}
	if isError || !strings.Contains(strings.ToLower(out), "successfully") {
		return fail("Failed to connect to Pega Platform", out)
	}
	return pass("Successfully connected to Pega Platform", out)
}

func (r *Runner) getCaseTypes(ctx context.Context) (string, CheckResult) {
	out, isError, err := r.target.CallToolText(ctx, server.ToolGetCaseTypes, nil)
	switch {
	case err != nil:
		return "", fail("Get case types failed with an error", err.Error())
	case !isError && strings.Contains(out, "Found") && strings.Contains(out, "case types"):
		return out, pass("Successfully retrieved case types", out)
	case !isError && strings.Contains(out, "No case types found"):
		return out, pass("No case types found (this might be expected)", out)
	default:
		return out, fail("Failed to get case types", out)
	}
}

func (r *Runner) checkGetCaseTypes(ctx context.Context) CheckResult {
	_, result := r.getCaseTypes(ctx)
	return result
}

func (r *Runner) checkCreateCase(ctx context.Context) CheckResult {
	listing, result := r.getCaseTypes(ctx)
	if !result.Passed() || !strings.Contains(listing, "Found") {
		return fail("Cannot test case creation without available case types", listing)
	}

	caseTypeID := FirstCaseTypeID(listing)
	if caseTypeID == "" {
		return fail("Could not extract case type ID from case types result", listing)
	}

	out, isError, err := r.target.CallToolText(ctx, server.ToolCreateCase, map[string]interface{}{"case_type_id": caseTypeID})
	if err != nil {
		return fail("Create case failed with an error", err.Error())
	}
	if isError || !strings.Contains(strings.ToLower(out), "created successfully") {
		return fail("Failed to create case", out)
	}
	return pass("Successfully created a case", out)
}

func (r *Runner) checkResource(ctx context.Context, uri, what string) CheckResult {
	out, err := r.target.ReadResourceText(ctx, uri)
	if err != nil {
		return fail(what+" resource failed with an error", err.Error())
	}
	if out == "" {
		return fail(what+" resource returned empty or invalid data", "")
	}
	return pass("Successfully retrieved "+strings.ToLower(what)+" resource",
		fmt.Sprintf("Resource length: %d characters", len(out)))
}

func (r *Runner) checkCaseTypesResource(ctx context.Context) CheckResult {
	return r.checkResource(ctx, server.ResourceCaseTypes, "Case types")
}

func (r *Runner) checkConnectionStatusResource(ctx context.Context) CheckResult {
	return r.checkResource(ctx, server.ResourceConnectionStatus, "Connection status")
}

// FirstCaseTypeID extracts the first "(ID: ...)" value from a case types
// listing, or "" if there is none.
func FirstCaseTypeID(listing string) string {
	for _, line := range strings.Split(listing, "\n") {
		_, rest, ok := strings.Cut(line, "(ID:")
		if !ok {
			continue
		}
		id, _, _ := strings.Cut(rest, ")")
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}
