// Package harness runs the answer CRUD checks against a live database and
// reports each one as it goes, the way a release smoke test would.
//
// Every check opens its own Store, runs to completion, and closes the Store
// again, whether it passed, failed or panicked. Checks never retry and one
// failure never stops the rest.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/rs/xid"

	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/service"
)

// Opener connects to the database. The runner calls it once per check and
// closes what it returns.
type Opener func(ctx context.Context) (repository.Store, error)

// Env is what a check gets to work with: the answer service under test, the
// questions table for finding a target, and a printer for progress lines.
type Env struct {
	Answers   *service.AnswerService
	Questions repository.QuestionRepository

	out io.Writer
}

// Printf writes one indented progress line under the current check.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.out, "  "+format+"\n", args...)
}

// Check is one named step. Run returns nil when the check passes; the error
// text is printed as the failure reason.
type Check struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Passed   bool
	Reason   string
	Duration time.Duration
}

// Summary tallies a run.
type Summary struct {
	RunID   string
	Passed  int
	Failed  int
	Results []Result
}

// Total is the number of checks that ran.
func (s Summary) Total() int { return s.Passed + s.Failed }

// OK reports whether every check passed.
func (s Summary) OK() bool { return s.Failed == 0 }

// Options tweaks console output.
type Options struct {
	// NoColor forces plain output even on a terminal.
	NoColor bool
}

// Runner executes checks in order against stores from open.
type Runner struct {
	open   Opener
	out    io.Writer
	logger *slog.Logger
	checks []Check

	pass *color.Color
	fail *color.Color
	head *color.Color
}

// NewRunner builds a Runner. A nil checks slice means DefaultChecks().
func NewRunner(open Opener, out io.Writer, logger *slog.Logger, checks []Check, opts Options) *Runner {
	if checks == nil {
		checks = DefaultChecks()
	}

	r := &Runner{
		open:   open,
		out:    out,
		logger: logger,
		checks: checks,
		pass:   color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		head:   color.New(color.Bold),
	}
	if opts.NoColor {
		r.pass.DisableColor()
		r.fail.DisableColor()
		r.head.DisableColor()
	}
	return r
}

const rule = "==========================================="

// Run executes every check and prints the summary. It never returns early.
func (r *Runner) Run(ctx context.Context) Summary {
	sum := Summary{RunID: xid.New().String()}
	logger := r.logger.With(slog.String("run", sum.RunID))
	logger.Info("check run started", slog.Int("checks", len(r.checks)))

	r.head.Fprintln(r.out, rule)
	r.head.Fprintln(r.out, "    Answers CRUD Operations Test Suite    ")
	r.head.Fprintln(r.out, rule)
	fmt.Fprintln(r.out)

	for _, c := range r.checks {
		res := r.runOne(ctx, logger, c)
		sum.Results = append(sum.Results, res)
		if res.Passed {
			sum.Passed++
		} else {
			sum.Failed++
		}
	}

	r.head.Fprintln(r.out, rule)
	r.head.Fprintln(r.out, "              Test Summary                 ")
	r.head.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Tests Passed: %d\n", sum.Passed)
	fmt.Fprintf(r.out, "Tests Failed: %d\n", sum.Failed)
	fmt.Fprintf(r.out, "Total Tests:  %d\n", sum.Total())
	r.head.Fprintln(r.out, rule)

	logger.Info("check run finished",
		slog.Int("passed", sum.Passed),
		slog.Int("failed", sum.Failed),
	)
	return sum
}

// runOne runs a single check on a fresh store. Panics are turned into a
// failed Result; the store is closed on every path.
func (r *Runner) runOne(ctx context.Context, logger *slog.Logger, c Check) (res Result) {
	res.Name = c.Name
	start := time.Now()
	fmt.Fprintf(r.out, "Running: %s\n", c.Name)

	defer func() {
		res.Duration = time.Since(start)
		if v := recover(); v != nil {
			res.Passed = false
			res.Reason = fmt.Sprintf("panic: %v", v)
			r.fail.Fprintf(r.out, "✗ FAILED with exception: %v\n", v)
			logger.Error("check panicked", slog.String("check", c.Name), slog.Any("panic", v))
		}
		fmt.Fprintln(r.out)
	}()

	store, err := r.open(ctx)
	if err != nil {
		logger.Error("connecting to database", slog.String("check", c.Name), slog.String("error", err.Error()))
		res.Reason = fmt.Sprintf("connecting to database: %v", err)
		r.fail.Fprintf(r.out, "✗ FAILED: %s\n", res.Reason)
		return res
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing database", slog.String("check", c.Name), slog.String("error", err.Error()))
		}
	}()

	env := &Env{
		Answers:   service.NewAnswerService(store.Answers(), logger),
		Questions: store.Questions(),
		out:       r.out,
	}

	if err := c.Run(ctx, env); err != nil {
		res.Reason = err.Error()
		r.fail.Fprintf(r.out, "✗ FAILED: %s\n", res.Reason)
		logger.Warn("check failed", slog.String("check", c.Name), slog.String("reason", res.Reason))
		return res
	}

	res.Passed = true
	r.pass.Fprintln(r.out, "✓ PASSED")
	logger.Debug("check passed", slog.String("check", c.Name))
	return res
}
