package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run data source diagnostics",
		Long: `Run diagnostics for the configured data source.

Checks:
  - configuration validity
  - runner availability
  - connectivity to the remote engine (no-op query)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDoctor(cmd)
		},
	}
}

// DiagnosticCheck represents one diagnostic result.
type DiagnosticCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

func (c *CLI) runDoctor(cmd *cobra.Command) error {
	checks := []DiagnosticCheck{}

	// Check 1: Configuration
	configCheck := DiagnosticCheck{Name: "configuration", Passed: true}
	if err := c.cfg.DataSource.Validate(); err != nil {
		configCheck.Passed = false
		configCheck.Message = err.Error()
	}
	checks = append(checks, configCheck)

	// Check 2 and 3 only make sense with a valid configuration.
	if configCheck.Passed {
		rn, err := c.newRunner()
		availCheck := DiagnosticCheck{Name: "runner availability", Passed: err == nil}
		if err != nil {
			availCheck.Message = err.Error()
		}
		checks = append(checks, availCheck)

		if availCheck.Passed {
			connCheck := DiagnosticCheck{Name: "connectivity", Passed: true}
			started := time.Now()
			if err := rn.TestConnection(cmd.Context()); err != nil {
				connCheck.Passed = false
				connCheck.Message = err.Error()
			} else {
				connCheck.Message = time.Since(started).Round(time.Millisecond).String()
			}
			checks = append(checks, connCheck)
		}
	}

	allPassed := true
	for _, check := range checks {
		if !check.Passed {
			allPassed = false
		}
	}

	if c.jsonOutput {
		return c.outputJSON(map[string]interface{}{
			"passed": allPassed,
			"checks": checks,
		})
	}

	c.println("querybridge diagnostics")
	c.println("=======================")
	for _, check := range checks {
		mark := "ok"
		if !check.Passed {
			mark = "FAIL"
		}
		if check.Message != "" {
			c.printf("  [%s] %s: %s\n", mark, check.Name, check.Message)
		} else {
			c.printf("  [%s] %s\n", mark, check.Name)
		}
	}

	if !allPassed {
		return &doctorFailed{}
	}
	return nil
}

type doctorFailed struct{}

func (*doctorFailed) Error() string {
	return "one or more diagnostic checks failed"
}
