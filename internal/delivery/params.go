package delivery

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// runDateLayout is the MM-DD-YYYY format the scheduling platform supplies.
const runDateLayout = "01-02-2006"

// Params carries the arguments injected by the scheduling platform for one
// run. Exactly one of RunDate and FullCleanup must be set.
type Params struct {
	ServiceName    string `json:"service_name" validate:"required"`
	ConfigFilePath string `json:"config_file_path" validate:"required"`
	OutputFilePath string `json:"output_file_path" validate:"required"`
	OutputFileName string `json:"output_file_name" validate:"required"`

	RunDate     string `json:"run_date"`
	ReportOnly  bool   `json:"report_only"`
	FullCleanup bool   `json:"full_cleanup"`

	SendEmail  bool     `json:"send_email"`
	Recipients []string `json:"recipients" validate:"dive,email"`
	FromAddr   string   `json:"from_addr" validate:"omitempty,email"`
	TestAddr   string   `json:"test_addr" validate:"omitempty,email"`
}

var paramsValidator = validator.New()

// Validate checks field-level constraints. The run-selector pair is checked
// separately by ValidateRunSelector so the fetcher can fail with the exact
// configuration errors before touching the database.
func (p Params) Validate() error {
	if err := paramsValidator.Struct(p); err != nil {
		return fmt.Errorf("delivery: invalid parameters: %w", err)
	}
	return nil
}

// ValidateRunSelector enforces the mutual exclusion between a run date and
// full cleanup mode.
func (p Params) ValidateRunSelector() error {
	switch {
	case p.RunDate != "" && p.FullCleanup:
		return ErrParameterConflict
	case p.RunDate == "" && !p.FullCleanup:
		return ErrParameterMissing
	}
	return nil
}

// ParsedRunDate converts the platform-supplied run date. Only valid when a
// run date was provided.
func (p Params) ParsedRunDate() (time.Time, error) {
	t, err := time.Parse(runDateLayout, p.RunDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("delivery: parse RUN_DATE %q: %w", p.RunDate, err)
	}
	return t, nil
}

// ReportPath is the full path of the run's CSV report.
func (p Params) ReportPath() string {
	return filepath.Join(p.OutputFilePath, p.OutputFileName)
}
