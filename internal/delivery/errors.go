package delivery

import "errors"

var (
	// ErrParameterConflict indicates both run selectors were supplied.
	ErrParameterConflict = errors.New("RUN_DATE and FULL_CLEANUP_YN are mutually exclusive")
	// ErrParameterMissing indicates neither run selector was supplied.
	ErrParameterMissing = errors.New("no RUN_DATE parameter provided and full cleanup not requested")
	// ErrReportExists guards against clobbering a prior run's report.
	ErrReportExists = errors.New("report file already exists")
)
