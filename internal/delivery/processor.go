package delivery

import (
	"context"
	"fmt"
	"os"
)

// ProcessRecords runs the batch update for both buckets and merges their
// outcomes. Before touching the database it refuses to run if the report
// file already exists, so a rerun can never append to or clobber a prior
// run's report.
func ProcessRecords(ctx context.Context, sc *ScriptContext, pers, org []EntityRecord) (successes, fails []Outcome, err error) {
	path := sc.Params.ReportPath()
	if _, statErr := os.Stat(path); statErr == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrReportExists, path)
	}

	persOK, persFail, err := UpdateDeliveryUserfield(ctx, sc, pers, PersonUserfieldTable, PersonKeyColumn)
	if err != nil {
		return nil, nil, err
	}
	orgOK, orgFail, err := UpdateDeliveryUserfield(ctx, sc, org, OrgUserfieldTable, OrgKeyColumn)
	if err != nil {
		return nil, nil, err
	}

	successes = append(successes, persOK...)
	successes = append(successes, orgOK...)
	fails = append(fails, persFail...)
	fails = append(fails, orgFail...)
	return successes, fails, nil
}
