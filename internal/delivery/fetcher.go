package delivery

import (
	"context"
	"fmt"
	"log/slog"
)

// stdlUserfieldCd is the userfield holding the statement delivery method.
const stdlUserfieldCd = "STDL"

const fetchClosedAccountsSQL = `
SELECT e.entity_nbr, a.acctnbr, e.entity_type, a.close_date
FROM acct a
JOIN acct_entity e ON e.acctnbr = a.acctnbr
WHERE a.curr_status_cd = 'CLS'
  AND e.entity_type IN ('pers', 'org')
  AND EXISTS (
        SELECT 1 FROM acct_userfield uf
        WHERE uf.acctnbr = a.acctnbr
          AND uf.userfield_cd = $1
          AND uf.value <> 'P'
  )`

const fetchByRunDateSQL = fetchClosedAccountsSQL + `
  AND a.close_date = $2
ORDER BY e.entity_type, e.entity_nbr`

const fetchFullCleanupSQL = fetchClosedAccountsSQL + `
  AND a.close_date <= CURRENT_DATE
ORDER BY e.entity_type, e.entity_nbr`

// FetchRecords validates the run selector, issues the single select and
// partitions the rows into person and organization buckets. One database
// round trip.
func FetchRecords(ctx context.Context, sc *ScriptContext) (pers, org []EntityRecord, err error) {
	if err := sc.Params.ValidateRunSelector(); err != nil {
		return nil, nil, err
	}

	query := fetchFullCleanupSQL
	args := []any{stdlUserfieldCd}
	if !sc.Params.FullCleanup {
		runDate, err := sc.Params.ParsedRunDate()
		if err != nil {
			return nil, nil, err
		}
		query = fetchByRunDateSQL
		args = append(args, runDate)
	}

	rows, err := sc.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("sql error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec EntityRecord
		if err := rows.Scan(&rec.EntityNbr, &rec.AcctNbr, &rec.EntityType, &rec.CloseDate); err != nil {
			return nil, nil, fmt.Errorf("sql error: %w", err)
		}
		switch rec.EntityType {
		case EntityPerson:
			pers = append(pers, rec)
		case EntityOrg:
			org = append(org, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sql error: %w", err)
	}

	sc.log().Info("fetched closed accounts",
		slog.String("run_id", sc.RunID.String()),
		slog.String("run", sc.RunLabel()),
		slog.Int("persons", len(pers)),
		slog.Int("organizations", len(org)))
	return pers, org, nil
}
