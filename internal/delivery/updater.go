package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Userfield tables and key columns per bucket.
const (
	PersonUserfieldTable = "pers_userfield"
	PersonKeyColumn      = "pers_nbr"
	OrgUserfieldTable    = "org_userfield"
	OrgKeyColumn         = "org_nbr"
)

// stdlClearedValue is the delivery method written for closed accounts:
// statements revert to paper.
const stdlClearedValue = "P"

// UpdateDeliveryUserfield submits one batched update for the bucket and
// reconciles per-row outcomes. The whole bucket goes out in a single round
// trip; the driver reports results positionally, in submission order.
//
// A row is Success only when the database confirms exactly that row was
// updated. Rows the driver reports an error for are Fail, carrying the
// driver message. Rows the database did not confirm (zero rows affected, or
// aborted behind an earlier batch error) are also Fail rather than silently
// dropped, so successes and fails always partition the input exactly.
func UpdateDeliveryUserfield(ctx context.Context, sc *ScriptContext, records []EntityRecord, table, keyColumn string) (successes, fails []Outcome, err error) {
	if len(records) == 0 {
		return nil, nil, nil
	}

	sql := fmt.Sprintf(
		`UPDATE %s SET value = '%s', last_update_dt = NOW() WHERE userfield_cd = $1 AND %s = $2`,
		table, stdlClearedValue, keyColumn,
	)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(sql, stdlUserfieldCd, rec.EntityNbr)
	}

	br := sc.DB.SendBatch(ctx, batch)
	for _, rec := range records {
		tag, execErr := br.Exec()
		switch {
		case execErr != nil:
			fails = append(fails, Outcome{EntityRecord: rec, Result: ResultFail, ErrMsg: execErr.Error()})
		case tag.RowsAffected() == 0:
			fails = append(fails, Outcome{EntityRecord: rec, Result: ResultFail, ErrMsg: "no row updated"})
		default:
			successes = append(successes, Outcome{EntityRecord: rec, Result: ResultSuccess})
		}
	}
	if closeErr := br.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("sql error: %w", closeErr)
	}

	sc.log().Info("userfield batch executed",
		slog.String("run_id", sc.RunID.String()),
		slog.String("table", table),
		slog.Int("successes", len(successes)),
		slog.Int("fails", len(fails)))
	return successes, fails, nil
}
