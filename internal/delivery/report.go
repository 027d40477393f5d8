package delivery

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
)

var reportHeader = []string{"ENTITY_NBR", "ACCTNBR", "ENTITY_TYPE", "CLOSE_DATE", "RESULT"}

// openReportFile is the file-open primitive, a variable so tests can count
// invocations and capture the requested modes.
var openReportFile = func(path string, flag int) (io.WriteCloser, error) {
	return os.OpenFile(path, flag, 0o644)
}

// WriteReportFile serialises the run's outcomes. Successes go first in
// write mode (create/truncate), failures are appended. The header row is
// emitted on the first physical write, whichever collection triggers it.
// Empty collections produce no writes at all.
func WriteReportFile(sc *ScriptContext, successes, fails []Outcome) error {
	path := sc.Params.ReportPath()
	wroteHeader := false
	if len(successes) > 0 {
		if err := writeReport(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, true, successes); err != nil {
			return err
		}
		wroteHeader = true
	}
	if len(fails) > 0 {
		if err := writeReport(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, !wroteHeader, fails); err != nil {
			return err
		}
	}

	sc.log().Info("report written",
		slog.String("run_id", sc.RunID.String()),
		slog.String("path", path),
		slog.Int("successes", len(successes)),
		slog.Int("fails", len(fails)))
	return nil
}

func writeReport(path string, flag int, header bool, records []Outcome) error {
	f, err := openReportFile(path, flag)
	if err != nil {
		return fmt.Errorf("delivery: open report %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if header {
		if err := w.Write(reportHeader); err != nil {
			_ = f.Close()
			return fmt.Errorf("delivery: write report header: %w", err)
		}
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			_ = f.Close()
			return fmt.Errorf("delivery: write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("delivery: flush report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("delivery: close report: %w", err)
	}
	return nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
