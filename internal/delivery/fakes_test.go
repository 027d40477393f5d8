package delivery

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridianfcu/stmtdelivery/internal/mailer"
)

var sampleCloseDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func sampleRecords() []EntityRecord {
	return []EntityRecord{
		{EntityNbr: 123456, AcctNbr: "ACC001", EntityType: EntityPerson, CloseDate: sampleCloseDate},
		{EntityNbr: 789012, AcctNbr: "ACC002", EntityType: EntityPerson, CloseDate: sampleCloseDate},
		{EntityNbr: 345678, AcctNbr: "ACC003", EntityType: EntityOrg, CloseDate: sampleCloseDate},
		{EntityNbr: 901234, AcctNbr: "ACC004", EntityType: EntityOrg, CloseDate: sampleCloseDate},
	}
}

// fakeRows satisfies pgx.Rows over a fixed record slice.
type fakeRows struct {
	records []EntityRecord
	idx     int
	scanErr error
	rowsErr error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	rec := r.records[r.idx-1]
	if len(dest) != 4 {
		return fmt.Errorf("expected 4 scan targets, got %d", len(dest))
	}
	*dest[0].(*int64) = rec.EntityNbr
	*dest[1].(*string) = rec.AcctNbr
	*dest[2].(*EntityType) = rec.EntityType
	*dest[3].(*time.Time) = rec.CloseDate
	return nil
}

func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// fakeBatchResults satisfies pgx.BatchResults with scripted outcomes.
type fakeBatchResults struct {
	tags     []pgconn.CommandTag
	errs     []error
	closeErr error
	idx      int
	closed   bool
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	i := b.idx
	b.idx++
	var tag pgconn.CommandTag
	var err error
	if i < len(b.tags) {
		tag = b.tags[i]
	}
	if i < len(b.errs) {
		err = b.errs[i]
	}
	return tag, err
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, nil }
func (b *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (b *fakeBatchResults) Close() error {
	b.closed = true
	return b.closeErr
}

// fakeDB satisfies db.Querier with scripted rows and batch results.
type fakeDB struct {
	rows     *fakeRows
	queryErr error

	queryCalls int
	lastSQL    string
	lastArgs   []any

	results []*fakeBatchResults
	batches []*pgx.Batch
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queryCalls++
	f.lastSQL = sql
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	if len(f.results) == 0 {
		return &fakeBatchResults{}
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res
}

func okTags(n int) []pgconn.CommandTag {
	tags := make([]pgconn.CommandTag, n)
	for i := range tags {
		tags[i] = pgconn.NewCommandTag("UPDATE 1")
	}
	return tags
}

// fakeMailer records sends.
type fakeMailer struct {
	calls   int
	last    mailer.Message
	sendErr error
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.calls++
	m.last = msg
	return m.sendErr
}

func testParams(t *testing.T) Params {
	t.Helper()
	return Params{
		ServiceName:    "FAKE_DB",
		ConfigFilePath: "../../config/config.yaml",
		OutputFilePath: t.TempDir(),
		OutputFileName: "delivery_method_update_report.csv",
		RunDate:        "01-15-2024",
		SendEmail:      true,
		Recipients:     []string{"alerts@meridianfcu.org"},
		FromAddr:       "am-prod@meridianfcu.org",
	}
}

var testTemplate = template.Must(template.New("alert").Parse(
	`<p>{{.RunID}} {{.RunLabel}}</p>{{range .Fails}}<span>{{.AcctNbr}}</span>{{end}}`))

func testContext(t *testing.T, dbh *fakeDB) *ScriptContext {
	t.Helper()
	return &ScriptContext{
		Params:   testParams(t),
		DB:       dbh,
		Template: testTemplate,
		Mailer:   &fakeMailer{},
		Logger:   slog.Default(),
		RunID:    uuid.New(),
		LocalEnv: false,
	}
}
