package delivery

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successOutcomes(recs []EntityRecord) []Outcome {
	out := make([]Outcome, len(recs))
	for i, rec := range recs {
		out[i] = Outcome{EntityRecord: rec, Result: ResultSuccess}
	}
	return out
}

func failOutcomes(recs []EntityRecord) []Outcome {
	out := make([]Outcome, len(recs))
	for i, rec := range recs {
		out[i] = Outcome{EntityRecord: rec, Result: ResultFail, ErrMsg: "boom"}
	}
	return out
}

func readReport(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWriteReportFileSuccessesOnly(t *testing.T) {
	sc := testContext(t, &fakeDB{})
	successes := successOutcomes(sampleRecords()[:1])

	require.NoError(t, WriteReportFile(sc, successes, nil))

	lines := readReport(t, sc.Params.ReportPath())
	require.Len(t, lines, 2)
	assert.Equal(t, "ENTITY_NBR,ACCTNBR,ENTITY_TYPE,CLOSE_DATE,RESULT", lines[0])
	assert.Equal(t, "123456,ACC001,pers,2024-01-15,Success", lines[1])
}

func TestWriteReportFileBothCollections(t *testing.T) {
	type call struct {
		flag int
	}
	var calls []call
	orig := openReportFile
	openReportFile = func(path string, flag int) (io.WriteCloser, error) {
		calls = append(calls, call{flag: flag})
		return os.OpenFile(path, flag, 0o644)
	}
	defer func() { openReportFile = orig }()

	sc := testContext(t, &fakeDB{})
	recs := sampleRecords()
	successes := successOutcomes(recs[:3])
	fails := failOutcomes(recs[3:])

	require.NoError(t, WriteReportFile(sc, successes, fails))

	require.Len(t, calls, 2)
	assert.NotZero(t, calls[0].flag&os.O_TRUNC, "first call must truncate")
	assert.Zero(t, calls[0].flag&os.O_APPEND)
	assert.NotZero(t, calls[1].flag&os.O_APPEND, "second call must append")
	assert.Zero(t, calls[1].flag&os.O_TRUNC)

	lines := readReport(t, sc.Params.ReportPath())
	require.Len(t, lines, 5)
	assert.Equal(t, "ENTITY_NBR,ACCTNBR,ENTITY_TYPE,CLOSE_DATE,RESULT", lines[0])
	assert.Equal(t, "901234,ACC004,org,2024-01-15,Fail", lines[4])
}

func TestWriteReportFileFailsOnlyStillGetsHeader(t *testing.T) {
	sc := testContext(t, &fakeDB{})
	fails := failOutcomes(sampleRecords()[3:])

	require.NoError(t, WriteReportFile(sc, nil, fails))

	lines := readReport(t, sc.Params.ReportPath())
	require.Len(t, lines, 2)
	assert.Equal(t, "ENTITY_NBR,ACCTNBR,ENTITY_TYPE,CLOSE_DATE,RESULT", lines[0])
	assert.Equal(t, "901234,ACC004,org,2024-01-15,Fail", lines[1])
}

func TestWriteReportFileNothingToWrite(t *testing.T) {
	sc := testContext(t, &fakeDB{})

	require.NoError(t, WriteReportFile(sc, nil, nil))

	_, err := os.Stat(sc.Params.ReportPath())
	assert.True(t, os.IsNotExist(err), "no file may be created for an empty run")
}
