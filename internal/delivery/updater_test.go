package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persBucket() []EntityRecord {
	return sampleRecords()[:2]
}

func TestUpdateDeliveryUserfieldSuccess(t *testing.T) {
	dbh := &fakeDB{results: []*fakeBatchResults{{tags: okTags(2)}}}
	sc := testContext(t, dbh)

	successes, fails, err := UpdateDeliveryUserfield(context.Background(), sc, persBucket(), PersonUserfieldTable, PersonKeyColumn)
	require.NoError(t, err)

	assert.Len(t, successes, 2)
	assert.Empty(t, fails)
	require.Len(t, dbh.batches, 1)
	assert.Equal(t, 2, dbh.batches[0].Len())
	for _, o := range successes {
		assert.Equal(t, ResultSuccess, o.Result)
	}
}

func TestUpdateDeliveryUserfieldBatchError(t *testing.T) {
	dbh := &fakeDB{results: []*fakeBatchResults{{
		tags: []pgconn.CommandTag{{}, pgconn.NewCommandTag("UPDATE 1")},
		errs: []error{errors.New("ORA-01407 analog: cannot update"), nil},
	}}}
	sc := testContext(t, dbh)
	bucket := persBucket()

	successes, fails, err := UpdateDeliveryUserfield(context.Background(), sc, bucket, PersonUserfieldTable, PersonKeyColumn)
	require.NoError(t, err)

	require.Len(t, fails, 1)
	assert.Equal(t, bucket[0].EntityNbr, fails[0].EntityNbr)
	assert.Equal(t, ResultFail, fails[0].Result)
	assert.Contains(t, fails[0].ErrMsg, "cannot update")
	require.Len(t, successes, 1)
	assert.Equal(t, bucket[1].EntityNbr, successes[0].EntityNbr)
}

func TestUpdateDeliveryUserfieldUnconfirmedRowIsFail(t *testing.T) {
	// The database reported fewer affected rows than submitted; the
	// unaccounted row must not be silently dropped.
	dbh := &fakeDB{results: []*fakeBatchResults{{
		tags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1"), pgconn.NewCommandTag("UPDATE 0")},
	}}}
	sc := testContext(t, dbh)
	bucket := persBucket()

	successes, fails, err := UpdateDeliveryUserfield(context.Background(), sc, bucket, PersonUserfieldTable, PersonKeyColumn)
	require.NoError(t, err)

	require.Len(t, successes, 1)
	require.Len(t, fails, 1)
	assert.Equal(t, bucket[1].EntityNbr, fails[0].EntityNbr)
	assert.Equal(t, "no row updated", fails[0].ErrMsg)
}

func TestUpdateDeliveryUserfieldEmptyBucket(t *testing.T) {
	dbh := &fakeDB{}
	sc := testContext(t, dbh)

	successes, fails, err := UpdateDeliveryUserfield(context.Background(), sc, nil, OrgUserfieldTable, OrgKeyColumn)
	require.NoError(t, err)

	assert.Empty(t, successes)
	assert.Empty(t, fails)
	assert.Empty(t, dbh.batches)
}

func TestUpdateDeliveryUserfieldPartitionsInput(t *testing.T) {
	dbh := &fakeDB{results: []*fakeBatchResults{{
		tags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1"), {}, pgconn.NewCommandTag("UPDATE 1"), pgconn.NewCommandTag("UPDATE 0")},
		errs: []error{nil, errors.New("constraint violation"), nil, nil},
	}}}
	sc := testContext(t, dbh)
	bucket := sampleRecords()

	successes, fails, err := UpdateDeliveryUserfield(context.Background(), sc, bucket, OrgUserfieldTable, OrgKeyColumn)
	require.NoError(t, err)

	seen := map[int64]int{}
	for _, o := range successes {
		seen[o.EntityNbr]++
	}
	for _, o := range fails {
		seen[o.EntityNbr]++
	}
	require.Len(t, seen, len(bucket))
	for _, rec := range bucket {
		assert.Equal(t, 1, seen[rec.EntityNbr], "entity %d must appear exactly once", rec.EntityNbr)
	}
}

func TestUpdateDeliveryUserfieldCloseError(t *testing.T) {
	dbh := &fakeDB{results: []*fakeBatchResults{{
		tags:     okTags(2),
		closeErr: errors.New("broken pipe"),
	}}}
	sc := testContext(t, dbh)

	_, _, err := UpdateDeliveryUserfield(context.Background(), sc, persBucket(), PersonUserfieldTable, PersonKeyColumn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql error")
}
