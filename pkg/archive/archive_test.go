package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordmine/pkg/report"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveRunAndTotals(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)

	first, err := a.SaveRun(ctx, "a.txt", &report.Report{
		New:   []report.Entry{{Word: "区块链", Freq: 5}, {Word: "元宇宙", Freq: 4}},
		Known: []report.Entry{{Word: "比特币", Freq: 2}},
	})
	require.NoError(t, err)
	_, err = ulid.Parse(first.ID)
	require.NoError(t, err)

	_, err = a.SaveRun(ctx, "b.txt", &report.Report{
		New:   []report.Entry{{Word: "区块链", Freq: 3}, {Word: "甲", Freq: 4}},
		Known: []report.Entry{{Word: "以太坊", Freq: 7}, {Word: "比特币", Freq: 1}},
	})
	require.NoError(t, err)

	totals, err := a.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.Entry{
		{Word: "区块链", Freq: 8},
		{Word: "元宇宙", Freq: 4},
		{Word: "甲", Freq: 4},
	}, totals.New)
	assert.Equal(t, []report.Entry{
		{Word: "以太坊", Freq: 7},
		{Word: "比特币", Freq: 3},
	}, totals.Known)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t)

	r1, err := a.SaveRun(ctx, "one.txt", &report.Report{New: []report.Entry{{Word: "甲乙", Freq: 1}}})
	require.NoError(t, err)
	r2, err := a.SaveRun(ctx, "two.txt", &report.Report{})
	require.NoError(t, err)

	runs, err := a.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, r1.ID, runs[0].ID)
	assert.Equal(t, "one.txt", runs[0].Source)
	assert.Equal(t, 1, runs[0].NewWords)
	assert.Equal(t, r2.ID, runs[1].ID)
	assert.Equal(t, 0, runs[1].NewWords)
	assert.Less(t, runs[0].ID, runs[1].ID)

	require.NoError(t, a.DeleteRun(ctx, r1.ID))
	assert.Error(t, a.DeleteRun(ctx, r1.ID))
	totals, err := a.Totals(ctx)
	require.NoError(t, err)
	assert.Empty(t, totals.New)
}

func TestReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	a, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = a.SaveRun(ctx, "x", &report.Report{New: []report.Entry{{Word: "词", Freq: 2}}})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(ctx, path)
	require.NoError(t, err)
	defer b.Close()
	runs, err := b.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
