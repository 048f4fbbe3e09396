package commands

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandlivre-dev/grandlivre/internal/fx"
	"github.com/grandlivre-dev/grandlivre/internal/model"
)

// newTestEnv initializes a book in a temp directory and loads the command
// environment the way the CLI does.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(context.Background(), dir, "co1", "Ets Kivu Trading", "CDF"))

	e, err := loadEnv(filepath.Join(dir, "grandlivre.yaml"))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func conversionParams(journalID string) fx.ConversionParams {
	return fx.ConversionParams{
		CompanyID:    "co1",
		JournalID:    journalID,
		Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Ref:          "convert 100 USD to CDF",
		FromCurrency: "USD",
		ToCurrency:   "CDF",
		FromAccount:  "521100",
		ToAccount:    "521000",
		FromAmount:   decimal.NewFromInt(100),
	}
}

func TestRunConvert_PostsMoveAndRecord(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.SaveRate(ctx, &model.ExchangeRate{
		CompanyID:     "co1",
		FromCurrency:  "USD",
		ToCurrency:    "CDF",
		Rate:          decimal.NewFromInt(2000),
		DateEffective: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	posted, record, err := runConvert(ctx, e, conversionParams("OD"))
	require.NoError(t, err)
	assert.Equal(t, "OD/2025/0001", posted.Number)
	assert.Equal(t, model.StatePosted, posted.State)

	convs, err := e.store.ListConversions(ctx, "co1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, record.ID, convs[0].ID)
	assert.Equal(t, posted.ID, convs[0].MoveID)
	assert.Equal(t, "200000", convs[0].ToAmount.String())
}

func TestRunConvert_FailedPostKeepsRecord(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.SaveRate(ctx, &model.ExchangeRate{
		CompanyID:     "co1",
		FromCurrency:  "USD",
		ToCurrency:    "CDF",
		Rate:          decimal.NewFromInt(2000),
		DateEffective: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	// Unknown journal: the draft is created but posting fails. The record
	// must already be saved, pointing at the draft.
	_, record, err := runConvert(ctx, e, conversionParams("nope"))
	require.Error(t, err)
	require.NotNil(t, record)

	convs, err := e.store.ListConversions(ctx, "co1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, record.ID, convs[0].ID)

	draft, err := e.store.GetMove(ctx, "co1", convs[0].MoveID)
	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, draft.State)
}
