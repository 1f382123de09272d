package postgresqltest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/repository/postgresql"
)

func setupInsightTestData(t *testing.T) {
	ctx := context.Background()
	tx, err := testDB.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "TRUNCATE TABLE ai_insights CASCADE")
	require.NoError(t, err)

	_, err = tx.Exec(ctx, "TRUNCATE TABLE users CASCADE")
	require.NoError(t, err)

	_, err = tx.Exec(ctx, "TRUNCATE TABLE companies CASCADE")
	require.NoError(t, err)

	err = tx.Commit(ctx)
	require.NoError(t, err)
}

func TestInsightRepository_RoundTrip(t *testing.T) {
	setupInsightTestData(t)
	defer setupInsightTestData(t)

	ctx := context.Background()
	companyID := createTestCompany(t, ctx)
	repo := postgresql.NewInsightRepository(testDB)

	recommendations := []string{
		"Review vendor contracts",
		"Freeze discretionary spending",
		"Re-run the analysis next month",
	}
	payload := insight.Payload{
		"revenue_change_pct":   -25.5,
		"expense_change_pct":   12.0,
		"top_expense_category": "Software",
		"identified_risks":     []any{"Revenue decline", "Overdue invoices"},
	}

	created, err := repo.Create(ctx, insight.Insight{
		CompanyID:       companyID,
		Type:            insight.TypeFinancial,
		Title:           "Revenue Decline Alert",
		Description:     "Revenue dropped 25.5% compared to last month.",
		Severity:        insight.SeverityHigh,
		Recommendations: recommendations,
		Data:            payload,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// Recommendation order and the jsonb payload survive unchanged.
	assert.Equal(t, recommendations, fetched.Recommendations)
	assert.Equal(t, -25.5, fetched.Data["revenue_change_pct"])
	assert.Equal(t, "Software", fetched.Data["top_expense_category"])
	assert.Equal(t, []any{"Revenue decline", "Overdue invoices"}, fetched.Data["identified_risks"])
	assert.Equal(t, insight.TypeFinancial, fetched.Type)
	assert.Equal(t, insight.SeverityHigh, fetched.Severity)
	assert.Nil(t, fetched.UserID)

	listed, total, err := repo.List(ctx, companyID, insight.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, recommendations, listed[0].Recommendations)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestInsightRepository_ListFiltersByUser(t *testing.T) {
	setupInsightTestData(t)
	defer setupInsightTestData(t)

	ctx := context.Background()
	companyID := createTestCompany(t, ctx)
	subject := createTestUser(t, ctx, companyID)
	repo := postgresql.NewInsightRepository(testDB)

	_, err := repo.Create(ctx, insight.Insight{
		CompanyID:   companyID,
		UserID:      &subject.ID,
		Type:        insight.TypeAttendance,
		Title:       "Attendance Pattern Analysis",
		Description: "Attendance rate is within the expected range.",
		Severity:    insight.SeverityLow,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, insight.Insight{
		CompanyID:   companyID,
		Type:        insight.TypeRisk,
		Title:       "Business Risk Assessment",
		Description: "No elevated risk indicators were found.",
		Severity:    insight.SeverityLow,
	})
	require.NoError(t, err)

	// A user filter excludes company-wide insights.
	scoped, total, err := repo.List(ctx, companyID, insight.Filter{UserID: &subject.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, scoped, 1)
	require.NotNil(t, scoped[0].UserID)
	assert.Equal(t, subject.ID, *scoped[0].UserID)

	all, total, err := repo.List(ctx, companyID, insight.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestInsightRepository_DeleteMissing(t *testing.T) {
	setupInsightTestData(t)
	defer setupInsightTestData(t)

	ctx := context.Background()
	repo := postgresql.NewInsightRepository(testDB)

	err := repo.Delete(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, insight.ErrInsightNotFound)
}
