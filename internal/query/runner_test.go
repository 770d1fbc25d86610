package query

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaxonF/supawatch/internal/testutil"
)

func TestSQLRunner_Run(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "ada").
			AddRow(2, nil),
	)

	r := NewSQLRunner(db, testutil.NewTestLogger(t))
	result, err := r.Run(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "1", result.Rows[0]["id"])
	assert.Equal(t, "ada", result.Rows[0]["name"])
	assert.Equal(t, "", result.Rows[1]["name"], "NULL stringifies to empty")
	assert.False(t, result.Truncated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRunner_Run_Truncates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"n"})
	for i := 0; i < 5; i++ {
		rows.AddRow(i)
	}
	mock.ExpectQuery("SELECT n FROM seq").WillReturnRows(rows)

	r := NewSQLRunner(db, nil, WithMaxRows(3))
	result, err := r.Run(context.Background(), "SELECT n FROM seq")
	require.NoError(t, err)

	assert.Len(t, result.Rows, 3)
	assert.True(t, result.Truncated)
}

func TestSQLRunner_Run_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT broken").WillReturnError(assert.AnError)

	r := NewSQLRunner(db, nil)
	_, err = r.Run(context.Background(), "SELECT broken")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "bytes", FormatValue([]byte("bytes")))
	assert.Equal(t, "text", FormatValue("text"))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, ts.Format(time.RFC3339), FormatValue(ts))
}
