package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motor.report/internal/motor"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "motor_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecord(ts time.Time) motor.Record {
	return motor.Record{
		Time: ts,
		Ax:   0.1, Ay: 0.2, Az: 9.8,
		Temp: 35.5,
		Ia:   1.2, Ib: -0.6, Ic: -0.6,
		RawID: 1.1, RawIQ: 0.02,
		FilteredID:     1.05,
		FilteredIQ:     0.01,
		Score:          0.03,
		Classification: motor.ClassGood,
		Warnings: []motor.Warning{
			{Message: "temperature above threshold", Since: ts},
		},
		Fallback: false,
		Overflow: true,
	}
}

func TestRecordCycleRoundTrip(t *testing.T) {
	db := testDB(t)
	ts := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.RecordCycle(testRecord(ts)))

	records, err := db.RecentRecords(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 0.03, rec.Score)
	assert.Equal(t, motor.ClassGood, rec.Classification)
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, "temperature above threshold", rec.Warnings[0].Message)
	assert.True(t, rec.Overflow)
	assert.False(t, rec.Fallback)
	assert.Equal(t, 1.05, rec.FilteredID)
	assert.Equal(t, 0.01, rec.FilteredIQ)
}

func TestRecentRecordsNewestFirst(t *testing.T) {
	db := testDB(t)
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		rec := testRecord(base.Add(time.Duration(i) * time.Second))
		rec.Score = float64(i)
		require.NoError(t, db.RecordCycle(rec))
	}

	records, err := db.RecentRecords(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2.0, records[0].Score)
	assert.Equal(t, 1.0, records[1].Score)
}

func TestRecordsSince(t *testing.T) {
	db := testDB(t)
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		rec := testRecord(base.Add(time.Duration(i) * time.Minute))
		rec.Score = float64(i)
		require.NoError(t, db.RecordCycle(rec))
	}

	records, err := db.RecordsSince(base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1.0, records[0].Score)
	assert.Equal(t, 2.0, records[1].Score)
}

func TestRecordCycleNoWarnings(t *testing.T) {
	db := testDB(t)
	rec := testRecord(time.Now().UTC())
	rec.Warnings = nil

	require.NoError(t, db.RecordCycle(rec))

	records, err := db.RecentRecords(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Warnings)
}
