package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStore_WriteAndCount(t *testing.T) {
	store := setupTestStore(t)

	trail := NewTrail()
	trail.AttachSink(store)

	trail.Append("nurse_query_processed", "nursing_group", []string{"patient:PT_001"}, nil)
	trail.Append("billing_query_processed", "billing_department", []string{"ticket:BILL-2024-001"},
		[]SecurityEvent{NewEvent("prompt_injection_detected", "ignore all", "content_sanitized")})

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)

	trail := NewTrail()
	trail.AttachSink(store)
	entry := trail.Append("query_validated", "nursing_group", []string{"patient:PT_002"},
		[]SecurityEvent{NewEvent("query_injection_detected", "bypass security", "query_sanitized")})

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, entry.ID, record.ID)
	assert.Equal(t, entry.SessionID, record.SessionID)
	assert.Equal(t, "nursing_group", record.UserRole)

	var accessed []string
	require.NoError(t, json.Unmarshal([]byte(record.DataAccessed), &accessed))
	assert.Equal(t, []string{"patient:PT_002"}, accessed)

	var events []SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(record.SecurityEvents), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "bypass security", events[0].DetectedPattern)
}

func TestStore_ByRole(t *testing.T) {
	store := setupTestStore(t)

	trail := NewTrail()
	trail.AttachSink(store)
	trail.Append("a", "nursing_group", nil, nil)
	trail.Append("b", "billing_department", nil, nil)
	trail.Append("c", "nursing_group", nil, nil)

	records, err := store.ByRole("nursing_group")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "nursing_group", record.UserRole)
	}
}
