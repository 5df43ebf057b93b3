package history

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-locator/internal/models"
	"hospital-locator/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, ":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(context.Background(), db, storage.DriverSQLite))
	t.Cleanup(func() { _ = storage.Close(db) })
	return db
}

func createAccount(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	account := models.Account{Username: name, Email: name + "@x.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(&account).Error)
	return account.ID
}

func items(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(raw))
	for _, r := range raw {
		out = append(out, json.RawMessage(r))
	}
	return out
}

func TestRecordSearch_StoresResultsVerbatim(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	alice := createAccount(t, db, "alice")

	results := items(`{"title":"General","distance":120}`, `{"title":"St. Mary","position":{"lat":40.71,"lng":-74.01}}`)
	record, err := store.RecordSearch(ctx, alice, 40.7, -74.0, results)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)

	list, err := store.ListSearches(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 40.7, list[0].Latitude)
	assert.Equal(t, -74.0, list[0].Longitude)

	hospitals, err := list[0].Hospitals()
	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.JSONEq(t, `{"title":"General","distance":120}`, string(hospitals[0]))
	assert.JSONEq(t, `{"title":"St. Mary","position":{"lat":40.71,"lng":-74.01}}`, string(hospitals[1]))
}

func TestRecordSearch_NilResultsStoredAsEmptyList(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := createAccount(t, db, "alice")

	record, err := store.RecordSearch(context.Background(), alice, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", record.HospitalData)

	hospitals, err := record.Hospitals()
	require.NoError(t, err)
	assert.Empty(t, hospitals)
	assert.NotNil(t, hospitals)
}

func TestRecordSearch_UnknownAccount(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.RecordSearch(context.Background(), 42, 1, 2, items(`{}`))
	require.Error(t, err)
}

func TestListSearches_OwnerOnlyNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()
	alice := createAccount(t, db, "alice")
	bob := createAccount(t, db, "bob")

	const n = 3
	for i := 0; i < n; i++ {
		_, err := store.RecordSearch(ctx, alice, float64(i), float64(i), items(`{"n":1}`))
		require.NoError(t, err)
	}
	_, err := store.RecordSearch(ctx, bob, 9, 9, items(`{"n":2}`))
	require.NoError(t, err)

	list, err := store.ListSearches(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, n)
	for _, r := range list {
		assert.Equal(t, alice, r.AccountID)
	}
	assert.Equal(t, float64(n-1), list[0].Latitude)
	assert.Equal(t, float64(0), list[n-1].Latitude)

	list, err = store.ListSearches(ctx, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob, list[0].AccountID)
}

func TestListSearches_Empty(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := createAccount(t, db, "alice")

	list, err := store.ListSearches(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
