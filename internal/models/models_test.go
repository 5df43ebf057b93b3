package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRecord_Hospitals(t *testing.T) {
	r := SearchRecord{ID: 1, HospitalData: `[{"title":"A"},{"title":"B"}]`}
	items, err := r.Hospitals()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.JSONEq(t, `{"title":"A"}`, string(items[0]))
}

func TestSearchRecord_HospitalsRejectsNonJSON(t *testing.T) {
	tests := []string{
		`[{'title': 'A'}]`,
		`__import__('os')`,
		`[{"title":"A"}] [1]`,
		``,
	}
	for _, data := range tests {
		_, err := SearchRecord{ID: 7, HospitalData: data}.Hospitals()
		assert.Error(t, err, data)
	}
}

func TestSearchRecord_HospitalsNullIsEmpty(t *testing.T) {
	items, err := SearchRecord{HospitalData: "null"}.Hospitals()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
