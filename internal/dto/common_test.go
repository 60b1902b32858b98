package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PATCH различает три состояния поля: отсутствует, явный null, значение.
func TestUpdateEquipmentDTO_TriState(t *testing.T) {
	var absent UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Quantity.Set)
	assert.False(t, absent.ParentID.Set)

	var explicitNull UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": null, "parent_id": null}`), &explicitNull))
	assert.True(t, explicitNull.Quantity.Set)
	assert.False(t, explicitNull.Quantity.Value.Valid)
	assert.True(t, explicitNull.ParentID.Set)
	assert.False(t, explicitNull.ParentID.Value.Valid)

	var withValue UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 7, "parent_id": 3, "name": "Ноутбук"}`), &withValue))
	assert.True(t, withValue.Quantity.Set)
	assert.Equal(t, int64(7), withValue.Quantity.Value.Int64)
	assert.Equal(t, uint64(3), withValue.ParentID.Value.Uint64)
	assert.Equal(t, "Ноутбук", withValue.Name.Value.String)
}

func TestUpdateEquipmentDTO_LinkSets(t *testing.T) {
	var absent UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.Nil(t, absent.UserIDs, "отсутствующее поле не должно трогать связи")

	// Пустой список — явная очистка связей, не то же самое, что отсутствие поля.
	var empty UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{"user_ids": []}`), &empty))
	require.NotNil(t, empty.UserIDs)
	assert.Empty(t, *empty.UserIDs)

	var filled UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{"user_ids": [1, 2], "company_ids": [9]}`), &filled))
	require.NotNil(t, filled.UserIDs)
	assert.Equal(t, []uint64{1, 2}, *filled.UserIDs)
	assert.Equal(t, []uint64{9}, *filled.CompanyIDs)
}
