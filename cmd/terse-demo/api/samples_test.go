package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func TestSampleUsers(t *testing.T) {
	users := SampleUsers(10)
	require.Len(t, users, 10)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, "Ada", users[0].FirstName)
	assert.Equal(t, "Ada.Lovelace1@example.com", users[0].EmailAddress)
	assert.Equal(t, "Turing", users[8].LastName)

	// Deterministic.
	assert.Equal(t, users, SampleUsers(10))
}

func TestSampleUsers_KeyOrder(t *testing.T) {
	v, err := tree.FromAny(SampleUsers(1))
	require.NoError(t, err)
	first, ok := v.Index(0)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "firstName", "lastName", "emailAddress", "isActive", "address"}, first.Keys())
}

func TestSampleOrders(t *testing.T) {
	orders := SampleOrders(4)
	require.Len(t, orders, 4)

	assert.Equal(t, "ORD-000001", orders[0].OrderNumber)
	assert.Len(t, orders[0].LineItems, 1)
	assert.Len(t, orders[2].LineItems, 3)
	assert.Equal(t, "2026-01-01T10:00:00Z", orders[1].CreatedAt)

	// 1 x 4.99
	assert.Equal(t, "4.99", orders[0].TotalAmount)
}

func TestSampleSizeIsClamped(t *testing.T) {
	assert.Empty(t, SampleUsers(-3))
	assert.Len(t, SampleOrders(MaxSampleSize+50), MaxSampleSize)
}
