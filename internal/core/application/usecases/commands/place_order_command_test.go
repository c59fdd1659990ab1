package commands_test

import (
	"testing"

	"foodorder/internal/core/application/usecases/commands"
	"foodorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand_Valid(t *testing.T) {
	cmd, err := commands.NewPlaceOrderCommand("key-1", 1, 2, "42 Main St")
	require.NoError(t, err)
	assert.Equal(t, "key-1", cmd.IdempotencyKey())
	assert.Equal(t, int64(1), cmd.UserID())
	assert.Equal(t, int64(2), cmd.RestaurantID())
	assert.Equal(t, "42 Main St", cmd.DeliveryAddress())
	assert.NoError(t, cmd.Validate())
}

func TestNewPlaceOrderCommand_Invalid(t *testing.T) {
	tests := []struct {
		name            string
		idempotencyKey  string
		userID          int64
		restaurantID    int64
		deliveryAddress string
	}{
		{"empty idempotency key", "", 1, 2, "42 Main St"},
		{"zero user id", "key-1", 0, 2, "42 Main St"},
		{"negative user id", "key-1", -1, 2, "42 Main St"},
		{"zero restaurant id", "key-1", 1, 0, "42 Main St"},
		{"empty address", "key-1", 1, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewPlaceOrderCommand(tt.idempotencyKey, tt.userID, tt.restaurantID, tt.deliveryAddress)
			require.ErrorIs(t, err, errs.ErrValueIsRequired)
		})
	}
}

func TestPlaceOrderCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.PlaceOrderCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
}
