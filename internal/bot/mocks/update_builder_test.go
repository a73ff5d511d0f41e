package mocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder_WithMessage(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().WithMessage(123, "5000 super coto").Build()
	require.NotNil(t, update.Message)
	require.Equal(t, int64(123), update.Message.Chat.ID)
	require.Equal(t, "5000 super coto", update.Message.Text)
	require.Nil(t, update.CallbackQuery)
}

func TestUpdateBuilder_WithMessageID(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().WithMessage(123, "hola").WithMessageID(42).Build()
	require.Equal(t, 42, update.Message.ID)

	// Without a message there is nothing to set the ID on.
	update = NewUpdateBuilder().WithMessageID(42).Build()
	require.Nil(t, update.Message)
}

func TestUpdateBuilder_WithCallbackQuery(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().WithCallbackQuery("cb-1", 123, 1000, "tx_confirm").Build()
	require.NotNil(t, update.CallbackQuery)
	require.Equal(t, "cb-1", update.CallbackQuery.ID)
	require.Equal(t, "tx_confirm", update.CallbackQuery.Data)
	require.NotNil(t, update.CallbackQuery.Message.Message)
	require.Equal(t, int64(123), update.CallbackQuery.Message.Message.Chat.ID)
	require.Equal(t, 1000, update.CallbackQuery.Message.Message.ID)
}
