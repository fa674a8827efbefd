package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_StartsInMainMenu(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Empty(t, u.LastBarcode)
}

func TestUser_SetState(t *testing.T) {
	u := NewUser(1, 10)
	u.SetState(StateAwaitingPhoto)
	require.Equal(t, StateAwaitingPhoto, u.State)
	u.SetState(StateProcessing)
	require.Equal(t, StateProcessing, u.State)
}
