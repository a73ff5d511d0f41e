package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashChatID(t *testing.T) {
	t.Run("produces consistent hash for same chat ID", func(t *testing.T) {
		require.Equal(t, HashChatID(12345), HashChatID(12345))
	})

	t.Run("produces different hashes for different chat IDs", func(t *testing.T) {
		require.NotEqual(t, HashChatID(12345), HashChatID(67890))
	})

	t.Run("produces 8 character hash", func(t *testing.T) {
		require.Len(t, HashChatID(12345), 8)
	})

	t.Run("changes hash when salt changes", func(t *testing.T) {
		originalSalt := hashSalt
		defer func() { hashSalt = originalSalt }()

		hash1 := HashChatID(12345)

		hashSalt = "different-salt"
		hash2 := HashChatID(12345)

		require.NotEqual(t, hash1, hash2)
	})
}

func TestHashOwnerID(t *testing.T) {
	t.Run("produces consistent hash for same owner", func(t *testing.T) {
		require.Equal(t, HashOwnerID("uid-abc"), HashOwnerID("uid-abc"))
	})

	t.Run("produces different hashes for different owners", func(t *testing.T) {
		require.NotEqual(t, HashOwnerID("uid-abc"), HashOwnerID("uid-def"))
	})

	t.Run("marks unlinked chats", func(t *testing.T) {
		require.Equal(t, "<unlinked>", HashOwnerID(""))
	})

	t.Run("does not expose the raw ID", func(t *testing.T) {
		require.NotContains(t, HashOwnerID("uid-abc"), "uid-abc")
	})
}

func TestSanitizeText(t *testing.T) {
	t.Run("redacts empty text", func(t *testing.T) {
		require.Equal(t, "<empty>", SanitizeText(""))
	})

	t.Run("shows word and character count", func(t *testing.T) {
		result := SanitizeText("5000 super coto")
		require.Contains(t, result, "3 words")
		require.Contains(t, result, "15 chars")
	})

	t.Run("does not leak content", func(t *testing.T) {
		result := SanitizeText("/vincular uid-super-secreto")
		require.NotContains(t, result, "uid-super-secreto")
	})
}
