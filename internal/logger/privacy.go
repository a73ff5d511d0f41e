package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

func init() {
	// In production, set LOG_HASH_SALT.
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashChatID creates a privacy-preserving hash of a Telegram chat ID.
// This allows correlating a chat's actions in logs without exposing the ID.
func HashChatID(chatID int64) string {
	data := fmt.Sprintf("%d:%s", chatID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// HashOwnerID creates a privacy-preserving hash of a tracker account ID.
func HashOwnerID(ownerID string) string {
	if ownerID == "" {
		return "<unlinked>"
	}
	hash := sha256.Sum256([]byte(ownerID + ":" + hashSalt))
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText redacts user-provided text while keeping length information.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	words := strings.Fields(text)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(text))
}
