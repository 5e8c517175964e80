package cache

import "strings"

const (
	GlobalKeyPrefix = "quizlink"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// Well-known keys for singleton values.
var (
	// KeyQuizID holds the current quiz identifier, rotated when the
	// question set is cleared.
	KeyQuizID = GenerateCacheKey("authoring", "quiz", "current")

	// KeyShareLink caches the generated share link for a quiz ID.
	KeyShareLink = func(quizID string) string {
		return GenerateCacheKey("authoring", "sharelink", quizID)
	}

	// KeyPassphraseHash holds the bcrypt hash gating result export.
	KeyPassphraseHash = GenerateCacheKey("auth", "passphrase", "hash")

	// KeyTheme holds the teacher's saved theme preference.
	KeyTheme = GenerateCacheKey("preferences", "theme", "current")
)
