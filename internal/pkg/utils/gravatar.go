package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GetGravatarURL returns the avatar URL for an email address. The "mp"
// fallback gives athletes without a Gravatar a neutral silhouette.
func GetGravatarURL(email string, size int) string {
	if size <= 0 {
		size = 160
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
