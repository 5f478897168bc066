// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis revoked-token cache keys.
const AuthCachePrefix = "auth:revoked:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 24 * time.Hour

// NotificationRoom is the connection-registry room live notification events
// are pushed into.
const NotificationRoom = "notifications"
