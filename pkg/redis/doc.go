// Package redis opens the optional Redis connection plexis uses to share
// installed-state cache entries between processes.
package redis
