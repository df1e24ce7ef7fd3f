// Package utils provides small, generic helper functions shared by the HTTP
// handlers, independent of fleet domain logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi. If the string
// is empty or cannot be parsed as an integer, it returns the provided default
// value instead. Handlers use it for optional query parameters such as the
// ?limit= on the notification feed and the audit log:
//
//	limit := utils.AtoiDefault(c.Query("limit"), 50)
//	year := utils.AtoiDefault("2026", 0) // returns 2026
//	year = utils.AtoiDefault("x", 5)     // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
