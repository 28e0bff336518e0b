package store

import (
	"strconv"
	"strings"
	"time"
)

// Sheet names match the tabs of the production spreadsheet.
const (
	TableUsers    = "Users"
	TableStock    = "Stock"
	TableOrders   = "Order"
	TableItems    = "Master Item"
	TableShopping = "Shopping List"
)

// Spreadsheet cells are untyped text; these helpers apply the lenient
// parsing the data has always been read with (blank or malformed
// numbers count as zero).

func fieldInt(fields map[string]string, key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(fields[key]))
	if err != nil {
		return 0
	}
	return value
}

func fieldInt64(fields map[string]string, key string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(fields[key]), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func fieldTime(fields map[string]string, key string) time.Time {
	value, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[key]))
	if err != nil {
		return time.Time{}
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
