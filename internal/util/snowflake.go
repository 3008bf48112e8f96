package util

import (
	"fmt"
	"strconv"
)

// ParseSnowflake parses a Discord snowflake ID string into its int64 form.
func ParseSnowflake(s string) (int64, error) {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse Snowflake ID string: %w", err)
	}
	return val, nil
}

// MustParseSnowflake parses a snowflake ID string, panicking on malformed input.
// Only for IDs that came from the gateway and are known to be well-formed.
func MustParseSnowflake(s string) int64 {
	val, err := ParseSnowflake(s)
	if err != nil {
		panic(err)
	}
	return val
}

func FormatSnowflake(s int64) string {
	return strconv.FormatInt(s, 10)
}
