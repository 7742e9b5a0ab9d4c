// File: pkg/combine/helpers.go
package combine

import "strings"

// SplitList splits comma-separated flag values and drops blank entries.
// Repeated flags arrive as separate elements and are split as well.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

// KBToBytes converts a size limit in kilobytes (1024 bytes) to bytes.
func KBToBytes(kb int64) int64 {
	if kb <= 0 {
		return 0
	}
	return kb * 1024
}
