//go:build !linux && !darwin

package combine

import (
	"os"
	"time"
)

func createdTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
