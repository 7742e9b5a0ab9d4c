//go:build darwin

package combine

import (
	"os"
	"syscall"
	"time"
)

func createdTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
