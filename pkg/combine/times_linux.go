//go:build linux

package combine

import (
	"os"
	"syscall"
	"time"
)

// createdTime uses the inode change time; linux exposes no portable birth time.
func createdTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Ctim.Unix())
}
