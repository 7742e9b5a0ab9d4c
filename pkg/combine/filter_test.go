package combine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterConfigRejectsOverlap(t *testing.T) {
	_, err := NewFilterConfig([]string{"go", ".PY", "txt"}, []string{"py", "Go"}, 0, false)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "include/exclude", cfgErr.Field)
	assert.Contains(t, cfgErr.Reason, "go,py")
}

func TestFilterExtensions(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		ext     string
		want    bool
		reason  Reason
	}{
		{name: "no rules", ext: "go", want: true, reason: ReasonAccepted},
		{name: "included", include: []string{"go"}, ext: "go", want: true, reason: ReasonAccepted},
		{name: "not included", include: []string{"go"}, ext: "py", want: false, reason: ReasonNotIncl},
		{name: "case insensitive", include: []string{".GO"}, ext: "Go", want: true, reason: ReasonAccepted},
		{name: "excluded", exclude: []string{"log"}, ext: "log", want: false, reason: ReasonExcluded},
		{name: "no extension with include", include: []string{"go"}, ext: "", want: false, reason: ReasonNotIncl},
		{name: "blank entries ignored", include: []string{" ", ""}, ext: "md", want: true, reason: ReasonAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := mustFilter(t, tt.include, tt.exclude, 0, false)
			ok, why := fc.AcceptExtension(tt.ext)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, why)
		})
	}
}

func TestFilterSizeBoundary(t *testing.T) {
	fc := mustFilter(t, nil, nil, 1024, false)

	ok, _ := fc.AcceptSize(1024)
	assert.True(t, ok, "a file of exactly the limit is kept")

	ok, why := fc.AcceptSize(1025)
	assert.False(t, ok)
	assert.Equal(t, ReasonTooLarge, why)

	unlimited := mustFilter(t, nil, nil, 0, false)
	ok, _ = unlimited.AcceptSize(1 << 40)
	assert.True(t, ok)
	assert.Zero(t, unlimited.MaxSize())
}

func TestFilterDecidePrecedence(t *testing.T) {
	fc := mustFilter(t, []string{"txt"}, nil, 10, false)

	ok, why := fc.Decide(FileTask{Ext: "bin"}, 100, true)
	assert.False(t, ok)
	assert.Equal(t, ReasonNotIncl, why, "extension is checked before size and content")

	ok, why = fc.Decide(FileTask{Ext: "txt"}, 100, true)
	assert.False(t, ok)
	assert.Equal(t, ReasonTooLarge, why, "size is checked before content")

	ok, why = fc.Decide(FileTask{Ext: "txt"}, 5, true)
	assert.False(t, ok)
	assert.Equal(t, ReasonBinary, why)

	assert.True(t, fc.Accept(FileTask{Ext: "txt"}, 5, false))
}

func TestFilterIncludeBinary(t *testing.T) {
	fc := mustFilter(t, nil, nil, 0, true)
	assert.True(t, fc.IncludeBinary())
	assert.True(t, fc.Accept(FileTask{Ext: "png"}, 10, true))
}

func TestSplitListAndKBToBytes(t *testing.T) {
	assert.Equal(t, []string{"go", "py", "md"}, SplitList("go, py", "", " md ,"))
	assert.Nil(t, SplitList())

	assert.Equal(t, int64(2048), KBToBytes(2))
	assert.Zero(t, KBToBytes(0))
	assert.Zero(t, KBToBytes(-3))
}
