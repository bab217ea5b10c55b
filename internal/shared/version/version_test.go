package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := Version
	Version = v
	t.Cleanup(func() { Version = old })
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		version     string
		wantCurrent string
		wantRelease bool
	}{
		{version: "dev", wantCurrent: "dev"},
		{version: "1.2", wantCurrent: "v1.2.0", wantRelease: true},
		{version: "v2.0.0-rc.1", wantCurrent: "v2.0.0-rc.1"},
		{version: "v1.4.0+build.7", wantCurrent: "v1.4.0", wantRelease: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			withVersion(t, tt.version)
			assert.Equal(t, tt.wantCurrent, Current())
			assert.Equal(t, tt.wantRelease, IsRelease())
		})
	}
}

func TestString(t *testing.T) {
	withVersion(t, "dev")
	assert.Contains(t, String(), "dev (")
}
