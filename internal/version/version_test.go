package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuild(t *testing.T, bi *debug.BuildInfo, ldVersion, ldCommit, ldDate string) {
	t.Helper()
	origRead := readBuildInfo
	origV, origC, origD := Version, Commit, Date
	t.Cleanup(func() {
		readBuildInfo = origRead
		Version, Commit, Date = origV, origC, origD
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	Version, Commit, Date = ldVersion, ldCommit, ldDate
}

func TestGetInfoDefaults(t *testing.T) {
	stubBuild(t, nil, "", "", "")

	info := GetInfo()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, "unknown", info.Date)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGetInfoFromBuildInfo(t *testing.T) {
	stubBuild(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, "", "", "")

	info := GetInfo()
	assert.Equal(t, "1.4.0", info.Version)
	assert.Equal(t, "0123456789abcdef", info.Commit)
	assert.True(t, info.Modified)
	assert.Contains(t, info.String(), "(01234567-dirty)")
}

func TestLdflagsWin(t *testing.T) {
	stubBuild(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	}, "2.0.0", "abc123", "2026-06-01")

	info := GetInfo()
	assert.Equal(t, "2.0.0", info.Short())
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "2026-06-01", info.Date)
}

func TestDevelBuildStaysDev(t *testing.T) {
	stubBuild(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "", "", "")
	assert.Equal(t, "dev", GetInfo().Version)
}

func TestUserAgent(t *testing.T) {
	info := Info{Version: "1.2.3", Platform: "linux/amd64"}
	assert.Equal(t, "evbook/1.2.3 (linux/amd64)", info.UserAgent())
}
