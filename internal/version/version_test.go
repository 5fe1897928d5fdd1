package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings_NonEmptyAndContainParts(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Revision)
	assert.NotEmpty(t, AppName)

	short := Short()
	assert.Contains(t, short, Version)
	assert.Contains(t, short, Revision)

	shortApp := ShortWithApp()
	assert.True(t, strings.HasPrefix(shortApp, AppName+" "))

	detailed := Detailed()
	assert.Contains(t, detailed, Version)
	assert.Contains(t, detailed, Revision)
	assert.Contains(t, detailed, "/") // GOOS/GOARCH part

	detailedApp := DetailedWithApp()
	assert.True(t, strings.HasPrefix(detailedApp, AppName+" "))
}

func TestDefaultVersion_MatchesHealthContract(t *testing.T) {
	// The health endpoint reports this verbatim; releases override via ldflags.
	assert.Equal(t, "1.0.0", Version)
}

func TestApplyBuildInfo_FillsRevisionAndDate(t *testing.T) {
	origVersion, origRevision, origBuildDate := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = origVersion, origRevision, origBuildDate
	})

	Version = "1.0.0"
	Revision = "HEAD"
	BuildDate = ""

	applyBuildInfo("v9.9.9", map[string]string{
		"vcs.revision": "abcdef1234567890",
		"vcs.modified": "true",
		"vcs.time":     "2025-12-12T01:00:00Z",
	})

	// A stamped version is never overridden by the module version.
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "abcdef1234567890-dirty", Revision)
	assert.Equal(t, "2025-12-12T01:00:00Z", BuildDate)
}

func TestApplyBuildInfo_UsesModuleVersionWhenUnset(t *testing.T) {
	origVersion, origRevision, origBuildDate := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = origVersion, origRevision, origBuildDate
	})

	Version = ""
	applyBuildInfo("v2.3.4", map[string]string{})
	assert.Equal(t, "2.3.4", Version)
}
