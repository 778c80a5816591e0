package resolver_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/sqldirective/resolver"
)

func TestFileSystemResolver_ResolvesExistingScript(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sql": {Data: []byte("SELECT 1;")},
	}
	r := resolver.FileSystemResolver{Root: fsys}

	src, err := r.Resolve("a.sql")
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, "SELECT 1;", src.Source)
	assert.Equal(t, "a.sql", src.DisplayName)
}

func TestFileSystemResolver_MissingScriptReturnsNilNotError(t *testing.T) {
	r := resolver.FileSystemResolver{Root: fstest.MapFS{}}
	src, err := r.Resolve("missing.sql")
	require.NoError(t, err)
	assert.Nil(t, src)
}

func TestFindScripts_FiltersToSQLExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sql":     {Data: []byte("SELECT 1;")},
		"b.txt":     {Data: []byte("not sql")},
		"sub/c.sql": {Data: []byte("SELECT 2;")},
	}
	paths, err := resolver.FindScripts(fsys)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.sql", "sub/c.sql"}, paths)
}

func TestDetectTerminator_FindsOverride(t *testing.T) {
	assert.Equal(t, "GO", resolver.DetectTerminator("-- #Terminator: GO\nSELECT 1;"))
}

func TestDetectTerminator_DefaultsToEmptyWhenAbsent(t *testing.T) {
	assert.Equal(t, "", resolver.DetectTerminator("SELECT 1;"))
}

func TestDetectTerminator_StripsQuotes(t *testing.T) {
	assert.Equal(t, "GO", resolver.DetectTerminator(`-- #Terminator: "GO"`+"\n"))
}
