package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrule-labs/scantext/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "3", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "total due"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "receipt.png")
	assert.Equal(t, "total due", retriever.(*mockRetriever).query)
}

func TestSearchCmd_LimitFlagReachesService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "7", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 3
		searchCmd.Flags().Lookup("limit").Changed = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 7, retriever.(*mockRetriever).opts.Limit)
}

func TestSearchCmd_ConfigLimitUsedWithoutFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	appConfig.Search.Limit = 5
	appConfig.Search.Oversample = 8

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "query"})
	searchCmd.Flags().Lookup("limit").Changed = false
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 5, retriever.(*mockRetriever).opts.Limit)
	assert.Equal(t, 8, retriever.(*mockRetriever).opts.Oversample)
}

func TestSearchCmd_FlagOverridesConfigLimit(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	appConfig.Search.Limit = 5
	appConfig.Search.Oversample = 8

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "7", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 3
		searchCmd.Flags().Lookup("limit").Changed = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 7, retriever.(*mockRetriever).opts.Limit, "explicit flag wins over the config limit")
	assert.Equal(t, 8, retriever.(*mockRetriever).opts.Oversample, "config oversample still applies")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"DocumentID"`)
	assert.Contains(t, buf.String(), `"Score"`)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retriever = &mockRetriever{err: assert.AnError}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.SearchResult{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchJSON(rootCmd, []domain.SearchResult{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[]")
}

func TestSnippetText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"flattens whitespace", "a\n\n  b\tc", 80, "a b c"},
		{"short text unchanged", "hello", 80, "hello"},
		{"long text truncated", "abcdefghijklmnop", 10, "abcdefg..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, snippetText(tc.in, tc.max))
		})
	}
}
