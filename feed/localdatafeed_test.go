package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDataFeedReplaysRecordedPayload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IBM.json"), []byte(avDailyFixture), 0o644))

	p := NewLocalDataFeed(ClientConfig{DataDir: dir})
	frame, err := p.FetchHistory(context.Background(), "IBM", "1y")
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Rows())
}

func TestLocalDataFeedMissingFile(t *testing.T) {
	p := NewLocalDataFeed(ClientConfig{DataDir: t.TempDir()})
	_, err := p.FetchHistory(context.Background(), "GHOST", "1y")
	assert.Error(t, err)
}

func TestNewProviderRegistry(t *testing.T) {
	p, err := NewProvider(DataFeedProviderYahoo, ClientConfig{})
	require.NoError(t, err)
	assert.NotNil(t, p)

	p, err = NewProvider(DataFeedProviderLocal, ClientConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProvider(DataFeedProviderAlphaVantage, ClientConfig{})
	assert.Error(t, err) // no API key

	_, err = NewProvider("bloomberg", ClientConfig{})
	assert.ErrorContains(t, err, "unsupported data feed provider")
}
