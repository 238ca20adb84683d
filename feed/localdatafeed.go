package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stockharvest/stockharvest/model"
)

type localDataFeed struct {
	dataDir string
}

// NewLocalDataFeed builds a feed that replays recorded Alpha Vantage payloads
// from <DataDir>/<symbol>.json. Useful for offline runs and debugging.
func NewLocalDataFeed(cfg ClientConfig) Provider {
	return &localDataFeed{dataDir: cfg.DataDir}
}

func (s *localDataFeed) FetchHistory(_ context.Context, symbol, _ string) (*model.Frame, error) {
	fileName := filepath.Join(s.dataDir, symbol+".json")
	jsonData, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	return parseAlphaVantage(jsonData)
}
