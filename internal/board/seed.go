// internal/board/seed.go
//
// Board seed loader.
//
// The initial tables come from a small YAML file (conf/board.yaml):
//
//	tables:
//	  - title: Backlog
//	    cards:
//	      - title: Write release notes
//	  - title: Done
//
// The file is read through Koanf so it shares parsing rules with the
// main configuration.
package board

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// ErrNoTables is returned when a seed file declares no tables.
var ErrNoTables = errors.New("board seed has no tables")

type seed struct {
	Tables []Table `koanf:"tables"`
}

// LoadSeed reads path and returns its tables.
func LoadSeed(path string) ([]Table, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load board seed %s: %w", path, err)
	}

	var s seed
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("decode board seed %s: %w", path, err)
	}
	if len(s.Tables) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTables)
	}

	zap.S().Infow("board seed loaded", "file", path, "tables", len(s.Tables))
	return s.Tables, nil
}
