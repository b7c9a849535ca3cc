package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Tiliavir/clockstorm/internal/model"
)

// FileSource reads a timesheet document from a file, or from Reader when
// Path is "-". Both the stored week model and the API grid format are
// accepted.
type FileSource struct {
	Path   string
	Reader io.Reader
}

func (f FileSource) QueryTimeSheet(ctx context.Context) (*model.TimeSheet, error) {
	var (
		data []byte
		err  error
	)
	if f.Path == "-" {
		data, err = io.ReadAll(f.Reader)
	} else {
		data, err = os.ReadFile(f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return ParseDocument(data)
}

// ParseDocument decodes either a week model or an API grid.
func ParseDocument(data []byte) (*model.TimeSheet, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidTimeSheet, err)
	}
	if _, ok := probe["weekEnding"]; ok {
		var grid WireTimeSheet
		if err := json.Unmarshal(data, &grid); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidTimeSheet, err)
		}
		return grid.ToTimeSheet()
	}
	ts, err := model.DecodeTimeSheet(data)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
