package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/orbitviz/orbit/pkg/graph"
)

// File serves fetches from a static inventory snapshot on disk. The file
// holds the full inventory as a single JSON payload; Fetch extracts the
// depth-limited neighborhood of the requested resource.
//
// Intended for local exploration and as the test fixture provider.
type File struct {
	inventory graph.Graph
}

// NewFile loads an inventory snapshot from path.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}

	return &File{inventory: toGraph(p)}, nil
}

// Fetch extracts the neighborhood of resourceID from the loaded snapshot.
func (f *File) Fetch(ctx context.Context, resourceID string, depth int) (graph.Graph, error) {
	if err := validate(resourceID, depth); err != nil {
		return graph.Graph{}, err
	}
	return neighborhood(f.inventory, resourceID, depth)
}

// Ensure File implements Provider.
var _ Provider = (*File)(nil)
