package fertform

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/contract"
)

// LoadCatalog reads a catalog document from disk. An empty path returns the
// embedded catalog.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fertform: read catalog: %w", err)
	}
	return catalog.Parse(data)
}

// LoadContract reads an OpenAPI description of the prediction endpoint from
// disk. An empty path returns the embedded contract.
func LoadContract(ctx context.Context, path string) (*contract.Contract, error) {
	if path == "" {
		return contract.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fertform: read contract: %w", err)
	}
	return contract.Load(ctx, data)
}
