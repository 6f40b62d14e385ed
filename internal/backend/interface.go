// Package backend builds the expense service over the store named by
// DATA_BACKEND.
package backend

import (
	"context"
	"fmt"
	"strings"

	"tracker/internal/services"
)

// CleanupFunc releases what a backend holds open.
type CleanupFunc func() error

// BackendResult is a ready service and the function that releases it.
type BackendResult struct {
	Service *services.ExpenseService
	Cleanup CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	// CreateBackend opens and initializes the store selected by config.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType names a store implementation.
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

var backendTypes = []BackendType{CSVBackend, SQLiteBackend, MemoryBackend}

// ParseBackendType accepts a backend name in any letter case.
func ParseBackendType(s string) (BackendType, error) {
	bt := BackendType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range backendTypes {
		if bt == known {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q: must be one of %s", s, strings.Join(BackendTypes(), ", "))
}

func (bt BackendType) String() string {
	return string(bt)
}

// BackendTypes lists the supported backend names, default first.
func BackendTypes() []string {
	names := make([]string, len(backendTypes))
	for i, bt := range backendTypes {
		names[i] = bt.String()
	}
	return names
}
