// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists case snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caselens/internal/cases"
	"caselens/internal/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a case id has no stored snapshot.
var ErrNotFound = errors.New("case not found")

// Summary describes a stored case without loading its documents.
type Summary struct {
	ID         string    `json:"case_id" yaml:"case_id"`
	Name       string    `json:"case_name" yaml:"case_name"`
	Documents  int       `json:"documents" yaml:"documents"`
	Violations int       `json:"violations" yaml:"violations"`
	CreatedAt  time.Time `json:"created_date" yaml:"created_date"`
	UpdatedAt  time.Time `json:"last_updated" yaml:"last_updated"`
}

// CaseStore saves and loads cases. Load failures caused by a corrupt
// snapshot are *cases.LoadError.
type CaseStore interface {
	Save(ctx context.Context, c *cases.Case) error
	Load(ctx context.Context, id string) (*cases.Case, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (CaseStore, error) {
	switch cfg.Backend {
	case "", "json":
		return NewJSONStore(cfg.Dir)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Backend)
	}
}

// validID rejects anything that is not a UUID so ids are safe as file names.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid case id %q: %w", id, err)
	}
	return nil
}

func summarize(c *cases.Case) Summary {
	return Summary{
		ID:         c.ID,
		Name:       c.Name,
		Documents:  len(c.Documents),
		Violations: len(c.Violations),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.LastUpdated,
	}
}

// decode wraps cases.Unmarshal and stamps the id on load errors.
func decode(id string, data []byte) (*cases.Case, error) {
	c, err := cases.Unmarshal(data)
	if err != nil {
		var le *cases.LoadError
		if errors.As(err, &le) && le.CaseID == "" {
			le.CaseID = id
		}
		return nil, err
	}
	if c.ID != id {
		return nil, &cases.LoadError{CaseID: id, Err: fmt.Errorf("snapshot holds case %q", c.ID)}
	}
	return c, nil
}
