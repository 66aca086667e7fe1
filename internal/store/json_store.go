// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"caselens/internal/cases"
)

// JSONStore keeps one <id>.json snapshot per case in a directory.
type JSONStore struct {
	dir string
}

// NewJSONStore creates dir if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("json store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("json store: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the snapshot through a temp file and rename.
func (s *JSONStore) Save(_ context.Context, c *cases.Case) error {
	if err := validID(c.ID); err != nil {
		return err
	}
	data, err := cases.Marshal(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, c.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("save case %s: %w", c.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save case %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save case %s: %w", c.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(c.ID)); err != nil {
		return fmt.Errorf("save case %s: %w", c.ID, err)
	}
	return nil
}

func (s *JSONStore) Load(_ context.Context, id string) (*cases.Case, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", id, err)
	}
	return decode(id, data)
}

// List loads every snapshot in the directory. Unreadable snapshots are
// skipped; their ids are returned in the error.
func (s *JSONStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	var out []Summary
	var broken []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		c, err := s.Load(ctx, id)
		if err != nil {
			broken = append(broken, id)
			continue
		}
		out = append(out, summarize(c))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(broken) > 0 {
		return out, fmt.Errorf("unreadable case snapshots: %s", strings.Join(broken, ", "))
	}
	return out, nil
}

func (s *JSONStore) Delete(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return err
}

func (s *JSONStore) Close() error { return nil }
