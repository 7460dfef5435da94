// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lumidoxdetect implements port and baud-rate auto-detection
// for the Lumidox II controller: enumerating and scoring candidate
// serial ports, probing candidate baud rates, and orchestrating both
// under a wall-clock budget to produce a connected session without the
// caller naming a port or baud rate up front.
package lumidoxdetect

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxdevice"
)

// ConnectionRecord is the single persisted fact the detector owns: the
// port and baud rate that worked last time, and the identity read at
// that time, so a caller can skip full detection on the common path.
type ConnectionRecord struct {
	PortName        string                       `yaml:"port_name"`
	BaudRate        int                          `yaml:"baud_rate"`
	LastIdentity    lumidoxdevice.DeviceIdentity `yaml:"last_identity"`
	LastSuccessTime time.Time                    `yaml:"last_success_time"`
}

// Cache loads and stores a single ConnectionRecord. The format is
// opaque to callers; FileCache backs it with a YAML file.
type Cache interface {
	Load() (*ConnectionRecord, error)
	Store(record ConnectionRecord) error
}

// FileCache persists a ConnectionRecord as YAML at Path. A missing
// file is treated as an empty cache rather than an error.
type FileCache struct {
	Path string
}

// NewFileCache returns a FileCache rooted at path.
func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

// Load reads the cached record. A missing file is not an error: it
// returns (nil, nil), the "no cache yet" case.
func (c *FileCache) Load() (*ConnectionRecord, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lumidoxdetect: read cache %s: %w", c.Path, err)
	}

	var record ConnectionRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("lumidoxdetect: parse cache %s: %w", c.Path, err)
	}
	return &record, nil
}

// Store overwrites the cache file with record.
func (c *FileCache) Store(record ConnectionRecord) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("lumidoxdetect: marshal cache record: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o644); err != nil {
		return fmt.Errorf("lumidoxdetect: write cache %s: %w", c.Path, err)
	}
	return nil
}

var _ Cache = (*FileCache)(nil)
