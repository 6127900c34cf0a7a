// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history provides a local, bounded audit trail of style decisions.
//
// BadgerDB is used for embedded storage with low-latency access. Entries
// carry a TTL so the trail stays bounded without a separate cleanup job;
// Badger drops expired keys during compaction and hides them from reads.
//
// The rule matcher itself stays pure — recording happens in the HTTP
// handler after the decision is made, and recording failures never affect
// the response.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces decision entries inside the database.
const keyPrefix = "decision:"

// Entry is one recorded style decision.
type Entry struct {
	RequestID        string    `json:"request_id"`
	Timestamp        time.Time `json:"timestamp"`
	Style            string    `json:"style"`
	MatchedRuleIndex int       `json:"matched_rule_index"`
	MatchedRuleName  string    `json:"matched_rule_name,omitempty"`

	// Context echoes the attributes the decision was made from,
	// as submitted (unset attributes omitted).
	Context map[string]string `json:"context,omitempty"`
}

// Store records decisions and serves the recent-decision listing.
type Store interface {
	// Record appends one decision entry. Best-effort from the caller's
	// perspective: handlers log and continue on error.
	Record(ctx context.Context, entry Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close releases the underlying database.
	Close() error
}

// Config holds configuration for the Badger-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// Retention is how long entries stay readable. Default: 24h.
	Retention time.Duration

	// Logger receives BadgerDB's internal log lines.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for the given directory.
func DefaultConfig(path string) Config {
	return Config{
		Path:      path,
		Retention: 24 * time.Hour,
	}
}

// InMemoryConfig returns configuration optimized for testing.
func InMemoryConfig() Config {
	return Config{
		InMemory:  true,
		Retention: time.Hour,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore is the Badger-backed Store implementation.
type BadgerStore struct {
	db        *badger.DB
	retention time.Duration
}

// Open opens (or creates) the decision history database.
func Open(cfg Config) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithInMemory(cfg.InMemory)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &BadgerStore{db: db, retention: retention}, nil
}

// Record appends one decision entry keyed by timestamp + request ID, so
// lexicographic key order is chronological order.
func (s *BadgerStore) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	key := fmt.Sprintf("%s%020d:%s", keyPrefix, entry.Timestamp.UnixNano(), entry.RequestID)

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value).WithTTL(s.retention)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration: seek past the last possible key in the prefix.
		seek := append([]byte(keyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(keyPrefix)) && len(entries) < limit; it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return fmt.Errorf("decode history entry %s: %w", item.Key(), err)
				}
				entries = append(entries, entry)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Ensure BadgerStore implements Store
var _ Store = (*BadgerStore)(nil)
