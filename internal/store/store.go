// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package store archives completed trials in a local BadgerDB: the computed
// report as JSON under trial/<id>, and each channel's raw trace as a
// zstd-compressed binary blob under samples/<id>/<channel>. The archive is
// what the history command and the watcher write to and read from.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/report"
)

const (
	trialPrefix   = "trial/"
	samplesPrefix = "samples/"
)

// ErrNotFound is returned when a trial ID is not in the archive.
var ErrNotFound = errors.New("trial not found")

// Trial is one archived recording.
type Trial struct {
	ID         string         `json:"id"`
	ArchivedAt time.Time      `json:"archived_at"`
	Report     *report.Report `json:"report"`
}

// Store is a trial archive backed by BadgerDB.
type Store struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens (creating if needed) the archive at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is too chatty for a CLI

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open trial store: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &Store{db: db, encoder: encoder, decoder: decoder}, nil
}

// Close closes the archive.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// Put archives one trial together with its per-channel traces.
func (s *Store) Put(t Trial, traces map[reading.Channel]metrics.Series) error {
	meta, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trial %s: %w", t.ID, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(trialPrefix+t.ID), meta); err != nil {
			return err
		}
		for ch, series := range traces {
			key := samplesKey(t.ID, ch)
			if err := txn.Set(key, s.encodeSeries(series)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns one archived trial by ID.
func (s *Store) Get(id string) (Trial, error) {
	var t Trial
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(trialPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		})
	})
	return t, err
}

// List returns all archived trials, newest first.
func (s *Store) List() ([]Trial, error) {
	var trials []Trial
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(trialPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var t Trial
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			})
			if err != nil {
				return err
			}
			trials = append(trials, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(trials, func(i, j int) bool {
		return trials[i].ArchivedAt.After(trials[j].ArchivedAt)
	})
	return trials, nil
}

// Samples returns one archived channel trace.
func (s *Store) Samples(id string, ch reading.Channel) (metrics.Series, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(samplesKey(id, ch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, id, ch)
		}
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.decodeSeries(blob)
}

func samplesKey(id string, ch reading.Channel) []byte {
	return []byte(samplesPrefix + id + "/" + string(ch))
}

// encodeSeries packs a trace as little-endian (time, value) float64 pairs
// and compresses the result.
func (s *Store) encodeSeries(series metrics.Series) []byte {
	buf := new(bytes.Buffer)
	for _, p := range series {
		binary.Write(buf, binary.LittleEndian, p.Time)
		binary.Write(buf, binary.LittleEndian, p.Value)
	}
	return s.encoder.EncodeAll(buf.Bytes(), nil)
}

func (s *Store) decodeSeries(blob []byte) (metrics.Series, error) {
	raw, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress samples: %w", err)
	}
	if len(raw)%16 != 0 {
		return nil, fmt.Errorf("corrupt sample blob: %d bytes", len(raw))
	}

	series := make(metrics.Series, 0, len(raw)/16)
	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		var p metrics.Point
		if err := binary.Read(r, binary.LittleEndian, &p.Time); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &p.Value); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, nil
}
