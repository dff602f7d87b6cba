// Package mailbox provides a message source backed by a spool directory of
// Gmail API style JSON files, one message per file.
package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eshaffer321/saletrack/internal/domain/mail"
)

// ErrNotFound is returned by Fetch for an unknown message id
var ErrNotFound = errors.New("message not found")

// Spool reads messages from *.json files in Dir
type Spool struct {
	dir    string
	loc    *time.Location
	logger *slog.Logger
}

// NewSpool creates a spool mailbox over dir
func NewSpool(dir string, logger *slog.Logger) *Spool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spool{dir: dir, loc: time.Local, logger: logger}
}

// Ping checks that the spool directory is readable
func (s *Spool) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("spool directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("spool path %s is not a directory", s.dir)
	}
	return nil
}

// Search returns the ids of up to maxResults messages matching query,
// newest first. Unreadable files are logged and skipped.
func (s *Spool) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	q, err := ParseQuery(query, s.loc)
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}

	type hit struct {
		id       string
		received time.Time
	}
	var hits []hit

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := readMessage(path)
		if err != nil {
			s.logger.Warn("skipping unreadable message file", "path", path, "error", err)
			continue
		}
		if !q.Matches(msg) {
			continue
		}
		received, _ := receivedAt(msg)
		hits = append(hits, hit{id: msg.ID, received: received})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].received.After(hits[j].received)
	})

	if maxResults > 0 && len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}

	s.logger.Debug("spool search complete", "query", query, "matches", len(ids))
	return ids, nil
}

// Fetch loads a message by id. The file name is the id with a .json
// extension; files with a different name are found by scanning.
func (s *Spool) Fetch(ctx context.Context, id string) (*mail.Message, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	if msg, err := readMessage(filepath.Join(s.dir, id+".json")); err == nil && msg.ID == id {
		return msg, nil
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := readMessage(path)
		if err == nil && msg.ID == id {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func readMessage(path string) (*mail.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var msg mail.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if msg.ID == "" {
		msg.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &msg, nil
}
