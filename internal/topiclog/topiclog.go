// Package topiclog tracks which topics have already been written about,
// so the generator does not publish near-identical articles twice.
package topiclog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry records one generated article's topic for future duplicate checks.
type Entry struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Date     string   `json:"date"`
	Slug     string   `json:"slug"`
}

// Log is the append-only history of generated topics, oldest first.
type Log struct {
	GeneratedTopics []Entry `json:"generatedTopics"`
}

// Append adds one entry to the in-memory log.
func (l *Log) Append(e Entry) {
	l.GeneratedTopics = append(l.GeneratedTopics, e)
}

// Recent returns up to n of the newest topics, oldest first.
func (l *Log) Recent(n int) []string {
	entries := l.GeneratedTopics
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	topics := make([]string, len(entries))
	for i, e := range entries {
		topics[i] = e.Topic
	}
	return topics
}

// Load reads the log file. A missing file yields an empty log.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Log{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topic log: %w", err)
	}

	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse topic log: %w", err)
	}
	return &l, nil
}

// Save overwrites the log file in full, creating the parent directory
// if needed.
func Save(path string, l *Log) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal topic log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write topic log: %w", err)
	}
	return nil
}
