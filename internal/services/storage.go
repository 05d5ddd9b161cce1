package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"
	"jira-docgen/internal/models"

	bolt "go.etcd.io/bbolt"
)

const (
	ticketsBucket = "tickets"
	runsBucket    = "runs"
	lastRunKey    = "last_run"
)

type storage struct {
	db     *bolt.DB
	config *StorageConfig
}

func NewStorage(config *StorageConfig) (interfaces.Storage, error) {
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(config.DatabasePath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(ticketsBucket)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(runsBucket)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &storage{
		db:     db,
		config: config,
	}, nil
}

func (s *storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *storage) SaveTickets(projectKey string, tickets []*models.Ticket) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ticketsBucket))

		for _, ticket := range tickets {
			key := []byte(fmt.Sprintf("%s:%s", projectKey, ticket.Key))

			data, err := json.Marshal(ticket)
			if err != nil {
				return fmt.Errorf("failed to marshal ticket %s: %w", ticket.Key, err)
			}

			if err := bucket.Put(key, data); err != nil {
				return fmt.Errorf("failed to save ticket %s: %w", ticket.Key, err)
			}
		}

		return nil
	})
}

func (s *storage) LoadTickets(projectKey string) ([]*models.Ticket, error) {
	var tickets []*models.Ticket

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ticketsBucket))
		prefix := []byte(fmt.Sprintf("%s:", projectKey))

		c := bucket.Cursor()
		for k, v := c.Seek(prefix); k != nil && len(k) >= len(prefix) && string(k[:len(prefix)]) == string(prefix); k, v = c.Next() {
			var ticket models.Ticket
			if err := json.Unmarshal(v, &ticket); err != nil {
				continue
			}
			tickets = append(tickets, &ticket)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cursor order is key order; keep it deterministic for callers.
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].Key < tickets[j].Key })

	return tickets, nil
}

func (s *storage) SaveRunInfo(projectKey string, info *interfaces.RunInfo) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))

		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal run info: %w", err)
		}

		key := []byte(fmt.Sprintf("%s:%s", projectKey, lastRunKey))
		return bucket.Put(key, data)
	})
}

func (s *storage) LastRunInfo(projectKey string) (*interfaces.RunInfo, error) {
	var info *interfaces.RunInfo

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		key := []byte(fmt.Sprintf("%s:%s", projectKey, lastRunKey))
		data := bucket.Get(key)

		if data == nil {
			return nil
		}

		info = &interfaces.RunInfo{}
		return json.Unmarshal(data, info)
	})
	if err != nil {
		return nil, err
	}

	return info, nil
}
