// Package sqlstore persists exported account snapshots so a hydrated
// session can be restored without a second round trip to the identity
// authority.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-assist-auth/core"
)

type SnapshotStore struct {
	db   *bun.DB
	repo repository.Repository[*accountSnapshotRecord]
}

func NewSnapshotStore(db *bun.DB) (*SnapshotStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*accountSnapshotRecord](db, snapshotHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid snapshot repository wiring: %w", err)
		}
	}
	return &SnapshotStore{db: db, repo: repo}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, in core.SaveSnapshotInput) (core.AccountSnapshot, error) {
	if s == nil || s.repo == nil {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: snapshot store is not configured")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: user id is required")
	}
	if strings.TrimSpace(in.Client) == "" {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: client is required")
	}
	if len(in.Payload) == 0 {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: snapshot payload is required")
	}

	record := newAccountSnapshotRecord(in, time.Now().UTC())
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.AccountSnapshot{}, err
	}
	return created.toDomain(), nil
}

func (s *SnapshotStore) GetLatest(ctx context.Context, userID string, client string) (core.AccountSnapshot, error) {
	if s == nil || s.repo == nil {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: snapshot store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("user_id", "=", strings.TrimSpace(userID)),
		repository.SelectBy("client", "=", strings.TrimSpace(client)),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL").Limit(1)
		}),
		repository.OrderBy("created_at DESC"),
	)
	if err != nil {
		return core.AccountSnapshot{}, err
	}
	if len(records) == 0 {
		return core.AccountSnapshot{}, fmt.Errorf("sqlstore: snapshot not found for user %q", strings.TrimSpace(userID))
	}
	return records[0].toDomain(), nil
}

// Purge soft-deletes every snapshot for the user, e.g. after a logout from
// all clients.
func (s *SnapshotStore) Purge(ctx context.Context, userID string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: snapshot store is not configured")
	}
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return fmt.Errorf("sqlstore: user id is required")
	}
	now := time.Now().UTC()
	_, err := s.db.NewUpdate().
		Model((*accountSnapshotRecord)(nil)).
		Set("deleted_at = ?", now).
		Where("user_id = ?", trimmed).
		Where("deleted_at IS NULL").
		Exec(ctx)
	return err
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

// NewSnapshotStoreFromClient accepts either a *bun.DB or anything exposing
// one, mirroring how embedding applications hand their persistence client
// around.
func NewSnapshotStoreFromClient(client any) (*SnapshotStore, error) {
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewSnapshotStore(db)
}

var _ core.SnapshotStore = (*SnapshotStore)(nil)
