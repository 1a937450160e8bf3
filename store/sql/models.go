package sqlstore

import (
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-assist-auth/core"
)

type accountSnapshotRecord struct {
	bun.BaseModel `bun:"table:account_snapshots,alias:asn"`

	ID        string     `bun:"id,pk"`
	UserID    string     `bun:"user_id,notnull"`
	Client    string     `bun:"client,notnull"`
	Payload   []byte     `bun:"payload,notnull"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete"`
}

func newAccountSnapshotRecord(in core.SaveSnapshotInput, now time.Time) *accountSnapshotRecord {
	return &accountSnapshotRecord{
		UserID:    strings.TrimSpace(in.UserID),
		Client:    strings.TrimSpace(in.Client),
		Payload:   append([]byte(nil), in.Payload...),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *accountSnapshotRecord) toDomain() core.AccountSnapshot {
	if r == nil {
		return core.AccountSnapshot{}
	}
	return core.AccountSnapshot{
		ID:        strings.TrimSpace(r.ID),
		UserID:    strings.TrimSpace(r.UserID),
		Client:    strings.TrimSpace(r.Client),
		Payload:   append([]byte(nil), r.Payload...),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
