package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompanyEvent is one row of the change feed.
type CompanyEvent struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	CompanyID   snowflake.ID      `json:"company_id" gorm:"column:company_id;not null;index"`
	EventType   string            `json:"event_type" gorm:"type:text;not null"`
	Payload     datatypes.JSONMap `json:"payload" gorm:"type:jsonb;not null;default:'{}'"`
	DedupeKey   *string           `json:"-" gorm:"type:text"`
	Published   bool              `json:"-" gorm:"not null;default:false"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	PublishedAt *time.Time        `json:"-"`
}

func (CompanyEvent) TableName() string { return "company_events" }

// Event describes a change to store on the feed.
type Event struct {
	CompanyID snowflake.ID
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// Outbox inserts change events, transactionally with the write they
// describe when PublishTx is used.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event inside an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	if event.CompanyID == 0 {
		return errors.New("invalid_company_id")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	dedupe := strings.TrimSpace(event.DedupeKey)
	var dedupeValue any
	if dedupe != "" {
		dedupeValue = dedupe
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO company_events (id, company_id, event_type, payload, dedupe_key, published, created_at)
		 VALUES (?, ?, ?, ?, ?, false, ?)
		 ON CONFLICT (company_id, dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		event.CompanyID,
		name,
		payload,
		dedupeValue,
		now,
	).Error
}

// ListSince returns published events for a company after the given id.
// Polling this is the live-update channel the board listens on.
func ListSince(ctx context.Context, db *gorm.DB, companyID snowflake.ID, afterID snowflake.ID, limit int) ([]CompanyEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var rows []CompanyEvent
	err := db.WithContext(ctx).
		Where("company_id = ? AND published = true AND id > ?", companyID, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
