package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription statuses understood by the backend. Anything else is treated
// as inactive.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)

// User is the tenant anchor. Authentication concerns (password hashing,
// sessions) are handled outside this repository; the row exists so that
// subscriptions, usage and projects have an owner.
type User struct {
	ID             uint   `gorm:"primarykey"`
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	Name           string
	Active         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Plan is an immutable-per-version tier definition. Limits use the
// convention: a value <= 0 means unlimited; a positive value is an absolute
// cap. QPS limits double as token-bucket capacity and per-second refill
// rate (see v1/ratelimit).
type Plan struct {
	ID               uint   `gorm:"primarykey"`
	Slug             string `gorm:"uniqueIndex;not null"`
	Name             string `gorm:"not null"`
	PriceCents       int    `gorm:"not null;default:0"`
	BillingProductID string
	QueryQPSLimit    int `gorm:"not null"`
	IngestQPSLimit   int `gorm:"not null"`
	ProjectLimit     int `gorm:"not null"`
	VectorLimit      int `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Unlimited reports whether the given plan limit means "no cap".
func Unlimited(limit int) bool { return limit <= 0 }

// Subscription links one user to exactly one plan. The billing correlation
// ids are opaque references into the external billing provider.
type Subscription struct {
	ID                    uint   `gorm:"primarykey"`
	UserID                uint   `gorm:"uniqueIndex;not null"`
	PlanID                uint   `gorm:"not null"`
	Status                string `gorm:"not null;default:active"`
	BillingCustomerID     string
	BillingSubscriptionID string
	CurrentPeriodEnd      *time.Time
	CancelAtPeriodEnd     bool `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Plan Plan `gorm:"foreignKey:PlanID"`
}

// UsageCounter keeps per-user running totals. TotalQueries and
// TotalIngestRequests are monotonically non-decreasing; TotalVectors
// decreases on delete but is clamped at zero.
type UsageCounter struct {
	ID                  uint  `gorm:"primarykey"`
	UserID              uint  `gorm:"uniqueIndex;not null"`
	TotalQueries        int64 `gorm:"not null;default:0"`
	TotalIngestRequests int64 `gorm:"not null;default:0"`
	TotalVectors        int64 `gorm:"not null;default:0"`
	LastReset           time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RateLimitBucket is the persisted token-bucket state for one
// (user, limit type) pair. Tokens is a float because refill is continuous.
// MaxTokens <= 0 marks the bucket unlimited.
//
// Invariant: 0 <= Tokens <= MaxTokens whenever MaxTokens > 0.
type RateLimitBucket struct {
	ID         uint    `gorm:"primarykey"`
	UserID     uint    `gorm:"not null;uniqueIndex:uq_rate_limit_user_type"`
	LimitType  string  `gorm:"not null;uniqueIndex:uq_rate_limit_user_type"`
	Tokens     float64 `gorm:"not null"`
	LastRefill time.Time
	MaxTokens  int `gorm:"not null"`
}

// Project is a tenant-scoped retrieval namespace. VectorCount mirrors the
// number of active vectors held for this project in the external search
// engine and is maintained by the ingest/delete flows, not by the engine.
type Project struct {
	ID                 string `gorm:"type:varchar(36);primarykey"`
	UserID             uint   `gorm:"not null;index"`
	Name               string `gorm:"not null"`
	Description        string `gorm:"type:text"`
	EmbeddingProvider  string `gorm:"not null"`
	EmbeddingModel     string `gorm:"not null"`
	EmbeddingDim       int    `gorm:"not null"`
	HybridWeightVector float64 `gorm:"not null;default:0.5"`
	HybridWeightText   float64 `gorm:"not null;default:0.5"`
	TopKDefault        int     `gorm:"not null;default:10"`
	VectorSearchK      int     `gorm:"not null;default:50"`
	VectorCount        int64   `gorm:"not null;default:0"`
	IngestKeyHash      string  `gorm:"not null"`
	LastIngestAt       *time.Time
	Active             bool `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BeforeCreate assigns a time-ordered UUIDv7 id so that project ids sort by
// creation time in the external store's namespace filters.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("models: generating project id: %w", err)
	}
	p.ID = id.String()
	return nil
}

// ProjectDocument is a text document owned by a project.
// ExternalDocumentID is the join key into the external search engine; the
// row is soft-deleted (Active=false) while the engine-side document is
// removed outright.
type ProjectDocument struct {
	ID                 uint   `gorm:"primarykey"`
	ProjectID          string `gorm:"type:varchar(36);not null;index"`
	ExternalDocumentID string `gorm:"uniqueIndex;not null"`
	Title              string `gorm:"not null"`
	Content            string `gorm:"type:text;not null"`
	Metadata           string `gorm:"type:jsonb;not null;default:'{}'"`
	Active             bool   `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProjectImage is an image owned by a project. The bytes live in object
// storage under StorageKey; only the embedding and metadata go to the
// search engine.
type ProjectImage struct {
	ID                 uint   `gorm:"primarykey"`
	ProjectID          string `gorm:"type:varchar(36);not null;index"`
	ExternalDocumentID string `gorm:"uniqueIndex;not null"`
	StorageKey         string `gorm:"uniqueIndex;not null"`
	ContentType        string `gorm:"not null"`
	Metadata           string `gorm:"type:jsonb;not null;default:'{}'"`
	Active             bool   `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AutoMigrate creates or updates the schema for every model in this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Plan{},
		&Subscription{},
		&UsageCounter{},
		&RateLimitBucket{},
		&Project{},
		&ProjectDocument{},
		&ProjectImage{},
	)
}
