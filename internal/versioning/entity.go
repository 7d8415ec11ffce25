package versioning

import (
	"time"

	"github.com/google/uuid"
)

// ContentEntity is the row shape shared by every versioned content type. ID
// names one version row, MasterID the logical entity across versions.
type ContentEntity struct {
	ID                 uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	MasterID           uuid.UUID  `bun:"master_id,type:uuid,notnull" json:"master_id"`
	Version            int        `bun:"version,notnull" json:"version"`
	Slug               string     `bun:"slug" json:"slug"`
	Title              string     `bun:"title" json:"title"`
	CreationDate       time.Time  `bun:"creation_date,notnull" json:"creation_date"`
	ModificationDate   time.Time  `bun:"modification_date,notnull" json:"modification_date"`
	PublicationDate    *time.Time `bun:"publication_date" json:"publication_date,omitempty"`
	PublicationEndDate *time.Time `bun:"publication_end_date" json:"publication_end_date,omitempty"`
	IsPublished        bool       `bun:"is_published,notnull" json:"is_published"`
	IsArchived         bool       `bun:"is_archived,notnull" json:"is_archived"`
	IsHidden           bool       `bun:"is_hidden,notnull" json:"is_hidden"`
	IsDeleted          bool       `bun:"is_deleted,notnull" json:"is_deleted"`
}

// Entity is implemented by every type stored through a Store. Embedding
// ContentEntity provides the method.
type Entity interface {
	Base() *ContentEntity
}

// Base returns the receiver.
func (e *ContentEntity) Base() *ContentEntity {
	return e
}

// Clone returns a copy that shares no pointers with e.
func (e ContentEntity) Clone() ContentEntity {
	e.PublicationDate = cloneTime(e.PublicationDate)
	e.PublicationEndDate = cloneTime(e.PublicationEndDate)
	return e
}

// IsVisible reports whether the row may be served publicly.
func (e *ContentEntity) IsVisible() bool {
	return e != nil && e.IsPublished && !e.IsDeleted
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
