package versioning

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrEntityRequired is returned when a nil entity is passed to a mutation.
	ErrEntityRequired = errors.New("versioning: entity is required")
	// ErrNotFound is the sentinel behind every NotFoundError.
	ErrNotFound = errors.New("versioning: not found")
	// ErrVersionConflict reports a write against a version that is no longer
	// the latest for its master.
	ErrVersionConflict = errors.New("versioning: version conflict")
	// ErrDuplicateID reports an insert that reuses an existing row id.
	ErrDuplicateID = errors.New("versioning: duplicate id")
)

// NotFoundError reports a missing row, master or slug.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "content"
	}
	return fmt.Sprintf("%s %q not found", resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// VersionConflictError carries the versions involved in a rejected update.
type VersionConflictError struct {
	Resource string
	MasterID uuid.UUID
	Based    int
	Latest   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s %s: update based on version %d but latest is %d", e.Resource, e.MasterID, e.Based, e.Latest)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// IsNotFound reports whether err signals a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueViolation reports whether err comes from a unique index rejecting
// an insert. go-repository-bun reports these as CategoryDatabaseDuplicate;
// raw SQLite and Postgres driver errors are matched too.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseDuplicate) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key value")
}
