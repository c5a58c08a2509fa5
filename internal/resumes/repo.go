package resumes

import "context"

// OwnerKey addresses a single resume on behalf of its owner. Every
// single-resume store call matches on both fields.
type OwnerKey struct {
	ID     string
	UserID string
}

type Repo interface {
	// Insert stores a new resume, assigning its ID and timestamps.
	Insert(ctx context.Context, resume Resume) (Resume, error)
	FindOwned(ctx context.Context, key OwnerKey) (Resume, error)
	// ListByOwner returns summaries ordered by UpdatedAt, newest first.
	ListByOwner(ctx context.Context, userID string) ([]Summary, error)
	// ReplaceOwned overwrites the stored content. ID, UserID and CreatedAt are kept.
	ReplaceOwned(ctx context.Context, key OwnerKey, resume Resume) (Resume, error)
	DeleteOwned(ctx context.Context, key OwnerKey) error
	// CountFileReferences counts resumes other than excludeID whose thumbnail
	// or profile preview link ends with urlSuffix.
	CountFileReferences(ctx context.Context, urlSuffix, excludeID string) (int, error)
}
