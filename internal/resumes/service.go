package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

const copySuffix = " (Copy)"

// Fields a client may never set through Update.
var protectedFields = []string{"_id", "id", "userID", "userId", "createdAt", "updatedAt"}

// Service owns the resume lifecycle: CRUD under the owner filter plus file
// reference reconciliation.
type Service struct {
	Repo  Repo
	Files object.FileStore
}

func NewService(repo Repo, files object.FileStore) *Service {
	return &Service{Repo: repo, Files: files}
}

// DeleteResult is the snapshot of a deleted resume and what happened to its files.
type DeleteResult struct {
	Resume  Resume
	Cleanup []CleanupResult
}

// UpdateResult is the stored resume after an update and the superseded files reclaimed.
type UpdateResult struct {
	Resume  Resume
	Cleanup []CleanupResult
}

// ownerKey is the only way service methods address a single resume.
// Malformed ids cannot match any resume and report ErrNotFound.
func ownerKey(userID, id string) (OwnerKey, error) {
	id = strings.TrimSpace(id)
	if userID == "" {
		return OwnerKey{}, ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return OwnerKey{}, ErrNotFound
	}
	return OwnerKey{ID: id, UserID: userID}, nil
}

func (s *Service) Create(ctx context.Context, userID, title string) (Resume, error) {
	if strings.TrimSpace(title) == "" {
		return Resume{}, fmt.Errorf("%w: Resume title is required", ErrInvalidInput)
	}
	resume := DefaultTemplate()
	resume.UserID = userID
	resume.Title = title
	resume.ThumbnailLink = ""

	created, err := s.Repo.Insert(ctx, resume)
	metrics.ObserveResumeOp("create", err)
	if err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{"resume_id": created.ID, "user_id": userID})
	return created, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	out, err := s.Repo.ListByOwner(ctx, userID)
	metrics.ObserveResumeOp("list", err)
	return out, err
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	key, err := ownerKey(userID, id)
	if err != nil {
		return Resume{}, err
	}
	resume, err := s.Repo.FindOwned(ctx, key)
	metrics.ObserveResumeOp("get", err)
	return resume, err
}

// Update merges the top-level fields of patch onto the stored resume. Owner,
// id and timestamps in the patch are ignored. Files no longer referenced after
// the write are reclaimed best-effort.
func (s *Service) Update(ctx context.Context, userID, id string, patch map[string]json.RawMessage) (UpdateResult, error) {
	key, err := ownerKey(userID, id)
	if err != nil {
		return UpdateResult{}, err
	}
	current, err := s.Repo.FindOwned(ctx, key)
	if err != nil {
		return UpdateResult{}, err
	}

	merged, err := applyPatch(current, patch)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := validate(merged); err != nil {
		return UpdateResult{}, err
	}

	updated, err := s.Repo.ReplaceOwned(ctx, key, merged)
	metrics.ObserveResumeOp("update", err)
	if err != nil {
		return UpdateResult{}, err
	}

	var stale []string
	if current.ThumbnailLink != updated.ThumbnailLink {
		stale = append(stale, current.ThumbnailLink)
	}
	if current.ProfileInfo.ProfilePreviewURL != updated.ProfileInfo.ProfilePreviewURL {
		stale = append(stale, current.ProfileInfo.ProfilePreviewURL)
	}
	return UpdateResult{Resume: updated, Cleanup: s.reclaimUnused(ctx, key, updated, stale...)}, nil
}

// Delete removes the resume after a best-effort reclaim of its files.
func (s *Service) Delete(ctx context.Context, userID, id string) (DeleteResult, error) {
	key, err := ownerKey(userID, id)
	if err != nil {
		return DeleteResult{}, err
	}
	resume, err := s.Repo.FindOwned(ctx, key)
	if err != nil {
		return DeleteResult{}, err
	}

	cleanup := s.reclaim(ctx, key, resume.FileLinks()...)

	err = s.Repo.DeleteOwned(ctx, key)
	metrics.ObserveResumeOp("delete", err)
	if err != nil {
		return DeleteResult{}, err
	}
	telemetry.Info("resume.deleted", map[string]any{
		"resume_id":      key.ID,
		"user_id":        userID,
		"cleanup_failed": Failed(cleanup),
	})
	return DeleteResult{Resume: resume, Cleanup: cleanup}, nil
}

// Duplicate copies the resume under a new id. File references are shared
// with the source, not cloned.
func (s *Service) Duplicate(ctx context.Context, userID, id string) (Resume, error) {
	key, err := ownerKey(userID, id)
	if err != nil {
		return Resume{}, err
	}
	source, err := s.Repo.FindOwned(ctx, key)
	if err != nil {
		return Resume{}, err
	}

	dup := source.Clone()
	dup.ID = ""
	dup.Title = source.Title + copySuffix

	created, err := s.Repo.Insert(ctx, dup)
	metrics.ObserveResumeOp("duplicate", err)
	if err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.duplicated", map[string]any{
		"resume_id": created.ID,
		"source_id": source.ID,
		"user_id":   userID,
	})
	return created, nil
}

// reclaimUnused reclaims stale links that the saved resume no longer points at.
func (s *Service) reclaimUnused(ctx context.Context, key OwnerKey, saved Resume, stale ...string) []CleanupResult {
	var links []string
	for _, link := range stale {
		if link == "" || link == saved.ThumbnailLink || link == saved.ProfileInfo.ProfilePreviewURL {
			continue
		}
		links = append(links, link)
	}
	return s.reclaim(ctx, key, links...)
}

func applyPatch(current Resume, patch map[string]json.RawMessage) (Resume, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return Resume{}, fmt.Errorf("encode resume: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return Resume{}, fmt.Errorf("decode resume: %w", err)
	}
	for k, v := range patch {
		fields[k] = v
	}
	for _, k := range protectedFields {
		delete(fields, k)
	}

	mergedJSON, err := json.Marshal(fields)
	if err != nil {
		return Resume{}, fmt.Errorf("encode patch: %w", err)
	}
	var merged Resume
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Resume{}, fmt.Errorf("%w: field %s has the wrong type", ErrInvalidInput, typeErr.Field)
		}
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	merged.ID = current.ID
	merged.UserID = current.UserID
	merged.CreatedAt = current.CreatedAt
	merged.UpdatedAt = current.UpdatedAt
	return merged, nil
}

func validate(r Resume) error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: Resume title is required", ErrInvalidInput)
	}
	for i, sk := range r.Skills {
		if sk.Progress < 0 || sk.Progress > 100 {
			return fmt.Errorf("%w: skills[%d].progress must be between 0 and 100", ErrInvalidInput, i)
		}
	}
	for i, lang := range r.Languages {
		if lang.Progress < 0 || lang.Progress > 100 {
			return fmt.Errorf("%w: languages[%d].progress must be between 0 and 100", ErrInvalidInput, i)
		}
	}
	return nil
}
