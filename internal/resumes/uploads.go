package resumes

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

const (
	SlotThumbnail    = "thumbnail"
	SlotProfileImage = "profileImage"
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// AllowedMediaType reports whether files of contentType may be attached.
func AllowedMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return allowedMediaTypes[mediaType]
}

// Upload is one file supplied for a slot.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadRequest carries the optional files for each slot. BaseURL is the
// public origin stored links are built on.
type UploadRequest struct {
	Thumbnail    *Upload
	ProfileImage *Upload
	BaseURL      string
}

// UploadResult holds the links stored on the resume after the attach.
type UploadResult struct {
	ThumbnailLink     string          `json:"thumbnailLink"`
	ProfilePreviewURL string          `json:"profilePreviewUrl"`
	Cleanup           []CleanupResult `json:"-"`
}

type slotUpload struct {
	slot   string
	upload *Upload
	key    string
}

// AttachUpload stores the supplied files and points the matching resume
// fields at them. Media types are checked before anything is read or written.
// New files are stored first, then the resume is saved, also when no file was
// given. If a store or the save fails, the files written by this call are
// removed and the resume and its old files are left as they were. Superseded
// files are reclaimed best-effort only after a successful save.
func (s *Service) AttachUpload(ctx context.Context, userID, id string, req UploadRequest) (UploadResult, error) {
	var pending []*slotUpload
	if req.Thumbnail != nil {
		pending = append(pending, &slotUpload{slot: SlotThumbnail, upload: req.Thumbnail})
	}
	if req.ProfileImage != nil {
		pending = append(pending, &slotUpload{slot: SlotProfileImage, upload: req.ProfileImage})
	}
	for _, p := range pending {
		if !AllowedMediaType(p.upload.ContentType) {
			return UploadResult{}, fmt.Errorf("%w: %s has type %q", ErrUnsupportedMedia, p.slot, p.upload.ContentType)
		}
	}

	key, err := ownerKey(userID, id)
	if err != nil {
		return UploadResult{}, err
	}
	resume, err := s.Repo.FindOwned(ctx, key)
	if err != nil {
		return UploadResult{}, err
	}

	for i, p := range pending {
		stored, err := s.Files.Save(ctx, p.upload.FileName, p.upload.ContentType, p.upload.Body)
		if err != nil {
			s.discard(ctx, key, pending[:i])
			metrics.ObserveResumeOp("upload", err)
			return UploadResult{}, fmt.Errorf("store %s: %w", p.slot, err)
		}
		p.key = stored
		metrics.ObserveUploadBytes(p.slot, p.upload.Size)
	}

	var stale []string
	for _, p := range pending {
		link := object.PublicURL(req.BaseURL, p.key)
		switch p.slot {
		case SlotThumbnail:
			stale = append(stale, resume.ThumbnailLink)
			resume.ThumbnailLink = link
		case SlotProfileImage:
			stale = append(stale, resume.ProfileInfo.ProfilePreviewURL)
			resume.ProfileInfo.ProfilePreviewURL = link
		}
	}

	saved, err := s.Repo.ReplaceOwned(ctx, key, resume)
	metrics.ObserveResumeOp("upload", err)
	if err != nil {
		s.discard(ctx, key, pending)
		return UploadResult{}, err
	}
	cleanup := s.reclaimUnused(ctx, key, saved, stale...)
	telemetry.Info("resume.upload", map[string]any{
		"resume_id":      key.ID,
		"user_id":        userID,
		"files":          len(pending),
		"cleanup_failed": Failed(cleanup),
	})
	return UploadResult{
		ThumbnailLink:     saved.ThumbnailLink,
		ProfilePreviewURL: saved.ProfileInfo.ProfilePreviewURL,
		Cleanup:           cleanup,
	}, nil
}

// discard removes files stored earlier in a failed attach.
func (s *Service) discard(ctx context.Context, key OwnerKey, stored []*slotUpload) {
	for _, p := range stored {
		if err := s.Files.Delete(ctx, p.key); err != nil {
			telemetry.Warn("resume.upload_discard", map[string]any{
				"resume_id": key.ID,
				"key":       p.key,
				"error":     err,
			})
		}
	}
}
