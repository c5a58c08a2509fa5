package resumes

import (
	"context"
	"errors"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

// CleanupOutcome describes what happened to one superseded file reference.
// Shared means another resume still references the file, so it was kept.
type CleanupOutcome string

const (
	CleanupDeleted CleanupOutcome = "deleted"
	CleanupMissing CleanupOutcome = "missing"
	CleanupShared  CleanupOutcome = "shared"
	CleanupSkipped CleanupOutcome = "skipped"
	CleanupFailed  CleanupOutcome = "failed"
)

// CleanupResult reports the fate of one file reference. Err is set only for CleanupFailed.
type CleanupResult struct {
	Link    string
	Key     string
	Outcome CleanupOutcome
	Err     error
}

// Failed reports whether any result in rs is a failure.
func Failed(rs []CleanupResult) bool {
	for _, r := range rs {
		if r.Outcome == CleanupFailed {
			return true
		}
	}
	return false
}

// reclaim deletes the files behind links unless a resume other than
// owner.ID still references them. Failures are reported, never returned.
func (s *Service) reclaim(ctx context.Context, owner OwnerKey, links ...string) []CleanupResult {
	var out []CleanupResult
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		res := s.reclaimOne(ctx, owner, link)
		s.report(owner, res)
		out = append(out, res)
	}
	return out
}

func (s *Service) reclaimOne(ctx context.Context, owner OwnerKey, link string) CleanupResult {
	res := CleanupResult{Link: link, Key: object.KeyFromURL(link)}
	if res.Key == "" {
		res.Outcome = CleanupSkipped
		return res
	}

	refs, err := s.Repo.CountFileReferences(ctx, object.URLSuffix(res.Key), owner.ID)
	if err != nil {
		res.Outcome = CleanupFailed
		res.Err = err
		return res
	}
	if refs > 0 {
		res.Outcome = CleanupShared
		return res
	}

	switch err := s.Files.Delete(ctx, res.Key); {
	case err == nil:
		res.Outcome = CleanupDeleted
	case errors.Is(err, object.ErrNotFound):
		res.Outcome = CleanupMissing
	default:
		res.Outcome = CleanupFailed
		res.Err = err
	}
	return res
}

func (s *Service) report(owner OwnerKey, res CleanupResult) {
	metrics.IncFileCleanup(string(res.Outcome))
	fields := map[string]any{
		"resume_id": owner.ID,
		"user_id":   owner.UserID,
		"link":      res.Link,
		"key":       res.Key,
		"outcome":   string(res.Outcome),
	}
	if res.Err != nil {
		fields["error"] = res.Err
		telemetry.Warn("resume.cleanup", fields)
		return
	}
	telemetry.Info("resume.cleanup", fields)
}
