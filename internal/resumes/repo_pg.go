package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, thumbnail_link, template, profile_info, contact_info,
work_experience, education, skills, projects, certifications, languages, interests,
created_at, updated_at`

func (r *PGRepo) Insert(ctx context.Context, resume Resume) (Resume, error) {
	resume.ID = uuid.NewString()
	doc, err := encodeSections(resume)
	if err != nil {
		return Resume{}, err
	}
	const query = `
INSERT INTO resumes (id, user_id, title, thumbnail_link, template, profile_info, contact_info,
  work_experience, education, skills, projects, certifications, languages, interests, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
RETURNING created_at, updated_at`
	args := append([]any{resume.ID, resume.UserID, resume.Title, resume.ThumbnailLink}, doc...)
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&resume.CreatedAt, &resume.UpdatedAt); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) FindOwned(ctx context.Context, key OwnerKey) (Resume, error) {
	query := `SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, key.ID, key.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, userID string) ([]Summary, error) {
	const query = `
SELECT id, title, thumbnail_link, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.ThumbnailLink, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) ReplaceOwned(ctx context.Context, key OwnerKey, resume Resume) (Resume, error) {
	doc, err := encodeSections(resume)
	if err != nil {
		return Resume{}, err
	}
	const query = `
UPDATE resumes SET
  title = $3,
  thumbnail_link = $4,
  template = $5,
  profile_info = $6,
  contact_info = $7,
  work_experience = $8,
  education = $9,
  skills = $10,
  projects = $11,
  certifications = $12,
  languages = $13,
  interests = $14,
  updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING created_at, updated_at`
	args := append([]any{key.ID, key.UserID, resume.Title, resume.ThumbnailLink}, doc...)
	resume.ID = key.ID
	resume.UserID = key.UserID
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&resume.CreatedAt, &resume.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) DeleteOwned(ctx context.Context, key OwnerKey) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, key.ID, key.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CountFileReferences(ctx context.Context, urlSuffix, excludeID string) (int, error) {
	if urlSuffix == "" {
		return 0, nil
	}
	const query = `
SELECT COUNT(*)
FROM resumes
WHERE id <> $2
  AND (right(thumbnail_link, $3) = $1 OR right(profile_info->>'profilePreviewUrl', $3) = $1)`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, urlSuffix, excludeID, len([]rune(urlSuffix))).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// encodeSections returns the JSONB column values in column order, template through interests.
func encodeSections(resume Resume) ([]any, error) {
	sections := []any{
		resume.Template,
		resume.ProfileInfo,
		resume.ContactInfo,
		nonNil(resume.WorkExperience),
		nonNil(resume.Education),
		nonNil(resume.Skills),
		nonNil(resume.Projects),
		nonNil(resume.Certifications),
		nonNil(resume.Languages),
		nonNil(resume.Interests),
	}
	out := make([]any, len(sections))
	for i, section := range sections {
		b, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("encode resume section %d: %w", i, err)
		}
		out[i] = string(b)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		resume   Resume
		sections [10][]byte
	)
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.ThumbnailLink,
		&sections[0],
		&sections[1],
		&sections[2],
		&sections[3],
		&sections[4],
		&sections[5],
		&sections[6],
		&sections[7],
		&sections[8],
		&sections[9],
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	targets := []any{
		&resume.Template,
		&resume.ProfileInfo,
		&resume.ContactInfo,
		&resume.WorkExperience,
		&resume.Education,
		&resume.Skills,
		&resume.Projects,
		&resume.Certifications,
		&resume.Languages,
		&resume.Interests,
	}
	for i, target := range targets {
		if len(sections[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(sections[i], target); err != nil {
			return Resume{}, fmt.Errorf("decode resume section %d: %w", i, err)
		}
	}
	return resume, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
