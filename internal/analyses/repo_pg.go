package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, file_name, personal_details, resume_content, skills, ai_feedback, overall_score, created_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO resume_analyses (
	id, file_name, personal_details, resume_content, skills, ai_feedback, overall_score, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	rec.ID = uuid.NewString()
	rec.CreatedAt = creationTime()

	personal, err := marshalNullable(rec.PersonalDetails)
	if err != nil {
		return Record{}, err
	}
	content, err := marshalNullable(rec.ResumeContent)
	if err != nil {
		return Record{}, err
	}
	skills, err := json.Marshal(rec.Skills)
	if err != nil {
		return Record{}, fmt.Errorf("encode skills: %w", err)
	}
	feedback, err := json.Marshal(rec.AIFeedback)
	if err != nil {
		return Record{}, fmt.Errorf("encode aiFeedback: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.FileName,
		personal,
		content,
		skills,
		feedback,
		rec.OverallScore,
		rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all analyses, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Record, error) {
	query := `SELECT ` + selectColumns + `
FROM resume_analyses
ORDER BY created_at DESC, seq DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns an analysis by ID. Malformed IDs are reported as not found.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}
	query := `SELECT ` + selectColumns + `
FROM resume_analyses
WHERE id = $1
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec      Record
		personal []byte
		content  []byte
		skills   []byte
		feedback []byte
	)
	if err := row.Scan(
		&rec.ID,
		&rec.FileName,
		&personal,
		&content,
		&skills,
		&feedback,
		&rec.OverallScore,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	if err := decodeColumns(&rec, personal, content, skills, feedback); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// decodeColumns fills the nested fields of rec from their JSON columns.
// NULL optional columns leave the field nil.
func decodeColumns(rec *Record, personal, content, skills, feedback []byte) error {
	if len(personal) > 0 && string(personal) != "null" {
		rec.PersonalDetails = &PersonalDetails{}
		if err := json.Unmarshal(personal, rec.PersonalDetails); err != nil {
			return fmt.Errorf("decode personal_details: %w", err)
		}
	}
	if len(content) > 0 && string(content) != "null" {
		rec.ResumeContent = &ResumeContent{}
		if err := json.Unmarshal(content, rec.ResumeContent); err != nil {
			return fmt.Errorf("decode resume_content: %w", err)
		}
	}
	if err := json.Unmarshal(skills, &rec.Skills); err != nil {
		return fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(feedback, &rec.AIFeedback); err != nil {
		return fmt.Errorf("decode ai_feedback: %w", err)
	}
	rec.Skills.Technical = nonNil(rec.Skills.Technical)
	rec.Skills.Soft = nonNil(rec.Skills.Soft)
	rec.AIFeedback.ImprovementAreas = nonNil(rec.AIFeedback.ImprovementAreas)
	rec.AIFeedback.SuggestedSkills = nonNil(rec.AIFeedback.SuggestedSkills)
	return nil
}

// marshalNullable encodes v as JSON, or returns nil so the column stores NULL.
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return data, nil
}
