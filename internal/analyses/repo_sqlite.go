package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteRow is the embedded-store row. Seq orders records that share a
// creation timestamp.
type sqliteRow struct {
	Seq             int64          `gorm:"primaryKey;autoIncrement"`
	ID              string         `gorm:"uniqueIndex;size:36;not null"`
	FileName        string         `gorm:"not null"`
	PersonalDetails datatypes.JSON
	ResumeContent   datatypes.JSON
	Skills          datatypes.JSON `gorm:"not null"`
	AIFeedback      datatypes.JSON `gorm:"not null"`
	OverallScore    float64        `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"index;not null"`
}

func (sqliteRow) TableName() string { return "resume_analyses" }

// SQLiteRepo implements Repo on an embedded SQLite file through GORM.
type SQLiteRepo struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database file and migrates the schema.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&sqliteRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate resume_analyses: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

// Close releases the underlying connection.
func (r *SQLiteRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create inserts a new analysis.
func (r *SQLiteRepo) Create(ctx context.Context, rec Record) (Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = creationTime()

	row := sqliteRow{
		ID:           rec.ID,
		FileName:     rec.FileName,
		OverallScore: rec.OverallScore,
		CreatedAt:    rec.CreatedAt,
	}
	var err error
	if row.PersonalDetails, err = jsonColumn(rec.PersonalDetails); err != nil {
		return Record{}, err
	}
	if row.ResumeContent, err = jsonColumn(rec.ResumeContent); err != nil {
		return Record{}, err
	}
	if row.Skills, err = json.Marshal(rec.Skills); err != nil {
		return Record{}, fmt.Errorf("encode skills: %w", err)
	}
	if row.AIFeedback, err = json.Marshal(rec.AIFeedback); err != nil {
		return Record{}, fmt.Errorf("encode aiFeedback: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all analyses, newest first.
func (r *SQLiteRepo) List(ctx context.Context) ([]Record, error) {
	var rows []sqliteRow
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("seq DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetByID returns an analysis by ID.
func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (Record, error) {
	var row sqliteRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return row.record()
}

func (row sqliteRow) record() (Record, error) {
	rec := Record{
		ID:           row.ID,
		FileName:     row.FileName,
		OverallScore: row.OverallScore,
		CreatedAt:    row.CreatedAt.UTC(),
	}
	if err := decodeColumns(&rec, row.PersonalDetails, row.ResumeContent, row.Skills, row.AIFeedback); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func jsonColumn[T any](v *T) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return datatypes.JSON(data), nil
}
