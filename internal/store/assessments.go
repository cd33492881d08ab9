package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/agripulse/internal/agronomy"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// AssessmentRecord is one persisted assessment: the inputs that were actually
// used (after climate and prediction fallbacks) and the engine result.
type AssessmentRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Crop             string                  `gorm:"index" json:"crop"`
	PreviousCrop     string                  `json:"previousCrop,omitempty"`
	Soil             agronomy.SoilSample     `gorm:"embedded;embeddedPrefix:soil_" json:"soil"`
	Climate          agronomy.ClimateReading `gorm:"embedded;embeddedPrefix:climate_" json:"climate"`
	ClimateSource    string                  `json:"climateSource"`
	PredictionSource string                  `json:"predictionSource"`

	FertilityScore  int                    `json:"fertilityScore"`
	RawYield        float64                `json:"rawYieldKgHa"`
	CropFactor      float64                `json:"cropFactor"`
	Stress          agronomy.StressFactors `gorm:"embedded;embeddedPrefix:stress_" json:"stress"`
	AdjustedYield   float64                `json:"adjustedYieldKgHa"`
	Remark          string                 `gorm:"index" json:"remark"`
	Recommendations []string               `gorm:"serializer:json" json:"recommendations"`
}

// NewAssessmentRecord flattens an engine input and result into a record.
func NewAssessmentRecord(in agronomy.Input, a agronomy.Assessment) *AssessmentRecord {
	return &AssessmentRecord{
		Crop:            a.Crop,
		PreviousCrop:    agronomy.DisplayCropName(in.PreviousCrop),
		Soil:            in.Soil,
		Climate:         in.Climate,
		FertilityScore:  a.FertilityScore,
		RawYield:        a.Yield.RawYield,
		CropFactor:      a.Yield.CropFactor,
		Stress:          a.Yield.Stress,
		AdjustedYield:   a.Yield.AdjustedYield,
		Remark:          string(a.Yield.Remark),
		Recommendations: a.Recommendations,
	}
}

// Assessment rebuilds the engine result held by the record.
func (r AssessmentRecord) Assessment() agronomy.Assessment {
	return agronomy.Assessment{
		Crop:           r.Crop,
		FertilityScore: r.FertilityScore,
		Yield: agronomy.YieldEstimate{
			RawYield:      r.RawYield,
			CropFactor:    r.CropFactor,
			Stress:        r.Stress,
			AdjustedYield: r.AdjustedYield,
			Remark:        agronomy.Remark(r.Remark),
		},
		Recommendations: r.Recommendations,
	}
}

// AssessmentFilter narrows List results. Zero values match everything.
type AssessmentFilter struct {
	Crop   string
	Remark string
	Limit  int
}

// AssessmentStore persists assessments in SQLite through gorm.
type AssessmentStore struct {
	db *gorm.DB
}

// OpenAssessmentStore opens (creating if needed) the SQLite database at path.
func OpenAssessmentStore(path string) (*AssessmentStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open assessment db: %w", err)
	}
	return NewAssessmentStore(db)
}

// NewAssessmentStore wraps an existing connection and migrates the schema.
func NewAssessmentStore(db *gorm.DB) (*AssessmentStore, error) {
	if err := db.AutoMigrate(&AssessmentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate assessment schema: %w", err)
	}
	return &AssessmentStore{db: db}, nil
}

// Save inserts a record, assigning an ID and creation time when missing.
func (s *AssessmentStore) Save(ctx context.Context, rec *AssessmentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

// Get returns the record with the given ID or ErrNotFound.
func (s *AssessmentStore) Get(ctx context.Context, id string) (AssessmentRecord, error) {
	var rec AssessmentRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AssessmentRecord{}, ErrNotFound
	}
	if err != nil {
		return AssessmentRecord{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return rec, nil
}

// List returns records newest first.
func (s *AssessmentStore) List(ctx context.Context, f AssessmentFilter) ([]AssessmentRecord, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	q := s.db.WithContext(ctx).Model(&AssessmentRecord{})
	if f.Crop != "" {
		q = q.Where("crop = ?", agronomy.DisplayCropName(f.Crop))
	}
	if f.Remark != "" {
		q = q.Where("remark = ?", f.Remark)
	}

	var out []AssessmentRecord
	if err := q.Order("created_at DESC").Order("id").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *AssessmentStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
