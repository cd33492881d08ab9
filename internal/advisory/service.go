// Package advisory runs complete assessments: it validates a request,
// resolves climate and a raw yield prediction, evaluates the agronomy rules
// and records the outcome.
package advisory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/agripulse/internal/agronomy"
	"github.com/i474232898/agripulse/internal/climate"
	"github.com/i474232898/agripulse/internal/metrics"
	"github.com/i474232898/agripulse/internal/predictor"
	"github.com/i474232898/agripulse/internal/store"
)

// Where the climate and raw yield of a Result came from.
const (
	SourceRequest   = "request"
	SourcePredictor = "predictor"
	SourceFallback  = "fallback"
)

// ClimateResolver resolves the climate of a location. It never fails.
type ClimateResolver interface {
	Resolve(ctx context.Context, loc climate.Location) climate.Reading
}

// Store persists assessments.
type Store interface {
	Save(ctx context.Context, rec *store.AssessmentRecord) error
	Get(ctx context.Context, id string) (store.AssessmentRecord, error)
	List(ctx context.Context, f store.AssessmentFilter) ([]store.AssessmentRecord, error)
}

// Options wires the service's collaborators. Only Engine is required;
// missing collaborators fall back to defaults or are skipped.
type Options struct {
	Engine    *agronomy.Engine
	Climate   ClimateResolver
	Predictor predictor.Predictor
	Store     Store
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Service runs assessments against an engine and its collaborators.
type Service struct {
	engine    *agronomy.Engine
	climate   ClimateResolver
	predictor predictor.Predictor
	store     Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a Service. A nil Engine, Predictor or Logger gets a default.
func NewService(opts Options) *Service {
	if opts.Engine == nil {
		opts.Engine = agronomy.NewEngine(nil)
	}
	if opts.Predictor == nil {
		opts.Predictor = predictor.NewStatic(agronomy.DatasetAverageYield)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		engine:    opts.Engine,
		climate:   opts.Climate,
		predictor: opts.Predictor,
		store:     opts.Store,
		metrics:   opts.Metrics,
		logger:    opts.Logger.Named("advisory"),
	}
}

// Engine returns the rule engine the service evaluates with.
func (s *Service) Engine() *agronomy.Engine {
	return s.engine
}

// Assess runs one complete assessment. Only invalid input is an error;
// climate, prediction and persistence failures degrade to documented defaults.
func (s *Service) Assess(ctx context.Context, req Request) (Result, error) {
	if err := validateStruct(req, req.Crop); err != nil {
		return Result{}, err
	}

	in := agronomy.Input{
		Crop:         req.Crop,
		PreviousCrop: req.PreviousCrop,
		Soil:         req.soil(),
	}
	var climateSource string
	in.Climate, climateSource = s.resolveClimate(ctx, req)

	features := agronomy.DeriveFeatures(in)
	raw, predictionSource := s.rawYield(ctx, req, features)

	a := s.engine.Evaluate(raw, in)
	res := Result{
		CreatedAt:        time.Now().UTC(),
		Input:            in,
		Features:         features,
		ClimateSource:    climateSource,
		PredictionSource: predictionSource,
		Assessment:       a,
	}

	if s.store != nil {
		rec := store.NewAssessmentRecord(in, a)
		rec.CreatedAt = res.CreatedAt
		rec.ClimateSource = climateSource
		rec.PredictionSource = predictionSource
		if err := s.store.Save(ctx, rec); err != nil {
			s.logger.Error("failed to persist assessment", zap.String("crop", a.Crop), zap.Error(err))
		} else {
			res.ID = rec.ID
		}
	}

	s.metrics.RecordAssessment(a.Crop, string(a.Yield.Remark), a.Yield.AdjustedYield)
	s.logger.Info("assessment completed",
		zap.String("id", res.ID),
		zap.String("crop", a.Crop),
		zap.Int("fertilityScore", a.FertilityScore),
		zap.Float64("rawYield", raw),
		zap.Float64("adjustedYield", a.Yield.AdjustedYield),
		zap.String("remark", string(a.Yield.Remark)),
		zap.String("climateSource", climateSource),
		zap.String("predictionSource", predictionSource))
	return res, nil
}

// resolveClimate prefers explicit request values and resolves the rest.
func (s *Service) resolveClimate(ctx context.Context, req Request) (agronomy.ClimateReading, string) {
	if req.TemperatureC != nil && req.AnnualRainfallMm != nil {
		return agronomy.ClimateReading{TemperatureC: *req.TemperatureC, AnnualRainfallMm: *req.AnnualRainfallMm}, SourceRequest
	}

	reading := climate.Reading{
		TemperatureC:     climate.DefaultTemperatureC,
		AnnualRainfallMm: climate.DefaultAnnualRainfallMm,
		Source:           climate.SourceDefault,
	}
	if s.climate != nil {
		reading = s.climate.Resolve(ctx, climate.Location{City: req.City, Country: req.Country})
	}
	if reading.Source == climate.SourceDefault {
		s.metrics.RecordClimateFallback()
	}

	out := agronomy.ClimateReading{TemperatureC: reading.TemperatureC, AnnualRainfallMm: reading.AnnualRainfallMm}
	if req.TemperatureC != nil {
		out.TemperatureC = *req.TemperatureC
	}
	if req.AnnualRainfallMm != nil {
		out.AnnualRainfallMm = *req.AnnualRainfallMm
	}
	return out, string(reading.Source)
}

func (s *Service) rawYield(ctx context.Context, req Request, f agronomy.Features) (float64, string) {
	if req.RawYield != nil {
		return *req.RawYield, SourceRequest
	}
	y, err := s.predictor.Predict(ctx, f)
	if err != nil {
		s.metrics.RecordPredictorFallback()
		s.logger.Warn("yield prediction failed, using dataset average",
			zap.String("crop", f.Crop),
			zap.Error(err))
		return agronomy.DatasetAverageYield, SourceFallback
	}
	return y, SourcePredictor
}

// Fertility scores a soil sample and composes advice without predicting yield.
func (s *Service) Fertility(req FertilityRequest) (FertilityResult, error) {
	if err := validateStruct(req, req.Crop); err != nil {
		return FertilityResult{}, err
	}
	soil := agronomy.SoilSample{
		Nitrogen:   *req.Nitrogen,
		Phosphorus: *req.Phosphorus,
		Potassium:  *req.Potassium,
		PH:         *req.PH,
	}
	score := agronomy.FertilityScore(soil)
	return FertilityResult{
		Crop:            s.engine.Profile(req.Crop).Name,
		FertilityScore:  score,
		Recommendations: s.engine.Recommend(req.Crop, soil, score),
	}, nil
}

// Get returns a stored assessment or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (store.AssessmentRecord, error) {
	if s.store == nil {
		return store.AssessmentRecord{}, store.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// List returns stored assessments, newest first.
func (s *Service) List(ctx context.Context, f store.AssessmentFilter) ([]store.AssessmentRecord, error) {
	if s.store == nil {
		return []store.AssessmentRecord{}, nil
	}
	return s.store.List(ctx, f)
}
