package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// ScoreRequest is one feature vector to score, as decoded from the request body.
type ScoreRequest struct {
	RequestID string
	Features  any
}

type InferenceService struct {
	loader   *ArtifactLoader
	cache    ports.PredictionCache
	predLog  ports.PredictionLog
	recorder ports.Recorder
}

// NewInferenceService builds the scoring service. cache, predLog and recorder
// may be nil.
func NewInferenceService(
	loader *ArtifactLoader,
	cache ports.PredictionCache,
	predLog ports.PredictionLog,
	recorder ports.Recorder,
) *InferenceService {
	return &InferenceService{
		loader:   loader,
		cache:    cache,
		predLog:  predLog,
		recorder: recorder,
	}
}

func (s *InferenceService) ModelInfo(ctx context.Context) (*domain.Metadata, error) {
	a, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return a.Metadata, nil
}

func (s *InferenceService) Predict(ctx context.Context, req ScoreRequest) (result *domain.Prediction, err error) {
	start := time.Now()
	outcome := ports.OutcomeOK
	defer func() { s.observe(domain.OpPredict, outcome, err, start) }()

	a, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	x, err := ValidateFeatures(req.Features, a.Metadata.NFeatures)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if p, ok := s.cache.GetPrediction(x); ok {
			outcome = ports.OutcomeCacheHit
			s.auditPrediction(ctx, req.RequestID, a.Metadata.ModelType, x, p, start)
			return p, nil
		}
	}

	var idx []int
	if err := guard(func() (err error) {
		idx, err = a.Model.Predict([][]float64{x})
		return err
	}); err != nil {
		return nil, err
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: model returned no prediction", domain.ErrPrediction)
	}

	result = &domain.Prediction{Index: idx[0], Label: a.Metadata.Label(idx[0])}
	if s.cache != nil {
		s.cache.AddPrediction(x, result)
	}

	s.auditPrediction(ctx, req.RequestID, a.Metadata.ModelType, x, result, start)

	return result, nil
}

func (s *InferenceService) PredictProba(ctx context.Context, req ScoreRequest) (result *domain.ProbaPrediction, err error) {
	start := time.Now()
	outcome := ports.OutcomeOK
	defer func() { s.observe(domain.OpPredictProba, outcome, err, start) }()

	a, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !a.Model.SupportsProba() {
		return nil, fmt.Errorf("%w: This model (%s) does not support predict_proba().",
			domain.ErrUnsupportedOperation, a.Model.Kind)
	}

	x, err := ValidateFeatures(req.Features, a.Metadata.NFeatures)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if p, ok := s.cache.GetProba(x); ok {
			outcome = ports.OutcomeCacheHit
			s.auditProba(ctx, req.RequestID, a.Metadata.ModelType, x, p, start)
			return p, nil
		}
	}

	var rows [][]float64
	if err := guard(func() (err error) {
		rows, err = a.Model.PredictProba([][]float64{x})
		return err
	}); err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: model returned no probabilities", domain.ErrPrediction)
	}

	probs := rows[0]
	result = &domain.ProbaPrediction{
		Probabilities: probs,
		Classes:       a.Metadata.ClassLabels(len(probs)),
	}
	if s.cache != nil {
		s.cache.AddProba(x, result)
	}

	s.auditProba(ctx, req.RequestID, a.Metadata.ModelType, x, result, start)

	return result, nil
}

// guard runs a model call and reports both returned errors and panics as
// prediction errors carrying the original text.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrPrediction, r)
		}
	}()
	if err := fn(); err != nil {
		if errors.Is(err, domain.ErrPrediction) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrPrediction, err)
	}
	return nil
}

// auditPrediction and auditProba record every answered call, cache hits
// included.
func (s *InferenceService) auditPrediction(ctx context.Context, requestID, modelType string, x []float64, p *domain.Prediction, start time.Time) {
	if s.predLog == nil {
		return
	}
	rec := domain.NewPredictionRecord(requestID, domain.OpPredict, modelType, x)
	index := p.Index
	rec.Prediction = &index
	rec.Label = p.Label
	s.audit(ctx, rec, start)
}

func (s *InferenceService) auditProba(ctx context.Context, requestID, modelType string, x []float64, p *domain.ProbaPrediction, start time.Time) {
	if s.predLog == nil {
		return
	}
	rec := domain.NewPredictionRecord(requestID, domain.OpPredictProba, modelType, x)
	rec.Probabilities = p.Probabilities
	s.audit(ctx, rec, start)
}

func (s *InferenceService) audit(ctx context.Context, rec *domain.PredictionRecord, start time.Time) {
	rec.LatencyMS = time.Since(start).Milliseconds()
	if err := s.predLog.Save(ctx, rec); err != nil {
		log.WithError(err).WithField("request_id", rec.RequestID).Warn("save prediction record failed")
	}
}

func (s *InferenceService) observe(op domain.Operation, outcome string, err error, start time.Time) {
	if s.recorder == nil {
		return
	}
	if err != nil {
		outcome = outcomeOf(err)
	}
	s.recorder.ObservePrediction(string(op), outcome, time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedOperation),
		errors.Is(err, domain.ErrPrediction):
		return ports.OutcomeClientError
	default:
		return ports.OutcomeServerError
	}
}
