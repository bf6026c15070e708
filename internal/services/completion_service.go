package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/completion"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/metrics"
)

// CompletionService implements completion.Service
type CompletionService struct {
	client    completion.Client
	users     user.Repository
	coreModel string
	plusModel string
	maxTokens int
	logger    *logger.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(client completion.Client, users user.Repository, cfg config.OpenAIConfig, log *logger.Logger) *CompletionService {
	return &CompletionService{
		client:    client,
		users:     users,
		coreModel: cfg.CoreModel,
		plusModel: cfg.PlusModel,
		maxTokens: cfg.MaxTokens,
		logger:    log,
	}
}

var _ completion.Service = (*CompletionService)(nil)

// CompleteBasic proxies prompt to the core model
func (s *CompletionService) CompleteBasic(ctx context.Context, sess *session.Session, prompt string) (*completion.Response, error) {
	if sess.UserID() == "" {
		metrics.RecordCompletion(string(completion.TierCore), "unauthorized", 0)
		return nil, errors.Unauthorized("Unauthorized")
	}
	return s.complete(ctx, completion.TierCore, s.coreModel, sess.UserID(), prompt, "Arc-Core API error")
}

// CompletePremium proxies prompt to the plus model. Premium status is read
// from the store, never from the session snapshot.
func (s *CompletionService) CompletePremium(ctx context.Context, sess *session.Session, prompt string) (*completion.Response, error) {
	userID := sess.UserID()
	if userID == "" {
		metrics.RecordCompletion(string(completion.TierPlus), "unauthorized", 0)
		return nil, errors.Forbidden("Arc-Plus access required")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil && !errors.IsNotFound(err) {
		s.logger.ErrorWithErr(err, "Failed to load user for premium check")
		return nil, err
	}
	if u == nil || !u.IsPremium {
		metrics.RecordCompletion(string(completion.TierPlus), "forbidden", 0)
		return nil, errors.Forbidden("Arc-Plus access required")
	}

	return s.complete(ctx, completion.TierPlus, s.plusModel, userID, prompt, "Arc-Plus API error")
}

func (s *CompletionService) complete(ctx context.Context, tier completion.Tier, model, userID, prompt, failMsg string) (*completion.Response, error) {
	start := time.Now()
	resp, err := s.client.Complete(ctx, model, prompt, s.maxTokens)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordCompletion(string(tier), "failed", elapsed)
		s.logger.WithFields(map[string]interface{}{
			"tier":    tier,
			"model":   model,
			"user_id": userID,
		}).ErrorWithErr(err, "Completion request failed")
		return nil, errors.GatewayError(failMsg, err)
	}

	metrics.RecordCompletion(string(tier), "ok", elapsed)
	s.logger.WithFields(map[string]interface{}{
		"tier":        tier,
		"model":       model,
		"user_id":     userID,
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Completion served")

	return resp, nil
}
