// Package beename serves random bee names and moderates user suggestions.
package beename

import (
	"context"
	"fmt"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/repository"
)

// Service defines the bee name operations exposed by the API and bots
type Service interface {
	Random(ctx context.Context) (string, error)
	Upload(ctx context.Context, name string) (string, error)
	Delete(ctx context.Context, name string) (string, error)
	Count(ctx context.Context) (int64, error)

	Submit(ctx context.Context, name string) (string, error)
	// Suggestions returns the oldest suggestions, amount clamped to [1, MaxSuggestionCap]
	Suggestions(ctx context.Context, amount int) ([]string, error)
	Accept(ctx context.Context, name string) (string, error)
	Reject(ctx context.Context, name string) (string, error)
}

type service struct {
	repo repository.BeeName
	bus  event.Bus
}

// NewService creates a new bee name service
func NewService(repo repository.BeeName, bus event.Bus) Service {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &service{repo: repo, bus: bus}
}

func (s *service) Random(ctx context.Context) (string, error) {
	name, err := s.repo.Random(ctx)
	if err != nil {
		return "", fmt.Errorf(ErrContextRandom, err)
	}
	s.publish(ctx, event.BeeNameServed, name.Name)
	return name.Name, nil
}

func (s *service) Upload(ctx context.Context, name string) (string, error) {
	name, err := domain.NormalizeBeeName(name)
	if err != nil {
		return "", err
	}
	if err := s.repo.Insert(ctx, name); err != nil {
		return "", fmt.Errorf(ErrContextUpload, name, err)
	}
	logger.FromContext(ctx).Info(LogMsgNameUploaded, "name", name)
	return name, nil
}

func (s *service) Delete(ctx context.Context, name string) (string, error) {
	name, err := domain.NormalizeBeeName(name)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return "", fmt.Errorf(ErrContextDelete, name, err)
	}
	logger.FromContext(ctx).Info(LogMsgNameDeleted, "name", name)
	return name, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *service) Submit(ctx context.Context, name string) (string, error) {
	name, err := domain.NormalizeBeeName(name)
	if err != nil {
		return "", err
	}
	if err := s.repo.InsertSuggestion(ctx, name); err != nil {
		return "", fmt.Errorf(ErrContextSubmit, name, err)
	}
	logger.FromContext(ctx).Info(LogMsgSuggestionReceived, "name", name)
	s.publish(ctx, event.BeeNameSuggested, name)
	return name, nil
}

func (s *service) Suggestions(ctx context.Context, amount int) ([]string, error) {
	amount = clampAmount(amount)
	suggestions, err := s.repo.Suggestions(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf(ErrContextSuggestions, err)
	}
	names := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		names = append(names, sg.Name)
	}
	return names, nil
}

func clampAmount(amount int) int {
	if amount < domain.DefaultSuggestionCap {
		return domain.DefaultSuggestionCap
	}
	if amount > domain.MaxSuggestionCap {
		return domain.MaxSuggestionCap
	}
	return amount
}

func (s *service) Accept(ctx context.Context, name string) (string, error) {
	name, err := domain.NormalizeBeeName(name)
	if err != nil {
		return "", err
	}
	if err := s.repo.AcceptSuggestion(ctx, name); err != nil {
		return "", fmt.Errorf(ErrContextAccept, name, err)
	}
	logger.FromContext(ctx).Info(LogMsgSuggestionAccepted, "name", name)
	s.publish(ctx, event.BeeNameAccepted, name)
	return name, nil
}

func (s *service) Reject(ctx context.Context, name string) (string, error) {
	name, err := domain.NormalizeBeeName(name)
	if err != nil {
		return "", err
	}
	if err := s.repo.DeleteSuggestion(ctx, name); err != nil {
		return "", fmt.Errorf(ErrContextReject, name, err)
	}
	logger.FromContext(ctx).Info(LogMsgSuggestionRejected, "name", name)
	s.publish(ctx, event.BeeNameRejected, name)
	return name, nil
}

func (s *service) publish(ctx context.Context, t event.Type, name string) {
	if err := s.bus.Publish(ctx, event.NewBeeNameEvent(t, name)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", t, "error", err)
	}
}
