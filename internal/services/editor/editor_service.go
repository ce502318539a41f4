package editor

import (
	"context"
	"errors"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/validator"
)

// Overview is the final step: the whole draft and everything that would
// stop it from being submitted.
type Overview struct {
	Draft  Draft             `json:"draft"`
	Issues map[string]string `json:"issues"`
	Valid  bool              `json:"valid"`
}

type Service struct {
	Store    Store
	Profiles *profile.Service
}

func NewService(store Store, profiles *profile.Service) *Service {
	return &Service{Store: store, Profiles: profiles}
}

// Get returns the caller's draft, seeded from the stored profile when no
// draft exists yet.
func (s *Service) Get(ctx context.Context, actor access.Actor) (Draft, error) {
	d, err := s.Store.Load(ctx, actor.UserID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNoDraft) {
		return Draft{}, err
	}

	agg, err := s.Profiles.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return Draft{}, err
	}
	return FromAggregate(agg), nil
}

func (s *Service) SavePersonal(ctx context.Context, actor access.Actor, p Personal) (Draft, error) {
	return s.update(ctx, actor, func(d Draft) Draft { return d.WithPersonal(p) })
}

func (s *Service) SaveExperience(ctx context.Context, actor access.Actor, e Experience) (Draft, error) {
	return s.update(ctx, actor, func(d Draft) Draft { return d.WithExperience(e) })
}

func (s *Service) SaveAchievement(ctx context.Context, actor access.Actor, a Achievement) (Draft, error) {
	return s.update(ctx, actor, func(d Draft) Draft { return d.WithAchievement(a) })
}

func (s *Service) update(ctx context.Context, actor access.Actor, step func(Draft) Draft) (Draft, error) {
	d, err := s.Get(ctx, actor)
	if err != nil {
		return Draft{}, err
	}
	d = step(d).normalized()
	if err := s.Store.Save(ctx, actor.UserID, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Overview validates the draft without writing anything.
func (s *Service) Overview(ctx context.Context, actor access.Actor) (*Overview, error) {
	d, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := &Overview{Draft: d, Issues: map[string]string{}, Valid: true}
	if err := validator.Struct(d.ToUpdate()); err != nil {
		var ve *validator.ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		out.Issues = ve.Errors
		out.Valid = false
	}
	return out, nil
}

// Submit writes the draft through the aggregate update and clears it.
func (s *Service) Submit(ctx context.Context, actor access.Actor) error {
	d, err := s.Get(ctx, actor)
	if err != nil {
		return err
	}
	if err := s.Profiles.UpdateFreelancer(ctx, actor, actor.UserID, d.ToUpdate()); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, actor.UserID); err != nil {
		// the profile is saved; a stale draft only re-seeds the editor
		logger.Warn("editor: delete draft failed", "user_id", actor.UserID, "error", err)
	}
	return nil
}

func (s *Service) Discard(ctx context.Context, actor access.Actor) error {
	return s.Store.Delete(ctx, actor.UserID)
}
