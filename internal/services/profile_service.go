package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/talent"
	"github.com/yoockh/talentscope/internal/utils"
)

type ProfileService interface {
	Profile(ctx context.Context, username string) (*models.Profile, error)
	Candidate(ctx context.Context, username string) (*models.Candidate, error)
}

type profileService struct {
	fetcher     torre.ProfileFetcher
	transformer *talent.Transformer
	log         *logrus.Entry
	now         func() time.Time
}

// NewProfileService fetches on every call. Profiles are viewed with the
// caller's own upstream credentials, so they are never shared through a cache.
func NewProfileService(f torre.ProfileFetcher, tr *talent.Transformer, l *logrus.Logger) ProfileService {
	return &profileService{
		fetcher:     f,
		transformer: tr,
		log:         logger.Component(l, "profile"),
		now:         time.Now,
	}
}

func (s *profileService) Profile(ctx context.Context, username string) (*models.Profile, error) {
	const op = "ProfileService.Profile"

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Identifier is required", nil)
	}

	raw, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	p, err := s.transformer.TransformProfile(raw, s.now())
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	s.log.WithField("username", username).Debug("profile fetched")
	return &p, nil
}

func (s *profileService) Candidate(ctx context.Context, username string) (*models.Candidate, error) {
	const op = "ProfileService.Candidate"

	p, err := s.Profile(ctx, username)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Candidate not found", err)
		}
		return nil, utils.Wrap(op, err)
	}
	c := s.transformer.CandidateFromProfile(*p)
	return &c, nil
}
