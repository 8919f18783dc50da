package points

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/bobarewards/internal/clock"
	"github.com/julianstephens/bobarewards/internal/constants"
	"github.com/julianstephens/bobarewards/internal/levels"
	"github.com/julianstephens/bobarewards/internal/logger"
	"github.com/julianstephens/bobarewards/internal/models"
)

// Service applies awards to a profile and keeps its level label in step with the balance.
type Service struct {
	levels levels.Resolver
	clock  clock.Clock
}

func NewService(resolver levels.Resolver, c clock.Clock) *Service {
	if resolver == nil {
		resolver = levels.Default
	}
	return &Service{levels: resolver, clock: c}
}

// Award credits n points from source to the profile. It returns the updated
// profile and the award record to persist alongside it; a nil award means
// nothing was credited.
func (s *Service) Award(profile models.Profile, source constants.AwardSource, n int, description string) (models.Profile, *models.Award) {
	if n < 0 {
		logger.Warn("Ignoring negative point award", "source", source, "points", n)
		return profile, nil
	}
	if n == 0 {
		return profile, nil
	}

	before := profile.Level
	ledger := Award(Ledger{Balance: profile.Balance, Level: profile.Level}, n)
	profile.Balance = ledger.Balance
	profile.Level = s.Level(profile.Balance)
	if profile.Level != before {
		logger.Info("Level changed", "from", before, "to", profile.Level, "balance", profile.Balance)
	}

	now := s.clock.Now()
	award := &models.Award{
		ID:          uuid.NewString(),
		Day:         s.clock.Today(),
		Source:      string(source),
		Points:      n,
		Description: description,
		CreatedAt:   now,
	}
	logger.Debug("Awarded points", "source", source, "points", n, "balance", profile.Balance)
	return profile, award
}

// Level resolves the label for a balance
func (s *Service) Level(balance int) string {
	return s.levels.Resolve(balance)
}

// Describe renders the default award description for a source
func Describe(source constants.AwardSource, n int) string {
	switch source {
	case constants.SourceCheckin:
		return fmt.Sprintf("Daily check-in +%d pts", n)
	case constants.SourceQuiz:
		return fmt.Sprintf("Daily quiz +%d pts", n)
	default:
		return fmt.Sprintf("+%d pts", n)
	}
}

// SeedProfile returns the profile created on registration
func SeedProfile(name, email string, c clock.Clock) models.Profile {
	return models.Profile{
		Name:     name,
		Email:    email,
		Balance:  constants.SeedBalance,
		Level:    constants.SeedLevel,
		JoinedAt: c.Now(),
	}
}
