package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/internal/store"
	"github.com/iwvelando/loan-match/pkg/events"
	"go.uber.org/zap"
)

// Application is a borrower's request for a loan.
type Application struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	LoanAmount    float64   `json:"loanAmount"`
	LoanPurpose   string    `json:"loanPurpose"`
	PreferredTerm *int      `json:"preferredTerm,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Key returns the application ID.
func (a Application) Key() string {
	return a.ID
}

// Service resolves borrower context from the profile and application
// repositories. It implements recommend.BorrowerDataProvider.
type Service struct {
	profiles     store.Repository[UserProfile]
	applications store.Repository[Application]
	bus          *events.Bus
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a Service. bus may be nil.
func NewService(profiles store.Repository[UserProfile], applications store.Repository[Application], bus *events.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:     profiles,
		applications: applications,
		bus:          bus,
		logger:       logger,
		now:          time.Now,
	}
}

// Profile returns the stored profile for userID. Missing profiles surface
// store.ErrNotFound.
func (s *Service) Profile(ctx context.Context, userID string) (UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// CriteriaForUser loads the user's profile and builds standard-strategy criteria.
func (s *Service) CriteriaForUser(ctx context.Context, userID string, loanAmount float64, loanPurpose string, prefs *recommend.UserPreferences) (recommend.BorrowerCriteria, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return recommend.BorrowerCriteria{}, err
	}
	return ExtractCriteriaAt(p, loanAmount, loanPurpose, prefs, s.now()), nil
}

// FinancialData returns the weighted strategy inputs for userID. The loan
// purpose comes from the user's most recent application, if any.
func (s *Service) FinancialData(ctx context.Context, userID string) (recommend.FinancialData, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return recommend.FinancialData{}, err
	}

	purpose := ""
	if latest, ok, err := s.LatestApplication(ctx, userID); err != nil {
		return recommend.FinancialData{}, err
	} else if ok {
		purpose = latest.LoanPurpose
	}
	return p.FinancialData(purpose), nil
}

// LatestApplication returns the user's most recently submitted application.
func (s *Service) LatestApplication(ctx context.Context, userID string) (Application, bool, error) {
	if s.applications == nil {
		return Application{}, false, nil
	}
	all, err := s.applications.List(ctx)
	if err != nil {
		return Application{}, false, fmt.Errorf("failed to list applications: %w", err)
	}

	var latest Application
	found := false
	for _, app := range all {
		if app.UserID != userID {
			continue
		}
		if !found || !app.SubmittedAt.Before(latest.SubmittedAt) {
			latest = app
			found = true
		}
	}
	return latest, found, nil
}

// SubmitApplication validates and stores an application for an existing
// user, assigning its ID and submission time.
func (s *Service) SubmitApplication(ctx context.Context, app Application) (Application, error) {
	if strings.TrimSpace(app.UserID) == "" {
		return Application{}, &recommend.InvalidInputError{Field: "userId", Reason: "is required"}
	}
	if app.LoanAmount <= 0 {
		return Application{}, &recommend.InvalidInputError{Field: "loanAmount", Reason: fmt.Sprintf("must be positive, got %v", app.LoanAmount)}
	}
	if app.PreferredTerm != nil && *app.PreferredTerm <= 0 {
		return Application{}, &recommend.InvalidInputError{Field: "preferredTerm", Reason: fmt.Sprintf("must be positive, got %d", *app.PreferredTerm)}
	}
	if _, err := s.profiles.Get(ctx, app.UserID); err != nil {
		return Application{}, err
	}
	if s.applications == nil {
		return Application{}, fmt.Errorf("no application repository configured")
	}

	app.ID = store.NewID()
	app.SubmittedAt = s.now().UTC()
	if err := s.applications.Put(ctx, app); err != nil {
		return Application{}, fmt.Errorf("failed to store application: %w", err)
	}

	s.logger.Info("application submitted",
		zap.String("op", "profile.SubmitApplication"),
		zap.String("applicationID", app.ID),
		zap.String("userID", app.UserID),
	)
	if s.bus != nil {
		s.bus.Publish(events.TopicApplicationSubmitted, map[string]interface{}{
			"applicationId": app.ID,
			"userId":        app.UserID,
			"loanAmount":    app.LoanAmount,
			"loanPurpose":   app.LoanPurpose,
		})
	}
	return app, nil
}
