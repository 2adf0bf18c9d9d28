// Package onboarding registers a new partner school together with the
// devices it receives.
package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/ident"
	"github.com/erazemk/devicetrack/internal/model"
	"github.com/erazemk/devicetrack/internal/store"
)

// DefaultActor is recorded as last-modified-by when no actor is configured.
const DefaultActor = "Admin"

// SchoolInput identifies the school being onboarded.
type SchoolInput struct {
	SchoolCode string `json:"schoolId"`
	Name       string `json:"name"`
}

// Result is the outcome of a successful onboarding.
type Result struct {
	School  *model.School   `json:"school"`
	Devices []CreatedDevice `json:"devices"`
}

// Recorder observes successful onboardings. It may be nil.
type Recorder interface {
	Onboarded(kind RequestKind, devices int)
}

// Service runs the onboarding workflow.
type Service struct {
	DB        *sql.DB
	Actor     string
	Logger    *zap.Logger
	Recorder  Recorder
	NewItemID func() (string, error)
}

// NewService returns a Service with default actor, id generator and logger.
func NewService(database *sql.DB, actor string, logger *zap.Logger) *Service {
	if actor == "" {
		actor = DefaultActor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{DB: database, Actor: actor, Logger: logger, NewItemID: ident.NewItemID}
}

// Onboard creates the school and then every requested device. Both steps
// share one transaction: if any device fails, the school and all devices
// created before it are rolled back.
func (s *Service) Onboard(ctx context.Context, school SchoolInput, req DeviceRequest) (*Result, error) {
	if s.DB == nil {
		return nil, errors.New("onboarding: nil database")
	}

	newItemID := s.NewItemID
	if newItemID == nil {
		newItemID = ident.NewItemID
	}

	result := &Result{Devices: []CreatedDevice{}}
	err := db.InTx(ctx, s.DB, func(tx *sql.Tx) error {
		created, err := store.CreateSchool(ctx, tx, school.SchoolCode, school.Name)
		if err != nil {
			return err
		}
		result.School = created

		if req.Empty() {
			return nil
		}

		devices, err := createUnits(ctx, tx, created.ID, school.SchoolCode, s.Actor, newItemID, req.plan())
		if err != nil {
			return err
		}
		result.Devices = devices
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding school %q: %w", school.Name, err)
	}

	s.logger().Info("school onboarded",
		zap.Int64("school_id", result.School.ID),
		zap.String("school_code", result.School.SchoolCode),
		zap.Int("devices", len(result.Devices)),
	)
	if s.Recorder != nil {
		s.Recorder.Onboarded(req.Kind, len(result.Devices))
	}

	return result, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
