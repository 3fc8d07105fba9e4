package academy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/application/uow"
	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errAlreadyEnrolled = shared.NewDomainError("ALREADY_ENROLLED", "You are already enrolled in this class")

// AcademyService runs makeup classes and their enrollments
type AcademyService struct {
	tx          uow.TransactionScope
	classes     academy.ClassRepository
	enrollments academy.EnrollmentRepository
	users       identity.UserRepository
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewAcademyService creates a new AcademyService
func NewAcademyService(
	tx uow.TransactionScope,
	classes academy.ClassRepository,
	enrollments academy.EnrollmentRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *AcademyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademyService{
		tx:          tx,
		classes:     classes,
		enrollments: enrollments,
		users:       users,
		logger:      logger,
		now:         time.Now,
	}
}

// SetBusinessMetrics enables enrollment counters
func (s *AcademyService) SetBusinessMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

// ListClasses lists classes. The public listing only shows scheduled
// classes that have not started yet.
func (s *AcademyService) ListClasses(ctx context.Context, filter ClassListFilter, public bool) (shared.Paginated[ClassResponse], error) {
	query := academy.ClassFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   strings.TrimSpace(filter.Search),
		},
	}
	if query.OrderBy == "" {
		query.OrderBy = "start_at"
		query.OrderDir = "asc"
	}
	query.Normalize()
	if filter.Level != "" {
		level := academy.Level(filter.Level)
		query.Level = &level
	}
	if public {
		status := academy.ClassScheduled
		now := s.now()
		query.Status = &status
		query.StartsAfter = &now
	} else if filter.Status != "" {
		status := academy.ClassStatus(filter.Status)
		query.Status = &status
	}

	classes, total, err := s.classes.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[ClassResponse]{}, err
	}
	items := make([]ClassResponse, 0, len(classes))
	for i := range classes {
		items = append(items, ToClassResponse(&classes[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// GetClass returns a class by ID
func (s *AcademyService) GetClass(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	c, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r := ToClassResponse(c)
	return &r, nil
}

// GetClassBySlug returns a class by its slug
func (s *AcademyService) GetClassBySlug(ctx context.Context, slug string) (*ClassResponse, error) {
	c, err := s.classes.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	r := ToClassResponse(c)
	return &r, nil
}

// CreateClass schedules a class
func (s *AcademyService) CreateClass(ctx context.Context, req ClassRequest) (*ClassResponse, error) {
	c, err := academy.NewMakeupClass(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, c.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.classes.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Class scheduled", zap.String("class_id", c.ID.String()), zap.String("slug", c.Slug))
	r := ToClassResponse(c)
	return &r, nil
}

// UpdateClass edits a scheduled class
func (s *AcademyService) UpdateClass(ctx context.Context, id uuid.UUID, req ClassRequest) (*ClassResponse, error) {
	c, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, c.Slug, &id); err != nil {
		return nil, err
	}
	if err := s.classes.Save(ctx, c); err != nil {
		return nil, err
	}
	r := ToClassResponse(c)
	return &r, nil
}

func (s *AcademyService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.classes.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A class with this slug already exists")
	}
	return nil
}

// DeleteClass removes a class nobody ever enrolled in
func (s *AcademyService) DeleteClass(ctx context.Context, id uuid.UUID) error {
	enrollments, err := s.enrollments.FindByClass(ctx, id)
	if err != nil {
		return err
	}
	if len(enrollments) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Class has enrollments, cancel it instead")
	}
	return s.classes.Delete(ctx, id)
}

// CancelClass calls off a class and cancels all of its enrollments
func (s *AcademyService) CancelClass(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	var (
		c         *academy.MakeupClass
		cancelled int64
	)
	err := s.tx.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		c, err = repos.Classes().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.Cancel(); err != nil {
			return err
		}
		if err := repos.Classes().Save(ctx, c); err != nil {
			return err
		}
		cancelled, err = repos.Enrollments().CancelAllForClass(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Class cancelled",
		zap.String("class_id", id.String()),
		zap.Int64("enrollments_cancelled", cancelled),
	)
	r := ToClassResponse(c)
	return &r, nil
}

// CompleteClass marks a class as held
func (s *AcademyService) CompleteClass(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	c, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Complete(); err != nil {
		return nil, err
	}
	if err := s.classes.Save(ctx, c); err != nil {
		return nil, err
	}
	r := ToClassResponse(c)
	return &r, nil
}

// Enroll reserves a seat for the caller. The seat counter and the
// enrollment row are written in one transaction.
func (s *AcademyService) Enroll(ctx context.Context, userID, classID uuid.UUID) (*EnrollmentResponse, error) {
	var (
		class      *academy.MakeupClass
		enrollment *academy.Enrollment
	)
	err := s.tx.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		class, err = repos.Classes().FindByID(ctx, classID)
		if err != nil {
			return err
		}
		if err := class.CheckEnrollable(s.now()); err != nil {
			return err
		}
		_, err = repos.Enrollments().FindActive(ctx, classID, userID)
		if err == nil {
			return errAlreadyEnrolled
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := repos.Classes().ReserveSeat(ctx, classID); err != nil {
			return err
		}
		enrollment = academy.NewEnrollment(class, userID)
		if err := repos.Enrollments().Create(ctx, enrollment); err != nil {
			return err
		}
		class.EnrolledCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student enrolled",
		zap.String("class_id", classID.String()),
		zap.String("user_id", userID.String()),
	)
	if s.metrics != nil {
		s.metrics.RecordEnrollment(ctx, string(class.Level))
	}
	r := ToEnrollmentResponse(enrollment)
	cr := ToClassResponse(class)
	r.Class = &cr
	return &r, nil
}

// CancelEnrollment gives the caller's seat back before the class starts
func (s *AcademyService) CancelEnrollment(ctx context.Context, userID, enrollmentID uuid.UUID) (*EnrollmentResponse, error) {
	var e *academy.Enrollment
	err := s.tx.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		e, err = repos.Enrollments().FindByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if e.UserID != userID {
			return shared.ErrNotFound
		}
		class, err := repos.Classes().FindByID(ctx, e.ClassID)
		if err != nil {
			return err
		}
		if class.Status == academy.ClassScheduled && !class.StartAt.After(s.now()) {
			return shared.NewDomainError("CLASS_STARTED", "Class has already started")
		}
		if err := e.Cancel(); err != nil {
			return err
		}
		if err := repos.Enrollments().Update(ctx, e); err != nil {
			return err
		}
		return repos.Classes().ReleaseSeat(ctx, e.ClassID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Enrollment cancelled",
		zap.String("enrollment_id", e.ID.String()),
		zap.String("class_id", e.ClassID.String()),
	)
	r := ToEnrollmentResponse(e)
	return &r, nil
}

// MyEnrollments lists the caller's enrollments with their classes
func (s *AcademyService) MyEnrollments(ctx context.Context, userID uuid.UUID) ([]EnrollmentResponse, error) {
	enrollments, err := s.enrollments.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	classes := make(map[uuid.UUID]*ClassResponse)
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		r := ToEnrollmentResponse(&enrollments[i])
		cr, ok := classes[r.ClassID]
		if !ok {
			c, err := s.classes.FindByID(ctx, r.ClassID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if c != nil {
				v := ToClassResponse(c)
				cr = &v
			}
			classes[r.ClassID] = cr
		}
		r.Class = cr
		out = append(out, r)
	}
	return out, nil
}

// ClassEnrollments lists a class's enrollments with student details
func (s *AcademyService) ClassEnrollments(ctx context.Context, classID uuid.UUID) ([]EnrollmentResponse, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.FindByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		r := ToEnrollmentResponse(&enrollments[i])
		u, err := s.users.FindByID(ctx, r.UserID)
		switch {
		case err == nil:
			r.Student = &StudentInfo{FullName: u.FullName, Email: u.Email, Phone: u.Phone}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// UpcomingCount counts scheduled classes that have not started
func (s *AcademyService) UpcomingCount(ctx context.Context) (int64, error) {
	return s.classes.CountUpcoming(ctx, s.now())
}
