// Package repo: read access to the course catalog and enrollments. Both are
// owned by other subsystems; the upsert helpers exist for seeding and tests,
// acting as that subsystem's write path.
package repo

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// GetCourse fetches a single course by ID, or ErrNotFound.
func GetCourse(ctx context.Context, db *gorm.DB, id string) (*domain.Course, error) {
	var c domain.Course
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCourses returns the whole catalog ordered by ID.
func ListCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error) {
	var out []domain.Course
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// ListPublishedCourses returns only published courses ordered by ID.
func ListPublishedCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error) {
	var out []domain.Course
	err := db.WithContext(ctx).
		Where("status = ?", domain.CoursePublished).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// UpsertCourse inserts c or overwrites the existing row with the same ID.
func UpsertCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(c).Error
}

// ListEnrollments returns every enrollment of userID.
func ListEnrollments(ctx context.Context, db *gorm.DB, userID string) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at asc, id asc").
		Find(&out).Error
	return out, err
}

// ListEnrolledCourseIDs returns the course IDs userID is enrolled in with the
// given status.
func ListEnrolledCourseIDs(ctx context.Context, db *gorm.DB, userID string, status domain.EnrollmentStatus) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, status).
		Order("course_id asc").
		Pluck("course_id", &ids).Error
	return ids, err
}

// UpsertEnrollment records (or updates) the enrollment of e.UserID in
// e.CourseID. Only status and completion time change on conflict.
func UpsertEnrollment(ctx context.Context, db *gorm.DB, e *domain.Enrollment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at"}),
		}).
		Create(e).Error
}

// ListKnownUserIDs returns the sorted, distinct IDs of users that have at
// least one interaction or enrollment.
func ListKnownUserIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var fromInteractions, fromEnrollments []string
	if err := db.WithContext(ctx).Model(&domain.Interaction{}).Distinct().Pluck("user_id", &fromInteractions).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Enrollment{}).Distinct().Pluck("user_id", &fromEnrollments).Error; err != nil {
		return nil, err
	}
	all := append(fromInteractions, fromEnrollments...)
	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, id := range all {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
