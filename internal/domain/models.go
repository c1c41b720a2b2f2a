// Package domain defines the persistence models of the recommendation
// service: the read-only catalog and enrollment records owned by other
// subsystems, and the records the engine itself writes (interactions,
// profiles, recommendations, feedback and the engine settings singleton).
// These types are mapped with GORM and shared by the repo, recommend and
// service layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Course is a catalog item. The catalog is owned by another subsystem; the
// engine only reads it.
type Course struct {
	ID              string          `json:"id"               gorm:"type:char(36);primaryKey"`
	Title           string          `json:"title"            gorm:"type:varchar(255);not null"`
	Category        string          `json:"category"         gorm:"type:varchar(64);not null;index"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level" gorm:"type:varchar(16);not null"`
	Status          CourseStatus    `json:"status"           gorm:"type:varchar(16);not null;index"`
	Price           float64         `json:"price"`
	AvgRating       float64         `json:"avg_rating"`
	EnrollmentCount int             `json:"enrollment_count"`
	CreatedAt       time.Time       `json:"created_at"       gorm:"index"`
}

// TableName returns the database table name for Course.
func (Course) TableName() string { return "courses" }

// Enrollment links a user to a course they joined. Status "completed" feeds
// the profile's completed set.
type Enrollment struct {
	ID          string           `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string           `json:"user_id"      gorm:"type:varchar(64);not null;uniqueIndex:ux_enrollment_user_course,priority:1"`
	CourseID    string           `json:"course_id"    gorm:"type:char(36);not null;uniqueIndex:ux_enrollment_user_course,priority:2"`
	Status      EnrollmentStatus `json:"status"       gorm:"type:varchar(16);not null"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// TableName returns the database table name for Enrollment.
func (Enrollment) TableName() string { return "enrollments" }

// Interaction is one typed event between a user and a course. There is at
// most one row per (user, course, type); recording the same type again
// updates the row in place, bumps Occurrences and keeps FirstOccurredAt.
type Interaction struct {
	ID              string            `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID          string            `json:"user_id"           gorm:"type:varchar(64);not null;uniqueIndex:ux_interaction_user_course_type,priority:1"`
	CourseID        string            `json:"course_id"         gorm:"type:char(36);not null;uniqueIndex:ux_interaction_user_course_type,priority:2"`
	Type            InteractionType   `json:"type"              gorm:"type:varchar(16);not null;uniqueIndex:ux_interaction_user_course_type,priority:3"`
	Rating          *int              `json:"rating,omitempty"`
	TimeSpent       int               `json:"time_spent"        gorm:"not null;default:0"`
	Occurrences     int               `json:"occurrences"       gorm:"not null;default:1"`
	FirstOccurredAt time.Time         `json:"first_occurred_at"`
	OccurredAt      time.Time         `json:"occurred_at"       gorm:"index"`
	Metadata        datatypes.JSONMap `json:"metadata"`
}

// TableName returns the database table name for Interaction.
func (Interaction) TableName() string { return "interactions" }

// FeatureSnapshot holds aggregate counters derived from a user's interactions
// and enrollments. It is recomputed wholesale on every profile refresh and is
// never a system of record.
type FeatureSnapshot struct {
	TotalInteractions       int      `json:"total_interactions"`
	CompletedCount          int      `json:"completed_count"`
	EnrolledCount           int      `json:"enrolled_count"`
	AvgRatingGiven          float64  `json:"avg_rating_given"`
	TotalTime               int      `json:"total_time"`
	CategoriesTouched       []string `json:"categories_touched"`
	DifficultyLevelsTouched []string `json:"difficulty_levels_touched"`
}

// UserProfile is the per-user state the engine reads at generation time.
// The preference lists are explicit user input; CompletedCourses, the viewed
// set and FeatureSnapshot are derived on refresh.
type UserProfile struct {
	UserID                    string                              `json:"user_id"                     gorm:"type:varchar(64);primaryKey"`
	PreferredCategories       datatypes.JSONSlice[string]         `json:"preferred_categories"`
	PreferredDifficultyLevels datatypes.JSONSlice[string]         `json:"preferred_difficulty_levels"`
	PreferredLearningStyles   datatypes.JSONSlice[string]         `json:"preferred_learning_styles"`
	CompletedCourses          datatypes.JSONSlice[string]         `json:"completed_courses"`
	LastActive                time.Time                           `json:"last_active"`
	TotalLearningTime         int                                 `json:"total_learning_time"         gorm:"not null;default:0"`
	FeatureSnapshot           datatypes.JSONType[FeatureSnapshot] `json:"feature_snapshot"`
	LastRefreshedAt           *time.Time                          `json:"last_refreshed_at,omitempty"`
	CreatedAt                 time.Time                           `json:"created_at"`
	UpdatedAt                 time.Time                           `json:"updated_at"`

	ViewedCourses []ViewedCourse `json:"viewed_courses,omitempty" gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_profiles" }

// NewUserProfile returns an empty profile for userID with every JSON column
// initialised, so rows never hold SQL NULL in those columns.
func NewUserProfile(userID string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:                    userID,
		PreferredCategories:       datatypes.JSONSlice[string]{},
		PreferredDifficultyLevels: datatypes.JSONSlice[string]{},
		PreferredLearningStyles:   datatypes.JSONSlice[string]{},
		CompletedCourses:          datatypes.JSONSlice[string]{},
		LastActive:                now,
		FeatureSnapshot:           datatypes.NewJSONType(FeatureSnapshot{}),
	}
}

// ViewedCourse is one entry of a profile's viewed set.
type ViewedCourse struct {
	UserID      string    `json:"-"            gorm:"type:varchar(64);primaryKey"`
	CourseID    string    `json:"course_id"    gorm:"type:char(36);primaryKey"`
	FirstViewed time.Time `json:"first_viewed"`
	LastViewed  time.Time `json:"last_viewed"`
	ViewCount   int       `json:"view_count"`
}

// TableName returns the database table name for ViewedCourse.
func (ViewedCourse) TableName() string { return "viewed_courses" }

// Recommendation is one entry of a user's persisted batch. A batch is
// replaced as a whole on every generation run; afterwards rows are only
// mutated by click and dismiss.
type Recommendation struct {
	ID          string                      `json:"id"                     gorm:"type:char(36);primaryKey"`
	UserID      string                      `json:"user_id"                gorm:"type:varchar(64);not null;index:idx_recs_user_expiry,priority:1"`
	CourseID    string                      `json:"course_id"              gorm:"type:char(36);not null"`
	Score       float64                     `json:"score"                  gorm:"not null;check:score >= 0 AND score <= 1"`
	Algorithms  datatypes.JSONSlice[string] `json:"algorithms"`
	Reason      string                      `json:"reason"                 gorm:"type:text;not null"`
	ReasonData  datatypes.JSONMap           `json:"reason_data"`
	GeneratedAt time.Time                   `json:"generated_at"`
	ExpiresAt   time.Time                   `json:"expires_at"             gorm:"index:idx_recs_user_expiry,priority:2"`
	IsClicked   bool                        `json:"is_clicked"             gorm:"not null;default:false"`
	ClickedAt   *time.Time                  `json:"clicked_at,omitempty"`
	IsDismissed bool                        `json:"is_dismissed"           gorm:"not null;default:false"`
	DismissedAt *time.Time                  `json:"dismissed_at,omitempty"`
}

// TableName returns the database table name for Recommendation.
func (Recommendation) TableName() string { return "recommendations" }

// Expired reports whether the recommendation is stale at now.
func (r Recommendation) Expired(now time.Time) bool { return !r.ExpiresAt.After(now) }

// Feedback is a user's verdict on one of their recommendations. A user keeps
// at most one feedback row per recommendation; resubmission overwrites it.
// Rows are cascade-deleted together with the recommendation they refer to.
type Feedback struct {
	ID               string       `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID           string       `json:"user_id"           gorm:"type:varchar(64);not null;index;uniqueIndex:ux_feedback_user_rec,priority:1"`
	RecommendationID string       `json:"recommendation_id" gorm:"type:char(36);not null;uniqueIndex:ux_feedback_user_rec,priority:2"`
	Kind             FeedbackKind `json:"kind"              gorm:"type:varchar(16);not null;check:kind IN ('helpful','not_helpful','irrelevant','misleading')"`
	Comment          string       `json:"comment"           gorm:"type:text;not null;default:''"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	Recommendation *Recommendation `json:"-" gorm:"foreignKey:RecommendationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }

// SettingsID is the primary key of the single EngineSettings row.
const SettingsID = 1

// EngineSettings is the persisted form of the engine's tunables. Only one
// row (ID = SettingsID) ever exists.
type EngineSettings struct {
	ID                        uint                                   `json:"-"                             gorm:"primaryKey;autoIncrement:false"`
	AlgorithmWeights          datatypes.JSONType[map[string]float64] `json:"algorithm_weights"`
	MaxRecommendationsPerUser int                                    `json:"max_recommendations_per_user"`
	RecommendationExpiryDays  int                                    `json:"recommendation_expiry_days"`
	AutoRefreshEnabled        bool                                   `json:"auto_refresh_enabled"`
	RefreshIntervalHours      int                                    `json:"refresh_interval_hours"`
	ExcludeCompletedItems     bool                                   `json:"exclude_completed_items"`
	ExcludeEnrolledItems      bool                                   `json:"exclude_enrolled_items"`
	UpdatedAt                 time.Time                              `json:"updated_at"`
}

// TableName returns the database table name for EngineSettings.
func (EngineSettings) TableName() string { return "engine_settings" }
