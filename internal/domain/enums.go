package domain

// InteractionType is the kind of event recorded between a user and a course.
type InteractionType string

const (
	InteractionViewed     InteractionType = "viewed"
	InteractionEnrolled   InteractionType = "enrolled"
	InteractionCompleted  InteractionType = "completed"
	InteractionRated      InteractionType = "rated"
	InteractionWishlisted InteractionType = "wishlisted"
	InteractionSearched   InteractionType = "searched"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionViewed, InteractionEnrolled, InteractionCompleted,
		InteractionRated, InteractionWishlisted, InteractionSearched:
		return true
	}
	return false
}

// DifficultyLevel is a course's difficulty tier.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// Valid reports whether d is a known tier.
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Next returns the tier above d, clamped at advanced. Unknown tiers map to
// beginner.
func (d DifficultyLevel) Next() DifficultyLevel {
	switch d {
	case DifficultyBeginner:
		return DifficultyIntermediate
	case DifficultyIntermediate, DifficultyAdvanced:
		return DifficultyAdvanced
	}
	return DifficultyBeginner
}

// CourseStatus is the publication state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// EnrollmentStatus is the state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// FeedbackKind is the verdict a user gives on a recommendation.
type FeedbackKind string

const (
	FeedbackHelpful    FeedbackKind = "helpful"
	FeedbackNotHelpful FeedbackKind = "not_helpful"
	FeedbackIrrelevant FeedbackKind = "irrelevant"
	FeedbackMisleading FeedbackKind = "misleading"
)

// Valid reports whether k is a known feedback kind.
func (k FeedbackKind) Valid() bool {
	switch k {
	case FeedbackHelpful, FeedbackNotHelpful, FeedbackIrrelevant, FeedbackMisleading:
		return true
	}
	return false
}

// Algorithm tags the candidate generator that proposed a recommendation.
type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmContentBased  Algorithm = "content_based"
	AlgorithmPopularity    Algorithm = "popularity"
	AlgorithmKnowledge     Algorithm = "knowledge_based"
)

// Algorithms lists every generator tag in the engine's fixed run order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmCollaborative, AlgorithmContentBased, AlgorithmPopularity, AlgorithmKnowledge}
}

// Valid reports whether a is one of the engine's generators.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmCollaborative, AlgorithmContentBased, AlgorithmPopularity, AlgorithmKnowledge:
		return true
	}
	return false
}
