// internal/app/consistency/registry/registry.go

// Package registry is the single source of truth for which collections hold
// denormalized copies of a canonical entity's display name. It is pure data:
// one row per (canonical entity, dependent collection, dependent field). The
// cascade updater walks these rows; nothing else decides what must be kept
// consistent.
package registry

// Entity identifies a canonical entity type whose display name is copied
// into dependent collections.
type Entity string

const (
	Student       Entity = "student"
	Instructor    Entity = "instructor"
	NonInstructor Entity = "noninstructor"
	Course        Entity = "course"
	Cohort        Entity = "cohort"
)

// MatchKind says how a rule's dependent rows are selected.
type MatchKind int

const (
	// MatchID selects rows whose MatchField equals the canonical entity's id.
	MatchID MatchKind = iota

	// MatchValue selects rows whose MatchField equals the *old* display name.
	// Used where dependent rows never stored a foreign id (a weakness of the
	// inherited data model, kept as-is: two entities sharing an old name
	// would both match).
	MatchValue

	// MatchPair selects one element of an array of {id, name} pairs by the
	// canonical entity's id and rewrites that element's name. PairKey names
	// the id field inside the array element.
	MatchPair
)

// Rule maps one dependent (collection, field) to the canonical entity whose
// display name it caches.
type Rule struct {
	Entity      Entity
	Collection  string
	TargetField string
	MatchField  string
	Kind        MatchKind
	PairKey     string // set only for MatchPair
}

// rules is the full capability table. Order within an entity is not
// significant; updates are independent and error-isolated.
var rules = []Rule{
	// Instructor display name.
	{Entity: Instructor, Collection: "instructor_attendance", TargetField: "instructor_name", MatchField: "instructor_id", Kind: MatchID},
	{Entity: Instructor, Collection: "courses", TargetField: "instructor", MatchField: "instructor", Kind: MatchValue},
	{Entity: Instructor, Collection: "cohorts", TargetField: "instructor", MatchField: "instructor", Kind: MatchValue},
	{Entity: Instructor, Collection: "schedules", TargetField: "instructor_name", MatchField: "instructor", Kind: MatchID},

	// Student display name.
	{Entity: Student, Collection: "student_attendance", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "student_attendance_drafts", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "enrollments", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "payments", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "payment_records", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "payment_transactions", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "monthly_subscriptions", TargetField: "student_name", MatchField: "student_id", Kind: MatchID},
	{Entity: Student, Collection: "students", TargetField: "referring_student_name", MatchField: "referring_student_id", Kind: MatchID},

	// Course display name.
	{Entity: Course, Collection: "enrollments", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "student_attendance", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "student_attendance_drafts", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "payment_records", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "payment_transactions", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "monthly_subscriptions", TargetField: "course_name", MatchField: "course_id", Kind: MatchID},
	{Entity: Course, Collection: "students", TargetField: "enrolled_course_name", MatchField: "enrolled_course", Kind: MatchID},
	{Entity: Course, Collection: "payments", TargetField: "enrolled_course_name", MatchField: "course_id", Kind: MatchID},

	// Cohort display name.
	{Entity: Cohort, Collection: "student_attendance", TargetField: "cohort_name", MatchField: "cohort_id", Kind: MatchID},
	{Entity: Cohort, Collection: "student_attendance_drafts", TargetField: "cohort_name", MatchField: "cohort_id", Kind: MatchID},
	{Entity: Cohort, Collection: "monthly_subscriptions", TargetField: "cohort_name", MatchField: "cohort_id", Kind: MatchID},
	{Entity: Cohort, Collection: "payments", TargetField: "cohort_name", MatchField: "cohort_id", Kind: MatchID},
	{Entity: Cohort, Collection: "instructors", TargetField: "cohorts.$[ref].name", MatchField: "cohorts.cohort_id", Kind: MatchPair, PairKey: "cohort_id"},

	// Non-teaching staff display name.
	{Entity: NonInstructor, Collection: "noninstructor_attendance", TargetField: "staff_name", MatchField: "staff_id", Kind: MatchID},
	{Entity: NonInstructor, Collection: "noninstructor_attendance_drafts", TargetField: "staff_name", MatchField: "staff_id", Kind: MatchID},
	{Entity: NonInstructor, Collection: "noninstructor_drafts", TargetField: "name", MatchField: "name", Kind: MatchValue},
}

// All returns the full rule table.
func All() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// For returns the rules for one canonical entity type.
func For(e Entity) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Entity == e {
			out = append(out, r)
		}
	}
	return out
}

// Entities returns the canonical entity types the registry knows about.
func Entities() []Entity {
	return []Entity{Student, Instructor, NonInstructor, Course, Cohort}
}

// Valid reports whether e is a known canonical entity type.
func Valid(e Entity) bool {
	switch e {
	case Student, Instructor, NonInstructor, Course, Cohort:
		return true
	}
	return false
}
