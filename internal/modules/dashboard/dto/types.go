package dto

type ExperimentRef struct {
	ID         string
	Title      string
	NextAction string
}

type GoalProgress struct {
	ID              string
	Title           string
	ProgressPercent int
	HoursThisWeek   float64
}

// Summary is the dashboard view of the three collections for one week.
type Summary struct {
	WeekKey           string
	LearningHours     float64
	ServiceHours      float64
	TotalServiceHours float64
	TotalIdeas        int
	Completed         int
	Goals             []GoalProgress
	WithNextAction    []ExperimentRef
	Blocked           []ExperimentRef
	// Errors holds the last error of each collection that has one.
	Errors map[string]string
}
