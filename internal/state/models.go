package state

import (
	"time"

	"github.com/sadopc/leap/internal/calendar"
)

type CycleStatus string

const (
	CyclePlanned CycleStatus = "planned"
	CycleActive  CycleStatus = "active"
)

type EssayStatus string

const (
	EssayIdea      EssayStatus = "idea"
	EssayDraft     EssayStatus = "draft"
	EssayPublished EssayStatus = "published"
)

func (s EssayStatus) valid() bool {
	switch s {
	case EssayIdea, EssayDraft, EssayPublished:
		return true
	}
	return false
}

// Quarter is the identity template for one quarter of the year.
type Quarter struct {
	Name              string   `json:"name"`
	Archetype         string   `json:"archetype"`
	IdentityStatement string   `json:"identityStatement"`
	Constraint        string   `json:"constraint"`
	NewBehaviors      []string `json:"newBehaviors"`
	VisibilityTheme   string   `json:"visibilityTheme"`
	IsComplete        bool     `json:"isComplete"`
}

// Cycle is a 12-week sprint.
type Cycle struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Objective string      `json:"objective"`
	Metrics   string      `json:"metrics"`
	StartDate string      `json:"startDate"` // YYYY-MM-DD
	Status    CycleStatus `json:"status"`
	Quarter   string      `json:"quarter"` // label only, e.g. "Q2"
	CreatedAt time.Time   `json:"createdAt"`
}

// WeekRecord is a completed weekly review, keyed by WeekNumber.
type WeekRecord struct {
	WeekNumber  int       `json:"weekNumber"`
	DateRange   string    `json:"dateRange"`
	Outcomes    string    `json:"outcomes"`
	Score       float64   `json:"score"`
	Reflection  string    `json:"reflection"`
	CompletedAt time.Time `json:"completedAt"`
}

// DailyLog is a completed day, keyed by Date. Text fields are copies taken
// when the day was completed.
type DailyLog struct {
	Date                string `json:"date"` // YYYY-MM-DD
	Completed           bool   `json:"completed"`
	Priority            string `json:"priority"`
	MicroAction         string `json:"microAction"`
	Energy              int    `json:"energy"`
	PriorityComplete    bool   `json:"priorityComplete"`
	MicroActionComplete bool   `json:"microActionComplete"`
}

type ReflectionEntry struct {
	ID             string    `json:"id"`
	Notes          string    `json:"notes"`
	EmotionalState int       `json:"emotionalState"`
	Date           time.Time `json:"date"`
}

// VisibilityAction records a courageous act. Growth is fixed at creation.
type VisibilityAction struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	FearBefore      int       `json:"fearBefore"`
	ConfidenceAfter int       `json:"confidenceAfter"`
	Outcome         string    `json:"outcome,omitempty"`
	Date            time.Time `json:"date"`
	Growth          int       `json:"growth"`
}

type Essay struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Status EssayStatus `json:"status"`
	Date   time.Time   `json:"date"`
}

// Snapshot is the complete persisted application state.
type Snapshot struct {
	Year           int                          `json:"year"`
	CurrentQuarter calendar.Quarter             `json:"currentQuarter"`
	Quarters       map[calendar.Quarter]Quarter `json:"quarters"`
	ActiveCycleID  string                       `json:"activeCycleId,omitempty"`

	// Day-scoped; reset by Reconcile.
	TodayDate           string `json:"todayDate"`
	CompletedToday      bool   `json:"completedToday"`
	PriorityComplete    bool   `json:"priorityComplete"`
	MicroActionComplete bool   `json:"microActionComplete"`
	PracticeComplete    bool   `json:"practiceComplete"`

	DailyPriority         string `json:"dailyPriority"`
	VisibilityMicroAction string `json:"visibilityMicroAction"`
	DailyAnchor           string `json:"dailyAnchor"`
	CurrentEnergy         int    `json:"currentEnergy"`
	EmotionalState        int    `json:"emotionalState"`

	// Week-scoped; reset by CompleteWeek.
	WeekOutcomes   string  `json:"weekOutcomes"`
	WeekScore      float64 `json:"weekScore"`
	WeekReflection string  `json:"weekReflection"`

	RecoveryStreak int `json:"recoveryStreak"`
	SprintProgress int `json:"sprintProgress"`

	Weeks             []WeekRecord       `json:"weeks"`
	DailyLogs         []DailyLog         `json:"dailyLogs"`
	ReflectionLog     []ReflectionEntry  `json:"reflectionLog"`
	VisibilityActions []VisibilityAction `json:"visibilityActions"`
	Cycles            []Cycle            `json:"cycles"`
	Essays            []Essay            `json:"essays"`

	// NewID assigns ids to appended records. Nil means uuid.NewString.
	NewID IDFunc `json:"-"`
}
