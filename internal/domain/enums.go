package domain

type AgeGroup string

const (
	AgeGroupPrenatal    AgeGroup = "prenatal"
	AgeGroupNewborn     AgeGroup = "newborn"
	AgeGroup0To3Months  AgeGroup = "0-3months"
	AgeGroup3To6Months  AgeGroup = "3-6months"
	AgeGroup6To12Months AgeGroup = "6-12months"
)

// AllAgeGroups lists age buckets in developmental order.
var AllAgeGroups = []AgeGroup{
	AgeGroupPrenatal, AgeGroupNewborn, AgeGroup0To3Months, AgeGroup3To6Months, AgeGroup6To12Months,
}

func (g AgeGroup) Valid() bool {
	for _, v := range AllAgeGroups {
		if g == v {
			return true
		}
	}
	return false
}

type ContentType string

const (
	ContentStories     ContentType = "stories"
	ContentSongs       ContentType = "songs"
	ContentMovement    ContentType = "movement"
	ContentEducational ContentType = "educational"
	ContentSensory     ContentType = "sensory"
	ContentMeditation  ContentType = "meditation"
)

// AllContentTypes is the canonical set of template content types.
var AllContentTypes = []ContentType{
	ContentStories, ContentSongs, ContentMovement, ContentEducational, ContentSensory, ContentMeditation,
}

func (c ContentType) Valid() bool {
	for _, v := range AllContentTypes {
		if c == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TimeAvailability is the user's self-reported availability tier. Unknown
// values are tolerated and fall back to the moderate tables.
type TimeAvailability string

const (
	TimeBusy     TimeAvailability = "busy"
	TimeModerate TimeAvailability = "moderate"
	TimeFlexible TimeAvailability = "flexible"
)

func (t TimeAvailability) Valid() bool {
	return t == TimeBusy || t == TimeModerate || t == TimeFlexible
}

// ActivityAffinity biases template ranking.
type ActivityAffinity string

const (
	AffinityScience   ActivityAffinity = "science"
	AffinitySpiritual ActivityAffinity = "spiritual"
	AffinityBalanced  ActivityAffinity = "balanced"
)

func (a ActivityAffinity) Valid() bool {
	return a == AffinityScience || a == AffinitySpiritual || a == AffinityBalanced
}

type Engagement string

const (
	EngagementLow    Engagement = "low"
	EngagementMedium Engagement = "medium"
	EngagementHigh   Engagement = "high"
)

func (e Engagement) Valid() bool {
	return e == EngagementLow || e == EngagementMedium || e == EngagementHigh
}

// GeneratedContentType classifies personalised content payloads.
type GeneratedContentType string

const (
	GeneratedStory        GeneratedContentType = "story"
	GeneratedSong         GeneratedContentType = "song"
	GeneratedMeditation   GeneratedContentType = "meditation"
	GeneratedInstructions GeneratedContentType = "instructions"
)

type SyncAction string

const (
	SyncCreate SyncAction = "create"
	SyncUpdate SyncAction = "update"
	SyncDelete SyncAction = "delete"
)

func (a SyncAction) Valid() bool {
	return a == SyncCreate || a == SyncUpdate || a == SyncDelete
}

type SyncEntityType string

const (
	EntityActivity SyncEntityType = "activity"
	EntityProgress SyncEntityType = "progress"
	EntitySchedule SyncEntityType = "schedule"
	EntityProfile  SyncEntityType = "profile"
)

func (e SyncEntityType) Valid() bool {
	switch e {
	case EntityActivity, EntityProgress, EntitySchedule, EntityProfile:
		return true
	}
	return false
}

type SyncPriority string

const (
	PriorityLow    SyncPriority = "low"
	PriorityMedium SyncPriority = "medium"
	PriorityHigh   SyncPriority = "high"
)

// Weight orders priorities for draining: high 3, medium 2, low 1.
func (p SyncPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p SyncPriority) Valid() bool {
	return p.Weight() > 0
}

// SyncItemStatus is the persisted state of a queue item.
type SyncItemStatus string

const (
	SyncItemPending SyncItemStatus = "pending"
	SyncItemSyncing SyncItemStatus = "syncing"
)

// SyncStatus is the queue-wide drain state.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncError   SyncStatus = "error"
)
