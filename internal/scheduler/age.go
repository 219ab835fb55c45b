package scheduler

import (
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

// daysPerMonth is the coarse month length used for age bucketing.
const daysPerMonth = 30

// AgeGroupFor buckets a profile into the age group its plan draws from.
// Pregnant profiles and profiles without a birth date are prenatal. A birth
// date in the future counts as zero months.
func AgeGroupFor(p *domain.UserProfile, now time.Time) domain.AgeGroup {
	if p == nil || p.IsPregnant || p.BirthDate == nil {
		return domain.AgeGroupPrenatal
	}
	months := AgeInMonths(*p.BirthDate, now)
	switch {
	case months == 0:
		return domain.AgeGroupNewborn
	case months <= 3:
		return domain.AgeGroup0To3Months
	case months <= 6:
		return domain.AgeGroup3To6Months
	default:
		return domain.AgeGroup6To12Months
	}
}

// AgeInMonths returns floor(elapsed days / 30), never negative.
func AgeInMonths(birth, now time.Time) int {
	days := int(now.Sub(birth).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / daysPerMonth
}

// MaxDurationFor maps a time-availability tier to the longest activity, in
// minutes, a plan may include.
func MaxDurationFor(tier domain.TimeAvailability) int {
	switch tier {
	case domain.TimeBusy:
		return 10
	case domain.TimeFlexible:
		return 60
	default:
		return 20
	}
}

// ActivitiesPerDay maps a time-availability tier to the daily activity count.
func ActivitiesPerDay(tier domain.TimeAvailability) int {
	switch tier {
	case domain.TimeBusy:
		return 1
	case domain.TimeFlexible:
		return 3
	default:
		return 2
	}
}
