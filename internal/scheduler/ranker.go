package scheduler

import (
	"sort"

	"github.com/alexanderramin/babybond/internal/domain"
)

// RankForAffinity reorders templates for the given affinity. Science-minded
// parents see templates with a developmental benefit first; the relative
// order within each partition is preserved. Other affinities leave the
// order unchanged.
func RankForAffinity(templates []*domain.ActivityTemplate, affinity domain.ActivityAffinity) {
	if affinity != domain.AffinityScience {
		return
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].HasScienceBenefit() && !templates[j].HasScienceBenefit()
	})
}
