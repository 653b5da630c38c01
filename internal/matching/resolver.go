package matching

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/plan"
)

// Confidence tier boundaries. Candidates at or above highConfidenceMin can be
// committed without review, the rest go through the review flow.
const (
	highConfidenceMin   = 80
	mediumConfidenceMin = 50
)

// maxCandidatePairs bounds one resolution pass. Typical inputs are well
// under 10 workouts by 50 activities; when the pool is larger the excess
// activities are reported unmatched instead of scored so latency stays
// bounded.
const maxCandidatePairs = 2500

// resolve scores every (workout, activity) pair and greedily assigns the
// highest-confidence pairs first under a one-to-one constraint.
//
// Scoring runs concurrently because each pair is independent. The claim walk
// afterwards is strictly sequential: for equal confidence the earlier
// discovered pair wins, workout-major then activity order, and reordering
// would silently change which candidate claims a contested activity.
func resolve(ctx context.Context, workouts []plan.ScheduledWorkout, activities []activity.Activity) (Result, error) {
	var result Result

	if len(activities) == 0 {
		result.UnmatchedWorkouts = workouts
		return result, nil
	}

	scored := len(activities)
	if len(workouts) > 0 && len(workouts)*scored > maxCandidatePairs {
		scored = maxCandidatePairs / len(workouts)
	}

	candidates := make([]Candidate, len(workouts)*scored)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for wi, w := range workouts {
		for ai, a := range activities[:scored] {
			g.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				candidates[wi*scored+ai] = score(w, a)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("score candidate pairs: %w", err)
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence >= minConfidence {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Confidence > eligible[j].Confidence
	})

	claimedWorkouts := make(map[int64]bool)
	claimedActivities := make(map[int64]bool)
	for _, c := range eligible {
		if claimedWorkouts[c.Workout.ID] || claimedActivities[c.Activity.ID] {
			continue
		}
		claimedWorkouts[c.Workout.ID] = true
		claimedActivities[c.Activity.ID] = true

		switch {
		case c.Confidence >= highConfidenceMin:
			result.HighConfidence = append(result.HighConfidence, c)
		case c.Confidence >= mediumConfidenceMin:
			result.MediumConfidence = append(result.MediumConfidence, c)
		default:
			result.LowConfidence = append(result.LowConfidence, c)
		}
	}

	for _, w := range workouts {
		if !claimedWorkouts[w.ID] {
			result.UnmatchedWorkouts = append(result.UnmatchedWorkouts, w)
		}
	}
	for _, a := range activities {
		if !claimedActivities[a.ID] {
			result.UnmatchedActivities = append(result.UnmatchedActivities, a)
		}
	}

	return result, nil
}
