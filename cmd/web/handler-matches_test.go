package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/contexthelpers"
	"github.com/mlehtola/tricoach/internal/matching"
	"github.com/mlehtola/tricoach/internal/plan"
	"github.com/mlehtola/tricoach/internal/ptr"
	"github.com/mlehtola/tricoach/internal/sqlite"
	"github.com/mlehtola/tricoach/internal/testhelpers"
)

type testApp struct {
	app       *application
	athleteID int
	plan      plan.Plan
	workouts  []plan.Workout
}

// newTestApp builds an application over an in-memory database seeded with one
// athlete, an active plan started a week ago, a run workout on day 1 and a
// matching run activity.
func newTestApp(t *testing.T, ctx context.Context) testApp {
	t.Helper()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	app := &application{ //nolint:exhaustruct // session manager not needed here
		logger:          logger,
		planService:     plan.NewService(db, logger),
		matchingService: matching.NewService(db, logger),
		lookbackDays:    matching.DefaultLookbackDays,
	}

	athleteID, err := app.planService.EnsureAthlete(ctx, "Test Athlete")
	if err != nil {
		t.Fatalf("ensure athlete: %v", err)
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7)
	p := plan.Plan{
		ID:          uuid.New(),
		AthleteID:   athleteID,
		Name:        "Sprint distance build",
		StartDate:   start,
		CurrentWeek: 2,
		TotalWeeks:  6,
		Status:      plan.StatusActive,
	}
	workouts, err := app.planService.Create(ctx, p, []plan.Workout{
		{
			Week:                  1,
			Day:                   1,
			Discipline:            plan.DisciplineRun,
			TargetDurationMinutes: ptr.Ref(60),
			TargetDistanceMiles:   ptr.Ref(6.0),
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	activities := activity.NewRepository(db, logger)
	if err = activities.Upsert(ctx, activity.Activity{
		ID:                1001,
		AthleteID:         athleteID,
		Name:              "Morning Run",
		SportType:         "Run",
		StartDate:         start.Add(7 * time.Hour),
		MovingTimeSeconds: 3300,
		DistanceMeters:    ptr.Ref(9656.0),
	}); err != nil {
		t.Fatalf("upsert activity: %v", err)
	}

	return testApp{app: app, athleteID: athleteID, plan: p, workouts: workouts}
}

// request builds an authenticated request with path values set the way the
// mux would.
func (ta testApp) request(method, target, body string, pathValues map[string]string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for key, value := range pathValues {
		r.SetPathValue(key, value)
	}
	return contexthelpers.AuthenticateContext(r, ta.athleteID)
}

func Test_application_matchesGET(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	r := ta.request(http.MethodGet, "/api/plans/"+ta.plan.ID.String()+"/matches", "",
		map[string]string{"planID": ta.plan.ID.String()})
	w := httptest.NewRecorder()

	ta.app.matchesGET(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result matchResultJSON
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.HighConfidence) != 1 {
		t.Fatalf("high confidence candidates = %d, want 1", len(result.HighConfidence))
	}
	if got := result.HighConfidence[0].Confidence; got != 100 {
		t.Errorf("confidence = %d, want 100", got)
	}
	if got := result.HighConfidence[0].Activity.ID; got != 1001 {
		t.Errorf("activity ID = %d, want 1001", got)
	}
}

func Test_application_matchesGET_invalidDaysBack(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	r := ta.request(http.MethodGet, "/api/plans/"+ta.plan.ID.String()+"/matches?days_back=bogus", "",
		map[string]string{"planID": ta.plan.ID.String()})
	w := httptest.NewRecorder()

	ta.app.matchesGET(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func Test_application_matchesGET_unknownPlan(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	unknown := uuid.New().String()
	r := ta.request(http.MethodGet, "/api/plans/"+unknown+"/matches", "",
		map[string]string{"planID": unknown})
	w := httptest.NewRecorder()

	ta.app.matchesGET(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func Test_application_matchAcceptPOST(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	body := `{"workout_id": ` + jsonInt64(ta.workouts[0].ID) + `, "activity_id": 1001}`
	r := ta.request(http.MethodPost, "/api/plans/"+ta.plan.ID.String()+"/matches/accept", body,
		map[string]string{"planID": ta.plan.ID.String()})
	w := httptest.NewRecorder()

	ta.app.matchAcceptPOST(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response struct {
		Completion completionJSON `json:"completion"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Completion.ActivityID == nil || *response.Completion.ActivityID != 1001 {
		t.Errorf("completion activity ID = %v, want 1001", response.Completion.ActivityID)
	}
	if response.Completion.ActualDurationMinutes == nil || *response.Completion.ActualDurationMinutes != 55 {
		t.Errorf("actual duration = %v, want 55", response.Completion.ActualDurationMinutes)
	}
}

func Test_application_matchAcceptPOST_activityGone(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	body := `{"workout_id": ` + jsonInt64(ta.workouts[0].ID) + `, "activity_id": 9999}`
	r := ta.request(http.MethodPost, "/api/plans/"+ta.plan.ID.String()+"/matches/accept", body,
		map[string]string{"planID": ta.plan.ID.String()})
	w := httptest.NewRecorder()

	ta.app.matchAcceptPOST(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func Test_application_activityPOST_autoMatches(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	startDate := ta.plan.StartDate.Add(8 * time.Hour).Format(time.RFC3339)
	body := `{"id": 2002, "name": "Lunch Run", "sport_type": "Run", "start_date": "` + startDate +
		`", "moving_time_seconds": 3500, "distance_meters": 9800}`
	r := ta.request(http.MethodPost, "/api/activities", body, nil)
	w := httptest.NewRecorder()

	ta.app.activityPOST(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var response struct {
		Matched    bool            `json:"matched"`
		Completion *completionJSON `json:"completion"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.Matched {
		t.Fatal("expected the activity to auto-match the day 1 run")
	}
	if response.Completion == nil || response.Completion.WorkoutID != ta.workouts[0].ID {
		t.Errorf("completion = %+v, want workout %d", response.Completion, ta.workouts[0].ID)
	}
}

func Test_application_activityPOST_missingFields(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	r := ta.request(http.MethodPost, "/api/activities", `{"name": "Mystery"}`, nil)
	w := httptest.NewRecorder()

	ta.app.activityPOST(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func Test_application_workoutSkipPOST(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	r := ta.request(http.MethodPost,
		"/api/plans/"+ta.plan.ID.String()+"/workouts/1/skip",
		`{"reason": "recovering from a cold"}`,
		map[string]string{"planID": ta.plan.ID.String(), "workoutID": jsonInt64(ta.workouts[0].ID)})
	w := httptest.NewRecorder()

	ta.app.workoutSkipPOST(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func Test_application_scheduleGET(t *testing.T) {
	ctx := t.Context()
	ta := newTestApp(t, ctx)

	r := ta.request(http.MethodGet, "/api/plans/"+ta.plan.ID.String()+"/schedule", "",
		map[string]string{"planID": ta.plan.ID.String()})
	w := httptest.NewRecorder()

	ta.app.scheduleGET(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response struct {
		Workouts []scheduledWorkoutJSON `json:"workouts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response.Workouts) != 1 {
		t.Fatalf("workouts = %d, want 1", len(response.Workouts))
	}
	wantDate := ta.plan.StartDate.Format(time.DateOnly)
	if got := response.Workouts[0].ScheduledDate; got != wantDate {
		t.Errorf("scheduled date = %s, want %s", got, wantDate)
	}
	if !response.Workouts[0].Overdue {
		t.Error("a week-old uncompleted workout should be overdue")
	}
}

func jsonInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
