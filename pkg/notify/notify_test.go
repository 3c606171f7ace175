package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/pkrauchanka/tg-history-tutor/pkg/internal/testutil"
)

func TestParsePreferredTime(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:5", "09:05", false},
		{" 23:59 ", "23:59", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePreferredTime(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePreferredTime(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParsePreferredTime(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestScheduleAnchorsOnPreferredTime(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	job, err := Schedule(1, 24*time.Hour, "09:00", 0, now)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	want := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	if !job.NextFireAt.Equal(want) {
		t.Fatalf("expected first fire at %v, got %v", want, job.NextFireAt)
	}

	// Before the preferred time the fire lands on the same day.
	early := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	job, err = Schedule(2, 24*time.Hour, "09:00", 0, early)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	want = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if !job.NextFireAt.Equal(want) {
		t.Fatalf("expected same-day fire at %v, got %v", want, job.NextFireAt)
	}
}

func TestScheduleAppliesTimezoneOffset(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	job, err := Schedule(3, 24*time.Hour, "09:00", 3, now)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	// 09:00 UTC+3 is 06:00 UTC.
	want := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	if !job.NextFireAt.Equal(want) {
		t.Fatalf("expected fire at %v, got %v", want, job.NextFireAt)
	}
}

func TestScheduleReplacesExistingJob(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first, err := Schedule(4, 24*time.Hour, "09:00", 0, now)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	second, err := Schedule(4, 12*time.Hour, "18:00", 0, now)
	if err != nil {
		t.Fatalf("re-schedule failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("re-scheduling must replace the job, got ids %d and %d", first.ID, second.ID)
	}

	jobs, err := DueJobs(now.Add(48 * time.Hour))
	if err != nil {
		t.Fatalf("DueJobs failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one pending job per user, got %d", len(jobs))
	}
}

func TestDueJobsIdempotentAndAcknowledge(t *testing.T) {
	testutil.SetupTestDB(t)
	scheduledAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := Schedule(5, 24*time.Hour, "09:00", 0, scheduledAt); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	pollAt := time.Date(2026, 8, 2, 9, 1, 0, 0, time.UTC)
	first, err := DueJobs(pollAt)
	if err != nil {
		t.Fatalf("DueJobs failed: %v", err)
	}
	second, err := DueJobs(pollAt)
	if err != nil {
		t.Fatalf("DueJobs failed: %v", err)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("polling twice must return the same due jobs: %v vs %v", first, second)
	}

	acked, err := Acknowledge(first[0], pollAt)
	if err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	want := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	if !acked.NextFireAt.Equal(want) {
		t.Fatalf("expected next fire at %v, got %v", want, acked.NextFireAt)
	}
	if !acked.NextFireAt.After(pollAt) {
		t.Fatalf("acknowledged job must not stay due")
	}

	remaining, err := DueJobs(pollAt)
	if err != nil {
		t.Fatalf("DueJobs failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("acknowledged job still due: %v", remaining)
	}
}

func TestAcknowledgeAppliesAtMostOncePerCycle(t *testing.T) {
	testutil.SetupTestDB(t)
	scheduledAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := Schedule(6, 24*time.Hour, "09:00", 0, scheduledAt); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	pollAt := time.Date(2026, 8, 2, 9, 1, 0, 0, time.UTC)
	due, err := DueJobs(pollAt)
	if err != nil || len(due) != 1 {
		t.Fatalf("DueJobs failed: %v %v", due, err)
	}

	// Two pollers race on the same stale copy of the job.
	first, err := Acknowledge(due[0], pollAt)
	if err != nil {
		t.Fatalf("first Acknowledge failed: %v", err)
	}
	second, err := Acknowledge(due[0], pollAt)
	if err != nil {
		t.Fatalf("second Acknowledge failed: %v", err)
	}
	if !first.NextFireAt.Equal(second.NextFireAt) {
		t.Fatalf("stale acknowledge advanced the job twice: %v vs %v", first.NextFireAt, second.NextFireAt)
	}
	if second.Version != first.Version {
		t.Fatalf("stale acknowledge must not bump the version again")
	}
}

func TestCancel(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := Cancel(7); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	if _, err := Schedule(7, 24*time.Hour, "09:00", 0, now); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := Cancel(7); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	jobs, err := DueJobs(now.Add(48 * time.Hour))
	if err != nil {
		t.Fatalf("DueJobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("disabled job must not be due: %v", jobs)
	}

	job, err := Job(7)
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if job.Enabled {
		t.Fatalf("expected job to be disabled")
	}
}
