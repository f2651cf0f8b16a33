package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/repository/gormrepo"
	"github.com/sakif/agency-backoffice/internal/validate"
)

func newTestJobApplicationService(t *testing.T) (*JobApplicationService, *gormrepo.DB, *fakeCache) {
	t.Helper()
	store := newTestStore(t)
	c := newFakeCache()
	svc := NewJobApplicationService(store, store, c, validate.New(), testLogger())
	svc.now = func() time.Time { return clientToday }

	for _, id := range []string{"BD-001", "BD-002"} {
		bd := &model.BD{BDID: id, Name: "BD " + id, Email: id + "@agency.test", PasswordHash: "hash"}
		bd.ApplyDefaults()
		if err := store.CreateBD(context.Background(), bd); err != nil {
			t.Fatalf("CreateBD() error = %v", err)
		}
	}
	return svc, store, c
}

func validJobInput(bdID string) JobApplicationInput {
	return JobApplicationInput{
		BDID:     ptr(bdID),
		JobTitle: ptr("Backend Engineer"),
		Company:  ptr("Acme"),
		Platform: ptr("LinkedIn"),
		JobType:  ptr("Remote"),
		JobURL:   ptr("https://acme.test/jobs/1"),
		Skills:   ptr([]string{"Go", "go", "Go"}),
	}
}

func TestJobApplicationCreate_Defaults(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)

	app, err := svc.Create(context.Background(), validJobInput("BD-001"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if app.ApplicationStatus != model.StatusApplied {
		t.Errorf("ApplicationStatus = %q, want %q", app.ApplicationStatus, model.StatusApplied)
	}
	if app.AppliedDate.String() != "2025-03-10" {
		t.Errorf("AppliedDate = %s, want today (2025-03-10)", app.AppliedDate)
	}
	if want := []string{"Go", "go"}; !reflect.DeepEqual(app.Skills, want) {
		t.Errorf("Skills = %q, want %q", app.Skills, want)
	}
}

func TestJobApplicationCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*JobApplicationInput)
		field  string
	}{
		{"unknown bd", func(in *JobApplicationInput) { in.BDID = ptr("BD-404") }, "bd_id"},
		{"missing title", func(in *JobApplicationInput) { in.JobTitle = nil }, "job_title"},
		{"unknown platform", func(in *JobApplicationInput) { in.Platform = ptr("Myspace") }, "platform"},
		{"ftp url", func(in *JobApplicationInput) { in.JobURL = ptr("ftp://acme.test") }, "job_url"},
		{"unknown status", func(in *JobApplicationInput) { in.ApplicationStatus = ptr("Ghosted") }, "application_status"},
		{"unknown job type", func(in *JobApplicationInput) { in.JobType = ptr("Gig") }, "job_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestJobApplicationService(t)
			in := validJobInput("BD-001")
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Create() error = %v, want a validation error", err)
			}
			if _, ok := appErr.Details[tt.field]; !ok {
				t.Errorf("Details = %v, want an entry for %q", appErr.Details, tt.field)
			}
		})
	}
}

func TestJobApplicationUpdate_FullKeepsAppliedDate(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)
	ctx := context.Background()

	in := validJobInput("BD-001")
	in.ApplicationStatus = ptr(model.StatusUnderReview)
	app, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A week later the application is edited without sending the date.
	svc.now = func() time.Time { return clientToday.AddDate(0, 0, 7) }
	replace := validJobInput("BD-001")
	replace.JobTitle = ptr("Senior Backend Engineer")
	updated, err := svc.Update(ctx, app.ID, replace, false)
	if err != nil {
		t.Fatalf("Update(full) error = %v", err)
	}

	if updated.AppliedDate.String() != "2025-03-10" {
		t.Errorf("AppliedDate = %s, want the stored 2025-03-10", updated.AppliedDate)
	}
	if updated.ApplicationStatus != model.StatusUnderReview {
		t.Errorf("ApplicationStatus = %q, want the stored %q", updated.ApplicationStatus, model.StatusUnderReview)
	}
	if updated.JobTitle != "Senior Backend Engineer" {
		t.Errorf("JobTitle = %q, want the new title", updated.JobTitle)
	}

	sent := validJobInput("BD-001")
	sent.AppliedDate = ptr(model.NewDate(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	updated, err = svc.Update(ctx, app.ID, sent, false)
	if err != nil {
		t.Fatalf("Update(full, date) error = %v", err)
	}
	if updated.AppliedDate.String() != "2025-02-01" {
		t.Errorf("AppliedDate = %s, want the sent 2025-02-01", updated.AppliedDate)
	}
}

func TestJobApplicationUpdate_ChecksNewBD(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)
	ctx := context.Background()
	app, err := svc.Create(ctx, validJobInput("BD-001"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, app.ID, JobApplicationInput{BDID: ptr("BD-404")}, true); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update(unknown bd) error = %v, want ErrValidation", err)
	}

	updated, err := svc.Update(ctx, app.ID, JobApplicationInput{
		BDID:              ptr("BD-002"),
		ApplicationStatus: ptr(model.StatusUnderReview),
	}, true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.BDID != "BD-002" || updated.ApplicationStatus != model.StatusUnderReview {
		t.Errorf("Update() = %s/%s, want BD-002/Under Review", updated.BDID, updated.ApplicationStatus)
	}
	if updated.JobTitle != "Backend Engineer" {
		t.Errorf("partial update changed JobTitle to %q", updated.JobTitle)
	}
}

func TestJobApplicationSearch(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)
	ctx := context.Background()

	second := validJobInput("BD-002")
	second.JobTitle = ptr("Data Analyst")
	second.Company = ptr("Globex")
	second.Platform = ptr("Indeed")
	for _, in := range []JobApplicationInput{validJobInput("BD-001"), second} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter repository.JobApplicationFilter
		want   []string
	}{
		{"by query on title", repository.JobApplicationFilter{Query: "analyst"}, []string{"Globex"}},
		{"by query on company", repository.JobApplicationFilter{Query: "acm"}, []string{"Acme"}},
		{"by platform", repository.JobApplicationFilter{Platform: "Indeed"}, []string{"Globex"}},
		{"by bd", repository.JobApplicationFilter{BDID: "BD-001"}, []string{"Acme"}},
		{"no match", repository.JobApplicationFilter{Status: model.StatusRejected}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			got := make([]string, len(apps))
			for i, a := range apps {
				got[i] = a.Company
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() companies = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJobApplicationStats_Invalidation(t *testing.T) {
	svc, _, c := newTestJobApplicationService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validJobInput("BD-001")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 1 || stats.ByPlatform["LinkedIn"] != 1 || stats.ByStatus[model.StatusApplied] != 1 {
		t.Errorf("Stats() = %+v, want one LinkedIn application", stats)
	}
	if _, ok := c.data[keyApplicationStats]; !ok {
		t.Fatal("Stats() was not cached")
	}

	if _, err := svc.Create(ctx, validJobInput("BD-002")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok := c.data[keyApplicationStats]; ok {
		t.Fatal("Create() did not invalidate cached stats")
	}

	stats, err = svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Stats().Total = %d, want 2", stats.Total)
	}
}

func TestJobApplicationGroupByBD(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)
	ctx := context.Background()
	for _, bd := range []string{"BD-001", "BD-001", "BD-002"} {
		if _, err := svc.Create(ctx, validJobInput(bd)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	groups, err := svc.GroupByBD(ctx, "")
	if err != nil {
		t.Fatalf("GroupByBD() error = %v", err)
	}
	if groups["BD-001"].Count != 2 || groups["BD-002"].Count != 1 {
		t.Errorf("GroupByBD() counts = %d/%d, want 2/1", groups["BD-001"].Count, groups["BD-002"].Count)
	}

	one, err := svc.GroupByBD(ctx, "BD-002")
	if err != nil {
		t.Fatalf("GroupByBD(BD-002) error = %v", err)
	}
	if len(one) != 1 || one["BD-002"].Count != 1 {
		t.Errorf("GroupByBD(BD-002) = %v, want only BD-002", one)
	}

	empty, err := svc.GroupByBD(ctx, "BD-404")
	if err != nil {
		t.Fatalf("GroupByBD(BD-404) error = %v", err)
	}
	if empty["BD-404"] == nil || empty["BD-404"].Count != 0 {
		t.Errorf("GroupByBD(BD-404) = %v, want an empty bucket", empty)
	}
}

func TestJobApplicationDelete(t *testing.T) {
	svc, _, _ := newTestJobApplicationService(t)
	ctx := context.Background()
	app, err := svc.Create(ctx, validJobInput("BD-001"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := svc.Delete(ctx, app.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.JobTitle != "Backend Engineer" {
		t.Errorf("Delete() returned %q", deleted.JobTitle)
	}
	if _, err := svc.Get(ctx, app.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
