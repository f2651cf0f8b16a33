package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/model"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/repository/gormrepo"
	"github.com/sakif/agency-backoffice/internal/validate"
)

func newTestDeveloperService(t *testing.T, policy DeletePolicy) (*DeveloperService, *gormrepo.DB) {
	t.Helper()
	store := newTestStore(t)
	return NewDeveloperService(store, policy, validate.New(), testLogger()), store
}

func validDeveloperInput(officeID, email string) DeveloperInput {
	return DeveloperInput{
		OfficeID:        ptr(officeID),
		FirstName:       ptr("Dana"),
		LastName:        ptr("Dev"),
		Email:           ptr(email),
		Phone:           ptr("+1 (555) 010-2030"),
		GraduationYear:  ptr(2018),
		TechnicalSkills: ptr([]string{" Go", "go", "Go ", "", "SQL"}),
		Languages:       ptr([]string{"English"}),
		Experience:      ptr(model.ExperienceThreeToFive),
		Availability:    ptr(model.AvailabilityFullTime),
	}
}

func TestDeveloperCreate_CleansLists(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()

	dev, err := svc.Create(ctx, validDeveloperInput("OF-1", "Dana@Agency.test"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if want := []string{"Go", "go", "SQL"}; !reflect.DeepEqual(dev.TechnicalSkills, want) {
		t.Errorf("TechnicalSkills = %q, want %q", dev.TechnicalSkills, want)
	}

	got, err := svc.Get(ctx, "OF-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.TechnicalSkills, dev.TechnicalSkills) {
		t.Errorf("stored TechnicalSkills = %q, want %q", got.TechnicalSkills, dev.TechnicalSkills)
	}
	if got.Email != "dana@agency.test" {
		t.Errorf("Email = %q, want normalised address", got.Email)
	}
}

func TestDeveloperCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DeveloperInput)
		field  string
	}{
		{"missing office id", func(in *DeveloperInput) { in.OfficeID = nil }, "office_id"},
		{"missing last name", func(in *DeveloperInput) { in.LastName = ptr("") }, "last_name"},
		{"short phone", func(in *DeveloperInput) { in.Phone = ptr("12345") }, "phone"},
		{"phone with letters", func(in *DeveloperInput) { in.Phone = ptr("555-CALL-NOW") }, "phone"},
		{"graduation too early", func(in *DeveloperInput) { in.GraduationYear = ptr(1949) }, "graduation_year"},
		{"unknown experience", func(in *DeveloperInput) { in.Experience = ptr("7 years") }, "experience"},
		{"missing experience", func(in *DeveloperInput) { in.Experience = nil }, "experience"},
		{"unknown availability", func(in *DeveloperInput) { in.Availability = ptr("Sometimes") }, "availability"},
		{"negative salary", func(in *DeveloperInput) { in.Salary = ptr(-10.0) }, "salary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestDeveloperService(t, DeleteAllow)
			in := validDeveloperInput("OF-1", "dana@agency.test")
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

func TestDeveloperCreate_Duplicates(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validDeveloperInput("OF-1", "dana@agency.test")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name  string
		in    DeveloperInput
		field string
	}{
		{"same office id", validDeveloperInput("OF-1", "other@agency.test"), "office_id"},
		{"same email", validDeveloperInput("OF-2", "DANA@agency.test"), "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrConflict) {
				t.Fatalf("Create() error = %v, want ErrConflict", err)
			}
			if appErr.Field != tt.field {
				t.Errorf("conflict field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}
}

func TestDeveloperUpdate(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validDeveloperInput("OF-1", "dana@agency.test")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, "OF-1", DeveloperInput{
		Location:        ptr("Dhaka"),
		TechnicalSkills: ptr([]string{"Rust", "Rust"}),
		OfficeID:        ptr("OF-999"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.OfficeID != "OF-1" {
		t.Errorf("OfficeID = %q, the key must not change", updated.OfficeID)
	}
	if updated.FirstName != "Dana" || updated.Location != "Dhaka" {
		t.Errorf("Update() = %+v, want name kept and location set", updated)
	}
	if !reflect.DeepEqual(updated.TechnicalSkills, []string{"Rust"}) {
		t.Errorf("TechnicalSkills = %q, want [Rust]", updated.TechnicalSkills)
	}

	if _, err := svc.Update(ctx, "OF-404", DeveloperInput{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDeveloperUpdate_OmittedFieldsKept(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validDeveloperInput("OF-1", "dana@agency.test")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The edit form only sends what changed.
	updated, err := svc.Update(ctx, "OF-1", DeveloperInput{Location: ptr("Sylhet")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Phone != "+1 (555) 010-2030" {
		t.Errorf("Phone = %q, want the stored phone", updated.Phone)
	}
	if !reflect.DeepEqual(updated.TechnicalSkills, []string{"Go", "go", "SQL"}) {
		t.Errorf("TechnicalSkills = %q, want the stored skills", updated.TechnicalSkills)
	}
	if updated.Email != "dana@agency.test" || updated.Experience != model.ExperienceThreeToFive {
		t.Errorf("Update() = %+v, want email and experience kept", updated)
	}

	// A sent field is still validated.
	_, err = svc.Update(ctx, "OF-1", DeveloperInput{Email: ptr("not-an-email")})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update(bad email) error = %v, want ErrValidation", err)
	}
}

func TestDeveloperGetByEmail(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()
	if _, err := svc.Create(ctx, validDeveloperInput("OF-1", "dana@agency.test")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dev, err := svc.GetByEmail(ctx, " Dana@Agency.TEST ")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if dev.OfficeID != "OF-1" {
		t.Errorf("GetByEmail() = %q, want OF-1", dev.OfficeID)
	}
	if _, err := svc.GetByEmail(ctx, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetByEmail(\"\") error = %v, want ErrValidation", err)
	}
}

func TestDeveloperList_Filters(t *testing.T) {
	svc, _ := newTestDeveloperService(t, DeleteAllow)
	ctx := context.Background()
	a := validDeveloperInput("OF-1", "dana@agency.test")
	b := validDeveloperInput("OF-2", "eli@agency.test")
	b.FirstName = ptr("Eli")
	b.Experience = ptr(model.ExperienceZeroToOne)
	for _, in := range []DeveloperInput{a, b} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	devs, err := svc.List(ctx, repository.DeveloperFilter{Experience: model.ExperienceZeroToOne})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devs) != 1 || devs[0].OfficeID != "OF-2" {
		t.Errorf("List(experience) = %d developers, want only OF-2", len(devs))
	}
}

func TestDeveloperDelete_Policy(t *testing.T) {
	tests := []struct {
		name    string
		policy  DeletePolicy
		wantErr error
	}{
		{"allow leaves dangling schedule", DeleteAllow, nil},
		{"restrict refuses", DeleteRestrict, apperror.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestDeveloperService(t, tt.policy)
			ctx := context.Background()
			if _, err := svc.Create(ctx, validDeveloperInput("OF-1", "dana@agency.test")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			sched := &model.InterviewSchedule{
				CompanyName: "Acme", Role: "Backend", BDID: "BD-1", DevID: "OF-1",
				InterviewDate: model.NewDate(clientToday),
			}
			if err := store.CreateInterview(ctx, sched); err != nil {
				t.Fatalf("CreateInterview() error = %v", err)
			}

			dev, err := svc.Delete(ctx, "OF-1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if dev.FullName() != "Dana Dev" {
				t.Errorf("Delete() returned %q, want Dana Dev", dev.FullName())
			}
			if _, err := store.GetInterview(ctx, sched.ID); err != nil {
				t.Errorf("schedule should survive the delete, GetInterview() error = %v", err)
			}
		})
	}
}
