package repository

import (
	"context"

	"github.com/sakif/agency-backoffice/internal/model"
)

// ListOptions pages a list query. Limit <= 0 means no limit.
type ListOptions struct {
	Limit  int
	Offset int
}

type ClientFilter struct {
	Search string // substring of client, company or project name
	ListOptions
}

type DeveloperFilter struct {
	Name         string // substring of first or last name
	Experience   string
	Availability string
	Location     string // substring
	Skill        string // substring of the stored skill list
	ListOptions
}

type BDFilter struct {
	Name         string // substring
	Experience   string
	Availability string
	Location     string // substring
	ListOptions
}

type JobApplicationFilter struct {
	Query           string // substring of job title or company
	BDID            string
	Status          string
	Platform        string
	JobType         string
	ExperienceLevel string
	Company         string // substring
	Location        string // substring
	ListOptions
}

type InterviewFilter struct {
	BDID  string
	DevID string
	ListOptions
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, role model.Role, email string) (*model.User, error)
}

type ClientRepository interface {
	CreateClient(ctx context.Context, client *model.Client) error
	GetClient(ctx context.Context, id uint) (*model.Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error)
	UpdateClient(ctx context.Context, client *model.Client) error
	DeleteClient(ctx context.Context, id uint) error
}

type DeveloperRepository interface {
	CreateDeveloper(ctx context.Context, dev *model.Developer) error
	GetDeveloper(ctx context.Context, officeID string) (*model.Developer, error)
	GetDeveloperByEmail(ctx context.Context, email string) (*model.Developer, error)
	ListDevelopers(ctx context.Context, filter DeveloperFilter) ([]model.Developer, error)
	UpdateDeveloper(ctx context.Context, dev *model.Developer) error
	DeleteDeveloper(ctx context.Context, officeID string) error
	CountDeveloperReferences(ctx context.Context, officeID string) (int64, error)
}

type BDRepository interface {
	CreateBD(ctx context.Context, bd *model.BD) error
	GetBD(ctx context.Context, bdID string) (*model.BD, error)
	GetBDByEmail(ctx context.Context, email string) (*model.BD, error)
	ListBDs(ctx context.Context, filter BDFilter) ([]model.BD, error)
	UpdateBD(ctx context.Context, bd *model.BD) error
	DeleteBD(ctx context.Context, bdID string) error
	CountBDReferences(ctx context.Context, bdID string) (int64, error)
}

type JobApplicationRepository interface {
	CreateJobApplication(ctx context.Context, app *model.JobApplication) error
	GetJobApplication(ctx context.Context, id uint) (*model.JobApplication, error)
	ListJobApplications(ctx context.Context, filter JobApplicationFilter) ([]model.JobApplication, error)
	UpdateJobApplication(ctx context.Context, app *model.JobApplication) error
	DeleteJobApplication(ctx context.Context, id uint) error
	JobApplicationStats(ctx context.Context) (*model.JobApplicationStats, error)
}

type InterviewRepository interface {
	CreateInterview(ctx context.Context, s *model.InterviewSchedule) error
	GetInterview(ctx context.Context, id uint) (*model.InterviewSchedule, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]model.InterviewSchedule, error)
	UpdateInterview(ctx context.Context, s *model.InterviewSchedule) error
	DeleteInterview(ctx context.Context, id uint) error
}
