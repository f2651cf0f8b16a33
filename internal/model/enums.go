package model

// Enumerated values shared by developers, BD staff and job applications.
// Stored verbatim; the strings are what clients send and receive.

// Experience buckets for developers and BD staff.
const (
	ExperienceZeroToOne   = "0-1 years"
	ExperienceOneToTwo    = "1-2 years"
	ExperienceTwoToThree  = "2-3 years"
	ExperienceThreeToFive = "3-5 years"
	ExperienceFivePlus    = "5+ years"
	ExperienceTenPlus     = "10+ years"
)

var ExperienceBuckets = []string{
	ExperienceZeroToOne,
	ExperienceOneToTwo,
	ExperienceTwoToThree,
	ExperienceThreeToFive,
	ExperienceFivePlus,
	ExperienceTenPlus,
}

// Availability values for developers and BD staff.
const (
	AvailabilityFullTime    = "Full-time"
	AvailabilityPartTime    = "Part-time"
	AvailabilityContract    = "Contract"
	AvailabilityFreelance   = "Freelance"
	AvailabilityUnavailable = "Unavailable"
)

var AvailabilityOptions = []string{
	AvailabilityFullTime,
	AvailabilityPartTime,
	AvailabilityContract,
	AvailabilityFreelance,
	AvailabilityUnavailable,
}

var JobTypes = []string{
	"Full-time",
	"Part-time",
	"Contract",
	"Freelance",
	"Internship",
	"Remote",
	"Hybrid",
}

var ExperienceLevels = []string{
	"Entry Level",
	"Junior (1-2 years)",
	"Mid-Level (3-5 years)",
	"Senior (5+ years)",
	"Lead/Principal",
	"Executive",
}

var Platforms = []string{
	"LinkedIn",
	"Indeed",
	"Glassdoor",
	"AngelList",
	"Stack Overflow Jobs",
	"GitHub Jobs",
	"Company Website",
	"Referral",
	"Other",
}

// Application statuses. StatusApplied is the default for new applications.
const (
	StatusApplied            = "Applied"
	StatusUnderReview        = "Under Review"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusInterviewCompleted = "Interview Completed"
	StatusOfferReceived      = "Offer Received"
	StatusRejected           = "Rejected"
	StatusWithdrawn          = "Withdrawn"
	StatusAccepted           = "Accepted"
)

var ApplicationStatuses = []string{
	StatusApplied,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusInterviewCompleted,
	StatusOfferReceived,
	StatusRejected,
	StatusWithdrawn,
	StatusAccepted,
}

// NotAvailable is stored for optional BD contact fields left blank.
const NotAvailable = "N/A"

// Contains reports whether v is one of the allowed values.
func Contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
