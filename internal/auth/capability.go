package auth

// Capability names a group of endpoints. Routes demand one capability and
// each role holds a fixed set of them.
type Capability string

const (
	CapClients         Capability = "clients"
	CapDevelopersRead  Capability = "developers.read"
	CapDevelopersWrite Capability = "developers.write"
	CapBDs             Capability = "bds"
	CapJobs            Capability = "jobs"
	CapInterviewsRead  Capability = "interviews.read"
	CapInterviewsWrite Capability = "interviews.write"
)

func caps(list ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(list))
	for _, c := range list {
		m[c] = true
	}
	return m
}

var roleCapabilities = map[string]map[Capability]bool{
	"admin": caps(CapClients, CapDevelopersRead, CapDevelopersWrite, CapBDs, CapJobs,
		CapInterviewsRead, CapInterviewsWrite),
	"manager": caps(CapClients, CapDevelopersRead, CapDevelopersWrite, CapBDs, CapJobs,
		CapInterviewsRead, CapInterviewsWrite),
	"assistant": caps(CapClients, CapDevelopersRead, CapDevelopersWrite, CapInterviewsRead),
	"bd":        caps(CapDevelopersRead, CapJobs, CapInterviewsRead, CapInterviewsWrite),
	"developer": caps(CapDevelopersRead, CapDevelopersWrite, CapInterviewsRead),
	"designer":  caps(CapDevelopersRead, CapInterviewsRead),
}

// Allows reports whether role holds the capability. Unknown roles hold nothing.
func Allows(role string, want Capability) bool {
	return roleCapabilities[role][want]
}
