package enums

import "fmt"

// ResumeStatus tracks the review state of a candidate's resume.
type ResumeStatus string

const (
	ResumeStatusPending  ResumeStatus = "pending"
	ResumeStatusUploaded ResumeStatus = "uploaded"
	ResumeStatusReviewed ResumeStatus = "reviewed"
)

var validResumeStatuses = []ResumeStatus{
	ResumeStatusPending,
	ResumeStatusUploaded,
	ResumeStatusReviewed,
}

// String implements fmt.Stringer.
func (s ResumeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ResumeStatus.
func (s ResumeStatus) IsValid() bool {
	for _, candidate := range validResumeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseResumeStatus converts raw input into a ResumeStatus.
func ParseResumeStatus(value string) (ResumeStatus, error) {
	for _, candidate := range validResumeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resume status %q", value)
}
