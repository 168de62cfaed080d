package ai

import "fmt"

const listingFailureMessage = "Failed to generate job listings. The provided URL might be invalid or the service is unavailable."

// ListingError is returned by listing generators. Its message is safe to show
// to the user; the underlying cause is available through Unwrap.
type ListingError struct {
	Err error
}

func (e *ListingError) Error() string {
	return listingFailureMessage
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// AnalysisError is returned by match analyzers and names the posting that failed.
type AnalysisError struct {
	Title string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("Failed to analyze the job: \"%s\".", e.Title)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
