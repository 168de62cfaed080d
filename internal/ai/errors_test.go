package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestListingError(t *testing.T) {
	cause := errors.New("generate content: 503")
	err := fmt.Errorf("gemini: %w", &ListingError{Err: cause})

	var listingErr *ListingError
	if !errors.As(err, &listingErr) {
		t.Fatalf("expected ListingError in chain")
	}

	if listingErr.Error() != "Failed to generate job listings. The provided URL might be invalid or the service is unavailable." {
		t.Fatalf("unexpected message: %q", listingErr.Error())
	}

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestAnalysisError(t *testing.T) {
	err := &AnalysisError{Title: "Senior React Developer", Err: context.DeadlineExceeded}

	if err.Error() != `Failed to analyze the job: "Senior React Developer".` {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable")
	}
}
