package services

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"jira-docgen/internal/models"
)

func TestParseSolutionResponse_WellFormedHighConfidence(t *testing.T) {
	response := `{"has_solution": true, "solution_summary": "Restart service", "solution_details": "systemctl restart app", "confidence": "high"}`

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("high-confidence solution should be kept")
	}
	if solution.Summary != "Restart service" {
		t.Fatalf("unexpected summary %q", solution.Summary)
	}
	if solution.Details != "systemctl restart app" {
		t.Fatalf("unexpected details %q", solution.Details)
	}
	if solution.Confidence != models.ConfidenceHigh {
		t.Fatalf("unexpected confidence %q", solution.Confidence)
	}
}

func TestParseSolutionResponse_LowConfidenceExcluded(t *testing.T) {
	response := `{"has_solution": true, "solution_summary": "Restart service", "confidence": "low"}`

	if _, keep := ParseSolutionResponse(response); keep {
		t.Fatal("low-confidence solution must be excluded")
	}
}

func TestParseSolutionResponse_NoSolutionExcluded(t *testing.T) {
	response := `{"has_solution": false, "confidence": "high"}`

	if _, keep := ParseSolutionResponse(response); keep {
		t.Fatal("has_solution=false must be excluded")
	}
}

func TestParseSolutionResponse_JSONFencedBlock(t *testing.T) {
	response := "Here is my answer:\n```json\n{\"has_solution\": true, \"solution_summary\": \"Clear the cache\", \"confidence\": \"medium\"}\n```\nHope that helps."

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("fenced JSON should parse and be kept")
	}
	if solution.Summary != "Clear the cache" {
		t.Fatalf("unexpected summary %q", solution.Summary)
	}
}

func TestParseSolutionResponse_PlainFencedBlock(t *testing.T) {
	response := "```\n{\"has_solution\": true, \"solution_summary\": \"Bump the timeout\", \"confidence\": \"high\"}\n```"

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("plain fenced JSON should parse and be kept")
	}
	if solution.Summary != "Bump the timeout" {
		t.Fatalf("unexpected summary %q", solution.Summary)
	}
}

func TestParseSolutionResponse_DefaultsFilledIn(t *testing.T) {
	response := `{"has_solution": true, "confidence": "high"}`

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("solution should be kept")
	}
	if solution.Summary != "No summary provided" {
		t.Fatalf("unexpected default summary %q", solution.Summary)
	}
	if solution.Details != "No details provided" {
		t.Fatalf("unexpected default details %q", solution.Details)
	}
}

func TestParseSolutionResponse_EmptyConfidenceDefaultsToMedium(t *testing.T) {
	response := `{"has_solution": true, "solution_summary": "s"}`

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("solution should be kept")
	}
	if solution.Confidence != models.ConfidenceMedium {
		t.Fatalf("expected medium default, got %q", solution.Confidence)
	}
}

func TestParseSolutionResponse_NoSolutionMarkerSkipsSilently(t *testing.T) {
	if _, keep := ParseSolutionResponse("NO_SOLUTION_FOUND"); keep {
		t.Fatal("bare marker must be excluded")
	}
	if _, keep := ParseSolutionResponse("I looked carefully but NO_SOLUTION_FOUND in this ticket."); keep {
		t.Fatal("marker anywhere in prose must be excluded")
	}
}

func TestParseSolutionResponse_GarbageRetainedAtLowConfidence(t *testing.T) {
	response := "The fix was to reindex the database, though I cannot be sure."

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("unparseable response without the marker must be retained")
	}
	if solution.Confidence != models.ConfidenceLow {
		t.Fatalf("expected low confidence, got %q", solution.Confidence)
	}
	if solution.Summary != unparsedSolutionSummary {
		t.Fatalf("unexpected summary %q", solution.Summary)
	}
	if solution.Details != response {
		t.Fatalf("details should be the raw response, got %q", solution.Details)
	}
}

func TestParseSolutionResponse_GarbageDetailsCappedAt500(t *testing.T) {
	response := strings.Repeat("y", 2000)

	solution, keep := ParseSolutionResponse(response)
	if !keep {
		t.Fatal("expected retention")
	}
	if len(solution.Details) != unparsedDetailLimit {
		t.Fatalf("expected %d detail chars, got %d", unparsedDetailLimit, len(solution.Details))
	}
}

func TestParseSolutionResponse_Idempotent(t *testing.T) {
	responses := []string{
		`{"has_solution": true, "solution_summary": "Restart service", "solution_details": "d", "confidence": "high"}`,
		"```json\n{\"has_solution\": true, \"solution_summary\": \"s\", \"confidence\": \"medium\"}\n```",
		"free text with no structure at all",
	}

	for _, response := range responses {
		first, keepFirst := ParseSolutionResponse(response)
		second, keepSecond := ParseSolutionResponse(response)
		if keepFirst != keepSecond || !reflect.DeepEqual(first, second) {
			t.Fatalf("parsing is not idempotent for %q: %+v vs %+v", response, first, second)
		}
	}
}

func TestExtractSolutions_GatewayFailureOmitsTicket(t *testing.T) {
	gateway := &fakeGateway{
		fn: func(prompt string, _ float64) (string, error) {
			if strings.Contains(prompt, "EX-2") {
				return "", errors.New("gateway down")
			}
			return `{"has_solution": true, "solution_summary": "Restart service", "confidence": "high"}`, nil
		},
	}
	tickets := []*models.Ticket{
		{Key: "EX-1", Summary: "one", IssueType: "Bug"},
		{Key: "EX-2", Summary: "two", IssueType: "Bug"},
	}

	solved := NewExtractor(gateway, nil).ExtractSolutions(tickets)
	if len(solved) != 1 {
		t.Fatalf("expected 1 solved ticket, got %d", len(solved))
	}
	if solved[0].Key != "EX-1" {
		t.Fatalf("wrong ticket retained: %s", solved[0].Key)
	}
	if solved[0].Solution == nil || solved[0].Solution.Summary != "Restart service" {
		t.Fatalf("solution not attached: %+v", solved[0].Solution)
	}
}

func TestExtractSolutions_ConfidenceFiltering(t *testing.T) {
	responses := map[string]string{
		"EX-HIGH": `{"has_solution": true, "solution_summary": "Restart service", "confidence": "high"}`,
		"EX-LOW":  `{"has_solution": true, "solution_summary": "Restart service", "confidence": "low"}`,
	}
	gateway := &fakeGateway{
		fn: func(prompt string, _ float64) (string, error) {
			for key, response := range responses {
				if strings.Contains(prompt, key) {
					return response, nil
				}
			}
			return "NO_SOLUTION_FOUND", nil
		},
	}
	tickets := []*models.Ticket{
		{Key: "EX-HIGH", Summary: "works", IssueType: "Bug"},
		{Key: "EX-LOW", Summary: "shaky", IssueType: "Bug"},
	}

	solved := NewExtractor(gateway, nil).ExtractSolutions(tickets)
	if len(solved) != 1 || solved[0].Key != "EX-HIGH" {
		t.Fatalf("only the high-confidence ticket should survive, got %+v", solved)
	}
}
