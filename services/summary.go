package services

import (
	"fmt"
	"sort"
	"strings"

	"vehicle-reconciler/models"
	"vehicle-reconciler/utils"
)

// Summary holds per-provider status counts for a finished batch.
type Summary struct {
	Total     int
	Providers []string
	ByStatus  map[string]map[string]int
}

// SummaryService computes and prints batch result summaries.
type SummaryService struct {
	logger *utils.Logger
}

// NewSummaryService creates a SummaryService with the given logger.
func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate tallies result statuses per provider.
func (s *SummaryService) Generate(records []*models.SourceRecord, providers []string) *Summary {
	summary := &Summary{
		Total:     len(records),
		Providers: providers,
		ByStatus:  make(map[string]map[string]int),
	}
	for _, name := range providers {
		summary.ByStatus[name] = make(map[string]int)
	}

	for _, rec := range records {
		for _, name := range providers {
			if res, ok := rec.Result(name); ok && res.Status != "" {
				summary.ByStatus[name][res.Status]++
			}
		}
	}
	return summary
}

// Print writes a human-readable summary to stdout.
func (s *SummaryService) Print(summary *Summary) {
	sep := strings.Repeat("=", 60)

	fmt.Println()
	fmt.Println(sep)
	fmt.Println(center("PROCESSING SUMMARY", 60))
	fmt.Println(sep)
	fmt.Printf("Total vehicles processed: %d\n", summary.Total)

	for _, name := range summary.Providers {
		counts := summary.ByStatus[name]
		if len(counts) == 0 {
			continue
		}
		fmt.Printf("\n%s Results:\n", name)

		statuses := make([]string, 0, len(counts))
		for status := range counts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Printf("  %s: %d\n", status, counts[status])
		}
	}
	fmt.Println(sep)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
