package validation

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"
)

const (
	DetailsFilename = "validation_details.csv"
	SummaryFilename = "validation_summary.txt"
)

// SaveResults writes the per-decision rows and the summary into dir.
// The directory is created if needed.
func SaveResults(dir string, details []Decision, summary *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating results dir: %w", err)
	}
	data, err := csvutil.Marshal(details)
	if err != nil {
		return fmt.Errorf("error marshaling details: %w", err)
	}
	detailsPath := filepath.Join(dir, DetailsFilename)
	if err := os.WriteFile(detailsPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing details: %w", err)
	}
	summaryPath := filepath.Join(dir, SummaryFilename)
	if err := os.WriteFile(summaryPath, []byte(formatSummary(summary)), 0o644); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	return nil
}

// LoadResults reads back what SaveResults wrote. Values round-trip exactly.
func LoadResults(dir string) ([]Decision, *Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, DetailsFilename))
	if err != nil {
		return nil, nil, fmt.Errorf("error reading details: %w", err)
	}
	details := make([]Decision, 0)
	if err := csvutil.Unmarshal(data, &details); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling details: %w", err)
	}
	sumData, err := os.ReadFile(filepath.Join(dir, SummaryFilename))
	if err != nil {
		return nil, nil, fmt.Errorf("error reading summary: %w", err)
	}
	summary, err := parseSummary(sumData)
	if err != nil {
		return nil, nil, err
	}
	return details, summary, nil
}

func formatSummary(s *Summary) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "total_decisions: %d\n", s.TotalDecisions)
	fmt.Fprintf(&b, "count_within_3: %d\n", s.CountWithin3)
	fmt.Fprintf(&b, "pct_within_3: %s\n", s.PctWithin3.String())
	if s.MeanAbsLapDelta != nil {
		fmt.Fprintf(&b, "mean_abs_lap_delta: %s\n", s.MeanAbsLapDelta.String())
	} else {
		fmt.Fprintf(&b, "mean_abs_lap_delta: n/a\n")
	}
	fmt.Fprintf(&b, "count_errors: %d\n", s.CountErrors)
	return b.String()
}

//nolint:cyclop // plain line switch
func parseSummary(data []byte) (*Summary, error) {
	ret := &Summary{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("invalid summary line %q", line)
		}
		value = strings.TrimSpace(value)
		var err error
		switch key {
		case "total_decisions":
			ret.TotalDecisions, err = strconv.Atoi(value)
		case "count_within_3":
			ret.CountWithin3, err = strconv.Atoi(value)
		case "pct_within_3":
			ret.PctWithin3, err = decimal.NewFromString(value)
		case "mean_abs_lap_delta":
			if value != "n/a" {
				var mean decimal.Decimal
				if mean, err = decimal.NewFromString(value); err == nil {
					ret.MeanAbsLapDelta = &mean
				}
			}
		case "count_errors":
			ret.CountErrors, err = strconv.Atoi(value)
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing summary %s: %w", key, err)
		}
	}
	return ret, scanner.Err()
}
