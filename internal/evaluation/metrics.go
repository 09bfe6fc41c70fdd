package evaluation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sentimind/sentimind/internal/feed"
)

// Analyzer is the analysis contract being measured. The feed service
// satisfies it; tests substitute a canned implementation.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*feed.Analysis, error)
}

// LabelMetrics holds per-label classification quality
type LabelMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the outcome of evaluating the analyzer over a labeled dataset.
// All metrics compare the predicted main sentiment to the expected label;
// secondary detections are not scored.
type Report struct {
	Total      int
	Correct    int
	Failed     int
	Accuracy   float64
	PerLabel   []LabelMetrics
	MacroF1    float64
	WeightedF1 float64
	// Confusion counts predictions per (expected, predicted) pair
	Confusion map[string]map[string]int
	Labels    []string
}

// Evaluate runs every sample through the analyzer and scores the predicted
// main sentiment against the expected label. Samples whose analysis fails
// are counted in Failed and excluded from the metrics.
func Evaluate(ctx context.Context, analyzer Analyzer, dataset []Sample) (*Report, error) {
	if len(dataset) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	report := &Report{
		Confusion: make(map[string]map[string]int),
	}

	labelSet := make(map[string]bool)
	var expected, predicted []string

	for _, sample := range dataset {
		analysis, err := analyzer.Analyze(ctx, sample.Text)
		if err != nil {
			report.Failed++
			continue
		}

		expected = append(expected, sample.Expected)
		predicted = append(predicted, analysis.MainSentiment)
		labelSet[sample.Expected] = true
		labelSet[analysis.MainSentiment] = true

		if report.Confusion[sample.Expected] == nil {
			report.Confusion[sample.Expected] = make(map[string]int)
		}
		report.Confusion[sample.Expected][analysis.MainSentiment]++

		if analysis.MainSentiment == sample.Expected {
			report.Correct++
		}
	}

	report.Total = len(expected)
	if report.Total == 0 {
		return nil, fmt.Errorf("every sample failed analysis")
	}
	report.Accuracy = float64(report.Correct) / float64(report.Total)

	for label := range labelSet {
		report.Labels = append(report.Labels, label)
	}
	sort.Strings(report.Labels)

	var macroF1, weightedF1 float64
	for _, label := range report.Labels {
		m := labelMetrics(label, expected, predicted)
		report.PerLabel = append(report.PerLabel, m)
		macroF1 += m.F1
		weightedF1 += m.F1 * float64(m.Support)
	}
	report.MacroF1 = macroF1 / float64(len(report.Labels))
	report.WeightedF1 = weightedF1 / float64(report.Total)

	return report, nil
}

func labelMetrics(label string, expected, predicted []string) LabelMetrics {
	var tp, fp, fn, support int
	for i := range expected {
		if expected[i] == label {
			support++
			if predicted[i] == label {
				tp++
			} else {
				fn++
			}
		} else if predicted[i] == label {
			fp++
		}
	}

	m := LabelMetrics{Label: label, Support: support}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// String renders the report as a plain-text table with the confusion matrix
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Samples: %d  Correct: %d  Failed: %d\n", r.Total, r.Correct, r.Failed)
	fmt.Fprintf(&b, "Accuracy: %.2f%%  Macro F1: %.4f  Weighted F1: %.4f\n\n", r.Accuracy*100, r.MacroF1, r.WeightedF1)

	fmt.Fprintf(&b, "%-14s %9s %9s %9s %9s\n", "Label", "Precision", "Recall", "F1", "Support")
	for _, m := range r.PerLabel {
		fmt.Fprintf(&b, "%-14s %9.4f %9.4f %9.4f %9d\n", m.Label, m.Precision, m.Recall, m.F1, m.Support)
	}

	b.WriteString("\nConfusion matrix (rows: expected, columns: predicted)\n")
	fmt.Fprintf(&b, "%-14s", "")
	for _, label := range r.Labels {
		fmt.Fprintf(&b, "%14s", truncateLabel(label))
	}
	b.WriteString("\n")
	for _, row := range r.Labels {
		fmt.Fprintf(&b, "%-14s", truncateLabel(row))
		for _, col := range r.Labels {
			fmt.Fprintf(&b, "%14d", r.Confusion[row][col])
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= 12 {
		return label
	}
	return string(runes[:12])
}
