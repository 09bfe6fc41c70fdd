package evaluation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/sentimind/sentimind/internal/feed"
)

// cannedAnalyzer maps texts to fixed predictions
type cannedAnalyzer struct {
	predictions map[string]string
	failures    map[string]bool
}

func (c *cannedAnalyzer) Analyze(ctx context.Context, text string) (*feed.Analysis, error) {
	if c.failures[text] {
		return nil, fmt.Errorf("inference failed")
	}
	label := c.predictions[text]
	return &feed.Analysis{
		MainSentiment:   label,
		ConfidenceScore: 0.9,
	}, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate(t *testing.T) {
	dataset := []Sample{
		{Text: "t1", Expected: "Alegría"},
		{Text: "t2", Expected: "Alegría"},
		{Text: "t3", Expected: "Tristeza"},
		{Text: "t4", Expected: "Tristeza"},
	}
	analyzer := &cannedAnalyzer{predictions: map[string]string{
		"t1": "Alegría",
		"t2": "Tristeza", // miss
		"t3": "Tristeza",
		"t4": "Tristeza",
	}}

	report, err := Evaluate(context.Background(), analyzer, dataset)
	if err != nil {
		t.Fatalf("Evaluate() returned error: %v", err)
	}

	if report.Total != 4 || report.Correct != 3 {
		t.Errorf("Total/Correct = %d/%d, want 4/3", report.Total, report.Correct)
	}
	if !approxEqual(report.Accuracy, 0.75) {
		t.Errorf("Accuracy = %v, want 0.75", report.Accuracy)
	}

	// Alegría: tp=1 fp=0 fn=1 -> precision 1, recall 0.5, f1 2/3
	// Tristeza: tp=2 fp=1 fn=0 -> precision 2/3, recall 1, f1 0.8
	byLabel := make(map[string]LabelMetrics)
	for _, m := range report.PerLabel {
		byLabel[m.Label] = m
	}

	alegria := byLabel["Alegría"]
	if !approxEqual(alegria.Precision, 1.0) || !approxEqual(alegria.Recall, 0.5) {
		t.Errorf("Alegría P/R = %v/%v, want 1.0/0.5", alegria.Precision, alegria.Recall)
	}
	if !approxEqual(alegria.F1, 2.0/3.0) {
		t.Errorf("Alegría F1 = %v, want 2/3", alegria.F1)
	}

	tristeza := byLabel["Tristeza"]
	if !approxEqual(tristeza.Precision, 2.0/3.0) || !approxEqual(tristeza.Recall, 1.0) {
		t.Errorf("Tristeza P/R = %v/%v, want 2/3 and 1.0", tristeza.Precision, tristeza.Recall)
	}
	if !approxEqual(tristeza.F1, 0.8) {
		t.Errorf("Tristeza F1 = %v, want 0.8", tristeza.F1)
	}

	if !approxEqual(report.MacroF1, (2.0/3.0+0.8)/2) {
		t.Errorf("MacroF1 = %v", report.MacroF1)
	}
	if !approxEqual(report.WeightedF1, (2.0/3.0*2+0.8*2)/4) {
		t.Errorf("WeightedF1 = %v", report.WeightedF1)
	}

	if report.Confusion["Alegría"]["Tristeza"] != 1 {
		t.Errorf("Confusion[Alegría][Tristeza] = %d, want 1", report.Confusion["Alegría"]["Tristeza"])
	}
	if report.Confusion["Tristeza"]["Tristeza"] != 2 {
		t.Errorf("Confusion[Tristeza][Tristeza] = %d, want 2", report.Confusion["Tristeza"]["Tristeza"])
	}
}

func TestEvaluateCountsFailures(t *testing.T) {
	dataset := []Sample{
		{Text: "ok", Expected: "Alegría"},
		{Text: "broken", Expected: "Tristeza"},
	}
	analyzer := &cannedAnalyzer{
		predictions: map[string]string{"ok": "Alegría"},
		failures:    map[string]bool{"broken": true},
	}

	report, err := Evaluate(context.Background(), analyzer, dataset)
	if err != nil {
		t.Fatalf("Evaluate() returned error: %v", err)
	}
	if report.Failed != 1 || report.Total != 1 {
		t.Errorf("Failed/Total = %d/%d, want 1/1", report.Failed, report.Total)
	}
	if !approxEqual(report.Accuracy, 1.0) {
		t.Errorf("Accuracy = %v, want 1.0 over scored samples", report.Accuracy)
	}
}

func TestEvaluateEmptyDataset(t *testing.T) {
	if _, err := Evaluate(context.Background(), &cannedAnalyzer{}, nil); err == nil {
		t.Error("Expected error for empty dataset")
	}
}

func TestBuiltinDataset(t *testing.T) {
	if len(BuiltinDataset) == 0 {
		t.Fatal("Builtin dataset should not be empty")
	}
	for i, s := range BuiltinDataset {
		if s.Text == "" || s.Expected == "" {
			t.Errorf("Sample %d is incomplete: %+v", i, s)
		}
	}
}

func TestReportString(t *testing.T) {
	dataset := []Sample{{Text: "t1", Expected: "Alegría"}}
	analyzer := &cannedAnalyzer{predictions: map[string]string{"t1": "Alegría"}}

	report, err := Evaluate(context.Background(), analyzer, dataset)
	if err != nil {
		t.Fatalf("Evaluate() returned error: %v", err)
	}

	out := report.String()
	if out == "" {
		t.Fatal("Expected non-empty report")
	}
	for _, want := range []string{"Accuracy", "Alegría", "Confusion matrix"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}
}
