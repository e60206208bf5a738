package mlmodel

import (
	"testing"

	"github.com/predictia/predictia-go/pkg/models"
)

// TestDetectKindStringTarget tests that string targets select
// classification regardless of parseability
func TestDetectKindStringTarget(t *testing.T) {
	targets := []interface{}{"yes", "no", "yes"}
	if kind := DetectKind(targets); kind != models.ModelKindClassification {
		t.Errorf("Expected classification for string targets, got %s", kind)
	}

	numericStrings := make([]interface{}, 0, 20)
	for i := 0; i < 20; i++ {
		numericStrings = append(numericStrings, "3.5")
	}
	if kind := DetectKind(numericStrings); kind != models.ModelKindClassification {
		t.Errorf("Expected classification for numeric-string targets, got %s", kind)
	}
}

// TestDetectKindBooleanTarget tests that boolean targets select
// classification
func TestDetectKindBooleanTarget(t *testing.T) {
	targets := []interface{}{true, false, true}
	if kind := DetectKind(targets); kind != models.ModelKindClassification {
		t.Errorf("Expected classification for boolean targets, got %s", kind)
	}
}

// TestDetectKindFewDistinctNumeric tests the <=10 distinct numeric
// values heuristic selecting classification
func TestDetectKindFewDistinctNumeric(t *testing.T) {
	targets := []interface{}{0.0, 1.0, 0.0, 1.0, 0.0, 1.0}
	if kind := DetectKind(targets); kind != models.ModelKindClassification {
		t.Errorf("Expected classification for binary numeric targets, got %s", kind)
	}
}

// TestDetectKindManyDistinctNumeric tests that more than 10 distinct
// numeric values select regression
func TestDetectKindManyDistinctNumeric(t *testing.T) {
	targets := []interface{}{3.2, 7.9, 0.4, 12.1, 5.5, 8.8, 1.1, 2.2, 9.9, 4.4, 6.6, 10.1}
	if kind := DetectKind(targets); kind != models.ModelKindRegression {
		t.Errorf("Expected regression for %d distinct numeric targets, got %s", len(targets), kind)
	}
}

// TestDetectKindThresholdBoundary tests the heuristic exactly at the
// threshold: 10 distinct stays classification, 11 flips to regression
func TestDetectKindThresholdBoundary(t *testing.T) {
	targets := make([]interface{}, 0, 11)
	for i := 0; i < 10; i++ {
		targets = append(targets, float64(i))
	}
	if kind := DetectKind(targets); kind != models.ModelKindClassification {
		t.Errorf("Expected classification at 10 distinct values, got %s", kind)
	}

	targets = append(targets, 10.0)
	if kind := DetectKind(targets); kind != models.ModelKindRegression {
		t.Errorf("Expected regression at 11 distinct values, got %s", kind)
	}
}

// TestDetectKindMissingCountsAsDistinct tests that missing target
// values count as one distinct value of their own: 10 distinct numbers
// plus a nil crosses the threshold, 9 plus a nil does not, and repeats
// of nil add nothing further
func TestDetectKindMissingCountsAsDistinct(t *testing.T) {
	targets := make([]interface{}, 0, 12)
	for i := 0; i < 9; i++ {
		targets = append(targets, float64(i))
	}
	targets = append(targets, nil)
	if kind := DetectKind(targets); kind != models.ModelKindClassification {
		t.Errorf("Expected classification at 9 distinct values plus missing, got %s", kind)
	}

	targets = append(targets, 9.0)
	if kind := DetectKind(targets); kind != models.ModelKindRegression {
		t.Errorf("Expected regression at 10 distinct values plus missing, got %s", kind)
	}

	targets = append(targets, nil)
	if kind := DetectKind(targets); kind != models.ModelKindRegression {
		t.Errorf("Expected repeated missing values to count once, got %s", kind)
	}
}
