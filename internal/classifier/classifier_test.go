package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilityops/resolution-service/internal/domain"
)

func TestClassify(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name           string
		description    string
		wantIssueCode  *string
		wantConfidence domain.Confidence
	}{
		{
			name:           "two keyword hits score high",
			description:    "AC not cooling in room 204",
			wantIssueCode:  strptr("hvac"),
			wantConfidence: domain.ConfidenceHigh,
		},
		{
			name:           "single weak hit scores medium",
			description:    "tap is broken",
			wantIssueCode:  strptr("plumbing"),
			wantConfidence: domain.ConfidenceMedium,
		},
		{
			name:           "weighted entry reaches high from a phrase",
			description:    "lift stuck between floors",
			wantIssueCode:  strptr("elevator"),
			wantConfidence: domain.ConfidenceHigh,
		},
		{
			name:           "no keywords at all",
			description:    "please send someone",
			wantIssueCode:  nil,
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name:           "empty description",
			description:    "",
			wantIssueCode:  nil,
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name:           "whitespace only",
			description:    "   \t  ",
			wantIssueCode:  nil,
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name:           "close runner-up downgrades to low",
			description:    "leak near the light",
			wantIssueCode:  strptr("plumbing"),
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name:           "short keywords only match whole words",
			description:    "action required in the factory",
			wantIssueCode:  nil,
			wantConfidence: domain.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.description)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			if tt.wantIssueCode == nil {
				assert.Nil(t, got.IssueCode)
				assert.Nil(t, got.SkillGroupCode)
			} else {
				require.NotNil(t, got.IssueCode)
				assert.Equal(t, *tt.wantIssueCode, *got.IssueCode)
				require.NotNil(t, got.SkillGroupCode)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewDefault()
	first := c.Classify("water leak from the bathroom pipe")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Classify("water leak from the bathroom pipe"))
	}
}

func TestClassifyTieGoesToFirstDeclaredEntry(t *testing.T) {
	entries := []Entry{
		{Keywords: []string{"buzz"}, IssueCode: "first", SkillGroupCode: "first", Weight: 1},
		{Keywords: []string{"buzz"}, IssueCode: "second", SkillGroupCode: "second", Weight: 1},
	}
	got := New(entries).Classify("there is a buzz")
	require.NotNil(t, got.IssueCode)
	assert.Equal(t, "first", *got.IssueCode)
	// Equal scores are within the ambiguity margin.
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewDefault()
	lower := c.Classify("cockroach in the kitchen")
	upper := c.Classify("COCKROACH IN THE KITCHEN")
	assert.Equal(t, lower, upper)
	require.NotNil(t, lower.IssueCode)
	assert.Equal(t, "pest_control", *lower.IssueCode)
}

func strptr(s string) *string { return &s }
