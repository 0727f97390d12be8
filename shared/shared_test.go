package shared

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "simple name", text: "My Board", want: "my-board"},
		{name: "special characters removed", text: "Sprint #4 (Q2!)", want: "sprint-4-q2"},
		{name: "whitespace collapsed", text: "  too   many  spaces ", want: "too-many-spaces"},
		{name: "hyphen runs collapsed", text: "already--hyphen---ated", want: "already-hyphen-ated"},
		{name: "leading and trailing hyphens trimmed", text: "-edge case-", want: "edge-case"},
		{name: "empty input", text: "", want: ""},
		{name: "only specials", text: "!!!", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.text))
		})
	}
}

func TestNewPublicID(t *testing.T) {
	alphanumeric := regexp.MustCompile(`^[0-9a-zA-Z]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewPublicID()
		assert.Regexp(t, alphanumeric, id)
		assert.False(t, seen[id], "generated a duplicate public ID")
		seen[id] = true
	}
}

func TestColourForIndex(t *testing.T) {
	assert.Equal(t, LabelPalette[0].Code, ColourForIndex(0))
	assert.Equal(t, LabelPalette[1].Code, ColourForIndex(1))

	// Cycles back around past the palette size.
	assert.Equal(t, LabelPalette[0].Code, ColourForIndex(len(LabelPalette)))
	assert.Equal(t, DefaultColourCode, ColourForIndex(-1))
}

func TestLoadingConfigs(t *testing.T) {
	total := 0
	for _, stage := range DefaultLoadingConfig.Stages {
		assert.NotEmpty(t, stage.Message)
		total += stage.Duration
	}
	assert.Equal(t, DefaultLoadingConfig.TotalEstimatedTime, total)

	assert.Less(t, CachedLoadingConfig.TotalEstimatedTime, DefaultLoadingConfig.TotalEstimatedTime)
}
