package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampground_RecomputeRating(t *testing.T) {
	tests := []struct {
		name          string
		ratings       []int
		expectedAvg   float64
		expectedCount int
	}{
		{"No comments", nil, 0, 0},
		{"Single rating", []int{4}, 4, 1},
		{"Averages ratings", []int{5, 3, 4}, 4, 3},
		{"Fractional average", []int{5, 4}, 4.5, 2},
		{"All zero ratings", []int{0, 0}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campground{RateAvg: 99, RateCount: 99}
			for _, r := range tt.ratings {
				c.Comments = append(c.Comments, Comment{Rating: r})
			}

			c.RecomputeRating()

			assert.Equal(t, tt.expectedAvg, c.RateAvg)
			assert.Equal(t, tt.expectedCount, c.RateCount)
		})
	}
}

func TestParseTagList(t *testing.T) {
	assert.Nil(t, ParseTagList(""))
	assert.Equal(t, TagList{"lake", "family"}, ParseTagList("lake,family"))
	// No trim or dedup guarantees.
	assert.Equal(t, TagList{"lake", " lake"}, ParseTagList("lake, lake"))
}

func TestTagList_ValueScan(t *testing.T) {
	v, err := TagList{"lake", "family"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, "lake,family", v)

	var scanned TagList
	assert.NoError(t, scanned.Scan("lake,family"))
	assert.Equal(t, TagList{"lake", "family"}, scanned)

	var empty TagList
	assert.NoError(t, empty.Scan(""))
	assert.Nil(t, empty)

	var fromNil TagList
	assert.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}
