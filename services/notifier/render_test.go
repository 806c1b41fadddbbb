package notifier

import (
	"strings"
	"testing"
	"time"

	"camp-tracker/models/entities"

	"github.com/stretchr/testify/assert"
)

func TestRenderDiffTruncatesLongLists(t *testing.T) {
	var added []entities.Posting
	for i := 0; i < 7; i++ {
		added = append(added, entities.Posting{Name: "school-" + string(rune('a'+i))})
	}

	text := renderDiff("csbaoyan", added, nil, 5)
	assert.Contains(t, text, "New postings (7)")
	assert.Contains(t, text, "and 2 more")
	assert.NotContains(t, text, "school-g")
}

func TestFormatPostingFields(t *testing.T) {
	due := time.Now().AddDate(0, 0, 3)
	text := FormatPosting(entities.Posting{
		Name:        "清华大学",
		Institute:   "计算机系",
		Description: "summer camp",
		Deadline:    &due,
		Website:     "https://example.edu",
		Tags:        []string{"985", "C9"},
	})

	for _, fragment := range []string{"清华大学", "计算机系", "summer camp", "https://example.edu", "985, C9"} {
		assert.True(t, strings.Contains(text, fragment), fragment)
	}
}

func TestFormatPostingWithoutOptionalFields(t *testing.T) {
	text := FormatPosting(entities.Posting{Name: "北京大学"})
	assert.Contains(t, text, "北京大学")
	assert.NotContains(t, text, "Deadline")
	assert.NotContains(t, text, "Tags")
}
