package notifier

import (
	"fmt"
	"strings"

	"camp-tracker/models/entities"

	"github.com/dustin/go-humanize"
)

func renderDiff(feed string, added []entities.Posting, changed []entities.Posting, maxItems int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📢 *Camp postings update* (%s)\n", feed))

	if len(added) > 0 {
		sb.WriteString(fmt.Sprintf("\n🆕 New postings (%d):\n", len(added)))
		writePostingList(&sb, added, maxItems)
	}
	if len(changed) > 0 {
		sb.WriteString(fmt.Sprintf("\n✏️ Updated postings (%d):\n", len(changed)))
		writePostingList(&sb, changed, maxItems)
	}

	sb.WriteString("\nUse /list or /upcoming for the full picture.")
	return sb.String()
}

func renderExpiring(feed string, expiring []entities.Posting, maxItems int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏰ *Deadlines approaching* (%s)\n\n", feed))
	writePostingList(&sb, expiring, maxItems)
	return sb.String()
}

func writePostingList(sb *strings.Builder, list []entities.Posting, maxItems int) {
	shown := list
	if maxItems > 0 && len(shown) > maxItems {
		shown = shown[:maxItems]
	}

	for i, posting := range shown {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, FormatPosting(posting)))
	}

	if len(list) > len(shown) {
		sb.WriteString(fmt.Sprintf("... and %d more.\n", len(list)-len(shown)))
	}
}

// FormatPosting renders one posting as a short block, shared by the command
// surface and the notification path.
func FormatPosting(posting entities.Posting) string {
	var sb strings.Builder
	if posting.Institute != "" {
		sb.WriteString(fmt.Sprintf("*%s — %s*\n", posting.Name, posting.Institute))
	} else {
		sb.WriteString(fmt.Sprintf("*%s*\n", posting.Name))
	}

	if posting.Description != "" {
		sb.WriteString(posting.Description + "\n")
	}
	if posting.Deadline != nil {
		sb.WriteString(fmt.Sprintf("Deadline: %s (%s)\n",
			posting.Deadline.Format("2006-01-02 15:04"), humanize.Time(*posting.Deadline)))
	}
	if posting.Website != "" {
		sb.WriteString(posting.Website + "\n")
	}
	if len(posting.Tags) > 0 {
		sb.WriteString("Tags: " + strings.Join(posting.Tags, ", ") + "\n")
	}
	return sb.String()
}
