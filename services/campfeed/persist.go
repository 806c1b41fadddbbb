package campfeed

import (
	"encoding/json"

	"camp-tracker/models/entities"
)

// Conversion between snapshot postings and their persisted warm-copy rows.
// Tags travel as a JSON-encoded array in a single column.

func toRecords(snap *entities.FeedSnapshot) []entities.PostingRecord {
	records := make([]entities.PostingRecord, 0, len(snap.Postings))
	for position, posting := range snap.Postings {
		tags, _ := json.Marshal(posting.Tags)
		records = append(records, entities.PostingRecord{
			Feed:        snap.Feed,
			SourceKey:   posting.SourceKey,
			CampYear:    posting.CampYear,
			Name:        posting.Name,
			Institute:   posting.Institute,
			Description: posting.Description,
			Deadline:    posting.Deadline,
			Website:     posting.Website,
			Tags:        string(tags),
			Position:    position,
		})
	}
	return records
}

func fromRecords(records []entities.PostingRecord) []entities.Posting {
	result := make([]entities.Posting, 0, len(records))
	for _, record := range records {
		var tags []string
		if record.Tags != "" {
			// A row written by an older build may hold garbage here; an
			// empty tag set is the safe reading.
			_ = json.Unmarshal([]byte(record.Tags), &tags)
		}
		result = append(result, entities.Posting{
			SourceKey:   record.SourceKey,
			CampYear:    record.CampYear,
			Name:        record.Name,
			Institute:   record.Institute,
			Description: record.Description,
			Deadline:    record.Deadline,
			Website:     record.Website,
			Tags:        tags,
		})
	}
	return result
}
