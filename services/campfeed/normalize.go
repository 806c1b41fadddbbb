package campfeed

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"camp-tracker/models/constants"
	"camp-tracker/models/entities"
	"camp-tracker/utils/dates"

	"github.com/rs/zerolog/log"
)

type rawPosting struct {
	Name        string   `json:"name"`
	Institute   string   `json:"institute"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	Website     string   `json:"website"`
	Tags        []string `json:"tags"`
}

// normalize converts the raw feed body (camp-year keys mapped to arrays of
// posting objects) into ordered postings. A single bad record is dropped or
// degraded, never fatal to the batch; only a payload that is not the expected
// mapping fails. Year keys are walked in sorted order so snapshot order is
// deterministic.
func normalize(payload []byte, sourceKey string) ([]entities.Posting, error) {
	var years map[string][]rawPosting
	if err := json.Unmarshal(payload, &years); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPayload, err)
	}

	yearKeys := make([]string, 0, len(years))
	for year := range years {
		yearKeys = append(yearKeys, year)
	}
	sort.Strings(yearKeys)

	var result []entities.Posting
	for _, year := range yearKeys {
		for _, raw := range years[year] {
			if strings.TrimSpace(raw.Name) == "" {
				log.Warn().
					Str(constants.LogFeedName, sourceKey).
					Str(constants.LogCampYear, year).
					Msgf("Posting without name, entry dropped")
				continue
			}

			posting := entities.Posting{
				SourceKey:   sourceKey,
				CampYear:    year,
				Name:        raw.Name,
				Institute:   raw.Institute,
				Description: raw.Description,
				Website:     raw.Website,
				Tags:        normalizeTags(raw.Tags),
			}

			if raw.Deadline != "" {
				deadline, err := dates.ParseDeadline(raw.Deadline)
				if err != nil {
					log.Debug().Err(err).
						Str(constants.LogFeedName, sourceKey).
						Str(constants.LogPostingName, raw.Name).
						Msgf("Unparseable deadline, posting kept without one")
				} else {
					posting.Deadline = &deadline
				}
			}

			result = append(result, posting)
		}
	}

	return result, nil
}

// normalizeTags trims and deduplicates, keeping first-seen order.
func normalizeTags(raw []string) []string {
	var tags []string
	seen := map[string]struct{}{}
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
