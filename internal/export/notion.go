package export

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/pkg/notion"
)

// tripIDProperty is the rich_text property that keys journal pages, so a
// re-export updates existing pages instead of duplicating them.
const tripIDProperty = "Trip ID"

// Journal exports trips into a Notion database, one page per trip.
type Journal struct {
	client notion.Client
	dbID   string
}

// NewJournal creates a journal exporter against the given Notion database.
func NewJournal(client notion.Client, dbID string) *Journal {
	return &Journal{client: client, dbID: dbID}
}

// JournalResult reports what a sync changed.
type JournalResult struct {
	Created int
	Updated int
}

// Sync upserts one Notion page per trip, keyed on the Trip ID property.
// Stops on the first error and returns the counts so far.
func (j *Journal) Sync(ctx context.Context, trips []model.Trip) (JournalResult, error) {
	var res JournalResult

	for _, t := range trips {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "export: notion sync cancelled")
		}

		existing, err := notion.FindPageByText(ctx, j.client, j.dbID, tripIDProperty, t.ID)
		if err != nil {
			return res, eris.Wrapf(err, "export: look up journal page for trip %s", t.ID)
		}

		props := tripProperties(t)
		if existing != nil {
			req := &notionapi.PageUpdateRequest{Properties: props}
			if _, err := j.client.UpdatePage(ctx, string(existing.ID), req); err != nil {
				return res, eris.Wrapf(err, "export: update journal page for trip %s", t.ID)
			}
			res.Updated++
			continue
		}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(j.dbID),
			},
			Properties: props,
		}
		if _, err := j.client.CreatePage(ctx, req); err != nil {
			return res, eris.Wrapf(err, "export: create journal page for trip %s", t.ID)
		}
		res.Created++
	}

	return res, nil
}

// tripProperties maps a trip onto the journal database schema. Optional
// fields are omitted rather than written empty.
func tripProperties(t model.Trip) notionapi.Properties {
	props := make(notionapi.Properties)
	props["Name"] = notion.Title(t.Name)
	props[tripIDProperty] = notion.Text(t.ID)
	props["Status"] = notion.Select(string(t.Status))
	props["Miles"] = notion.Number(t.Miles)
	props["Stops"] = notion.Number(float64(len(t.Stops)))
	if t.StartDate != nil {
		props["Dates"] = notion.DateSpan(*t.StartDate, t.EndDate)
	}
	if route := routeSummary(t.Stops); route != "" {
		props["Route"] = notion.Text(route)
	}
	if t.Notes != "" {
		props["Notes"] = notion.Text(t.Notes)
	}
	return props
}
