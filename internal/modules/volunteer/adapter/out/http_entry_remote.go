package out

import (
	"context"
	"net/http"
	"net/url"

	"nebibs/internal/modules/volunteer/domain"
	volunteerout "nebibs/internal/modules/volunteer/port/out"
	"nebibs/internal/platform/remote"
)

const entriesPath = "/service/entries"

type HTTPEntryRemote struct {
	client *remote.Client
}

func NewHTTPEntryRemote(client *remote.Client) *HTTPEntryRemote {
	return &HTTPEntryRemote{client: client}
}

type entryRecord struct {
	ID          remote.Text   `json:"id"`
	Date        remote.Text   `json:"date"`
	Description remote.Text   `json:"description"`
	Hours       remote.Number `json:"hours"`
	Reflection  remote.Text   `json:"reflection"`
	CreatedAt   remote.Text   `json:"created_at"`
	UpdatedAt   remote.Text   `json:"updated_at"`
}

func (r entryRecord) toDomain() domain.Entry {
	return domain.Entry{
		ID:          r.ID.String(),
		Date:        remote.CalendarDate(r.Date.String()),
		Description: r.Description.String(),
		Hours:       r.Hours.Float(),
		Reflection:  r.Reflection.String(),
		CreatedAt:   remote.ParseTimestamp(r.CreatedAt.String()),
		UpdatedAt:   remote.ParseTimestamp(r.UpdatedAt.String()),
	}
}

func (h *HTTPEntryRemote) List(ctx context.Context) ([]domain.Entry, error) {
	var records []entryRecord
	if err := h.client.Do(ctx, http.MethodGet, entriesPath, nil, &records); err != nil {
		return nil, err
	}
	entries := make([]domain.Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDomain())
	}
	return entries, nil
}

func (h *HTTPEntryRemote) Create(ctx context.Context, entry volunteerout.NewEntry) (domain.Entry, error) {
	body := map[string]any{
		"date":        entry.Date,
		"description": entry.Description,
		"hours":       entry.Hours,
		"reflection":  entry.Reflection,
	}
	var record entryRecord
	if err := h.client.Do(ctx, http.MethodPost, entriesPath, body, &record); err != nil {
		return domain.Entry{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPEntryRemote) Update(ctx context.Context, id string, patch domain.Patch) (domain.Entry, error) {
	body := map[string]any{}
	if patch.Date != nil {
		body["date"] = *patch.Date
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Hours != nil {
		body["hours"] = *patch.Hours
	}
	if patch.Reflection != nil {
		body["reflection"] = *patch.Reflection
	}
	var record entryRecord
	if err := h.client.Do(ctx, http.MethodPatch, itemPath(id), body, &record); err != nil {
		return domain.Entry{}, err
	}
	return record.toDomain(), nil
}

func (h *HTTPEntryRemote) Delete(ctx context.Context, id string) error {
	return h.client.Do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return entriesPath + "/" + url.PathEscape(id)
}
