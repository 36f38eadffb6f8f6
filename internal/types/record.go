package types

import "strings"

// Status is the production status of a content record
type Status string

const (
	StatusDrafting Status = "drafting"
	StatusFilming  Status = "filming"
	StatusEditing  Status = "editing"
	StatusUploaded Status = "uploaded"
)

// ContentRecord is one row of the content calendar.
type ContentRecord struct {
	ID             string `json:"id"`
	Week           string `json:"week"`
	TargetDate     string `json:"targetDate"`
	Status         Status `json:"status"`
	Keyword        string `json:"keyword"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Hashtags       string `json:"hashtags"`
	Script         string `json:"script"`
	Hook           string `json:"hook"`
	TrendKeyword   string `json:"trendKeyword"`
	ReferenceLinks string `json:"referenceLinks"`
	Memo           string `json:"memo"`
}

// Row returns the record in spreadsheet column order (A:M).
func (r *ContentRecord) Row() []string {
	return []string{
		r.ID, r.Week, r.TargetDate, string(r.Status), r.Keyword, r.Title, r.Description,
		r.Hashtags, r.Script, r.Hook, r.TrendKeyword, r.ReferenceLinks, r.Memo,
	}
}

// RecordFromRow builds a record from spreadsheet cells; missing trailing cells are empty.
func RecordFromRow(row []string) ContentRecord {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return ContentRecord{
		ID:             cell(0),
		Week:           cell(1),
		TargetDate:     cell(2),
		Status:         Status(cell(3)),
		Keyword:        cell(4),
		Title:          cell(5),
		Description:    cell(6),
		Hashtags:       cell(7),
		Script:         cell(8),
		Hook:           cell(9),
		TrendKeyword:   cell(10),
		ReferenceLinks: cell(11),
		Memo:           cell(12),
	}
}

// RecordPatch is a partial update; nil fields are left untouched.
type RecordPatch struct {
	Status         *Status `json:"status,omitempty"`
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Hashtags       *string `json:"hashtags,omitempty"`
	Script         *string `json:"script,omitempty"`
	Hook           *string `json:"hook,omitempty"`
	ReferenceLinks *string `json:"referenceLinks,omitempty"`
	Memo           *string `json:"memo,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p RecordPatch) Empty() bool {
	return p.Status == nil && p.Title == nil && p.Description == nil && p.Hashtags == nil &&
		p.Script == nil && p.Hook == nil && p.ReferenceLinks == nil && p.Memo == nil
}

// Apply returns a copy of rec with the patch applied.
func (p RecordPatch) Apply(rec ContentRecord) ContentRecord {
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Hashtags != nil {
		rec.Hashtags = *p.Hashtags
	}
	if p.Script != nil {
		rec.Script = *p.Script
	}
	if p.Hook != nil {
		rec.Hook = *p.Hook
	}
	if p.ReferenceLinks != nil {
		rec.ReferenceLinks = *p.ReferenceLinks
	}
	if p.Memo != nil {
		rec.Memo = *p.Memo
	}
	return rec
}

// AppendMemo joins a new memo line onto an existing memo.
func AppendMemo(existing, line string) string {
	if strings.TrimSpace(existing) == "" {
		return line
	}
	return existing + "\n" + line
}

// WeeklyPlan is one row of the weekly plan: two upload slots and their topics.
type WeeklyPlan struct {
	Week         string `json:"week"`
	UploadDate1  string `json:"uploadDate1"`
	UploadDate2  string `json:"uploadDate2"`
	Topic1       string `json:"topic1"`
	Topic2       string `json:"topic2"`
	TrendKeyword string `json:"trendKeyword"`
}

// PlanFromRow builds a weekly plan from spreadsheet cells.
func PlanFromRow(row []string) WeeklyPlan {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return WeeklyPlan{
		Week:         cell(0),
		UploadDate1:  cell(1),
		UploadDate2:  cell(2),
		Topic1:       cell(3),
		Topic2:       cell(4),
		TrendKeyword: cell(5),
	}
}
