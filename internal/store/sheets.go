package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jonathan/shorts-studio/internal/types"
)

// Sheet names used by the content calendar spreadsheet.
const (
	ContentSheet = "Shorts_Content"
	PlanSheet    = "Weekly_Plan"
	TopicsSheet  = "Topics_Pool"
)

// TopicUnused marks a freshly generated pool topic.
const TopicUnused = "unused"

const valueInputRaw = "RAW"

// statusLabels are the status cells the operators type into the sheet.
var statusLabels = map[types.Status]string{
	types.StatusDrafting: "작성중",
	types.StatusFilming:  "촬영중",
	types.StatusEditing:  "편집중",
	types.StatusUploaded: "업로드완료",
}

// ParseStatus accepts either the sheet label or the English status name.
func ParseStatus(cell string) types.Status {
	cell = strings.TrimSpace(cell)
	for status, label := range statusLabels {
		if cell == label || strings.EqualFold(cell, string(status)) {
			return status
		}
	}
	return types.Status(cell)
}

// StatusLabel returns the sheet label for status.
func StatusLabel(status types.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// SheetsConfig identifies the spreadsheet and the service account used to reach it.
type SheetsConfig struct {
	SheetID             string
	ServiceAccountEmail string
	PrivateKey          string
}

// NormalizePrivateKey undoes the quoting and escaped newlines that env files add to PEM keys.
func NormalizePrivateKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if len(key) >= 2 && strings.HasPrefix(key, `"`) && strings.HasSuffix(key, `"`) {
		key = key[1 : len(key)-1]
	}
	key = strings.ReplaceAll(key, `\n`, "\n")
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("private key is empty")
	}
	if !strings.Contains(key, "BEGIN PRIVATE KEY") {
		return "", fmt.Errorf("private key is not a PEM encoded PKCS#8 key")
	}
	return key, nil
}

// SheetsStore is the Google Sheets backed Store.
type SheetsStore struct {
	svc     *sheets.Service
	sheetID string
	locks   keyedMutex
}

// NewSheetsStore authenticates with a service account and returns a store.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig) (*SheetsStore, error) {
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("sheet id is required")
	}
	key, err := NormalizePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	jwtCfg := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(key),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsStoreWithService(svc, cfg.SheetID), nil
}

// NewSheetsStoreWithService wraps an existing service.
func NewSheetsStoreWithService(svc *sheets.Service, sheetID string) *SheetsStore {
	return &SheetsStore{svc: svc, sheetID: sheetID}
}

func (s *SheetsStore) read(ctx context.Context, rng string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rng, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (s *SheetsStore) append(ctx context.Context, rng string, rows [][]string) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.sheetID, rng, &sheets.ValueRange{Values: toValues(rows)}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", rng, err)
	}
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		values[i] = cells
	}
	return values
}

// contentRows returns data rows (header dropped) of the content sheet.
func (s *SheetsStore) contentRows(ctx context.Context) ([][]string, error) {
	rows, err := s.read(ctx, ContentSheet+"!A:M")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func recordFromSheet(row []string) types.ContentRecord {
	rec := types.RecordFromRow(row)
	rec.Status = ParseStatus(string(rec.Status))
	return rec
}

func sheetRow(rec types.ContentRecord) []string {
	row := rec.Row()
	row[3] = StatusLabel(rec.Status)
	return row
}

func (s *SheetsStore) ReadRecords(ctx context.Context, sel Selector) ([]types.ContentRecord, error) {
	rows, err := s.contentRows(ctx)
	if err != nil {
		return nil, err
	}
	var out []types.ContentRecord
	for _, row := range rows {
		rec := recordFromSheet(row)
		if rec.ID == "" {
			continue
		}
		if sel.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// WriteRecord patches the row holding id. The row is re-checked right before
// the update so a concurrent insert that shifted rows is caught instead of overwritten.
func (s *SheetsStore) WriteRecord(ctx context.Context, id string, patch types.RecordPatch) error {
	unlock := s.locks.lock(id)
	defer unlock()

	rows, err := s.contentRows(ctx)
	if err != nil {
		return err
	}
	index := -1
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == id {
			index = i
			break
		}
	}
	if index < 0 {
		return &RecordNotFoundError{ID: id}
	}

	// +2: header row and 1-based rows
	rowNumber := index + 2
	updated := patch.Apply(recordFromSheet(rows[index]))

	check, err := s.read(ctx, fmt.Sprintf("%s!A%d:A%d", ContentSheet, rowNumber, rowNumber))
	if err != nil {
		return err
	}
	if len(check) == 0 || len(check[0]) == 0 || strings.TrimSpace(check[0][0]) != id {
		return fmt.Errorf("row %d no longer holds content record %s; retry the update", rowNumber, id)
	}

	rng := fmt.Sprintf("%s!A%d:M%d", ContentSheet, rowNumber, rowNumber)
	_, err = s.svc.Spreadsheets.Values.Update(s.sheetID, rng, &sheets.ValueRange{Values: toValues([][]string{sheetRow(updated)})}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rng, err)
	}
	log.Printf("[store] updated content record %s (row %d)", id, rowNumber)
	return nil
}

func (s *SheetsStore) AppendRecords(ctx context.Context, records []types.ContentRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = sheetRow(rec)
	}
	if err := s.append(ctx, ContentSheet+"!A:M", rows); err != nil {
		return err
	}
	log.Printf("[store] appended %d content records", len(records))
	return nil
}

func (s *SheetsStore) ReadWeeklyPlan(ctx context.Context, week string) (*types.WeeklyPlan, error) {
	rows, err := s.read(ctx, PlanSheet+"!A:F")
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		plan := types.PlanFromRow(row)
		if plan.Week == week {
			return &plan, nil
		}
	}
	return nil, &PlanNotFoundError{Week: week}
}

func (s *SheetsStore) AppendTopics(ctx context.Context, category string, topics []types.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	rows := make([][]string, len(topics))
	for i, t := range topics {
		rows[i] = []string{category, t.Keyword, t.Description, TopicUnused}
	}
	return s.append(ctx, TopicsSheet+"!A:D", rows)
}
