// services/sheet_store.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/salesops/commitment_tracker_backend/models"
	"github.com/salesops/commitment_tracker_backend/rollup"
	"github.com/salesops/commitment_tracker_backend/utils"
)

// Worksheet names inside the Sales_Commitment_Tracker workbook.
const (
	SheetUsers        = "user_master"
	SheetCommitments  = "daily_commitments"
	SheetAchievements = "daily_achievement"
	SheetLeadTeamMap  = "lead_team_map"
)

const (
	defaultCacheTTL = 300 * time.Second
	maxAPIAttempts  = 3
	retryBackoff    = 5 * time.Second
	cacheKeyPrefix  = "sheet_snapshot:"
)

// SheetStore reads and appends rows of the external spreadsheet. Reads
// go through a bounded-staleness Redis cache; a nil cache client means
// every read hits the API directly.
type SheetStore struct {
	svc           *sheets.Service
	cache         *redis.Client
	spreadsheetID string
	ttl           time.Duration
}

// NewSheetStore creates the store from environment configuration.
func NewSheetStore(svc *sheets.Service, cache *redis.Client) *SheetStore {
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		log.Println("WARNING: SPREADSHEET_ID is not set; sheet reads will fail")
	}

	ttl := defaultCacheTTL
	if s := os.Getenv("CACHE_TTL_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
	}

	return &SheetStore{
		svc:           svc,
		cache:         cache,
		spreadsheetID: spreadsheetID,
		ttl:           ttl,
	}
}

// readSheet returns a sheet's rows as strings, serving from the cache
// when a fresh-enough snapshot exists. Dashboard views tolerate rows
// up to the TTL stale.
func (s *SheetStore) readSheet(ctx context.Context, name string) ([][]string, error) {
	key := cacheKeyPrefix + name
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var rows [][]string
			if json.Unmarshal([]byte(raw), &rows) == nil {
				return rows, nil
			}
		}
	}

	var resp *sheets.ValueRange
	var err error
	for attempt := 1; attempt <= maxAPIAttempts; attempt++ {
		resp, err = s.svc.Spreadsheets.Values.Get(s.spreadsheetID, name).Context(ctx).Do()
		if err == nil {
			break
		}
		if !isRateLimited(err) || attempt == maxAPIAttempts {
			break
		}
		log.Printf("Sheets API rate limit reading %s, retrying in %s", name, retryBackoff)
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		if isRateLimited(err) {
			return nil, fmt.Errorf("exceeded Google Sheets API rate limit reading %s: %w", name, err)
		}
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}

	if s.cache != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
				log.Printf("Warning: failed to cache %s snapshot: %v", name, err)
			}
		}
	}
	return rows, nil
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 429
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// table indexes a sheet by its lower-cased header row. Missing columns
// read as empty strings; aggregation-side coercion turns those into
// zeros instead of errors.
type table struct {
	idx  map[string]int
	rows [][]string
}

func newTable(rows [][]string) table {
	t := table{idx: make(map[string]int)}
	if len(rows) == 0 {
		return t
	}
	for i, col := range rows[0] {
		t.idx[utils.NormalizeColumnName(col)] = i
	}
	t.rows = rows[1:]
	return t
}

func (t table) has(col string) bool {
	_, ok := t.idx[col]
	return ok
}

func (t table) get(row []string, col string) string {
	i, ok := t.idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Commitments loads and parses the daily_commitments sheet.
func (s *SheetStore) Commitments(ctx context.Context) ([]models.CommitmentRecord, error) {
	rows, err := s.readSheet(ctx, SheetCommitments)
	if err != nil {
		return nil, err
	}
	t := newTable(rows)

	// Older sheet revisions used "nop" for the commitment count.
	nopCol := "commitment_nop"
	if !t.has(nopCol) && t.has("nop") {
		nopCol = "nop"
	}

	recs := make([]models.CommitmentRecord, 0, len(t.rows))
	for _, row := range t.rows {
		recs = append(recs, models.CommitmentRecord{
			Date:                utils.CoerceDate(t.get(row, "date"), rollup.IST()),
			EmployeeCode:        utils.NormalizeEmployeeCode(t.get(row, "empcode")),
			EmployeeName:        t.get(row, "empname"),
			Team:                t.get(row, "team"),
			Channel:             t.get(row, "channel"),
			Association:         t.get(row, "association"),
			ClientName:          t.get(row, "client_name"),
			Product:             t.get(row, "product"),
			SubProduct:          t.get(row, "sub_product"),
			ExpectedPremium:     utils.CoerceFloat(t.get(row, "expected_premium")),
			CommitmentNOP:       utils.CoerceFloat(t.get(row, nopCol)),
			MeetingCount:        utils.CoerceFloat(t.get(row, "meeting_count")),
			Followups:           t.get(row, "followups"),
			ClosureDate:         utils.CoerceDate(t.get(row, "closure_date"), rollup.IST()),
			DealID:              t.get(row, "deal_id"),
			DealsCommitment:     t.get(row, "deals_commitment"),
			DealsCreatedProduct: t.get(row, "deals_created_product"),
			DealAssignedTo:      t.get(row, "deal_assigned_to"),
			CaseType:            t.get(row, "case_type"),
			MeetingType:         t.get(row, "meeting_type"),
			ClientMobile:        t.get(row, "client_mobile"),
			SubmissionID:        t.get(row, "submission_id"),
			SubmittedAt:         t.get(row, "timestamp"),
		})
	}
	return recs, nil
}

// Achievements loads and parses the daily_achievement sheet.
func (s *SheetStore) Achievements(ctx context.Context) (models.AchievementSet, error) {
	rows, err := s.readSheet(ctx, SheetAchievements)
	if err != nil {
		return models.AchievementSet{}, err
	}
	t := newTable(rows)

	set := models.AchievementSet{HasDealsAchieved: t.has("deals_achieved")}
	for _, row := range t.rows {
		set.Records = append(set.Records, models.AchievementRecord{
			Date:          utils.CoerceDate(t.get(row, "date"), rollup.IST()),
			EmployeeCode:  utils.NormalizeEmployeeCode(t.get(row, "empcode")),
			Channel:       t.get(row, "channel"),
			ActualPremium: utils.CoerceFloat(t.get(row, "actual_premium")),
			ActualNOP:     utils.CoerceFloat(t.get(row, "actual_nop")),
			MeetingCount:  utils.CoerceFloat(t.get(row, "meeting_count")),
			DealsAchieved: utils.CoerceFloat(t.get(row, "deals_achieved")),
		})
	}
	return set, nil
}

// Users loads and parses the user_master sheet.
func (s *SheetStore) Users(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.readSheet(ctx, SheetUsers)
	if err != nil {
		return nil, err
	}
	t := newTable(rows)

	users := make([]models.UserProfile, 0, len(t.rows))
	for _, row := range t.rows {
		users = append(users, models.UserProfile{
			EmployeeCode: utils.NormalizeEmployeeCode(t.get(row, "empcode")),
			EmployeeName: t.get(row, "empname"),
			Team:         t.get(row, "team"),
			Role:         t.get(row, "role"),
			Channel:      t.get(row, "channel"),
		})
	}
	return users, nil
}

// LeadTeamMap loads and parses the lead_team_map sheet.
func (s *SheetStore) LeadTeamMap(ctx context.Context) ([]models.LeadTeamMap, error) {
	rows, err := s.readSheet(ctx, SheetLeadTeamMap)
	if err != nil {
		return nil, err
	}
	t := newTable(rows)

	mapping := make([]models.LeadTeamMap, 0, len(t.rows))
	for _, row := range t.rows {
		mapping = append(mapping, models.LeadTeamMap{
			LeadEmployeeCode: utils.NormalizeEmployeeCode(t.get(row, "lead_empcode")),
			Team:             t.get(row, "team"),
		})
	}
	return mapping, nil
}

// AppendCommitment appends one commitment row. The column order is the
// sheet's fixed layout; do not reorder. The commitments snapshot is
// invalidated so the submitter sees their row on the next render.
func (s *SheetStore) AppendCommitment(ctx context.Context, rec models.CommitmentRecord) error {
	closure := ""
	if !rec.ClosureDate.IsZero() {
		closure = rec.ClosureDate.Format("2006-01-02")
	}
	row := []interface{}{
		rec.Date.Format("2006-01-02"),
		rec.EmployeeCode,
		rec.EmployeeName,
		rec.Team,
		rec.Channel,
		rec.Association,
		rec.ClientName,
		rec.Product,
		rec.SubProduct,
		rec.ExpectedPremium,
		rec.CommitmentNOP,
		rec.MeetingCount,
		rec.Followups,
		closure,
		rec.DealID,
		rec.DealsCommitment,
		rec.DealsCreatedProduct,
		rec.DealAssignedTo,
		rec.CaseType,
		"",
		rec.MeetingType,
		rec.ClientMobile,
		rec.SubmittedAt,
		rec.SubmissionID,
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	var err error
	for attempt := 1; attempt <= maxAPIAttempts; attempt++ {
		_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, SheetCommitments, vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err == nil {
			break
		}
		if !isRateLimited(err) || attempt == maxAPIAttempts {
			break
		}
		log.Printf("Sheets API rate limit appending commitment, retrying in %s", retryBackoff)
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to append commitment: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKeyPrefix+SheetCommitments).Err(); err != nil {
			log.Printf("Warning: failed to invalidate commitments snapshot: %v", err)
		}
	}
	return nil
}
