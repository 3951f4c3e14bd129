// config/sheets.go
package config

import (
	"context"
	"log"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService builds the Google Sheets API client from a service
// account credentials file. The workbook itself is addressed per call
// via SPREADSHEET_ID.
func NewSheetsService(ctx context.Context) (*sheets.Service, error) {
	credsFile := os.Getenv("SHEETS_CREDENTIALS_FILE")
	if credsFile == "" {
		credsFile = "credentials.json"
		log.Println("SHEETS_CREDENTIALS_FILE not set, defaulting to credentials.json")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}

	log.Println("Connected to Google Sheets API")
	return svc, nil
}
