package repository

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// appendRange anchors the append below the header row.
const appendRange = "A2"

// SheetsRepo appends booking rows to a Google spreadsheet via a service
// account. The sheet is append-only; rows are never updated or deleted.
type SheetsRepo struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

func NewSheetsRepo(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsRepo, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &SheetsRepo{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Append adds one booking row: name, phone, service, date, master, comment,
// source and the creation timestamp.
func (r *SheetsRepo) Append(ctx context.Context, draft domain.BookingDraft, createdAt time.Time) error {
	row := []interface{}{
		draft.Name,
		draft.Phone,
		draft.Service,
		draft.DateTime,
		draft.Master,
		draft.Comment,
		draft.Source,
		createdAt.Format(config.SheetTimestampLayout),
	}
	_, err := r.values.Append(r.spreadsheetID, appendRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}
