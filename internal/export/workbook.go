// Package export dumps users and chat history into one spreadsheet.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"fubot-be/internal/repository/specification"
	"fubot-be/internal/repository/unitofwork"

	"github.com/xuri/excelize/v2"
)

const (
	UsersSheet   = "users"
	HistorySheet = "chat_history"
)

var (
	userHeader    = []interface{}{"id", "passcode", "last_login", "context_summary", "created_at"}
	historyHeader = []interface{}{"id", "passcode", "user_message", "bot_response", "timestamp"}
)

type Stats struct {
	Users int
	Turns int
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Build returns a workbook with users in registration order and chat history
// in chronological order.
func Build(ctx context.Context, uowFactory unitofwork.RepositoryFactory) (*excelize.File, *Stats, error) {
	uow := uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, nil, fmt.Errorf("load users: %w", err)
	}
	turns, err := uow.ChatHistoryRepository().FindAll(ctx, specification.Chronological())
	if err != nil {
		return nil, nil, fmt.Errorf("load chat history: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", UsersSheet); err != nil {
		return nil, nil, err
	}
	if _, err := f.NewSheet(HistorySheet); err != nil {
		return nil, nil, err
	}

	rows := make([][]interface{}, 0, len(users)+1)
	rows = append(rows, userHeader)
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.Id.String(), u.Passcode, formatTime(u.LastLogin), u.Summary(), formatTime(&u.CreatedAt),
		})
	}
	if err := writeRows(f, UsersSheet, rows); err != nil {
		return nil, nil, err
	}

	rows = make([][]interface{}, 0, len(turns)+1)
	rows = append(rows, historyHeader)
	for _, t := range turns {
		rows = append(rows, []interface{}{
			t.Id.String(), t.Passcode, t.UserMessage, t.BotResponse, formatTime(&t.Timestamp),
		})
	}
	if err := writeRows(f, HistorySheet, rows); err != nil {
		return nil, nil, err
	}

	return f, &Stats{Users: len(users), Turns: len(turns)}, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteTo builds the workbook and writes it to w.
func WriteTo(ctx context.Context, uowFactory unitofwork.RepositoryFactory, w io.Writer) (*Stats, error) {
	f, stats, err := Build(ctx, uowFactory)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveAs builds the workbook and saves it at path.
func SaveAs(ctx context.Context, uowFactory unitofwork.RepositoryFactory, path string) (*Stats, error) {
	f, stats, err := Build(ctx, uowFactory)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return nil, err
	}
	return stats, nil
}
