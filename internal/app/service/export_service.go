package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shift-bot/internal/domain"
)

const (
	shiftsSheet  = "Смены"
	summarySheet = "Итоги"
)

// ExportService выгружает журнал смен в xlsx: все записи и итоги по пользователям
type ExportService struct {
	Repo domain.ShiftRepo
	Log  *zap.Logger
}

func NewExportService(repo domain.ShiftRepo, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{Repo: repo, Log: log}
}

func (s *ExportService) Export(ctx context.Context) (*bytes.Buffer, error) {
	shifts, err := s.Repo.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.Repo.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", shiftsSheet); err != nil {
		return nil, fmt.Errorf("лист %s: %w", shiftsSheet, err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("лист %s: %w", summarySheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("стиль заголовка: %w", err)
	}

	if err := writeRow(f, shiftsSheet, 1, "ID", "Пользователь", "Имя", "Начало", "Конец", "Часы", "Заработано"); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(shiftsSheet, "A1", "G1", headerStyle)
	for i, sh := range shifts {
		end, hours, pay := any(""), any(""), any("")
		if sh.EndTime != nil {
			end = sh.EndTime.Format("02.01.2006 15:04")
		}
		if sh.Hours != nil {
			hours = *sh.Hours
		}
		if sh.Pay != nil {
			pay = *sh.Pay
		}
		if err := writeRow(f, shiftsSheet, i+2,
			sh.ID, sh.UserID, sh.DisplayName, sh.StartTime.Format("02.01.2006 15:04"), end, hours, pay,
		); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, summarySheet, 1, "Пользователь", "Имя", "Сессий", "Часов", "Заработано"); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(summarySheet, "A1", "E1", headerStyle)
	for i, st := range stats {
		st.UserStats = roundStats(st.UserStats)
		if err := writeRow(f, summarySheet, i+2,
			st.UserID, st.DisplayName, st.SessionCount, st.TotalHours, st.TotalPay,
		); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("запись xlsx: %w", err)
	}
	s.Log.Info("выгрузка смен", zap.Int("shifts", len(shifts)), zap.Int("users", len(stats)))
	return buf, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("строка %d листа %s: %w", row, sheet, err)
	}
	return nil
}
