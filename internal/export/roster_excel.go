package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/models"
	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// RosterSheets раскладывает участников по листам «команда/кандидаты».
func RosterSheets(participants []models.Participant) []SheetSpec {
	byRole := map[models.Role][]models.Participant{}
	for _, p := range participants {
		byRole[p.Role] = append(byRole[p.Role], p)
	}
	titles := map[models.Role]string{
		models.RoleTeam:      "Команда",
		models.RoleCandidate: "Кандидаты",
	}
	var sheets []SheetSpec
	for _, role := range []models.Role{models.RoleTeam, models.RoleCandidate} {
		ps := byRole[role]
		if len(ps) == 0 {
			continue
		}
		rows := make([][]string, 0, len(ps))
		for _, p := range ps {
			rows = append(rows, []string{
				p.FullNameRU, p.FullNameEN, p.Church, string(p.Department),
				floorString(p.FloorNumber), p.RoomNumber,
			})
		}
		sheets = append(sheets, SheetSpec{
			Title:  titles[role],
			Header: []string{"ФИО", "Имя (EN)", "Церковь", "Служение", "Этаж", "Комната"},
			Rows:   rows,
		})
	}
	return sheets
}

// WriteRosterExcel собирает книгу со списками и пишет её во временный
// файл, возвращая путь.
func WriteRosterExcel(sheets []SheetSpec, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return "", fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return "", fmt.Errorf("new sheet: %w", err)
			}
		}
		// заголовки
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return "", fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		// стиль заголовков + автофильтр
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		// строки
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return "", fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// эвристическая ширина: по длине заголовка и первых строк
		for c := 1; c <= len(s.Header); c++ {
			maxim := len(s.Header[c-1])
			for r := 0; r < minim(50, len(s.Rows)); r++ {
				if l := len(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("roster_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
