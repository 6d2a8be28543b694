package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Spok95/telegram-event-bot/internal/models"
)

// utf8BOM — чтобы Excel корректно открывал кириллицу в CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"FullNameRU", "FullNameEN", "Gender", "Size", "Church",
	"Role", "Department", "Floor", "RoomNumber", "ContactInformation", "Notes",
}

// WriteParticipantsCSV пишет участников во временный CSV-файл с
// генерированным именем и возвращает путь. dir пустой — системный temp.
func WriteParticipantsCSV(participants []models.Participant, dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("participants_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, p := range participants {
		row := []string{
			p.FullNameRU, p.FullNameEN, p.Gender, p.Size, p.Church,
			string(p.Role), string(p.Department),
			floorString(p.FloorNumber), p.RoomNumber, p.ContactInfo, p.Notes,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush: %w", err)
	}
	return path, nil
}

func floorString(f int) string {
	if f == 0 {
		return ""
	}
	return strconv.Itoa(f)
}
