package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"venuebook/internal/models"
	"venuebook/internal/store"

	"github.com/xuri/excelize/v2"
)

// Exporter renders admin booking reports as XLSX workbooks.
type Exporter struct {
	store *store.Store
}

func New(s *store.Store) *Exporter {
	return &Exporter{store: s}
}

// BookingsWorkbook builds a workbook with one row per booking, ordered by
// visit date then reference.
func (e *Exporter) BookingsWorkbook(ctx context.Context) ([]byte, error) {
	bookings := e.store.ListBookings()
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date == bookings[j].Date {
			return bookings[i].Reference < bookings[j].Reference
		}
		return bookings[i].Date < bookings[j].Date
	})

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Reference", "Date", "Venue", "Customer", "Tickets", "Total", "Status", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, b := range bookings {
		venueName := "Unknown Venue"
		if v, err := e.store.GetVenue(b.VenueID); err == nil {
			venueName = v.Name
		}

		values := []any{
			b.Reference,
			b.Date,
			venueName,
			customerName(b),
			ticketSummary(b.Tickets),
			b.TotalAmount,
			b.Status,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func customerName(b models.Booking) string {
	if name, ok := b.CustomerDetails["name"]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("user %d", b.UserID)
}

func ticketSummary(tickets map[int64]int64) string {
	ids := make([]int64, 0, len(tickets))
	for id := range tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if tickets[id] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d x type %d", tickets[id], id))
	}
	return strings.Join(parts, ", ")
}
