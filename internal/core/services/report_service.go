package services

import (
	"context"
	"time"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
)

type MonthTotal struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type Summary struct {
	MonthTotal    float64      `json:"month_total"`
	MonthCount    int          `json:"month_count"`
	MonthAverage  float64      `json:"month_average"`
	PendingValue  float64      `json:"pending_value"`
	Revenue       float64      `json:"revenue"`
	ActiveRentals int          `json:"active_rentals"`
	LastSixMonths []MonthTotal `json:"last_six_months"`
}

type ReportService struct {
	bookingRepo ports.BookingRepository
}

func NewReportService(bookingRepo ports.BookingRepository) *ReportService {
	return &ReportService{bookingRepo: bookingRepo}
}

// Summary buckets bookings by the month of their start date, in now's location.
func (s *ReportService) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	bookings, err := s.bookingRepo.ListBookings(ctx, domain.BookingFilter{})
	if err != nil {
		return nil, err
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &Summary{LastSixMonths: make([]MonthTotal, 0, 6)}
	for i := 5; i >= 0; i-- {
		month := currentMonth.AddDate(0, -i, 0)
		summary.LastSixMonths = append(summary.LastSixMonths, MonthTotal{Month: month.Format("2006-01")})
	}
	firstMonth := currentMonth.AddDate(0, -5, 0)

	for _, b := range bookings {
		if inMonth(b.StartDate, currentMonth) {
			summary.MonthTotal += b.TotalValue
			summary.MonthCount++
		}

		if !b.StartDate.Before(firstMonth) {
			for i := range summary.LastSixMonths {
				if inMonth(b.StartDate, firstMonth.AddDate(0, i, 0)) {
					summary.LastSixMonths[i].Value += b.TotalValue
					break
				}
			}
		}

		switch b.Status {
		case domain.StatusBudget:
			summary.PendingValue += b.TotalValue
		case domain.StatusPickedUp:
			summary.ActiveRentals++
			summary.Revenue += b.TotalValue
		default:
			summary.Revenue += b.TotalValue
		}
	}

	if summary.MonthCount > 0 {
		summary.MonthAverage = summary.MonthTotal / float64(summary.MonthCount)
	}

	return summary, nil
}

func inMonth(t, monthStart time.Time) bool {
	return !t.Before(monthStart) && t.Before(monthStart.AddDate(0, 1, 0))
}
