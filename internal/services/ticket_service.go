package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// TicketService renders a paid booking from the visitor's history into a
// downloadable e-ticket PDF.
type TicketService struct {
	logger *logrus.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(logger *logrus.Logger) *TicketService {
	return &TicketService{logger: logger}
}

// GenerateETicket builds the PDF for one booking and returns the bytes and
// the suggested filename.
func (s *TicketService) GenerateETicket(booking *models.Booking) ([]byte, string, error) {
	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"booking_code": booking.Code,
	}).Info("Generating e-ticket PDF")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking code : %s", safe(booking.Code)),
		fmt.Sprintf("Trip         : %s (%s)", safe(booking.TripCode), safe(booking.TrainNumber)),
		fmt.Sprintf("Route        : %s -> %s", safe(booking.Origin), safe(booking.Destination)),
		fmt.Sprintf("Departure    : %s", booking.DepartureTime.Format("02/01/2006 15:04")),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(booking.Seats, ", "))),
		fmt.Sprintf("Total        : %d VND", booking.TotalAmount),
		fmt.Sprintf("Status       : %s", safe(booking.Status)),
		fmt.Sprintf("Booked at    : %s", booking.BookedAt.Format("02/01/2006 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Present this ticket together with your identity card at boarding.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render e-ticket: %w", err)
	}

	filename := fmt.Sprintf("eticket-%s.pdf", safeFilenamePart(booking.Code))
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-")
	cleaned := replacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return "ticket"
	}
	return cleaned
}
