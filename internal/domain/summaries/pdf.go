package summaries

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"hrhub/internal/session"
)

// PDF renders a summary for download.
func (s *Service) PDF(ctx context.Context, sess *session.Session, id string) ([]byte, error) {
	summary, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return RenderPDF(summary)
}

func RenderPDF(summary Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance review summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Reviewee: %s", summary.Reviewee.Fullname))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", summary.Reviewee.Email))
	pdf.Ln(7)
	if avg, ok := summary.AverageRating(); ok {
		pdf.Cell(0, 8, fmt.Sprintf("Average rating: %.2f / 5", avg))
	} else {
		pdf.Cell(0, 8, "Average rating: n/a")
	}
	pdf.Ln(7)
	status := "Awaiting acknowledgement"
	if summary.IsAcknowledged {
		status = "Acknowledged"
	}
	pdf.Cell(0, 8, "Status: "+status)
	pdf.Ln(10)

	for i, q := range summary.SummaryQuestionnaire {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, fmt.Sprintf("%d. %s", i+1, q.Question), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		for _, answer := range q.Answers {
			pdf.MultiCell(0, 6, "- "+answer, "", "L", false)
		}
		if len(q.Ratings) > 0 {
			ratings := make([]string, len(q.Ratings))
			for j, r := range q.Ratings {
				ratings[j] = fmt.Sprint(r)
			}
			pdf.Cell(0, 6, "Ratings: "+strings.Join(ratings, ", "))
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}
