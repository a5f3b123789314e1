package groups

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"tourdesk/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// CheckInPayload is what the manifest QR code encodes.
func CheckInPayload(groupID string) string {
	return "group:" + groupID
}

func ticketSummary(lines []models.TicketLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d", l.Type, l.Count))
	}
	return strings.Join(parts, ", ")
}

// Manifest renders the group sheet a guide takes on the tour.
func (s *Service) Manifest(ctx context.Context, groupID string) ([]byte, error) {
	g, err := s.store.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	tourists, err := s.store.ListTourists(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return renderManifest(g, tourists, s.manifestFont)
}

// SetManifestFont makes manifests use a UTF-8 TrueType font, so names in any
// script render as written. Without one the core Arial font is used and
// Cyrillic is transliterated to Latin.
func (s *Service) SetManifestFont(ttf []byte) {
	s.manifestFont = ttf
}

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", 'і': "i", 'ї': "yi", 'є': "ye", 'ґ': "g",
}

// transliterate replaces Cyrillic letters with Latin ones and keeps every
// other rune.
func transliterate(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := unicode.ToLower(r)
		latin, ok := cyrillicToLatin[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r && latin != "" {
			latin = strings.ToUpper(latin[:1]) + latin[1:]
		}
		b.WriteString(latin)
	}
	return b.String()
}

// manifestFont picks the font family and the text encoder for a new document.
func manifestFont(pdf *gofpdf.Fpdf, ttf []byte) (string, func(string) string) {
	if len(ttf) > 0 {
		pdf.AddUTF8FontFromBytes("manifest", "", ttf)
		pdf.AddUTF8FontFromBytes("manifest", "B", ttf)
		return "manifest", func(s string) string { return s }
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return "Arial", func(s string) string { return tr(transliterate(s)) }
}

func renderManifest(g models.Group, tourists []models.Tourist, ttf []byte) ([]byte, error) {
	qrPNG, err := qrcode.Encode(CheckInPayload(g.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	family, tr := manifestFont(pdf, ttf)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Group %s %s", g.Date, g.Time)))
	pdf.Ln(12)

	pdf.SetFont(family, "", 11)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.Cell(0, 7, tr(label+": "+value))
		pdf.Ln(7)
	}
	line("Place", g.Place)
	line("Status", g.Status)
	line("Seats", fmt.Sprintf("%d booked of %d", g.BookedSeats, g.TotalSeats))
	if g.Guide != nil {
		line("Guide", strings.TrimSpace(g.Guide.Name+" "+g.Guide.Phone))
	}
	for _, t := range g.Transport {
		line("Transport", strings.TrimSpace(strings.Join([]string{t.Type, t.Number, t.Driver}, " ")))
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, opts, 0, "")

	pdf.Ln(6)
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(10, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 8, "Phone", "1", 0, "", false, 0, "")
	pdf.CellFormat(65, 8, "Tickets", "1", 1, "", false, 0, "")

	pdf.SetFont(family, "", 10)
	total := 0
	for i, t := range tourists {
		pdf.CellFormat(10, 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 7, tr(t.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 7, tr(t.Phone), "1", 0, "", false, 0, "")
		pdf.CellFormat(65, 7, tr(ticketSummary(t.Tickets)), "1", 1, "", false, 0, "")
		total += t.Seats()
	}

	pdf.Ln(4)
	pdf.SetFont(family, "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Tourists: %d, seats: %d", len(tourists), total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return buf.Bytes(), nil
}
