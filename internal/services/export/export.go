// Package export renders registrations and rosters as downloadable files
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mcoot/classreg/internal/model"
)

const (
	// Organization appears in export titles and footers
	Organization = "Commission Cooperative"

	dateLayout = "2006-01-02"
)

// SummaryFilename is the download name of a registration summary
const SummaryFilename = "registration-summary.txt"

// RostersFilename returns the download name of a roster export
func RostersFilename(date time.Time) string {
	return fmt.Sprintf("rosters-%s.csv", date.Format(dateLayout))
}

// SummaryHeading returns the per-class heading used in summaries
func SummaryHeading(class model.ClassInfo) string {
	return fmt.Sprintf("%s (%s | %s Period)", class.Name, class.AgeRange, class.Period)
}

// Summary writes a plain-text registration summary
func Summary(w io.Writer, entries []model.ClassRegistration) error {
	var b strings.Builder
	b.WriteString("Registration Summary\n\n")
	fmt.Fprintf(&b, "Thank you for registering for %s classes!\n", Organization)

	for _, entry := range entries {
		b.WriteString("\n")
		b.WriteString(SummaryHeading(entry.Class))
		b.WriteString("\n")
		for _, child := range entry.Children {
			if !child.IsComplete() {
				continue
			}
			fmt.Fprintf(&b, "- %s %s\n", child.FirstName, child.LastName)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RostersCSV writes every class that has complete children, in class-list
// order, one row per child
func RostersCSV(w io.Writer, classes []model.ClassInfo, rosters model.Roster, date time.Time) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{"Class", "Period", "#", "First Name", "Last Name"})

	for _, class := range classes {
		complete := model.CompleteChildren(rosters[class.ID])
		for i, child := range complete {
			_ = cw.Write([]string{
				class.Name,
				string(class.Period),
				strconv.Itoa(i + 1),
				child.FirstName,
				child.LastName,
			})
		}
	}

	_ = cw.Write([]string{fmt.Sprintf("%s Rosters - %s", Organization, date.Format(dateLayout))})

	cw.Flush()
	return cw.Error()
}

// QRCode encodes url as a PNG QR code of the given pixel size
func QRCode(url string, size int) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
