package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/application/forms"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// importColumns lists, per doctor field, the accepted CSV headers in order
// of preference
var importColumns = map[string][]string{
	"name":      {"name", "doctor_name", "full_name", "doctor"},
	"specialty": {"specialty", "speciality", "specialization", "department"},
	"city":      {"city", "town", "location"},
	"country":   {"country"},
	"clinic":    {"clinic", "hospital", "clinic_name", "practice"},
	"address":   {"address", "street", "street_address"},
	"phone":     {"phone", "phone_number", "telephone", "mobile"},
	"email":     {"email", "email_address", "e_mail"},
	"fee":       {"fee", "consultation_fee", "price", "cost"},
	"rating":    {"rating", "score", "stars"},
}

// ImportReport summarises one import run
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// DoctorImporter bulk loads doctors from CSV
type DoctorImporter struct {
	repo repositories.DoctorRepository
}

// NewDoctorImporter creates a new importer
func NewDoctorImporter(repo repositories.DoctorRepository) *DoctorImporter {
	return &DoctorImporter{repo: repo}
}

// Import reads a CSV with a header row and creates one doctor per row.
// Rows without a name are skipped. Fee and rating that are missing or do
// not parse are stored as unknown.
func (i *DoctorImporter) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	var report ImportReport
	logger := observability.LoggerFromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("failed to read csv header: %w", err)
	}
	index := resolveColumns(header)
	if _, ok := index["name"]; !ok {
		return report, fmt.Errorf("csv has no name column (accepted: %s)", strings.Join(importColumns["name"], ", "))
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return report, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		doctor := rowToDoctor(record, index)
		if doctor.Name == "" {
			report.Skipped++
			continue
		}

		if err := i.repo.Create(ctx, doctor); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			logger.Warn().Err(err).Int("line", line).Msg("failed to import doctor")
			continue
		}
		report.Imported++
	}

	logger.Info().
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("doctor import finished")
	return report, nil
}

// resolveColumns maps each doctor field to the position of its preferred header
func resolveColumns(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for pos, h := range header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup {
			positions[key] = pos
		}
	}

	index := make(map[string]int)
	for field, candidates := range importColumns {
		for _, candidate := range candidates {
			if pos, ok := positions[candidate]; ok {
				index[field] = pos
				break
			}
		}
	}
	return index
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func rowToDoctor(record []string, index map[string]int) *entities.Doctor {
	field := func(name string) string {
		pos, ok := index[name]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	doctor := &entities.Doctor{
		Name:      field("name"),
		Specialty: field("specialty"),
		City:      field("city"),
		Country:   field("country"),
		Clinic:    field("clinic"),
		Address:   field("address"),
		Phone:     field("phone"),
		Email:     field("email"),
		Fee:       lenientFee(field("fee")),
		Rating:    lenientRating(field("rating")),
	}
	doctor.NormalizeFee()
	return doctor
}

// lenientFee treats unparseable text as unknown instead of failing the row
func lenientFee(raw string) *int {
	fee, err := forms.ParseFee(raw)
	if err != nil {
		return nil
	}
	return fee
}

func lenientRating(raw string) *float64 {
	rating, err := forms.ParseRating(raw)
	if err != nil {
		return nil
	}
	return rating
}
