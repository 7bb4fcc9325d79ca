package expense

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okarlsson/paysplit/internal/money"
)

// MaxCSVRows is the hard cap on data rows per upload.
const MaxCSVRows = 500

var requiredHeaders = []string{"description", "centAmount", "paidByMemberId", "includedMemberIds"}

// RowError describes a single validation failure in an uploaded CSV.
// Structural failures use row 0; data rows are numbered from 2, row 1
// being the header.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// CSVRow is a structurally valid, type-coerced candidate expense. Empty
// PaidByMemberID means the uploader pays; nil IncludedMemberIDs means
// the whole group is included.
type CSVRow struct {
	Description       string
	CentAmount        money.Cents
	PaidByMemberID    string
	IncludedMemberIDs []string
}

// CSVResult holds the outcome of full CSV validation. Every data row of
// the input lands either in Expenses or in at least one entry of Errors;
// no row is silently dropped.
type CSVResult struct {
	Expenses []CSVRow
	Errors   []RowError
}

// ValidateCSVStructure checks syntax, headers, and the row cap only. It
// is the cheap synchronous check run before an upload is accepted; full
// row-level validation is deferred to the worker.
func ValidateCSVStructure(content string) *RowError {
	_, _, structErr := parseCSV(content)
	return structErr
}

// ParseCSV fully validates a CSV payload against the group's current
// member set. Structural failures short-circuit with a single error and
// no expenses; row-level failures accumulate across all rows.
func ParseCSV(content string, validMemberIDs map[string]bool) CSVResult {
	header, rows, structErr := parseCSV(content)
	if structErr != nil {
		return CSVResult{Errors: []RowError{*structErr}}
	}

	result := CSVResult{}
	for i, row := range rows {
		rowNumber := i + 2
		rowErrors := validateRow(header, row, rowNumber, validMemberIDs)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		} else {
			result.Expenses = append(result.Expenses, transformRow(header, row))
		}
	}
	return result
}

// parseCSV reads the raw CSV and performs the structural checks shared
// by both validation entry points. It returns a header index, the data
// rows, and a structural error if any check fails.
func parseCSV(content string) (map[string]int, [][]string, *RowError) {
	// Empty lines are skipped by the reader itself; lines holding only
	// whitespace or separators still count as data rows and get reported
	// through row-level validation rather than vanishing.
	reader := csv.NewReader(strings.NewReader(content))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &RowError{Row: 0, Field: "csv", Message: "Invalid CSV format"}
	}

	if len(records) < 2 {
		// No data rows at all, with or without a header row.
		return nil, nil, &RowError{Row: 0, Field: "csv", Message: "CSV file is empty"}
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := header[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &RowError{
			Row:     0,
			Field:   "headers",
			Message: fmt.Sprintf("Missing required headers: %s", strings.Join(missing, ", ")),
			Value:   strings.Join(records[0], ", "),
		}
	}

	rows := records[1:]
	if len(rows) > MaxCSVRows {
		return nil, nil, &RowError{
			Row:     0,
			Field:   "csv",
			Message: fmt.Sprintf("CSV file exceeds maximum of %d rows", MaxCSVRows),
			Value:   strconv.Itoa(len(rows)),
		}
	}

	return header, rows, nil
}

func validateRow(header map[string]int, row []string, rowNumber int, validMemberIDs map[string]bool) []RowError {
	var errs []RowError

	description := field(header, row, "description")
	if strings.TrimSpace(description) == "" {
		errs = append(errs, RowError{
			Row: rowNumber, Field: "description",
			Message: "Description is required",
			Value:   description,
		})
	}

	rawAmount := strings.TrimSpace(field(header, row, "centAmount"))
	if amount, err := strconv.ParseInt(rawAmount, 10, 64); err != nil {
		errs = append(errs, RowError{
			Row: rowNumber, Field: "centAmount",
			Message: "Must be a valid integer",
			Value:   rawAmount,
		})
	} else if amount <= 0 {
		errs = append(errs, RowError{
			Row: rowNumber, Field: "centAmount",
			Message: "Must be a positive integer",
			Value:   rawAmount,
		})
	}

	if paidBy := strings.TrimSpace(field(header, row, "paidByMemberId")); paidBy != "" {
		if !isUUID(paidBy) {
			errs = append(errs, RowError{
				Row: rowNumber, Field: "paidByMemberId",
				Message: "Must be a valid UUID",
				Value:   paidBy,
			})
		} else if !validMemberIDs[paidBy] {
			errs = append(errs, RowError{
				Row: rowNumber, Field: "paidByMemberId",
				Message: "Not a member of this group",
				Value:   paidBy,
			})
		}
	}

	// Each pipe-separated token is validated independently so the
	// uploader sees every offending id, not just the first.
	if included := strings.TrimSpace(field(header, row, "includedMemberIds")); included != "" {
		for _, token := range strings.Split(included, "|") {
			memberID := strings.TrimSpace(token)
			if !isUUID(memberID) {
				errs = append(errs, RowError{
					Row: rowNumber, Field: "includedMemberIds",
					Message: fmt.Sprintf("Invalid UUID: %s", memberID),
					Value:   included,
				})
			} else if !validMemberIDs[memberID] {
				errs = append(errs, RowError{
					Row: rowNumber, Field: "includedMemberIds",
					Message: fmt.Sprintf("Not a member of this group: %s", memberID),
					Value:   included,
				})
			}
		}
	}

	return errs
}

func transformRow(header map[string]int, row []string) CSVRow {
	amount, _ := strconv.ParseInt(strings.TrimSpace(field(header, row, "centAmount")), 10, 64)

	out := CSVRow{
		Description:    strings.TrimSpace(field(header, row, "description")),
		CentAmount:     money.Cents(amount),
		PaidByMemberID: strings.TrimSpace(field(header, row, "paidByMemberId")),
	}

	if included := strings.TrimSpace(field(header, row, "includedMemberIds")); included != "" {
		for _, token := range strings.Split(included, "|") {
			out.IncludedMemberIDs = append(out.IncludedMemberIDs, strings.TrimSpace(token))
		}
	}
	return out
}

func field(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// isUUID reports whether s has the canonical 8-4-4-4-12 UUID shape.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
