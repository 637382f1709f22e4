package orchestrators

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	domain "clubhouse/internal/domain/member"
)

// ImportMemberStore is the member persistence used by the CSV import.
type ImportMemberStore interface {
	GetByRegistrationNumber(ctx context.Context, registrationNumber string) (domain.Member, error)
	Save(ctx context.Context, m domain.Member) error
}

// ImportMembersInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream whose first line is a header row.
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true.
// INVARIANT: Existing members are never deleted; IDs are preserved on update.
type ImportMembersInput struct {
	Reader            io.Reader
	ImportedBy        string
	DefaultCategoryID string
	DefaultSex        string
	DryRun            bool
	UpdateMode        bool
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total      int                     `json:"total"`
	Created    int                     `json:"created"`
	Updated    int                     `json:"updated"`
	Skipped    int                     `json:"skipped"`
	Errors     []ImportMembersRowError `json:"errors"`
	DryRun     bool                    `json:"dry_run"`
	Positional bool                    `json:"positional"`
	Unknown    []string                `json:"unknown_columns,omitempty"`
}

// ImportMembersRowError describes a validation or processing error for a single CSV row.
type ImportMembersRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	MemberStore ImportMemberStore
	GenerateID  func() string
}

// Canonical column keys and the header spellings that map to them.
const (
	colRegistration = "registration_number"
	colSurname      = "surname"
	colName         = "name"
	colBirthDate    = "date_of_birth"
	colEmail        = "email"
	colSex          = "sex"
	colCategory     = "category"
)

var importHeaderAliases = map[string]string{
	"REGISTRATION_NUMBER": colRegistration,
	"REG_NUMBER":          colRegistration,
	"REGNUMBER":           colRegistration,
	"SURNAME":             colSurname,
	"NAME":                colName,
	"FIRST_NAME":          colName,
	"FIRSTNAME":           colName,
	"DATE_OF_BIRTH":       colBirthDate,
	"DATEOFBIRTH":         colBirthDate,
	"DOB":                 colBirthDate,
	"EMAIL":               colEmail,
	"SEX":                 colSex,
	"CATEGORY":            colCategory,
	"CATEGORY_ID":         colCategory,
}

// positionalColumns is used when the header names no known column.
var positionalColumns = map[string]int{
	colRegistration: 0,
	colSurname:      1,
	colName:         2,
	colBirthDate:    3,
}

// DetectSeparator returns ';' when the header line contains one and ',' otherwise.
func DetectSeparator(headerLine string) rune {
	if strings.Contains(headerLine, ";") {
		return ';'
	}
	return ','
}

// ExecuteImportMembers parses a CSV stream and creates or updates member records.
// PRE: Input.Reader contains a header row followed by one member per row.
// POST: Members are created/updated/skipped according to DryRun and UpdateMode flags;
//
//	aggregate counts and per-row errors are returned; a summary log is emitted.
//
// INVARIANT: When DryRun=true no writes occur; existing member IDs are always preserved on update.
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	br := bufio.NewReader(input.Reader)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return ImportMembersResult{}, err
	}
	headerLine, _, _ := bytes.Cut(first, []byte("\n"))
	if len(bytes.TrimSpace(headerLine)) == 0 {
		return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV is empty"}
	}

	cr := csv.NewReader(br)
	cr.Comma = DetectSeparator(string(headerLine))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV header unreadable: " + err.Error()}
	}

	colIdx := make(map[string]int, len(header))
	var unknownCols []string
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := importHeaderAliases[key]; ok {
			if _, dup := colIdx[canonical]; !dup {
				colIdx[canonical] = i
			}
			continue
		}
		unknownCols = append(unknownCols, h)
	}

	result := ImportMembersResult{DryRun: input.DryRun, Errors: []ImportMembersRowError{}}
	if len(colIdx) == 0 {
		colIdx = positionalColumns
		unknownCols = nil
		result.Positional = true
	} else {
		if _, ok := colIdx[colSurname]; !ok {
			return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV missing required column: SURNAME"}
		}
		if _, ok := colIdx[colName]; !ok {
			return ImportMembersResult{}, &ImportMembersValidationError{Message: "CSV missing required column: NAME"}
		}
	}
	result.Unknown = unknownCols

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rowNum := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "malformed row: " + err.Error()})
			continue
		}
		if isBlankRow(row) {
			continue
		}
		result.Total++

		m, msg := parseImportRow(row, getCol, input)
		if msg != "" {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: msg})
			continue
		}

		var existing domain.Member
		exists := false
		if m.RegistrationNumber != "" {
			found, lookupErr := deps.MemberStore.GetByRegistrationNumber(ctx, m.RegistrationNumber)
			switch {
			case lookupErr == nil:
				existing, exists = found, true
			case !errors.Is(lookupErr, sql.ErrNoRows):
				slog.Error("members_import_lookup_failed", "row", rowNum, "registration_number", m.RegistrationNumber, "error", lookupErr)
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "lookup failed (see server log)"})
				continue
			}
		}

		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}

		if exists {
			m.ID = existing.ID
			m.Active = existing.Active
			if m.Email == "" {
				m.Email = existing.Email
			}
			if m.DateOfBirth == "" {
				m.DateOfBirth = existing.DateOfBirth
			}
		} else {
			m.Active = true
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}

		if !exists {
			m.ID = deps.GenerateID()
		}
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			slog.Error("members_import_save_failed", "row", rowNum, "registration_number", m.RegistrationNumber, "error", err)
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "save failed (see server log)"})
			continue
		}
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("members_import",
		"imported_by", input.ImportedBy,
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"positional", result.Positional,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}

// parseImportRow builds a member from one CSV row. A non-empty message means the row is rejected.
func parseImportRow(row []string, getCol func([]string, string) string, input ImportMembersInput) (domain.Member, string) {
	m := domain.Member{
		RegistrationNumber: getCol(row, colRegistration),
		Surname:            getCol(row, colSurname),
		Name:               getCol(row, colName),
		CategoryID:         getCol(row, colCategory),
	}
	if m.Surname == "" || m.Name == "" {
		return m, "surname and first name are required"
	}
	if m.CategoryID == "" {
		m.CategoryID = input.DefaultCategoryID
	}

	if raw := getCol(row, colSex); raw != "" {
		m.Sex = domain.NormalizeSex(raw)
	} else if input.DefaultSex != "" {
		m.Sex = domain.NormalizeSex(input.DefaultSex)
	} else {
		m.Sex = domain.SexMale
	}

	dob, err := domain.NormalizeBirthDate(getCol(row, colBirthDate))
	if err != nil {
		return m, fmt.Sprintf("invalid date of birth: %s", getCol(row, colBirthDate))
	}
	m.DateOfBirth = dob

	if raw := getCol(row, colEmail); raw != "" {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return m, "invalid email: " + raw
		}
		m.Email = strings.ToLower(addr.Address)
	}

	if err := m.Validate(); err != nil {
		return m, err.Error()
	}
	return m, ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ImportMembersValidationError is returned when the CSV structure is invalid (e.g. missing required columns).
type ImportMembersValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ImportMembersValidationError) Error() string {
	return e.Message
}
