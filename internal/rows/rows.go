// =============================================================================
// ojsconvert - Row Model
// =============================================================================
//
// This package defines the Row type shared by the parsers and the builders:
// an ordered field-name -> value mapping, one per spreadsheet line. It also
// owns the column-name contract: the canonical field names used throughout
// the grouping and document-building code, the alias table that maps legacy
// header variants (authorFirstname1, authorgivenname1, ...) onto the
// canonical names, and the MissingFieldError raised when a required column
// is absent from a row.
//
// =============================================================================

package rows

import (
	"fmt"
	"strconv"
)

// =============================================================================
// CANONICAL FIELD NAMES
// =============================================================================

// Canonical column names. The spreadsheet header set is a versioned contract
// with the metadata authors; legacy variants are normalized onto these names
// before any grouping or building runs.
const (
	FieldIssueTitle     = "issueTitle"
	FieldIssueVolume    = "issueVolume"
	FieldIssueNumber    = "issueNumber"
	FieldIssueYear      = "issueYear"
	FieldIssueDate      = "issueDatepublished"
	FieldIssueCover     = "issueCover"
	FieldSectionTitle   = "sectionTitle"
	FieldSectionAbbrev  = "sectionAbbrev"
	FieldTitle          = "title"
	FieldAbstract       = "abstract"
	FieldKeywords       = "keywords"
	FieldSeq            = "seq"
	FieldPages          = "pages"
	FieldFile           = "file1"
	FieldFileGenre      = "fileGenre1"
	FieldRevisionNumber = "revision_number"
	FieldStage          = "submission_stage"
)

// MaxAuthors is the number of author slots a row may carry.
const MaxAuthors = 5

// AuthorGivenname returns the canonical given-name column for slot n (1-based).
func AuthorGivenname(n int) string { return "authorGivenname" + strconv.Itoa(n) }

// AuthorFamilyname returns the canonical family-name column for slot n.
func AuthorFamilyname(n int) string { return "authorFamilyname" + strconv.Itoa(n) }

// AuthorAffiliation returns the affiliation column for slot n.
func AuthorAffiliation(n int) string { return "authorAffiliation" + strconv.Itoa(n) }

// AuthorEmail returns the email column for slot n.
func AuthorEmail(n int) string { return "authorEmail" + strconv.Itoa(n) }

// =============================================================================
// ROW TYPE
// =============================================================================

// Row is one data row from the source spreadsheet.
type Row struct {
	// Line is the 1-based data row number in the source file.
	// Used for error reporting only.
	Line int

	// Fields maps column header to cell value.
	Fields map[string]string
}

// Get returns the value of a field, or the empty string when the column is
// absent. Use Require for columns that must be present.
func (r Row) Get(field string) string {
	return r.Fields[field]
}

// GetOrDefault returns the value of a field, falling back to def when the
// column is absent or the cell is empty.
func (r Row) GetOrDefault(field, def string) string {
	if v, ok := r.Fields[field]; ok && v != "" {
		return v
	}
	return def
}

// Has reports whether the column is present in the row, regardless of value.
func (r Row) Has(field string) bool {
	_, ok := r.Fields[field]
	return ok
}

// Require returns the value of a field, or a MissingFieldError when the
// column is absent from the row. An empty value is legitimate: only a
// missing column is an error.
func (r Row) Require(field string) (string, error) {
	v, ok := r.Fields[field]
	if !ok {
		return "", &MissingFieldError{Line: r.Line, Field: field}
	}
	return v, nil
}

// =============================================================================
// ERRORS
// =============================================================================

// MissingFieldError reports a required column absent from a row. It is fatal
// for the whole run; no partial output is written.
type MissingFieldError struct {
	Line  int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Line, e.Field)
}

// =============================================================================
// LEGACY COLUMN NORMALIZATION
// =============================================================================

// DefaultAliases returns the built-in legacy-header alias table. Earlier
// spreadsheet exports used firstname/lastname author columns and in one
// variant all-lowercase givenname/familyname headers; both map onto the
// canonical columns here. Configuration may extend or override this table.
func DefaultAliases() map[string]string {
	aliases := make(map[string]string, 4*MaxAuthors)
	for n := 1; n <= MaxAuthors; n++ {
		i := strconv.Itoa(n)
		aliases["authorFirstname"+i] = AuthorGivenname(n)
		aliases["authorLastname"+i] = AuthorFamilyname(n)
		aliases["authorgivenname"+i] = AuthorGivenname(n)
		aliases["authorfamilyname"+i] = AuthorFamilyname(n)
	}
	return aliases
}

// Normalize rewrites legacy column names onto their canonical equivalents,
// in place. A canonical column already present in the row wins over an
// aliased one, so mixed exports do not clobber good data.
func Normalize(rs []Row, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	for _, r := range rs {
		for legacy, canonical := range aliases {
			v, ok := r.Fields[legacy]
			if !ok {
				continue
			}
			if _, exists := r.Fields[canonical]; !exists {
				r.Fields[canonical] = v
			}
			delete(r.Fields, legacy)
		}
	}
}
