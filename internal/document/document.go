// =============================================================================
// ojsconvert - Document Builder
// =============================================================================
//
// This module walks the grouped hierarchy and emits the native-XML element
// tree: issue identification, publication date, section lists, optional
// covers, and one article element per row with its authors, submission file
// and galley. The builder performs no I/O: article PDFs and cover images
// arrive pre-resolved as FileSource values, so the functions here are pure
// mappings from input structures to elements.
//
// DOCUMENT STRUCTURE (per issue):
//   <issue published="1">
//     <issue_identification> volume/number/year/title </issue_identification>
//     <date_published>YYYY-MM-DD</date_published>
//     <sections> <section ref="..."> abbrev/policy/title </section> </sections>
//     <covers>...</covers>                      <!-- only when a cover exists -->
//     <articles>
//       <article section_ref="..." stage="production" date_published="..." seq="...">
//         title, abstract, keywords, authors,
//         submission_file/revision/name + href-or-embed,
//         article_galley, pages
//       </article>
//     </articles>
//   </issue>
//
// =============================================================================

package document

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openpress/ojsconvert/internal/hierarchy"
	"github.com/openpress/ojsconvert/internal/rows"
	"github.com/openpress/ojsconvert/internal/xmlwriter"
)

// Fixed values mandated by the import schema.
const (
	pdfMIMEType  = "application/pdf"
	defaultGenre = "Article Text"
	defaultStage = "submission"
	articleStage = "production"
	dateLayout   = "2006-01-02"
)

// ID schemes for submission-file and galley identifiers. The source
// spreadsheets historically used the per-row seq column and a run-wide
// counter interchangeably; the scheme is an explicit choice here and is
// applied uniformly within a document.
const (
	SchemeCounter = "counter"
	SchemeSeq     = "seq"
)

// FileSource is a pre-resolved binary asset. Exactly one of Href and Data
// is set: Href when the asset is remotely hosted, Data when it is embedded
// as base64.
type FileSource struct {
	Href string
	Data []byte
}

// Options configures document construction.
type Options struct {
	// IDScheme selects SchemeCounter (run-wide sequential ids, the default)
	// or SchemeSeq (the row's seq column).
	IDScheme string

	// Stage is the submission-file stage, defaulting to "submission" when a
	// row carries no submission_stage column.
	Stage string

	// Now anchors the published-flag derivation. Zero means time.Now().
	Now time.Time
}

func (o Options) scheme() string {
	if o.IDScheme == "" {
		return SchemeCounter
	}
	return o.IDScheme
}

func (o Options) stage() string {
	if o.Stage == "" {
		return defaultStage
	}
	return o.Stage
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Stats counts what a build emitted.
type Stats struct {
	Issues   int
	Articles int
}

// =============================================================================
// DOCUMENT ASSEMBLY
// =============================================================================

// Build assembles the complete <issues> document for a grouping. The files
// map carries every pre-resolved asset keyed by filename; the file-number
// counter is threaded through article emission in issue discovery order,
// run-wide, never reset per issue.
func Build(g *hierarchy.Grouping, files map[string]FileSource, opts Options) (*xmlwriter.Element, Stats, error) {
	root := xmlwriter.New("issues",
		xmlwriter.Attr{Name: "xmlns", Value: xmlwriter.Namespace},
		xmlwriter.Attr{Name: "xmlns:xsi", Value: xmlwriter.NamespaceXSI},
		xmlwriter.Attr{Name: "xsi:schemaLocation", Value: xmlwriter.SchemaLocation},
	)

	stats := Stats{}
	fileNumber := 0

	for _, title := range g.Order {
		issue := g.Issues[title]

		element := xmlwriter.New("issue")
		if published(issue.DatePublished, opts.now()) {
			element.SetAttr("published", "1")
		}

		element.Add(Identification(issue))
		element.Add(Publication(issue))
		element.Add(Sections(g.Sections[title]))

		if issue.Cover != "" {
			element.Add(Cover(issue, files[issue.Cover]))
		}

		articles := xmlwriter.New("articles")
		for _, row := range g.Articles[title] {
			fileNumber++
			name, err := row.Require(rows.FieldFile)
			if err != nil {
				return nil, Stats{}, err
			}
			article, err := Article(row, files[name], fileNumber, opts)
			if err != nil {
				return nil, Stats{}, err
			}
			articles.Add(article)
			stats.Articles++
		}
		element.Add(articles)

		root.Add(element)
		stats.Issues++
	}

	return root, stats, nil
}

// published reports whether the issue's publication date is on or before
// the reference time. An unparseable date never sets the flag.
func published(date string, now time.Time) bool {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	return !t.After(now)
}

// =============================================================================
// ISSUE-LEVEL BUILDERS
// =============================================================================

// Identification builds the issue_identification element: volume, number,
// year and title leaves, all required.
func Identification(issue hierarchy.Issue) *xmlwriter.Element {
	return xmlwriter.New("issue_identification").Add(
		xmlwriter.Leaf("volume", issue.Volume),
		xmlwriter.Leaf("number", issue.Number),
		xmlwriter.Leaf("year", issue.Year),
		xmlwriter.Leaf("title", issue.Title),
	)
}

// Publication builds the date_published leaf.
func Publication(issue hierarchy.Issue) *xmlwriter.Element {
	return xmlwriter.Leaf("date_published", issue.DatePublished)
}

// Sections builds the sections element: one section per record, in the
// deduplicated first-seen order the hierarchy builder produced. Policy is
// always empty; the import application fills it from journal settings.
func Sections(list []hierarchy.Section) *xmlwriter.Element {
	sections := xmlwriter.New("sections")
	for _, s := range list {
		sections.Add(
			xmlwriter.New("section", xmlwriter.Attr{Name: "ref", Value: s.Abbrev}).Add(
				xmlwriter.Leaf("abbrev", s.Abbrev),
				xmlwriter.New("policy"),
				xmlwriter.Leaf("title", s.Title),
			),
		)
	}
	return sections
}

// Cover builds the covers element for an issue with a cover image. The
// image is embedded when its bytes were resolved, referenced otherwise.
func Cover(issue hierarchy.Issue, file FileSource) *xmlwriter.Element {
	cover := xmlwriter.New("cover").Add(
		xmlwriter.Leaf("cover_image", issue.Cover),
		xmlwriter.Leaf("cover_image_alt_text", issue.Title),
	)
	if len(file.Data) > 0 {
		cover.Add(embedElement(file.Data, mimeTypeFor(issue.Cover)))
	}
	return xmlwriter.New("covers").Add(cover)
}

// mimeTypeFor maps a cover filename to its MIME type. Covers are raster
// images; anything unrecognized falls back to PNG.
func mimeTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".jpg"), strings.HasSuffix(filename, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(filename, ".gif"):
		return "image/gif"
	default:
		return "image/png"
	}
}

// =============================================================================
// ARTICLE BUILDER
// =============================================================================

// Article builds one article element from its row. fileNumber is the
// run-wide sequential identifier assigned by the orchestrator in emission
// order; whether it or the row's seq column names the submission file is
// decided by Options.IDScheme.
func Article(row rows.Row, file FileSource, fileNumber int, opts Options) (*xmlwriter.Element, error) {
	sectionRef, err := row.Require(rows.FieldSectionAbbrev)
	if err != nil {
		return nil, err
	}
	date, err := row.Require(rows.FieldIssueDate)
	if err != nil {
		return nil, err
	}
	seq, err := row.Require(rows.FieldSeq)
	if err != nil {
		return nil, err
	}
	title, err := row.Require(rows.FieldTitle)
	if err != nil {
		return nil, err
	}
	abstract, err := row.Require(rows.FieldAbstract)
	if err != nil {
		return nil, err
	}
	pages, err := row.Require(rows.FieldPages)
	if err != nil {
		return nil, err
	}

	article := xmlwriter.New("article",
		xmlwriter.Attr{Name: "section_ref", Value: sectionRef},
		xmlwriter.Attr{Name: "stage", Value: articleStage},
		xmlwriter.Attr{Name: "date_published", Value: date},
		xmlwriter.Attr{Name: "seq", Value: seq},
	)

	article.Add(
		xmlwriter.Leaf("title", title),
		xmlwriter.Leaf("abstract", abstract),
		keywordsElement(row),
		authorsElement(row),
	)

	submissionFile, err := submissionFileElement(row, file, fileNumber, opts)
	if err != nil {
		return nil, err
	}
	article.Add(submissionFile)
	article.Add(galleyElement(row, seq, fileNumber, opts))
	article.Add(xmlwriter.Leaf("pages", pages))

	return article, nil
}

// keywordsElement splits the keywords column on semicolons into one leaf
// per keyword. There is no escaping mechanism: a keyword containing a
// semicolon cannot be represented, which is an accepted limitation of the
// spreadsheet format. A row without the column still emits a single empty
// leaf because the schema requires at least one.
func keywordsElement(row rows.Row) *xmlwriter.Element {
	keywords := xmlwriter.New("keywords")
	if !row.Has(rows.FieldKeywords) {
		return keywords.Add(xmlwriter.New("keyword"))
	}
	for _, k := range strings.Split(row.Get(rows.FieldKeywords), ";") {
		keywords.Add(xmlwriter.Leaf("keyword", strings.TrimSpace(k)))
	}
	return keywords
}

// authorsElement emits up to MaxAuthors author slots. Slot 1 is always
// present, with "Unknown" substituted for an empty given or family name;
// later slots are included only when their given-name column is non-empty.
// Affiliation and email default to the empty string.
func authorsElement(row rows.Row) *xmlwriter.Element {
	authors := xmlwriter.New("authors")

	authors.Add(authorElement(
		row.GetOrDefault(rows.AuthorGivenname(1), "Unknown"),
		row.GetOrDefault(rows.AuthorFamilyname(1), "Unknown"),
		row.Get(rows.AuthorAffiliation(1)),
		row.Get(rows.AuthorEmail(1)),
	))

	for n := 2; n <= rows.MaxAuthors; n++ {
		given := row.Get(rows.AuthorGivenname(n))
		if given == "" {
			continue
		}
		authors.Add(authorElement(
			given,
			row.Get(rows.AuthorFamilyname(n)),
			row.Get(rows.AuthorAffiliation(n)),
			row.Get(rows.AuthorEmail(n)),
		))
	}

	return authors
}

func authorElement(given, family, affiliation, email string) *xmlwriter.Element {
	return xmlwriter.New("author", xmlwriter.Attr{Name: "user_group_ref", Value: "Author"}).Add(
		xmlwriter.Leaf("givenname", given),
		xmlwriter.Leaf("familyname", family),
		xmlwriter.Leaf("affiliation", affiliation),
		xmlwriter.Leaf("email", email),
	)
}

// submissionFileElement builds the submission_file/revision pair for the
// article's PDF. Genre defaults to "Article Text" when the column is empty
// and the revision number to "1" when the column is absent.
func submissionFileElement(row rows.Row, file FileSource, fileNumber int, opts Options) (*xmlwriter.Element, error) {
	name, err := row.Require(rows.FieldFile)
	if err != nil {
		return nil, err
	}

	submissionFile := xmlwriter.New("submission_file",
		xmlwriter.Attr{Name: "id", Value: fileID(row, fileNumber, opts)},
		xmlwriter.Attr{Name: "stage", Value: row.GetOrDefault(rows.FieldStage, opts.stage())},
	)

	revision := xmlwriter.New("revision",
		xmlwriter.Attr{Name: "genre", Value: row.GetOrDefault(rows.FieldFileGenre, defaultGenre)},
		xmlwriter.Attr{Name: "number", Value: revisionNumber(row, opts)},
		xmlwriter.Attr{Name: "filetype", Value: pdfMIMEType},
		xmlwriter.Attr{Name: "filename", Value: name},
	)
	revision.Add(xmlwriter.Leaf("name", name))

	// Remote and embedded assets are mutually exclusive schema variants.
	if len(file.Data) > 0 {
		revision.Add(embedElement(file.Data, pdfMIMEType))
	} else {
		revision.Add(xmlwriter.New("href",
			xmlwriter.Attr{Name: "src", Value: file.Href},
			xmlwriter.Attr{Name: "mime_type", Value: pdfMIMEType},
		))
	}

	submissionFile.Add(revision)
	return submissionFile, nil
}

// galleyElement builds the article_galley cross-referencing the submission
// file by id and revision.
func galleyElement(row rows.Row, seq string, fileNumber int, opts Options) *xmlwriter.Element {
	id := fileID(row, fileNumber, opts)
	return xmlwriter.New("article_galley").Add(
		xmlwriter.Leaf("id", id),
		xmlwriter.Leaf("name", "PDF"),
		xmlwriter.Leaf("seq", seq),
		xmlwriter.New("submission_file_ref",
			xmlwriter.Attr{Name: "id", Value: id},
			xmlwriter.Attr{Name: "revision", Value: revisionNumber(row, opts)},
		),
	)
}

// fileID resolves the submission-file identifier for the configured scheme.
func fileID(row rows.Row, fileNumber int, opts Options) string {
	if opts.scheme() == SchemeSeq {
		return row.Get(rows.FieldSeq)
	}
	return strconv.Itoa(fileNumber)
}

// revisionNumber resolves the revision number for the configured scheme.
func revisionNumber(row rows.Row, opts Options) string {
	if opts.scheme() == SchemeSeq {
		return row.Get(rows.FieldSeq)
	}
	return row.GetOrDefault(rows.FieldRevisionNumber, "1")
}

func embedElement(data []byte, mimeType string) *xmlwriter.Element {
	embed := xmlwriter.New("embed",
		xmlwriter.Attr{Name: "encoding", Value: "base64"},
		xmlwriter.Attr{Name: "mime_type", Value: mimeType},
	)
	embed.Text = base64.StdEncoding.EncodeToString(data)
	return embed
}

// Sanity check used by the converter before building: every article's
// section_ref must name a section present in its issue's list.
func VerifySectionRefs(g *hierarchy.Grouping) error {
	for _, title := range g.Order {
		known := make(map[string]bool, len(g.Sections[title]))
		for _, s := range g.Sections[title] {
			known[s.Abbrev] = true
		}
		for _, row := range g.Articles[title] {
			ref, err := row.Require(rows.FieldSectionAbbrev)
			if err != nil {
				return err
			}
			if !known[ref] {
				return fmt.Errorf("row %d: section_ref %q not in issue %q section list", row.Line, ref, title)
			}
		}
	}
	return nil
}
