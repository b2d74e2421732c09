// =============================================================================
// ojsconvert - Hierarchy Builder
// =============================================================================
//
// This module groups the flat row sequence into the issue/section/article
// hierarchy the native-XML document mirrors:
//
//   - one Issue per distinct issueTitle, metadata captured from the first
//     row naming that title (later rows never overwrite it),
//   - per issue, a deduplicated section list in first-seen order,
//   - per issue, the ordered list of article rows (1:1 with input rows).
//
// The pass is single-forward and never drops a row: every input row lands
// in exactly one issue's article list. An empty issue title is a legitimate
// (if degenerate) grouping key; only a column absent from the row structure
// is an error.
//
// =============================================================================

package hierarchy

import (
	"github.com/openpress/ojsconvert/internal/rows"
)

// Issue holds the issue-identification metadata captured from the first row
// naming the issue title.
type Issue struct {
	Title         string
	Volume        string
	Number        string
	Year          string
	DatePublished string

	// Cover is the cover image filename, empty when the issue has none.
	Cover string
}

// Section is one journal section. Abbrev is the join key article rows
// reference via their sectionAbbrev column.
type Section struct {
	Title  string
	Abbrev string
}

// Grouping is the result of grouping the full row sequence.
type Grouping struct {
	// Order lists issue titles in discovery order.
	Order []string

	// Issues maps issue title to its metadata record.
	Issues map[string]Issue

	// Sections maps issue title to its deduplicated section list,
	// first-seen order.
	Sections map[string][]Section

	// Articles maps issue title to its article rows in original row order.
	Articles map[string][]rows.Row
}

// ArticleCount returns the total number of article rows across all issues.
func (g *Grouping) ArticleCount() int {
	n := 0
	for _, list := range g.Articles {
		n += len(list)
	}
	return n
}

// Build groups rows by issue title in a single forward pass.
//
// Issue metadata is inserted on the first occurrence of a title only.
// Sections are appended to an issue's list only when the (title, abbrev)
// pair has not been seen for that issue yet. Article rows are appended
// unconditionally: each row is exactly one article.
func Build(rs []rows.Row) (*Grouping, error) {
	g := &Grouping{
		Issues:   make(map[string]Issue),
		Sections: make(map[string][]Section),
		Articles: make(map[string][]rows.Row),
	}

	for _, r := range rs {
		title, err := r.Require(rows.FieldIssueTitle)
		if err != nil {
			return nil, err
		}

		if _, seen := g.Issues[title]; !seen {
			issue, err := issueFromRow(r, title)
			if err != nil {
				return nil, err
			}
			g.Issues[title] = issue
			g.Order = append(g.Order, title)
		}

		section, err := sectionFromRow(r)
		if err != nil {
			return nil, err
		}
		if !containsSection(g.Sections[title], section) {
			g.Sections[title] = append(g.Sections[title], section)
		}

		g.Articles[title] = append(g.Articles[title], r)
	}

	return g, nil
}

// issueFromRow captures issue metadata from the first row naming a title.
// The cover column is optional; everything else must be present.
func issueFromRow(r rows.Row, title string) (Issue, error) {
	issue := Issue{
		Title: title,
		Cover: r.Get(rows.FieldIssueCover),
	}

	var err error
	if issue.Volume, err = r.Require(rows.FieldIssueVolume); err != nil {
		return Issue{}, err
	}
	if issue.Number, err = r.Require(rows.FieldIssueNumber); err != nil {
		return Issue{}, err
	}
	if issue.Year, err = r.Require(rows.FieldIssueYear); err != nil {
		return Issue{}, err
	}
	if issue.DatePublished, err = r.Require(rows.FieldIssueDate); err != nil {
		return Issue{}, err
	}
	return issue, nil
}

func sectionFromRow(r rows.Row) (Section, error) {
	title, err := r.Require(rows.FieldSectionTitle)
	if err != nil {
		return Section{}, err
	}
	abbrev, err := r.Require(rows.FieldSectionAbbrev)
	if err != nil {
		return Section{}, err
	}
	return Section{Title: title, Abbrev: abbrev}, nil
}

// containsSection tests membership by value equality of the pair, not by
// reference.
func containsSection(list []Section, s Section) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}
