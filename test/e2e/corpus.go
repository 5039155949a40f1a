package e2e

import (
	"fmt"
	"strings"
)

// invalidWords is what the converter prints for a rejected candidate.
const invalidWords = "number invalid"

// Fixture is a candidate and the words it must convert to.
type Fixture struct {
	Candidate string
	Words     string
}

// Fixtures are hand-checked conversions, invalid candidates included.
var Fixtures = []Fixture{
	{"87334", "eighty-seven thousand three hundred and thirty-four"},
	{"123456789", "one hundred and twenty-three million four hundred and fifty-six thousand seven hundred and eighty-nine"},
	{"100010", "one hundred thousand and ten"},
	{"712632000", "seven hundred and twelve million six hundred and thirty-two thousand"},
	{"1000000000", "one billion"},
	{"42", "forty-two"},
	{"7", "seven"},
	{"300", "three hundred"},
	{"1001", "one thousand and one"},
	{"90", "ninety"},
	{"15", "fifteen"},
	{"2000000", "two million"},
	{"#65678", invalidWords},
	{"23 456,9", invalidWords},
}

// LedgerDocument is one generated document: each line holds exactly one candidate.
type LedgerDocument struct {
	Name     string
	Lines    []string
	Expected []Fixture
}

// Corpus holds the generated documents for E2E tests.
type Corpus struct {
	Documents   []LedgerDocument
	TotalDocs   int
	TotalValues int
}

// BuildCorpus returns n documents. Document i carries three fixtures picked
// by stepping through Fixtures, so every fixture appears in several files.
func BuildCorpus(n int) *Corpus {
	docs := make([]LedgerDocument, 0, n)
	total := 0
	for i := 0; i < n; i++ {
		doc := LedgerDocument{Name: fmt.Sprintf("ledger-%03d", i)}
		for j := 0; j < 3; j++ {
			fx := Fixtures[(i+j*5)%len(Fixtures)]
			doc.Lines = append(doc.Lines, fmt.Sprintf("Amount due %s today", fx.Candidate))
			doc.Expected = append(doc.Expected, fx)
		}
		total += len(doc.Expected)
		docs = append(docs, doc)
	}
	return &Corpus{Documents: docs, TotalDocs: len(docs), TotalValues: total}
}

// Text joins a document's lines the way a plain-text file holds them.
func (d LedgerDocument) Text() string {
	return strings.Join(d.Lines, "\n") + "\n"
}
