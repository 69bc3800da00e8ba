package narrative

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/pkg/fhirmodels"
)

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// RecordNarrativeFunc renders the XHTML body for one canonical record type.
// It returns the inner content only; Generate adds the wrapping <div>.
type RecordNarrativeFunc func(rec *normalize.Record) (string, error)

// Generator produces human-readable XHTML narratives from canonical records.
// It never looks at the raw resource.
type Generator struct {
	generators map[string]RecordNarrativeFunc
}

// NewGenerator creates a Generator pre-loaded with the built-in generators.
func NewGenerator() *Generator {
	g := &Generator{
		generators: make(map[string]RecordNarrativeFunc),
	}
	g.registerBuiltins()
	return g
}

// RegisterGenerator registers (or replaces) the generator for a record type.
func (g *Generator) RegisterGenerator(resourceType string, fn RecordNarrativeFunc) {
	g.generators[resourceType] = fn
}

// Generate produces a FHIR text element for rec.
// Returns nil for a nil record.
// Returns {"status": "generated", "div": "<div ...>...</div>"} otherwise.
func (g *Generator) Generate(rec *normalize.Record) map[string]interface{} {
	if rec == nil {
		return nil
	}
	return map[string]interface{}{
		"status": "generated",
		"div":    g.Div(rec),
	}
}

// Div renders rec as a complete XHTML div.
func (g *Generator) Div(rec *normalize.Record) string {
	var body string
	if fn, ok := g.generators[rec.ResourceType]; ok {
		if content, err := fn(rec); err == nil {
			body = content
		}
	}

	var b strings.Builder
	b.WriteString(`<div xmlns="http://www.w3.org/1999/xhtml">`)
	if body == "" {
		body = fallback(rec)
	}
	b.WriteString(body)
	b.WriteString("</div>")
	return b.String()
}

func (g *Generator) registerBuiltins() {
	g.generators["AllergyIntolerance"] = allergyIntolerance
	g.generators["CarePlan"] = carePlan
	g.generators["Condition"] = condition
	g.generators["Goal"] = goal
	g.generators["Immunization"] = immunization
	g.generators["Procedure"] = procedure
}

// fallback names the record when no generator is registered or the
// generator failed.
func fallback(rec *normalize.Record) string {
	return fmt.Sprintf("<p><b>%s</b></p>", escapeHTML(label(rec)))
}

func label(rec *normalize.Record) string {
	if rec.Meta.Label != "" {
		return rec.Meta.Label
	}
	return rec.ResourceType
}

// ---------------------------------------------------------------------------
// Writers
// ---------------------------------------------------------------------------

type writer struct {
	strings.Builder
}

// header writes the icon, label, title and an optional status badge.
func (w *writer) header(rec *normalize.Record, title, status string) {
	name := label(rec)
	w.WriteString(`<p class="header">`)
	if rec.Meta.Icon != "" {
		w.WriteString(fmt.Sprintf(`<img src="%s" alt="%s"/> `, escapeHTML(rec.Meta.Icon), escapeHTML(name)))
	}
	w.WriteString(fmt.Sprintf("<b>%s:</b> %s", escapeHTML(name), escapeHTML(title)))
	if status != "" {
		w.WriteString(" ")
		w.badge(status)
	}
	w.WriteString("</p>")
}

func (w *writer) badge(status string) {
	w.WriteString(fmt.Sprintf(`<span class="badge badge-%s">%s</span>`, fhirmodels.ToneFor(status), escapeHTML(status)))
}

// row writes a labelled value; empty values are skipped.
func (w *writer) row(label, value string) {
	if value == "" {
		return
	}
	w.WriteString(fmt.Sprintf("<p><b>%s:</b> %s</p>", label, escapeHTML(value)))
}

func (w *writer) list(label string, items []string) {
	if len(items) == 0 {
		return
	}
	w.WriteString(fmt.Sprintf("<p><b>%s:</b></p><ul>", label))
	for _, item := range items {
		w.WriteString("<li>")
		w.WriteString(escapeHTML(item))
		w.WriteString("</li>")
	}
	w.WriteString("</ul>")
}

// ---------------------------------------------------------------------------
// Condition
// ---------------------------------------------------------------------------

func condition(rec *normalize.Record) (string, error) {
	var w writer
	w.header(rec, rec.String("codeText"), rec.String("clinicalStatus"))
	w.row("Severity", rec.String("severityText"))
	w.row("Verification", rec.String("verificationStatus"))
	w.row("Onset", fhir.FormatDate(rec.Value("onsetDateTime")))
	w.row("Recorded", fhir.FormatDate(rec.Value("dateRecorded")))
	w.row("Subject", fhir.FormatReferenceDisplay(rec.Value("subject")))
	if rec.Bool("hasAsserter") {
		w.row("Asserted by", fhir.FormatReferenceDisplay(rec.Value("asserter")))
	}
	if rec.Bool("hasBodySite") {
		w.row("Body site", fhir.FormatCodeableConcept(rec.Value("bodySite")))
	}
	if rec.Bool("hasNote") {
		w.row("Note", fhir.FormatAnnotation(rec.Value("note")))
	}
	return w.String(), nil
}

// ---------------------------------------------------------------------------
// Procedure
// ---------------------------------------------------------------------------

const missingValue = "-"

func procedure(rec *normalize.Record) (string, error) {
	var w writer
	w.header(rec, rec.String("display"), rec.String("status"))
	if rec.Bool("notPerformed") {
		w.row("Performed", "not performed")
	}
	if rec.Bool("hasPerformedDateTime") {
		w.row("Performed on", fhir.FormatDate(rec.Value("performedDateTime")))
	}
	if rec.Bool("hasPerformedPeriod") {
		w.row("Performed", period(rec.Value("performedPeriodStart"), rec.Value("performedPeriodEnd")))
	}
	if rec.Bool("hasCoding") {
		var codes []string
		for _, c := range rec.List("coding") {
			codes = append(codes, codingLine(c))
		}
		w.list("Identification", codes)
	}
	w.row("Category", fhir.FormatCoding(rec.Value("category")))
	w.row("Location", fhir.FormatReferenceDisplay(rec.Value("locationReference")))
	if rec.Bool("hasPerformerData") {
		var names []string
		for _, n := range rec.List("performerNames") {
			s, _ := n.(string)
			if s == "" {
				s = missingValue
			}
			names = append(names, s)
		}
		w.list("Performers", names)
	}
	if rec.Bool("hasReasonCode") {
		w.row("Reason", fhir.FormatCodeableConcept(rec.Value("reasonCode")))
	}
	if rec.Bool("hasOutcome") {
		w.row("Outcome", fhir.FormatCodeableConcept(rec.Value("outcome")))
	}
	if rec.Bool("hasNote") {
		w.row("Note", fhir.FormatAnnotation(rec.Value("note")))
	}
	return w.String(), nil
}

// ---------------------------------------------------------------------------
// Goal
// ---------------------------------------------------------------------------

func goal(rec *normalize.Record) (string, error) {
	var w writer
	w.header(rec, rec.String("description"), rec.String("status"))
	w.row("Achievement", rec.String("achievementStatus"))
	w.row("Priority", rec.String("priority"))
	w.row("Start", fhir.FormatDate(rec.Value("startDate")))
	if rec.Bool("hasTarget") {
		w.row("Due", fhir.FormatDate(rec.Value("dueDate")))
	}
	w.row("Status date", fhir.FormatDate(rec.Value("statusDate")))
	if rec.Bool("hasCategory") {
		w.row("Category", fhir.FormatCodeableConcept(rec.Value("category")))
	}
	if rec.Bool("hasAddresses") {
		w.list("Addresses", references(rec.List("addresses")))
	}
	if rec.Bool("hasNote") {
		w.row("Note", fhir.FormatAnnotation(rec.Value("note")))
	}
	return w.String(), nil
}

// ---------------------------------------------------------------------------
// CarePlan
// ---------------------------------------------------------------------------

func carePlan(rec *normalize.Record) (string, error) {
	var w writer
	title := rec.String("title")
	if title == "" {
		title = rec.String("description")
	}
	w.header(rec, title, rec.String("status"))
	w.row("Intent", rec.String("intent"))
	if title != rec.String("description") {
		w.row("Description", rec.String("description"))
	}
	w.row("Period", period(rec.Value("periodStart"), rec.Value("periodEnd")))
	if rec.Bool("hasCategory") {
		w.row("Category", fhir.FormatCodeableConcept(rec.Value("category")))
	}
	if rec.Bool("hasAddresses") {
		w.list("Addresses", references(rec.List("addresses")))
	}
	if rec.Bool("hasGoals") {
		w.list("Goals", references(rec.List("goals")))
	}
	if rec.Bool("hasActivities") {
		w.WriteString("<p><b>Activities:</b></p><ul>")
		for _, a := range rec.List("activities") {
			w.activity(a)
		}
		w.WriteString("</ul>")
	}
	return w.String(), nil
}

func (w *writer) activity(a interface{}) {
	w.WriteString(`<li class="activity">`)
	w.WriteString(fmt.Sprintf("<b>%s</b>", escapeHTML(SentenceCase(fhir.GetString(a, "title")))))
	if status := fhir.GetString(a, "status"); status != "" {
		w.WriteString(" ")
		w.badge(status)
	}
	if hasCategories, _ := fhir.Get(a, "hasCategories").(bool); hasCategories {
		var codes []string
		for _, c := range fhir.GetSlice(a, "categories") {
			codes = append(codes, codingLine(c))
		}
		w.WriteString(" ")
		w.WriteString(escapeHTML(strings.Join(codes, ", ")))
	}
	w.WriteString("</li>")
}

// ---------------------------------------------------------------------------
// AllergyIntolerance
// ---------------------------------------------------------------------------

func allergyIntolerance(rec *normalize.Record) (string, error) {
	var w writer
	w.header(rec, rec.String("substance"), rec.String("clinicalStatus"))
	w.row("Verification", rec.String("verificationStatus"))
	w.row("Criticality", rec.String("criticality"))
	w.row("Onset", fhir.FormatDate(rec.Value("onset")))
	w.row("Recorded", fhir.FormatDate(rec.Value("dateRecorded")))
	w.row("Patient", fhir.FormatReferenceDisplay(rec.Value("patient")))
	if rec.Bool("hasAsserter") {
		w.row("Asserted by", fhir.FormatReferenceDisplay(rec.Value("asserter")))
	}
	if rec.Bool("hasReactions") {
		var lines []string
		for _, r := range rec.List("reactions") {
			var names []string
			for _, m := range fhir.GetSlice(r, "manifestations") {
				if s, ok := m.(string); ok {
					names = append(names, s)
				}
			}
			line := strings.Join(names, ", ")
			if sev := fhir.GetString(r, "severity"); sev != "" {
				line += " (" + sev + ")"
			}
			lines = append(lines, line)
		}
		w.list("Reactions", lines)
	}
	if rec.Bool("hasNote") {
		w.row("Note", fhir.FormatAnnotation(rec.Value("note")))
	}
	return w.String(), nil
}

// ---------------------------------------------------------------------------
// Immunization
// ---------------------------------------------------------------------------

func immunization(rec *normalize.Record) (string, error) {
	var w writer
	w.header(rec, rec.String("vaccineText"), rec.String("status"))
	if rec.Bool("notGiven") {
		w.row("Given", "not given")
	}
	w.row("Date", fhir.FormatDate(rec.Value("occurrence")))
	w.row("Patient", fhir.FormatReferenceDisplay(rec.Value("patient")))
	if rec.Bool("hasPerformer") {
		w.row("Performer", fhir.FormatReferenceDisplay(rec.Value("performer")))
	}
	if rec.Bool("hasLotNumber") {
		lot := rec.String("lotNumber")
		if exp := fhir.FormatDate(rec.Value("expirationDate")); exp != "" {
			lot += " (expires " + exp + ")"
		}
		w.row("Lot", lot)
	}
	if rec.Bool("hasSite") {
		w.row("Site", fhir.FormatCodeableConcept(rec.Value("site")))
	}
	if rec.Bool("hasRoute") {
		w.row("Route", fhir.FormatCodeableConcept(rec.Value("route")))
	}
	if rec.Bool("hasNote") {
		w.row("Note", fhir.FormatAnnotation(rec.Value("note")))
	}
	return w.String(), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// SentenceCase lower-cases s and upper-cases its first letter.
func SentenceCase(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func period(start, end interface{}) string {
	s, e := fhir.FormatDate(start), fhir.FormatDate(end)
	switch {
	case s != "" && e != "":
		return s + " to " + e
	case s != "":
		return "from " + s
	case e != "":
		return "until " + e
	}
	return ""
}

func codingLine(c interface{}) string {
	code := fhir.GetString(c, "code")
	display := fhir.GetString(c, "display")
	switch {
	case code != "" && display != "":
		return display + " (" + code + ")"
	case display != "":
		return display
	}
	return code
}

func references(refs []interface{}) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if s := fhir.FormatReferenceDisplay(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
