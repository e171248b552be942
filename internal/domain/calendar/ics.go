package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType is the attachment media type calendar clients expect for a
// published event.
const MediaType = "text/calendar; method=PUBLISH"

// timeLayout is the floating local-time format used for every date-time
// property. No UTC suffix and no TZID parameter: common calendar clients then
// show the interview at the wall-clock time it was scheduled for, instead of
// shifting it into the viewer's zone.
const timeLayout = "20060102T150405"

// foldWidth is the maximum physical line length before folding, per RFC 5545 §3.1.
const foldWidth = 75

// Details carries the denormalized interview data a calendar event is built
// from. The orchestrator hydrates it from the interview and its associations.
type Details struct {
	InterviewID      string
	CandidateName    string
	CandidateEmail   string
	JobTitle         string
	SkeletonName     string
	InterviewerName  string
	InterviewerEmail string
	AdminName        string
	AdminEmail       string
	ScheduledAt      time.Time
	DurationMinutes  int // 0 means 60
	LocationType     string
	LocationAddress  string
	Notes            string
}

// Generator builds iCalendar payloads. Now and NewUID are injectable for
// deterministic tests.
type Generator struct {
	OrgDomain string
	Now       func() time.Time
	NewUID    func() string
}

// NewGenerator creates a Generator with real clock and UUID sources.
func NewGenerator(orgDomain string) *Generator {
	return &Generator{
		OrgDomain: orgDomain,
		Now:       time.Now,
		NewUID:    func() string { return uuid.New().String() },
	}
}

// Generate produces a single VEVENT inside a VCALENDAR wrapper, method
// PUBLISH. Each call yields a fresh UID: every send is an independent
// calendar object, never an update of a prior one.
// PRE: d.ScheduledAt is set
// POST: Returns RFC 5545 text with escaped values and 75-octet folded lines
func (g *Generator) Generate(d Details) string {
	dtstamp := g.Now().Format(timeLayout)
	start := d.ScheduledAt
	minutes := d.DurationMinutes
	if minutes <= 0 {
		minutes = 60
	}
	end := start.Add(time.Duration(minutes) * time.Minute)

	uid := fmt.Sprintf("interview-%s-%s@%s", d.InterviewID, g.NewUID(), g.OrgDomain)
	summary := fmt.Sprintf("Interview: %s - %s (%s)", d.CandidateName, d.JobTitle, d.SkeletonName)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//TalentDesk//Recruiting//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	writeLine(&b, "BEGIN:VEVENT")
	writeLine(&b, "UID:"+uid)
	writeLine(&b, "DTSTAMP:"+dtstamp)
	writeLine(&b, "DTSTART:"+start.Format(timeLayout))
	writeLine(&b, "DTEND:"+end.Format(timeLayout))
	writeLine(&b, "SUMMARY:"+escapeText(summary))
	writeLine(&b, "DESCRIPTION:"+escapeText(g.description(d)))
	writeLine(&b, "LOCATION:"+escapeText(location(d)))
	writeLine(&b, fmt.Sprintf("ORGANIZER;CN=%s:MAILTO:%s", paramValue(d.AdminName), d.AdminEmail))
	writeLine(&b, attendee(d.InterviewerName, d.InterviewerEmail))
	writeLine(&b, attendee(d.CandidateName, d.CandidateEmail))
	writeLine(&b, "STATUS:CONFIRMED")
	writeLine(&b, "TRANSP:OPAQUE")
	writeLine(&b, "PRIORITY:5")
	writeLine(&b, "SEQUENCE:0")
	writeLine(&b, "CLASS:PUBLIC")
	writeLine(&b, "CREATED:"+dtstamp)
	writeLine(&b, "LAST-MODIFIED:"+dtstamp)
	writeLine(&b, "END:VEVENT")
	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// description assembles the multi-line body shown in the event detail pane.
func (g *Generator) description(d Details) string {
	lines := []string{
		"Candidate: " + d.CandidateName,
		"Position: " + d.JobTitle,
		"Interview Type: " + d.SkeletonName,
		"Interviewer: " + d.InterviewerName,
		"Assigned By: " + d.AdminName,
	}
	if d.Notes != "" {
		lines = append(lines, "Notes: "+d.Notes)
	}
	if d.LocationType == "online" {
		lines = append(lines, "Meeting Link: will be shared before the interview")
	}
	return strings.Join(lines, "\n")
}

func location(d Details) string {
	switch {
	case d.LocationType == "office" && d.LocationAddress != "":
		return d.LocationAddress
	case d.LocationType == "online":
		return "Online Meeting"
	default:
		return "To be confirmed"
	}
}

func attendee(name, email string) string {
	return fmt.Sprintf("ATTENDEE;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;RSVP=TRUE;CN=%s:MAILTO:%s",
		paramValue(name), email)
}

// paramValue renders a property parameter value per RFC 5545 §3.2: values
// containing a colon, semicolon or comma are DQUOTE-quoted rather than
// backslash-escaped (TEXT escaping applies to property values only). DQUOTE
// itself cannot appear in a parameter value and is stripped.
func paramValue(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	if strings.ContainsAny(s, ":;,") {
		return `"` + s + `"`
	}
	return s
}

// writeLine folds and terminates one content line with CRLF.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(foldLine(line))
	b.WriteString("\r\n")
}

// foldLine splits a content line longer than 75 octets into 75-octet chunks,
// each continuation prefixed with a single space.
func foldLine(line string) string {
	if len(line) <= foldWidth {
		return line
	}
	var b strings.Builder
	b.WriteString(line[:foldWidth])
	rest := line[foldWidth:]
	for len(rest) > foldWidth {
		b.WriteString("\r\n ")
		b.WriteString(rest[:foldWidth])
		rest = rest[foldWidth:]
	}
	b.WriteString("\r\n ")
	b.WriteString(rest)
	return b.String()
}

// escapeText applies RFC 5545 §3.3.11 TEXT escaping: backslash, semicolon,
// comma, and line breaks.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
