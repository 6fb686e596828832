// Package calendar derives the two artifacts for a meeting: a single-event
// iCalendar document and a Google Calendar deep link. Both come from the
// same effective time window, so callers compute the window once and feed
// it to both generators.
package calendar

import (
	"bytes"
	"net/url"
	"time"

	"github.com/emersion/go-ical"

	"meeting-intake-api/internal/model"
)

const (
	googleCalendarBase = "https://calendar.google.com/calendar/render"

	// basic ("compact") iCalendar timestamp, no separators
	compactLayout = "20060102T150405"
)

// Window is the effective event window: assigned time if set, else the
// requester's preference, else the moment of generation. Always one hour
// long. The fallback is never persisted; it is recomputed per call.
// Instants come back from the store zone-less, so both artifacts render
// the window in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

func WindowFor(m *model.Meeting) Window {
	start := time.Now()
	switch {
	case m.AssignedDatetime != nil:
		start = *m.AssignedDatetime
	case m.PreferredDatetime != nil:
		start = *m.PreferredDatetime
	}
	start = start.UTC()
	return Window{Start: start, End: start.Add(time.Hour)}
}

func summary(m *model.Meeting) string {
	return "Meeting with " + m.Name
}

// ICS renders a VCALENDAR with one VEVENT covering w. Times are written
// as-is; no timezone conversion happens here.
func ICS(m *model.Meeting, w Window) (string, error) {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, m.ID)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStart, w.Start)
	ev.Props.SetDateTime(ical.PropDateTimeEnd, w.End)
	ev.Props.SetText(ical.PropSummary, summary(m))
	ev.Props.SetText(ical.PropDescription, m.Reason)
	ev.Props.SetText(ical.PropLocation, m.Organization)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//meeting-intake-api//EN")
	cal.Children = append(cal.Children, ev.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GoogleLink builds a prefilled "create event" URL for w.
func GoogleLink(m *model.Meeting, w Window) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", summary(m))
	q.Set("dates", w.Start.Format(compactLayout)+"/"+w.End.Format(compactLayout))
	q.Set("details", m.Reason)
	q.Set("location", m.Organization)
	return googleCalendarBase + "?" + q.Encode()
}
