package ical

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/cyp0633/recurdates/recurrence"
)

// XCalNamespace is the RFC 6321 namespace
const XCalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

// EncodeXML writes the rules of rec as an xCal document.
func EncodeXML(w io.Writer, rec *recurrence.Recurrence, opts EncodeOptions) error {
	rules, err := Rules(rec)
	if err != nil {
		return fmt.Errorf("failed to convert recurrence to rules: %w", err)
	}
	if len(rules) == 0 {
		return ErrNothingToEncode
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", XCalNamespace)
	vcalendar := root.CreateElement("vcalendar")

	props := vcalendar.CreateElement("properties")
	addValue(props, "prodid", "text", opts.productID())
	addValue(props, "version", "text", "2.0")

	components := vcalendar.CreateElement("components")
	for _, rule := range rules {
		event := components.CreateElement("vevent").CreateElement("properties")
		addValue(event, "uid", "text", uuid.NewString())
		addValue(event, "dtstamp", "date-time", opts.now().Format("2006-01-02T15:04:05Z"))
		addValue(event, "dtstart", "date", rule.Dtstart.Format(time.DateOnly))
		if opts.Summary != "" {
			addValue(event, "summary", "text", opts.Summary)
		}
		addRecur(event.CreateElement("rrule").CreateElement("recur"), rule.ROption)
		for _, date := range rule.Exdates {
			addValue(event, "exdate", "date", date.Format(time.DateOnly))
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xCal document: %w", err)
	}
	return nil
}

func addValue(parent *etree.Element, name, valueType, value string) {
	parent.CreateElement(name).CreateElement(valueType).SetText(value)
}

// addRecur fills a recur element in the element order RFC 6321 prescribes.
func addRecur(recur *etree.Element, rule rrule.ROption) {
	recur.CreateElement("freq").SetText(rule.Freq.String())
	switch {
	case rule.Count > 0:
		recur.CreateElement("count").SetText(strconv.Itoa(rule.Count))
	case !rule.Until.IsZero():
		recur.CreateElement("until").SetText(rule.Until.Format(time.DateOnly))
	}
	if rule.Interval > 1 {
		recur.CreateElement("interval").SetText(strconv.Itoa(rule.Interval))
	}
	for _, wd := range rule.Byweekday {
		recur.CreateElement("byday").SetText(wd.String())
	}
	for _, d := range rule.Bymonthday {
		recur.CreateElement("bymonthday").SetText(strconv.Itoa(d))
	}
	if rule.Freq == rrule.WEEKLY {
		recur.CreateElement("wkst").SetText(rule.Wkst.String())
	}
}
