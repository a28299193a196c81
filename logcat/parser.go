package logcat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// The Clickstream SDK logs every recorded event under the EventRecorder
// tag: a "save event" line naming the event, followed by the event JSON
// split across one log line per JSON line. Batch submissions log a
// "Submitted N events" line.
var (
	submittedPattern  = regexp.MustCompile(`Submitted (\d+) events`)
	eventStartPattern = regexp.MustCompile(`save event: (\w+) success, event json:`)
	fragmentPattern   = regexp.MustCompile(`EventRecorder:(.*)`)
)

// Event is a single event recorded by the SDK.
type Event struct {
	Name string
	Body Body
}

// Body is the decoded JSON payload of a recorded event.
type Body struct {
	Attributes map[string]any   `json:"attributes"`
	User       map[string]any   `json:"user"`
	Items      []map[string]any `json:"items"`
}

// Result holds everything extracted from one logcat file.
type Result struct {
	// Events in the order they were recorded
	Events []Event
	// Event counts from the "Submitted N events" lines, in log order
	SubmittedCounts []int
}

// Parser extracts Clickstream events from Android logcat output.
type Parser struct{}

// New creates a new parser instance
func New() *Parser {
	return &Parser{}
}

// Parse reads logcat output and collects the recorded events and
// submitted-event counts.
func (p *Parser) Parse(reader io.Reader) (*Result, error) {
	res := &Result{}

	scanner := bufio.NewScanner(reader)

	var (
		inEvent   bool
		eventName string
		eventJSON strings.Builder
	)

	for scanner.Scan() {
		line := scanner.Text()

		if m := submittedPattern.FindStringSubmatch(line); m != nil {
			count, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("invalid submitted count in %q: %w", line, err)
			}
			res.SubmittedCounts = append(res.SubmittedCounts, count)
		}

		if m := eventStartPattern.FindStringSubmatch(line); m != nil {
			eventName = m[1]
			eventJSON.Reset()
			inEvent = true
			continue
		}

		if !inEvent {
			continue
		}

		m := fragmentPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		// The event JSON is indented with four spaces behind a single
		// leading space. Anything else on the tag is unrelated output.
		segment := m[1]
		if !strings.HasPrefix(segment, " {") && !strings.HasPrefix(segment, "     ") && !strings.HasPrefix(segment, " }") {
			continue
		}
		eventJSON.WriteString(segment)

		if segment == " }" {
			var body Body
			if err := json.Unmarshal([]byte(eventJSON.String()), &body); err != nil {
				return nil, fmt.Errorf("invalid JSON for event %s: %w", eventName, err)
			}
			res.Events = append(res.Events, Event{Name: eventName, Body: body})
			inEvent = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return res, nil
}
