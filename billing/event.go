package billing

import "encoding/json"

// EventCheckoutCompleted is the only event kind that drives a report state
// change; every other kind is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is the inbound billing webhook payload. Data.Object carries the
// checkout session, whose metadata holds the correlating report id.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a raw webhook body
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ReportID returns the correlation id embedded in the event metadata, or ""
func (e *Event) ReportID() string {
	return e.Data.Object.Metadata["reportId"]
}
