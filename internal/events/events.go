package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectCompleted is the subject analysis outcomes are published on.
const SubjectCompleted = "analyses.completed"

// Client publishes completed analyses to NATS. Optional collaborator;
// consumers (playlist builders, indexers) live outside this service.
type Client struct {
	conn *nats.Conn
}

// AnalysisEvent is the wire shape of one completed analysis.
type AnalysisEvent struct {
	FileName    string    `json:"file_name"`
	Genre       string    `json:"genre"`
	Mood        string    `json:"mood"`
	MusicalKey  string    `json:"musical_key"`
	BPM         float64   `json:"bpm"`
	BPMCategory string    `json:"bpm_category"`
	Warnings    []string  `json:"warnings"`
	ProcessedAt time.Time `json:"processed_at"`
}

func NewClient(url string) (*Client, error) {
	opts := []nats.Option{
		nats.Name("resonet-events"),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(-1),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: nc}, nil
}

func (c *Client) Close() {
	if c.conn != nil && !c.conn.IsClosed() {
		c.conn.Close()
	}
}

// PublishAnalysis fires and forgets; NATS core gives no ack.
func (c *Client) PublishAnalysis(ctx context.Context, ev AnalysisEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.conn.Publish(SubjectCompleted, b)
}
