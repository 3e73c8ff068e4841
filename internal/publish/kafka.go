// Package publish writes decoded reports to a Kafka sink topic.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"wx_decoder/internal/report"
)

// DecodedMessage is the JSON envelope published for each decode.
type DecodedMessage struct {
	Station  string           `json:"station"`
	Kind     string           `json:"kind"`
	RawText  string           `json:"raw_text"`
	Report   report.Report    `json:"report"`
	Warnings []report.Warning `json:"warnings,omitempty"`
}

// Writer produces decoded reports to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes decoded reports to the sink topic in one
// WriteMessages call. Messages are keyed by station so consumers see each
// station's reports in order.
func (w *Writer) Publish(ctx context.Context, decoded ...Decoded) error {
	if len(decoded) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(decoded))
	for i := range decoded {
		msg, err := serializeToMessage(decoded[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the underlying writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// Decoded pairs a raw report line with its decode result.
type Decoded struct {
	Raw    string
	Report report.Report
}

// serializeToMessage marshals a decoded report into a Kafka message.
func serializeToMessage(d Decoded) (kafkago.Message, error) {
	payload := DecodedMessage{
		Station:  d.Report.StationID(),
		Kind:     d.Report.Kind(),
		RawText:  d.Raw,
		Report:   d.Report,
		Warnings: report.WarningsOf(d.Report),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize decoded report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(payload.Station),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(payload.Kind)},
			{Key: "station", Value: []byte(payload.Station)},
		},
	}, nil
}
