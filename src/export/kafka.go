package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tomzx/drone-stats/src/report"
)

// BuildRecord is the message produced for each report row.
// Key: {repository}/{build_number}
type BuildRecord struct {
	Repository  string           `json:"repository"`
	BuildNumber int              `json:"build_number"`
	Branch      string           `json:"branch"`
	Steps       map[string]int64 `json:"steps"`
}

// KafkaSink produces one JSON record per report row to a Kafka-compatible
// broker using franz-go.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink creates a Kafka sink.
// brokers is a slice of broker addresses (e.g., ["localhost:19092"]).
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	return &KafkaSink{
		client: client,
		topic:  topic,
	}, nil
}

// Name implements Sink.
func (s *KafkaSink) Name() string {
	return "kafka"
}

// Write implements Sink. Records are produced synchronously, in row order.
func (s *KafkaSink) Write(ctx context.Context, repository string, table *report.Table) error {
	for _, row := range table.Rows() {
		steps := make(map[string]int64, len(row.Steps))
		for _, step := range row.Steps {
			steps[step.Name] = step.Seconds
		}

		value, err := json.Marshal(BuildRecord{
			Repository:  repository,
			BuildNumber: row.BuildNumber,
			Branch:      row.Branch,
			Steps:       steps,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal build %d: %w", row.BuildNumber, err)
		}

		record := &kgo.Record{
			Topic: s.topic,
			Key:   []byte(fmt.Sprintf("%s/%d", repository, row.BuildNumber)),
			Value: value,
		}

		results := s.client.ProduceSync(ctx, record)
		if err := results.FirstErr(); err != nil {
			return fmt.Errorf("failed to produce build %d: %w", row.BuildNumber, err)
		}
	}
	return nil
}

// Close implements Sink.
func (s *KafkaSink) Close() error {
	s.client.Close()
	return nil
}
