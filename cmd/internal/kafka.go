package internal

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/sanLimbu/taskplanner-api/internal"
	envvar "github.com/sanLimbu/taskplanner-api/internal/envar"
)

// KafkaProducer holds the producer plus the topic task events get published
// to.
type KafkaProducer struct {
	Producer *kafka.Producer
	Topic    string
}

// KafkaConsumer is a consumer already subscribed to the task events topic.
type KafkaConsumer struct {
	Consumer *kafka.Consumer
}

// NewKafkaProducer instantiates the Kafka producer using configuration defined in environment variables.
func NewKafkaProducer(conf *envvar.Configuration) (*KafkaProducer, error) {
	config, topic, err := newKafkaConfig(conf)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "newKafkaConfig")
	}

	producer, err := kafka.NewProducer(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "kafka.NewProducer")
	}

	return &KafkaProducer{
		Producer: producer,
		Topic:    topic,
	}, nil
}

// NewKafkaConsumer instantiates the Kafka consumer using configuration defined in environment variables.
func NewKafkaConsumer(conf *envvar.Configuration, groupID string) (*KafkaConsumer, error) {
	config, topic, err := newKafkaConfig(conf)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "newKafkaConfig")
	}

	config.SetKey("group.id", groupID)
	config.SetKey("auto.offset.reset", "earliest")
	config.SetKey("enable.auto.commit", false)

	consumer, err := kafka.NewConsumer(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "kafka.NewConsumer")
	}

	if err := consumer.Subscribe(topic, nil); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "consumer.Subscribe")
	}

	return &KafkaConsumer{
		Consumer: consumer,
	}, nil
}

func newKafkaConfig(conf *envvar.Configuration) (*kafka.ConfigMap, string, error) {
	host, err := conf.Get("KAFKA_HOST")
	if err != nil {
		return nil, "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get KAFKA_HOST")
	}

	port, err := conf.Get("KAFKA_PORT")
	if err != nil {
		return nil, "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get KAFKA_PORT")
	}

	topic, err := conf.Get("KAFKA_TOPIC")
	if err != nil {
		return nil, "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get KAFKA_TOPIC")
	}

	config := kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", host, port),
	}

	return &config, topic, nil
}
