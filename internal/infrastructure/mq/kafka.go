package mq

import (
	"fmt"

	"pacificpro/internal/config"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

// Producer membungkus sarama.SyncProducer untuk pengiriman pesan
// sinkronisasi ke pusat.
type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer(cfg *config.KafkaConfig) (*Producer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Idempotent = true
	saramaCfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat kafka producer: %w", err)
	}

	log.Info().Strs("brokers", cfg.Brokers).Msg("kafka producer siap")
	return &Producer{producer: producer}, nil
}

// Send mengirim satu pesan dan menunggu ack dari broker.
func (p *Producer) Send(topic, key string, payload []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("gagal kirim pesan ke topic %s: %w", topic, err)
	}

	log.Debug().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("pesan sinkronisasi terkirim")
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
