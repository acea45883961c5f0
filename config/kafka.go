package config

import (
	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2/log"
)

// ConnectToKafka builds one long-lived sync producer for attendance events.
// Returns nil when no brokers are configured; attendance publication is then
// skipped without affecting the ceremonies.
func ConnectToKafka(brokers []string) sarama.SyncProducer {
	if len(brokers) == 0 {
		log.Info("No kafka brokers configured, attendance events will not be published")
		return nil
	}
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		log.Error("Failed to create kafka producer: ", err)
		return nil
	}
	return producer
}
