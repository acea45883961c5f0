package services

import (
	"encoding/json"

	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"

	"github.com/IBM/sarama"
)

type IAttendancePublisher interface {
	PublishAttendanceEvent(event *request.AttendanceRecordedEvent) error
}

type AttendancePublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewAttendancePublisher wraps a shared producer. A nil producer yields a
// publisher that drops events, so payroll streaming stays optional per
// deployment.
func NewAttendancePublisher(producer sarama.SyncProducer, topic string) IAttendancePublisher {
	return &AttendancePublisher{producer: producer, topic: topic}
}

func (p *AttendancePublisher) PublishAttendanceEvent(event *request.AttendanceRecordedEvent) error {
	if p.producer == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.WorkerID),
		Value: sarama.StringEncoder(data),
	}
	_, _, err = p.producer.SendMessage(msg)
	return err
}
