package api

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

const scrapeQueue = "scrape"

// RabbitJobs publishes scrape jobs to the queue the scraper consumes.
type RabbitJobs struct {
	channel *amqp.Channel
}

func NewRabbitJobs(channel *amqp.Channel) (*RabbitJobs, error) {
	if _, err := channel.QueueDeclare(scrapeQueue, false, false, false, false, nil); err != nil {
		return nil, err
	}
	return &RabbitJobs{channel: channel}, nil
}

func (j *RabbitJobs) PublishScrape(ctx context.Context, days int) error {
	body, _ := json.Marshal(struct {
		Days int `json:"days"`
	}{Days: days})

	return j.channel.PublishWithContext(
		ctx,
		"",
		scrapeQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
