package queue

import (
    "encoding/json"
    "log"

    "github.com/streadway/amqp"
)

// AMQPQueue is the RabbitMQ-backed Queue used between cmd/server and
// cmd/worker. Queues are durable; consumers ack manually and requeue
// failed jobs up to maxRetries via the x-retry-count header.
type AMQPQueue struct {
    conn       *amqp.Connection
    ch         *amqp.Channel
    maxRetries int
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, err
    }

    ch, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, err
    }

    return &AMQPQueue{conn: conn, ch: ch, maxRetries: 3}, nil
}

func (q *AMQPQueue) Close() {
    q.ch.Close()
    q.conn.Close()
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
    return q.ch.QueueDeclare(
        topic,
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        nil,   // arguments
    )
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
    declared, err := q.declare(topic)
    if err != nil {
        return err
    }

    body, err := json.Marshal(payload)
    if err != nil {
        return err
    }

    return q.ch.Publish(
        "",
        declared.Name,
        false,
        false,
        amqp.Publishing{
            ContentType: "application/json",
            Body:        body,
        },
    )
}

func (q *AMQPQueue) Subscribe(topic string, handler func(body []byte) error) error {
    declared, err := q.declare(topic)
    if err != nil {
        return err
    }

    msgs, err := q.ch.Consume(
        declared.Name,
        "",
        false, // autoAck = false for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        return err
    }

    go func() {
        for d := range msgs {
            if err := handler(d.Body); err != nil {
                log.Println("Failed to process job:", err)
                retries := retryCount(d.Headers)
                if int(retries) < q.maxRetries {
                    // Nack would redeliver with the original headers and the
                    // count would never advance, so republish with the header
                    // bumped and ack the original.
                    if pubErr := q.republish(declared.Name, d.Body, retries+1); pubErr != nil {
                        log.Println("Failed to requeue job:", pubErr)
                        d.Nack(false, true)
                        continue
                    }
                } else {
                    log.Printf("Job permanently failed after %d attempts: %s\n", q.maxRetries, d.Body)
                }
            }
            d.Ack(false)
        }
    }()

    return nil
}

func (q *AMQPQueue) republish(queueName string, body []byte, retries int32) error {
    return q.ch.Publish(
        "",
        queueName,
        false,
        false,
        amqp.Publishing{
            ContentType: "application/json",
            Headers:     amqp.Table{"x-retry-count": retries},
            Body:        body,
        },
    )
}

// retryCount reads the x-retry-count header. Brokers may hand the number
// back wider than it was published; absent or mistyped counts as zero.
func retryCount(headers amqp.Table) int32 {
    switch v := headers["x-retry-count"].(type) {
    case int32:
        return v
    case int64:
        return int32(v)
    case int:
        return int32(v)
    }
    return 0
}

var _ Queue = (*AMQPQueue)(nil)
