package publisher

import (
	"context"
	"dispatch-simulation-service/internal/ports"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "simulation_progress"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPProgressPublisher publishes simulation progress to a topic exchange.
// Routing keys are simulation.<project>.<type>.
type AMQPProgressPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	closer   func() error
	exchange string
	timeout  time.Duration

	mu sync.Mutex
}

// progressMessage is the JSON body of every published message.
type progressMessage struct {
	SessionID string `json:"sessionId"`
	Project   string `json:"project"`
	ports.Progress
}

func DialAMQP(url, exchange string) (*AMQPProgressPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &AMQPProgressPublisher{
		conn:     conn,
		ch:       ch,
		closer:   ch.Close,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

func (p *AMQPProgressPublisher) Close() {
	if p.closer != nil {
		_ = p.closer()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *AMQPProgressPublisher) publish(project, sessionID string, pr ports.Progress) error {
	body, err := json.Marshal(progressMessage{SessionID: sessionID, Project: project, Progress: pr})
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, p.exchange, "simulation."+project+"."+pr.Type, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Transient,
		ContentType:   "application/json",
		CorrelationId: sessionID,
		Timestamp:     time.Now().UTC(),
		Headers: amqp.Table{
			"x-source": "dispatch-simulation-service",
		},
		Body: body,
	})
}

// ForSession returns a sink bound to one simulation session. Publish
// failures are logged and never reach the simulation loop.
func (p *AMQPProgressPublisher) ForSession(project, sessionID string) ports.ProgressSink {
	return ports.ProgressFunc(func(pr ports.Progress) {
		if err := p.publish(project, sessionID, pr); err != nil {
			log.Printf("progress publish failed: project=%s session=%s type=%s err=%v", project, sessionID, pr.Type, err)
		}
	})
}
