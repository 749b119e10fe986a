// Package mqtt implements the MQTT transport for deskpilot.
//
// The transport subscribes to <topic>/command. A payload is either a JSON
// object ({"command": "...", "reply_to": "...", "response_mode": "..."}) or
// the bare command text. Each response is published as JSON to the request's
// reply_to topic, or to <topic>/response when none was given.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/message"
	"github.com/nadzzz/deskpilot/internal/transport"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	queueSize      = 64
)

// Transport implements transport.Transport over MQTT.
type Transport struct {
	cfg       config.MQTTConfig
	newClient func(*paho.ClientOptions) paho.Client

	mu     sync.Mutex
	client paho.Client
}

// New creates a new MQTT transport from config.
func New(cfg config.MQTTConfig) *Transport {
	if cfg.Topic == "" {
		cfg.Topic = "deskpilot"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "deskpilot-" + uuid.NewString()[:8]
	}
	return &Transport{cfg: cfg, newClient: paho.NewClient}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "mqtt" }

// CommandTopic is where requests arrive.
func (t *Transport) CommandTopic() string { return t.cfg.Topic + "/command" }

// ResponseTopic is the default reply topic.
func (t *Transport) ResponseTopic() string { return t.cfg.Topic + "/response" }

// Listen connects to the broker, subscribes to the command topic and serves
// requests until ctx is cancelled. Commands run one at a time in arrival
// order, so a NAVIGATE is applied before the commands published after it.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	queue := make(chan paho.Message, queueSize)
	enqueue := func(_ paho.Client, m paho.Message) {
		select {
		case queue <- m:
		case <-ctx.Done():
		}
	}

	opts := paho.NewClientOptions().
		AddBroker(t.cfg.Broker).
		SetClientID(t.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	if t.cfg.Username != "" {
		opts.SetUsername(t.cfg.Username)
		opts.SetPassword(t.cfg.Password)
	}
	// Subscribing from the connect handler restores the subscription after
	// every automatic reconnect.
	opts.SetOnConnectHandler(func(c paho.Client) {
		tok := c.Subscribe(t.CommandTopic(), qos, enqueue)
		if !tok.WaitTimeout(connectTimeout) {
			slog.Error("mqtt subscribe timed out", "topic", t.CommandTopic())
			return
		}
		if err := tok.Error(); err != nil {
			slog.Error("mqtt subscribe failed", "topic", t.CommandTopic(), "error", err)
			return
		}
		slog.Info("mqtt subscribed", "topic", t.CommandTopic())
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		slog.Warn("mqtt connection lost", "error", err)
	})

	client := t.newClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out", t.cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", t.cfg.Broker, err)
	}
	t.mu.Lock()
	t.client = client
	t.mu.Unlock()

	slog.Info("mqtt transport listening", "broker", t.cfg.Broker, "topic", t.CommandTopic())

	for {
		select {
		case <-ctx.Done():
			slog.Info("mqtt transport shutting down")
			return t.Close()
		case m := <-queue:
			t.process(ctx, svc, client, m)
		}
	}
}

// inbound is the JSON payload form.
type inbound struct {
	ID           string               `json:"id"`
	Command      string               `json:"command"`
	ReplyTo      string               `json:"reply_to"`
	ResponseMode message.ResponseMode `json:"response_mode"`
}

func (t *Transport) process(ctx context.Context, svc transport.Service, client paho.Client, m paho.Message) {
	req := decode(m.Payload())
	req.Source = "mqtt"
	req.Timestamp = time.Now()

	resp := svc.Handle(ctx, req)

	topic := req.ReplyTo
	if topic == "" {
		topic = t.ResponseTopic()
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("mqtt marshalling response", "error", err)
		return
	}
	tok := client.Publish(topic, qos, false, payload)
	if !tok.WaitTimeout(publishTimeout) {
		slog.Error("mqtt publish timed out", "topic", topic, "request_id", resp.RequestID)
		return
	}
	if err := tok.Error(); err != nil {
		slog.Error("mqtt publish failed", "topic", topic, "request_id", resp.RequestID, "error", err)
	}
}

// decode accepts a JSON object or bare command text.
func decode(payload []byte) *message.Request {
	var in inbound
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(payload, &in); err == nil {
			return &message.Request{
				ID:           in.ID,
				Command:      in.Command,
				ReplyTo:      in.ReplyTo,
				ResponseMode: in.ResponseMode,
			}
		}
	}
	return &message.Request{Command: trimmed}
}

// Close disconnects from the MQTT broker.
func (t *Transport) Close() error {
	t.mu.Lock()
	client := t.client
	t.client = nil
	t.mu.Unlock()
	if client == nil {
		return nil
	}
	client.Disconnect(250)
	return nil
}
