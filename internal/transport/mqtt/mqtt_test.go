package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/message"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type doneToken struct{ err error }

func (d doneToken) Wait() bool                     { return true }
func (d doneToken) WaitTimeout(time.Duration) bool { return true }
func (d doneToken) Error() error                   { return d.err }
func (d doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	paho.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

type published struct {
	topic   string
	payload []byte
}

// fakeClient records subscriptions and publishes. Methods it does not
// override panic through the nil embedded interface.
type fakeClient struct {
	paho.Client
	opts *paho.ClientOptions

	mu           sync.Mutex
	handlers     map[string]paho.MessageHandler
	disconnected bool
	published    chan published
}

func (f *fakeClient) Connect() paho.Token {
	f.opts.OnConnect(f)
	return doneToken{}
}

func (f *fakeClient) Subscribe(topic string, _ byte, h paho.MessageHandler) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = h
	return doneToken{}
}

func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload any) paho.Token {
	f.published <- published{topic: topic, payload: payload.([]byte)}
	return doneToken{}
}

func (f *fakeClient) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

func (f *fakeClient) deliver(topic, payload string) {
	f.mu.Lock()
	h := f.handlers[topic]
	f.mu.Unlock()
	h(f, fakeMessage{topic: topic, payload: []byte(payload)})
}

type echoService struct{}

func (echoService) Handle(_ context.Context, req *message.Request) *message.Response {
	return &message.Response{RequestID: req.ID, Kind: "ok", Response: "ran: " + req.Command}
}

func (echoService) Help() command.Help { return command.Examples() }

func start(t *testing.T) (*fakeClient, *Transport) {
	t.Helper()
	fc := &fakeClient{handlers: map[string]paho.MessageHandler{}, published: make(chan published, 8)}
	tr := New(config.MQTTConfig{Broker: "tcp://broker:1883", Topic: "office/desk"})
	tr.newClient = func(o *paho.ClientOptions) paho.Client {
		fc.opts = o
		return fc
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Listen(ctx, echoService{}) }()

	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.handlers["office/desk/command"] != nil
	}, time.Second, 5*time.Millisecond)

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		assert.True(t, fc.disconnected)
	})
	return fc, tr
}

func TestListenRepliesOnResponseTopic(t *testing.T) {
	fc, tr := start(t)
	assert.Equal(t, "office/desk/response", tr.ResponseTopic())

	fc.deliver("office/desk/command", "  volume up ")

	p := <-fc.published
	assert.Equal(t, "office/desk/response", p.topic)
	var resp message.Response
	require.NoError(t, json.Unmarshal(p.payload, &resp))
	assert.Equal(t, "ran: volume up", resp.Response)
}

func TestListenHonoursReplyTo(t *testing.T) {
	fc, _ := start(t)

	fc.deliver("office/desk/command", `{"id":"abc","command":"create a folder Music","reply_to":"clients/tablet"}`)

	p := <-fc.published
	assert.Equal(t, "clients/tablet", p.topic)
	var resp message.Response
	require.NoError(t, json.Unmarshal(p.payload, &resp))
	assert.Equal(t, "abc", resp.RequestID)
	assert.Equal(t, "ran: create a folder Music", resp.Response)
}

func TestListenKeepsOrder(t *testing.T) {
	fc, _ := start(t)

	for _, cmd := range []string{"one", "two", "three"} {
		fc.deliver("office/desk/command", cmd)
	}
	for _, want := range []string{"ran: one", "ran: two", "ran: three"} {
		var resp message.Response
		require.NoError(t, json.Unmarshal((<-fc.published).payload, &resp))
		assert.Equal(t, want, resp.Response)
	}
}

func TestDecode(t *testing.T) {
	req := decode([]byte(`{"command":"mute","response_mode":"text+audio"}`))
	assert.Equal(t, "mute", req.Command)
	assert.True(t, req.WantsAudio())

	req = decode([]byte(`{not json`))
	assert.Equal(t, "{not json", req.Command)
}
