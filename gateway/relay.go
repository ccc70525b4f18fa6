package gateway

import (
	"strings"

	"github.com/nats-io/nats.go"

	"skillswap/logger"
)

const relayPrefix = "push."

const relayNodeHeader = "Skillswap-Node"

// Relay bridges push events between gateway nodes over NATS core
// subjects. Each node publishes every event it produces and delivers
// every event it receives to its own local subscribers; a node header
// keeps it from echoing its own messages. Delivery stays best-effort:
// a relay outage only costs realtime pushes, never stored data.
type Relay struct {
	nc     *nats.Conn
	nodeID string
	sub    *nats.Subscription
}

func NewRelay(url, nodeID string) (*Relay, error) {
	nc, err := nats.Connect(url,
		nats.Name("skillswap-gateway-"+nodeID),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Relay{nc: nc, nodeID: nodeID}, nil
}

// Start subscribes to the push subject space and feeds foreign events
// into deliver.
func (r *Relay) Start(deliver func(topic string, payload []byte)) error {
	sub, err := r.nc.Subscribe(relayPrefix+">", func(m *nats.Msg) {
		if m.Header.Get(relayNodeHeader) == r.nodeID {
			return
		}
		deliver(subjectToTopic(m.Subject), m.Data)
	})
	if err != nil {
		return err
	}
	r.sub = sub
	return nil
}

// Publish relays one event; failures are logged and swallowed.
func (r *Relay) Publish(topic string, payload []byte) {
	msg := nats.NewMsg(relayPrefix + topicToSubject(topic))
	msg.Header.Set(relayNodeHeader, r.nodeID)
	msg.Data = payload
	if err := r.nc.PublishMsg(msg); err != nil {
		logger.Warnf("[relay] publish %s: %v", topic, err)
	}
}

func (r *Relay) Close() {
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
	}
	r.nc.Close()
}

// Topic segments never contain dots, so the mapping between topic
// slashes and NATS subject dots is reversible.
func topicToSubject(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}

func subjectToTopic(subject string) string {
	return strings.ReplaceAll(strings.TrimPrefix(subject, relayPrefix), ".", "/")
}
