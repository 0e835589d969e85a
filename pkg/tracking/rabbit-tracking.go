package tracking

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitTracking struct {
	country    string
	connection *amqp.Connection
}

const trackingPrefix = "global"

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		connection: nil,
		country:    country,
	}
	err := ret.connect(url)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, trackingPrefix, messaging.TrackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.SendChange(t.connection, trackingPrefix, messaging.TrackingTopic, data)
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	if err := rt.send(NewSessionEvent(sessionId, rt.country, r)); err != nil {
		logging.Log.Warnf("Error sending session event: %v", err)
	}
}

func (rt *RabbitTracking) TrackSearch(sessionId string, search Search, r *http.Request) {
	if err := rt.send(NewSearchEvent(sessionId, rt.country, search, r)); err != nil {
		logging.Log.Warnf("Error sending search event: %v", err)
	}
}
