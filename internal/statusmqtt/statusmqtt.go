// Package statusmqtt mirrors the derived on-air state to an MQTT topic for
// consumers that speak MQTT instead of Pro DJ Link. The publisher is
// optional; it only exists when a broker is configured.
package statusmqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"onairlink/internal/config"
	"onairlink/internal/logger"
)

// Status is the payload published on every on-air change.
type Status struct {
	OnAir []bool `json:"onair"`
}

// Publisher wraps one MQTT client publishing to a single topic.
type Publisher struct {
	ctx    context.Context
	log    logger.Logger
	cfg    config.MQTTConf
	client mqtt.Client
	opts   *mqtt.ClientOptions
}

// NewPublisher builds the publisher. Start must be called before PublishOnAir.
func NewPublisher(log logger.Logger, cfg config.MQTTConf) *Publisher {
	return &Publisher{
		log: log,
		cfg: cfg,
	}
}

// Start connects to the broker.
func (p *Publisher) Start(ctx context.Context) error {
	p.ctx = ctx

	p.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", p.cfg.Host, p.cfg.Port)).
		SetUsername(p.cfg.User).
		SetPassword(p.cfg.Password).
		SetOnConnectHandler(p.connectHandler).
		SetConnectionLostHandler(p.connectLostHandler).
		SetClientID(p.cfg.ClientID).
		SetOrderMatters(false).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	p.client = mqtt.NewClient(p.opts)

	token := p.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-p.ctx.Done():
		return errors.New("context canceled")
	}

	p.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", p.client.IsConnected())
	return nil
}

// Stop disconnects from the broker.
func (p *Publisher) Stop() error {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(500)
	}
	return nil
}

// PublishOnAir publishes the on-air vector. Delivery failures are logged and
// absorbed; MQTT is a mirror, never the primary output.
func (p *Publisher) PublishOnAir(onair []bool) {
	msg, err := json.Marshal(Status{OnAir: onair})
	if err != nil {
		p.log.With(logger.Fields{"module": "mqtt"}).Errorf("status marshal: %v", err)
		return
	}

	token := p.client.Publish(p.cfg.Topic, p.cfg.Qos, true, msg)
	go func() {
		select {
		case <-p.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				p.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v\n", p.cfg.Topic, token.Error())
			}
		}
	}()
}

func (p *Publisher) connectHandler(_ mqtt.Client) {
	p.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
}

func (p *Publisher) connectLostHandler(_ mqtt.Client, err error) {
	p.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v\n", err)
}
