package notifies

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs flowconfigs.Module
	Logs    logs.Module
}

// Notifier publishes to the configured MQTT broker, or nowhere.
// Notification failures are logged and never fail a build.
func (Module) Notifier(
	broker flowconfigs.MQTTBroker,
	topic flowconfigs.MQTTTopic,
	logger logs.Logger,
) Notifier {
	if broker == "" {
		return Nop{}
	}

	dial := sync.OnceValues(func() (*MQTT, error) {
		client, err := DialMQTT(string(broker), "arcflow-"+rand.Text())
		if err != nil {
			return nil, err
		}
		logger.Info("mqtt connected", "broker", broker)
		return NewMQTT(client, string(topic)), nil
	})

	return Func(func(ctx context.Context, event Event) error {
		mqtt, err := dial()
		if err != nil {
			logger.WarnContext(ctx, "notify", "broker", broker, "error", err)
			return nil
		}
		if err := mqtt.Notify(ctx, event); err != nil {
			logger.WarnContext(ctx, "notify", "event", event.Kind, "error", err)
			return nil
		}
		logger.DebugContext(ctx, "notify", "event", event.Kind, "project", event.ProjectID)
		return nil
	})
}
