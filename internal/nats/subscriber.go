package nats

import (
	"fmt"
	"sort"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subscriber is satisfied by *services.NATSService.
type Subscriber interface {
	Subscribe(subject, durableName string, handler nats.MsgHandler) (*nats.Subscription, error)
}

// SubscribeAll loads all routes once during startup. Subjects are bound in
// sorted order so a failure always names the same route.
func SubscribeAll(s Subscriber, routes map[string]Route, logger zerolog.Logger) ([]*nats.Subscription, error) {
	subjects := make([]string, 0, len(routes))
	for subject := range routes {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	subs := make([]*nats.Subscription, 0, len(subjects))
	for _, subject := range subjects {
		route := routes[subject]
		sub, err := s.Subscribe(subject, route.Durable, route.Handler)
		if err != nil {
			for _, prev := range subs {
				_ = prev.Unsubscribe()
			}
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		logger.Debug().Str("subject", subject).Msg("route bound")
		subs = append(subs, sub)
	}
	return subs, nil
}
