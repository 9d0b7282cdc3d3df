package nats

import (
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/api/handlers"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

type Route struct {
	Durable string
	Handler nats.MsgHandler
}

// Routes lists the consumers this service runs. Without a scanner there is
// nothing to consume.
func Routes(scanner handlers.Scanner, logger zerolog.Logger) map[string]Route {
	routes := map[string]Route{}
	if scanner != nil {
		routes[services.SubjectFileUploaded] = Route{
			Durable: "slide-service-scan",
			Handler: handlers.FileUploaded(scanner, logger),
		}
	}
	return routes
}
