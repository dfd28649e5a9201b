package container

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/analytics"
	analyticsstore "github.com/hmendes/linkly/internal/analytics/store"
	"github.com/hmendes/linkly/internal/messaging"
	"github.com/hmendes/linkly/internal/shortener"
)

// MessagingPackage registers the event transport. Redis streams when Redis
// is configured, watermill's in-process channel pub/sub otherwise, so the
// detached click increment works against both persistence backends.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			messaging.NewZapLoggerAdapter(logger),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Publisher, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisAddr == "" {
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		}

		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			messaging.NewZapLoggerAdapter(logger),
		)
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisAddr == "" {
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		}

		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: opts.ConsumerGroup,
			},
			messaging.NewZapLoggerAdapter(logger),
		)
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher := do.MustInvoke[message.Publisher](i)

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// PublishersPackage registers the typed publish functions used by handlers.
func PublishersPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkVisitedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkVisitedEvent](group.Publisher(), analytics.TopicLinkVisited), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkDeletedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkDeletedEvent](group.Publisher(), analytics.TopicLinkDeleted), nil
	})
}

// ClickConsumerPackage registers the in-process consumer that applies
// click increments from visited events.
func ClickConsumerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.Consumer[analytics.LinkVisitedEvent], error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		repo := do.MustInvoke[shortener.Repository](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return messaging.NewConsumer(
			subscriber,
			analytics.TopicLinkVisited,
			analytics.NewClickHandler(repo, logger),
			logger,
		), nil
	})
}

// AnalyticsPackage registers the analytics event store and the consumer
// group used by the standalone consumer process.
func AnalyticsPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.RedisAddr == "" {
			return analyticsstore.NewNoop(logger), nil
		}

		client := do.MustInvoke[*redis.Client](i)

		return analyticsstore.NewRedis(client), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		eventStore := do.MustInvoke[analytics.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, eventStore.SaveLinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkVisited, eventStore.SaveLinkVisited, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkDeleted, eventStore.SaveLinkDeleted, logger))

		return group, nil
	})
}
