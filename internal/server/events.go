package server

import (
	"context"

	"github.com/inkwell-blog/backend/internal/platform/eventbus"
	"github.com/inkwell-blog/backend/internal/platform/events"
	"github.com/inkwell-blog/backend/internal/platform/logger"
)

// registerActivityLog subscribes a structured-log handler to every domain
// topic. It is the only subscriber today; anything heavier (search indexing,
// notifications) would register here the same way.
func registerActivityLog(bus *eventbus.Bus, log logger.Logger) {
	bus.Subscribe(events.PostCreatedTopic, func(ctx context.Context, event eventbus.Event) error {
		if p, ok := event.Payload.(events.PostCreatedEvent); ok {
			log.Info(ctx, "post created", "postID", p.PostID, "actorID", p.ActorID, "slug", p.Slug)
		}
		return nil
	})

	bus.Subscribe(events.PostUpdatedTopic, func(ctx context.Context, event eventbus.Event) error {
		if p, ok := event.Payload.(events.PostUpdatedEvent); ok {
			log.Info(ctx, "post updated", "postID", p.PostID, "actorID", p.ActorID, "slug", p.Slug)
		}
		return nil
	})

	bus.Subscribe(events.PostDeletedTopic, func(ctx context.Context, event eventbus.Event) error {
		if p, ok := event.Payload.(events.PostDeletedEvent); ok {
			log.Info(ctx, "post deleted", "postID", p.PostID, "actorID", p.ActorID)
		}
		return nil
	})

	bus.Subscribe(events.CommentCreatedTopic, func(ctx context.Context, event eventbus.Event) error {
		if p, ok := event.Payload.(events.CommentCreatedEvent); ok {
			log.Info(ctx, "comment created", "commentID", p.CommentID, "postID", p.PostID, "actorID", p.ActorID)
		}
		return nil
	})

	bus.Subscribe(events.CommentDeletedTopic, func(ctx context.Context, event eventbus.Event) error {
		if p, ok := event.Payload.(events.CommentDeletedEvent); ok {
			log.Info(ctx, "comment deleted", "commentID", p.CommentID, "actorID", p.ActorID)
		}
		return nil
	})
}
