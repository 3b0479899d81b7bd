package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Comments posted (new comments only, not edits)
	CommentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_posted_total",
			Help: "Total number of comments posted",
		},
	)

	// Durable notification rows written by fan-out
	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notification records created",
		},
	)

	// Push deliveries that reached the push service
	PushNotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_notifications_sent_total",
			Help: "Total number of push notifications delivered",
		},
	)

	// Push deliveries that failed (including those that led to pruning)
	PushDeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_delivery_failures_total",
			Help: "Total number of failed push delivery attempts",
		},
	)

	// Subscriptions removed after a permanent endpoint failure
	PushSubscriptionsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "push_subscriptions_pruned_total",
			Help: "Total number of dead push subscriptions pruned",
		},
	)
)
