package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"device-lending-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Dispatcher receives asset ids that just became available again.
type Dispatcher interface {
	Dispatch(assetID string) bool
}

// Payload is the JSON body delivered to the browser's service worker.
type Payload struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	AssetID string `json:"assetId"`
}

// WorkerPool tells subscribers when a device they watch is checked in.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*16),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case assetID := <-wp.jobs:
			wp.notifyAvailable(ctx, assetID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an asset without blocking the caller. It reports false
// when the queue is full and the notification was dropped.
func (wp *WorkerPool) Dispatch(assetID string) bool {
	select {
	case wp.jobs <- assetID:
		return true
	default:
		log.Printf("Notification queue full, dropping availability notice for %s", assetID)
		return false
	}
}

// notifyAvailable pushes an availability notice to every subscriber of the asset.
func (wp *WorkerPool) notifyAvailable(ctx context.Context, assetID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_device_mapping sdm ON sdm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sdm.device_asset_id = ?", assetID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for asset %s: %v", assetID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d availability notifications for asset %s", len(subscriptions), assetID)

	body := fmt.Sprintf("%s is available again", assetID)
	var device model.Device
	if err := wp.db.WithContext(ctx).
		Select("manufacturer", "location").
		Where("asset_id = ?", assetID).
		Take(&device).Error; err != nil {
		log.Printf("Error fetching device %s: %v", assetID, err)
	} else if device.Location != "" {
		body = fmt.Sprintf("%s is available again at %s", assetID, device.Location)
	}

	payload, err := json.Marshal(Payload{Title: "Device available", Body: body, AssetID: assetID})
	if err != nil {
		log.Printf("Error encoding notification for asset %s: %v", assetID, err)
		return
	}
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// The push service no longer knows this subscription.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Select("Devices").Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
