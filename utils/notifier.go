package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"lms/config"
)

// NotifyEnrollmentEvent posts an enrollment lifecycle event to the configured
// webhook endpoint. Fire and forget: failures are logged, never surfaced to
// the request that triggered them.
func NotifyEnrollmentEvent(event string, userID, courseID, enrollmentID uint) {
	url := config.AppConfig.EnrollmentWebhookURL
	if url == "" {
		return
	}

	payload := map[string]interface{}{
		"id":            uuid.NewString(),
		"event":         event,
		"user_id":       userID,
		"course_id":     courseID,
		"enrollment_id": enrollmentID,
		"occurred_at":   time.Now().UTC().Format(time.RFC3339),
	}

	client := resty.New().SetTimeout(5 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		log.Printf("Failed to deliver %s webhook: %v", event, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Webhook %s rejected with status %d", event, resp.StatusCode())
	}
}
