package tools

import (
	"context"
	"time"

	"github.com/kidtutor/orchestrator/internal/adapter/feeapi"
	"github.com/kidtutor/orchestrator/internal/domain"
)

// timeLayout renders the clock the way the chat UI displays it.
const timeLayout = "15:04:05"

// CourseFee returns the handler for the get_course_fee tool, backed by the
// school administration API.
func CourseFee(client *feeapi.Client) HandlerFunc {
	return func(ctx context.Context, args domain.ToolArgs) (string, error) {
		fees, err := client.FeeCategories(ctx)
		if err != nil {
			return "", err
		}
		if fees == "" {
			return "No fee data", nil
		}
		return fees, nil
	}
}

// ShowTime returns the handler for the show_time tool. It broadcasts a
// show-time event to connected clients and returns the formatted time.
func ShowTime(b Broadcaster) HandlerFunc {
	return func(ctx context.Context, args domain.ToolArgs) (string, error) {
		now := time.Now().Format(timeLayout)
		_ = b.BroadcastJSON(domain.ShowTimeEvent{
			Type: domain.EventTypeShowTime,
			Time: now,
		})
		return now, nil
	}
}
