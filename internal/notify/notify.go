// Package notify builds reminder and alert messages and delivers them to a sink.
package notify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/zenith/internal/logger"
)

// Kind tags a message so sinks can collapse repeats.
type Kind string

const (
	KindOverspending    Kind = "overspending"
	KindDailyLimit      Kind = "daily-limit"
	KindCheatMeal       Kind = "cheat-meal"
	KindWorkoutDay      Kind = "workout-reminder"
	KindWorkoutComplete Kind = "workout-complete"
	KindProgressPhoto   Kind = "progress-photo"
)

// Message is one notification.
type Message struct {
	Kind  Kind
	Title string
	Body  string
}

// Notifier delivers messages.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// Nop drops every message.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Message) error { return nil }

// Log writes messages to the context logger.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(ctx context.Context, m Message) error {
	logger.FromContext(ctx).Info("notification", "kind", string(m.Kind), "title", m.Title, "body", m.Body)
	return nil
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (mn Multi) Notify(ctx context.Context, m Message) error {
	var errs []error
	for _, n := range mn {
		if err := n.Notify(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send delivers m and logs a failure instead of returning it.
func Send(ctx context.Context, n Notifier, m Message) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, m); err != nil {
		logger.FromContext(ctx).Warn("notification failed", "kind", string(m.Kind), "error", err)
	}
}

// Overspending reports today's spend exceeding the limit.
func Overspending(spent, limit float64) Message {
	return Message{
		Kind:  KindOverspending,
		Title: "Over Budget!",
		Body: fmt.Sprintf("You've spent ₹%s, which is ₹%.0f over your daily limit.",
			trimFloat(spent), math.Ceil(spent-limit)),
	}
}

// DailyLimit is the morning reminder of today's allowance.
func DailyLimit(limit float64) Message {
	return Message{
		Kind:  KindDailyLimit,
		Title: "Daily Limit Reminder",
		Body:  fmt.Sprintf("Your daily limit today is ₹%.0f. Stay on track!", math.Floor(limit)),
	}
}

// CheatMeal tells the user how far a cheat meal lowers the remaining limit.
func CheatMeal(perDayDrop int) Message {
	return Message{
		Kind:  KindCheatMeal,
		Title: "Cheat Meal Logged",
		Body:  fmt.Sprintf("Daily limit will drop by ₹%d for the rest of the month.", perDayDrop),
	}
}

// WorkoutDay announces today's slot.
func WorkoutDay(dayKey, title string) Message {
	name := title
	if name == "" {
		name = capitalize(dayKey)
	}
	body := fmt.Sprintf("Time to hit the gym! Today is %s.", name)
	if dayKey == "rest" {
		body = "Recovery day! Light activity and stretching recommended."
	}
	return Message{Kind: KindWorkoutDay, Title: name + "!", Body: body}
}

// WorkoutComplete congratulates after a save.
func WorkoutComplete(exerciseCount int) Message {
	plural := "s"
	if exerciseCount == 1 {
		plural = ""
	}
	return Message{
		Kind:  KindWorkoutComplete,
		Title: "Workout Complete!",
		Body:  fmt.Sprintf("Great job! You logged %d exercise%s today.", exerciseCount, plural),
	}
}

// ProgressPhoto is the weekly photo reminder.
func ProgressPhoto() Message {
	return Message{
		Kind:  KindProgressPhoto,
		Title: "Progress Photo Time!",
		Body:  "Take a weekly progress photo to track your transformation!",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%.2f", f)
}
