// Package picker lets the user choose a clip from their video library.
package picker

import (
	"context"
	"errors"
)

// Permission is the answer to a library access request.
type Permission int

const (
	Denied Permission = iota
	Granted
)

func (p Permission) String() string {
	if p == Granted {
		return "granted"
	}
	return "denied"
}

// Result is the outcome of a pick. Reference is set only when Canceled is false.
type Result struct {
	Canceled  bool
	Reference string
}

// Canceled returns the result of a dismissed picker.
func Canceled() Result {
	return Result{Canceled: true}
}

// Picked returns the result of a successful pick.
func Picked(ref string) Result {
	return Result{Reference: ref}
}

// ErrNoVideos is returned when the library holds nothing to pick.
var ErrNoVideos = errors.New("no videos found")

// Picker requests library access and lets the user choose a single video.
type Picker interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Pick(ctx context.Context) (Result, error)
}
