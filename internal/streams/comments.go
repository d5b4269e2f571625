// Package streams turns the store's change feeds into cancellable snapshot
// streams for live views. A stream delivers the full current state of a post's
// comments on every underlying change, tagged with a monotonic version; slow
// consumers only ever see the latest snapshot, stale ones are dropped.
package streams

import (
	"context"

	"github.com/bantaybuddy/backend/internal/models"
)

// Snapshot is one delivery of the comment stream: the ordered top-level
// comments plus the aggregate count (top-level + all replies).
type Snapshot struct {
	Version  uint64          `json:"version"`
	Comments []models.Comment `json:"comments"`
	Total    int64           `json:"total"`
}

// CommentSource is the slice of the comment repository the stream needs.
type CommentSource interface {
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
	WatchPost(ctx context.Context, postID string) (<-chan struct{}, func(), error)
}

// CommentStream is a live subscription to one post's comments.
type CommentStream struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
}

// OpenCommentStream starts a subscription for the post. The first snapshot is
// delivered immediately; Close (or ctx cancellation) unsubscribes and stops
// further delivery.
func OpenCommentStream(ctx context.Context, src CommentSource, postID string) (*CommentStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	events, stop, err := src.WatchPost(streamCtx, postID)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &CommentStream{
		snapshots: make(chan Snapshot, 1),
		cancel:    cancel,
	}

	go func() {
		defer stop()
		defer close(s.snapshots)

		var version uint64
		load := func() {
			comments, err := src.GetCommentsByPostID(streamCtx, postID)
			if err != nil {
				return // transient read failure; the next change retries
			}
			total, err := src.CountForPost(streamCtx, postID)
			if err != nil {
				return
			}
			version++
			s.push(Snapshot{Version: version, Comments: comments, Total: total})
		}

		load()
		for {
			select {
			case <-streamCtx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				load()
			}
		}
	}()

	return s, nil
}

// push delivers a snapshot, displacing an undelivered older one so the
// consumer always observes the highest version.
func (s *CommentStream) push(snap Snapshot) {
	for {
		select {
		case s.snapshots <- snap:
			return
		default:
			select {
			case <-s.snapshots: // drop stale
			default:
			}
		}
	}
}

// Snapshots returns the delivery channel. It is closed once the stream ends.
func (s *CommentStream) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Close unsubscribes and stops further delivery.
func (s *CommentStream) Close() {
	s.cancel()
}
