package services

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/fluxfeed-be/internal/store"
	"github.com/isdelr/fluxfeed-be/internal/store/storetest"
)

func newPostService() (*PostService, *storetest.PostStore, *storetest.CommentStore) {
	posts := storetest.NewPostStore()
	comments := storetest.NewCommentStore()
	events := NewEventService(storetest.NewEventStore(), nil)
	return NewPostService(posts, comments, events), posts, comments
}

func TestCreatePost(t *testing.T) {
	svc, posts, _ := newPostService()

	post, err := svc.CreatePost(context.Background(), "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("failed to create post: %s", err)
	}
	if post.Creator != "alice" {
		t.Errorf("expected creator alice, got %q", post.Creator)
	}
	if post.LikeCount() != 0 {
		t.Errorf("expected a new post to have 0 likes, got %d", post.LikeCount())
	}

	stored, err := posts.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("failed to reload post: %s", err)
	}
	if stored.Title != "Hello" {
		t.Errorf("expected persisted title Hello, got %q", stored.Title)
	}
}

// Liking the same post twice by the same user appends twice. The source
// system behaves this way; whether that is a defect is an open product
// question, so the behavior is pinned here.
func TestLikePostTwiceAppendsTwice(t *testing.T) {
	svc, posts, _ := newPostService()

	post, err := svc.CreatePost(context.Background(), "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("failed to create post: %s", err)
	}

	if _, err := svc.LikePost(context.Background(), "bob", post.ID); err != nil {
		t.Fatalf("failed to like post: %s", err)
	}
	liked, err := svc.LikePost(context.Background(), "bob", post.ID)
	if err != nil {
		t.Fatalf("failed to like post twice: %s", err)
	}
	if liked.LikeCount() != 2 {
		t.Errorf("expected like count 2 after two likes by the same user, got %d", liked.LikeCount())
	}

	stored, err := posts.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("failed to reload post: %s", err)
	}
	if stored.LikeCount() != 2 {
		t.Errorf("expected persisted like count 2, got %d", stored.LikeCount())
	}
}

func TestLikeMissingPost(t *testing.T) {
	svc, _, _ := newPostService()

	if _, err := svc.LikePost(context.Background(), "bob", "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentPost(t *testing.T) {
	svc, _, comments := newPostService()

	post, err := svc.CreatePost(context.Background(), "alice", "Hello", "First post")
	if err != nil {
		t.Fatalf("failed to create post: %s", err)
	}

	comment, err := svc.CommentPost(context.Background(), "bob", post.ID, "Nice one")
	if err != nil {
		t.Fatalf("failed to comment: %s", err)
	}
	if comment.Creator != "bob" || comment.PostID != post.ID {
		t.Errorf("unexpected comment references: %+v", comment)
	}

	list, err := comments.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("failed to list comments: %s", err)
	}
	if len(list) != 1 || list[0].Message != "Nice one" {
		t.Errorf("expected one persisted comment, got %v", list)
	}
}
