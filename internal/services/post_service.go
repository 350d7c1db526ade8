package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// PostServiceProvider defines the interface for post and comment services.
type PostServiceProvider interface {
	GetPostByID(ctx context.Context, id string) (models.Post, error)
	CreatePost(ctx context.Context, creatorID, title, content string) (models.Post, error)
	LikePost(ctx context.Context, userID, postID string) (models.Post, error)
	CommentPost(ctx context.Context, creatorID, postID, message string) (models.Comment, error)
}

// PostService provides business logic for posts and comments.
type PostService struct {
	posts    store.PostStore
	comments store.CommentStore
	events   EventServiceProvider
}

// NewPostService creates a new PostService.
func NewPostService(posts store.PostStore, comments store.CommentStore, events EventServiceProvider) *PostService {
	return &PostService{posts: posts, comments: comments, events: events}
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id string) (models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// CreatePost publishes a new post owned by creatorID.
func (s *PostService) CreatePost(ctx context.Context, creatorID, title, content string) (models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Creator:   creatorID,
		Likes:     []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return models.Post{}, err
	}

	s.events.Record(ctx, "post.created", "New post: "+post.Title, &creatorID)
	return post, nil
}

// LikePost appends userID to the post's likes and returns the updated post.
// Liking twice appends twice; there is no dedup. Fails with
// store.ErrNotFound if the post does not exist.
func (s *PostService) LikePost(ctx context.Context, userID, postID string) (models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	post.Likes = append(post.Likes, userID)
	if err := s.posts.Save(ctx, post); err != nil {
		return models.Post{}, err
	}

	s.events.Record(ctx, "post.liked", "Post liked: "+post.Title, &userID)
	return post, nil
}

// CommentPost attaches a new comment to postID. The post is not checked
// for existence; a comment on a missing post simply never shows up in any
// resolved view.
func (s *PostService) CommentPost(ctx context.Context, creatorID, postID, message string) (models.Comment, error) {
	comment := models.Comment{
		ID:        uuid.New().String(),
		Message:   message,
		PostID:    postID,
		Creator:   creatorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return models.Comment{}, err
	}

	s.events.Record(ctx, "comment.created", "New comment on a post", &creatorID)
	return comment, nil
}
