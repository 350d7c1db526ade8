// Package resolve computes entity relationships on demand. Each resolver is
// an independent function over (entity, stores): the request decides which
// relations to materialize, so nothing here eagerly joins data nobody asked
// for, and a dangling reference yields an empty result instead of failing
// sibling fields.
package resolve

import (
	"context"
	"errors"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// Resolver resolves entity relationships against the stores.
type Resolver struct {
	users    store.UserStore
	posts    store.PostStore
	comments store.CommentStore
}

// New creates a Resolver.
func New(users store.UserStore, posts store.PostStore, comments store.CommentStore) *Resolver {
	return &Resolver{users: users, posts: posts, comments: comments}
}

// Friends returns the users referenced by user.Friends with a single
// batched lookup. Each distinct friend appears once; IDs that no longer
// resolve are skipped.
func (r *Resolver) Friends(ctx context.Context, user models.User) ([]models.User, error) {
	return r.users.ListByIDs(ctx, user.Friends)
}

// Posts returns all posts created by the user.
func (r *Resolver) Posts(ctx context.Context, user models.User) ([]models.Post, error) {
	return r.posts.ListByCreator(ctx, user.ID)
}

// PostCreator returns the post's creator, or nil if that user no longer
// exists.
func (r *Resolver) PostCreator(ctx context.Context, post models.Post) (*models.User, error) {
	return r.lookupUser(ctx, post.Creator)
}

// PostComments returns all comments attached to the post.
func (r *Resolver) PostComments(ctx context.Context, post models.Post) ([]models.Comment, error) {
	return r.comments.ListByPost(ctx, post.ID)
}

// CommentCreator returns the comment's creator, or nil if that user no
// longer exists.
func (r *Resolver) CommentCreator(ctx context.Context, comment models.Comment) (*models.User, error) {
	return r.lookupUser(ctx, comment.Creator)
}

// Feed returns the posts visible to the caller: everything created by their
// friends or by themselves, ordered by creation time ascending. The user
// fetch must complete before the post query since it supplies the friend
// set.
func (r *Resolver) Feed(ctx context.Context, callerID string) ([]models.Post, error) {
	user, err := r.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	creators := append(append([]string{}, user.Friends...), callerID)
	return r.posts.ListByCreators(ctx, creators)
}

func (r *Resolver) lookupUser(ctx context.Context, id string) (*models.User, error) {
	user, err := r.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
