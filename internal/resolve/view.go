package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"golang.org/x/sync/errgroup"
)

// Include names the repository-backed relations a caller asked for. Nested
// relations use dotted paths ("comments.creator"). Pure derived fields
// (displayName, avatar, likes) cost nothing and are always rendered.
type Include map[string]bool

// NewInclude builds an Include from the relation names of a request.
func NewInclude(names []string) Include {
	inc := make(Include, len(names))
	for _, name := range names {
		inc[name] = true
	}
	return inc
}

// Has reports whether the relation was requested.
func (inc Include) Has(name string) bool {
	return inc[name]
}

// Sub projects the nested relations under prefix, so "comments.creator"
// becomes "creator" for the comment views.
func (inc Include) Sub(prefix string) Include {
	sub := make(Include)
	for name := range inc {
		if rest, ok := strings.CutPrefix(name, prefix+"."); ok {
			sub[rest] = true
		}
	}
	return sub
}

// Avatar wraps a stored avatar URL in a structured value.
type Avatar struct {
	URL *string `json:"url"`
}

// UserView is the outward projection of a User. The password hash is never
// part of it.
type UserView struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName"`
	Avatar      Avatar     `json:"avatar"`
	Email       string     `json:"email"`
	Friends     []UserView `json:"friends,omitempty"`
	Posts       []PostView `json:"posts,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PostView is the outward projection of a Post. Likes is the like count,
// counting repeats.
type PostView struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Likes     int           `json:"likes"`
	Creator   *UserView     `json:"creator,omitempty"`
	Comments  []CommentView `json:"comments,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CommentView is the outward projection of a Comment.
type CommentView struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Creator   *UserView `json:"creator,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserView renders a user, resolving the requested relations. Friends and
// posts are independent branches and resolve concurrently when both were
// asked for.
func (r *Resolver) UserView(ctx context.Context, user models.User, inc Include) (UserView, error) {
	view := baseUserView(user)

	g, gctx := errgroup.WithContext(ctx)
	if inc.Has("friends") {
		g.Go(func() error {
			friends, err := r.Friends(gctx, user)
			if err != nil {
				return err
			}
			view.Friends = make([]UserView, 0, len(friends))
			for _, friend := range friends {
				view.Friends = append(view.Friends, baseUserView(friend))
			}
			return nil
		})
	}
	if inc.Has("posts") {
		sub := inc.Sub("posts")
		g.Go(func() error {
			posts, err := r.Posts(gctx, user)
			if err != nil {
				return err
			}
			views, err := r.postViews(gctx, posts, sub)
			if err != nil {
				return err
			}
			view.Posts = views
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return UserView{}, err
	}
	return view, nil
}

// PostView renders a post, resolving the requested relations. Creator and
// comments are independent branches and resolve concurrently.
func (r *Resolver) PostView(ctx context.Context, post models.Post, inc Include) (PostView, error) {
	view := PostView{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Likes:     post.LikeCount(),
		CreatedAt: post.CreatedAt,
	}

	g, gctx := errgroup.WithContext(ctx)
	if inc.Has("creator") {
		g.Go(func() error {
			creator, err := r.PostCreator(gctx, post)
			if err != nil {
				return err
			}
			if creator != nil {
				cv := baseUserView(*creator)
				view.Creator = &cv
			}
			return nil
		})
	}
	if inc.Has("comments") {
		sub := inc.Sub("comments")
		g.Go(func() error {
			comments, err := r.PostComments(gctx, post)
			if err != nil {
				return err
			}
			views, err := r.commentViews(gctx, comments, sub)
			if err != nil {
				return err
			}
			view.Comments = views
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PostView{}, err
	}
	return view, nil
}

// CommentView renders a comment, resolving its creator if requested.
func (r *Resolver) CommentView(ctx context.Context, comment models.Comment, inc Include) (CommentView, error) {
	view := CommentView{
		ID:        comment.ID,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
	if inc.Has("creator") {
		creator, err := r.CommentCreator(ctx, comment)
		if err != nil {
			return CommentView{}, err
		}
		if creator != nil {
			cv := baseUserView(*creator)
			view.Creator = &cv
		}
	}
	return view, nil
}

// FeedView renders the caller's feed with the requested post relations.
func (r *Resolver) FeedView(ctx context.Context, callerID string, inc Include) ([]PostView, error) {
	posts, err := r.Feed(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return r.postViews(ctx, posts, inc)
}

func (r *Resolver) postViews(ctx context.Context, posts []models.Post, inc Include) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		view, err := r.PostView(ctx, post, inc)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *Resolver) commentViews(ctx context.Context, comments []models.Comment, inc Include) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		view, err := r.CommentView(ctx, comment, inc)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func baseUserView(user models.User) UserView {
	return UserView{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName(),
		Avatar:      Avatar{URL: user.AvatarURL},
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
	}
}
