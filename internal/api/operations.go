package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/policy"
	"github.com/isdelr/fluxfeed-be/internal/resolve"
	"github.com/isdelr/fluxfeed-be/internal/services"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// Operations wires every named operation into a policy registry. Protected
// operations get their guard here, at registration time; their handlers
// below assume an identity is present.
type Operations struct {
	userSvc  services.UserServiceProvider
	postSvc  services.PostServiceProvider
	eventSvc services.EventServiceProvider
	resolver *resolve.Resolver
}

// NewOperations creates the operation set.
func NewOperations(userSvc services.UserServiceProvider, postSvc services.PostServiceProvider, eventSvc services.EventServiceProvider, resolver *resolve.Resolver) *Operations {
	return &Operations{userSvc: userSvc, postSvc: postSvc, eventSvc: eventSvc, resolver: resolver}
}

// Register fills the registry with every operation the API exposes.
func (o *Operations) Register(reg *policy.Registry) {
	reg.Register("register", o.register)
	reg.Register("login", o.login)

	reg.RegisterProtected("me", o.me)
	reg.RegisterProtected("profile", o.profile)
	reg.RegisterProtected("feed", o.feed)
	reg.RegisterProtected("post", o.post)
	reg.RegisterProtected("comments", o.comments)
	reg.RegisterProtected("updateAvatar", o.updateAvatar)
	reg.RegisterProtected("createPost", o.createPost)
	reg.RegisterProtected("likePost", o.likePost)
	reg.RegisterProtected("commentPost", o.commentPost)
	reg.RegisterProtected("follow", o.follow)
	reg.RegisterProtected("events", o.events)
}

// sessionPayload pairs a user projection with a freshly minted token.
type sessionPayload struct {
	User  resolve.UserView `json:"user"`
	Token string           `json:"token"`
}

func decode(args json.RawMessage, into interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing arguments", policy.ErrInvalidArgs)
	}
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("%w: %v", policy.ErrInvalidArgs, err)
	}
	return nil
}

func (o *Operations) register(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Email     string   `json:"email"`
		Password  string   `json:"password"`
		Include   []string `json:"include"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: firstName, lastName and email are required", policy.ErrInvalidArgs)
	}

	user, token, err := o.userSvc.Register(ctx, in.FirstName, in.LastName, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	view, err := o.resolver.UserView(ctx, user, resolve.NewInclude(in.Include))
	if err != nil {
		return nil, err
	}
	return sessionPayload{User: view, Token: token}, nil
}

func (o *Operations) login(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		Email    string   `json:"email"`
		Password string   `json:"password"`
		Include  []string `json:"include"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}

	user, token, err := o.userSvc.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	view, err := o.resolver.UserView(ctx, user, resolve.NewInclude(in.Include))
	if err != nil {
		return nil, err
	}
	return sessionPayload{User: view, Token: token}, nil
}

func (o *Operations) me(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return o.userView(ctx, auth.IdentityFrom(ctx), args)
}

func (o *Operations) profile(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		UserID string `json:"userId"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", policy.ErrInvalidArgs)
	}
	return o.userView(ctx, in.UserID, args)
}

// userView renders a user by ID, treating a missing user as null data
// rather than an error.
func (o *Operations) userView(ctx context.Context, userID string, args json.RawMessage) (interface{}, error) {
	var in struct {
		Include []string `json:"include"`
	}
	if len(args) > 0 {
		if err := decode(args, &in); err != nil {
			return nil, err
		}
	}

	user, err := o.userSvc.GetUserByID(ctx, userID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	view, err := o.resolver.UserView(ctx, user, resolve.NewInclude(in.Include))
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (o *Operations) feed(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		Include []string `json:"include"`
	}
	if len(args) > 0 {
		if err := decode(args, &in); err != nil {
			return nil, err
		}
	}
	return o.resolver.FeedView(ctx, auth.IdentityFrom(ctx), resolve.NewInclude(in.Include))
}

func (o *Operations) post(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		PostID  string   `json:"postId"`
		Include []string `json:"include"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.PostID == "" {
		return nil, fmt.Errorf("%w: postId is required", policy.ErrInvalidArgs)
	}

	post, err := o.postSvc.GetPostByID(ctx, in.PostID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	view, err := o.resolver.PostView(ctx, post, resolve.NewInclude(in.Include))
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (o *Operations) comments(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		PostID  string   `json:"postId"`
		Include []string `json:"include"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.PostID == "" {
		return nil, fmt.Errorf("%w: postId is required", policy.ErrInvalidArgs)
	}

	post := models.Post{ID: in.PostID}
	comments, err := o.resolver.PostComments(ctx, post)
	if err != nil {
		return nil, err
	}
	views := make([]resolve.CommentView, 0, len(comments))
	inc := resolve.NewInclude(in.Include)
	for _, comment := range comments {
		view, err := o.resolver.CommentView(ctx, comment, inc)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (o *Operations) updateAvatar(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		URL string `json:"url"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.URL == "" {
		return nil, fmt.Errorf("%w: url is required", policy.ErrInvalidArgs)
	}

	user, err := o.userSvc.UpdateAvatar(ctx, auth.IdentityFrom(ctx), in.URL)
	if err != nil {
		return nil, err
	}
	return o.resolver.UserView(ctx, user, nil)
}

func (o *Operations) createPost(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", policy.ErrInvalidArgs)
	}

	post, err := o.postSvc.CreatePost(ctx, auth.IdentityFrom(ctx), in.Title, in.Content)
	if err != nil {
		return nil, err
	}
	return o.resolver.PostView(ctx, post, nil)
}

func (o *Operations) likePost(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		PostID string `json:"postId"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.PostID == "" {
		return nil, fmt.Errorf("%w: postId is required", policy.ErrInvalidArgs)
	}

	post, err := o.postSvc.LikePost(ctx, auth.IdentityFrom(ctx), in.PostID)
	if err != nil {
		return nil, err
	}
	return o.resolver.PostView(ctx, post, nil)
}

func (o *Operations) commentPost(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		PostID  string `json:"postId"`
		Message string `json:"message"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.PostID == "" || in.Message == "" {
		return nil, fmt.Errorf("%w: postId and message are required", policy.ErrInvalidArgs)
	}

	comment, err := o.postSvc.CommentPost(ctx, auth.IdentityFrom(ctx), in.PostID, in.Message)
	if err != nil {
		return nil, err
	}
	return o.resolver.CommentView(ctx, comment, nil)
}

func (o *Operations) follow(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in struct {
		Friend  string   `json:"friend"`
		Include []string `json:"include"`
	}
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	if in.Friend == "" {
		return nil, fmt.Errorf("%w: friend is required", policy.ErrInvalidArgs)
	}

	user, err := o.userSvc.Follow(ctx, auth.IdentityFrom(ctx), in.Friend)
	if err != nil {
		return nil, err
	}
	return o.resolver.UserView(ctx, user, resolve.NewInclude(in.Include))
}

func (o *Operations) events(ctx context.Context, args json.RawMessage) (interface{}, error) {
	in := struct {
		Limit int `json:"limit"`
	}{Limit: 50}
	if len(args) > 0 {
		if err := decode(args, &in); err != nil {
			return nil, err
		}
	}
	return o.eventSvc.Recent(ctx, in.Limit)
}
