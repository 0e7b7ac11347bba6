package auth

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
	"github.com/felixgeelhaar/backoffice/internal/events"
	"github.com/felixgeelhaar/backoffice/internal/log"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
	"github.com/felixgeelhaar/backoffice/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

// Navigation reasons published by the flow.
const (
	ReasonSignedIn  = "signed-in"
	ReasonRestored  = "restored"
	ReasonSignedOut = "signed-out"
)

// ProfileFetcher reads the signed-in account. *platform.Client implements it.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*platform.User, error)
}

// ProfileUpdater changes the signed-in account. *platform.Client implements it.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, update platform.ProfileUpdate) (*platform.User, error)
}

// Result describes a signed-in or restored session.
type Result struct {
	Session  *session.Session
	Role     authz.Role
	Audience Audience
	// Next is the view the shell should render.
	Next authz.View
	// Attempts is the number of login calls made, at most two.
	Attempts int
}

// Flow is the sign-in operation built on a Gateway.
type Flow struct {
	gateway  *Gateway
	store    SessionStore
	required authz.Role
	bus      *events.Bus
	profiles ProfileFetcher
	logger   *log.Logger
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithRequiredRole sets the least role allowed to keep a session.
// The default is authz.RoleAdmin.
func WithRequiredRole(role authz.Role) FlowOption {
	return func(f *Flow) {
		if role.Valid() {
			f.required = role
		}
	}
}

// WithBus publishes navigation intents on bus.
func WithBus(bus *events.Bus) FlowOption {
	return func(f *Flow) {
		f.bus = bus
	}
}

// WithProfileFetcher enables profile refresh on Restore and RefreshProfile.
func WithProfileFetcher(p ProfileFetcher) FlowOption {
	return func(f *Flow) {
		f.profiles = p
	}
}

// WithLogger sets the flow's logger.
func WithLogger(logger *log.Logger) FlowOption {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFlow creates a sign-in flow.
func NewFlow(gw *Gateway, store SessionStore, opts ...FlowOption) *Flow {
	f := &Flow{
		gateway:  gw,
		store:    store,
		required: authz.RoleAdmin,
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "auth.flow")
	return f
}

// RequiredRole returns the least role allowed to keep a session.
func (f *Flow) RequiredRole() authz.Role {
	return f.required
}

// fallback says what to do after the primary audience rejected a credential.
type fallback struct {
	// retry against the other audience
	retry bool
	// surface picks the terminal error when the retry failed as well
	surface func(primary, secondary *AuthError) *AuthError
}

// fallbacks is keyed by the code of the primary attempt's error.
var fallbacks = map[string]fallback{
	ErrNotVerified: {retry: false},
	ErrWrongAudience: {
		retry:   true,
		surface: func(_, secondary *AuthError) *AuthError { return secondary },
	},
	ErrInvalidCredentials: {
		retry: true,
		surface: func(primary, _ *AuthError) *AuthError {
			return WrapError(ErrInvalidCredentials, "invalid email or password", primary.Cause, nil)
		},
	},
	ErrTransportFailure: {
		retry:   true,
		surface: func(primary, _ *AuthError) *AuthError { return primary },
	},
}

// SignIn signs cred in, first against the admin audience and, depending on
// how that fails, once against the developer audience. The two calls are
// sequential and there are never more than two. A not-verified answer from
// either audience ends the sign-in with that error.
//
// A session whose role is below the required role is cleared before the
// access-denied error is returned.
func (f *Flow) SignIn(ctx context.Context, cred Credential, rememberMe bool) (_ *Result, err error) {
	result := &Result{Audience: AudienceAdmin}

	ctx, span := telemetry.StartSignInSpan(ctx)
	defer func() {
		span.SetAttributes(attribute.Int("attempts", result.Attempts))
		if err != nil {
			var code string
			if authErr, ok := err.(*AuthError); ok {
				code = authErr.Code
			}
			telemetry.RecordError(span, err, code)
		} else {
			telemetry.RecordSuccess(span,
				attribute.String("audience", string(result.Audience)),
				attribute.String("role", string(result.Role)))
		}
		span.End()
	}()

	sess, primaryErr := f.attempt(ctx, cred, result.Audience, rememberMe, result)
	if primaryErr != nil {
		rule, ok := fallbacks[primaryErr.Code]
		if !ok || !rule.retry || ctx.Err() != nil {
			return nil, primaryErr
		}

		result.Audience = result.Audience.Other()
		var secondaryErr *AuthError
		sess, secondaryErr = f.attempt(ctx, cred, result.Audience, rememberMe, result)
		if secondaryErr != nil {
			if secondaryErr.Code == ErrNotVerified {
				return nil, secondaryErr
			}
			return nil, rule.surface(primaryErr, secondaryErr)
		}
	}

	role := authz.RoleOf(sess)
	if !role.AtLeast(f.required) {
		f.store.Clear()
		f.logger.InfoContext(ctx, "sign-in refused for insufficient role", "role", string(role), "required", string(f.required))
		return nil, NewError(ErrAccessDenied, "this account does not have the privilege level required for the admin panel", map[string]interface{}{
			"role":     string(role),
			"required": string(f.required),
		})
	}

	result.Session = sess
	result.Role = role
	result.Next = authz.ProfileFor(role).Home
	f.publish(result.Next, ReasonSignedIn)
	f.logger.InfoContext(ctx, "signed in", "role", string(role), "audience", string(result.Audience), "attempts", result.Attempts)
	return result, nil
}

func (f *Flow) attempt(ctx context.Context, cred Credential, aud Audience, rememberMe bool, result *Result) (*session.Session, *AuthError) {
	result.Attempts++
	sess, err := f.gateway.Login(ctx, cred, aud, rememberMe)
	if err != nil {
		return nil, Classify(err)
	}
	return sess, nil
}

// Restore is the startup check for an existing session. It reads the store
// once and, with a profile fetcher configured, refreshes the stored user.
// It never fails: any problem yields Next = login. A stored session whose
// role is below the required role is cleared.
func (f *Flow) Restore(ctx context.Context) Result {
	toLogin := Result{Next: authz.ViewLogin}

	sess := f.store.Read()
	if !sess.Authenticated() {
		f.publish(authz.ViewLogin, ReasonRestored)
		return toLogin
	}

	if f.profiles != nil {
		if _, err := f.refresh(ctx); err != nil {
			f.logger.WarnContext(ctx, "profile refresh on restore failed", "error", err)
			f.publish(authz.ViewLogin, ReasonRestored)
			return toLogin
		}
		if sess = f.store.Read(); !sess.Authenticated() {
			f.publish(authz.ViewLogin, ReasonRestored)
			return toLogin
		}
	}

	role := authz.RoleOf(sess)
	if !role.AtLeast(f.required) {
		f.store.Clear()
		f.publish(authz.ViewLogin, ReasonRestored)
		return toLogin
	}

	next := authz.ProfileFor(role).Home
	f.publish(next, ReasonRestored)
	return Result{Session: sess, Role: role, Next: next}
}

// Logout clears the stored session. There is no server-side logout.
func (f *Flow) Logout() {
	f.store.Clear()
	f.publish(authz.ViewLogin, ReasonSignedOut)
}

// RefreshProfile fetches the account and writes it into the scope the
// session currently occupies.
func (f *Flow) RefreshProfile(ctx context.Context) (*session.User, error) {
	if f.profiles == nil {
		return nil, fmt.Errorf("profile refresh is not configured")
	}
	if !f.store.Read().Authenticated() {
		return nil, boerrors.NewNotLoggedInError()
	}
	return f.refresh(ctx)
}

// UpdateProfile sends update to the API and stores the account it returns.
func (f *Flow) UpdateProfile(ctx context.Context, update platform.ProfileUpdate) (*session.User, error) {
	updater, ok := f.profiles.(ProfileUpdater)
	if !ok {
		return nil, fmt.Errorf("profile updates are not configured")
	}
	if !f.store.Read().Authenticated() {
		return nil, boerrors.NewNotLoggedInError()
	}

	user, err := updater.UpdateProfile(ctx, update)
	if err != nil {
		return nil, boerrors.NewProfileRefreshError(Classify(err))
	}
	return f.storeUser(user)
}

func (f *Flow) refresh(ctx context.Context) (*session.User, error) {
	user, err := f.profiles.Profile(ctx)
	if err != nil {
		return nil, boerrors.NewProfileRefreshError(Classify(err))
	}
	return f.storeUser(user)
}

// storeUser merges fresh into the stored user. Empty fields keep the stored
// value so a partial API answer cannot erase the role.
func (f *Flow) storeUser(fresh *platform.User) (*session.User, error) {
	if fresh == nil {
		return nil, boerrors.NewProfileRefreshError(fmt.Errorf("empty profile response"))
	}

	var updated session.User
	ok := f.store.UpdateUser(func(u *session.User) {
		if fresh.ID != "" {
			u.ID = string(fresh.ID)
		}
		if fresh.Email != "" {
			u.Email = fresh.Email
		}
		if fresh.Name != "" {
			u.Name = fresh.Name
		}
		if fresh.Role != "" {
			u.Role = fresh.Role
		}
		updated = *u
	})
	if !ok {
		return nil, boerrors.NewNotLoggedInError()
	}
	return &updated, nil
}

func (f *Flow) publish(v authz.View, reason string) {
	if f.bus == nil {
		return
	}
	f.bus.Publish(events.Navigation{View: v, Reason: reason})
}
