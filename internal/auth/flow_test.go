package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	"github.com/felixgeelhaar/backoffice/internal/events"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
)

var cred = Credential{Email: "a@b.com", Password: "pw"}

func newFlow(client *fakeClient, fx storeFixture, opts ...FlowOption) *Flow {
	return NewFlow(NewGateway(client, fx.store, platform.Endpoints{}), fx.store, opts...)
}

func TestSignIn_RememberMeScenario(t *testing.T) {
	fx := newStoreFixture()
	bus := events.NewBus()
	var published []events.Navigation
	bus.Subscribe(func(n events.Navigation) { published = append(published, n) })

	client := newFakeClient().on(adminPath, tokenFor("T1", "admin"), nil)
	result, err := newFlow(client, fx, WithBus(bus)).SignIn(context.Background(), cred, true)
	require.NoError(t, err)

	assert.Equal(t, authz.RoleAdmin, result.Role)
	assert.Equal(t, AudienceAdmin, result.Audience)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, authz.ViewDashboard, result.Next)

	_, found, _ := fx.durable.Load(session.DefaultKey)
	assert.True(t, found)
	stored := fx.store.Read()
	assert.Equal(t, "T1", stored.Token)
	assert.True(t, stored.RememberMe)

	guard := authz.NewGuard(fx.store)
	assert.Equal(t, authz.Allow, guard.Check(authz.ViewOrders).Outcome)
	assert.Equal(t, authz.RedirectToDefault, guard.Check(authz.ViewUserRoles).Outcome)

	require.Len(t, published, 1)
	assert.Equal(t, events.Navigation{View: authz.ViewDashboard, Reason: ReasonSignedIn}, published[0])
}

func TestSignIn_WrongAudienceFallsBack(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().
		on(adminPath, nil, apiErr(403, "This account is not an admin")).
		on(developerPath, tokenFor("T2", "developer"), nil)

	result, err := newFlow(client, fx).SignIn(context.Background(), cred, false)
	require.NoError(t, err)

	assert.Equal(t, authz.RoleSuperAdmin, result.Role)
	assert.Equal(t, AudienceDeveloper, result.Audience)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, []string{adminPath, developerPath}, client.calls)
	assert.Equal(t, 1, fx.records(), "only one stored record")
	assert.Equal(t, "T2", fx.store.Token())
}

func TestSignIn_NotVerifiedShortCircuits(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().
		on(adminPath, nil, apiErr(403, "Please verify your email first")).
		on(developerPath, tokenFor("T2", "developer"), nil)

	_, err := newFlow(client, fx).SignIn(context.Background(), cred, true)
	require.Error(t, err)

	assert.True(t, IsAuthError(err, ErrNotVerified))
	assert.Equal(t, []string{adminPath}, client.calls, "developer endpoint must not be called")
	assert.Zero(t, fx.records())
}

func TestSignIn_Fallbacks(t *testing.T) {
	tests := []struct {
		name      string
		primary   error
		secondary error
		wantCode  string
		wantMsg   string
	}{
		{
			name:      "invalid twice surfaces generic invalid credentials",
			primary:   apiErr(401, "Invalid credentials"),
			secondary: apiErr(404, "Developer not found"),
			wantCode:  ErrInvalidCredentials,
			wantMsg:   "invalid email or password",
		},
		{
			name:      "invalid then not verified surfaces not verified",
			primary:   apiErr(401, "Invalid credentials"),
			secondary: apiErr(403, "Email not verified"),
			wantCode:  ErrNotVerified,
		},
		{
			name:      "wrong audience then invalid surfaces the fallback error",
			primary:   apiErr(403, "Not an admin"),
			secondary: apiErr(401, "Invalid password"),
			wantCode:  ErrInvalidCredentials,
		},
		{
			name:      "transport then invalid surfaces the original error",
			primary:   apiErr(500, "database down"),
			secondary: apiErr(401, "Invalid credentials"),
			wantCode:  ErrTransportFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newStoreFixture()
			client := newFakeClient().on(adminPath, nil, tt.primary).on(developerPath, nil, tt.secondary)

			_, err := newFlow(client, fx).SignIn(context.Background(), cred, true)
			require.Error(t, err)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.wantCode, authErr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, authErr.Message)
			}
			assert.Len(t, client.calls, 2, "exactly two attempts")
			assert.Zero(t, fx.records())
		})
	}
}

func TestSignIn_ServerErrorMentioningVerificationRetries(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().
		on(adminPath, nil, apiErr(500, "Email verification service unavailable")).
		on(developerPath, tokenFor("T4", "developer"), nil)

	result, err := newFlow(client, fx).SignIn(context.Background(), cred, false)
	require.NoError(t, err)

	assert.Equal(t, AudienceDeveloper, result.Audience)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, []string{adminPath, developerPath}, client.calls)
	assert.Equal(t, "T4", fx.store.Token())
}

func TestSignIn_InvalidThenSuccess(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().
		on(adminPath, nil, apiErr(401, "Invalid credentials")).
		on(developerPath, &platform.LoginResponse{AccessToken: "T3", User: &platform.User{Role: "superadmin"}}, nil)

	result, err := newFlow(client, fx).SignIn(context.Background(), cred, true)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleSuperAdmin, result.Role)
	assert.Equal(t, 2, result.Attempts)
}

func TestSignIn_AccessDeniedClearsSession(t *testing.T) {
	fx := newStoreFixture()
	bus := events.NewBus()
	published := 0
	bus.Subscribe(func(events.Navigation) { published++ })

	client := newFakeClient().on(adminPath, tokenFor("T4", "booking"), nil)
	_, err := newFlow(client, fx, WithBus(bus)).SignIn(context.Background(), cred, true)
	require.Error(t, err)

	assert.True(t, IsAuthError(err, ErrAccessDenied))
	assert.Nil(t, fx.store.Read())
	assert.Zero(t, fx.records())
	assert.Zero(t, published)
	assert.Contains(t, UserMessage(err), "privilege level")
	assert.NotEqual(t, UserMessage(err), UserMessage(NewError(ErrInvalidCredentials, "x", nil)))
}

func TestSignIn_RequiredRole(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().on(adminPath, tokenFor("T5", "admin"), nil)

	_, err := newFlow(client, fx, WithRequiredRole(authz.RoleSuperAdmin)).SignIn(context.Background(), cred, false)
	assert.True(t, IsAuthError(err, ErrAccessDenied))
	assert.Nil(t, fx.store.Read())
}

func TestSignIn_CancelledContextDoesNotRetry(t *testing.T) {
	fx := newStoreFixture()
	client := newFakeClient().on(adminPath, nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFlow(client, fx).SignIn(ctx, cred, false)
	assert.True(t, IsAuthError(err, ErrTransportFailure))
	assert.Len(t, client.calls, 1)
}

func TestSignIn_NeverMoreThanTwoCalls(t *testing.T) {
	errs := []error{
		apiErr(400, "Bad"), apiErr(401, "x"), apiErr(403, "y"), apiErr(404, "z"),
		apiErr(500, "boom"), apiErr(403, "Email not verified"),
	}
	for _, a := range errs {
		for _, b := range errs {
			client := newFakeClient().on(adminPath, nil, a).on(developerPath, nil, b)
			_, err := newFlow(client, newStoreFixture()).SignIn(context.Background(), cred, false)
			require.Error(t, err)
			assert.LessOrEqual(t, len(client.calls), 2)
		}
	}
}

func TestRestore(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		fx := newStoreFixture()
		result := newFlow(newFakeClient(), fx).Restore(context.Background())
		assert.Equal(t, authz.ViewLogin, result.Next)
		assert.Nil(t, result.Session)
	})

	t.Run("stored admin", func(t *testing.T) {
		fx := newStoreFixture()
		fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin"}}, true)

		result := newFlow(newFakeClient(), fx).Restore(context.Background())
		assert.Equal(t, authz.ViewDashboard, result.Next)
		assert.Equal(t, authz.RoleAdmin, result.Role)
	})

	t.Run("stored user role is cleared", func(t *testing.T) {
		fx := newStoreFixture()
		fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "user"}}, true)

		result := newFlow(newFakeClient(), fx).Restore(context.Background())
		assert.Equal(t, authz.ViewLogin, result.Next)
		assert.Nil(t, fx.store.Read())
	})

	t.Run("profile refresh updates role", func(t *testing.T) {
		fx := newStoreFixture()
		fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin"}}, false)
		profiles := &fakeProfiles{user: &platform.User{Role: "superadmin", Name: "Ada"}}

		result := newFlow(newFakeClient(), fx, WithProfileFetcher(profiles)).Restore(context.Background())
		assert.Equal(t, authz.RoleSuperAdmin, result.Role)
		assert.Equal(t, "Ada", fx.store.Read().User.Name)
		scope, _ := fx.store.Scope()
		assert.Equal(t, session.ScopeEphemeral, scope)
	})

	t.Run("profile failure degrades to login", func(t *testing.T) {
		fx := newStoreFixture()
		fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin"}}, true)
		profiles := &fakeProfiles{err: &platform.TransportError{Method: "GET", URL: "http://x", Err: errors.New("refused")}}

		bus := events.NewBus()
		var got events.Navigation
		bus.Subscribe(func(n events.Navigation) { got = n })

		result := newFlow(newFakeClient(), fx, WithProfileFetcher(profiles), WithBus(bus)).Restore(context.Background())
		assert.Equal(t, authz.ViewLogin, result.Next)
		assert.Equal(t, authz.ViewLogin, got.View)
		assert.NotNil(t, fx.store.Read(), "a failed refresh does not clear the session")
	})
}

func TestLogout(t *testing.T) {
	fx := newStoreFixture()
	fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin"}}, true)
	bus := events.NewBus()
	var got events.Navigation
	bus.Subscribe(func(n events.Navigation) { got = n })

	newFlow(newFakeClient(), fx, WithBus(bus)).Logout()

	assert.Nil(t, fx.store.Read())
	assert.Equal(t, events.Navigation{View: authz.ViewLogin, Reason: ReasonSignedOut}, got)
}

func TestRefreshProfile(t *testing.T) {
	fx := newStoreFixture()
	profiles := &fakeProfiles{user: &platform.User{ID: "u-9", Name: "Grace", Email: "g@b.com"}}
	flow := newFlow(newFakeClient(), fx, WithProfileFetcher(profiles))

	_, err := flow.RefreshProfile(context.Background())
	require.Error(t, err, "no session")

	fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin"}}, true)
	user, err := flow.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
	assert.Equal(t, "admin", user.Role, "an empty role in the answer keeps the stored role")
	assert.Equal(t, "T", fx.store.Token())
}

func TestRefreshProfile_NotConfigured(t *testing.T) {
	fx := newStoreFixture()
	fx.store.Persist(session.Session{Token: "T"}, true)
	_, err := newFlow(newFakeClient(), fx).RefreshProfile(context.Background())
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	fx := newStoreFixture()
	fx.store.Persist(session.Session{Token: "T", User: &session.User{Role: "admin", Name: "Ada"}}, false)
	profiles := &fakeProfiles{user: &platform.User{ID: "u-1", Name: "Ada", Role: "admin"}}

	user, err := newFlow(newFakeClient(), fx, WithProfileFetcher(profiles)).
		UpdateProfile(context.Background(), platform.ProfileUpdate{Name: "Grace"})
	require.NoError(t, err)

	assert.Equal(t, "Grace", user.Name)
	assert.Equal(t, "Grace", profiles.updated.Name)
	assert.Equal(t, "Grace", fx.store.Read().User.Name)
	scope, _ := fx.store.Scope()
	assert.Equal(t, session.ScopeEphemeral, scope)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewError(ErrInvalidCredentials, "", nil), "invalid email or password"},
		{NewError(ErrNotVerified, "", nil), "not been verified"},
		{NewError(ErrWrongAudience, "", nil), "cannot sign in through this portal"},
		{NewError(ErrAccessDenied, "", map[string]interface{}{"role": "user"}), "role: user"},
		{Classify(&platform.TransportError{URL: "http://api.test", Err: errors.New("x")}), "http://api.test"},
	}

	for _, tt := range tests {
		assert.Contains(t, UserMessage(tt.err), tt.want)
	}
	assert.Empty(t, UserMessage(nil))
}
