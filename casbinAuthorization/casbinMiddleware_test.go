package casbinAuthorization

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

func newProtected(t *testing.T) http.Handler {
	e, err := NewEnforcer("../rbac_model.conf", "../policy.csv")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return CasbinMiddleware(e, logger)(ok)
}

func request(method, path string, role domain.Role) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		ctx := authorization.WithUser(context.Background(), &domain.User{Role: role}, &authorization.Claims{})
		req = req.WithContext(ctx)
	}
	return req
}

func TestCasbinMiddleware(t *testing.T) {
	handler := newProtected(t)
	id := "665f1c2e8b3e4a0012345678"

	tests := []struct {
		method string
		path   string
		role   domain.Role
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/properties", "", http.StatusOK},
		{http.MethodGet, "/api/properties/" + id, "", http.StatusOK},
		{http.MethodGet, "/api/properties/" + id + "/similar", domain.RoleUser, http.StatusOK},
		{http.MethodPost, "/api/auth/login", "", http.StatusOK},

		{http.MethodGet, "/api/bookings", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/bookings", domain.RoleUser, http.StatusOK},
		{http.MethodPut, "/api/bookings/" + id + "/confirm-seller", domain.RoleUser, http.StatusOK},
		{http.MethodPost, "/api/bookings", domain.RoleAdmin, http.StatusOK},

		{http.MethodPost, "/api/properties", domain.RoleUser, http.StatusForbidden},
		{http.MethodPost, "/api/properties", domain.RoleSeller, http.StatusOK},
		{http.MethodDelete, "/api/properties/" + id, domain.RoleSeller, http.StatusOK},
		{http.MethodPost, "/api/payments/feature/" + id, domain.RoleUser, http.StatusForbidden},
		{http.MethodPost, "/api/payments/feature/" + id, domain.RoleSeller, http.StatusOK},

		{http.MethodPut, "/api/properties/" + id + "/verify", domain.RoleSeller, http.StatusForbidden},
		{http.MethodPut, "/api/properties/" + id + "/verify", domain.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/api/users", domain.RoleSeller, http.StatusForbidden},
		{http.MethodGet, "/api/users", domain.RoleAdmin, http.StatusOK},
		{http.MethodPut, "/api/users/" + id + "/role", "", http.StatusUnauthorized},

		{http.MethodPut, "/api/notifications/read-all", domain.RoleUser, http.StatusOK},
		{http.MethodDelete, "/api/alerts/" + id, domain.RoleUser, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+string(tt.role), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, request(tt.method, tt.path, tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
