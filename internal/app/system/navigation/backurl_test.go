package navigation

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		form   url.Values
		opts   BackURLOptions
		want   string
	}{
		{name: "query return", target: "/users/3/status?return=%2Fusers%3Fpage%3D2", opts: UsersBackURL, want: "/users?page=2"},
		{name: "form return", target: "/users/3/status", form: url.Values{"return": {"/users/3"}}, opts: UsersBackURL, want: "/users/3"},
		{name: "status query value is fine", target: "/x?return=%2Fusers%3Fstatus%3Dbanned", opts: UsersBackURL, want: "/users?status=banned"},
		{name: "external url", target: "/x?return=https%3A%2F%2Fevil.example%2F", opts: UsersBackURL, want: "/users"},
		{name: "other section", target: "/x?return=%2Fstartups", opts: UsersBackURL, want: "/users"},
		{name: "prefix lookalike", target: "/x?return=%2Fusersettings", opts: UsersBackURL, want: "/users"},
		{name: "excluded action", target: "/x?return=%2Fstartups%2F4%2Fstatus", opts: StartupsBackURL, want: "/startups"},
		{name: "custom fallback", target: "/x", opts: StartupsBackURL.WithFallback("/startups/4"), want: "/startups/4"},
		{name: "no prefix allows any local", target: "/x?return=%2Fdashboard", opts: BackURLOptions{Fallback: "/"}, want: "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			method := "GET"
			if tt.form != nil {
				method = "POST"
				body = strings.NewReader(tt.form.Encode())
			} else {
				body = strings.NewReader("")
			}
			r := httptest.NewRequest(method, tt.target, body)
			if tt.form != nil {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if got := SafeBackURL(r, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithFallback_DoesNotMutatePreset(t *testing.T) {
	_ = UsersBackURL.WithFallback("/users/9")
	if UsersBackURL.Fallback != "/users" {
		t.Errorf("preset fallback changed to %q", UsersBackURL.Fallback)
	}
}
