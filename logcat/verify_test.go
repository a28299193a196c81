package logcat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type attrs = map[string]any

func ev(name string, a, user attrs, items []map[string]any) Event {
	if a == nil {
		a = attrs{}
	}
	if user == nil {
		user = attrs{}
	}
	return Event{Name: name, Body: Body{Attributes: a, User: user, Items: items}}
}

// validResult builds the event sequence a clean run of the shopping
// flow produces.
func validResult() *Result {
	items := []map[string]any{{"item_id": "p_1001", "price": 62.99, "quantity": float64(1)}}
	user := attrs{"_user_id": "312121"}

	events := []Event{
		ev("_first_open", nil, nil, nil),
		ev("_app_start", attrs{"_is_first_time": true}, nil, nil),
		ev("_session_start", nil, nil, nil),
		ev("_screen_view", attrs{
			"_entrances":               float64(1),
			"_screen_id":               "com.example.shopping.MainActivity",
			"_screen_name":             "MainActivity",
			"_screen_unique_id":        "172657801",
			"_session_id":              "shopping_1755586078127",
			"_session_start_timestamp": float64(1755586078127),
			"_session_duration":        float64(417),
			"_session_number":          float64(1),
		}, nil, nil),
		ev("_profile_set", nil, nil, nil),
		ev("view_home", nil, nil, nil),
		ev("login", nil, nil, nil),
		ev("_profile_set", nil, user, nil),
		ev("login", nil, user, nil),
		ev("view_home", nil, user, nil),
		ev("product_exposure", attrs{"item_id": "p_1001"}, user, items),
		ev("add_to_cart", attrs{"product_id": "p_1001"}, user, items),
		ev("add_to_cart", attrs{"product_id": "p_1002"}, user, nil),
		ev("add_to_cart", attrs{"product_id": "p_1003"}, user, nil),
		ev("add_to_cart", attrs{"product_id": "p_1004"}, user, nil),
		ev("view_wishlist", nil, user, nil),
		ev("view_wishlist", nil, user, nil),
		ev("view_cart", nil, user, nil),
		ev("view_cart", nil, user, nil),
		ev("check_out", nil, user, items),
		ev("check_out", nil, user, nil),
		ev("view_account", nil, user, nil),
		ev("view_account", nil, user, nil),
		ev("_user_engagement", attrs{"_engagement_time_msec": float64(1500)}, user, nil),
		ev("_profile_set", nil, nil, nil),
		ev("_app_end", nil, nil, nil),
	}

	return &Result{Events: events, SubmittedCounts: []int{20, 6}}
}

// nth returns the index of the zero based n-th event with the given
// name.
func nth(t *testing.T, res *Result, name string, n int) int {
	t.Helper()
	seen := 0
	for i, e := range res.Events {
		if e.Name == name {
			if seen == n {
				return i
			}
			seen++
		}
	}
	t.Fatalf("no event %s number %d", name, n)
	return -1
}

func TestVerify_Valid(t *testing.T) {
	require.NoError(t, Verify(validResult()))
}

func TestVerify_Violations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(t *testing.T, res *Result)
		wantErr string
	}{
		{
			name: "nothing submitted",
			mutate: func(t *testing.T, res *Result) {
				res.SubmittedCounts = nil
			},
			wantErr: "no events were submitted",
		},
		{
			name: "nothing recorded",
			mutate: func(t *testing.T, res *Result) {
				res.Events = nil
				res.SubmittedCounts = []int{3}
			},
			wantErr: "no events were recorded",
		},
		{
			name: "count mismatch",
			mutate: func(t *testing.T, res *Result) {
				res.SubmittedCounts = []int{20, 5}
			},
			wantErr: "submitted 25 events but recorded 26",
		},
		{
			name: "launch sequence out of order",
			mutate: func(t *testing.T, res *Result) {
				res.Events[1], res.Events[2] = res.Events[2], res.Events[1]
			},
			wantErr: "expected event 1 to be _app_start",
		},
		{
			name: "second entrance",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "_screen_view", 0)].Body.Attributes["_entrances"] = float64(2)
			},
			wantErr: "expected first _screen_view to have _entrances 1",
		},
		{
			name: "screen view missing session attribute",
			mutate: func(t *testing.T, res *Result) {
				delete(res.Events[nth(t, res, "_screen_view", 0)].Body.Attributes, "_session_number")
			},
			wantErr: "missing attribute _session_number",
		},
		{
			name: "single profile set",
			mutate: func(t *testing.T, res *Result) {
				i, j := nth(t, res, "_profile_set", 1), nth(t, res, "_profile_set", 2)
				res.Events[i].Name = "view_home"
				res.Events[j].Name = "view_home"
			},
			wantErr: "expected more than one _profile_set event",
		},
		{
			name: "user id not cleared on logout",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "_profile_set", 2)].Body.User["_user_id"] = "312121"
			},
			wantErr: "expected last _profile_set to carry no _user_id",
		},
		{
			name: "user id never set",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "_profile_set", 1)].Body.User = attrs{}
			},
			wantErr: "expected second to last _profile_set to carry _user_id",
		},
		{
			name: "second login missing",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "login", 1)].Name = "view_home"
			},
			wantErr: "expected more than one login event",
		},
		{
			name: "product exposure without items",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "product_exposure", 0)].Body.Items = nil
			},
			wantErr: "expected first product_exposure to carry items",
		},
		{
			name: "product exposure missing item id",
			mutate: func(t *testing.T, res *Result) {
				delete(res.Events[nth(t, res, "product_exposure", 0)].Body.Attributes, "item_id")
			},
			wantErr: "missing attribute item_id",
		},
		{
			name: "only three add to cart",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "add_to_cart", 3)].Name = "view_home"
			},
			wantErr: "expected more than three add_to_cart events, got 3",
		},
		{
			name: "add to cart without items",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "add_to_cart", 0)].Body.Items = nil
			},
			wantErr: "expected first add_to_cart to carry items",
		},
		{
			name: "single wishlist view",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "view_wishlist", 1)].Name = "view_home"
			},
			wantErr: "expected more than one view_wishlist event",
		},
		{
			name: "check out without items",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "check_out", 0)].Body.Items = nil
			},
			wantErr: "expected first check_out to carry items",
		},
		{
			name: "engagement too short",
			mutate: func(t *testing.T, res *Result) {
				res.Events[nth(t, res, "_user_engagement", 0)].Body.Attributes["_engagement_time_msec"] = float64(800)
			},
			wantErr: "expected _engagement_time_msec above 1000, got 800",
		},
		{
			name: "engagement missing duration",
			mutate: func(t *testing.T, res *Result) {
				delete(res.Events[nth(t, res, "_user_engagement", 0)].Body.Attributes, "_engagement_time_msec")
			},
			wantErr: "missing attribute _engagement_time_msec",
		},
		{
			name: "no app end",
			mutate: func(t *testing.T, res *Result) {
				res.Events[len(res.Events)-1].Name = "view_home"
			},
			wantErr: "expected last event to be _app_end",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := validResult()
			tc.mutate(t, res)
			require.ErrorContains(t, Verify(res), tc.wantErr)
		})
	}
}
