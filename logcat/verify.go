package logcat

// This file contains the verification rules applied to parsed logcat
// output. The rules follow the event sequence the Appium shopping flow
// drives through the Clickstream sample app: session lifecycle events
// first, the store interactions in between, and a clean logout and app
// end at the tail.

import (
	"errors"
	"fmt"
	"strings"
)

// Verify checks the extracted events against the expected shopping
// flow. The first violated rule is returned as the error.
func Verify(res *Result) error {
	if err := verifyCounts(res); err != nil {
		return err
	}
	if err := verifyLaunchSequence(res); err != nil {
		return err
	}
	if err := verifyScreenView(res); err != nil {
		return err
	}
	if err := verifyProfileSet(res); err != nil {
		return err
	}
	if err := verifyShoppingFlow(res); err != nil {
		return err
	}
	if err := verifyEngagement(res); err != nil {
		return err
	}

	if got := res.Events[len(res.Events)-1].Name; got != "_app_end" {
		return fmt.Errorf("expected last event to be _app_end, got %s", got)
	}
	return nil
}

func verifyCounts(res *Result) error {
	submitted := 0
	for _, n := range res.SubmittedCounts {
		submitted += n
	}
	if submitted == 0 {
		return errors.New("no events were submitted")
	}
	if len(res.Events) == 0 {
		return errors.New("no events were recorded")
	}
	if submitted != len(res.Events) {
		return fmt.Errorf("submitted %d events but recorded %d", submitted, len(res.Events))
	}
	return nil
}

func verifyLaunchSequence(res *Result) error {
	launch := []string{"_first_open", "_app_start", "_session_start", "_screen_view"}
	if len(res.Events) < len(launch) {
		return fmt.Errorf("expected at least %d events, got %d", len(launch), len(res.Events))
	}
	for i, want := range launch {
		if got := res.Events[i].Name; got != want {
			return fmt.Errorf("expected event %d to be %s, got %s", i, want, got)
		}
	}
	return nil
}

func verifyScreenView(res *Result) error {
	screenViews := res.eventsContaining("_screen_view")
	if len(screenViews) == 0 {
		return errors.New("no _screen_view events recorded")
	}

	first := screenViews[0]
	if n, ok := first.attrNumber("_entrances"); !ok || n != 1 {
		return fmt.Errorf("expected first _screen_view to have _entrances 1, got %v", first.Body.Attributes["_entrances"])
	}
	for _, attr := range []string{
		"_screen_id",
		"_screen_name",
		"_screen_unique_id",
		"_session_id",
		"_session_start_timestamp",
		"_session_duration",
		"_session_number",
	} {
		if !first.hasAttr(attr) {
			return fmt.Errorf("first _screen_view is missing attribute %s", attr)
		}
	}
	return nil
}

func verifyProfileSet(res *Result) error {
	profileSets := res.eventsContaining("_profile_set")
	if len(profileSets) < 2 {
		return fmt.Errorf("expected more than one _profile_set event, got %d", len(profileSets))
	}

	// The logout at the end of the flow clears the user id
	if profileSets[len(profileSets)-1].hasUser("_user_id") {
		return errors.New("expected last _profile_set to carry no _user_id")
	}
	if !profileSets[len(profileSets)-2].hasUser("_user_id") {
		return errors.New("expected second to last _profile_set to carry _user_id")
	}
	return nil
}

func verifyShoppingFlow(res *Result) error {
	if n := len(res.eventsContaining("login")); n < 2 {
		return fmt.Errorf("expected more than one login event, got %d", n)
	}

	exposures := res.eventsContaining("product_exposure")
	if len(exposures) == 0 {
		return errors.New("no product_exposure events recorded")
	}
	if len(exposures[0].Body.Items) == 0 {
		return errors.New("expected first product_exposure to carry items")
	}
	if !exposures[0].hasAttr("item_id") {
		return errors.New("first product_exposure is missing attribute item_id")
	}

	addToCarts := res.eventsContaining("add_to_cart")
	if len(addToCarts) < 4 {
		return fmt.Errorf("expected more than three add_to_cart events, got %d", len(addToCarts))
	}
	if len(addToCarts[0].Body.Items) == 0 {
		return errors.New("expected first add_to_cart to carry items")
	}
	if !addToCarts[0].hasAttr("product_id") {
		return errors.New("first add_to_cart is missing attribute product_id")
	}

	for _, name := range []string{"view_home", "view_wishlist", "view_cart", "view_account"} {
		if n := len(res.eventsContaining(name)); n < 2 {
			return fmt.Errorf("expected more than one %s event, got %d", name, n)
		}
	}

	checkOuts := res.eventsContaining("check_out")
	if len(checkOuts) < 2 {
		return fmt.Errorf("expected more than one check_out event, got %d", len(checkOuts))
	}
	if len(checkOuts[0].Body.Items) == 0 {
		return errors.New("expected first check_out to carry items")
	}
	return nil
}

func verifyEngagement(res *Result) error {
	engagements := res.eventsContaining("_user_engagement")
	if len(engagements) == 0 {
		return errors.New("no _user_engagement events recorded")
	}

	msec, ok := engagements[0].attrNumber("_engagement_time_msec")
	if !ok {
		return errors.New("first _user_engagement is missing attribute _engagement_time_msec")
	}
	if msec <= 1000 {
		return fmt.Errorf("expected _engagement_time_msec above 1000, got %v", msec)
	}
	return nil
}

// eventsContaining returns the events whose name contains name, in
// recorded order.
func (r *Result) eventsContaining(name string) []Event {
	var out []Event
	for _, ev := range r.Events {
		if strings.Contains(ev.Name, name) {
			out = append(out, ev)
		}
	}
	return out
}

func (e Event) hasAttr(name string) bool {
	_, ok := e.Body.Attributes[name]
	return ok
}

func (e Event) hasUser(name string) bool {
	_, ok := e.Body.User[name]
	return ok
}

// attrNumber returns the numeric value of an attribute.
func (e Event) attrNumber(name string) (float64, bool) {
	v, ok := e.Body.Attributes[name]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}
