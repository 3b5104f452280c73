package optimistic_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/optimistic"
)

type item struct {
	ID    string
	Name  string
	Tags  []string
	Score int
}

var messages = optimistic.Messages{
	Fetch:  "Failed to fetch items",
	Create: "Failed to create item",
	Update: "Failed to update item",
	Delete: "Failed to delete item",
}

func newContainer() *optimistic.Container[item] {
	return optimistic.New(optimistic.Options[item]{
		IDOf:     func(i item) string { return i.ID },
		IsTemp:   func(id string) bool { return strings.HasPrefix(id, "temp-") },
		Messages: messages,
	})
}

func seeded(items ...item) *optimistic.Container[item] {
	c := newContainer()
	c.BeginFetch()
	c.ConfirmFetch(items)
	return c
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestFetchReplacesAndFailureKeepsItems(t *testing.T) {
	t.Parallel()
	c := newContainer()
	c.BeginFetch()
	if !c.State().Loading {
		t.Fatalf("fetch should set loading")
	}
	c.ConfirmFetch([]item{{ID: "b"}, {ID: "a"}})
	if got := ids(c.State().Items); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("server order not preserved: %v", got)
	}

	c.BeginFetch()
	c.FailFetch(errors.New(""))
	state := c.State()
	if state.Loading || len(state.Items) != 2 || state.Error != messages.Fetch {
		t.Fatalf("unexpected state after failed refresh %+v", state)
	}
}

func TestCreateConfirmReplacesPlaceholderInPlace(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	tok := c.BeginCreate(&item{ID: "temp-x", Name: "new"})
	if got := ids(c.State().Items); !reflect.DeepEqual(got, []string{"temp-x", "1"}) {
		t.Fatalf("placeholder should be prepended: %v", got)
	}
	if !c.State().Creating {
		t.Fatalf("creating flag should be set")
	}
	if outcome := c.Confirm(tok, item{ID: "2", Name: "new"}); outcome != optimistic.Applied {
		t.Fatalf("unexpected outcome %v", outcome)
	}
	state := c.State()
	if got := ids(state.Items); !reflect.DeepEqual(got, []string{"2", "1"}) {
		t.Fatalf("expected server item in place of placeholder: %v", got)
	}
	if state.Creating {
		t.Fatalf("creating flag should clear")
	}
}

func TestCreateConfirmWithoutPlaceholderPrepends(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	tok := c.BeginCreate(nil)
	if outcome := c.Confirm(tok, item{ID: "2"}); outcome != optimistic.Inserted {
		t.Fatalf("expected Inserted, got %v", outcome)
	}
	if got := ids(c.State().Items); !reflect.DeepEqual(got, []string{"2", "1"}) {
		t.Fatalf("unexpected items %v", got)
	}
}

func TestCreateRevertRemovesAllTempItems(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	c.BeginCreate(&item{ID: "temp-a"})
	tok := c.BeginCreate(&item{ID: "temp-b"})
	c.Revert(tok, &apperrors.RemoteError{Status: 500, Message: "boom"})
	state := c.State()
	if got := ids(state.Items); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("temp items should be gone: %v", got)
	}
	if state.Error != "boom" {
		t.Fatalf("expected remote message, got %q", state.Error)
	}
}

func TestDeleteRevertRestoresIdenticalItem(t *testing.T) {
	t.Parallel()
	original := item{ID: "1", Name: "keep", Tags: []string{"x", "y"}, Score: 7}
	c := seeded(original, item{ID: "2"})
	tok := c.BeginDelete("1")
	state := c.State()
	if got := ids(state.Items); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("item should be removed immediately: %v", got)
	}
	if state.DeletingID != "1" || state.OptimisticRemoved == nil {
		t.Fatalf("delete flags not set %+v", state)
	}

	c.Revert(tok, errors.New("offline"))
	state = c.State()
	if len(state.Items) != 2 || !reflect.DeepEqual(state.Items[1], original) {
		t.Fatalf("expected identical item appended, got %+v", state.Items)
	}
	if state.DeletingID != "" || state.OptimisticRemoved != nil || state.Error != "offline" {
		t.Fatalf("unexpected flags %+v", state)
	}
}

func TestDeleteConfirmIsIdempotent(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	tok := c.BeginDelete("1")
	c.Confirm(tok, item{})
	c.Confirm(tok, item{})
	state := c.State()
	if len(state.Items) != 0 || state.DeletingID != "" || state.OptimisticRemoved != nil {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestUpdateWithoutMergeLeavesItemOnFailure(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1", Name: "old"})
	tok := c.BeginUpdate("1", nil)
	if c.State().UpdatingID != "1" {
		t.Fatalf("updating id should be set")
	}
	c.Revert(tok, nil)
	state := c.State()
	if state.Items[0].Name != "old" || state.UpdatingID != "" || state.Error != messages.Update {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestUpdateMergeRevertRestoresPrior(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1", Tags: []string{"a"}})
	tok := c.BeginUpdate("1", func(i item) item {
		i.Tags = append([]string{}, "a", "b")
		return i
	})
	if got := c.State().Items[0].Tags; len(got) != 2 {
		t.Fatalf("merge should apply immediately: %v", got)
	}
	c.Revert(tok, errors.New("nope"))
	if got := c.State().Items[0].Tags; !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("prior item should be restored: %v", got)
	}
}

func TestStaleUpdateConfirmationIsDiscarded(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1", Name: "v0"})
	first := c.BeginUpdate("1", nil)
	second := c.BeginUpdate("1", nil)

	if outcome := c.Confirm(second, item{ID: "1", Name: "v2"}); outcome != optimistic.Applied {
		t.Fatalf("newest confirmation should apply, got %v", outcome)
	}
	if outcome := c.Confirm(first, item{ID: "1", Name: "v1"}); outcome != optimistic.Stale {
		t.Fatalf("older confirmation should be stale, got %v", outcome)
	}
	if got := c.State().Items[0].Name; got != "v2" {
		t.Fatalf("expected v2 to win, got %s", got)
	}
}

func TestUpdateConfirmMissingItem(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	tok := c.BeginUpdate("9", nil)
	if outcome := c.Confirm(tok, item{ID: "9"}); outcome != optimistic.Missing {
		t.Fatalf("expected Missing, got %v", outcome)
	}
	if len(c.State().Items) != 1 {
		t.Fatalf("missing update must not insert")
	}
}

func TestErrorPersistsUntilCleared(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1"})
	tok := c.BeginUpdate("1", nil)
	c.Revert(tok, errors.New("bad"))
	tok = c.BeginUpdate("1", nil)
	c.Confirm(tok, item{ID: "1"})
	if c.State().Error != "bad" {
		t.Fatalf("unrelated success should not clear error")
	}
	c.ClearError()
	if c.State().Error != "" {
		t.Fatalf("error should clear")
	}
}

func TestSubscribersRunInOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()
	c := newContainer()
	var calls []string
	cancelA := c.Subscribe(func() { calls = append(calls, "a") })
	c.Subscribe(func() {
		calls = append(calls, "b")
		_ = c.State()
	})
	c.ClearError()
	cancelA()
	c.ClearError()
	if want := []string{"a", "b", "b"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestSnapshotRestoreResetsFlags(t *testing.T) {
	t.Parallel()
	c := seeded(item{ID: "1", Tags: []string{"t"}})
	tok := c.BeginUpdate("1", nil)
	c.Revert(tok, errors.New("bad"))
	snap := c.Snapshot()

	other := newContainer()
	other.BeginFetch()
	other.BeginDelete("x")
	other.Restore(snap)
	state := other.State()
	if !reflect.DeepEqual(state.Items, snap.Items) || state.Error != "bad" {
		t.Fatalf("restore mismatch %+v", state)
	}
	if state.Loading || state.DeletingID != "" || state.Creating {
		t.Fatalf("flags should reset %+v", state)
	}
}
