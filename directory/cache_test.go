package directory_test

import (
	"testing"

	"github.com/wadash/wadash/core/protocol"
	"github.com/wadash/wadash/directory"
)

func TestCache_ReplaceAll(t *testing.T) {
	c := directory.NewCache()
	c.Merge([]protocol.Contact{{Address: "1@dm", DisplayName: "Old"}})

	c.ReplaceAll([]protocol.Contact{
		{Address: "2@dm", DisplayName: "Alice"},
		{Address: "", DisplayName: "no address"},
	})

	if _, ok := c.Contact("1@dm"); ok {
		t.Error("contact from before ReplaceAll should be gone")
	}
	contact, ok := c.Contact("2@dm")
	if !ok || contact.DisplayName != "Alice" {
		t.Errorf("got %+v, ok=%v, want Alice", contact, ok)
	}
	if contacts, _ := c.Counts(); contacts != 1 {
		t.Errorf("got %d contacts, want 1 (empty address skipped)", contacts)
	}
}

func TestCache_Merge(t *testing.T) {
	tests := []struct {
		name    string
		initial []protocol.Contact
		updates []protocol.Contact
		address string
		want    protocol.Contact
	}{
		{
			name:    "insert unknown address",
			updates: []protocol.Contact{{Address: "1@dm", PushName: "ali"}},
			address: "1@dm",
			want:    protocol.Contact{Address: "1@dm", PushName: "ali"},
		},
		{
			name:    "non-empty fields overwrite",
			initial: []protocol.Contact{{Address: "1@dm", DisplayName: "Alice", PushName: "old"}},
			updates: []protocol.Contact{{Address: "1@dm", PushName: "new"}},
			address: "1@dm",
			want:    protocol.Contact{Address: "1@dm", DisplayName: "Alice", PushName: "new"},
		},
		{
			name:    "empty fields preserved",
			initial: []protocol.Contact{{Address: "1@dm", DisplayName: "Alice"}},
			updates: []protocol.Contact{{Address: "1@dm"}},
			address: "1@dm",
			want:    protocol.Contact{Address: "1@dm", DisplayName: "Alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := directory.NewCache()
			c.Merge(tt.initial)
			c.Merge(tt.updates)

			got, ok := c.Contact(tt.address)
			if !ok {
				t.Fatalf("contact %q not found", tt.address)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCache_Merge_Idempotent(t *testing.T) {
	c := directory.NewCache()
	update := []protocol.Contact{{Address: "1@dm", DisplayName: "Alice", PushName: "ali"}}

	c.Merge(update)
	first, _ := c.Contact("1@dm")
	c.Merge(update)
	second, _ := c.Contact("1@dm")

	if first != second {
		t.Errorf("repeated merge changed state: %+v vs %+v", first, second)
	}
}

func TestCache_Merge_AfterReplaceAll_InsertsFresh(t *testing.T) {
	c := directory.NewCache()
	c.Merge([]protocol.Contact{{Address: "1@dm", DisplayName: "Alice", PushName: "ali"}})

	// Full resync omits the contact, deleting it.
	c.ReplaceAll(nil)

	// A later incremental update for the same address must insert a brand
	// new record, not resurrect the deleted fields.
	c.Merge([]protocol.Contact{{Address: "1@dm", PushName: "ali2"}})

	got, ok := c.Contact("1@dm")
	if !ok {
		t.Fatal("contact not inserted")
	}
	if got.DisplayName != "" {
		t.Errorf("deleted display name resurrected: %+v", got)
	}
	if got.PushName != "ali2" {
		t.Errorf("got push name %q, want %q", got.PushName, "ali2")
	}
}

func TestCache_ContactByName_CaseInsensitive(t *testing.T) {
	c := directory.NewCache()
	c.Merge([]protocol.Contact{
		{Address: "1@dm", DisplayName: "Alice"},
		{Address: "2@dm", PushName: "bob"}, // no display name, never matched
	})

	contact, ok := c.ContactByName("aLiCe")
	if !ok || contact.Address != "1@dm" {
		t.Errorf("got %+v, ok=%v, want address 1@dm", contact, ok)
	}

	if _, ok := c.ContactByName("bob"); ok {
		t.Error("push name must not match ContactByName")
	}
}

func TestCache_Groups(t *testing.T) {
	c := directory.NewCache()
	c.CacheGroup(protocol.GroupInfo{Address: "120363xyz@grp", Subject: "Team"})

	group, ok := c.Group("120363xyz@grp")
	if !ok || group.Subject != "Team" {
		t.Errorf("got %+v, ok=%v, want subject Team", group, ok)
	}

	group, ok = c.GroupBySubject("tEaM")
	if !ok || group.Address != "120363xyz@grp" {
		t.Errorf("got %+v, ok=%v, want address 120363xyz@grp", group, ok)
	}

	if _, ok := c.GroupBySubject("Other"); ok {
		t.Error("unknown subject should not match")
	}
}
